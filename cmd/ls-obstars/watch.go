package main

import (
	"context"
	"strings"

	"github.com/litescript/ls-obstars/internal/source"
	"github.com/litescript/ls-obstars/internal/watch"
)

// startWatcher watches the catalog files of a local data directory. It
// returns nil when the data comes over HTTP.
func startWatcher(e *env) (*watch.Watcher, error) {
	dir, ok := e.src.(*source.Dir)
	if !ok {
		e.log.Warn("watch ignored: %s is not a local directory", e.src.Describe())
		return nil, nil
	}

	files := []string{e.cfg.CatalogFile, e.cfg.EmissionFile, e.cfg.NighttimeFile}
	w, err := watch.New(dir.Root(), files, watch.WithLogger(e.log.With("watch")))
	if err != nil {
		return nil, err
	}
	if err := w.Start(); err != nil {
		return nil, err
	}
	e.log.Info("watching %s", dir.Root())
	return w, nil
}

// reloadOnChange reloads the catalog after every change until ctx is done.
// The current star's spectrum is resolved again against the new data.
func reloadOnChange(ctx context.Context, e *env, changes <-chan watch.Change) {
	for {
		select {
		case <-ctx.Done():
			return
		case c, ok := <-changes:
			if !ok {
				return
			}
			e.log.Info("data changed (%s), reloading", strings.Join(c.Files, ", "))
			req, hasReq, err := e.ctrl.Reload(ctx)
			if err != nil {
				continue
			}
			if hasReq {
				e.ctrl.Resolve(ctx, req)
			}
		}
	}
}
