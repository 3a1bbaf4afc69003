// Package watch reports changes to catalog files in a data directory.
package watch

import (
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/litescript/ls-obstars/internal/logging"
)

// DefaultDebounce is how long the directory must be quiet before a change
// is reported.
const DefaultDebounce = 200 * time.Millisecond

// Change lists the watched files touched during one quiet period.
type Change struct {
	Files []string
}

// Watcher monitors a data directory for writes, creates and removes of a
// fixed set of files.
type Watcher struct {
	Dir     string
	Changes <-chan Change

	changes  chan Change
	done     chan struct{}
	files    map[string]bool
	debounce time.Duration
	watcher  *fsnotify.Watcher
	log      *logging.Logger

	started  bool
	stopOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the quiet period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the watcher logger.
func WithLogger(l *logging.Logger) Option {
	return func(w *Watcher) {
		w.log = l
	}
}

// New creates a watcher for files, given relative to dir. Empty names are
// ignored.
func New(dir string, files []string, opts ...Option) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan Change, 1)
	w := &Watcher{
		Dir:      dir,
		Changes:  ch,
		changes:  ch,
		done:     make(chan struct{}),
		files:    make(map[string]bool, len(files)),
		debounce: DefaultDebounce,
		watcher:  fw,
		log:      logging.Discard(),
	}
	for _, f := range files {
		if f == "" {
			continue
		}
		w.files[filepath.Clean(filepath.Join(dir, f))] = true
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching the directory. A failed Start releases the
// watcher; Stop is then a no-op.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.Dir); err != nil {
		w.Stop()
		return err
	}
	w.started = true
	go w.loop()
	return nil
}

// Stop closes the watcher and the Changes channel. It may be called more
// than once, and without a successful Start.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		w.watcher.Close()
		if w.started {
			<-w.done
		}
		close(w.changes)
	})
}

func (w *Watcher) loop() {
	defer close(w.done)

	pending := make(map[string]bool)
	var last time.Time
	ticker := time.NewTicker(w.debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Clean(event.Name)
			if !w.files[name] {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				pending[name] = true
				last = time.Now()
			}

		case <-ticker.C:
			if len(pending) == 0 || time.Since(last) < w.debounce {
				continue
			}
			w.emit(pending)
			pending = make(map[string]bool)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch %s: %v", w.Dir, err)
		}
	}
}

// emit reports pending without blocking. When a change is already queued
// the reader will reload anyway, so this one is folded into it.
func (w *Watcher) emit(pending map[string]bool) {
	files := make([]string, 0, len(pending))
	for f := range pending {
		files = append(files, f)
	}
	sort.Strings(files)

	select {
	case w.changes <- Change{Files: files}:
		w.log.Debug("change: %v", files)
	default:
		w.log.Debug("change already queued; folding %v", files)
	}
}
