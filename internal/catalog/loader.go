package catalog

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/litescript/ls-obstars/internal/emission"
	"github.com/litescript/ls-obstars/internal/logging"
	"github.com/litescript/ls-obstars/internal/source"
)

// Files names the catalog resources relative to the source root.
// Empty optional names disable that file.
type Files struct {
	Stars     string
	Emission  string
	Nighttime string
}

// Loader fetches and parses a catalog from a source.
type Loader struct {
	src   source.Source
	files Files
	log   *logging.Logger
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithLogger sets the logger used for degraded optional files.
func WithLogger(l *logging.Logger) LoaderOption {
	return func(ld *Loader) {
		ld.log = l
	}
}

// NewLoader creates a loader.
func NewLoader(src source.Source, files Files, opts ...LoaderOption) *Loader {
	ld := &Loader{
		src:   src,
		files: files,
		log:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(ld)
	}
	return ld
}

// Load fetches the three catalog files concurrently. A star table failure
// fails the load with ErrDataUnavailable; the emission map and nighttime
// table degrade to nil.
func (ld *Loader) Load(ctx context.Context) (*Catalog, error) {
	var (
		stars []Star
		grid  *emission.Grid
		night NightTable
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		data, err := ld.src.Fetch(gctx, ld.files.Stars)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrDataUnavailable, err)
		}
		parsed, err := ParseStars(data)
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrDataUnavailable, ld.files.Stars, err)
		}
		stars = parsed
		return nil
	})

	if ld.files.Emission != "" {
		g.Go(func() error {
			data, ok := ld.fetchOptional(gctx, ld.files.Emission)
			if !ok {
				return nil
			}
			parsed, err := emission.Parse(data)
			if err != nil {
				ld.log.Warn("%s: %v; heatmap disabled", ld.files.Emission, fmt.Errorf("%w: %w", ErrMalformedPayload, err))
				return nil
			}
			grid = parsed
			return nil
		})
	}

	if ld.files.Nighttime != "" {
		g.Go(func() error {
			data, ok := ld.fetchOptional(gctx, ld.files.Nighttime)
			if !ok {
				return nil
			}
			parsed, err := ParseNightTable(data)
			if err != nil {
				ld.log.Warn("%s: %v; nighttime fractions will be computed", ld.files.Nighttime, err)
				return nil
			}
			night = parsed
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	ld.log.Info("loaded %d stars from %s", len(stars), ld.src.Describe())
	return &Catalog{
		Stars:    stars,
		Emission: grid,
		Night:    night,
		Source:   ld.src.Describe(),
	}, nil
}

func (ld *Loader) fetchOptional(ctx context.Context, name string) ([]byte, bool) {
	data, err := ld.src.Fetch(ctx, name)
	switch {
	case err == nil:
		return data, true
	case errors.Is(err, source.ErrNotFound):
		ld.log.Info("%s not present; skipping", name)
	case ctx.Err() != nil:
		// The star table failed first; nothing to report.
	default:
		ld.log.Warn("fetch %s: %v", name, err)
	}
	return nil, false
}
