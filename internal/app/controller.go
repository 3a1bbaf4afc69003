// Package app ties the catalog loader, the selection state and the spectrum
// resolver together. The TUI and the HTTP server drive the same Controller.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/litescript/ls-obstars/internal/catalog"
	"github.com/litescript/ls-obstars/internal/figure"
	"github.com/litescript/ls-obstars/internal/logging"
	"github.com/litescript/ls-obstars/internal/series"
	"github.com/litescript/ls-obstars/internal/spectrum"
	"github.com/litescript/ls-obstars/internal/state"
)

var (
	// ErrNoCatalog is returned by star operations before a catalog loads.
	ErrNoCatalog = errors.New("catalog not loaded")

	// ErrUnknownStar is returned when a name is not in the catalog.
	ErrUnknownStar = errors.New("unknown star")
)

// SpectrumRequest is a pending spectrum resolve. Token ties the result to
// the click that started it.
type SpectrumRequest struct {
	Token   uint64
	Star    catalog.Star
	Options spectrum.Options
}

// Controller runs the click, toggle, export and reload flows.
type Controller struct {
	state    *state.Manager
	loader   *catalog.Loader
	resolver *spectrum.Resolver
	figOpts  figure.Options
	log      *logging.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller logger.
func WithLogger(l *logging.Logger) Option {
	return func(c *Controller) {
		c.log = l
	}
}

// WithFigureOptions sets the options passed to figure.Build.
func WithFigureOptions(o figure.Options) Option {
	return func(c *Controller) {
		c.figOpts = o
	}
}

// WithState uses an existing state manager.
func WithState(m *state.Manager) Option {
	return func(c *Controller) {
		c.state = m
	}
}

// New creates a controller. Call Load before serving views.
func New(loader *catalog.Loader, resolver *spectrum.Resolver, opts ...Option) *Controller {
	c := &Controller{
		loader:   loader,
		resolver: resolver,
		figOpts:  figure.Options{Sky: figure.DefaultSkyOptions()},
		log:      logging.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.state == nil {
		c.state = state.NewManager(state.DefaultConfig())
	}
	return c
}

// State returns the underlying state manager.
func (c *Controller) State() *state.Manager {
	return c.state
}

// Load fetches the catalog and records the outcome. On failure the
// previously loaded catalog, if any, stays in place.
func (c *Controller) Load(ctx context.Context) error {
	start := time.Now()
	cat, err := c.loader.Load(ctx)
	elapsed := time.Since(start)

	c.state.SetCatalog(cat, elapsed, err)
	if err != nil {
		c.log.Error("catalog load failed: %v", err)
		return err
	}
	c.log.Info("catalog ready: %d stars in %v", len(cat.Stars), elapsed.Round(time.Millisecond))
	return nil
}

// Reload is Load after a data change. The selection is re-bound to the new
// catalog and, if a star is current, its spectrum is requested again.
func (c *Controller) Reload(ctx context.Context) (SpectrumRequest, bool, error) {
	if err := c.Load(ctx); err != nil {
		return SpectrumRequest{}, false, err
	}
	snap := c.state.Snapshot()
	if snap.Current == nil {
		return SpectrumRequest{}, false, nil
	}
	return c.begin(*snap.Current, snap.Filter), true, nil
}

// View regenerates the full view from the current state.
func (c *Controller) View() figure.View {
	return figure.Build(c.state.Snapshot(), c.figOpts)
}

// FigureOptions returns the options used to build views.
func (c *Controller) FigureOptions() figure.Options {
	return c.figOpts
}

// SetFilter replaces the toggles. When a spectrum transform changed and a
// star is current, a new spectrum request is returned.
func (c *Controller) SetFilter(f series.FilterState) (SpectrumRequest, bool) {
	old := c.state.Filter()
	c.state.SetFilter(f)
	return c.refreshSpectrum(old, f)
}

// Toggle flips one toggle via fn. It behaves like SetFilter.
func (c *Controller) Toggle(fn func(*series.FilterState)) (SpectrumRequest, bool) {
	old := c.state.Filter()
	f := c.state.UpdateFilter(fn)
	return c.refreshSpectrum(old, f)
}

func (c *Controller) refreshSpectrum(old, f series.FilterState) (SpectrumRequest, bool) {
	if old.Normalize == f.Normalize && old.ShowContinuum == f.ShowContinuum {
		return SpectrumRequest{}, false
	}
	snap := c.state.Snapshot()
	if snap.Current == nil {
		return SpectrumRequest{}, false
	}
	return c.begin(*snap.Current, f), true
}

// Click makes the named star current, adds it to the selection and starts
// a spectrum request. The caller resolves the request, inline or in the
// background.
func (c *Controller) Click(name string) (SpectrumRequest, error) {
	cat := c.state.Catalog()
	if cat == nil {
		return SpectrumRequest{}, ErrNoCatalog
	}
	star, ok := cat.Find(name)
	if !ok {
		return SpectrumRequest{}, fmt.Errorf("%w: %q", ErrUnknownStar, name)
	}

	token, added, f := c.state.Click(star)
	if added {
		c.log.Debug("selected %s", star.Name)
	}
	return newRequest(token, star, f), nil
}

func (c *Controller) begin(star catalog.Star, f series.FilterState) SpectrumRequest {
	return newRequest(c.state.BeginSpectrum(star.Name), star, f)
}

func newRequest(token uint64, star catalog.Star, f series.FilterState) SpectrumRequest {
	return SpectrumRequest{
		Token:   token,
		Star:    star,
		Options: spectrum.Options{Normalize: f.Normalize, ShowContinuum: f.ShowContinuum},
	}
}

// Fetch runs the resolve for req without touching state.
func (c *Controller) Fetch(ctx context.Context, req SpectrumRequest) (*spectrum.Renderable, error) {
	return c.resolver.Resolve(ctx, req.Star, req.Options)
}

// Apply stores a resolve result. Results for superseded requests are
// dropped and false is returned.
func (c *Controller) Apply(req SpectrumRequest, r *spectrum.Renderable, err error) bool {
	if err != nil {
		c.log.Debug("spectrum %s: %v", req.Star.Name, err)
	}
	if !c.state.ApplySpectrum(req.Token, r, err) {
		c.log.Debug("discarding stale spectrum for %s (token %d)", req.Star.Name, req.Token)
		return false
	}
	return true
}

// Resolve fetches and applies req.
func (c *Controller) Resolve(ctx context.Context, req SpectrumRequest) bool {
	r, err := c.Fetch(ctx, req)
	return c.Apply(req, r, err)
}

// ClickAndResolve is Click followed by an inline Resolve.
func (c *Controller) ClickAndResolve(ctx context.Context, name string) error {
	req, err := c.Click(name)
	if err != nil {
		return err
	}
	c.Resolve(ctx, req)
	return nil
}

// Spectrum resolves the named star's spectrum with opts, leaving state
// untouched.
func (c *Controller) Spectrum(ctx context.Context, name string, opts spectrum.Options) (*spectrum.Renderable, error) {
	cat := c.state.Catalog()
	if cat == nil {
		return nil, ErrNoCatalog
	}
	star, ok := cat.Find(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStar, name)
	}
	return c.resolver.Resolve(ctx, star, opts)
}

// Export writes the selection as CSV to w and logs it against dest. It
// returns state.ErrNothingSelected for an empty selection. The selection
// is kept.
func (c *Controller) Export(w io.Writer, dest string) (int, error) {
	sel := c.state.Selected()
	if err := state.WriteCSV(w, sel); err != nil {
		return 0, err
	}
	c.state.RecordExport(len(sel), dest)
	c.log.Info("exported %d stars to %s", len(sel), dest)
	return len(sel), nil
}

// ClearSelection empties the selection.
func (c *Controller) ClearSelection() {
	c.state.ClearSelected()
}
