package spectrum

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/litescript/ls-obstars/internal/catalog"
	"github.com/litescript/ls-obstars/internal/logging"
	"github.com/litescript/ls-obstars/internal/source"
)

// LineKind tags a line in a Renderable.
type LineKind string

const (
	KindSpectrum    LineKind = "spectrum"
	KindMean        LineKind = "mean"
	KindContinuum   LineKind = "continuum"
	KindPlaceholder LineKind = "continuum-placeholder"
)

// Line colors and dashes.
const (
	ColorSpectrum    = "black"
	ColorMean        = "red"
	ColorContinuum   = "blue"
	ColorPlaceholder = "gray"

	DashSolid = "solid"
	DashLong  = "longdash"
	DashDot   = "dot"
)

// Line is one drawable polyline.
type Line struct {
	Name  string
	Kind  LineKind
	X     []float64
	Y     []float64
	Color string
	Dash  string
}

// Window is a shaded wavelength band.
type Window struct {
	Band
	Fill string
}

// Windows shaded on every spectrum figure.
var Windows = []Window{
	{Band: Band{From: 1395, To: 1405}, Fill: "rgba(255,200,200,0.5)"},
	{Band: Band{From: 1605, To: 1615}, Fill: "rgba(200,200,255,0.5)"},
}

// Renderable is a resolved spectrum ready for a figure.
type Renderable struct {
	Star    string
	Title   string
	Lines   []Line
	Windows []Window
	FluxMin float64
	FluxMax float64

	// Placeholder is set when the continuum overlay is illustrative only.
	Placeholder bool
	Notes       []string
}

// Options selects the resolve transforms.
type Options struct {
	Normalize     bool
	ShowContinuum bool
}

// Resolver loads spectra for stars on demand.
type Resolver struct {
	src        source.Source
	spectraDir string
	fitter     ContinuumFitter
	log        *logging.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithFitter sets the continuum fitter. A nil fitter yields placeholder overlays.
func WithFitter(f ContinuumFitter) ResolverOption {
	return func(r *Resolver) {
		r.fitter = f
	}
}

// WithSpectraDir sets the directory used to derive spectrum locations.
func WithSpectraDir(dir string) ResolverOption {
	return func(r *Resolver) {
		r.spectraDir = dir
	}
}

// WithLogger sets the resolver logger.
func WithLogger(l *logging.Logger) ResolverOption {
	return func(r *Resolver) {
		r.log = l
	}
}

// NewResolver creates a resolver reading from src.
func NewResolver(src source.Source, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		src:        src,
		spectraDir: "spectra",
		log:        logging.Discard(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Ref returns the location of a star's spectrum: its explicit reference
// when set, otherwise <spectraDir>/<name with spaces as underscores>.json.
func (r *Resolver) Ref(star catalog.Star) string {
	if star.SpectrumRef != "" {
		return star.SpectrumRef
	}
	return path.Join(r.spectraDir, strings.ReplaceAll(star.Name, " ", "_")+".json")
}

// Resolve fetches and transforms the spectrum of star. Every failure is
// reported as ErrUnavailable.
func (r *Resolver) Resolve(ctx context.Context, star catalog.Star, opts Options) (*Renderable, error) {
	if !star.HasSpectra {
		return nil, fmt.Errorf("%s: %w", star.Name, ErrUnavailable)
	}

	ref := r.Ref(star)
	data, err := r.src.Fetch(ctx, ref)
	if err != nil {
		r.log.Debug("fetch %s: %v", ref, err)
		return nil, fmt.Errorf("%s: %w: %w", star.Name, ErrUnavailable, err)
	}

	rec, err := Parse(data)
	if err != nil {
		r.log.Warn("%s: %v", ref, err)
		return nil, fmt.Errorf("%s: %w: %w", star.Name, ErrUnavailable, err)
	}

	return r.Build(star.Name, rec, opts), nil
}

// Build transforms an already parsed record. It never fails.
func (r *Resolver) Build(name string, rec *Record, opts Options) *Renderable {
	out := &Renderable{
		Star:    name,
		Title:   "Star: " + strings.ReplaceAll(name, " ", "_"),
		Windows: Windows,
	}

	if opts.Normalize {
		var notes []string
		rec, notes = Normalize(rec)
		out.Notes = append(out.Notes, notes...)
	}

	for i, ch := range rec.Channels {
		lineName := name
		if len(rec.Channels) > 1 {
			lineName = fmt.Sprintf("%s #%d", name, i+1)
		}
		out.Lines = append(out.Lines, Line{
			Name:  lineName,
			Kind:  KindSpectrum,
			X:     ch.Wavelengths,
			Y:     ch.Fluxes,
			Color: ColorSpectrum,
			Dash:  DashSolid,
		})
	}

	if lo, hi, ok := rec.FluxRange(); ok {
		out.FluxMin, out.FluxMax = lo, hi
	}

	if opts.ShowContinuum {
		r.addContinuum(out, rec)
	}
	return out
}

func (r *Resolver) addContinuum(out *Renderable, rec *Record) {
	mean, ok := rec.Mean()
	if !ok {
		out.Notes = append(out.Notes, "no samples to fit a continuum to")
		return
	}

	if r.fitter != nil {
		cont, err := r.fitter.Fit(mean.Wavelengths, mean.Fluxes)
		if err == nil {
			out.Lines = append(out.Lines,
				Line{Name: "Mean spectrum", Kind: KindMean, X: mean.Wavelengths, Y: mean.Fluxes, Color: ColorMean, Dash: DashSolid},
				Line{Name: "Continuum fit", Kind: KindContinuum, X: mean.Wavelengths, Y: cont, Color: ColorContinuum, Dash: DashLong},
			)
			return
		}
		r.log.Debug("%s: %v", out.Star, err)
		out.Notes = append(out.Notes, "continuum fit failed: "+err.Error())
	}

	y := make([]float64, len(mean.Fluxes))
	copy(y, mean.Fluxes)
	out.Placeholder = true
	out.Lines = append(out.Lines, Line{
		Name:  "Continuum (placeholder)",
		Kind:  KindPlaceholder,
		X:     mean.Wavelengths,
		Y:     y,
		Color: ColorPlaceholder,
		Dash:  DashDot,
	})
	out.Notes = append(out.Notes, "continuum overlay is illustrative only")
}
