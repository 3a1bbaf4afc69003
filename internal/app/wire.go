package app

import (
	"github.com/litescript/ls-obstars/internal/astro"
	"github.com/litescript/ls-obstars/internal/catalog"
	"github.com/litescript/ls-obstars/internal/config"
	"github.com/litescript/ls-obstars/internal/figure"
	"github.com/litescript/ls-obstars/internal/logging"
	"github.com/litescript/ls-obstars/internal/source"
	"github.com/litescript/ls-obstars/internal/spectrum"
)

// NewFromConfig builds the source, loader, resolver and controller
// described by cfg. The source is returned so callers can watch it.
func NewFromConfig(cfg config.Config, log *logging.Logger) (*Controller, source.Source) {
	src := source.New(cfg.DataDir, cfg.DataURL, cfg.Timeout)

	loader := catalog.NewLoader(src, catalog.Files{
		Stars:     cfg.CatalogFile,
		Emission:  cfg.EmissionFile,
		Nighttime: cfg.NighttimeFile,
	}, catalog.WithLogger(log.With("catalog")))

	var fitter spectrum.ContinuumFitter
	if cfg.Continuum == config.ContinuumChebyshev {
		fitter = spectrum.NewChebyshevFitter()
	}
	resolver := spectrum.NewResolver(src,
		spectrum.WithFitter(fitter),
		spectrum.WithSpectraDir(cfg.SpectraDir),
		spectrum.WithLogger(log.With("spectrum")),
	)

	c := New(loader, resolver,
		WithLogger(log.With("app")),
		WithFigureOptions(FigureOptions(cfg)),
	)
	return c, src
}

// FigureOptions maps configuration onto figure options.
func FigureOptions(cfg config.Config) figure.Options {
	return figure.Options{
		Sky: figure.SkyOptions{ZMin: cfg.Emission.ZMin, ZMax: cfg.Emission.ZMax},
		Observer: astro.Observer{
			Name:   cfg.Observer.Name,
			LatDeg: cfg.Observer.Lat,
			LonDeg: cfg.Observer.Lon,
		},
		NightDates: cfg.NightDates(),
	}
}
