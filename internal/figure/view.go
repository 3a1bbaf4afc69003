package figure

import (
	"time"

	"github.com/litescript/ls-obstars/internal/astro"
	"github.com/litescript/ls-obstars/internal/catalog"
	"github.com/litescript/ls-obstars/internal/series"
	"github.com/litescript/ls-obstars/internal/state"
)

// Options carries configuration that is not part of state.
type Options struct {
	Sky        SkyOptions
	Observer   astro.Observer
	NightDates []time.Time
}

// Status summarizes the view for status lines.
type Status struct {
	CatalogLoaded bool   `json:"catalogLoaded"`
	Source        string `json:"source,omitempty"`
	Stars         int    `json:"stars"`
	Shown         int    `json:"shown"`
	Selected      int    `json:"selected"`
	LoadError     string `json:"loadError,omitempty"`
	Spectrum      string `json:"spectrum"`
}

// View is everything the page shows, derived from one snapshot.
type View struct {
	Sky       Figure             `json:"sky"`
	Spectrum  Figure             `json:"spectrum"`
	Night     Figure             `json:"night"`
	Info      Panel              `json:"info"`
	Pixel     Panel              `json:"pixel"`
	Selection Panel              `json:"selection"`
	Filter    series.FilterState `json:"filter"`
	Status    Status             `json:"status"`
}

// Build regenerates the whole view from snap. It performs no I/O.
func Build(snap state.Snapshot, opts Options) View {
	v := View{
		Filter:    snap.Filter,
		Info:      InfoPanel(snap.Current),
		Selection: SelectionPanel(snap.Selected),
		Spectrum:  SpectrumFor(snap.Spectrum, snap.Current),
		Status: Status{
			Selected: len(snap.Selected),
			Spectrum: snap.Spectrum.Status.String(),
		},
	}
	if snap.LoadError != nil {
		v.Status.LoadError = snap.LoadError.Error()
	}

	cat := snap.Catalog
	if cat == nil {
		v.Sky = SkyUnavailable()
		v.Pixel = PixelPanel(nil, nil)
		v.Night = NightPlaceholder()
		return v
	}

	ss := series.Build(cat.Stars, snap.Filter)
	v.Sky = Sky(ss, cat.Emission, snap.Filter, opts.Sky)
	v.Pixel = PixelPanel(cat.Emission, snap.Current)
	v.Night = Night(NightSamples(cat, snap.Current, opts), opts.NightDates)
	v.Status.CatalogLoaded = true
	v.Status.Source = cat.Source
	v.Status.Stars = len(cat.Stars)
	v.Status.Shown = series.Count(ss)
	return v
}

// SpectrumFor picks the spectrum figure for the panel state. While a request
// is in flight the previous spectrum stays on screen.
func SpectrumFor(panel state.SpectrumPanel, current *catalog.Star) Figure {
	switch panel.Status {
	case state.SpectrumReady:
		return Spectrum(panel.Renderable)
	case state.SpectrumLoading:
		if panel.Renderable != nil {
			return Spectrum(panel.Renderable)
		}
		return SpectrumPlaceholder("Loading spectrum for " + panel.Star)
	case state.SpectrumUnavailable:
		return SpectrumPlaceholder(SpectrumUnavailable)
	}
	if current != nil && !current.HasSpectra {
		return SpectrumPlaceholder(SpectrumUnavailable)
	}
	return SpectrumPlaceholder(SpectrumPrompt)
}

// NightSamples returns the nighttime fractions for star: the precomputed
// table entry when present, otherwise computed for opts.NightDates.
func NightSamples(cat *catalog.Catalog, star *catalog.Star, opts Options) []float64 {
	if star == nil {
		return nil
	}
	if cat != nil {
		if v, ok := cat.Night.Lookup(star.Name); ok {
			return v
		}
	}
	if len(opts.NightDates) == 0 {
		return nil
	}
	return astro.NightSeries(star.GalacticLongitude, star.GalacticLatitude, opts.Observer, opts.NightDates)
}
