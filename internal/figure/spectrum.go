package figure

import (
	"github.com/litescript/ls-obstars/internal/spectrum"
)

// Spectrum panel titles.
const (
	SpectrumPrompt      = "Click on a star to see its spectrum"
	SpectrumUnavailable = "IUE spectrum unavailable for this star"
)

// Spectrum draws a resolved spectrum with its shaded line windows.
func Spectrum(r *spectrum.Renderable) Figure {
	if r == nil {
		return SpectrumPlaceholder(SpectrumPrompt)
	}

	fig := Figure{
		Data: make([]Trace, 0, len(r.Lines)+len(r.Windows)),
		Layout: Layout{
			Title: &Title{Text: r.Title},
			XAxis: &Axis{Title: &Title{Text: "Wavelength (Å)"}},
			YAxis: &Axis{
				Title:          &Title{Text: "Specific Flux Density"},
				ShowTickLabels: boolPtr(false),
			},
			Margin:     &Margin{L: 10, R: 10, T: 35, B: 35},
			ShowLegend: boolPtr(false),
		},
		Config: defaultConfig,
	}

	for _, l := range r.Lines {
		fig.Data = append(fig.Data, Trace{
			Type: "scatter",
			Name: l.Name,
			Mode: "lines",
			X:    l.X,
			Y:    l.Y,
			Line: &Line{Color: l.Color, Width: floatPtr(2), Dash: l.Dash},
		})
	}

	for _, w := range r.Windows {
		fig.Data = append(fig.Data, Trace{
			Type:       "scatter",
			Mode:       "none",
			X:          []float64{w.From, w.To, w.To, w.From},
			Y:          []float64{r.FluxMin, r.FluxMin, r.FluxMax, r.FluxMax},
			Fill:       "toself",
			FillColor:  w.Fill,
			HoverInfo:  "skip",
			ShowLegend: boolPtr(false),
		})
	}

	for i, n := range r.Notes {
		fig.Layout.Annotations = append(fig.Layout.Annotations, Annotation{
			Text: n,
			X:    0.01,
			Y:    0.98 - 0.07*float64(i),
			XRef: "paper",
			YRef: "paper",
		})
	}

	return fig
}

// SpectrumPlaceholder is an empty spectrum panel showing title.
func SpectrumPlaceholder(title string) Figure {
	return placeholder(title)
}
