package figure

import (
	"time"
)

// Night plots the percentage of night time a star is above the horizon on
// each sampled date. dates may be nil, in which case points are unlabeled.
func Night(samples []float64, dates []time.Time) Figure {
	if len(samples) == 0 {
		return NightPlaceholder()
	}

	x := make([]float64, len(samples))
	sizes := make([]float64, len(samples))
	text := make([]string, 0, len(samples))
	for i := range samples {
		x[i] = float64(i)
		sizes[i] = 8
		if i < len(dates) {
			text = append(text, dates[i].Format("2006-01-02"))
		}
	}
	if len(text) != len(samples) {
		text = nil
	}

	t := Trace{
		Type:   "scatter",
		Name:   "Night above horizon",
		Mode:   "lines+markers",
		X:      x,
		Y:      samples,
		Text:   text,
		Line:   &Line{Color: "blue"},
		Marker: &Marker{Size: sizes},
	}
	if text != nil {
		t.HoverTemplate = "%{text}: %{y:.1f}%<extra></extra>"
	}

	fig := nightFrame(len(samples))
	fig.Data = []Trace{t}
	return fig
}

// NightPlaceholder is the empty nighttime panel.
func NightPlaceholder() Figure {
	return nightFrame(6)
}

func nightFrame(n int) Figure {
	return Figure{
		Data: []Trace{},
		Layout: Layout{
			XAxis:  &Axis{Range: []float64{-0.5, float64(n) - 0.5}, Visible: boolPtr(false)},
			YAxis:  &Axis{Range: []float64{-5, 105}, Visible: boolPtr(false)},
			Margin: &Margin{},
		},
		Config: defaultConfig,
	}
}
