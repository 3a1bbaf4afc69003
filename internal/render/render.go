// Package render draws spectra and sky maps to PNG with go-chart, for
// headless use where no browser is available to render figure JSON.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/litescript/ls-obstars/internal/series"
	"github.com/litescript/ls-obstars/internal/spectrum"
)

// ErrNothingToDraw is returned when there is no series to plot.
var ErrNothingToDraw = errors.New("nothing to draw")

const (
	defaultWidth  = 1024
	defaultHeight = 600
	maxDotWidth   = 8.0
)

type options struct {
	width  int
	height int
}

// Option configures a render call.
type Option func(*options)

// WithSize sets the image size in pixels.
func WithSize(width, height int) Option {
	return func(o *options) {
		if width > 0 {
			o.width = width
		}
		if height > 0 {
			o.height = height
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{width: defaultWidth, height: defaultHeight}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Spectrum draws every line of r, dashed overlays included, over the shaded
// line windows.
func Spectrum(w io.Writer, r *spectrum.Renderable, opts ...Option) error {
	if r == nil || len(r.Lines) == 0 {
		return ErrNothingToDraw
	}
	o := buildOptions(opts)

	xmin, xmax := math.Inf(1), math.Inf(-1)
	for _, l := range r.Lines {
		for _, x := range l.X {
			xmin = math.Min(xmin, x)
			xmax = math.Max(xmax, x)
		}
	}
	if math.IsInf(xmin, 1) {
		return ErrNothingToDraw
	}
	xmin, xmax = padRange(xmin, xmax)
	ymin, ymax := padRange(r.FluxMin, r.FluxMax)

	var ss []chart.Series
	for _, win := range r.Windows {
		fill := parseColor(win.Fill)
		ss = append(ss, chart.ContinuousSeries{
			Name:    fmt.Sprintf("%g-%g", win.From, win.To),
			XValues: []float64{win.From, win.To},
			YValues: []float64{ymax, ymax},
			Style: chart.Style{
				StrokeWidth: 1,
				StrokeColor: fill,
				FillColor:   fill,
			},
		})
	}
	for _, l := range r.Lines {
		if len(l.X) == 0 {
			continue
		}
		ss = append(ss, chart.ContinuousSeries{
			Name:    l.Name,
			XValues: l.X,
			YValues: l.Y,
			Style:   lineStyle(l),
		})
	}

	ch := chart.Chart{
		Title:      r.Title,
		Width:      o.width,
		Height:     o.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Wavelength (Å)",
			Range: &chart.ContinuousRange{Min: xmin, Max: xmax},
		},
		YAxis: chart.YAxis{
			Name:  "Specific Flux Density",
			Range: &chart.ContinuousRange{Min: ymin, Max: ymax},
		},
		Series: ss,
	}
	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render spectrum: %w", err)
	}
	return nil
}

// Sky draws one point-only series per bucket on the galactic plane.
func Sky(w io.Writer, ss []series.Series, opts ...Option) error {
	if series.Count(ss) == 0 {
		return ErrNothingToDraw
	}
	o := buildOptions(opts)

	var largest float64
	for _, s := range ss {
		for _, p := range s.Points {
			largest = math.Max(largest, p.SizeHint)
		}
	}

	var cs []chart.Series
	for _, s := range ss {
		if len(s.Points) == 0 {
			continue
		}
		xs := make([]float64, len(s.Points))
		ys := make([]float64, len(s.Points))
		sizes := make([]float64, len(s.Points))
		for i, p := range s.Points {
			xs[i] = p.GalacticLongitude
			ys[i] = p.GalacticLatitude
			sizes[i] = dotWidth(p.SizeHint, largest)
		}
		st := pointStyle(parseColor(s.Color))
		st.DotWidthProvider = func(_, _ chart.Range, index int, _, _ float64) float64 {
			if index < len(sizes) {
				return sizes[index]
			}
			return st.DotWidth
		}
		cs = append(cs, chart.ContinuousSeries{Name: s.Bucket, XValues: xs, YValues: ys, Style: st})
	}

	ch := chart.Chart{
		Title:      "Galactic OB stars",
		Width:      o.width,
		Height:     o.height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: chart.XAxis{
			Name:  "Galactic Longitude (°)",
			Range: &chart.ContinuousRange{Min: 0, Max: 360},
			Ticks: ticks(0, 360, 30),
		},
		YAxis: chart.YAxis{
			Name:  "Galactic Latitude (°)",
			Range: &chart.ContinuousRange{Min: -90, Max: 90},
			Ticks: ticks(-90, 90, 30),
		},
		Series: cs,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	if err := ch.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render sky: %w", err)
	}
	return nil
}

// pointStyle renders points only, no connecting line.
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    3,
		DotColor:    col,
	}
}

func lineStyle(l spectrum.Line) chart.Style {
	st := chart.Style{
		StrokeWidth: 1.5,
		StrokeColor: parseColor(l.Color),
	}
	switch l.Dash {
	case spectrum.DashLong:
		st.StrokeDashArray = []float64{10, 5}
	case spectrum.DashDot:
		st.StrokeDashArray = []float64{2, 4}
	}
	return st
}

// dotWidth maps a marker area hint onto a dot radius, largest first.
func dotWidth(size, largest float64) float64 {
	if largest <= 0 || size <= 0 {
		return 1
	}
	return math.Max(1, maxDotWidth*math.Sqrt(size/largest))
}

func ticks(from, to, step float64) []chart.Tick {
	var out []chart.Tick
	for v := from; v <= to; v += step {
		out = append(out, chart.Tick{Value: v, Label: fmt.Sprintf("%g", v)})
	}
	return out
}

// padRange widens [lo, hi] by 5% so lines do not touch the frame. A
// degenerate range is widened by one unit.
func padRange(lo, hi float64) (float64, float64) {
	if hi <= lo {
		return lo - 1, lo + 1
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

var colorGray = drawing.Color{R: 128, G: 128, B: 128, A: 255}

// parseColor resolves a figure color through drawing.ParseColor. Gray is
// not among go-chart's known names, and anything it cannot read is black.
func parseColor(s string) drawing.Color {
	s = strings.TrimSpace(strings.ToLower(s))
	switch s {
	case "gray", "grey":
		return colorGray
	}
	if hex, ok := strings.CutPrefix(s, "#"); ok && len(hex) != 3 && len(hex) != 6 {
		return drawing.ColorBlack
	}
	if c := drawing.ParseColor(s); !c.IsZero() {
		return c
	}
	return drawing.ColorBlack
}
