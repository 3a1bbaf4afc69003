package render

import (
	"bytes"
	"errors"
	"image/png"
	"testing"

	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/litescript/ls-obstars/internal/catalog"
	"github.com/litescript/ls-obstars/internal/series"
	"github.com/litescript/ls-obstars/internal/spectrum"
)

func TestSpectrum_PNG(t *testing.T) {
	r := &spectrum.Renderable{
		Title: "Star: HD_1",
		Lines: []spectrum.Line{
			{Name: "HD 1", X: []float64{1300, 1400, 1500, 1600}, Y: []float64{2, 4, 3, 5}, Color: "black", Dash: spectrum.DashSolid},
			{Name: "Continuum (placeholder)", X: []float64{1300, 1400, 1500, 1600}, Y: []float64{2, 4, 3, 5}, Color: "gray", Dash: spectrum.DashDot},
		},
		Windows: spectrum.Windows,
		FluxMin: 2,
		FluxMax: 5,
	}

	var buf bytes.Buffer
	if err := Spectrum(&buf, r, WithSize(400, 300)); err != nil {
		t.Fatalf("Spectrum error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 400 || b.Dy() != 300 {
		t.Errorf("size = %dx%d, want 400x300", b.Dx(), b.Dy())
	}
}

func TestSky_PNG(t *testing.T) {
	stars := []catalog.Star{
		{Name: "a", GalacticLongitude: 10, GalacticLatitude: 5, SizeHint: 100, ColorBucket: catalog.BucketO},
		{Name: "b", GalacticLongitude: 200, GalacticLatitude: -30, SizeHint: 10, ColorBucket: catalog.BucketB},
		{Name: "c", GalacticLongitude: 300, GalacticLatitude: 60, SizeHint: 1, ColorBucket: catalog.BucketB},
	}

	var buf bytes.Buffer
	if err := Sky(&buf, series.Build(stars, series.FilterState{})); err != nil {
		t.Fatalf("Sky error: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("output is not a PNG: %v", err)
	}
}

func TestNothingToDraw(t *testing.T) {
	var buf bytes.Buffer
	if err := Spectrum(&buf, nil); !errors.Is(err, ErrNothingToDraw) {
		t.Errorf("Spectrum(nil) = %v", err)
	}
	if err := Spectrum(&buf, &spectrum.Renderable{Lines: []spectrum.Line{{Name: "empty"}}}); !errors.Is(err, ErrNothingToDraw) {
		t.Errorf("Spectrum(empty lines) = %v", err)
	}
	if err := Sky(&buf, nil); !errors.Is(err, ErrNothingToDraw) {
		t.Errorf("Sky(nil) = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("wrote %d bytes on error", buf.Len())
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want drawing.Color
	}{
		{"black", drawing.ColorBlack},
		{"#1000FF", drawing.Color{R: 0x10, G: 0x00, B: 0xFF, A: 255}},
		{"#fff", drawing.ColorWhite},
		{"#12", drawing.ColorBlack},
		{"rgba(255,200,200,0.5)", drawing.Color{R: 255, G: 200, B: 200, A: 127}},
		{"rgba(10, 20, 30, 1)", drawing.Color{R: 10, G: 20, B: 30, A: 255}},
		{"rgb(1,2,3)", drawing.Color{R: 1, G: 2, B: 3, A: 255}},
		{"Red", drawing.ColorRed},
		{"blue", drawing.ColorBlue},
		{"gray", colorGray},
		{" grey ", colorGray},
		{"nonsense", drawing.ColorBlack},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := parseColor(tt.in); got != tt.want {
				t.Errorf("parseColor(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestPadRange(t *testing.T) {
	if lo, hi := padRange(0, 10); lo != -0.5 || hi != 10.5 {
		t.Errorf("padRange(0,10) = %v, %v", lo, hi)
	}
	if lo, hi := padRange(3, 3); lo != 2 || hi != 4 {
		t.Errorf("padRange(3,3) = %v, %v", lo, hi)
	}
}

func TestDotWidth(t *testing.T) {
	if got := dotWidth(100, 100); got != maxDotWidth {
		t.Errorf("largest = %v, want %v", got, maxDotWidth)
	}
	if got := dotWidth(0, 100); got != 1 {
		t.Errorf("zero size = %v, want 1", got)
	}
}
