package ui

import (
	"math"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-obstars/internal/catalog"
	"github.com/litescript/ls-obstars/internal/emission"
	"github.com/litescript/ls-obstars/internal/figure"
	"github.com/litescript/ls-obstars/internal/series"
)

func testSeries() []series.Series {
	return []series.Series{
		{Bucket: "O-type", Color: "blue", Points: []catalog.Star{
			{Name: "HD 3", GalacticLongitude: 300, GalacticLatitude: 10, SizeHint: 60},
			{Name: "HD 1", GalacticLongitude: 10, GalacticLatitude: 5, SizeHint: 3},
		}},
		{Bucket: "B-type", Color: "cyan", Points: []catalog.Star{
			{Name: "HD 2", GalacticLongitude: 200, GalacticLatitude: -12, SizeHint: 12},
		}},
	}
}

func TestProjectToScreen(t *testing.T) {
	tests := []struct {
		lon, lat float64
		x, y     int
	}{
		{0, 90, 0, 0},
		{180, 0, 50, 10},
		{359.9, -90, 99, 19}, // bottom right is clamped
		{360, -100, 99, 19},
		{-5, 95, 0, 0},
	}

	for _, tt := range tests {
		x, y := projectToScreen(tt.lon, tt.lat, 100, 20)
		if x != tt.x || y != tt.y {
			t.Errorf("projectToScreen(%v, %v) = (%d, %d), want (%d, %d)", tt.lon, tt.lat, x, y, tt.x, tt.y)
		}
	}
}

func TestScreenToSky_RoundTrip(t *testing.T) {
	const w, h = 72, 18
	for x := 0; x < w; x += 7 {
		for y := 0; y < h; y += 5 {
			lon, lat := screenToSky(x, y, w, h)
			gx, gy := projectToScreen(lon, lat, w, h)
			if gx != x || gy != y {
				t.Errorf("cell (%d,%d) -> (%.2f,%.2f) -> (%d,%d)", x, y, lon, lat, gx, gy)
			}
		}
	}
}

func TestHeatColor(t *testing.T) {
	tests := []struct {
		v, zmin, zmax float64
		want          lipgloss.Color
	}{
		{0, 0, 10, heatRamp[0]},
		{-5, 0, 10, heatRamp[0]},
		{10, 0, 10, heatRamp[len(heatRamp)-1]},
		{50, 0, 10, heatRamp[len(heatRamp)-1]},
		{5, 0, 10, heatRamp[5]},
		{5, 3, 3, heatRamp[0]}, // degenerate range
	}

	for _, tt := range tests {
		if got := heatColor(tt.v, tt.zmin, tt.zmax); got != tt.want {
			t.Errorf("heatColor(%v, %v, %v) = %q, want %q", tt.v, tt.zmin, tt.zmax, got, tt.want)
		}
	}
}

func TestStarGlyph(t *testing.T) {
	if starGlyph(60) != glyphStarLarge || starGlyph(10) != glyphStarMedium || starGlyph(1) != glyphStarSmall {
		t.Error("glyph thresholds changed")
	}
}

func TestSkyView_FocusCycle(t *testing.T) {
	m := NewSkyViewModel().SetSize(80, 20)
	if _, ok := m.Focused(); ok {
		t.Fatal("empty view has a focused star")
	}
	m = m.FocusNext().FocusPrev() // no-op when empty

	m = m.UpdateData(testSeries(), nil, series.FilterState{}, figure.SkyOptions{}, nil)

	var order []string
	for i := 0; i < 4; i++ {
		s, _ := m.Focused()
		order = append(order, s.Name)
		m = m.FocusNext()
	}
	want := "HD 1,HD 2,HD 3,HD 1"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("focus order = %s, want %s", got, want)
	}

	m = m.FocusPrev().FocusPrev()
	if s, _ := m.Focused(); s.Name != "HD 3" {
		t.Errorf("after wrapping back, focused = %s, want HD 3", s.Name)
	}
}

func TestSkyView_UpdateKeepsFocus(t *testing.T) {
	m := NewSkyViewModel().SetSize(80, 20)
	m = m.UpdateData(testSeries(), nil, series.FilterState{}, figure.SkyOptions{}, nil)
	m = m.FocusNext() // HD 2

	// HD 1 dropped, HD 2 moves to index 0
	ss := testSeries()
	ss[0].Points = ss[0].Points[:1]
	m = m.UpdateData(ss, nil, series.FilterState{}, figure.SkyOptions{}, nil)
	if s, _ := m.Focused(); s.Name != "HD 2" {
		t.Errorf("focused = %s, want HD 2", s.Name)
	}

	// Focused star gone: focus resets to the first star
	m = m.UpdateData(ss[:1], nil, series.FilterState{}, figure.SkyOptions{}, nil)
	if s, _ := m.Focused(); s.Name != "HD 3" {
		t.Errorf("focused = %s, want HD 3", s.Name)
	}
}

func TestSkyView_View(t *testing.T) {
	m := NewSkyViewModel().SetSize(10, 3)
	if got := m.View(); got != "Sky view requires larger terminal" {
		t.Errorf("small view = %q", got)
	}

	grid := &emission.Grid{
		Lon: []float64{0, 180},
		Lat: []float64{-45, 45},
		Z:   [][]float64{{1, 2}, {3, 4}},
	}
	current := &catalog.Star{Name: "HD 2"}
	m = NewSkyViewModel().SetSize(72, 19)
	m = m.UpdateData(testSeries(), grid, series.FilterState{ShowHeatmap: true}, figure.SkyOptions{ZMin: 0, ZMax: 4}, current)

	out := m.View()
	lines := strings.Split(out, "\n")
	if len(lines) != 19 {
		t.Fatalf("view has %d lines, want 19", len(lines))
	}
	for _, r := range []rune{glyphFocused, glyphCurrent, glyphStarLarge} {
		if !strings.ContainsRune(out, r) {
			t.Errorf("view missing glyph %q", r)
		}
	}
	if !strings.Contains(lines[len(lines)-1], ">>> HD 1") {
		t.Errorf("status line = %q", lines[len(lines)-1])
	}
}

func TestBucketMeans(t *testing.T) {
	got := bucketMeans([]float64{1, 3, 5, 7}, 2)
	if len(got) != 2 || got[0] != 2 || got[1] != 6 {
		t.Errorf("bucketMeans = %v, want [2 6]", got)
	}

	// More columns than values: one column per value
	got = bucketMeans([]float64{1, 2}, 10)
	if len(got) != 2 || math.IsNaN(got[0]) {
		t.Errorf("bucketMeans = %v", got)
	}
}

func TestSparkline(t *testing.T) {
	if got := sparkline(nil, 10); got != "" {
		t.Errorf("empty sparkline = %q", got)
	}
	got := []rune(sparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8))
	if len(got) != 8 || got[0] != sparkLevels[0] || got[7] != sparkLevels[len(sparkLevels)-1] {
		t.Errorf("sparkline = %q", string(got))
	}
	flat := sparkline([]float64{2, 2, 2}, 3)
	if flat != strings.Repeat(string(sparkLevels[0]), 3) {
		t.Errorf("flat sparkline = %q", flat)
	}
}
