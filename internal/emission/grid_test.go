package emission

import (
	"errors"
	"math"
	"testing"
)

func TestNearestIndex(t *testing.T) {
	lat := []float64{-90, -60, -30, 0, 30, 60, 90}
	lon := []float64{0, 30, 60, 90, 120, 150, 180, 210, 240, 270, 300, 330, 360}

	tests := []struct {
		name   string
		axis   []float64
		target float64
		want   int
	}{
		{"47 is nearer 60 than 30", lat, 47.0, 5},
		{"tie at 15 keeps first minimum", lon, 15.0, 0},
		{"tie at 45 keeps 30", lon, 45.0, 1},
		{"exact match", lat, -30, 2},
		{"below range clamps to first", lat, -120, 0},
		{"above range clamps to last", lon, 400, 12},
		{"single element", []float64{5}, 100, 0},
		{"empty axis", nil, 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NearestIndex(tt.axis, tt.target); got != tt.want {
				t.Errorf("NearestIndex(%v) = %d, want %d", tt.target, got, tt.want)
			}
		})
	}
}

func TestParse_BareGrid(t *testing.T) {
	g, err := Parse([]byte(`[[1,2,3],[4,5,6]]`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if g.Rows() != 2 || g.Cols() != 3 {
		t.Fatalf("shape = %dx%d, want 2x3", g.Rows(), g.Cols())
	}
	wantLon := []float64{0, 180, 360}
	for i, v := range wantLon {
		if math.Abs(g.Lon[i]-v) > 1e-9 {
			t.Errorf("Lon[%d] = %v, want %v", i, g.Lon[i], v)
		}
	}
	if g.Lat[0] != -90 || g.Lat[1] != 90 {
		t.Errorf("Lat = %v, want [-90 90]", g.Lat)
	}
}

func TestParse_XYZ(t *testing.T) {
	g, err := Parse([]byte(`{"x":[0,90,180],"y":[-45,45],"z":[[1,2,3],[4,5,6]]}`))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}

	cell, ok := g.Lookup(100, 30)
	if !ok {
		t.Fatal("Lookup failed")
	}
	if cell.LonIdx != 1 || cell.LatIdx != 1 || cell.Value != 5 {
		t.Errorf("cell = %+v, want lon 1 lat 1 value 5", cell)
	}
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ``},
		{"scalar", `42`},
		{"empty grid", `[]`},
		{"not numbers", `[["a"]]`},
		{"ragged xyz", `{"x":[0,1],"y":[0],"z":[[1]]}`},
		{"row count mismatch", `{"x":[0],"y":[0,1],"z":[[1]]}`},
		{"missing axis", `{"z":[[1]]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in))
			if !errors.Is(err, ErrMalformed) {
				t.Errorf("Parse(%q) err = %v, want ErrMalformed", tt.in, err)
			}
		})
	}
}

func TestLookup_NilGrid(t *testing.T) {
	var g *Grid
	if _, ok := g.Lookup(10, 10); ok {
		t.Error("Lookup on nil grid should fail")
	}
}

func TestRange(t *testing.T) {
	g := &Grid{Lon: []float64{0, 1}, Lat: []float64{0}, Z: [][]float64{{3, -2}}}
	lo, hi := g.Range()
	if lo != -2 || hi != 3 {
		t.Errorf("Range = (%v, %v), want (-2, 3)", lo, hi)
	}
}

func TestLinspace(t *testing.T) {
	got := Linspace(-90, 90, 7)
	want := []float64{-90, -60, -30, 0, 30, 60, 90}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Errorf("Linspace[%d] = %v, want %v", i, got[i], want[i])
		}
	}
	if Linspace(0, 1, 0) != nil {
		t.Error("Linspace with n=0 should be nil")
	}
}
