// Package emission holds the 2-D H2 emission map and the nearest-pixel lookup
// used to report the map value under a clicked star.
package emission

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// ErrMalformed indicates an emission map payload that fits no known shape.
var ErrMalformed = errors.New("emission: malformed payload")

// Grid is an immutable lattice of intensities indexed Z[latIdx][lonIdx].
type Grid struct {
	Lon []float64   // longitude axis, degrees
	Lat []float64   // latitude axis, degrees
	Z   [][]float64 // Z[i][j] is the value at (Lat[i], Lon[j])
}

// Cell is the grid cell nearest a requested coordinate.
type Cell struct {
	LonIdx int
	LatIdx int
	Lon    float64 // axis value at LonIdx
	Lat    float64 // axis value at LatIdx
	Value  float64
}

// xyzPayload is the {x, y, z} wire shape.
type xyzPayload struct {
	X []float64   `json:"x"`
	Y []float64   `json:"y"`
	Z [][]float64 `json:"z"`
}

// Parse decodes either a bare 2-D grid (rows are latitudes) or an object
// {x: lon axis, y: lat axis, z: grid}. Bare grids get evenly spaced axes
// spanning 0..360 and -90..90.
func Parse(data []byte) (*Grid, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrMalformed)
	}

	var g Grid
	switch trimmed[0] {
	case '[':
		var z [][]float64
		if err := json.Unmarshal(trimmed, &z); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		if len(z) == 0 || len(z[0]) == 0 {
			return nil, fmt.Errorf("%w: empty grid", ErrMalformed)
		}
		g = Grid{
			Lon: Linspace(0, 360, len(z[0])),
			Lat: Linspace(-90, 90, len(z)),
			Z:   z,
		}
	case '{':
		var p xyzPayload
		if err := json.Unmarshal(trimmed, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		g = Grid{Lon: p.X, Lat: p.Y, Z: p.Z}
	default:
		return nil, fmt.Errorf("%w: expected array or object", ErrMalformed)
	}

	if err := g.validate(); err != nil {
		return nil, err
	}
	return &g, nil
}

func (g *Grid) validate() error {
	if len(g.Lat) == 0 || len(g.Lon) == 0 {
		return fmt.Errorf("%w: missing axis", ErrMalformed)
	}
	if len(g.Z) != len(g.Lat) {
		return fmt.Errorf("%w: %d rows for %d latitudes", ErrMalformed, len(g.Z), len(g.Lat))
	}
	for i, row := range g.Z {
		if len(row) != len(g.Lon) {
			return fmt.Errorf("%w: row %d has %d values for %d longitudes", ErrMalformed, i, len(row), len(g.Lon))
		}
	}
	return nil
}

// Rows returns the number of latitude rows.
func (g *Grid) Rows() int { return len(g.Lat) }

// Cols returns the number of longitude columns.
func (g *Grid) Cols() int { return len(g.Lon) }

// Lookup finds the cell nearest (lon, lat). It never mutates the grid.
func (g *Grid) Lookup(lon, lat float64) (Cell, bool) {
	if g == nil {
		return Cell{}, false
	}
	j := NearestIndex(g.Lon, lon)
	i := NearestIndex(g.Lat, lat)
	if i < 0 || j < 0 {
		return Cell{}, false
	}
	return Cell{
		LonIdx: j,
		LatIdx: i,
		Lon:    g.Lon[j],
		Lat:    g.Lat[i],
		Value:  g.Z[i][j],
	}, true
}

// Range returns the minimum and maximum finite values in the grid.
func (g *Grid) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, row := range g.Z {
		for _, v := range row {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
	}
	if lo > hi {
		return 0, 0
	}
	return lo, hi
}

// NearestIndex returns the index of the axis value closest to target.
// Ties resolve to the lowest index. Returns -1 for an empty axis.
func NearestIndex(axis []float64, target float64) int {
	if len(axis) == 0 {
		return -1
	}
	best := 0
	bestDist := math.Abs(axis[0] - target)
	for i := 1; i < len(axis); i++ {
		if d := math.Abs(axis[i] - target); d < bestDist {
			best = i
			bestDist = d
		}
	}
	return best
}

// Linspace returns n evenly spaced values from start to stop inclusive.
func Linspace(start, stop float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{start}
	}
	out := make([]float64, n)
	step := (stop - start) / float64(n-1)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	out[n-1] = stop
	return out
}
