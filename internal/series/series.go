// Package series turns the star catalog into chart-ready scatter series, one
// per color bucket.
package series

import (
	"github.com/litescript/ls-obstars/internal/catalog"
)

// Palette colors.
const (
	ColorO       = "#1000FF"
	ColorB       = "#FF0000"
	ColorNeutral = "#808080"
)

var palette = map[string]string{
	catalog.BucketO:     ColorO,
	catalog.BucketB:     ColorB,
	catalog.BucketOther: ColorNeutral,
}

// ColorFor returns the display color for a bucket. Unknown buckets get the
// neutral color.
func ColorFor(bucket string) string {
	if c, ok := palette[bucket]; ok {
		return c
	}
	return ColorNeutral
}

// FilterState holds the user toggles. Every render is a function of it.
type FilterState struct {
	ShowOnlyWithSpectra bool `json:"showOnlyWithSpectra"`
	ShowHeatmap         bool `json:"showHeatmap"`
	Normalize           bool `json:"normalize"`
	ShowContinuum       bool `json:"showContinuum"`
}

// Series is the set of stars drawn in one color.
type Series struct {
	Bucket string
	Color  string
	Points []catalog.Star
}

// Build partitions stars by color bucket in first-seen order. When
// ShowOnlyWithSpectra is set, stars without spectra are dropped. The input
// slice is not modified.
func Build(stars []catalog.Star, filter FilterState) []Series {
	var out []Series
	index := make(map[string]int)

	for _, s := range stars {
		if filter.ShowOnlyWithSpectra && !s.HasSpectra {
			continue
		}
		i, ok := index[s.ColorBucket]
		if !ok {
			i = len(out)
			index[s.ColorBucket] = i
			out = append(out, Series{Bucket: s.ColorBucket, Color: ColorFor(s.ColorBucket)})
		}
		out[i].Points = append(out[i].Points, s)
	}
	return out
}

// Count returns the total number of points across series.
func Count(series []Series) int {
	n := 0
	for _, s := range series {
		n += len(s.Points)
	}
	return n
}

// Find returns the star named name and the index of the series holding it.
func Find(series []Series, name string) (catalog.Star, int, bool) {
	for i, s := range series {
		for _, p := range s.Points {
			if p.Name == name {
				return p, i, true
			}
		}
	}
	return catalog.Star{}, -1, false
}

// Flatten returns all points in series order.
func Flatten(series []Series) []catalog.Star {
	out := make([]catalog.Star, 0, Count(series))
	for _, s := range series {
		out = append(out, s.Points...)
	}
	return out
}
