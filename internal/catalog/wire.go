package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// wireStar mirrors one row of the star table JSON.
type wireStar struct {
	Name              string   `json:"Name"`
	GalacticLongitude *float64 `json:"Galactic Longitude"`
	GalacticLatitude  *float64 `json:"Galactic Latitude"`
	SpectralType      string   `json:"Spectral Type"`
	ApparentMagnitude *float64 `json:"Apparent Magnitude"`
	Size              float64  `json:"Size"`
	Color             string   `json:"Color"`
	HasSpectra        bool     `json:"HasSpectra"`
	IUESpectra        string   `json:"IUESpectra"`
}

// ParseStars decodes the star table. Rows missing a bucket get one derived
// from the spectral type; rows with a non-positive size get one derived from
// magnitude relative to the whole table.
func ParseStars(data []byte) ([]Star, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: star table must be a JSON array", ErrMalformedPayload)
	}

	var rows []wireStar
	if err := json.Unmarshal(trimmed, &rows); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}

	stars := make([]Star, 0, len(rows))
	seen := make(map[string]struct{}, len(rows))
	brightest, faintest := math.Inf(1), math.Inf(-1)

	for i, r := range rows {
		if r.GalacticLongitude == nil || r.GalacticLatitude == nil || r.ApparentMagnitude == nil {
			return nil, fmt.Errorf("%w: row %d (%q) missing coordinates or magnitude", ErrMalformedPayload, i, r.Name)
		}
		s := Star{
			Name:              r.Name,
			GalacticLongitude: *r.GalacticLongitude,
			GalacticLatitude:  *r.GalacticLatitude,
			SpectralType:      r.SpectralType,
			ApparentMagnitude: *r.ApparentMagnitude,
			SizeHint:          r.Size,
			ColorBucket:       r.Color,
			HasSpectra:        r.HasSpectra,
			SpectrumRef:       r.IUESpectra,
		}
		if err := s.Validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		if _, dup := seen[s.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate star name %q", ErrMalformedPayload, s.Name)
		}
		seen[s.Name] = struct{}{}

		if s.ColorBucket == "" {
			s.ColorBucket = BucketFor(s.SpectralType)
		}
		brightest = math.Min(brightest, s.ApparentMagnitude)
		faintest = math.Max(faintest, s.ApparentMagnitude)
		stars = append(stars, s)
	}

	scale := NewSizeScale(brightest, faintest)
	for i := range stars {
		if stars[i].SizeHint <= 0 {
			stars[i].SizeHint = scale.Size(stars[i].ApparentMagnitude)
		}
	}

	return stars, nil
}
