// Package catalog loads the pre-computed OB star catalog and its companion
// files (emission map, nighttime fractions) from a data source.
package catalog

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/litescript/ls-obstars/internal/emission"
)

var (
	// ErrDataUnavailable indicates the star table could not be fetched or parsed.
	ErrDataUnavailable = errors.New("catalog: data unavailable")

	// ErrMalformedPayload indicates a payload with an unexpected shape or out of range values.
	ErrMalformedPayload = errors.New("catalog: malformed payload")
)

// Color buckets.
const (
	BucketO     = "O-type"
	BucketB     = "B-type"
	BucketOther = "Other"
)

// Star is one catalog entry.
type Star struct {
	Name              string
	GalacticLongitude float64 // degrees, [0, 360)
	GalacticLatitude  float64 // degrees, [-90, 90]
	SpectralType      string
	ApparentMagnitude float64
	SizeHint          float64
	ColorBucket       string
	HasSpectra        bool
	SpectrumRef       string // optional explicit spectrum location
}

// Catalog is the immutable result of a load.
type Catalog struct {
	Stars    []Star
	Emission *emission.Grid // nil when the map is absent or malformed
	Night    NightTable     // nil when the table is absent or malformed
	Source   string
}

// Find returns the star with the given name.
func (c *Catalog) Find(name string) (Star, bool) {
	if c == nil {
		return Star{}, false
	}
	for _, s := range c.Stars {
		if s.Name == name {
			return s, true
		}
	}
	return Star{}, false
}

// Validate checks the record invariants. Values are never clamped.
func (s Star) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("%w: star with empty name", ErrMalformedPayload)
	}
	checks := []struct {
		field string
		v     float64
	}{
		{"Galactic Longitude", s.GalacticLongitude},
		{"Galactic Latitude", s.GalacticLatitude},
		{"Apparent Magnitude", s.ApparentMagnitude},
		{"Size", s.SizeHint},
	}
	for _, c := range checks {
		if math.IsNaN(c.v) || math.IsInf(c.v, 0) {
			return fmt.Errorf("%w: %s: %s is not finite", ErrMalformedPayload, s.Name, c.field)
		}
	}
	if s.GalacticLongitude < 0 || s.GalacticLongitude >= 360 {
		return fmt.Errorf("%w: %s: longitude %g outside [0, 360)", ErrMalformedPayload, s.Name, s.GalacticLongitude)
	}
	if s.GalacticLatitude < -90 || s.GalacticLatitude > 90 {
		return fmt.Errorf("%w: %s: latitude %g outside [-90, 90]", ErrMalformedPayload, s.Name, s.GalacticLatitude)
	}
	return nil
}

// BucketFor derives the color bucket from a spectral type.
func BucketFor(spectralType string) string {
	t := strings.TrimSpace(spectralType)
	switch {
	case strings.HasPrefix(t, "O"):
		return BucketO
	case strings.HasPrefix(t, "B"):
		return BucketB
	default:
		return BucketOther
	}
}

// SizeScale maps apparent magnitude to a marker size on an exponential
// scale: the brightest magnitude gets 100 and the faintest gets 1.
type SizeScale struct {
	brightest float64
	tau       float64
}

// NewSizeScale fits the scale to the magnitude range [brightest, faintest].
func NewSizeScale(brightest, faintest float64) SizeScale {
	if !(faintest > brightest) {
		return SizeScale{brightest: brightest}
	}
	return SizeScale{brightest: brightest, tau: (faintest - brightest) / math.Log(100)}
}

// Size returns the marker size for a magnitude. The exponent is taken
// relative to the brightest magnitude so narrow ranges stay finite.
func (s SizeScale) Size(mag float64) float64 {
	if s.tau == 0 {
		return 100
	}
	return 100 * math.Exp(-(mag-s.brightest)/s.tau)
}
