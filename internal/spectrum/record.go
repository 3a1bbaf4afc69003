// Package spectrum resolves per-star IUE spectra into renderable line sets:
// parsing, per-channel normalization and continuum fitting.
package spectrum

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnavailable indicates the star has no spectrum or it could not be loaded.
	ErrUnavailable = errors.New("spectrum: unavailable")

	// ErrMalformed indicates a spectrum payload with an unexpected shape.
	ErrMalformed = errors.New("spectrum: malformed payload")
)

// Channel is one exposure: wavelengths in Å and fluxes of equal length.
type Channel struct {
	Wavelengths []float64
	Fluxes      []float64
}

// Len returns the number of samples.
func (c Channel) Len() int { return len(c.Wavelengths) }

// Record is a parsed spectrum file.
type Record struct {
	Channels []Channel
}

// Parse decodes a spectrum payload. Accepted keys are wavelength/flux or
// wavelengths/fluxes; values are either flat arrays (one channel) or arrays
// of arrays (one channel each). Both keys must have the same shape.
func Parse(data []byte) (*Record, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	wavRaw, fluxRaw, err := pickKeys(obj)
	if err != nil {
		return nil, err
	}

	wavNested := isNested(wavRaw)
	if wavNested != isNested(fluxRaw) {
		return nil, fmt.Errorf("%w: wavelength and flux shapes differ", ErrMalformed)
	}

	var wavs, fluxes [][]float64
	if wavNested {
		if err := json.Unmarshal(wavRaw, &wavs); err != nil {
			return nil, fmt.Errorf("%w: wavelength: %v", ErrMalformed, err)
		}
		if err := json.Unmarshal(fluxRaw, &fluxes); err != nil {
			return nil, fmt.Errorf("%w: flux: %v", ErrMalformed, err)
		}
	} else {
		var w, f []float64
		if err := json.Unmarshal(wavRaw, &w); err != nil {
			return nil, fmt.Errorf("%w: wavelength: %v", ErrMalformed, err)
		}
		if err := json.Unmarshal(fluxRaw, &f); err != nil {
			return nil, fmt.Errorf("%w: flux: %v", ErrMalformed, err)
		}
		wavs, fluxes = [][]float64{w}, [][]float64{f}
	}

	if len(wavs) == 0 {
		return nil, fmt.Errorf("%w: no channels", ErrMalformed)
	}
	if len(wavs) != len(fluxes) {
		return nil, fmt.Errorf("%w: %d wavelength channels, %d flux channels", ErrMalformed, len(wavs), len(fluxes))
	}

	rec := &Record{Channels: make([]Channel, len(wavs))}
	for i := range wavs {
		if len(wavs[i]) != len(fluxes[i]) {
			return nil, fmt.Errorf("%w: channel %d: %d wavelengths, %d fluxes", ErrMalformed, i, len(wavs[i]), len(fluxes[i]))
		}
		rec.Channels[i] = Channel{Wavelengths: wavs[i], Fluxes: fluxes[i]}
	}
	return rec, nil
}

func pickKeys(obj map[string]json.RawMessage) (wav, flux json.RawMessage, err error) {
	for _, pair := range [][2]string{{"wavelength", "flux"}, {"wavelengths", "fluxes"}} {
		w, okW := obj[pair[0]]
		f, okF := obj[pair[1]]
		if okW && okF {
			return w, f, nil
		}
	}
	return nil, nil, fmt.Errorf("%w: expected wavelength/flux or wavelengths/fluxes", ErrMalformed)
}

// isNested reports whether raw is an array whose first element is an array.
func isNested(raw json.RawMessage) bool {
	b := bytes.TrimSpace(raw)
	if len(b) == 0 || b[0] != '[' {
		return false
	}
	b = bytes.TrimSpace(b[1:])
	return len(b) > 0 && b[0] == '['
}

// FluxRange returns the min and max flux over all channels, ignoring
// non-finite values. ok is false when there are no finite samples.
func (r *Record) FluxRange() (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, ch := range r.Channels {
		for _, f := range ch.Fluxes {
			if math.IsNaN(f) || math.IsInf(f, 0) {
				continue
			}
			lo = math.Min(lo, f)
			hi = math.Max(hi, f)
		}
	}
	if lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}

// Mean averages channels sample by sample. Only channels with the same
// length as the first non-empty channel contribute.
func (r *Record) Mean() (Channel, bool) {
	n := 0
	for _, ch := range r.Channels {
		if ch.Len() > 0 {
			n = ch.Len()
			break
		}
	}
	if n == 0 {
		return Channel{}, false
	}

	mean := Channel{Wavelengths: make([]float64, n), Fluxes: make([]float64, n)}
	used := 0
	for _, ch := range r.Channels {
		if ch.Len() != n {
			continue
		}
		for i := 0; i < n; i++ {
			mean.Wavelengths[i] += ch.Wavelengths[i]
			mean.Fluxes[i] += ch.Fluxes[i]
		}
		used++
	}
	for i := 0; i < n; i++ {
		mean.Wavelengths[i] /= float64(used)
		mean.Fluxes[i] /= float64(used)
	}
	return mean, true
}
