package spectrum

import (
	"fmt"
	"math"
)

// Normalize divides each channel's fluxes by that channel's mean flux.
// Empty channels and channels whose mean is zero or not finite are copied
// unchanged; a note describing each is returned. The input is not modified.
func Normalize(r *Record) (*Record, []string) {
	out := &Record{Channels: make([]Channel, len(r.Channels))}
	var notes []string

	for i, ch := range r.Channels {
		fluxes := make([]float64, len(ch.Fluxes))
		copy(fluxes, ch.Fluxes)
		out.Channels[i] = Channel{Wavelengths: ch.Wavelengths, Fluxes: fluxes}

		if len(fluxes) == 0 {
			notes = append(notes, fmt.Sprintf("channel %d is empty; left unnormalized", i+1))
			continue
		}

		var sum float64
		for _, f := range fluxes {
			sum += f
		}
		mean := sum / float64(len(fluxes))
		if mean == 0 || math.IsNaN(mean) || math.IsInf(mean, 0) {
			notes = append(notes, fmt.Sprintf("channel %d has mean flux %g; left unnormalized", i+1, mean))
			continue
		}

		for j := range fluxes {
			fluxes[j] /= mean
		}
	}

	return out, notes
}
