package astro

import (
	"math"
	"time"
)

// NightStep is the sampling interval used when estimating nighttime
// visibility, as a fraction of a day.
const NightStep = 0.01

// nightSamples is the number of NightStep samples in one day.
var nightSamples = int(math.Round(1 / NightStep))

// NightFraction returns the percentage of the night of date (UTC day starting
// at 00:00) during which eq is above the horizon for obs. Night is any sample
// with the Sun below the horizon. A day without night yields 0.
func NightFraction(eq Equatorial, obs Observer, date time.Time) float64 {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	stepDur := time.Duration(NightStep * float64(24*time.Hour))

	var night, up int
	for i := 0; i < nightSamples; i++ {
		t := day.Add(time.Duration(i) * stepDur)
		if SunElevation(obs, t) >= 0 {
			continue
		}
		night++
		if Elevation(eq, obs, t) > 0 {
			up++
		}
	}

	if night == 0 {
		return 0
	}
	return 100 * float64(up) / float64(night)
}

// NightSeries evaluates NightFraction for a star given in galactic
// coordinates on each date.
func NightSeries(galLon, galLat float64, obs Observer, dates []time.Time) []float64 {
	eq := GalacticToEquatorial(galLon, galLat)
	out := make([]float64, len(dates))
	for i, d := range dates {
		out[i] = NightFraction(eq, obs, d)
	}
	return out
}
