package astro

import (
	"math"
	"testing"
	"time"
)

func TestSunPosition(t *testing.T) {
	tests := []struct {
		name       string
		time       time.Time
		wantRAMin  float64
		wantRAMax  float64
		wantDecMin float64
		wantDecMax float64
	}{
		{
			name:       "March equinox",
			time:       time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC),
			wantRAMin:  359,
			wantRAMax:  2,
			wantDecMin: -1,
			wantDecMax: 1,
		},
		{
			name:       "June solstice",
			time:       time.Date(2024, 6, 21, 12, 0, 0, 0, time.UTC),
			wantRAMin:  88,
			wantRAMax:  92,
			wantDecMin: 23,
			wantDecMax: 24,
		},
		{
			name:       "December solstice",
			time:       time.Date(2026, 12, 21, 12, 0, 0, 0, time.UTC),
			wantRAMin:  268,
			wantRAMax:  272,
			wantDecMin: -24,
			wantDecMax: -23,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SunPosition(tt.time)

			var raOK bool
			if tt.wantRAMin > tt.wantRAMax {
				raOK = got.RA >= tt.wantRAMin || got.RA <= tt.wantRAMax
			} else {
				raOK = got.RA >= tt.wantRAMin && got.RA <= tt.wantRAMax
			}
			if !raOK {
				t.Errorf("RA = %.2f°, want between %.2f° and %.2f°", got.RA, tt.wantRAMin, tt.wantRAMax)
			}
			if got.Dec < tt.wantDecMin || got.Dec > tt.wantDecMax {
				t.Errorf("Dec = %.2f°, want between %.2f° and %.2f°", got.Dec, tt.wantDecMin, tt.wantDecMax)
			}
		})
	}
}

func TestSunElevation_DayAndNight(t *testing.T) {
	whiteSands := Observer{LatDeg: 32.50, LonDeg: -106.61}

	// Local noon at -106.61° is about 19:06 UTC; local midnight about 07:06 UTC.
	noon := time.Date(2026, 12, 1, 19, 6, 0, 0, time.UTC)
	midnight := time.Date(2026, 12, 1, 7, 6, 0, 0, time.UTC)

	if el := SunElevation(whiteSands, noon); el < 25 || el > 40 {
		t.Errorf("noon Sun elevation = %.2f, want ~34", el)
	}
	if el := SunElevation(whiteSands, midnight); el > -40 {
		t.Errorf("midnight Sun elevation = %.2f, want well below horizon", el)
	}
}

func TestNightFraction(t *testing.T) {
	whiteSands := Observer{LatDeg: 32.50, LonDeg: -106.61}
	date := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		eq   Equatorial
		want float64
	}{
		{"circumpolar star always up", Equatorial{RA: 0, Dec: 89}, 100},
		{"far southern star never up", Equatorial{RA: 0, Dec: -80}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NightFraction(tt.eq, whiteSands, date); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("NightFraction = %v, want %v", got, tt.want)
			}
		})
	}

	// An equatorial star is up for part of the night.
	got := NightFraction(Equatorial{RA: 30, Dec: 0}, whiteSands, date)
	if got <= 0 || got >= 100 {
		t.Errorf("equatorial star fraction = %v, want strictly between 0 and 100", got)
	}
}

func TestNightSamples(t *testing.T) {
	if nightSamples != 100 {
		t.Errorf("nightSamples = %d, want 100", nightSamples)
	}
	if got := time.Duration(nightSamples) * time.Duration(NightStep*float64(24*time.Hour)); got != 24*time.Hour {
		t.Errorf("samples cover %v, want 24h", got)
	}
}

func TestNightFraction_NoNight(t *testing.T) {
	// Polar summer: the Sun never sets at 80°N in late June.
	arctic := Observer{LatDeg: 80, LonDeg: 0}
	date := time.Date(2026, 6, 21, 0, 0, 0, 0, time.UTC)

	if got := NightFraction(Equatorial{RA: 0, Dec: 89}, arctic, date); got != 0 {
		t.Errorf("NightFraction without night = %v, want 0", got)
	}
}

func TestNightSeries(t *testing.T) {
	obs := Observer{LatDeg: 32.50, LonDeg: -106.61}
	dates := []time.Time{
		time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 11, 25, 0, 0, 0, 0, time.UTC),
	}

	// Galactic coordinates of the north celestial pole.
	got := NightSeries(ncpGalLon, ngpDec, obs, dates)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	for i, v := range got {
		if math.Abs(v-100) > 1e-9 {
			t.Errorf("sample %d = %v, want 100", i, v)
		}
	}
}
