// Package astro provides the sky math behind the nighttime fraction panel:
// galactic to equatorial conversion, horizontal coordinates and the Sun.
package astro

import (
	"math"
	"time"
)

// North galactic pole and the galactic longitude of the north celestial
// pole, J2000.
const (
	ngpRA     = 192.85948
	ngpDec    = 27.12825
	ncpGalLon = 122.93192
)

// Equatorial is a J2000 right ascension / declination pair in degrees.
type Equatorial struct {
	RA  float64 // 0-360
	Dec float64 // -90 to +90
}

// Horizontal is an observer-relative azimuth / elevation pair in degrees.
type Horizontal struct {
	Az float64 // 0=N, 90=E, 180=S, 270=W
	El float64 // 0=horizon, 90=zenith
}

// Observer is a ground site.
type Observer struct {
	LatDeg float64 // north positive
	LonDeg float64 // east positive
	Name   string
}

// GalacticToEquatorial converts galactic longitude/latitude to J2000 RA/Dec.
func GalacticToEquatorial(lonDeg, latDeg float64) Equatorial {
	b := degToRad(latDeg)
	dl := degToRad(ncpGalLon - lonDeg)
	decN := degToRad(ngpDec)

	sinDec := math.Sin(b)*math.Sin(decN) + math.Cos(b)*math.Cos(decN)*math.Cos(dl)
	dec := math.Asin(clampUnit(sinDec))

	y := math.Cos(b) * math.Sin(dl)
	x := math.Sin(b)*math.Cos(decN) - math.Cos(b)*math.Sin(decN)*math.Cos(dl)
	ra := ngpRA + radToDeg(math.Atan2(y, x))

	return Equatorial{RA: normalizeAngle360(ra), Dec: radToDeg(dec)}
}

// ToHorizontal converts equatorial coordinates to azimuth/elevation for an
// observer at time t.
func ToHorizontal(eq Equatorial, obs Observer, t time.Time) Horizontal {
	lat := degToRad(obs.LatDeg)
	dec := degToRad(eq.Dec)
	ha := degToRad(localSiderealTime(t, obs.LonDeg) - eq.RA)

	alt := math.Asin(clampUnit(math.Sin(dec)*math.Sin(lat) + math.Cos(dec)*math.Cos(lat)*math.Cos(ha)))

	cosAz := (math.Sin(dec) - math.Sin(alt)*math.Sin(lat)) / (math.Cos(alt) * math.Cos(lat))
	az := math.Acos(clampUnit(cosAz))
	// Positive hour angle: west of the meridian.
	if math.Sin(ha) > 0 {
		az = 2*math.Pi - az
	}

	return Horizontal{Az: radToDeg(az), El: radToDeg(alt)}
}

// Elevation returns only the elevation of eq for obs at t.
func Elevation(eq Equatorial, obs Observer, t time.Time) float64 {
	return ToHorizontal(eq, obs, t).El
}

// localSiderealTime returns LST in degrees for a UTC time and east longitude.
func localSiderealTime(t time.Time, lonDeg float64) float64 {
	return normalizeAngle360(greenwichMeanSiderealTime(t) + lonDeg)
}

// greenwichMeanSiderealTime returns GMST in degrees (IAU 1982).
func greenwichMeanSiderealTime(t time.Time) float64 {
	jd := julianDate(t)
	T := (jd - 2451545.0) / 36525.0

	gmst := 280.46061837 +
		360.98564736629*(jd-2451545.0) +
		0.000387933*T*T -
		T*T*T/38710000.0

	return normalizeAngle360(gmst)
}

// julianDate returns the Julian Date of t.
func julianDate(t time.Time) float64 {
	t = t.UTC()

	y := float64(t.Year())
	m := float64(t.Month())
	d := float64(t.Day())

	dayFrac := (float64(t.Hour()) +
		float64(t.Minute())/60 +
		float64(t.Second())/3600 +
		float64(t.Nanosecond())/3600e9) / 24.0

	// January and February count as months 13 and 14 of the previous year.
	if m <= 2 {
		y--
		m += 12
	}

	// Gregorian correction
	A := math.Floor(y / 100)
	B := 2 - A + math.Floor(A/4)

	return math.Floor(365.25*(y+4716)) +
		math.Floor(30.6001*(m+1)) +
		d + dayFrac + B - 1524.5
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}

func degToRad(deg float64) float64 {
	return deg * math.Pi / 180
}

func radToDeg(rad float64) float64 {
	return rad * 180 / math.Pi
}

// normalizeAngle360 normalizes an angle to [0, 360).
func normalizeAngle360(a float64) float64 {
	a = math.Mod(a, 360)
	if a < 0 {
		a += 360
	}
	return a
}
