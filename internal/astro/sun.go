package astro

import (
	"math"
	"time"
)

// SunPosition returns the apparent equatorial coordinates of the Sun using the
// low-precision almanac series (about 0.01 degrees).
func SunPosition(t time.Time) Equatorial {
	T := (julianDate(t) - 2451545.0) / 36525.0

	// Mean longitude and mean anomaly, degrees.
	L0 := normalizeAngle360(280.46646 + 36000.76983*T + 0.0003032*T*T)
	M := degToRad(normalizeAngle360(357.52911 + 35999.05029*T - 0.0001537*T*T))

	// Equation of center.
	C := (1.914602-0.004817*T-0.000014*T*T)*math.Sin(M) +
		(0.019993-0.000101*T)*math.Sin(2*M) +
		0.000289*math.Sin(3*M)

	// Apparent longitude corrected for aberration and nutation.
	omega := degToRad(125.04 - 1934.136*T)
	lambda := degToRad(L0 + C - 0.00569 - 0.00478*math.Sin(omega))

	eps0 := 23.439291 - 0.0130042*T - 0.00000016*T*T + 0.000000504*T*T*T
	eps := degToRad(eps0 + 0.00256*math.Cos(omega))

	ra := radToDeg(math.Atan2(math.Cos(eps)*math.Sin(lambda), math.Cos(lambda)))
	dec := radToDeg(math.Asin(math.Sin(eps) * math.Sin(lambda)))

	return Equatorial{RA: normalizeAngle360(ra), Dec: dec}
}

// SunElevation returns the Sun's elevation in degrees for obs at t.
func SunElevation(obs Observer, t time.Time) float64 {
	return Elevation(SunPosition(t), obs, t)
}
