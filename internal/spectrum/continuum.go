package spectrum

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// ContinuumFitter estimates the continuum under a spectrum.
type ContinuumFitter interface {
	// Fit returns the continuum evaluated at every x.
	Fit(x, y []float64) ([]float64, error)
}

// Band is a closed wavelength interval in Å.
type Band struct {
	From, To float64
}

// Contains reports whether w lies strictly inside the band.
func (b Band) Contains(w float64) bool {
	return w > b.From && w < b.To
}

// DefaultMask lists the line regions excluded from the continuum fit.
var DefaultMask = []Band{
	{1150, 1265},
	{1375, 1425},
	{1515, 1675},
}

// ChebyshevFitter fits a Chebyshev series by linear least squares to the
// samples outside Mask.
type ChebyshevFitter struct {
	Degree int
	Mask   []Band
}

// NewChebyshevFitter returns the degree-3 fitter with the default mask.
func NewChebyshevFitter() *ChebyshevFitter {
	return &ChebyshevFitter{Degree: 3, Mask: DefaultMask}
}

// Fit implements ContinuumFitter.
func (c *ChebyshevFitter) Fit(x, y []float64) ([]float64, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("continuum: %d wavelengths, %d fluxes", len(x), len(y))
	}
	nc := c.Degree + 1

	lo, hi := math.Inf(1), math.Inf(-1)
	var xs, ys []float64
	for i := range x {
		if c.masked(x[i]) || !finite(x[i]) || !finite(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
		lo = math.Min(lo, x[i])
		hi = math.Max(hi, x[i])
	}
	if len(xs) < nc {
		return nil, fmt.Errorf("continuum: %d unmasked samples for %d coefficients", len(xs), nc)
	}
	if hi == lo {
		return nil, fmt.Errorf("continuum: unmasked samples span no wavelength range")
	}

	// Map the fitted domain onto [-1, 1].
	scale := func(v float64) float64 { return (2*v - lo - hi) / (hi - lo) }

	// Least squares on the design matrix via QR.
	a := mat.NewDense(len(xs), nc, nil)
	basis := make([]float64, nc)
	for k := range xs {
		chebyshevBasis(scale(xs[k]), basis)
		a.SetRow(k, basis)
	}
	var coef mat.VecDense
	if err := coef.SolveVec(a, mat.NewVecDense(len(ys), ys)); err != nil {
		return nil, fmt.Errorf("continuum: %w", err)
	}

	out := make([]float64, len(x))
	for i, v := range x {
		chebyshevBasis(scale(v), basis)
		for j, b := range basis {
			out[i] += coef.AtVec(j) * b
		}
	}
	return out, nil
}

func (c *ChebyshevFitter) masked(w float64) bool {
	for _, b := range c.Mask {
		if b.Contains(w) {
			return true
		}
	}
	return false
}

// chebyshevBasis fills out with T_0(t) .. T_{n-1}(t).
func chebyshevBasis(t float64, out []float64) {
	for i := range out {
		switch i {
		case 0:
			out[i] = 1
		case 1:
			out[i] = t
		default:
			out[i] = 2*t*out[i-1] - out[i-2]
		}
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
