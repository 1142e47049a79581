// Package spectral models a wavelength-dependent scalar quantity (index of
// refraction, transmittance, ...) as an abstract Function with three
// concrete variants: Constant, Interpolated and Sampled. It is the spectral
// data layer the dielectric material (package material) consults for its
// optical constants.
package spectral

import (
	"errors"
	"fmt"
	"sort"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// ErrInvalidArgument is the sentinel wrapped by every validation failure in
// this package. Callers test for it with errors.Is.
var ErrInvalidArgument = errors.New("spectral: invalid argument")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}

// Function is the abstract wavelength→value mapping every concrete spectral
// type implements.
type Function interface {
	// Sample returns the mean value of the spectrum over [loWl, hiWl], or
	// the value at the bin centre when the underlying data is flagged
	// fast_sample.
	Sample(loWl, hiWl float64) (float64, error)

	// SampleMultiple returns an n-bin SampledSF spanning [loWl, hiWl].
	SampleMultiple(loWl, hiWl float64, n int) (*SampledSF, error)
}

func validateRange(loWl, hiWl float64) error {
	if loWl <= 0 || hiWl <= 0 {
		return invalidf("wavelengths must be > 0, got [%g, %g]", loWl, hiWl)
	}
	if loWl >= hiWl {
		return invalidf("loWl must be < hiWl, got [%g, %g]", loWl, hiWl)
	}
	return nil
}

func validateN(n int) error {
	if n < 1 {
		return invalidf("sample count must be >= 1, got %d", n)
	}
	return nil
}

// valueAt evaluates the piecewise-linear function defined by the control
// points (xs[i], ys[i]) — xs strictly increasing — at x, linearly
// extrapolating the end segments outside [xs[0], xs[len-1]].
func valueAt(xs, ys []float64, x float64) float64 {
	n := len(xs)
	if n == 1 {
		return ys[0]
	}
	if x <= xs[0] {
		return lerpSlope(xs[0], ys[0], xs[1], ys[1], x)
	}
	if x >= xs[n-1] {
		return lerpSlope(xs[n-2], ys[n-2], xs[n-1], ys[n-1], x)
	}
	i := sort.Search(n, func(i int) bool { return xs[i] >= x })
	if xs[i] == x {
		return ys[i]
	}
	return lerpSlope(xs[i-1], ys[i-1], xs[i], ys[i], x)
}

// lerpSlope evaluates the line through (x0,y0)-(x1,y1) at x (x1 != x0),
// extrapolating when x falls outside [x0,x1].
func lerpSlope(x0, y0, x1, y1, x float64) float64 {
	t := (x - x0) / (x1 - x0)
	return y0 + t*(y1-y0)
}

// integratePiecewiseLinear computes the definite integral of the
// piecewise-linear function through (xs,ys) over [lo, hi] (lo < hi),
// extrapolating linearly beyond the first/last control point.
func integratePiecewiseLinear(xs, ys []float64, lo, hi float64) float64 {
	knots := []float64{lo}
	for _, x := range xs {
		if x > lo && x < hi {
			knots = append(knots, x)
		}
	}
	knots = append(knots, hi)

	var total float64
	for i := 0; i+1 < len(knots); i++ {
		a, b := knots[i], knots[i+1]
		if b <= a {
			continue
		}
		va := valueAt(xs, ys, a)
		vb := valueAt(xs, ys, b)
		total += (b - a) * (va + vb) / 2
		total = dspcore.FlushDenormals(total)
	}
	return total
}

// meanOverBin returns the mean of the piecewise-linear function over
// [lo,hi] in slow mode, or the bin-centre value in fast mode.
func meanOverBin(xs, ys []float64, lo, hi float64, fast bool) float64 {
	if fast {
		return valueAt(xs, ys, (lo+hi)/2)
	}
	return integratePiecewiseLinear(xs, ys, lo, hi) / (hi - lo)
}
