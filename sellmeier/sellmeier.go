// Package sellmeier implements the Sellmeier dispersion equation, a
// closed-form wavelength→refractive-index model for transparent optical
// glasses.
package sellmeier

import (
	"math"

	dspcore "github.com/cwbudde/algo-dsp/dsp/core"
)

// Function is a Sellmeier dispersion curve parameterised by three resonance
// terms (B1,B2,B3) and their corresponding squared resonance wavelengths in
// micrometres (C1,C2,C3), in the standard form
//
//	n(w)^2 = 1 + sum_i Bi*w^2 / (w^2 - Ci)
//
// evaluated with w = wavelength(nm) * 1e-3 (micrometres).
type Function struct {
	B1, B2, B3 float64
	C1, C2, C3 float64
}

// New builds a Sellmeier dispersion function from its six coefficients.
func New(b1, b2, b3, c1, c2, c3 float64) *Function {
	return &Function{B1: b1, B2: b2, B3: b3, C1: c1, C2: c2, C3: c3}
}

// IndexAt returns the refractive index at wavelengthNM (nanometres).
//
// No error is raised when a denominator (w^2 - Ci) approaches zero: inputs
// that land on a resonance are out of the model's calibration range and the
// result is meaningless but finite-or-not depending on sign; this is a
// known limitation (see DESIGN.md) rather than a guarded error.
func (f *Function) IndexAt(wavelengthNM float64) float64 {
	w := wavelengthNM * 1e-3
	w2 := w * w
	sum := 1.0
	sum += f.B1 * w2 / (w2 - f.C1)
	sum += f.B2 * w2 / (w2 - f.C2)
	sum += f.B3 * w2 / (w2 - f.C3)
	sum = dspcore.FlushDenormals(sum)
	return math.Sqrt(sum)
}
