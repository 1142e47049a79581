// Package analysis compares two sampled spectral curves — typically the
// Bins of two spectral.SampledSF built over the same wavelength grid, e.g.
// a measured refractive-index curve against a Sellmeier-derived prediction.
package analysis

import (
	"errors"
	"math"
	"math/cmplx"
	"sync"

	algofft "github.com/cwbudde/algo-fft"
)

var fftPlanCache sync.Map // map[int]*fftPlan

// fftPlan caches a pair of FFT plans for a given transform length: the fast
// plan is tried first, falling back to the safe plan when the fast path
// declines to support that length.
type fftPlan struct {
	mu   sync.Mutex
	fast *algofft.FastPlanReal64
	safe *algofft.PlanRealT[float64, complex128]
}

func getFFTPlan(n int) (*fftPlan, error) {
	if v, ok := fftPlanCache.Load(n); ok {
		return v.(*fftPlan), nil
	}

	p := &fftPlan{}
	if fast, err := algofft.NewFastPlanReal64(n); err == nil {
		p.fast = fast
	} else if !errors.Is(err, algofft.ErrNotImplemented) {
		// Ignore fast-plan setup errors and rely on the safe plan.
	}
	safe, err := algofft.NewPlanReal64(n)
	if err != nil {
		if p.fast == nil {
			return nil, err
		}
	} else {
		p.safe = safe
	}

	actual, _ := fftPlanCache.LoadOrStore(n, p)
	return actual.(*fftPlan), nil
}

func (p *fftPlan) forward(dst []complex128, src []float64) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fast != nil {
		p.fast.Forward(dst, src)
		return nil
	}
	if p.safe != nil {
		return p.safe.Forward(dst, src)
	}
	return errors.New("analysis: missing FFT forward plan")
}

func (p *fftPlan) inverse(dst []float64, src []complex128) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fast != nil {
		p.fast.Inverse(dst, src)
		return nil
	}
	if p.safe != nil {
		return p.safe.Inverse(dst, src)
	}
	return errors.New("analysis: missing FFT inverse plan")
}

// Metrics measures how closely two equal-grid spectral curves agree.
type Metrics struct {
	Bins int

	// RMSE is the bin-wise root-mean-square difference of the raw values.
	RMSE float64

	// ShiftBins is reference-feature-position minus candidate-feature-
	// position at the cross-correlation peak — a non-zero value suggests
	// the curves agree in shape but are offset along the wavelength axis
	// (e.g. a calibration error).
	ShiftBins int

	// ShapeRMSE is the RMSE between the FFT magnitude spectra of the two
	// curves, a shift-invariant measure of structural (e.g. fringe or
	// absorption-band) disagreement independent of ShiftBins.
	ShapeRMSE float64

	Score      float64
	Similarity float64
}

// ErrMismatchedLength is returned when the two curves are not sampled over
// the same number of bins.
var ErrMismatchedLength = errors.New("analysis: mismatched bin counts")

// Compare measures the agreement between two spectral curves sampled over
// the same bins (e.g. the .Bins of two spectral.SampledSF built with
// identical loWl/hiWl/n).
func Compare(reference, candidate []float64) (Metrics, error) {
	if len(reference) != len(candidate) {
		return Metrics{}, ErrMismatchedLength
	}
	n := len(reference)
	m := Metrics{Bins: n}
	if n == 0 {
		return m, nil
	}

	m.RMSE = rmse(reference, candidate)
	m.ShiftBins = estimateShift(reference, candidate)
	m.ShapeRMSE = shapeRMSE(reference, candidate)

	rmseNorm := clamp01(m.RMSE / 0.1)
	shapeNorm := clamp01(m.ShapeRMSE / 20.0)
	m.Score = clamp01(0.6*rmseNorm + 0.4*shapeNorm)
	m.Similarity = clamp01(math.Exp(-4.0 * m.Score))
	return m, nil
}

func rmse(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(a)))
}

// estimateShift finds the integer bin offset maximising the cross
// correlation of a and b via an FFT-based circular convolution, falling
// back to direct summation when no FFT plan is available for this length.
func estimateShift(a, b []float64) int {
	n := nextPow2(2*len(a) - 1)
	plan, err := getFFTPlan(n)
	if err != nil {
		return estimateShiftDirect(a, b)
	}

	inA := make([]float64, n)
	inB := make([]float64, n)
	copy(inA, a)
	copy(inB, b)

	specA := make([]complex128, n/2+1)
	specB := make([]complex128, n/2+1)
	if err := plan.forward(specA, inA); err != nil {
		return estimateShiftDirect(a, b)
	}
	if err := plan.forward(specB, inB); err != nil {
		return estimateShiftDirect(a, b)
	}
	for i := range specA {
		specA[i] *= cmplx.Conj(specB[i])
	}
	corr := make([]float64, n)
	if err := plan.inverse(corr, specA); err != nil {
		return estimateShiftDirect(a, b)
	}

	maxLag := len(a) - 1
	bestLag, best := 0, math.Inf(-1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		idx := lag
		if idx < 0 {
			idx += n
		}
		if corr[idx] > best {
			best = corr[idx]
			bestLag = lag
		}
	}
	return bestLag
}

func estimateShiftDirect(a, b []float64) int {
	maxLag := len(a) - 1
	bestLag, best := 0, math.Inf(-1)
	for lag := -maxLag; lag <= maxLag; lag++ {
		var sum float64
		for i := 0; i < len(a); i++ {
			j := i - lag
			if j < 0 || j >= len(b) {
				continue
			}
			sum += a[i] * b[j]
		}
		if sum > best {
			best = sum
			bestLag = lag
		}
	}
	return bestLag
}

// shapeRMSE compares the two curves' FFT magnitude spectra, in dB, giving a
// measure of structural disagreement that is invariant to a simple
// wavelength-axis shift.
func shapeRMSE(a, b []float64) float64 {
	n := len(a)
	if n < 4 {
		return 0
	}
	even := n &^ 1
	if even < 4 {
		return 0
	}

	plan, err := getFFTPlan(even)
	bins := even/2 + 1
	if err != nil {
		return shapeRMSENaive(a[:even], b[:even], bins)
	}

	specA := make([]complex128, bins)
	specB := make([]complex128, bins)
	if e := plan.forward(specA, a[:even]); e != nil {
		return shapeRMSENaive(a[:even], b[:even], bins)
	}
	if e := plan.forward(specB, b[:even]); e != nil {
		return shapeRMSENaive(a[:even], b[:even], bins)
	}

	var sum float64
	cnt := 0
	for k := 1; k < bins; k++ {
		d := linToDB(cmplx.Abs(specA[k])) - linToDB(cmplx.Abs(specB[k]))
		sum += d * d
		cnt++
	}
	if cnt == 0 {
		return 0
	}
	return math.Sqrt(sum / float64(cnt))
}

func shapeRMSENaive(a, b []float64, bins int) float64 {
	if bins < 2 {
		return 0
	}
	var sum float64
	for k := 1; k < bins; k++ {
		d := linToDB(dftBinMag(a, k)) - linToDB(dftBinMag(b, k))
		sum += d * d
	}
	return math.Sqrt(sum / float64(bins-1))
}

func dftBinMag(x []float64, bin int) float64 {
	n := len(x)
	var re, im float64
	for i := 0; i < n; i++ {
		phi := -2.0 * math.Pi * float64(bin*i) / float64(n)
		re += x[i] * math.Cos(phi)
		im += x[i] * math.Sin(phi)
	}
	return math.Hypot(re, im)
}

func linToDB(x float64) float64 {
	if x < 1e-12 {
		x = 1e-12
	}
	return 20.0 * math.Log10(x)
}

func nextPow2(n int) int {
	if n <= 1 {
		return 1
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
