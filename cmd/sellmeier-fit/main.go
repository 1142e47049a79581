// Command sellmeier-fit fits the six Sellmeier coefficients (B1,B2,B3,C1,
// C2,C3) of a dispersion curve to a measured wavelength/index table using
// the Mayfly evolutionary optimizer.
package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sync"

	"github.com/cwbudde/mayfly"

	"github.com/cwbudde/algo-raytrace/internal/mathutil"
	"github.com/cwbudde/algo-raytrace/sellmeier"
)

// bound is the physical range a normalised [0,1] Mayfly coordinate maps to.
type bound struct{ lo, hi float64 }

// sellmeierBounds are generous ranges around typical optical-glass
// Sellmeier coefficients (see the BK7 reference values below).
var sellmeierBounds = [6]bound{
	{0, 2},    // B1
	{0, 1},    // B2
	{0, 2},    // B3
	{0, 0.02}, // C1
	{0, 0.1},  // C2
	{0, 200},  // C3
}

// bk7 is the reference coefficient set used to synthesize a measured curve
// when --measured is not supplied, so the tool is runnable without external
// data.
var bk7 = [6]float64{1.03961212, 0.231792344, 1.01046945, 6.00069867e-3, 2.00179144e-2, 103.560653}

type samplePoint struct {
	wavelengthNM float64
	index        float64
}

func main() {
	measuredPath := flag.String("measured", "", "CSV of wavelength_nm,index pairs (if omitted, a synthetic BK7 curve is fitted back as a self-test)")
	outputPath := flag.String("output", "sellmeier-fit.json", "Path to write the fitted coefficients as JSON")
	mayflyVariant := flag.String("mayfly-variant", "desma", "Mayfly variant: ma|desma|olce|eobbma|gsasma|mpma|aoblmoa")
	pop := flag.Int("mayfly-pop", 20, "Male and female population size")
	iters := flag.Int("mayfly-iters", 400, "Mayfly iteration count")
	seed := flag.Int64("seed", 1, "Random seed")
	flag.Parse()

	points, err := loadSamples(*measuredPath)
	if err != nil {
		die("load samples: %v", err)
	}
	fmt.Printf("fitting against %d samples\n", len(points))

	cfg, err := newMayflyConfig(*mayflyVariant, *pop, *iters)
	if err != nil {
		die("mayfly config: %v", err)
	}
	cfg.Rand = rand.New(rand.NewSource(*seed))

	var mu sync.Mutex
	bestCost := math.Inf(1)
	var bestCoeffs [6]float64

	cfg.ObjectiveFunc = func(pos []float64) float64 {
		coeffs := denormalise(pos)
		cost := residual(coeffs, points)

		mu.Lock()
		if cost < bestCost {
			bestCost = cost
			bestCoeffs = coeffs
		}
		mu.Unlock()
		return cost
	}

	if _, err := mayfly.Optimize(cfg); err != nil {
		die("optimize: %v", err)
	}

	fmt.Printf("best RMSE: %g\n", math.Sqrt(bestCost/float64(len(points))))
	fmt.Printf("fitted: B1=%g B2=%g B3=%g C1=%g C2=%g C3=%g\n",
		bestCoeffs[0], bestCoeffs[1], bestCoeffs[2], bestCoeffs[3], bestCoeffs[4], bestCoeffs[5])

	if err := writeResult(*outputPath, bestCoeffs); err != nil {
		die("write output: %v", err)
	}
}

func newMayflyConfig(variant string, pop, iters int) (*mayfly.Config, error) {
	var cfg *mayfly.Config
	switch variant {
	case "ma":
		cfg = mayfly.NewDefaultConfig()
	case "desma":
		cfg = mayfly.NewDESMAConfig()
	case "olce":
		cfg = mayfly.NewOLCEConfig()
	case "eobbma":
		cfg = mayfly.NewEOBBMAConfig()
	case "gsasma":
		cfg = mayfly.NewGSASMAConfig()
	case "mpma":
		cfg = mayfly.NewMPMAConfig()
	case "aoblmoa":
		cfg = mayfly.NewAOBLMOAConfig()
	default:
		return nil, fmt.Errorf("unsupported variant %q", variant)
	}
	cfg.ProblemSize = len(sellmeierBounds)
	cfg.LowerBound = 0.0
	cfg.UpperBound = 1.0
	cfg.MaxIterations = iters
	cfg.NPop = pop
	cfg.NPopF = pop
	cfg.NC = 2 * pop
	cfg.NM = mathutil.MaxInt(1, int(math.Round(0.05*float64(pop))))
	return cfg, nil
}

func denormalise(pos []float64) [6]float64 {
	var out [6]float64
	for i, b := range sellmeierBounds {
		v := pos[i]
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		out[i] = b.lo + v*(b.hi-b.lo)
	}
	return out
}

func residual(coeffs [6]float64, points []samplePoint) float64 {
	fn := sellmeier.New(coeffs[0], coeffs[1], coeffs[2], coeffs[3], coeffs[4], coeffs[5])
	var sum float64
	for _, p := range points {
		d := fn.IndexAt(p.wavelengthNM) - p.index
		sum += d * d
	}
	return sum
}

func loadSamples(path string) ([]samplePoint, error) {
	if path == "" {
		return syntheticBK7Samples(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, err
	}
	points := make([]samplePoint, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		var wl, idx float64
		if _, err := fmt.Sscanf(row[0], "%g", &wl); err != nil {
			continue
		}
		if _, err := fmt.Sscanf(row[1], "%g", &idx); err != nil {
			continue
		}
		points = append(points, samplePoint{wavelengthNM: wl, index: idx})
	}
	if len(points) == 0 {
		return nil, fmt.Errorf("no usable rows in %s", path)
	}
	return points, nil
}

func syntheticBK7Samples() []samplePoint {
	fn := sellmeier.New(bk7[0], bk7[1], bk7[2], bk7[3], bk7[4], bk7[5])
	points := make([]samplePoint, 0, 40)
	for i := 0; i < 40; i++ {
		wl := 400 + float64(i)*8 // 400..712nm
		points = append(points, samplePoint{wavelengthNM: wl, index: fn.IndexAt(wl)})
	}
	return points
}

func writeResult(path string, coeffs [6]float64) error {
	out := struct {
		B1 float64 `json:"b1"`
		B2 float64 `json:"b2"`
		B3 float64 `json:"b3"`
		C1 float64 `json:"c1"`
		C2 float64 `json:"c2"`
		C3 float64 `json:"c3"`
	}{coeffs[0], coeffs[1], coeffs[2], coeffs[3], coeffs[4], coeffs[5]}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
