// Command spectral-compare measures the agreement between a reference
// curve loaded from CSV — e.g. a measured refractive-index curve — and the
// refractive index predicted by a set of Sellmeier coefficients over the
// same bins.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"

	"github.com/cwbudde/algo-raytrace/analysis"
	"github.com/cwbudde/algo-raytrace/sellmeier"
	"github.com/cwbudde/algo-raytrace/spectral"
)

func main() {
	referencePath := flag.String("reference", "", "CSV of wavelength_nm,value pairs (required)")
	loWl := flag.Float64("lo-wl", 380, "Lower wavelength bound (nm) for the predicted curve")
	hiWl := flag.Float64("hi-wl", 780, "Upper wavelength bound (nm) for the predicted curve")
	bins := flag.Int("bins", 64, "Number of comparison bins")
	b1 := flag.Float64("b1", 1.03961212, "Sellmeier B1")
	b2 := flag.Float64("b2", 0.231792344, "Sellmeier B2")
	b3 := flag.Float64("b3", 1.01046945, "Sellmeier B3")
	c1 := flag.Float64("c1", 6.00069867e-3, "Sellmeier C1")
	c2 := flag.Float64("c2", 2.00179144e-2, "Sellmeier C2")
	c3 := flag.Float64("c3", 103.560653, "Sellmeier C3")
	flag.Parse()

	if *referencePath == "" {
		die("--reference is required")
	}

	refWl, refVal, err := loadCurve(*referencePath)
	if err != nil {
		die("load reference: %v", err)
	}
	refFn, err := spectral.NewInterpolated(refWl, refVal)
	if err != nil {
		die("reference curve: %v", err)
	}
	refSampled, err := refFn.SampleMultiple(*loWl, *hiWl, *bins)
	if err != nil {
		die("resample reference: %v", err)
	}

	fn := sellmeier.New(*b1, *b2, *b3, *c1, *c2, *c3)
	candidate := make([]float64, *bins)
	deltaWl := (*hiWl - *loWl) / float64(*bins)
	for i := range candidate {
		centre := *loWl + (float64(i)+0.5)*deltaWl
		candidate[i] = fn.IndexAt(centre)
	}

	metrics, err := analysis.Compare(refSampled.Bins, candidate)
	if err != nil {
		die("compare: %v", err)
	}

	fmt.Printf("bins:       %d\n", metrics.Bins)
	fmt.Printf("rmse:       %g\n", metrics.RMSE)
	fmt.Printf("shift:      %d bins\n", metrics.ShiftBins)
	fmt.Printf("shape rmse: %g dB\n", metrics.ShapeRMSE)
	fmt.Printf("score:      %g\n", metrics.Score)
	fmt.Printf("similarity: %g\n", metrics.Similarity)
}

func loadCurve(path string) (wavelengths, values []float64, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		var wl, v float64
		if _, err := fmt.Sscanf(row[0], "%g", &wl); err != nil {
			continue
		}
		if _, err := fmt.Sscanf(row[1], "%g", &v); err != nil {
			continue
		}
		wavelengths = append(wavelengths, wl)
		values = append(values, v)
	}
	if len(wavelengths) == 0 {
		return nil, nil, fmt.Errorf("no usable rows in %s", path)
	}
	return wavelengths, values, nil
}

func die(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
