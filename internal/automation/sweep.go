package automation

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/san-kum/fourierforge/internal/analysis"
	"github.com/san-kum/fourierforge/internal/export"
	"github.com/san-kum/fourierforge/internal/metrics"
	"github.com/san-kum/fourierforge/internal/pipeline"
	"github.com/san-kum/fourierforge/internal/resample"
)

// Sweep reconstructs one contour with a growing number of terms.
type Sweep struct {
	Source  pipeline.Source
	Samples int
	// Terms are the K values to try. Empty means powers of two up to N.
	Terms []int
	// OutDir, when set, receives one SVG per K.
	OutDir string
	Width  int
	Height int
}

// SweepResult is the quality of one K.
type SweepResult struct {
	Terms          int
	RMS            float64
	EnergyCaptured float64
	Output         string
}

// RunSweep decomposes the source once and scores each K.
func RunSweep(ctx context.Context, sw *Sweep) ([]SweepResult, error) {
	r, err := pipeline.Compute(ctx, sw.Source, sw.Samples, resample.New(), nil)
	if err != nil {
		return nil, err
	}
	n := len(r.Epicycles)

	terms := sw.Terms
	if len(terms) == 0 {
		terms = PowersOfTwo(n)
	}
	if sw.OutDir != "" {
		if err := os.MkdirAll(sw.OutDir, 0o755); err != nil {
			return nil, err
		}
	}

	ms := metrics.Default()
	results := make([]SweepResult, 0, len(terms))
	for i, k := range terms {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		k = min(max(k, 1), n)
		values := metrics.Evaluate(r.Path, r.Epicycles, k, ms...)
		res := SweepResult{
			Terms:          k,
			RMS:            values["reconstruction_rms"],
			EnergyCaptured: values["energy_captured"],
		}

		if sw.OutDir != "" {
			res.Output = filepath.Join(sw.OutDir, fmt.Sprintf("k%05d.svg", k))
			contour := analysis.Reconstruct(r.Epicycles, k, len(r.Path))
			svg := export.PathToSVG(contour, max(sw.Width, 64), max(sw.Height, 64), export.DefaultSVGStyle())
			if err := export.SaveSVG(res.Output, svg); err != nil {
				return results, err
			}
		}

		results = append(results, res)
		fmt.Printf("Sweep %d/%d: K=%d rms=%.4f energy=%.4f\n", i+1, len(terms), k, res.RMS, res.EnergyCaptured)
	}
	return results, nil
}

// PowersOfTwo returns 1, 2, 4, ... up to n, always ending with n.
func PowersOfTwo(n int) []int {
	if n < 1 {
		return nil
	}
	var ks []int
	for k := 1; k < n; k *= 2 {
		ks = append(ks, k)
	}
	ks = append(ks, n)
	return slices.Compact(ks)
}
