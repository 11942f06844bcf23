// Package metrics scores how well a truncated epicycle series reproduces
// its contour.
package metrics

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

// Metric accumulates a score over one or more observations of a K-term
// series against the path it was decomposed from.
type Metric interface {
	Name() string
	Observe(path dynamo.Path, epis []dynamo.Epicycle, k int)
	Value() float64
	Reset()
}

// ReconstructionError is the RMS distance between path sample j and the
// K-term sum at t = j/N, pooled over every observation.
type ReconstructionError struct {
	sumSq   float64
	samples int
}

func NewReconstructionError() *ReconstructionError { return &ReconstructionError{} }

func (e *ReconstructionError) Name() string { return "reconstruction_rms" }

func (e *ReconstructionError) Observe(path dynamo.Path, epis []dynamo.Epicycle, k int) {
	n := len(path)
	if n == 0 || len(epis) == 0 {
		return
	}
	for j, p := range path {
		t := float64(j) / float64(n)
		d := dynamo.ToComplex(p) - dynamo.Sum(epis, k, t)
		e.sumSq += real(d)*real(d) + imag(d)*imag(d)
	}
	e.samples += n
}

func (e *ReconstructionError) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return math.Sqrt(e.sumSq / float64(e.samples))
}

func (e *ReconstructionError) Reset() {
	e.sumSq = 0
	e.samples = 0
}

// EnergyCaptured is the share of Σ|c|² held by the first K epicycles. By
// Parseval it equals one minus the relative mean square error. With several
// observations it reports the smallest share seen.
type EnergyCaptured struct {
	share    float64
	observed bool
}

func NewEnergyCaptured() *EnergyCaptured { return &EnergyCaptured{} }

func (e *EnergyCaptured) Name() string { return "energy_captured" }

func (e *EnergyCaptured) Observe(_ dynamo.Path, epis []dynamo.Epicycle, k int) {
	if len(epis) == 0 {
		return
	}
	k = dynamo.ClampInt(k, 0, len(epis))
	var total, head float64
	for i, c := range epis {
		a := cmplx.Abs(c.Value)
		total += a * a
		if i < k {
			head += a * a
		}
	}
	share := 1.0
	if total > 0 {
		share = head / total
	}
	if !e.observed || share < e.share {
		e.share = share
	}
	e.observed = true
}

func (e *EnergyCaptured) Value() float64 { return e.share }

func (e *EnergyCaptured) Reset() {
	e.share = 0
	e.observed = false
}

// Evaluate runs each metric once on a fresh state and returns the values by
// name.
func Evaluate(path dynamo.Path, epis []dynamo.Epicycle, k int, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
		m.Observe(path, epis, k)
		out[m.Name()] = m.Value()
	}
	return out
}

// Default returns the standard metric set.
func Default() []Metric {
	return []Metric{NewReconstructionError(), NewEnergyCaptured()}
}

// ErrorCurve returns the reconstruction RMS for each K in ks.
func ErrorCurve(path dynamo.Path, epis []dynamo.Epicycle, ks []int) []float64 {
	out := make([]float64, len(ks))
	m := NewReconstructionError()
	for i, k := range ks {
		m.Reset()
		m.Observe(path, epis, k)
		out[i] = m.Value()
	}
	return out
}
