package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/fourierforge/internal/analysis"
	"github.com/san-kum/fourierforge/internal/dynamo"
)

func square(n int) dynamo.Path {
	corners := []dynamo.Point{dynamo.Pt(-1, -1), dynamo.Pt(1, -1), dynamo.Pt(1, 1), dynamo.Pt(-1, 1)}
	path := make(dynamo.Path, 0, n)
	per := n / 4
	for c := range 4 {
		a, b := corners[c], corners[(c+1)%4]
		for i := range per {
			path = append(path, a.Lerp(b, float64(i)/float64(per)))
		}
	}
	return path
}

func TestReconstructionErrorFullSeriesIsExact(t *testing.T) {
	path := square(64)
	epis := analysis.Decompose(path)

	m := NewReconstructionError()
	m.Observe(path, epis, len(epis))
	if v := m.Value(); v > 1e-9 {
		t.Errorf("expected exact reconstruction, got rms %g", v)
	}
}

func TestReconstructionErrorDecreases(t *testing.T) {
	path := square(64)
	epis := analysis.Decompose(path)

	curve := ErrorCurve(path, epis, []int{1, 4, 16, 64})
	for i := 1; i < len(curve); i++ {
		if curve[i] > curve[i-1]+1e-12 {
			t.Errorf("error grew from K index %d to %d: %v", i-1, i, curve)
		}
	}
	if curve[0] == 0 {
		t.Error("expected non-zero error for a single term")
	}
}

func TestEnergyCaptured(t *testing.T) {
	path := square(64)
	epis := analysis.Decompose(path)

	tests := []struct {
		k    int
		want func(float64) bool
	}{
		{0, func(v float64) bool { return v == 0 }},
		{1, func(v float64) bool { return v > 0 && v < 1 }},
		{len(epis), func(v float64) bool { return math.Abs(v-1) < 1e-12 }},
		{len(epis) + 10, func(v float64) bool { return math.Abs(v-1) < 1e-12 }},
	}
	for _, tt := range tests {
		m := NewEnergyCaptured()
		m.Observe(path, epis, tt.k)
		if !tt.want(m.Value()) {
			t.Errorf("k=%d: unexpected share %g", tt.k, m.Value())
		}
	}
}

func TestParsevalAgreement(t *testing.T) {
	path := square(64)
	epis := analysis.Decompose(path)
	k := 8

	values := Evaluate(path, epis, k, Default()...)

	var meanSq float64
	for _, p := range path {
		meanSq += p.X*p.X + p.Y*p.Y
	}
	meanSq /= float64(len(path))

	rms := values["reconstruction_rms"]
	share := values["energy_captured"]
	if got := 1 - rms*rms/meanSq; math.Abs(got-share) > 1e-9 {
		t.Errorf("parseval mismatch: 1-err²/E = %g, share = %g", got, share)
	}
}

func TestReset(t *testing.T) {
	path := square(16)
	epis := analysis.Decompose(path)
	for _, m := range Default() {
		m.Observe(path, epis, 1)
		m.Reset()
		if m.Value() != 0 {
			t.Errorf("%s: expected 0 after reset, got %g", m.Name(), m.Value())
		}
	}
	var empty ReconstructionError
	empty.Observe(nil, epis, 1)
	if empty.Value() != 0 {
		t.Error("expected 0 for empty path")
	}
}
