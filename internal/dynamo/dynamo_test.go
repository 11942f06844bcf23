package dynamo

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"sync/atomic"
	"testing"
)

func TestEpicycleEvaluate(t *testing.T) {
	e := NewEpicycle(complex(0, 2), 3)

	if math.Abs(e.Amplitude-2) > 1e-12 {
		t.Errorf("expected amplitude 2, got %f", e.Amplitude)
	}
	if math.Abs(e.Phase-math.Pi/2) > 1e-12 {
		t.Errorf("expected phase π/2, got %f", e.Phase)
	}

	if d := cmplx.Abs(e.Evaluate(0) - e.Value); d > 1e-12 {
		t.Errorf("evaluate(0) should equal value, off by %g", d)
	}
	// One full turn of a frequency-3 vector takes 1/3 time units.
	if d := cmplx.Abs(e.Evaluate(1.0/3) - e.Value); d > 1e-9 {
		t.Errorf("evaluate(1/3) should return to start, off by %g", d)
	}
}

func TestSumClampsCount(t *testing.T) {
	epis := []Epicycle{
		NewEpicycle(1, 0),
		NewEpicycle(2, 0),
	}

	tests := []struct {
		k    int
		want complex128
	}{
		{-1, 0},
		{0, 0},
		{1, 1},
		{2, 3},
		{10, 3},
	}

	for _, tt := range tests {
		if got := Sum(epis, tt.k, 0.4); cmplx.Abs(got-tt.want) > 1e-12 {
			t.Errorf("Sum(k=%d) = %v, want %v", tt.k, got, tt.want)
		}
	}
}

func TestPathHelpers(t *testing.T) {
	p := Path{Pt(0, 0), Pt(3, 0), Pt(3, 4)}

	if got := p.Length(); math.Abs(got-7) > 1e-12 {
		t.Errorf("expected length 7, got %f", got)
	}

	b := p.Bounds()
	if b.Width() != 3 || b.Height() != 4 {
		t.Errorf("unexpected bounds %v", b)
	}

	c := p.Clone()
	c[0] = Pt(9, 9)
	if p[0] != Pt(0, 0) {
		t.Error("clone should not alias the original")
	}

	if !p.IsValid() {
		t.Error("finite path should be valid")
	}
	p = append(p, Pt(math.NaN(), 0))
	if p.IsValid() {
		t.Error("path with NaN should be invalid")
	}
}

func TestTwiddleTable(t *testing.T) {
	tbl := NewTwiddleTable(8)

	for m := 0; m < 20; m++ {
		s, c := tbl.SinCos(m)
		angle := 2 * math.Pi * float64(m) / 8
		if math.Abs(s-math.Sin(angle)) > 1e-12 || math.Abs(c-math.Cos(angle)) > 1e-12 {
			t.Errorf("SinCos(%d) = (%f, %f)", m, s, c)
		}
	}
}

func TestParallelForCoversRange(t *testing.T) {
	const n = 1000
	var seen [n]int32

	ParallelFor(n, 16, func(start, end int) {
		for i := start; i < end; i++ {
			atomic.AddInt32(&seen[i], 1)
		}
	})

	for i, v := range seen {
		if v != 1 {
			t.Fatalf("index %d visited %d times", i, v)
		}
	}
}

func TestParallelForContextError(t *testing.T) {
	boom := errors.New("boom")

	err := ParallelForContext(context.Background(), 100, 1, func(start, end int) error {
		if start == 0 {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}

func TestPipelineErrorUnwrap(t *testing.T) {
	err := &PipelineError{Phase: "resample", Wrapped: ErrInput}

	if !errors.Is(err, ErrInput) {
		t.Error("expected PipelineError to unwrap to ErrInput")
	}
	if err.Error() != "resample: "+ErrInput.Error() {
		t.Errorf("unexpected message %q", err.Error())
	}
}
