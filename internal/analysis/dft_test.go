package analysis

import (
	"context"
	"errors"
	"math"
	"math/cmplx"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/fourierforge/internal/dynamo"
	"github.com/san-kum/fourierforge/internal/resample"
)

func unitCircle(n int) []dynamo.Point {
	pts := make([]dynamo.Point, n)
	for i := range pts {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = dynamo.Pt(math.Cos(a), math.Sin(a))
	}
	return pts
}

func star(n int) dynamo.Path {
	p := make(dynamo.Path, n)
	for i := range p {
		a := 2 * math.Pi * float64(i) / float64(n)
		r := 100 + 40*math.Cos(5*a)
		p[i] = dynamo.Pt(r*math.Cos(a)+7, r*math.Sin(2*a)-3)
	}
	return p
}

func TestDecomposeEmpty(t *testing.T) {
	epis := Decompose(nil)
	assert.NotNil(t, epis)
	assert.Empty(t, epis)
}

func TestDecomposeSortedByAmplitude(t *testing.T) {
	epis := Decompose(star(128))
	require.Len(t, epis, 128)

	for i := 1; i < len(epis); i++ {
		assert.GreaterOrEqual(t, epis[i-1].Amplitude, epis[i].Amplitude, "index %d", i)
	}
}

func TestDecomposeReconstructs(t *testing.T) {
	path := star(96)
	epis := Decompose(path)

	for n, want := range path {
		got := dynamo.Sum(epis, len(epis), float64(n)/float64(len(path)))
		assert.InDelta(t, want.X, real(got), 1e-6, "sample %d", n)
		assert.InDelta(t, want.Y, imag(got), 1e-6, "sample %d", n)
	}

	// Reconstruct with every term is the same identity.
	back := Reconstruct(epis, len(epis), len(path))
	for n := range path {
		assert.InDelta(t, 0, path[n].Distance(back[n]), 1e-6)
	}
}

func TestDecomposeFrequencySet(t *testing.T) {
	for _, n := range []int{2, 8, 64, 130} {
		epis := Decompose(star(n))
		freqs := make([]int, len(epis))
		for i, e := range epis {
			freqs[i] = e.Frequency
		}
		slices.Sort(freqs)

		want := make([]int, 0, n)
		for f := -n / 2; f < n/2; f++ {
			want = append(want, f)
		}
		assert.Equal(t, want, freqs, "n=%d", n)
	}
}

func TestSignedFrequency(t *testing.T) {
	tests := []struct {
		k, n, want int
	}{
		{0, 8, 0},
		{3, 8, 3},
		{4, 8, -4},
		{7, 8, -1},
		{2, 5, 2},
		{3, 5, -2},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignedFrequency(tt.k, tt.n), "k=%d n=%d", tt.k, tt.n)
	}
}

func TestDecomposeCircleDominant(t *testing.T) {
	raw := unitCircle(100)
	raw = append(raw, raw[0])
	path := resample.Resample(raw, 8)
	epis := Decompose(path)
	require.Len(t, epis, 8)

	top := epis[0]
	assert.Equal(t, 1, abs(top.Frequency))
	assert.InDelta(t, 500, top.Amplitude, 1.0)
	for _, e := range epis[1:] {
		assert.Less(t, e.Amplitude, 1.0, "frequency %d", e.Frequency)
	}
}

func TestDecomposeCircleDirection(t *testing.T) {
	// Counter-clockwise samples must come out as frequency +1.
	path := dynamo.Path(unitCircle(16))
	epis := Decompose(path)
	assert.Equal(t, 1, epis[0].Frequency)
	assert.InDelta(t, 1, cmplx.Abs(epis[0].Value), 1e-9)
}

func TestDecomposeDeterministic(t *testing.T) {
	// A constant path puts all energy in bin 0.
	path := dynamo.Path{dynamo.Pt(2, 2), dynamo.Pt(2, 2), dynamo.Pt(2, 2), dynamo.Pt(2, 2)}
	epis := Decompose(path)
	assert.Equal(t, 0, epis[0].Frequency)
	assert.InDelta(t, 2*math.Sqrt2, epis[0].Amplitude, 1e-12)

	big := star(300)
	assert.Equal(t, Decompose(big), Decompose(big))
}

func TestDecomposeContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DecomposeContext(ctx, star(512))
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestSpectrumAndAmplitudes(t *testing.T) {
	epis := Decompose(dynamo.Path(unitCircle(16)))

	spec := Spectrum(epis)
	require.Len(t, spec, 16)
	assert.InDelta(t, 1, spec[1+8], 1e-9)

	amps := Amplitudes(epis, 3)
	assert.Len(t, amps, 3)
	assert.InDelta(t, 1, amps[0], 1e-9)
	assert.Len(t, Amplitudes(epis, 100), 16)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
