package resample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

func circle(n int, r float64) []dynamo.Point {
	pts := make([]dynamo.Point, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		pts[i] = dynamo.Pt(r*math.Cos(a), r*math.Sin(a))
	}
	return pts
}

func TestResampleLengthExact(t *testing.T) {
	raws := [][]dynamo.Point{
		{dynamo.Pt(0, 0), dynamo.Pt(1, 0)},
		{dynamo.Pt(0, 0), dynamo.Pt(0, 0), dynamo.Pt(5, 5)},
		circle(7, 3),
		circle(100, 1),
	}
	for _, raw := range raws {
		for _, k := range []int{1, 2, 8, 100, 1001} {
			assert.Len(t, Resample(raw, k), k, "raw=%d k=%d", len(raw), k)
		}
	}
}

func TestResampleShortInput(t *testing.T) {
	assert.Empty(t, Resample(nil, 10))

	one := []dynamo.Point{dynamo.Pt(3, 4)}
	out := Resample(one, 10)
	require.Len(t, out, 1)
	assert.Equal(t, one[0], out[0])

	assert.Empty(t, Resample(circle(10, 1), 0))
}

func TestResampleScaleInvariant(t *testing.T) {
	raw := []dynamo.Point{
		dynamo.Pt(0, 0), dynamo.Pt(4, 1), dynamo.Pt(5, 6), dynamo.Pt(1, 3), dynamo.Pt(0, 0),
	}
	scaled := make([]dynamo.Point, len(raw))
	for i, p := range raw {
		scaled[i] = dynamo.Pt(p.X*37.5, p.Y*37.5)
	}

	a := Resample(raw, 64)
	b := Resample(scaled, 64)
	require.Len(t, b, len(a))
	for i := range a {
		assert.InDelta(t, a[i].X, b[i].X, 1e-9)
		assert.InDelta(t, a[i].Y, b[i].Y, 1e-9)
	}
}

func TestNormalizeExtentAndFlip(t *testing.T) {
	raw := []dynamo.Point{dynamo.Pt(10, 10), dynamo.Pt(30, 10), dynamo.Pt(30, 15)}
	out := Normalize(raw, 1000)

	b := out.Bounds()
	assert.InDelta(t, 1000, b.Width(), 1e-9)
	assert.InDelta(t, 250, b.Height(), 1e-9)

	c := b.Center()
	assert.InDelta(t, 0, c.X, 1e-9)
	assert.InDelta(t, 0, c.Y, 1e-9)

	// Raw Y grows from 10 to 15; after the flip it must shrink.
	assert.Greater(t, out[1].Y, out[2].Y)
}

func TestNormalizeDegenerate(t *testing.T) {
	raw := []dynamo.Point{dynamo.Pt(2, 2), dynamo.Pt(2, 2), dynamo.Pt(2, 2)}
	out := Normalize(raw, 1000)
	for _, p := range out {
		assert.False(t, p.IsNaN() || p.IsInf())
		assert.InDelta(t, 0, p.X, 1e-12)
		assert.InDelta(t, 0, p.Y, 1e-12)
	}
	assert.Len(t, Resample(raw, 5), 5)
}

func TestScale(t *testing.T) {
	scale, err := Scale([]dynamo.Point{dynamo.Pt(0, 0), dynamo.Pt(4, 2)}, 1000)
	require.NoError(t, err)
	assert.InDelta(t, 250, scale, 1e-12)

	scale, err = Scale([]dynamo.Point{dynamo.Pt(2, 2), dynamo.Pt(2, 2)}, 1000)
	assert.ErrorIs(t, err, dynamo.ErrDegenerate)
	assert.Equal(t, 1.0, scale)
}

func TestResamplerSize(t *testing.T) {
	assert.Equal(t, DefaultTargetSize, (&Resampler{}).Size())
	assert.Equal(t, 50.0, (&Resampler{TargetSize: 50}).Size())
}

func TestResampleCircleEvenChords(t *testing.T) {
	out := Resample(circle(100, 1), 8)
	require.Len(t, out, 8)

	// The circle normalizes to radius 500.
	want := 2 * 500 * math.Sin(math.Pi/8)
	for i := range out {
		chord := out[i].Distance(out[(i+1)%len(out)])
		assert.InDelta(t, want, chord, 1.0, "chord %d", i)
	}
}

func TestByArcLengthDuplicates(t *testing.T) {
	pts := []dynamo.Point{
		dynamo.Pt(0, 0), dynamo.Pt(0, 0), dynamo.Pt(10, 0), dynamo.Pt(10, 0),
	}
	out := ByArcLength(pts, 5)
	require.Len(t, out, 5)
	for i, p := range out {
		assert.InDelta(t, float64(i)*2, p.X, 1e-12)
		assert.InDelta(t, 0, p.Y, 1e-12)
	}
}

func TestByArcLengthUniformSpacing(t *testing.T) {
	pts := []dynamo.Point{dynamo.Pt(0, 0), dynamo.Pt(1, 0), dynamo.Pt(1, 9), dynamo.Pt(0, 10)}
	out := ByArcLength(pts, 50)
	require.Len(t, out, 50)

	step := dynamo.Path(pts).Length() / 50
	for i := 1; i < len(out); i++ {
		// Chords cut corners, so spacing never exceeds the arc step.
		assert.LessOrEqual(t, out[i-1].Distance(out[i]), step+1e-9)
	}
}
