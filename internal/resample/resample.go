// Package resample turns raw contour samples into a fixed-length path whose
// points are spaced by equal arc length.
package resample

import (
	"fmt"
	"math"

	"honnef.co/go/curve"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

// DefaultTargetSize is the extent of the larger bounding dimension after
// normalization.
const DefaultTargetSize = 1000.0

// Resampler normalizes then resamples raw points.
type Resampler struct {
	TargetSize float64
}

func New() *Resampler {
	return &Resampler{TargetSize: DefaultTargetSize}
}

// Resample normalizes raw to TargetSize and resamples it to exactly count
// points. Fewer than 2 raw points are returned unchanged.
func (r *Resampler) Resample(raw []dynamo.Point, count int) dynamo.Path {
	if len(raw) < 2 {
		return dynamo.Path(raw).Clone()
	}
	if count <= 0 {
		return dynamo.Path{}
	}
	return ByArcLength(Normalize(raw, r.Size()), count)
}

// Size is the effective target size.
func (r *Resampler) Size() float64 {
	if r.TargetSize <= 0 {
		return DefaultTargetSize
	}
	return r.TargetSize
}

// Resample uses the default target size.
func Resample(raw []dynamo.Point, count int) dynamo.Path {
	return New().Resample(raw, count)
}

// Normalize centers raw on the origin, scales it uniformly so the larger
// bounding dimension equals targetSize and flips the Y axis. A non-finite
// scale (zero-extent input) falls back to 1.
func Normalize(raw []dynamo.Point, targetSize float64) dynamo.Path {
	if len(raw) == 0 {
		return dynamo.Path{}
	}
	center := dynamo.Path(raw).Bounds().Center()
	scale, _ := Scale(raw, targetSize)

	aff := curve.FlipY.
		Mul(curve.Scale(scale, scale)).
		Mul(curve.Translate(curve.Vec(-center.X, -center.Y)))

	out := make(dynamo.Path, len(raw))
	for i, p := range raw {
		out[i] = p.Transform(aff)
	}
	return out
}

// Scale returns the uniform factor that maps the larger bounding dimension
// of raw to targetSize. A non-finite factor, as for zero-extent input, is
// reported as dynamo.ErrDegenerate together with the fallback of 1.
func Scale(raw []dynamo.Point, targetSize float64) (float64, error) {
	bounds := dynamo.Path(raw).Bounds()
	scale := targetSize / math.Max(bounds.Width(), bounds.Height())
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 1, fmt.Errorf("resample: %gx%g extent: %w", bounds.Width(), bounds.Height(), dynamo.ErrDegenerate)
	}
	return scale, nil
}

// ByArcLength resamples points to exactly count points spaced by
// length/count along the polyline. The segment cursor only moves forward,
// so the walk is linear in len(points)+count.
func ByArcLength(points []dynamo.Point, count int) dynamo.Path {
	if len(points) < 2 {
		return dynamo.Path(points).Clone()
	}
	if count <= 0 {
		return dynamo.Path{}
	}

	cumulative := make([]float64, len(points))
	for i := 1; i < len(points); i++ {
		cumulative[i] = cumulative[i-1] + points[i-1].Distance(points[i])
	}
	total := cumulative[len(cumulative)-1]
	step := total / float64(count)

	out := make(dynamo.Path, count)
	last := points[len(points)-1]
	seg := 0
	for i := range out {
		d := float64(i) * step
		for seg < len(points)-1 && cumulative[seg+1] < d {
			seg++
		}
		if seg >= len(points)-1 {
			out[i] = last
			continue
		}

		segLen := cumulative[seg+1] - cumulative[seg]
		t := 0.0
		if segLen > 0 {
			t = (d - cumulative[seg]) / segLen
		}
		out[i] = points[seg].Lerp(points[seg+1], t)
	}
	return out
}
