package dynamo

import (
	"math"
	"math/cmplx"

	"honnef.co/go/curve"
)

// Point is a 2D coordinate in source or normalized units.
type Point = curve.Point

// Pt returns the point (x, y).
func Pt(x, y float64) Point { return curve.Pt(x, y) }

// ToComplex treats p as x + iy.
func ToComplex(p Point) complex128 { return complex(p.X, p.Y) }

// FromComplex is the inverse of ToComplex.
func FromComplex(c complex128) Point { return Point{X: real(c), Y: imag(c)} }

type Path []Point

func (p Path) Clone() Path {
	c := make(Path, len(p))
	copy(c, p)
	return c
}

// IsValid reports whether every coordinate is finite.
func (p Path) IsValid() bool {
	for _, pt := range p {
		if pt.IsNaN() || pt.IsInf() {
			return false
		}
	}
	return true
}

// Bounds returns the axis-aligned bounding box. The zero Rect is returned for
// an empty path.
func (p Path) Bounds() curve.Rect {
	if len(p) == 0 {
		return curve.Rect{}
	}
	r := curve.Rect{X0: p[0].X, Y0: p[0].Y, X1: p[0].X, Y1: p[0].Y}
	for _, pt := range p[1:] {
		r = r.UnionPoint(pt)
	}
	return r
}

// Length returns the polyline length of the path.
func (p Path) Length() float64 {
	total := 0.0
	for i := 1; i < len(p); i++ {
		total += p[i-1].Distance(p[i])
	}
	return total
}

// Epicycle is one rotating vector: its value at t=0 and its signed rate in
// cycles per unit time.
type Epicycle struct {
	Value     complex128
	Frequency int
	Amplitude float64
	Phase     float64
}

func NewEpicycle(value complex128, frequency int) Epicycle {
	return Epicycle{
		Value:     value,
		Frequency: frequency,
		Amplitude: cmplx.Abs(value),
		Phase:     cmplx.Phase(value),
	}
}

// Evaluate returns Value·e^{i·Frequency·2π·t}.
func (e Epicycle) Evaluate(t float64) complex128 {
	angle := float64(e.Frequency) * 2 * math.Pi * t
	return e.Value * cmplx.Rect(1, angle)
}

// Sum returns the tip position of the first k epicycles at time t. k is
// clamped to [0, len(epis)].
func Sum(epis []Epicycle, k int, t float64) complex128 {
	k = min(max(k, 0), len(epis))
	var tip complex128
	for _, e := range epis[:k] {
		tip += e.Evaluate(t)
	}
	return tip
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ClampInt limits v to [lo, hi].
func ClampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
