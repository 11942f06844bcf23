package svgpath

import (
	"fmt"
	"math"
	"strings"

	"honnef.co/go/curve"
)

// ParseTransform parses an SVG transform list such as
// "translate(10 20) rotate(45)". Functions apply right to left, as in SVG.
func ParseTransform(s string) (curve.Affine, error) {
	aff := curve.Identity
	s = strings.TrimSpace(s)
	for s != "" {
		open := strings.IndexByte(s, '(')
		end := strings.IndexByte(s, ')')
		if open < 0 || end < open {
			return curve.Identity, fmt.Errorf("malformed transform %q", truncate(s, 40))
		}
		name := strings.TrimSpace(s[:open])
		args, err := transformArgs(s[open+1 : end])
		if err != nil {
			return curve.Identity, fmt.Errorf("transform %s: %w", name, err)
		}
		t, err := transformFunc(name, args)
		if err != nil {
			return curve.Identity, err
		}
		aff = aff.Mul(t)
		s = strings.TrimLeft(s[end+1:], " \t\n\r,")
	}
	return aff, nil
}

func transformArgs(s string) ([]float64, error) {
	sc := &scanner{s: s}
	var out []float64
	for !sc.done() {
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func transformFunc(name string, a []float64) (curve.Affine, error) {
	arity := func(counts ...int) error {
		for _, c := range counts {
			if len(a) == c {
				return nil
			}
		}
		return fmt.Errorf("transform %s: unexpected %d arguments", name, len(a))
	}
	deg := func(v float64) float64 { return v * math.Pi / 180 }

	switch name {
	case "matrix":
		if err := arity(6); err != nil {
			return curve.Identity, err
		}
		return curve.NewAffine([6]float64{a[0], a[1], a[2], a[3], a[4], a[5]}), nil
	case "translate":
		if err := arity(1, 2); err != nil {
			return curve.Identity, err
		}
		ty := 0.0
		if len(a) == 2 {
			ty = a[1]
		}
		return curve.Translate(curve.Vec(a[0], ty)), nil
	case "scale":
		if err := arity(1, 2); err != nil {
			return curve.Identity, err
		}
		sy := a[0]
		if len(a) == 2 {
			sy = a[1]
		}
		return curve.Scale(a[0], sy), nil
	case "rotate":
		if err := arity(1, 3); err != nil {
			return curve.Identity, err
		}
		if len(a) == 3 {
			return curve.RotateAbout(deg(a[0]), curve.Pt(a[1], a[2])), nil
		}
		return curve.Rotate(deg(a[0])), nil
	case "skewX":
		if err := arity(1); err != nil {
			return curve.Identity, err
		}
		return curve.Skew(math.Tan(deg(a[0])), 0), nil
	case "skewY":
		if err := arity(1); err != nil {
			return curve.Identity, err
		}
		return curve.Skew(0, math.Tan(deg(a[0]))), nil
	default:
		return curve.Identity, fmt.Errorf("unsupported transform %q", name)
	}
}
