// Package svgpath samples SVG documents into ordered contour points.
//
// Supported elements are path, polyline, polygon, line, rect, circle and
// ellipse, with transforms on groups and shapes. Shapes are concatenated in
// document order into a single contour.
package svgpath

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"iter"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"honnef.co/go/curve"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

func tracer() tracing.Trace {
	return tracing.Select("fourier.svg")
}

// DefaultFlatness is the maximum distance, in source units, between a curve
// and its polyline approximation.
const DefaultFlatness = 0.1

type Sampler struct {
	Flatness float64
}

func (s Sampler) tolerance() float64 {
	if s.Flatness > 0 {
		return s.Flatness
	}
	return DefaultFlatness
}

// Parse reads an SVG document and returns its flattened contour points.
func (s Sampler) Parse(r io.Reader) ([]dynamo.Point, error) {
	path, err := s.ParseBezPath(r)
	if err != nil {
		return nil, err
	}
	return Flatten(path, s.tolerance()), nil
}

// ParseBezPath reads an SVG document into one Bézier path in document
// coordinates, with every transform applied.
func (s Sampler) ParseBezPath(r io.Reader) (curve.BezPath, error) {
	dec := xml.NewDecoder(r)
	stack := []curve.Affine{curve.Identity}
	var out curve.BezPath
	shapes := 0

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decode token: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			name := t.Name.Local
			switch name {
			case "defs", "clipPath", "mask", "symbol", "marker", "pattern":
				if err := dec.Skip(); err != nil {
					return nil, fmt.Errorf("skip <%s>: %w", name, err)
				}
				continue
			}

			local, err := ParseTransform(attr(t, "transform"))
			if err != nil {
				return nil, fmt.Errorf("<%s>: %w", name, err)
			}
			aff := stack[len(stack)-1].Mul(local)

			switch name {
			case "g", "svg", "a":
				stack = append(stack, aff)
				continue
			}

			els, err := shapeElements(t, s.tolerance())
			if err != nil {
				return nil, fmt.Errorf("<%s>: %w", name, err)
			}
			if els == nil {
				continue
			}
			n := len(out)
			for el := range curve.Transform(els, aff) {
				out.Push(el)
			}
			if len(out) > n {
				shapes++
			}

		case xml.EndElement:
			switch t.Name.Local {
			case "g", "svg", "a":
				if len(stack) > 1 {
					stack = stack[:len(stack)-1]
				}
			}
		}
	}

	tracer().Debugf("parsed %d shapes into %d path elements", shapes, len(out))
	return out, nil
}

func shapeElements(t xml.StartElement, tol float64) (iter.Seq[curve.PathElement], error) {
	switch t.Name.Local {
	case "path":
		d := strings.TrimSpace(attr(t, "d"))
		if d == "" {
			return nil, nil
		}
		p, err := ParsePathData(d)
		if err != nil {
			return nil, err
		}
		return p.Elements(), nil

	case "polyline", "polygon":
		pts, err := parsePoints(attr(t, "points"))
		if err != nil || len(pts) == 0 {
			return nil, err
		}
		var p curve.BezPath
		p.MoveTo(pts[0])
		for _, pt := range pts[1:] {
			p.LineTo(pt)
		}
		if t.Name.Local == "polygon" {
			if pts[len(pts)-1] != pts[0] {
				p.LineTo(pts[0])
			}
			p.ClosePath()
		}
		return p.Elements(), nil

	case "line":
		v, err := floats(t, "x1", "y1", "x2", "y2")
		if err != nil {
			return nil, err
		}
		p := curve.BezPath{curve.MoveTo(curve.Pt(v[0], v[1])), curve.LineTo(curve.Pt(v[2], v[3]))}
		return p.Elements(), nil

	case "rect":
		v, err := floats(t, "x", "y", "width", "height")
		if err != nil {
			return nil, err
		}
		if v[2] <= 0 || v[3] <= 0 {
			return nil, nil
		}
		return curve.Rect{X0: v[0], Y0: v[1], X1: v[0] + v[2], Y1: v[1] + v[3]}.PathElements(tol), nil

	case "circle":
		v, err := floats(t, "cx", "cy", "r")
		if err != nil {
			return nil, err
		}
		if v[2] <= 0 {
			return nil, nil
		}
		return curve.Circle{Center: curve.Pt(v[0], v[1]), Radius: v[2]}.PathElements(tol), nil

	case "ellipse":
		v, err := floats(t, "cx", "cy", "rx", "ry")
		if err != nil {
			return nil, err
		}
		if v[2] <= 0 || v[3] <= 0 {
			return nil, nil
		}
		return curve.NewEllipse(curve.Pt(v[0], v[1]), curve.Vec(v[2], v[3]), 0).PathElements(tol), nil
	}
	return nil, nil
}

// Flatten approximates path by line segments within tol and returns the
// visited points in order. Subpaths are joined end to start.
func Flatten(path curve.BezPath, tol float64) []dynamo.Point {
	var (
		pts   []dynamo.Point
		start dynamo.Point
	)
	for el := range path.Flatten(tol) {
		switch el.Kind {
		case curve.MoveToKind:
			start = el.P0
			pts = append(pts, el.P0)
		case curve.LineToKind:
			pts = append(pts, el.P0)
		case curve.ClosePathKind:
			if len(pts) > 0 && pts[len(pts)-1] != start {
				pts = append(pts, start)
			}
		}
	}
	return pts
}

func attr(t xml.StartElement, name string) string {
	for _, a := range t.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// floats reads numeric attributes. Missing attributes are zero; trailing
// units such as "px" are ignored.
func floats(t xml.StartElement, names ...string) ([]float64, error) {
	out := make([]float64, len(names))
	for i, n := range names {
		s := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(attr(t, n)), "px"))
		if s == "" {
			continue
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("attribute %s=%q: %w", n, s, err)
		}
		out[i] = v
	}
	return out, nil
}

func parsePoints(s string) ([]curve.Point, error) {
	sc := &scanner{s: s}
	var vals []float64
	for !sc.done() {
		v, err := sc.number()
		if err != nil {
			return nil, err
		}
		vals = append(vals, v)
	}
	if len(vals)%2 != 0 {
		return nil, fmt.Errorf("odd number of coordinates in points list")
	}
	pts := make([]curve.Point, 0, len(vals)/2)
	for c := range slices.Chunk(vals, 2) {
		pts = append(pts, curve.Pt(c[0], c[1]))
	}
	return pts, nil
}

// File is a pipeline source reading an SVG file from disk.
type File struct {
	Path     string
	Flatness float64
}

func (f File) Sample(ctx context.Context) ([]dynamo.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	fh, err := os.Open(f.Path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	pts, err := Sampler{Flatness: f.Flatness}.Parse(fh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Path, err)
	}
	tracer().Infof("sampled %d points from %s", len(pts), f.Path)
	return pts, nil
}

// Reader is a pipeline source over an in-memory SVG document.
type Reader struct {
	Data     []byte
	Flatness float64
}

func (r Reader) Sample(ctx context.Context) ([]dynamo.Point, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Sampler{Flatness: r.Flatness}.Parse(bytes.NewReader(r.Data))
}
