package svgpath

import (
	"fmt"

	"honnef.co/go/curve"
)

// ParsePathData parses the d attribute of an SVG <path> into a Bézier path.
// Elliptical arcs are replaced by a straight segment to their endpoint.
func ParsePathData(d string) (curve.BezPath, error) {
	var (
		path  curve.BezPath
		sc    = &scanner{s: d}
		cur   curve.Point
		start curve.Point
		// ctrl is the last control point, for S and T reflection.
		ctrl    curve.Point
		prevCmd byte
		cmd     byte
		open    bool
	)

	abs := func(rel bool, x, y float64) curve.Point {
		if rel {
			return curve.Pt(cur.X+x, cur.Y+y)
		}
		return curve.Pt(x, y)
	}
	// ensureOpen restarts a subpath at the current point after Z.
	ensureOpen := func() {
		if !open {
			path.MoveTo(cur)
			start = cur
			open = true
		}
	}

	for !sc.done() {
		explicit := false
		if c, ok := sc.peekCommand(); ok {
			sc.pos++
			cmd = c
			explicit = true
		} else if cmd == 0 {
			return nil, fmt.Errorf("path data must start with a command: %q", truncate(d, 40))
		} else if !sc.peekNumber() {
			return nil, fmt.Errorf("unexpected character %q in path data", d[sc.pos])
		}

		rel := cmd >= 'a' && cmd <= 'z'
		switch cmd {
		case 'Z', 'z':
			if !explicit {
				return nil, fmt.Errorf("unexpected number after close path in %q", truncate(d, 40))
			}
			if open {
				if cur != start {
					path.LineTo(start)
				}
				path.ClosePath()
			}
			cur = start
			open = false
			prevCmd = cmd
			continue

		case 'M', 'm':
			v, err := sc.numbers(2)
			if err != nil {
				return nil, err
			}
			cur = abs(rel, v[0], v[1])
			path.MoveTo(cur)
			start = cur
			open = true
			// Further pairs are implicit line-tos.
			if rel {
				cmd = 'l'
			} else {
				cmd = 'L'
			}

		case 'L', 'l':
			v, err := sc.numbers(2)
			if err != nil {
				return nil, err
			}
			ensureOpen()
			cur = abs(rel, v[0], v[1])
			path.LineTo(cur)

		case 'H', 'h':
			x, err := sc.number()
			if err != nil {
				return nil, err
			}
			ensureOpen()
			if rel {
				x += cur.X
			}
			cur = curve.Pt(x, cur.Y)
			path.LineTo(cur)

		case 'V', 'v':
			y, err := sc.number()
			if err != nil {
				return nil, err
			}
			ensureOpen()
			if rel {
				y += cur.Y
			}
			cur = curve.Pt(cur.X, y)
			path.LineTo(cur)

		case 'C', 'c':
			v, err := sc.numbers(6)
			if err != nil {
				return nil, err
			}
			ensureOpen()
			p1 := abs(rel, v[0], v[1])
			p2 := abs(rel, v[2], v[3])
			p3 := abs(rel, v[4], v[5])
			path.CubicTo(p1, p2, p3)
			ctrl, cur = p2, p3

		case 'S', 's':
			v, err := sc.numbers(4)
			if err != nil {
				return nil, err
			}
			ensureOpen()
			p1 := cur
			if isCubic(prevCmd) {
				p1 = reflect(ctrl, cur)
			}
			p2 := abs(rel, v[0], v[1])
			p3 := abs(rel, v[2], v[3])
			path.CubicTo(p1, p2, p3)
			ctrl, cur = p2, p3

		case 'Q', 'q':
			v, err := sc.numbers(4)
			if err != nil {
				return nil, err
			}
			ensureOpen()
			p1 := abs(rel, v[0], v[1])
			p2 := abs(rel, v[2], v[3])
			path.QuadTo(p1, p2)
			ctrl, cur = p1, p2

		case 'T', 't':
			v, err := sc.numbers(2)
			if err != nil {
				return nil, err
			}
			ensureOpen()
			p1 := cur
			if isQuad(prevCmd) {
				p1 = reflect(ctrl, cur)
			}
			p2 := abs(rel, v[0], v[1])
			path.QuadTo(p1, p2)
			ctrl, cur = p1, p2

		case 'A', 'a':
			if _, err := sc.numbers(3); err != nil {
				return nil, err
			}
			if _, err := sc.flag(); err != nil {
				return nil, err
			}
			if _, err := sc.flag(); err != nil {
				return nil, err
			}
			v, err := sc.numbers(2)
			if err != nil {
				return nil, err
			}
			ensureOpen()
			cur = abs(rel, v[0], v[1])
			path.LineTo(cur)

		default:
			return nil, fmt.Errorf("unsupported path command %q", string(cmd))
		}
		prevCmd = cmd
	}

	return path, nil
}

func isCubic(c byte) bool {
	return c == 'C' || c == 'c' || c == 'S' || c == 's'
}

func isQuad(c byte) bool {
	return c == 'Q' || c == 'q' || c == 'T' || c == 't'
}

// reflect mirrors ctrl about p.
func reflect(ctrl, p curve.Point) curve.Point {
	return curve.Pt(2*p.X-ctrl.X, 2*p.Y-ctrl.Y)
}
