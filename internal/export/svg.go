package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

// SVGStyle sets the colors of an exported contour.
type SVGStyle struct {
	Stroke      string
	Background  string
	StrokeWidth float64
}

func DefaultSVGStyle() SVGStyle {
	return SVGStyle{Stroke: "#00ffff", Background: "#0d0d1a", StrokeWidth: 1.5}
}

// PathToSVG draws path as one closed polyline fitted into a width×height
// document with 10% padding. The aspect ratio is kept and world Y points up.
func PathToSVG(path dynamo.Path, width, height int, style SVGStyle) string {
	if len(path) < 2 || width <= 0 || height <= 0 {
		return ""
	}

	b := path.Bounds()
	rangeX, rangeY := b.Width(), b.Height()
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	scale := min(float64(width)/(rangeX*1.2), float64(height)/(rangeY*1.2))
	center := b.Center()

	var sb strings.Builder

	fmt.Fprintf(&sb, `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, width, height, width, height)
	if style.Background != "" {
		fmt.Fprintf(&sb, `<rect width="100%%" height="100%%" fill="%s"/>
`, style.Background)
	}
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="%g" stroke-linejoin="round" d="`, style.Stroke, style.StrokeWidth)

	for i, p := range path {
		x := float64(width)/2 + (p.X-center.X)*scale
		y := float64(height)/2 - (p.Y-center.Y)*scale
		if i == 0 {
			fmt.Fprintf(&sb, "M%.2f,%.2f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.2f,%.2f", x, y)
		}
	}

	sb.WriteString(` Z"/>
</svg>
`)
	return sb.String()
}
