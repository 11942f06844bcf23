package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

// Raster is a packed top-down RGB image. Drawing blends with a constant
// alpha per primitive.
type Raster struct {
	Width, Height int
	Pix           []byte
}

// NewRaster wraps buf, which must hold width*height*3 bytes.
func NewRaster(width, height int, buf []byte) *Raster {
	return &Raster{Width: width, Height: height, Pix: buf[:width*height*3]}
}

func (r *Raster) Fill(c colorful.Color) {
	cr, cg, cb := c.Clamped().RGB255()
	for i := 0; i < len(r.Pix); i += 3 {
		r.Pix[i], r.Pix[i+1], r.Pix[i+2] = cr, cg, cb
	}
}

// Blend mixes c into the pixel at (x, y) with weight alpha.
func (r *Raster) Blend(x, y int, c colorful.Color, alpha float64) {
	if x < 0 || y < 0 || x >= r.Width || y >= r.Height || alpha <= 0 {
		return
	}
	i := (y*r.Width + x) * 3
	if alpha >= 1 {
		r.Pix[i], r.Pix[i+1], r.Pix[i+2] = c.Clamped().RGB255()
		return
	}
	mix := func(dst byte, src float64) byte {
		v := float64(dst)/255*(1-alpha) + dynamo.Clamp(src, 0, 1)*alpha
		return byte(math.Round(v * 255))
	}
	r.Pix[i] = mix(r.Pix[i], c.R)
	r.Pix[i+1] = mix(r.Pix[i+1], c.G)
	r.Pix[i+2] = mix(r.Pix[i+2], c.B)
}

// At returns the color at (x, y).
func (r *Raster) At(x, y int) colorful.Color {
	i := (y*r.Width + x) * 3
	return colorful.Color{
		R: float64(r.Pix[i]) / 255,
		G: float64(r.Pix[i+1]) / 255,
		B: float64(r.Pix[i+2]) / 255,
	}
}

// Line draws a line of the given pixel width. Pixels along the line are
// visited once so the alpha does not stack.
func (r *Raster) Line(x0, y0, x1, y1 float64, width float64, c colorful.Color, alpha float64) {
	x0, y0, x1, y1, ok := clip(x0, y0, x1, y1, float64(r.Width), float64(r.Height))
	if !ok {
		return
	}
	half := int(math.Max(width, 1)/2 - 0.5)
	ix0, iy0 := int(math.Round(x0)), int(math.Round(y0))
	ix1, iy1 := int(math.Round(x1)), int(math.Round(y1))
	steep := absInt(iy1-iy0) > absInt(ix1-ix0)
	bresenham(ix0, iy0, ix1, iy1, func(x, y int) {
		for o := -half; o <= half; o++ {
			if steep {
				r.Blend(x+o, y, c, alpha)
			} else {
				r.Blend(x, y+o, c, alpha)
			}
		}
	})
}

// Circle draws a one pixel circle outline.
func (r *Raster) Circle(cx, cy, radius float64, c colorful.Color, alpha float64) {
	if !finite(cx, cy, radius) {
		return
	}
	if !r.overlaps(int(cx-radius)-1, int(cy-radius)-1, int(cx+radius)+1, int(cy+radius)+1) {
		return
	}
	if radius < 1 {
		r.Blend(int(math.Round(cx)), int(math.Round(cy)), c, alpha)
		return
	}
	var last [2]int
	first := true
	circlePoints(cx, cy, radius, func(x, y int) {
		if !first && last == [2]int{x, y} {
			return
		}
		first = false
		last = [2]int{x, y}
		r.Blend(x, y, c, alpha)
	})
}

func (r *Raster) overlaps(x0, y0, x1, y1 int) bool {
	return x1 >= 0 && y1 >= 0 && x0 < r.Width && y0 < r.Height
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
