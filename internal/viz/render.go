package viz

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"honnef.co/go/curve"

	"github.com/san-kum/fourierforge/internal/camera"
	"github.com/san-kum/fourierforge/internal/dynamo"
	"github.com/san-kum/fourierforge/internal/session"
)

// Layer colors and opacities.
var (
	referenceColor = colorful.Color{R: 0.2, G: 0.2, B: 0.2}
	guideColor     = colorful.Color{R: 1, G: 1, B: 1}
)

const (
	referenceAlpha = 0.5
	circleAlpha    = 0.2
	armAlpha       = 0.5
)

// Renderer rasterizes frame views into packed RGB buffers drawn from a
// pool. Buffers handed out by Render go back with Release.
type Renderer struct {
	Width, Height int
	pool          *FramePool
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{Width: width, Height: height, pool: NewFramePool(width, height)}
}

// Render draws v back to front: reference outline, trail, circles, arms.
func (r *Renderer) Render(v session.FrameView) []byte {
	buf := r.pool.Get()
	r.Draw(NewRaster(r.Width, r.Height, buf), v)
	return buf
}

func (r *Renderer) Release(buf []byte) { r.pool.Put(buf) }

func (r *Renderer) Draw(img *Raster, v session.FrameView) {
	img.Fill(v.Visuals.Background)

	cam := camera.Camera{Zoom: v.Zoom, Pan: v.Pan}
	view := cam.View(img.Width, img.Height)
	scale := cam.Scale(img.Height)

	if v.Visuals.ShowReference && len(v.Reference) > 1 {
		polyline(img, v.Reference, view, true, 1, referenceColor, referenceAlpha)
	}
	if v.Visuals.ShowTrail && len(v.Trace) > 1 {
		polyline(img, v.Trace, view, false, v.Visuals.Stroke, v.Visuals.Ink, 1)
	}
	if v.Visuals.ShowCircles {
		for _, c := range v.Circles {
			p := c.Center.Transform(view)
			img.Circle(p.X, p.Y, c.Radius*scale, guideColor, circleAlpha)
		}
	}
	if v.Visuals.ShowArms {
		for _, a := range v.Arms {
			p0, p1 := a.From.Transform(view), a.To.Transform(view)
			img.Line(p0.X, p0.Y, p1.X, p1.Y, 1, guideColor, armAlpha)
		}
	}
}

func polyline(img *Raster, pts []dynamo.Point, view curve.Affine, closed bool, width float64, c colorful.Color, alpha float64) {
	prev := pts[0].Transform(view)
	for _, p := range pts[1:] {
		q := p.Transform(view)
		img.Line(prev.X, prev.Y, q.X, q.Y, width, c, alpha)
		prev = q
	}
	if closed {
		first := pts[0].Transform(view)
		img.Line(prev.X, prev.Y, first.X, first.Y, width, c, alpha)
	}
}

// Sketch draws v onto a Braille canvas for the terminal view. Only dots are
// available, so layers are merged and the reference is drawn dotted. Braille
// dots are roughly square, so the camera transform applies unchanged.
func Sketch(cv *Canvas, v session.FrameView) {
	cv.Clear()
	w, h := cv.Dots()
	cam := camera.Camera{Zoom: v.Zoom, Pan: v.Pan}
	view := cam.View(w, h)
	scale := cam.Scale(h)

	if v.Visuals.ShowReference {
		for i, p := range v.Reference {
			if i%4 != 0 {
				continue
			}
			q := p.Transform(view)
			if finite(q.X, q.Y) && math.Abs(q.X) < 1e6 && math.Abs(q.Y) < 1e6 {
				cv.Set(round(q.X), round(q.Y))
			}
		}
	}
	if v.Visuals.ShowTrail && len(v.Trace) > 1 {
		prev := v.Trace[0].Transform(view)
		for _, p := range v.Trace[1:] {
			q := p.Transform(view)
			cv.Segment(prev, q)
			prev = q
		}
	}
	if v.Visuals.ShowCircles {
		for _, c := range v.Circles {
			r := c.Radius * scale
			if r < 2 || r > float64(w+h) {
				continue
			}
			q := c.Center.Transform(view)
			cv.DrawCircle(q.X, q.Y, r)
		}
	}
	if v.Visuals.ShowArms {
		for _, a := range v.Arms {
			p0, p1 := a.From.Transform(view), a.To.Transform(view)
			cv.Segment(p0, p1)
		}
	}
}

func round(v float64) int { return int(math.Round(v)) }
