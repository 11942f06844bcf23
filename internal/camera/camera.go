// Package camera holds the 2D view state: zoom, pan and pen auto-follow.
package camera

import (
	"math"

	"honnef.co/go/curve"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

// Zoom limits and the world extent visible at zoom 1.
const (
	MinZoom     = 0.1
	MaxZoom     = 50.0
	ViewExtent  = 1000.0
	WheelFactor = 1.1
)

// Camera maps world coordinates to the screen. Pan is added to world
// coordinates before zooming, so following a point p means Pan = -p.
type Camera struct {
	Zoom       float64
	Pan        curve.Vec2
	AutoFollow bool
}

func New() *Camera {
	return &Camera{Zoom: 1}
}

// Reset restores the identity view and disables auto-follow.
func (c *Camera) Reset() {
	c.Zoom = 1
	c.Pan = curve.Vec2{}
	c.AutoFollow = false
}

// SetZoom clamps z to [MinZoom, MaxZoom].
func (c *Camera) SetZoom(z float64) {
	if math.IsNaN(z) {
		return
	}
	c.Zoom = dynamo.Clamp(z, MinZoom, MaxZoom)
}

// SetZoomUnclamped sets z as is. The cinematic director drives zoom along a
// fixed curve and must not be clipped by the manual range.
func (c *Camera) SetZoomUnclamped(z float64) {
	if z > 0 {
		c.Zoom = z
	}
}

func (c *Camera) ZoomBy(factor float64) {
	if factor <= 0 {
		return
	}
	c.SetZoom(c.Zoom * factor)
}

// Drag pans by a screen-space delta expressed in zoom-1 world units. Screen
// Y grows downward.
func (c *Camera) Drag(dx, dy float64) {
	c.Pan = c.Pan.Add(curve.Vec(dx/c.Zoom, -dy/c.Zoom))
}

// Follow centers p when auto-follow is on.
func (c *Camera) Follow(p dynamo.Point) {
	if c.AutoFollow {
		c.Pan = curve.Vec(-p.X, -p.Y)
	}
}

// BlendPan moves the pan a fraction f of the way toward target.
func (c *Camera) BlendPan(target curve.Vec2, f float64) {
	c.Pan = c.Pan.Lerp(target, f)
}

// View returns the world-to-screen transform for a w×h viewport. ViewExtent
// world units span the viewport height at zoom 1 and Y points up.
func (c *Camera) View(w, h int) curve.Affine {
	s := c.Zoom * float64(h) / ViewExtent
	return curve.Translate(curve.Vec(float64(w)/2, float64(h)/2)).
		Mul(curve.Scale(s, -s)).
		Mul(curve.Translate(c.Pan))
}

// Project maps a world point into a w×h viewport.
func (c *Camera) Project(p dynamo.Point, w, h int) dynamo.Point {
	return p.Transform(c.View(w, h))
}

// Scale returns screen pixels per world unit for a viewport of height h.
func (c *Camera) Scale(h int) float64 {
	return c.Zoom * float64(h) / ViewExtent
}
