// Package director scripts the cinematic camera: zoom in on the pen, hold
// while it draws, then pull back to the full view as the cycle ends.
//
// The director keeps no clock of its own. Every decision is a function of
// the animation's normalized time, so a shot is reproducible frame for
// frame.
package director

import (
	"honnef.co/go/curve"

	"github.com/san-kum/fourierforge/internal/camera"
)

// Phase boundaries in normalized time and shot defaults.
const (
	ZoomInEnd = 0.1
	HoldEnd   = 0.85

	DefaultMaxZoom  = 15.0
	DefaultPanDecay = 0.05
)

type Phase int

const (
	Idle Phase = iota
	ZoomIn
	Hold
	ZoomOut
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case ZoomIn:
		return "zoom-in"
	case Hold:
		return "hold"
	case ZoomOut:
		return "zoom-out"
	default:
		return "unknown"
	}
}

// PhaseAt returns the scripted phase for normalized time t of an engaged
// shot.
func PhaseAt(t float64) Phase {
	switch {
	case t < ZoomInEnd:
		return ZoomIn
	case t < HoldEnd:
		return Hold
	default:
		return ZoomOut
	}
}

// Smoothstep is 3u²-2u³ with u clamped to [0, 1].
func Smoothstep(u float64) float64 {
	u = max(0, min(1, u))
	return u * u * (3 - 2*u)
}

// ZoomAt returns the scripted zoom at time t for a shot peaking at maxZoom.
func ZoomAt(t, maxZoom float64) float64 {
	switch PhaseAt(t) {
	case ZoomIn:
		return lerp(1, maxZoom, Smoothstep(t/ZoomInEnd))
	case Hold:
		return maxZoom
	default:
		return lerp(maxZoom, 1, Smoothstep((t-HoldEnd)/(1-HoldEnd)))
	}
}

func lerp(a, b, u float64) float64 { return a + (b-a)*u }

// Director drives a camera through the three shot phases.
type Director struct {
	MaxZoom  float64
	PanDecay float64

	// OnPhase is called on every phase transition.
	OnPhase func(from, to Phase)

	phase Phase
}

func New(maxZoom float64) *Director {
	if maxZoom <= 0 {
		maxZoom = DefaultMaxZoom
	}
	return &Director{MaxZoom: maxZoom, PanDecay: DefaultPanDecay}
}

func (d *Director) Phase() Phase { return d.phase }
func (d *Director) Active() bool { return d.phase != Idle }

// Engage starts a shot. The first Apply moves it to the phase matching the
// current time.
func (d *Director) Engage() {
	if d.phase == Idle {
		d.transition(ZoomIn, nil)
	}
}

// Disengage returns to Idle and leaves the camera where it is.
func (d *Director) Disengage() {
	d.transition(Idle, nil)
}

// Apply sets the camera for normalized time t. It does nothing while idle.
func (d *Director) Apply(t float64, cam *camera.Camera) {
	if d.phase == Idle {
		return
	}
	if next := PhaseAt(t); next != d.phase {
		d.transition(next, cam)
	}

	cam.SetZoomUnclamped(ZoomAt(t, d.MaxZoom))
	switch d.phase {
	case ZoomIn, Hold:
		cam.AutoFollow = true
	case ZoomOut:
		cam.AutoFollow = false
		cam.BlendPan(curve.Vec2{}, d.PanDecay)
	}
}

func (d *Director) transition(to Phase, cam *camera.Camera) {
	from := d.phase
	if from == to {
		return
	}
	d.exit(from, cam)
	d.phase = to
	d.enter(to, cam)
	if d.OnPhase != nil {
		d.OnPhase(from, to)
	}
}

func (d *Director) enter(p Phase, cam *camera.Camera) {
	if cam == nil {
		return
	}
	switch p {
	case ZoomIn, Hold:
		cam.AutoFollow = true
	case ZoomOut:
		// Pan is director-controlled from here on.
		cam.AutoFollow = false
	}
}

func (d *Director) exit(p Phase, cam *camera.Camera) {
	if cam == nil {
		return
	}
	if p == ZoomOut {
		// A new cycle starts from the full view.
		cam.SetZoomUnclamped(1)
	}
}
