package sim

import (
	"math"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

// Clock defaults.
const (
	DefaultSpeed         = 0.05
	MaxSpeed             = 2.0
	DefaultCullThreshold = 50
)

// Clock owns the animation state: normalized time in [0, 1), play/pause,
// speed, the active epicycle count and the trace. It is not safe for
// concurrent use; the interactive loop owns it.
type Clock struct {
	Interactive StepPolicy
	Recording   StepPolicy

	// CullThreshold is the active count below which every circle is drawn.
	CullThreshold int

	// OnWrap runs on every cycle completion, before the trace is cleared.
	// Returning true halts the advance and keeps the trace intact.
	OnWrap func() bool

	epis   []dynamo.Epicycle
	t      float64
	paused bool
	speed  float64
	active int
	zoom   float64
	trace  *Trace
}

func NewClock() *Clock {
	return &Clock{
		Interactive:   DefaultInteractive(),
		Recording:     DefaultRecording(),
		CullThreshold: DefaultCullThreshold,
		speed:         DefaultSpeed,
		zoom:          1,
		trace:         NewTrace(DefaultMinTraceDistance),
	}
}

// Load installs a new epicycle list, resets time to zero, clears the trace
// and activates every epicycle.
func (c *Clock) Load(epis []dynamo.Epicycle) {
	c.epis = epis
	c.t = 0
	c.active = len(epis)
	c.trace.Clear()
}

func (c *Clock) Epicycles() []dynamo.Epicycle { return c.epis }

// Reset rewinds to t=0 and clears the trace.
func (c *Clock) Reset() {
	c.t = 0
	c.trace.Clear()
}

func (c *Clock) Time() float64 { return c.t }

// SetTime moves the clock to t modulo 1.
func (c *Clock) SetTime(t float64) {
	if math.IsNaN(t) || math.IsInf(t, 0) {
		return
	}
	c.t = t - math.Floor(t)
}

func (c *Clock) Paused() bool     { return c.paused }
func (c *Clock) SetPaused(p bool) { c.paused = p }

func (c *Clock) Speed() float64 { return c.speed }

// SetSpeed clamps s to [0, MaxSpeed].
func (c *Clock) SetSpeed(s float64) {
	if math.IsNaN(s) {
		return
	}
	c.speed = dynamo.Clamp(s, 0, MaxSpeed)
}

// Active returns the active epicycle count clamped to [1, total]. It is 0
// only when nothing is loaded.
func (c *Clock) Active() int {
	if len(c.epis) == 0 {
		return 0
	}
	return dynamo.ClampInt(c.active, 1, len(c.epis))
}

func (c *Clock) SetActive(k int) {
	c.active = dynamo.ClampInt(k, 1, max(len(c.epis), 1))
}

// SetViewZoom records the camera zoom used for culling small circles.
func (c *Clock) SetViewZoom(z float64) {
	if z > 0 {
		c.zoom = z
	}
}

func (c *Clock) Trace() *Trace { return c.trace }

// Step adds delta to t and wraps it back into [0, 1). It reports whether a
// wrap happened.
func (c *Clock) Step(delta float64) bool {
	c.t += delta
	if c.t >= 1 {
		c.t -= math.Floor(c.t)
		return true
	}
	return false
}

// Tip returns the sum of the active epicycles at the current time.
func (c *Clock) Tip() dynamo.Point {
	return dynamo.FromComplex(dynamo.Sum(c.epis, c.Active(), c.t))
}

// Advance moves the clock forward by one displayed frame of dt seconds and
// returns the geometry at the new time. While recording the recording
// policy is used, otherwise the interactive one.
func (c *Clock) Advance(dt float64, recording bool) Frame {
	var f Frame
	if len(c.epis) == 0 {
		f.T = c.t
		return f
	}

	if !c.paused {
		policy := c.Interactive
		if recording {
			policy = c.Recording
		}
		steps, delta := policy.Plan(c.speed, dt)

		for range steps {
			f.Steps++
			if c.Step(delta) {
				f.Wraps++
				if c.OnWrap != nil && c.OnWrap() {
					f.Halted = true
					break
				}
				if c.trace.Mode() == TraceInfinite {
					c.trace.Clear()
				}
			}
			if !c.paused {
				c.trace.Append(c.Tip())
			}
		}
	}

	c.geometry(&f)
	return f
}

func (c *Clock) geometry(f *Frame) {
	k := c.Active()
	f.T = c.t
	f.Circles = make([]Circle, 0, min(k, 256))
	f.Arms = make([]Arm, 0, min(k, 256))

	minRadius := 1 / c.zoom
	var sum complex128
	for _, e := range c.epis[:k] {
		prev := dynamo.FromComplex(sum)
		sum += e.Evaluate(c.t)
		if k < c.CullThreshold || e.Amplitude > minRadius {
			f.Circles = append(f.Circles, Circle{Center: prev, Radius: e.Amplitude})
			f.Arms = append(f.Arms, Arm{From: prev, To: dynamo.FromComplex(sum)})
		}
	}
	f.Tip = dynamo.FromComplex(sum)
}
