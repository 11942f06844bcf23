package sim

import "github.com/san-kum/fourierforge/internal/dynamo"

// TraceMode selects how the tip history grows.
type TraceMode int

const (
	// TraceInfinite keeps every point of the current cycle and clears on wrap.
	TraceInfinite TraceMode = iota
	// TraceSnake keeps only the most recent points, oldest evicted first.
	TraceSnake
)

func (m TraceMode) String() string {
	switch m {
	case TraceInfinite:
		return "infinite"
	case TraceSnake:
		return "snake"
	default:
		return "unknown"
	}
}

// ParseTraceMode accepts "infinite" or "snake".
func ParseTraceMode(s string) (TraceMode, bool) {
	switch s {
	case "infinite", "":
		return TraceInfinite, true
	case "snake":
		return TraceSnake, true
	default:
		return TraceInfinite, false
	}
}

// Circle is the orbit of one epicycle, centered on the previous prefix sum.
type Circle struct {
	Center dynamo.Point
	Radius float64
}

// Arm joins consecutive prefix sums.
type Arm struct {
	From dynamo.Point
	To   dynamo.Point
}

// Frame is the geometry of one advanced frame.
type Frame struct {
	T       float64
	Tip     dynamo.Point
	Circles []Circle
	Arms    []Arm

	// Steps is the number of time steps actually taken.
	Steps int
	// Wraps counts cycle completions observed during this advance.
	Wraps int
	// Halted is set when a wrap hook stopped the advance early.
	Halted bool
}

// StepPolicy decides how a frame of dt real seconds is split into time
// steps of the normalized clock.
type StepPolicy interface {
	Plan(speed, dt float64) (steps int, delta float64)
}
