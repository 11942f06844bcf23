package sim

import "github.com/san-kum/fourierforge/internal/dynamo"

// DefaultMinTraceDistance is the dedup threshold between appended tips.
const DefaultMinTraceDistance = 0.5

// Trace is the history of visited tip positions.
type Trace struct {
	points  []dynamo.Point
	mode    TraceMode
	limit   int
	minDist float64
}

func NewTrace(minDist float64) *Trace {
	return &Trace{minDist: minDist}
}

// SetMode switches the growth policy. In snake mode the buffer is trimmed to
// limit immediately.
func (tr *Trace) SetMode(mode TraceMode, limit int) {
	tr.mode = mode
	tr.limit = limit
	tr.evict()
}

// SetMinDistance sets the dedup threshold for later appends.
func (tr *Trace) SetMinDistance(d float64) {
	tr.minDist = max(d, 0)
}

func (tr *Trace) Mode() TraceMode { return tr.mode }
func (tr *Trace) Limit() int      { return tr.limit }

// Append records p unless it lies within the dedup distance of the last
// point. It reports whether p was stored.
func (tr *Trace) Append(p dynamo.Point) bool {
	if n := len(tr.points); n > 0 && tr.points[n-1].Distance(p) <= tr.minDist {
		return false
	}
	tr.points = append(tr.points, p)
	tr.evict()
	return true
}

func (tr *Trace) evict() {
	if tr.mode != TraceSnake || tr.limit <= 0 {
		return
	}
	if excess := len(tr.points) - tr.limit; excess > 0 {
		tr.points = tr.points[excess:]
	}
}

func (tr *Trace) Clear() {
	tr.points = tr.points[:0]
}

// Points returns the stored points, oldest first. The slice is only valid
// until the next mutation.
func (tr *Trace) Points() []dynamo.Point { return tr.points }

func (tr *Trace) Len() int { return len(tr.points) }

func (tr *Trace) Last() (dynamo.Point, bool) {
	if len(tr.points) == 0 {
		return dynamo.Point{}, false
	}
	return tr.points[len(tr.points)-1], true
}
