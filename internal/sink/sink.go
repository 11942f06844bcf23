// Package sink consumes rendered frames: RGB24 buffers, rows top to bottom,
// one per recorded step.
package sink

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

func tracer() tracing.Trace {
	return tracing.Select("fourier.sink")
}

// Sink receives fixed-size frames. Close flushes and releases the output.
type Sink interface {
	WriteFrame(frame []byte) error
	Close() error
}

// Spec is the fixed frame geometry and rate of a recording.
type Spec struct {
	Width  int
	Height int
	FPS    int
}

// FrameSize is the byte length of one RGB24 frame.
func (s Spec) FrameSize() int { return s.Width * s.Height * 3 }

func (s Spec) Validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("sink: frame size %dx%d: %w", s.Width, s.Height, dynamo.ErrParameterBounds)
	}
	if s.FPS <= 0 {
		return fmt.Errorf("sink: fps %d: %w", s.FPS, dynamo.ErrParameterBounds)
	}
	return nil
}

func (s Spec) check(frame []byte) error {
	if len(frame) != s.FrameSize() {
		return fmt.Errorf("sink: frame is %d bytes, want %d", len(frame), s.FrameSize())
	}
	return nil
}

// Nop discards frames. It counts them so tests can check pacing.
type Nop struct {
	Frames int
	Closed bool
}

func (n *Nop) WriteFrame([]byte) error {
	if n.Closed {
		return dynamo.ErrSinkClosed
	}
	n.Frames++
	return nil
}

func (n *Nop) Close() error {
	n.Closed = true
	return nil
}

// Guard wraps a Sink so that its first failure turns recording into a
// no-op instead of an error for the caller.
type Guard struct {
	sink   Sink
	err    error
	closed bool
}

func NewGuard(s Sink) *Guard {
	return &Guard{sink: s}
}

func (g *Guard) WriteFrame(frame []byte) error {
	if g.closed || g.err != nil || g.sink == nil {
		return nil
	}
	if err := g.sink.WriteFrame(frame); err != nil {
		g.err = err
		tracer().Errorf("frame sink failed, recording disabled: %v", err)
	}
	return nil
}

// Close closes the wrapped sink once. A close failure is logged and kept.
func (g *Guard) Close() error {
	if g.closed || g.sink == nil {
		return nil
	}
	g.closed = true
	if err := g.sink.Close(); err != nil {
		tracer().Errorf("closing frame sink: %v", err)
		if g.err == nil {
			g.err = err
		}
	}
	return nil
}

// Err returns the first failure of the wrapped sink.
func (g *Guard) Err() error { return g.err }

func (g *Guard) Failed() bool { return g.err != nil }
