package session

import (
	"context"
	"errors"
	"math"

	"github.com/san-kum/fourierforge/internal/pipeline"
	"github.com/san-kum/fourierforge/internal/sink"
)

// ErrNoProgress is returned by RenderCinematic when the clock cannot reach
// the end of a cycle, for example at speed zero.
var ErrNoProgress = errors.New("cinematic render makes no progress")

// DrawFunc renders one frame into a packed RGB buffer.
type DrawFunc func(FrameView) []byte

// RenderCinematic loads src, records one cinematic cycle into sk and returns
// the number of frames written. The sink is closed on return.
func RenderCinematic(ctx context.Context, s *Session, src pipeline.Source, sk sink.Sink, draw DrawFunc) (int, error) {
	if err := s.Load(src); err != nil {
		_ = sk.Close()
		return 0, err
	}
	if err := s.pipe.Wait(ctx); err != nil {
		_ = sk.Close()
		return 0, err
	}
	s.Frame(0)
	if s.Total() == 0 {
		_ = sk.Close()
		return 0, errors.New(s.Status())
	}

	if err := s.StartCinematic(sk); err != nil {
		_ = sk.Close()
		return 0, err
	}

	fps := max(s.cfg.Playback.TargetFPS, 1)
	dt := 1 / float64(fps)
	limit := maxFrames(s.Speed(), fps)

	frames := 0
	for {
		if err := ctx.Err(); err != nil {
			s.StopRecording()
			return frames, err
		}
		if frames >= limit {
			s.StopRecording()
			return frames, ErrNoProgress
		}
		view := s.Frame(dt)
		if view.FrameDue {
			s.WriteFrame(draw(view))
			frames++
		}
		if view.Completed {
			tracer().Infof("cinematic render wrote %d frames", frames)
			return frames, s.SinkErr()
		}
		if !view.Recording {
			return frames, s.SinkErr()
		}
	}
}

// maxFrames bounds a single cycle at the given speed with some slack.
func maxFrames(speed float64, fps int) int {
	if speed <= 0 {
		return 1
	}
	return int(math.Ceil(float64(fps)/speed)) + fps
}
