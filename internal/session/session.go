// Package session owns the interactive state of one viewer: the animation
// clock, the camera, the cinematic director, the loading pipeline and the
// frame sink.
//
// A Session is driven by a single loop calling [Session.Frame] once per
// displayed frame. It is not safe for concurrent use; the only background
// work is the decomposition, which is handed over through the pipeline's
// non-blocking poll.
package session

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/npillmayer/schuko/tracing"
	"honnef.co/go/curve"

	"github.com/san-kum/fourierforge/internal/camera"
	"github.com/san-kum/fourierforge/internal/config"
	"github.com/san-kum/fourierforge/internal/director"
	"github.com/san-kum/fourierforge/internal/dynamo"
	"github.com/san-kum/fourierforge/internal/pipeline"
	"github.com/san-kum/fourierforge/internal/resample"
	"github.com/san-kum/fourierforge/internal/sim"
	"github.com/san-kum/fourierforge/internal/sink"
)

func tracer() tracing.Trace {
	return tracing.Select("fourier.session")
}

// StatusShotSaved is shown once a cinematic recording completes.
const StatusShotSaved = "Cinematic shot saved."

// FrameView is everything a renderer needs for one frame.
type FrameView struct {
	sim.Frame

	Zoom  float64
	Pan   curve.Vec2
	Phase director.Phase

	Reference dynamo.Path
	Trace     []dynamo.Point
	Visuals   Visuals

	Loading   bool
	Recording bool
	Cinematic bool
	Status    string

	// FrameDue is set when this frame must be rendered into the sink.
	FrameDue bool
	// Completed is set on the frame a cinematic shot finished.
	Completed bool
}

type Session struct {
	cfg   *config.Config
	clock *sim.Clock
	cam   *camera.Camera
	dir   *director.Director
	pipe  *pipeline.Pipeline

	loading pipeline.Handle
	path    dynamo.Path

	sink      *sink.Guard
	recording bool

	visuals     Visuals
	status      string
	completions int
	completed   bool
}

func New(cfg *config.Config) *Session {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	clock := sim.NewClock()
	clock.Interactive = sim.InteractiveStep{
		Rate:     cfg.Playback.InteractiveRate,
		SubSteps: cfg.Playback.SubSteps,
	}
	clock.Recording = sim.RecordingStep{FPS: float64(cfg.Playback.TargetFPS)}
	clock.CullThreshold = cfg.Camera.CullThreshold
	clock.SetSpeed(cfg.Playback.Speed)
	clock.Trace().SetMinDistance(cfg.Trace.MinDistance)
	if mode, ok := sim.ParseTraceMode(cfg.Trace.Mode); ok {
		clock.Trace().SetMode(mode, cfg.Trace.Length)
	}

	dir := director.New(cfg.Camera.MaxZoom)
	dir.PanDecay = cfg.Camera.PanDecay

	s := &Session{
		cfg:     cfg,
		clock:   clock,
		cam:     camera.New(),
		dir:     dir,
		pipe:    pipeline.New(cfg.Samples, &resample.Resampler{TargetSize: cfg.TargetSize}),
		visuals: DefaultVisuals(),
		status:  pipeline.StatusReady,
	}
	clock.OnWrap = s.onWrap
	dir.OnPhase = func(from, to director.Phase) {
		tracer().Debugf("cinematic phase %s -> %s at t=%.4f", from, to, clock.Time())
	}
	return s
}

// Load submits a new contour. It returns dynamo.ErrBusy while a previous
// load is still running.
func (s *Session) Load(src pipeline.Source) error {
	h, err := s.pipe.Submit(src)
	if err != nil {
		return err
	}
	s.loading = h
	s.status = s.pipe.Status()
	return nil
}

// Frame advances the session by one displayed frame of dt seconds.
func (s *Session) Frame(dt float64) FrameView {
	s.completed = false
	s.pollLoad()
	s.visuals.advance()

	var f sim.Frame
	if s.loading == 0 {
		if s.dir.Active() && len(s.clock.Epicycles()) > 0 {
			s.dir.Apply(s.clock.Time(), s.cam)
		}
		s.clock.SetViewZoom(s.cam.Zoom)
		f = s.clock.Advance(dt, s.recording)
		s.cam.Follow(f.Tip)
	} else {
		f.T = s.clock.Time()
	}

	return FrameView{
		Frame:     f,
		Zoom:      s.cam.Zoom,
		Pan:       s.cam.Pan,
		Phase:     s.dir.Phase(),
		Reference: s.path,
		Trace:     s.clock.Trace().Points(),
		Visuals:   s.visuals,
		Loading:   s.loading != 0,
		Recording: s.recording,
		Cinematic: s.dir.Active(),
		Status:    s.status,
		FrameDue:  s.recording && f.Steps > 0,
		Completed: s.completed,
	}
}

func (s *Session) pollLoad() {
	if s.loading == 0 {
		return
	}
	r := s.pipe.Poll(s.loading)
	switch r.State {
	case pipeline.Pending:
		s.status = s.pipe.Status()
	case pipeline.Ready:
		s.loading = 0
		s.install(r.Result)
	case pipeline.Failed:
		s.loading = 0
		s.status = "Failed: " + pipeline.Reason(r.Err)
		s.idle()
	}
}

func (s *Session) install(r *pipeline.Result) {
	s.path = r.Path
	s.clock.Load(r.Epicycles)
	s.clock.SetPaused(true)
	s.cam.Reset()
	s.visuals.ghostOnly()
	s.status = fmt.Sprintf("Loaded %d cycles.", len(r.Epicycles))
	tracer().Infof("installed %d epicycles (%s)", len(r.Epicycles), r.Elapsed)
}

// idle is the safe state after a failure: nothing loaded, paused.
func (s *Session) idle() {
	s.StopRecording()
	s.dir.Disengage()
	s.path = nil
	s.clock.Load(nil)
	s.clock.SetPaused(true)
}

// onWrap finishes a cinematic shot on the first wrap that happens while
// recording. It halts the clock so the final frame shows the whole contour.
func (s *Session) onWrap() bool {
	if !s.recording || !s.dir.Active() {
		return false
	}
	s.StopRecording()
	s.dir.Disengage()
	s.clock.SetPaused(true)
	s.clock.SetTime(0.999)
	s.cam.Reset()
	s.status = StatusShotSaved
	s.completions++
	s.completed = true
	tracer().Infof("cinematic shot complete")
	return true
}

// WriteFrame hands a rendered frame to the sink while recording. Sink
// failures disable recording output without surfacing an error.
func (s *Session) WriteFrame(frame []byte) {
	if s.recording && s.sink != nil {
		_ = s.sink.WriteFrame(frame)
	}
}

// StartRecording begins a manual recording into sk. Time and trail restart.
func (s *Session) StartRecording(sk sink.Sink) error {
	if sk == nil {
		return dynamo.ErrSinkClosed
	}
	s.StopRecording()
	s.sink = sink.NewGuard(sk)
	s.recording = true
	s.clock.Reset()
	s.visuals.ShowTrail = true
	s.status = "Recording..."
	return nil
}

// StopRecording closes the sink. Cinematic mode, if engaged, keeps running.
func (s *Session) StopRecording() {
	if !s.recording {
		return
	}
	s.recording = false
	if s.sink != nil {
		_ = s.sink.Close()
		if err := s.sink.Err(); err != nil {
			s.status = "Failed: recording: " + err.Error()
		} else {
			s.status = "Recording saved."
		}
	}
}

// StartCinematic records one scripted cycle into sk.
func (s *Session) StartCinematic(sk sink.Sink) error {
	if len(s.clock.Epicycles()) == 0 {
		return dynamo.ErrEmptyResult
	}
	if err := s.StartRecording(sk); err != nil {
		return err
	}
	s.dir.Disengage()
	s.dir.Engage()
	s.clock.SetPaused(false)
	s.clock.Trace().SetMode(sim.TraceInfinite, s.clock.Trace().Limit())
	s.cam.AutoFollow = true
	s.visuals.showAll()
	s.status = "Recording cinematic shot..."
	return nil
}

// SinkErr reports the first failure of the current or last sink.
func (s *Session) SinkErr() error {
	if s.sink == nil {
		return nil
	}
	return s.sink.Err()
}

// userCamera cancels auto-follow and cinematic mode, as any direct camera
// input does.
func (s *Session) userCamera() {
	s.cam.AutoFollow = false
	if s.dir.Active() {
		s.dir.Disengage()
		tracer().Infof("cinematic mode cancelled by camera input")
	}
}

func (s *Session) Drag(dx, dy float64) {
	s.userCamera()
	s.cam.Drag(dx, dy)
}

func (s *Session) ZoomBy(factor float64) {
	s.userCamera()
	s.cam.ZoomBy(factor)
}

func (s *Session) SetZoom(z float64) {
	s.userCamera()
	s.cam.SetZoom(z)
}

func (s *Session) SetAutoFollow(on bool) {
	s.userCamera()
	s.cam.AutoFollow = on
}

func (s *Session) ResetView() {
	s.userCamera()
	s.cam.Reset()
}

// Reset rewinds to t=0, clears the trail, pauses and shows the outline only.
func (s *Session) Reset() {
	s.clock.Reset()
	s.clock.SetPaused(true)
	s.visuals.ghostOnly()
}

func (s *Session) SetPaused(p bool) { s.clock.SetPaused(p) }
func (s *Session) TogglePause()     { s.clock.SetPaused(!s.clock.Paused()) }
func (s *Session) SetSpeed(v float64) {
	s.clock.SetSpeed(v)
}

// SetActiveCount clamps k to [1, N].
func (s *Session) SetActiveCount(k int) { s.clock.SetActive(k) }

// SetTrailMode switches between infinite and snake trails. Snake length is
// clamped to [config.MinTraceLength, config.MaxTraceLength].
func (s *Session) SetTrailMode(mode sim.TraceMode, length int) {
	if mode == sim.TraceSnake {
		length = dynamo.ClampInt(length, config.MinTraceLength, config.MaxTraceLength)
	}
	s.clock.Trace().SetMode(mode, length)
}

// SetProgress scrubs to normalized time t. The end of the range maps to the
// last instant before the wrap, not back to the start.
func (s *Session) SetProgress(t float64) {
	s.clock.SetTime(dynamo.Clamp(t, 0, math.Nextafter(1, 0)))
}

func (s *Session) Status() string           { return s.status }
func (s *Session) Completions() int         { return s.completions }
func (s *Session) Recording() bool          { return s.recording }
func (s *Session) Cinematic() bool          { return s.dir.Active() }
func (s *Session) Loading() bool            { return s.loading != 0 }
func (s *Session) Paused() bool             { return s.clock.Paused() }
func (s *Session) Speed() float64           { return s.clock.Speed() }
func (s *Session) Time() float64            { return s.clock.Time() }
func (s *Session) Active() int              { return s.clock.Active() }
func (s *Session) Total() int               { return len(s.clock.Epicycles()) }
func (s *Session) TrailMode() sim.TraceMode { return s.clock.Trace().Mode() }
func (s *Session) TrailLength() int         { return s.clock.Trace().Limit() }
func (s *Session) Path() dynamo.Path        { return s.path }
func (s *Session) Config() *config.Config   { return s.cfg }
func (s *Session) Visuals() *Visuals        { return &s.visuals }
func (s *Session) Zoom() float64            { return s.cam.Zoom }
func (s *Session) AutoFollow() bool         { return s.cam.AutoFollow }

func (s *Session) Epicycles() []dynamo.Epicycle {
	return s.clock.Epicycles()
}

// Close waits for an in-flight load and finalizes any recording.
func (s *Session) Close(ctx context.Context) error {
	err := s.pipe.Wait(ctx)
	s.StopRecording()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
