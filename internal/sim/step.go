package sim

// Default step constants.
const (
	DefaultInteractiveRate = 0.002
	DefaultSubSteps        = 5
	DefaultTargetFPS       = 60.0
)

// InteractiveStep advances speed·Rate per displayed frame, split into
// SubSteps equal steps so trace points stay closely spaced. Wall-clock dt is
// ignored: playback is paced by the frame loop.
type InteractiveStep struct {
	Rate     float64
	SubSteps int
}

func DefaultInteractive() InteractiveStep {
	return InteractiveStep{
		Rate:     DefaultInteractiveRate,
		SubSteps: DefaultSubSteps,
	}
}

func (p InteractiveStep) Plan(speed, _ float64) (int, float64) {
	sub := max(p.SubSteps, 1)
	return sub, speed * p.Rate / float64(sub)
}

// RecordingStep advances exactly speed/FPS per emitted frame regardless of
// wall-clock time, so exported playback speed is reproducible.
type RecordingStep struct {
	FPS float64
}

func DefaultRecording() RecordingStep {
	return RecordingStep{FPS: DefaultTargetFPS}
}

func (p RecordingStep) Plan(speed, _ float64) (int, float64) {
	fps := p.FPS
	if fps <= 0 {
		fps = DefaultTargetFPS
	}
	return 1, speed / fps
}
