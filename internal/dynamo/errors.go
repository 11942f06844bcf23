package dynamo

import "errors"

// Domain errors. None of them is fatal to the process: callers degrade to a
// status message and an idle state.
var (
	// ErrInput indicates an empty or degenerate raw point sequence.
	ErrInput = errors.New("dynamo: degenerate input (need at least 2 points)")

	// ErrDegenerate indicates a non-finite normalization scale. Resampling
	// recovers from it by falling back to identity scale.
	ErrDegenerate = errors.New("dynamo: non-finite normalization scale")

	// ErrBusy indicates a submission while another computation is pending.
	ErrBusy = errors.New("dynamo: computation already pending")

	// ErrSinkClosed indicates a frame sink that is unavailable or closed.
	ErrSinkClosed = errors.New("dynamo: frame sink unavailable")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrEmptyResult indicates a decomposition that produced no epicycles.
	ErrEmptyResult = errors.New("dynamo: decomposition unavailable")
)

// PipelineError wraps an error with the pipeline phase it happened in.
type PipelineError struct {
	Phase   string
	Wrapped error
}

func (e *PipelineError) Error() string {
	return e.Phase + ": " + e.Wrapped.Error()
}

func (e *PipelineError) Unwrap() error {
	return e.Wrapped
}
