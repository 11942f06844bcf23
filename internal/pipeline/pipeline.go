package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/npillmayer/schuko/tracing"

	"github.com/san-kum/fourierforge/internal/analysis"
	"github.com/san-kum/fourierforge/internal/dynamo"
	"github.com/san-kum/fourierforge/internal/resample"
)

func tracer() tracing.Trace {
	return tracing.Select("fourier.pipeline")
}

// DefaultSamples is the fixed path length N.
const DefaultSamples = 3000

// Status strings shown while a request moves through its phases.
const (
	StatusReady       = "Ready. Load an SVG to begin."
	StatusParsing     = "Parsing..."
	StatusResampling  = "Resampling..."
	StatusCalculating = "Calculating DFT..."
)

// ErrSuperseded is reported for a handle older than the latest submission.
var ErrSuperseded = errors.New("pipeline: handle superseded by a newer request")

// Handle identifies one submission.
type Handle uint64

type State int

const (
	Pending State = iota
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Result is a finished decomposition.
type Result struct {
	Path      dynamo.Path
	Epicycles []dynamo.Epicycle
	Elapsed   time.Duration
}

// Poll is the outcome of a non-blocking check on a handle.
type Poll struct {
	State  State
	Result *Result
	Err    error
}

type Pipeline struct {
	Samples   int
	Resampler *resample.Resampler

	mu      sync.Mutex
	latest  Handle
	pending bool
	status  string
	result  *Result
	err     error
	cancel  context.CancelFunc
	done    chan struct{}
}

func New(samples int, r *resample.Resampler) *Pipeline {
	if samples <= 0 {
		samples = DefaultSamples
	}
	if r == nil {
		r = resample.New()
	}
	return &Pipeline{
		Samples:   samples,
		Resampler: r,
		status:    StatusReady,
	}
}

// Submit starts a new request in the background. It returns dynamo.ErrBusy
// while an earlier request is still pending.
func (p *Pipeline) Submit(src Source) (Handle, error) {
	if src == nil {
		return 0, fmt.Errorf("pipeline: nil source: %w", dynamo.ErrInput)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.pending {
		tracer().Infof("rejecting submission, request %d still pending", p.latest)
		return 0, dynamo.ErrBusy
	}

	p.latest++
	h := p.latest
	p.pending = true
	p.result = nil
	p.err = nil
	p.status = StatusParsing

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})

	tracer().Debugf("request %d submitted", h)
	go p.run(ctx, cancel, h, src, p.done)
	return h, nil
}

func (p *Pipeline) run(ctx context.Context, cancel context.CancelFunc, h Handle, src Source, done chan struct{}) {
	defer close(done)
	defer cancel()

	r, err := Compute(ctx, src, p.Samples, p.Resampler, func(status string) {
		p.setStatus(h, status)
	})
	if err != nil {
		p.fail(h, err)
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if h != p.latest {
		return
	}
	p.result = r
	p.pending = false
	p.status = fmt.Sprintf("Loaded %d cycles.", len(r.Epicycles))
	tracer().Infof("request %d: %d cycles in %s", h, len(r.Epicycles), r.Elapsed)
}

// Compute runs parse, resample and decompose on the calling goroutine.
// progress, when set, receives the status of each phase as it starts.
// Failures are *dynamo.PipelineError values naming the phase.
func Compute(ctx context.Context, src Source, samples int, r *resample.Resampler, progress func(string)) (*Result, error) {
	if r == nil {
		r = resample.New()
	}
	if samples <= 0 {
		samples = DefaultSamples
	}
	report := func(s string) {
		if progress != nil {
			progress(s)
		}
	}
	start := time.Now()

	raw, err := src.Sample(ctx)
	if err != nil {
		return nil, &dynamo.PipelineError{Phase: "parse", Wrapped: err}
	}
	if len(raw) < 2 {
		return nil, &dynamo.PipelineError{Phase: "parse", Wrapped: dynamo.ErrInput}
	}

	report(StatusResampling)
	if _, err := resample.Scale(raw, r.Size()); err != nil {
		tracer().Infof("%v, using identity scale", err)
	}
	path := r.Resample(raw, samples)
	if !path.IsValid() {
		return nil, &dynamo.PipelineError{Phase: "resample", Wrapped: dynamo.ErrInput}
	}

	report(StatusCalculating)
	epis, err := analysis.DecomposeContext(ctx, path)
	if err != nil {
		return nil, &dynamo.PipelineError{Phase: "decompose", Wrapped: err}
	}
	if len(epis) == 0 {
		return nil, &dynamo.PipelineError{Phase: "decompose", Wrapped: dynamo.ErrEmptyResult}
	}
	return &Result{Path: path, Epicycles: epis, Elapsed: time.Since(start)}, nil
}

func (p *Pipeline) setStatus(h Handle, s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h == p.latest {
		p.status = s
	}
}

func (p *Pipeline) fail(h Handle, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if h != p.latest {
		return
	}
	p.err = err
	p.pending = false
	p.status = "Failed: " + Reason(err)
	tracer().Errorf("request %d failed: %v", h, err)
}

// Reason renders err for the status line.
func Reason(err error) string {
	switch {
	case errors.Is(err, dynamo.ErrInput), errors.Is(err, dynamo.ErrEmptyResult):
		return "Empty or invalid SVG."
	case errors.Is(err, dynamo.ErrBusy):
		return "Busy, still loading."
	default:
		return err.Error()
	}
}

// Poll reports the state of h without blocking.
func (p *Pipeline) Poll(h Handle) Poll {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch {
	case h == 0 || h > p.latest:
		return Poll{State: Failed, Err: fmt.Errorf("pipeline: unknown handle %d", h)}
	case h != p.latest:
		return Poll{State: Failed, Err: ErrSuperseded}
	case p.pending:
		return Poll{State: Pending}
	case p.err != nil:
		return Poll{State: Failed, Err: p.err}
	default:
		return Poll{State: Ready, Result: p.result}
	}
}

// Busy reports whether a request is in flight.
func (p *Pipeline) Busy() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// Status returns the human-readable phase of the latest request.
func (p *Pipeline) Status() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.status
}

// Wait blocks until the in-flight request finishes. It is meant for shutdown
// only. If ctx ends first, the request is cancelled and ctx.Err is returned.
func (p *Pipeline) Wait(ctx context.Context) error {
	p.mu.Lock()
	done, cancel := p.done, p.cancel
	p.mu.Unlock()

	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		cancel()
		<-done
		return ctx.Err()
	}
}
