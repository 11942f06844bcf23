package pipeline

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

func square() Points {
	return Points{
		dynamo.Pt(0, 0), dynamo.Pt(10, 0), dynamo.Pt(10, 10), dynamo.Pt(0, 10), dynamo.Pt(0, 0),
	}
}

func waitFor(t *testing.T, p *Pipeline, h Handle) Poll {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if r := p.Poll(h); r.State != Pending {
			return r
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("handle %d still pending", h)
	return Poll{}
}

func TestPipelineReady(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := New(64, nil)
	assert.Equal(t, StatusReady, p.Status())

	h, err := p.Submit(square())
	require.NoError(t, err)

	r := waitFor(t, p, h)
	require.Equal(t, Ready, r.State)
	require.NotNil(t, r.Result)
	assert.Len(t, r.Result.Path, 64)
	assert.Len(t, r.Result.Epicycles, 64)
	assert.Equal(t, "Loaded 64 cycles.", p.Status())
	assert.False(t, p.Busy())
}

func TestPipelineReleasesRequestContext(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	for name, src := range map[string]func() ([]dynamo.Point, error){
		"ready":  func() ([]dynamo.Point, error) { return square(), nil },
		"failed": func() ([]dynamo.Point, error) { return nil, errors.New("unreadable") },
	} {
		t.Run(name, func(t *testing.T) {
			var seen context.Context
			p := New(16, nil)
			_, err := p.Submit(SourceFunc(func(ctx context.Context) ([]dynamo.Point, error) {
				seen = ctx
				return src()
			}))
			require.NoError(t, err)
			require.NoError(t, p.Wait(context.Background()))

			require.NotNil(t, seen)
			assert.ErrorIs(t, seen.Err(), context.Canceled)
		})
	}
}

func TestPipelineRejectsWhilePending(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	release := make(chan struct{})
	blocking := SourceFunc(func(ctx context.Context) ([]dynamo.Point, error) {
		<-release
		return square(), nil
	})

	p := New(32, nil)
	h1, err := p.Submit(blocking)
	require.NoError(t, err)
	assert.Equal(t, Pending, p.Poll(h1).State)
	assert.Equal(t, StatusParsing, p.Status())

	_, err = p.Submit(square())
	assert.True(t, errors.Is(err, dynamo.ErrBusy))

	close(release)
	r := waitFor(t, p, h1)
	assert.Equal(t, Ready, r.State, "rejected submission must not disturb the running one")

	h2, err := p.Submit(square())
	require.NoError(t, err)
	assert.Equal(t, Ready, waitFor(t, p, h2).State)

	stale := p.Poll(h1)
	assert.Equal(t, Failed, stale.State)
	assert.True(t, errors.Is(stale.Err, ErrSuperseded))
}

func TestPipelineFailsOnShortInput(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := New(32, nil)
	h, err := p.Submit(Points{dynamo.Pt(1, 1)})
	require.NoError(t, err)

	r := waitFor(t, p, h)
	assert.Equal(t, Failed, r.State)
	assert.Nil(t, r.Result)
	assert.True(t, errors.Is(r.Err, dynamo.ErrInput))

	var pe *dynamo.PipelineError
	require.True(t, errors.As(r.Err, &pe))
	assert.Equal(t, "parse", pe.Phase)
	assert.Equal(t, "Failed: Empty or invalid SVG.", p.Status())
}

func TestPipelineSourceError(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	boom := errors.New("no such file")
	p := New(32, nil)
	h, err := p.Submit(SourceFunc(func(context.Context) ([]dynamo.Point, error) {
		return nil, boom
	}))
	require.NoError(t, err)

	r := waitFor(t, p, h)
	assert.Equal(t, Failed, r.State)
	assert.True(t, errors.Is(r.Err, boom))
	assert.Contains(t, p.Status(), "no such file")
}

func TestPipelineRejectsNaN(t *testing.T) {
	p := New(16, nil)
	h, err := p.Submit(Points{dynamo.Pt(0, 0), dynamo.Pt(math.NaN(), 1), dynamo.Pt(3, 3)})
	require.NoError(t, err)
	assert.Equal(t, Failed, waitFor(t, p, h).State)
}

func TestPipelineUnknownHandle(t *testing.T) {
	p := New(16, nil)
	assert.Equal(t, Failed, p.Poll(0).State)
	assert.Equal(t, Failed, p.Poll(42).State)
	assert.NoError(t, p.Wait(context.Background()))
}

func TestPipelineWait(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := New(256, nil)
	h, err := p.Submit(square())
	require.NoError(t, err)

	require.NoError(t, p.Wait(context.Background()))
	assert.Equal(t, Ready, p.Poll(h).State)
}

func TestPipelineWaitCancels(t *testing.T) {
	teardown := gotestingadapter.RedirectTracing(t)
	defer teardown()

	p := New(32, nil)
	_, err := p.Submit(SourceFunc(func(ctx context.Context) ([]dynamo.Point, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}))
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	assert.True(t, errors.Is(p.Wait(ctx), context.DeadlineExceeded))
	assert.False(t, p.Busy())
}

func TestCompute(t *testing.T) {
	var phases []string
	r, err := Compute(context.Background(), square(), 32, nil, func(s string) {
		phases = append(phases, s)
	})
	require.NoError(t, err)
	assert.Len(t, r.Path, 32)
	assert.Len(t, r.Epicycles, 32)
	assert.Equal(t, []string{StatusResampling, StatusCalculating}, phases)

	_, err = Compute(context.Background(), Points{dynamo.Pt(1, 1)}, 32, nil, nil)
	var pe *dynamo.PipelineError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "parse", pe.Phase)
	assert.Equal(t, "Empty or invalid SVG.", Reason(err))
}
