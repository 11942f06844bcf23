package dynamo

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelFor executes fn in parallel over a range [0, n).
func ParallelFor(n, minChunk int, fn func(start, end int)) {
	_ = ParallelForContext(context.Background(), n, minChunk, func(start, end int) error {
		fn(start, end)
		return nil
	})
}

// ParallelForContext splits [0, n) into contiguous chunks of at least
// minChunk items and runs fn on each one. The first error cancels ctx for the
// remaining chunks and is returned.
func ParallelForContext(ctx context.Context, n, minChunk int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if minChunk < 1 {
		minChunk = 1
	}
	workers := runtime.NumCPU()
	if n <= minChunk || workers <= 1 {
		return fn(0, n)
	}
	if n/minChunk < workers {
		workers = n / minChunk
	}
	if workers < 1 {
		workers = 1
	}

	chunkSize := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	for start := 0; start < n; start += chunkSize {
		end := min(start+chunkSize, n)
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(start, end)
		})
	}
	return g.Wait()
}
