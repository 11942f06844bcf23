package analysis

import (
	"cmp"
	"context"
	"slices"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

// rowChunk is the minimum number of output frequencies per worker.
const rowChunk = 64

// Decompose computes the direct discrete Fourier transform of path, treating
// each point as x+iy, and returns one epicycle per frequency sorted by
// descending amplitude. An empty path yields an empty list.
func Decompose(path dynamo.Path) []dynamo.Epicycle {
	epis, _ := DecomposeContext(context.Background(), path)
	return epis
}

// DecomposeContext is Decompose with cancellation checked between row chunks.
func DecomposeContext(ctx context.Context, path dynamo.Path) ([]dynamo.Epicycle, error) {
	n := len(path)
	if n == 0 {
		return []dynamo.Epicycle{}, nil
	}

	samples := make([]complex128, n)
	for i, p := range path {
		samples[i] = dynamo.ToComplex(p)
	}

	twiddle := dynamo.NewTwiddleTable(n)
	inv := 1 / float64(n)
	epis := make([]dynamo.Epicycle, n)

	err := dynamo.ParallelForContext(ctx, n, rowChunk, func(start, end int) error {
		for k := start; k < end; k++ {
			if k%rowChunk == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			var re, im float64
			for j, c := range samples {
				// e^{-iθ} = cos θ - i sin θ
				sin, cos := twiddle.SinCos(k * j % n)
				x, y := real(c), imag(c)
				re += x*cos + y*sin
				im += y*cos - x*sin
			}
			epis[k] = dynamo.NewEpicycle(complex(re*inv, im*inv), SignedFrequency(k, n))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(epis, func(a, b dynamo.Epicycle) int {
		return cmp.Compare(b.Amplitude, a.Amplitude)
	})
	return epis, nil
}

// SignedFrequency maps a raw DFT index k in [0, n) to a signed rate in
// [-n/2, n/2).
func SignedFrequency(k, n int) int {
	if 2*k < n {
		return k
	}
	return k - n
}

// Reconstruct evaluates the first k epicycles at samples evenly spaced times
// in [0, 1).
func Reconstruct(epis []dynamo.Epicycle, k, samples int) dynamo.Path {
	if samples <= 0 {
		return dynamo.Path{}
	}
	out := make(dynamo.Path, samples)
	for i := range out {
		t := float64(i) / float64(samples)
		out[i] = dynamo.FromComplex(dynamo.Sum(epis, k, t))
	}
	return out
}

// Amplitudes returns the amplitudes of the first k epicycles in rank order.
func Amplitudes(epis []dynamo.Epicycle, k int) []float64 {
	k = dynamo.ClampInt(k, 0, len(epis))
	out := make([]float64, k)
	for i, e := range epis[:k] {
		out[i] = e.Amplitude
	}
	return out
}

// Spectrum returns amplitudes indexed by signed frequency, from -n/2 up to
// n/2-1, where n is len(epis).
func Spectrum(epis []dynamo.Epicycle) []float64 {
	n := len(epis)
	out := make([]float64, n)
	for _, e := range epis {
		idx := e.Frequency + n/2
		if idx >= 0 && idx < n {
			out[idx] = e.Amplitude
		}
	}
	return out
}
