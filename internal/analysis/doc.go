// Package analysis decomposes closed contours into epicycles.
//
// The package provides:
//
//   - [Decompose]: direct O(N²) discrete Fourier transform, amplitude-ranked
//   - [SignedFrequency]: maps a raw bin index to a signed rotation rate
//   - [Reconstruct]: evaluates a truncated epicycle sum along one cycle
//   - [Spectrum]: amplitude per signed frequency, for plotting
//
// # Truncation
//
// Results are sorted largest amplitude first, so the first K entries are the
// best K-term approximation of the contour:
//
//	epis := analysis.Decompose(path)
//	approx := analysis.Reconstruct(epis, 50, len(path))
package analysis
