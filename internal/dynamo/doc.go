// Package dynamo provides the core primitives shared by the epicycle engine.
//
// The package defines the data model every other package speaks:
//
//   - [Point]: a 2D coordinate (shared with honnef.co/go/curve)
//   - [Path]: an ordered point sequence, raw or normalized
//   - [Epicycle]: one rotating vector of a frequency decomposition
//   - [TwiddleTable]: exact roots-of-unity lookup for an N-point transform
//   - [ParallelFor]: chunked fan-out used by the decomposer
//
// # Example
//
//	path := resample.Resample(raw, 3000)
//	epis := analysis.Decompose(path)
//	tip := dynamo.Sum(epis, 100, 0.25)
//
// # Thread Safety
//
// Path and Epicycle values are immutable once published. A Path is replaced
// wholesale when a new contour is loaded, never mutated in place.
package dynamo
