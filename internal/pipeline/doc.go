// Package pipeline runs contour sampling, resampling and decomposition off
// the interactive loop.
//
// A caller submits a [Source] and receives a [Handle]. Each frame it calls
// [Pipeline.Poll], which never blocks, until the handle reports Ready or
// Failed. Only one request may be in flight: submitting while another is
// pending returns [dynamo.ErrBusy] and leaves the running request alone.
//
//	h, err := p.Submit(svgpath.File{Path: "cat.svg"})
//	...
//	if r := p.Poll(h); r.State == pipeline.Ready {
//	    clock.Load(r.Result.Epicycles)
//	}
//
// The result cell is written once, under a lock, when the background task
// finishes. A poll sees either the whole result or none of it.
package pipeline
