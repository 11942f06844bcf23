package pipeline

import (
	"context"
	"slices"

	"github.com/san-kum/fourierforge/internal/dynamo"
)

// Source supplies the raw ordered points of a contour.
type Source interface {
	Sample(ctx context.Context) ([]dynamo.Point, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]dynamo.Point, error)

func (f SourceFunc) Sample(ctx context.Context) ([]dynamo.Point, error) {
	return f(ctx)
}

// Points is a Source over an in-memory point list.
type Points []dynamo.Point

func (p Points) Sample(context.Context) ([]dynamo.Point, error) {
	return slices.Clone(p), nil
}
