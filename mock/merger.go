package mock

import (
	"context"

	"github.com/fwojciec/mergespace"
)

// Compile-time interface verification.
var _ mergespace.FileMerger = (*FileMerger)(nil)

// FileMerger is a mock implementation of mergespace.FileMerger.
type FileMerger struct {
	MergeFn func(ctx context.Context, ours, base, theirs []byte) (mergespace.MergeResult, error)
}

func (m *FileMerger) Merge(ctx context.Context, ours, base, theirs []byte) (mergespace.MergeResult, error) {
	return m.MergeFn(ctx, ours, base, theirs)
}
