// Package mock provides function-field mock implementations of the
// mergespace interfaces.
package mock

import (
	"context"

	"github.com/fwojciec/mergespace"
)

// Compile-time interface verification.
var _ mergespace.Repository = (*Repository)(nil)

// Repository is a mock implementation of mergespace.Repository.
type Repository struct {
	MergeCommitsFn func(ctx context.Context, limit int) ([]mergespace.Commit, error)
	MergeBaseFn    func(ctx context.Context, a, b string) (string, error)
	ChangedPathsFn func(ctx context.Context, from, to string) ([]string, error)
	FileContentFn  func(ctx context.Context, commit, path string) ([]byte, error)
}

func (r *Repository) MergeCommits(ctx context.Context, limit int) ([]mergespace.Commit, error) {
	return r.MergeCommitsFn(ctx, limit)
}

func (r *Repository) MergeBase(ctx context.Context, a, b string) (string, error) {
	return r.MergeBaseFn(ctx, a, b)
}

func (r *Repository) ChangedPaths(ctx context.Context, from, to string) ([]string, error) {
	return r.ChangedPathsFn(ctx, from, to)
}

func (r *Repository) FileContent(ctx context.Context, commit, path string) ([]byte, error) {
	return r.FileContentFn(ctx, commit, path)
}
