package mock

import (
	"context"

	"github.com/fwojciec/mergespace"
)

// Compile-time interface verification.
var _ mergespace.Cloner = (*Cloner)(nil)

// Cloner is a mock implementation of mergespace.Cloner.
type Cloner struct {
	CloneFn func(ctx context.Context, url, dir string) error
}

func (c *Cloner) Clone(ctx context.Context, url, dir string) error {
	return c.CloneFn(ctx, url, dir)
}
