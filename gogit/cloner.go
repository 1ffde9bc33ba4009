package gogit

import (
	"context"
	"errors"
	"fmt"
	"io"

	gitc "github.com/go-git/go-git/v5"

	"github.com/fwojciec/mergespace"
)

// Compile-time interface verification.
var _ mergespace.Cloner = (*Cloner)(nil)

// Cloner clones remote repositories with go-git.
type Cloner struct {
	// Progress receives clone progress output when non-nil.
	Progress io.Writer
}

// NewCloner creates a new Cloner.
func NewCloner() *Cloner {
	return &Cloner{}
}

// Clone clones url into dir. A directory that already holds a repository is
// left untouched.
func (c *Cloner) Clone(ctx context.Context, url, dir string) error {
	_, err := gitc.PlainCloneContext(ctx, dir, false, &gitc.CloneOptions{
		URL:      url,
		Progress: c.Progress,
	})
	if errors.Is(err, gitc.ErrRepositoryAlreadyExists) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("cloning %s: %w", url, err)
	}
	return nil
}
