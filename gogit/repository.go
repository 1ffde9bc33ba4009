// Package gogit implements repository access on top of go-git.
package gogit

import (
	"context"
	"errors"
	"fmt"

	gitc "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/fwojciec/mergespace"
)

// Compile-time interface verification.
var _ mergespace.Repository = (*Repository)(nil)

// Repository reads commits and blobs from a local git repository.
type Repository struct {
	repo *gitc.Repository
}

// Open opens an existing repository at dir.
func Open(dir string) (*Repository, error) {
	repo, err := gitc.PlainOpenWithOptions(dir, &gitc.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", dir, err)
	}
	return &Repository{repo: repo}, nil
}

// MergeCommits walks history from HEAD and returns commits with more than
// one parent, newest first, up to limit commits (0 means no limit).
func (r *Repository) MergeCommits(ctx context.Context, limit int) ([]mergespace.Commit, error) {
	head, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	log, err := r.repo.Log(&gitc.LogOptions{From: head.Hash()})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	defer log.Close()

	var commits []mergespace.Commit
	err = log.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if c.NumParents() < 2 {
			return nil
		}
		commits = append(commits, toCommit(c))
		if limit > 0 && len(commits) == limit {
			return storer.ErrStop
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking history: %w", err)
	}
	return commits, nil
}

// MergeBase returns the best common ancestor of two commits.
func (r *Repository) MergeBase(ctx context.Context, a, b string) (string, error) {
	ca, err := r.commit(a)
	if err != nil {
		return "", err
	}
	cb, err := r.commit(b)
	if err != nil {
		return "", err
	}

	bases, err := ca.MergeBase(cb)
	if err != nil {
		return "", fmt.Errorf("merge base of %s and %s: %w", a, b, err)
	}
	if len(bases) == 0 {
		return "", fmt.Errorf("no common ancestor of %s and %s", a, b)
	}
	return bases[0].Hash.String(), nil
}

// ChangedPaths returns the file paths that differ between the trees of two
// commits.
func (r *Repository) ChangedPaths(ctx context.Context, from, to string) ([]string, error) {
	fromTree, err := r.tree(from)
	if err != nil {
		return nil, err
	}
	toTree, err := r.tree(to)
	if err != nil {
		return nil, err
	}

	changes, err := object.DiffTreeWithOptions(ctx, fromTree, toTree, object.DefaultDiffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diffing %s..%s: %w", from, to, err)
	}

	paths := make([]string, 0, len(changes))
	for _, change := range changes {
		name := change.To.Name
		if name == "" {
			name = change.From.Name
		}
		paths = append(paths, name)
	}
	return paths, nil
}

// FileContent returns the content of path at commit. A path absent from the
// commit's tree returns an error wrapping mergespace.ErrNotFound.
func (r *Repository) FileContent(ctx context.Context, commit, path string) ([]byte, error) {
	c, err := r.commit(commit)
	if err != nil {
		return nil, err
	}

	file, err := c.File(path)
	if errors.Is(err, object.ErrFileNotFound) {
		return nil, fmt.Errorf("%s at %s: %w", path, commit, mergespace.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s at %s: %w", path, commit, err)
	}

	content, err := file.Contents()
	if err != nil {
		return nil, fmt.Errorf("reading %s at %s: %w", path, commit, err)
	}
	return []byte(content), nil
}

func (r *Repository) commit(hash string) (*object.Commit, error) {
	c, err := r.repo.CommitObject(plumbing.NewHash(hash))
	if err != nil {
		return nil, fmt.Errorf("commit %s: %w", hash, err)
	}
	return c, nil
}

func (r *Repository) tree(hash string) (*object.Tree, error) {
	c, err := r.commit(hash)
	if err != nil {
		return nil, err
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("tree of %s: %w", hash, err)
	}
	return tree, nil
}

func toCommit(c *object.Commit) mergespace.Commit {
	parents := make([]string, 0, c.NumParents())
	for _, h := range c.ParentHashes {
		parents = append(parents, h.String())
	}
	return mergespace.Commit{Hash: c.Hash.String(), Parents: parents}
}
