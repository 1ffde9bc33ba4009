// Package mergespace provides domain types for analyzing historical merge
// conflicts and the space of their syntactically possible resolutions.
package mergespace

import (
	"context"
	"errors"
	"slices"
	"strings"
)

// ErrNotFound is returned when a path does not exist at a given commit.
var ErrNotFound = errors.New("file not found")

// Commit identifies one commit in a repository.
type Commit struct {
	Hash    string
	Parents []string
}

// Short returns the abbreviated form of the hash (its first 7 characters).
// A valid hash is always long enough; anything shorter panics.
func (c Commit) Short() string {
	return c.Hash[:7]
}

// ResolutionFile is one fully resolved version of a single file: a concrete
// choice of content for every conflict region in it. Immutable value.
type ResolutionFile struct {
	Path    string
	Content string
}

// ResolutionMerge is a whole-merge resolution: exactly one resolved file per
// conflicting file in a merge. The same type represents generated candidates
// and the resolution developers actually committed; provenance is determined
// by the accessor that produced the value, not by the value itself.
type ResolutionMerge struct {
	Files []ResolutionFile
}

// Equal reports whether two resolutions contain identical files in the same
// order.
func (m ResolutionMerge) Equal(other ResolutionMerge) bool {
	return slices.Equal(m.Files, other.Files)
}

// Conflict is one conflict region within a three-way merge result: the lines
// each side contributed, plus the lines of the common ancestor.
type Conflict struct {
	Ours   []string
	Base   []string
	Theirs []string
}

// Chunk is a contiguous block of a merge result: either cleanly merged lines
// or a single conflict region. Exactly one of the two fields is meaningful.
type Chunk struct {
	Lines    []string
	Conflict *Conflict
}

// MergeResult is the outcome of a three-way merge of one file, in document
// order.
type MergeResult struct {
	Chunks []Chunk
}

// ContainsConflicts reports whether any chunk is a conflict region.
func (r MergeResult) ContainsConflicts() bool {
	for _, c := range r.Chunks {
		if c.Conflict != nil {
			return true
		}
	}
	return false
}

// ConflictCount returns the number of conflict regions in the result.
func (r MergeResult) ConflictCount() int {
	n := 0
	for _, c := range r.Chunks {
		if c.Conflict != nil {
			n++
		}
	}
	return n
}

// JoinLines renders a slice of lines as file content with a trailing
// newline. Empty input renders as empty content.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

// Repository provides read access to a version-controlled source tree.
type Repository interface {
	// MergeCommits returns commits with more than one parent, newest first,
	// limited to limit commits (0 means no limit).
	MergeCommits(ctx context.Context, limit int) ([]Commit, error)
	// MergeBase returns the best common ancestor of two commits.
	MergeBase(ctx context.Context, a, b string) (string, error)
	// ChangedPaths returns the file paths that differ between two commits.
	ChangedPaths(ctx context.Context, from, to string) ([]string, error)
	// FileContent returns the content of path at commit. A missing path
	// returns an error wrapping ErrNotFound.
	FileContent(ctx context.Context, commit, path string) ([]byte, error)
}

// FileMerger computes the three-way merge of one file.
type FileMerger interface {
	// Merge merges ours and theirs relative to their common ancestor base.
	Merge(ctx context.Context, ours, base, theirs []byte) (MergeResult, error)
}

// Cloner clones a remote repository to a local directory.
type Cloner interface {
	Clone(ctx context.Context, url, dir string) error
}
