// Package conflict models conflicting merges and the space of their
// possible resolutions.
package conflict

import (
	"context"
	"iter"
	"maps"
	"slices"

	"github.com/fwojciec/mergespace"
	"github.com/fwojciec/mergespace/space"
)

// Merge is a conflicting merge: a commit whose three-way merge produced at
// least one conflicting file. Discovery of conflicting files happens eagerly
// in NewMerge; the file list is fixed for the lifetime of the value.
type Merge struct {
	repo   mergespace.Repository
	commit mergespace.Commit
	files  []*File
}

// NewMerge filters the per-path merge results down to those containing
// conflicts and wraps each in a File. Paths are visited in sorted order so
// the dimension order of the resolution space is deterministic.
func NewMerge(repo mergespace.Repository, commit mergespace.Commit, results map[string]mergespace.MergeResult) *Merge {
	m := &Merge{repo: repo, commit: commit}
	for _, path := range slices.Sorted(maps.Keys(results)) {
		result := results[path]
		if !result.ContainsConflicts() {
			continue
		}
		m.files = append(m.files, NewFile(repo, commit, path, result))
	}
	return m
}

// Files returns the conflicting files in path order.
func (m *Merge) Files() []*File {
	return m.files
}

// CommitID returns the canonical hash of the merge commit.
func (m *Merge) CommitID() string {
	return m.commit.Hash
}

// CommitIDShort returns the first 7 characters of the commit hash.
func (m *Merge) CommitIDShort() string {
	return m.commit.Short()
}

// Size returns the number of possible whole-merge resolutions: 0 when there
// are no conflicting files, otherwise the product of every file's candidate
// count. The space is rebuilt from the file list on each call.
func (m *Merge) Size() float64 {
	return m.space().Size()
}

// ConflictCount returns the total number of conflict regions across all
// conflicting files. It counts regions, not candidate combinations, and is
// well-defined even when Size is 0.
func (m *Merge) ConflictCount() int {
	n := 0
	for _, f := range m.files {
		n += f.ConflictCount()
	}
	return n
}

// Traverse returns a cursor over every candidate whole-merge resolution.
// Each call builds a fresh space and an independent traversal starting from
// the first combination.
func (m *Merge) Traverse() *Resolutions {
	return &Resolutions{it: m.space().Traverse()}
}

// Resolutions returns the candidate whole-merge resolutions as a restartable
// sequence; each ranging starts a fresh traversal.
func (m *Merge) Resolutions() iter.Seq[mergespace.ResolutionMerge] {
	return func(yield func(mergespace.ResolutionMerge) bool) {
		cursor := m.Traverse()
		defer cursor.Stop()
		for cursor.HasNext() {
			candidate, ok := cursor.Next()
			if !ok || !yield(candidate) {
				return
			}
		}
	}
}

// ActualResolution assembles the resolution developers actually committed
// from each file's historical content, in file-list order. It fails as a
// whole if any file's content cannot be read: a partial resolution would be
// meaningless.
func (m *Merge) ActualResolution(ctx context.Context) (mergespace.ResolutionMerge, error) {
	merge := mergespace.ResolutionMerge{Files: make([]mergespace.ResolutionFile, 0, len(m.files))}
	for _, f := range m.files {
		file, err := f.ActualResolution(ctx)
		if err != nil {
			return mergespace.ResolutionMerge{}, err
		}
		merge.Files = append(merge.Files, file)
	}
	return merge, nil
}

// space builds a fresh product space with one dimension per conflicting
// file, in file-list order.
func (m *Merge) space() *space.Product[mergespace.ResolutionFile] {
	p := space.New[mergespace.ResolutionFile]()
	for _, f := range m.files {
		p.Connect(f)
	}
	return p
}

// Resolutions is a cursor over candidate whole-merge resolutions.
type Resolutions struct {
	it *space.Iterator[mergespace.ResolutionFile]
}

// HasNext reports whether another candidate resolution exists.
func (r *Resolutions) HasNext() bool {
	return r.it.HasNext()
}

// Next returns the next candidate resolution in traversal order. Past
// exhaustion it returns the zero value and false; guard with HasNext.
func (r *Resolutions) Next() (mergespace.ResolutionMerge, bool) {
	files := r.it.Next()
	if files == nil {
		return mergespace.ResolutionMerge{}, false
	}
	return mergespace.ResolutionMerge{Files: files}, true
}

// Stop releases the traversal's underlying cursors.
func (r *Resolutions) Stop() {
	r.it.Stop()
}
