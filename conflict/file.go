package conflict

import (
	"context"
	"fmt"
	"iter"

	"github.com/fwojciec/mergespace"
	"github.com/fwojciec/mergespace/space"
)

// Compile-time interface verification: a File is one dimension of the
// whole-merge resolution space.
var _ space.ChoiceSet[mergespace.ResolutionFile] = (*File)(nil)

// File is one conflicting file of a merge: a path whose three-way merge
// result contains at least one conflict region. Immutable after
// construction.
type File struct {
	repo   mergespace.Repository
	commit mergespace.Commit
	path   string
	result mergespace.MergeResult
}

// NewFile wraps one conflicting merge result. The result must contain at
// least one conflict region; callers filter conflict-free results out
// before constructing a File.
func NewFile(repo mergespace.Repository, commit mergespace.Commit, path string, result mergespace.MergeResult) *File {
	return &File{repo: repo, commit: commit, path: path, result: result}
}

// Path returns the file path within the repository.
func (f *File) Path() string {
	return f.path
}

// ConflictCount returns the number of conflict regions in the file.
func (f *File) ConflictCount() int {
	return f.result.ConflictCount()
}

// Size returns the number of candidate resolutions of the file: the product
// of per-region candidate counts.
func (f *File) Size() float64 {
	return f.choices().Size()
}

// All enumerates every candidate resolution of the file. The order is
// deterministic and the sequence restartable: each region contributes its
// "ours" variant before its "theirs" variant, with the last region in
// document order cycling fastest.
func (f *File) All() iter.Seq[mergespace.ResolutionFile] {
	return func(yield func(mergespace.ResolutionFile) bool) {
		for combo := range f.choices().All() {
			if !yield(f.render(combo)) {
				return
			}
		}
	}
}

// ActualResolution returns the resolution developers actually committed,
// read from the repository at the merge commit.
func (f *File) ActualResolution(ctx context.Context) (mergespace.ResolutionFile, error) {
	content, err := f.repo.FileContent(ctx, f.commit.Hash, f.path)
	if err != nil {
		return mergespace.ResolutionFile{}, fmt.Errorf("reading %s at %s: %w", f.path, f.commit.Short(), err)
	}
	return mergespace.ResolutionFile{Path: f.path, Content: string(content)}, nil
}

// choices builds a fresh product space over the file's conflict regions.
// Each region is a dimension with two candidates: the lines of our side and
// the lines of their side.
func (f *File) choices() *space.Product[[]string] {
	p := space.New[[]string]()
	for _, chunk := range f.result.Chunks {
		if chunk.Conflict == nil {
			continue
		}
		p.Connect(space.Slice[[]string]{chunk.Conflict.Ours, chunk.Conflict.Theirs})
	}
	return p
}

// render assembles full file content from one choice per conflict region,
// interleaved with the cleanly merged chunks in document order.
func (f *File) render(combo [][]string) mergespace.ResolutionFile {
	var lines []string
	i := 0
	for _, chunk := range f.result.Chunks {
		if chunk.Conflict == nil {
			lines = append(lines, chunk.Lines...)
			continue
		}
		lines = append(lines, combo[i]...)
		i++
	}
	return mergespace.ResolutionFile{Path: f.path, Content: mergespace.JoinLines(lines)}
}
