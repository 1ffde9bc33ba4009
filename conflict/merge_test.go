package conflict_test

import (
	"context"
	"testing"

	"github.com/fwojciec/mergespace"
	"github.com/fwojciec/mergespace/conflict"
	"github.com/fwojciec/mergespace/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// oneConflictResult builds a merge result with a single conflict region
// whose sides are the given lines.
func oneConflictResult(ours, theirs string) mergespace.MergeResult {
	return mergespace.MergeResult{
		Chunks: []mergespace.Chunk{
			{Conflict: &mergespace.Conflict{
				Ours:   []string{ours},
				Theirs: []string{theirs},
			}},
		},
	}
}

// cleanResult builds a merge result without conflicts.
func cleanResult(lines ...string) mergespace.MergeResult {
	return mergespace.MergeResult{Chunks: []mergespace.Chunk{{Lines: lines}}}
}

func TestNewMerge_FiltersAndSortsConflictingFiles(t *testing.T) {
	t.Parallel()

	m := conflict.NewMerge(nil, testCommit, map[string]mergespace.MergeResult{
		"z.go": oneConflictResult("z ours", "z theirs"),
		"b.go": cleanResult("no conflicts here"),
		"a.go": oneConflictResult("a ours", "a theirs"),
	})

	files := m.Files()
	require.Len(t, files, 2)
	assert.Equal(t, "a.go", files[0].Path())
	assert.Equal(t, "z.go", files[1].Path())
}

func TestMerge_SizeAndConflictCount(t *testing.T) {
	t.Parallel()

	t.Run("size is the product of per-file candidate counts", func(t *testing.T) {
		t.Parallel()

		m := conflict.NewMerge(nil, testCommit, map[string]mergespace.MergeResult{
			"a.go": twoConflictResult(),                    // 2 regions, 4 candidates
			"b.go": oneConflictResult("ours", "theirs"),    // 1 region, 2 candidates
			"c.go": cleanResult("clean"),                   // filtered out
		})

		assert.Equal(t, 8.0, m.Size())
		assert.Equal(t, 3, m.ConflictCount())
	})

	t.Run("a file with one region and many candidates counts once", func(t *testing.T) {
		t.Parallel()

		m := conflict.NewMerge(nil, testCommit, map[string]mergespace.MergeResult{
			"a.go": oneConflictResult("ours", "theirs"),
		})

		assert.Equal(t, 1, m.ConflictCount())
		assert.Equal(t, 2.0, m.Size())
	})

	t.Run("repeated calls return the same values", func(t *testing.T) {
		t.Parallel()

		m := conflict.NewMerge(nil, testCommit, map[string]mergespace.MergeResult{
			"a.go": twoConflictResult(),
		})

		assert.Equal(t, m.Size(), m.Size())
		assert.Equal(t, m.ConflictCount(), m.ConflictCount())
	})
}

func TestMerge_NoConflicts(t *testing.T) {
	t.Parallel()

	m := conflict.NewMerge(nil, testCommit, map[string]mergespace.MergeResult{
		"a.go": cleanResult("fine"),
		"b.go": cleanResult("also fine"),
	})

	assert.Empty(t, m.Files())
	assert.Equal(t, 0.0, m.Size())
	assert.Equal(t, 0, m.ConflictCount())

	cursor := m.Traverse()
	assert.False(t, cursor.HasNext())
	_, ok := cursor.Next()
	assert.False(t, ok)
}

func TestMerge_Traverse_CoversTheWholeSpace(t *testing.T) {
	t.Parallel()

	m := conflict.NewMerge(nil, testCommit, map[string]mergespace.MergeResult{
		"a.go": oneConflictResult("a1", "a2"),
		"b.go": oneConflictResult("b1", "b2"),
	})

	cursor := m.Traverse()
	var got [][]string
	for cursor.HasNext() {
		res, ok := cursor.Next()
		require.True(t, ok)
		require.Len(t, res.Files, 2)
		assert.Equal(t, "a.go", res.Files[0].Path)
		assert.Equal(t, "b.go", res.Files[1].Path)
		got = append(got, []string{res.Files[0].Content, res.Files[1].Content})
	}

	// The later-sorted file cycles fastest.
	want := [][]string{
		{"a1\n", "b1\n"},
		{"a1\n", "b2\n"},
		{"a2\n", "b1\n"},
		{"a2\n", "b2\n"},
	}
	assert.Equal(t, want, got)
}

func TestMerge_Traverse_FreshCursorEachCall(t *testing.T) {
	t.Parallel()

	m := conflict.NewMerge(nil, testCommit, map[string]mergespace.MergeResult{
		"a.go": oneConflictResult("a1", "a2"),
	})

	first := m.Traverse()
	for first.HasNext() {
		first.Next()
	}
	require.False(t, first.HasNext())

	second := m.Traverse()
	require.True(t, second.HasNext())
	res, ok := second.Next()
	require.True(t, ok)
	assert.Equal(t, "a1\n", res.Files[0].Content)
}

func TestMerge_Resolutions_Restartable(t *testing.T) {
	t.Parallel()

	m := conflict.NewMerge(nil, testCommit, map[string]mergespace.MergeResult{
		"a.go": twoConflictResult(),
	})

	count := func() int {
		n := 0
		for range m.Resolutions() {
			n++
		}
		return n
	}

	assert.Equal(t, 4, count())
	assert.Equal(t, 4, count())
}

func TestMerge_ActualResolution(t *testing.T) {
	t.Parallel()

	t.Run("assembles per-file content in file-list order", func(t *testing.T) {
		t.Parallel()

		repo := &mock.Repository{
			FileContentFn: func(ctx context.Context, commit, path string) ([]byte, error) {
				return []byte("actual " + path + "\n"), nil
			},
		}
		m := conflict.NewMerge(repo, testCommit, map[string]mergespace.MergeResult{
			"b.go": oneConflictResult("b1", "b2"),
			"a.go": oneConflictResult("a1", "a2"),
		})

		actual, err := m.ActualResolution(context.Background())

		require.NoError(t, err)
		want := mergespace.ResolutionMerge{Files: []mergespace.ResolutionFile{
			{Path: "a.go", Content: "actual a.go\n"},
			{Path: "b.go", Content: "actual b.go\n"},
		}}
		assert.Equal(t, want, actual)
	})

	t.Run("is stable across calls and prior traversals", func(t *testing.T) {
		t.Parallel()

		repo := &mock.Repository{
			FileContentFn: func(ctx context.Context, commit, path string) ([]byte, error) {
				return []byte("actual\n"), nil
			},
		}
		m := conflict.NewMerge(repo, testCommit, map[string]mergespace.MergeResult{
			"a.go": oneConflictResult("a1", "a2"),
		})

		first, err := m.ActualResolution(context.Background())
		require.NoError(t, err)

		for range m.Resolutions() {
		}

		second, err := m.ActualResolution(context.Background())
		require.NoError(t, err)
		assert.True(t, first.Equal(second))
	})

	t.Run("fails as a whole when any file cannot be read", func(t *testing.T) {
		t.Parallel()

		repo := &mock.Repository{
			FileContentFn: func(ctx context.Context, commit, path string) ([]byte, error) {
				if path == "b.go" {
					return nil, mergespace.ErrNotFound
				}
				return []byte("ok\n"), nil
			},
		}
		m := conflict.NewMerge(repo, testCommit, map[string]mergespace.MergeResult{
			"a.go": oneConflictResult("a1", "a2"),
			"b.go": oneConflictResult("b1", "b2"),
		})

		_, err := m.ActualResolution(context.Background())

		assert.ErrorIs(t, err, mergespace.ErrNotFound)
	})
}

func TestMerge_CommitIDs(t *testing.T) {
	t.Parallel()

	m := conflict.NewMerge(nil, testCommit, nil)

	assert.Equal(t, "0123456789abcdef0123456789abcdef01234567", m.CommitID())
	assert.Equal(t, "0123456", m.CommitIDShort())
}
