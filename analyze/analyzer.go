// Package analyze runs the merge-conflict analysis over a repository's
// merge history.
package analyze

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/fwojciec/mergespace"
	"github.com/fwojciec/mergespace/conflict"
)

// Report summarizes the analysis of one conflicting merge.
type Report struct {
	CommitID      string  `json:"commit_id"`
	CommitIDShort string  `json:"commit_id_short"`
	Files         int     `json:"files"`
	ConflictCount int     `json:"conflict_count"`
	SpaceSize     float64 `json:"space_size"`
	// ActualFound reports whether the historical resolution appeared among
	// the searched candidates; ActualIndex is its position in traversal
	// order, -1 when not found or when the search was disabled.
	ActualFound bool `json:"actual_found"`
	ActualIndex int  `json:"actual_index"`
}

// ReportStore persists and retrieves analysis reports.
type ReportStore interface {
	Save(path string, reports []Report) error
	Load(path string) ([]Report, error)
}

// Analyzer replays the merges of a repository's history and reports on the
// ones that conflicted.
type Analyzer struct {
	Repo   mergespace.Repository
	Merger mergespace.FileMerger
	// SearchLimit caps how many candidate resolutions are enumerated when
	// looking for the actual resolution in the space. 0 disables the
	// search.
	SearchLimit int
}

// Run analyzes up to limit merge commits, newest first, and returns one
// report per merge that had conflicts.
func (a *Analyzer) Run(ctx context.Context, limit int) ([]Report, error) {
	commits, err := a.Repo.MergeCommits(ctx, limit)
	if err != nil {
		return nil, err
	}

	var reports []Report
	for _, commit := range commits {
		merge, err := a.AnalyzeCommit(ctx, commit)
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", commit.Short(), err)
		}
		if merge == nil {
			continue
		}
		report, err := a.report(ctx, merge)
		if err != nil {
			return nil, fmt.Errorf("commit %s: %w", commit.Short(), err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

// AnalyzeCommit replays the three-way merge of one merge commit and returns
// the conflicting merge, or nil when the merge replays cleanly. Merges with
// more than two parents are skipped.
func (a *Analyzer) AnalyzeCommit(ctx context.Context, commit mergespace.Commit) (*conflict.Merge, error) {
	if len(commit.Parents) != 2 {
		return nil, nil
	}
	ours, theirs := commit.Parents[0], commit.Parents[1]

	base, err := a.Repo.MergeBase(ctx, ours, theirs)
	if err != nil {
		return nil, err
	}

	paths, err := a.touchedByBothSides(ctx, base, ours, theirs)
	if err != nil {
		return nil, err
	}

	results := make(map[string]mergespace.MergeResult, len(paths))
	for _, path := range paths {
		result, err := a.mergeFile(ctx, path, base, ours, theirs)
		if err != nil {
			return nil, fmt.Errorf("merging %s: %w", path, err)
		}
		results[path] = result
	}

	merge := conflict.NewMerge(a.Repo, commit, results)
	if len(merge.Files()) == 0 {
		return nil, nil
	}
	return merge, nil
}

// touchedByBothSides returns the paths changed relative to the base on both
// sides of the merge. Only those paths can conflict.
func (a *Analyzer) touchedByBothSides(ctx context.Context, base, ours, theirs string) ([]string, error) {
	oursPaths, err := a.Repo.ChangedPaths(ctx, base, ours)
	if err != nil {
		return nil, err
	}
	theirsPaths, err := a.Repo.ChangedPaths(ctx, base, theirs)
	if err != nil {
		return nil, err
	}

	var both []string
	for _, path := range oursPaths {
		if slices.Contains(theirsPaths, path) {
			both = append(both, path)
		}
	}
	slices.Sort(both)
	return both, nil
}

// mergeFile merges one path across the three commits, treating a missing
// file as empty content so add/add and modify/delete merges still run.
func (a *Analyzer) mergeFile(ctx context.Context, path, base, ours, theirs string) (mergespace.MergeResult, error) {
	baseContent, err := a.contentOrEmpty(ctx, base, path)
	if err != nil {
		return mergespace.MergeResult{}, err
	}
	oursContent, err := a.contentOrEmpty(ctx, ours, path)
	if err != nil {
		return mergespace.MergeResult{}, err
	}
	theirsContent, err := a.contentOrEmpty(ctx, theirs, path)
	if err != nil {
		return mergespace.MergeResult{}, err
	}
	return a.Merger.Merge(ctx, oursContent, baseContent, theirsContent)
}

func (a *Analyzer) contentOrEmpty(ctx context.Context, commit, path string) ([]byte, error) {
	content, err := a.Repo.FileContent(ctx, commit, path)
	if errors.Is(err, mergespace.ErrNotFound) {
		return nil, nil
	}
	return content, err
}

// report assembles one Report, including the bounded search for the actual
// resolution within the candidate space.
func (a *Analyzer) report(ctx context.Context, merge *conflict.Merge) (Report, error) {
	actual, err := merge.ActualResolution(ctx)
	if err != nil {
		return Report{}, err
	}

	r := Report{
		CommitID:      merge.CommitID(),
		CommitIDShort: merge.CommitIDShort(),
		Files:         len(merge.Files()),
		ConflictCount: merge.ConflictCount(),
		SpaceSize:     merge.Size(),
		ActualIndex:   -1,
	}

	if a.SearchLimit > 0 {
		cursor := merge.Traverse()
		defer cursor.Stop()
		for i := 0; i < a.SearchLimit && cursor.HasNext(); i++ {
			candidate, ok := cursor.Next()
			if !ok {
				break
			}
			if candidate.Equal(actual) {
				r.ActualFound = true
				r.ActualIndex = i
				break
			}
		}
	}
	return r, nil
}
