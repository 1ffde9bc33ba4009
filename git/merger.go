// Package git computes three-way file merges by shelling out to git.
package git

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/fwojciec/mergespace"
)

// Compile-time interface verification.
var _ mergespace.FileMerger = (*Merger)(nil)

// Merger merges file versions via git merge-file.
type Merger struct{}

// NewMerger creates a new Merger.
func NewMerger() *Merger {
	return &Merger{}
}

// Merge runs git merge-file in diff3 mode over the three versions and parses
// the marker output into chunks. git merge-file exits with the number of
// conflicts on a conflicting merge, so a small positive exit status is not
// an error here.
func (m *Merger) Merge(ctx context.Context, ours, base, theirs []byte) (mergespace.MergeResult, error) {
	dir, err := os.MkdirTemp("", "mergespace")
	if err != nil {
		return mergespace.MergeResult{}, err
	}
	defer os.RemoveAll(dir)

	paths := make([]string, 3)
	for i, v := range [][]byte{ours, base, theirs} {
		paths[i] = filepath.Join(dir, fmt.Sprintf("version-%d", i))
		if err := os.WriteFile(paths[i], v, 0o644); err != nil {
			return mergespace.MergeResult{}, err
		}
	}

	args := []string{
		"merge-file", "--diff3", "-p",
		"-L", "ours", "-L", "base", "-L", "theirs",
		paths[0], paths[1], paths[2],
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	output, err := cmd.Output()
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		// Exit statuses 1..127 report the conflict count; anything else
		// means git itself failed.
		if !ok || exitErr.ExitCode() < 1 || exitErr.ExitCode() > 127 {
			if ok {
				return mergespace.MergeResult{}, fmt.Errorf("git merge-file failed: %s", string(exitErr.Stderr))
			}
			return mergespace.MergeResult{}, fmt.Errorf("git merge-file failed: %w", err)
		}
	}

	return parseMarkers(string(output)), nil
}

// Conflict markers as produced by git merge-file --diff3. The ours, base and
// theirs markers carry a trailing label; the separator is a bare line.
const (
	markerOurs   = "<<<<<<<"
	markerBase   = "|||||||"
	markerSep    = "======="
	markerTheirs = ">>>>>>>"
)

// parseMarkers splits merged output into cleanly merged chunks and conflict
// regions by scanning for conflict markers.
func parseMarkers(text string) mergespace.MergeResult {
	var result mergespace.MergeResult
	var clean []string
	var current *mergespace.Conflict

	flush := func() {
		if len(clean) > 0 {
			result.Chunks = append(result.Chunks, mergespace.Chunk{Lines: clean})
			clean = nil
		}
	}

	section := 0 // 0 clean, 1 ours, 2 base, 3 theirs
	for _, line := range splitLines(text) {
		switch {
		case section == 0 && strings.HasPrefix(line, markerOurs):
			flush()
			current = &mergespace.Conflict{}
			section = 1
		case section == 1 && strings.HasPrefix(line, markerBase):
			section = 2
		case (section == 1 || section == 2) && line == markerSep:
			section = 3
		case section == 3 && strings.HasPrefix(line, markerTheirs):
			result.Chunks = append(result.Chunks, mergespace.Chunk{Conflict: current})
			current = nil
			section = 0
		case section == 1:
			current.Ours = append(current.Ours, line)
		case section == 2:
			current.Base = append(current.Base, line)
		case section == 3:
			current.Theirs = append(current.Theirs, line)
		default:
			clean = append(clean, line)
		}
	}
	flush()
	return result
}

// splitLines splits file content into lines without their trailing newline.
// Empty content has no lines.
func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(text, "\n"), "\n")
}
