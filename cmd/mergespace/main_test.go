package main

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/fwojciec/mergespace/jsonl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupConflictedRepo creates a repository whose history contains one merge
// commit that conflicted on conflict.txt and was resolved by taking the
// feature branch's side.
func setupConflictedRepo(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()

	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")

	writeFile(t, dir, "conflict.txt", "line1\nshared\nline3\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	runGit(t, dir, "checkout", "-b", "feature")
	writeFile(t, dir, "conflict.txt", "line1\nfeature change\nline3\n")
	runGit(t, dir, "commit", "-am", "Feature change")

	runGit(t, dir, "checkout", "main")
	writeFile(t, dir, "conflict.txt", "line1\nmain change\nline3\n")
	runGit(t, dir, "commit", "-am", "Main change")

	// The merge conflicts; resolve it by taking the feature side.
	runGitExpectFailure(t, dir, "merge", "feature")
	writeFile(t, dir, "conflict.txt", "line1\nfeature change\nline3\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "--no-edit")

	return dir
}

func runGit(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "command git %v failed: %s", args, string(output))
	return string(output)
}

func runGitExpectFailure(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	require.Error(t, cmd.Run(), "command git %v unexpectedly succeeded", args)
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644)
	require.NoError(t, err)
}

func TestAnalyzeCommand(t *testing.T) {
	t.Parallel()

	dir := setupConflictedRepo(t)
	out := filepath.Join(t.TempDir(), "reports.jsonl")

	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"analyze", dir, "--search-limit", "8", "-o", out})

	err := cmd.Execute()

	require.NoError(t, err, buf.String())
	assert.Contains(t, buf.String(), "1 conflicting merge(s)")

	reports, err := jsonl.NewStore().Load(out)
	require.NoError(t, err)
	require.Len(t, reports, 1)

	r := reports[0]
	assert.Equal(t, 1, r.Files)
	assert.Equal(t, 1, r.ConflictCount)
	assert.Equal(t, 2.0, r.SpaceSize)
	// Parents order puts main's side first, so the feature-side resolution
	// is the second candidate.
	assert.True(t, r.ActualFound)
	assert.Equal(t, 1, r.ActualIndex)
}

func TestAnalyzeCommand_CleanHistory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	runGit(t, dir, "init", "-b", "main")
	runGit(t, dir, "config", "user.email", "test@example.com")
	runGit(t, dir, "config", "user.name", "Test User")
	writeFile(t, dir, "README.md", "# Clean\n")
	runGit(t, dir, "add", ".")
	runGit(t, dir, "commit", "-m", "Initial commit")

	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"analyze", dir})

	err := cmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "no conflicting merges found")
}

func TestCloneCommand(t *testing.T) {
	t.Parallel()

	src := setupConflictedRepo(t)
	work := t.TempDir()
	list := filepath.Join(work, "projects.csv")
	require.NoError(t, os.WriteFile(list, []byte("proj,"+src+"\n"), 0o644))

	cmd := newRootCmd()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs([]string{"clone", list, "--project-dir", work, "-c", "1"})

	err := cmd.Execute()

	require.NoError(t, err, buf.String())
	assert.DirExists(t, filepath.Join(work, "proj", ".git"))
	assert.Contains(t, buf.String(), "cloned proj")
}
