// Package gitdiff collects the changed files of a pull request from git.
package gitdiff

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ChangedFiles runs `git diff --name-status <base> <head> --` and returns the
// changed file paths. For renames the new path is returned. The returned list
// may contain duplicates; callers must tolerate them.
func ChangedFiles(ctx context.Context, baseRef, headRef string) ([]string, error) {
	cmd := exec.CommandContext(ctx, "git", "diff", "--name-status", baseRef, headRef, "--")
	out, err := cmd.Output()
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			return nil, fmt.Errorf("git diff failed: %s", strings.TrimSpace(string(exitErr.Stderr)))
		}
		return nil, fmt.Errorf("git diff failed: %w", err)
	}
	return ParseNameStatus(string(out)), nil
}

// ParseNameStatus extracts file paths from `git diff --name-status` output.
// Each line is "<status>\t<path>" or, for renames/copies,
// "<status><score>\t<old>\t<new>"; the last field is always the path that
// exists after the change.
func ParseNameStatus(out string) []string {
	var files []string
	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		files = append(files, fields[len(fields)-1])
	}
	return files
}

// MatchesAny reports whether any file matches any of the doublestar
// patterns. An invalid pattern is an error; patterns come from configuration
// and should have been validated at load time.
func MatchesAny(files []string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		for _, file := range files {
			ok, err := doublestar.Match(pattern, file)
			if err != nil {
				return false, fmt.Errorf("invalid run-all pattern %q: %w", pattern, err)
			}
			if ok {
				return true, nil
			}
		}
	}
	return false, nil
}
