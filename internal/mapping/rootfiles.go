// Package mapping loads the static change-impact mapping data: the
// changed-file to root-file mapping and the per-suite module fixtures.
package mapping

import (
	"encoding/json"
	"fmt"
	"os"
)

// RootFilesMapping maps a concrete source file path to the root files it
// affects. A file absent from the mapping has unknown impact and must be
// treated conservatively.
type RootFilesMapping map[string][]string

// LoadRootFilesMapping reads the root files mapping JSON file.
func LoadRootFilesMapping(path string) (RootFilesMapping, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read root files mapping: %w", err)
	}

	var mapping RootFilesMapping
	if err := json.Unmarshal(data, &mapping); err != nil {
		return nil, fmt.Errorf("failed to parse root files mapping %s: %w", path, err)
	}

	return mapping, nil
}

// ResolveRootFiles returns the deduplicated union of root files affected by
// the changed files, in first-seen order. If any changed file is not present
// in the mapping the impact cannot be determined: the second return is false
// and the caller must run everything. Duplicate input paths are tolerated.
func (m RootFilesMapping) ResolveRootFiles(changedFiles []string) ([]string, bool) {
	seen := make(map[string]bool)
	var rootFiles []string

	for _, file := range changedFiles {
		roots, tracked := m[file]
		if !tracked {
			return nil, false
		}
		for _, root := range roots {
			if !seen[root] {
				seen[root] = true
				rootFiles = append(rootFiles, root)
			}
		}
	}

	return rootFiles, true
}

// RootFilesConfig classifies root files beyond the per-suite fixtures.
type RootFilesConfig struct {
	// ValidRootFiles are files tracked as their own root (READMEs, ownership
	// files) that legitimately match no suite. Used for stale-data checks.
	ValidRootFiles []string `json:"VALID_ROOT_FILES"`
	// RunAllTestsRootFiles force the full suite set when affected (application
	// entry points whose impact the fixtures cannot bound).
	RunAllTestsRootFiles []string `json:"RUN_ALL_TESTS_ROOT_FILES"`
}

// LoadRootFilesConfig reads the root files config JSON file.
func LoadRootFilesConfig(path string) (*RootFilesConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read root files config: %w", err)
	}

	var cfg RootFilesConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse root files config %s: %w", path, err)
	}

	return &cfg, nil
}

// RequiresFullRun reports whether any of the given root files is in the
// run-all list.
func (c *RootFilesConfig) RequiresFullRun(rootFiles []string) bool {
	for _, root := range rootFiles {
		for _, runAll := range c.RunAllTestsRootFiles {
			if root == runAll {
				return true
			}
		}
	}
	return false
}

// IsValidRootFile reports whether the root file is a known terminal root.
func (c *RootFilesConfig) IsValidRootFile(name string) bool {
	for _, valid := range c.ValidRootFiles {
		if name == valid {
			return true
		}
	}
	return false
}
