package mapping

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/edtechops/ciselect/internal/suites"
)

// SuiteModuleMapping maps a suite name to the root files its fixture file
// declares. A suite absent from the mapping has no discoverable fixture and
// can never be safely skipped.
type SuiteModuleMapping map[string][]string

// BuildSuiteModuleMapping walks dir recursively and builds the mapping for
// the given registered suites. Each regular file represents one suite's
// fixture: its slash-separated path relative to dir, minus the extension,
// must equal a registered suite name (nested names like
// "blog-admin/assign-roles" come from nested directories). Files matching no
// registered suite are skipped; mapping directories hold scaffolding too.
// A missing or unreadable directory is a fatal configuration error.
func BuildSuiteModuleMapping(dir string, registered []suites.TestSuite) (SuiteModuleMapping, error) {
	names := make(map[string]bool, len(registered))
	for _, suite := range registered {
		names[suite.Name] = true
	}

	mapping := make(SuiteModuleMapping)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		suiteName := strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
		if !names[suiteName] {
			return nil
		}

		rootFiles, err := readFixture(path)
		if err != nil {
			return err
		}
		mapping[suiteName] = rootFiles
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan modules mapping directory %s: %w", dir, err)
	}

	return mapping, nil
}

// readFixture reads one fixture file: newline-separated root file
// identifiers, blank lines ignored.
func readFixture(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var rootFiles []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		rootFiles = append(rootFiles, line)
	}
	return rootFiles, nil
}

// ScanStrayFixtures returns the relative paths of files under dir that match
// no registered suite name. The resolver skips them silently; the validate
// command surfaces them so typos in fixture paths do not go unnoticed.
func ScanStrayFixtures(dir string, registered []suites.TestSuite) ([]string, error) {
	names := make(map[string]bool, len(registered))
	for _, suite := range registered {
		names[suite.Name] = true
	}

	var strays []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		suiteName := strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
		if !names[suiteName] {
			strays = append(strays, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan modules mapping directory %s: %w", dir, err)
	}
	return strays, nil
}

// DeclaredRootFiles returns the deduplicated set of every root file any
// suite in the mapping declares. Used by validation.
func (m SuiteModuleMapping) DeclaredRootFiles() map[string]bool {
	declared := make(map[string]bool)
	for _, rootFiles := range m {
		for _, root := range rootFiles {
			declared[root] = true
		}
	}
	return declared
}
