// Package suites loads the declarative CI test suite registries and the
// lighthouse pages configuration.
package suites

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// TestType identifies one of the CI test suite categories.
type TestType string

// The four registered test types. OutputKey gives the JSON envelope key,
// which differs from the config file naming for the lighthouse types.
const (
	TypeE2E                     TestType = "e2e"
	TypeAcceptance              TestType = "acceptance"
	TypeLighthousePerformance   TestType = "lighthouse-performance"
	TypeLighthouseAccessibility TestType = "lighthouse-accessibility"
)

// AllTestTypes lists every test type in output order.
var AllTestTypes = []TestType{
	TypeE2E,
	TypeAcceptance,
	TypeLighthousePerformance,
	TypeLighthouseAccessibility,
}

// OutputKey returns the key used for this type in the result envelope.
func (t TestType) OutputKey() string {
	switch t {
	case TypeLighthousePerformance:
		return "lighthouse_performance"
	case TypeLighthouseAccessibility:
		return "lighthouse_accessibility"
	default:
		return string(t)
	}
}

// IsLighthouse reports whether suites of this type carry per-page subsets.
func (t TestType) IsLighthouse() bool {
	return t == TypeLighthousePerformance || t == TypeLighthouseAccessibility
}

// TestSuite is one independently runnable test unit. Name is the identity
// and is unique within a test type. Module is the path of the suite's own
// spec/config file; a change to it always implicates the suite.
type TestSuite struct {
	Name   string `json:"name"`
	Module string `json:"module"`
}

// suiteConfigFile mirrors the on-disk registry shape:
// {"suites": [{"name": ..., "module": ...}, ...]}
type suiteConfigFile struct {
	Suites []TestSuite `json:"suites"`
}

// Registry holds the registered suites for every test type, in the order
// they appear in the configuration files. Immutable after load.
type Registry struct {
	byType map[TestType][]TestSuite
}

// LoadRegistry reads <dir>/<type>.json for each test type. Every file must
// exist and parse; a partially loaded registry is never returned.
func LoadRegistry(dir string) (*Registry, error) {
	byType := make(map[TestType][]TestSuite, len(AllTestTypes))

	for _, testType := range AllTestTypes {
		path := filepath.Join(dir, string(testType)+".json")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read suite config for %s: %w", testType, err)
		}

		var cfg suiteConfigFile
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse suite config %s: %w", path, err)
		}

		seen := make(map[string]bool, len(cfg.Suites))
		for _, suite := range cfg.Suites {
			if suite.Name == "" {
				return nil, fmt.Errorf("suite config %s contains a suite with no name", path)
			}
			if seen[suite.Name] {
				return nil, fmt.Errorf("suite config %s declares suite %q twice", path, suite.Name)
			}
			seen[suite.Name] = true
		}

		byType[testType] = cfg.Suites
	}

	return &Registry{byType: byType}, nil
}

// Suites returns the registered suites for a test type in declaration order.
// The returned slice must not be modified.
func (r *Registry) Suites(testType TestType) []TestSuite {
	return r.byType[testType]
}

// Lookup finds a suite by name within a test type.
func (r *Registry) Lookup(testType TestType, name string) (TestSuite, bool) {
	for _, suite := range r.byType[testType] {
		if suite.Name == name {
			return suite, true
		}
	}
	return TestSuite{}, false
}

// Count returns the number of registered suites for a test type.
func (r *Registry) Count(testType TestType) int {
	return len(r.byType[testType])
}
