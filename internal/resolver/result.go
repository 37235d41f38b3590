package resolver

import "github.com/edtechops/ciselect/internal/suites"

// NamedSuite is one suite in the output envelope. Only the name is exposed;
// module paths are an input-side concern.
type NamedSuite struct {
	Name string `json:"name"`
}

// LighthouseSuite is one lighthouse suite in the output envelope, annotated
// with the pages that need checking. PagesToRun is always present; an empty
// list means the suite runs with its default configuration.
type LighthouseSuite struct {
	Name       string   `json:"name"`
	PagesToRun []string `json:"pages_to_run"`
}

// SuiteSet is the counted envelope for e2e and acceptance suites.
type SuiteSet struct {
	Suites []NamedSuite `json:"suites"`
	Count  int          `json:"count"`
}

// LighthouseSuiteSet is the counted envelope for lighthouse suites.
type LighthouseSuiteSet struct {
	Suites []LighthouseSuite `json:"suites"`
	Count  int               `json:"count"`
}

// Result is the complete per-type envelope handed to the output writer.
type Result struct {
	E2E                     SuiteSet           `json:"e2e"`
	Acceptance              SuiteSet           `json:"acceptance"`
	LighthousePerformance   LighthouseSuiteSet `json:"lighthouse_performance"`
	LighthouseAccessibility LighthouseSuiteSet `json:"lighthouse_accessibility"`
}

// newSuiteSet wraps suites into the counted envelope. Empty input yields an
// empty (not nil) list so the envelope serializes as [] rather than null.
func newSuiteSet(affected []suites.TestSuite) SuiteSet {
	out := make([]NamedSuite, 0, len(affected))
	for _, suite := range affected {
		out = append(out, NamedSuite{Name: suite.Name})
	}
	return SuiteSet{Suites: out, Count: len(out)}
}

// newLighthouseSuiteSet wraps lighthouse suites, resolving each suite's page
// subset through pagesFor (keyed by suite name, which equals the shard ID).
func newLighthouseSuiteSet(affected []suites.TestSuite, pagesFor func(suiteName string) []string) LighthouseSuiteSet {
	out := make([]LighthouseSuite, 0, len(affected))
	for _, suite := range affected {
		pages := pagesFor(suite.Name)
		if pages == nil {
			pages = []string{}
		}
		out = append(out, LighthouseSuite{Name: suite.Name, PagesToRun: pages})
	}
	return LighthouseSuiteSet{Suites: out, Count: len(out)}
}

// SuiteCount returns the suite count for a test type's envelope.
func (r *Result) SuiteCount(testType suites.TestType) int {
	switch testType {
	case suites.TypeE2E:
		return r.E2E.Count
	case suites.TypeAcceptance:
		return r.Acceptance.Count
	case suites.TypeLighthousePerformance:
		return r.LighthousePerformance.Count
	case suites.TypeLighthouseAccessibility:
		return r.LighthouseAccessibility.Count
	default:
		return 0
	}
}
