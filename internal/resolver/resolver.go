// Package resolver implements change-impact resolution: given the set of
// changed files and the static mapping data, it computes the minimal set of
// CI test suites that must run, degrading to the full set whenever the
// mapping data cannot bound the impact of a change.
package resolver

import (
	"path/filepath"

	"github.com/edtechops/ciselect/internal/config"
	"github.com/edtechops/ciselect/internal/logger"
	"github.com/edtechops/ciselect/internal/mapping"
	"github.com/edtechops/ciselect/internal/suites"
)

// filteredTypes are the types whose suite sets are narrowed by impact
// resolution. E2E is deliberately exempt: the full e2e set runs on every
// change until those suites are retired.
var filteredTypes = []suites.TestType{
	suites.TypeAcceptance,
	suites.TypeLighthousePerformance,
	suites.TypeLighthouseAccessibility,
}

// Resolver holds the read-only snapshots the resolution runs against.
// Build one per invocation; nothing is cached across runs.
type Resolver struct {
	registry       *suites.Registry
	pages          *suites.PagesConfig
	rootFiles      mapping.RootFilesMapping
	rootFilesCfg   *mapping.RootFilesConfig
	moduleMappings map[suites.TestType]mapping.SuiteModuleMapping
	log            *logger.Logger
}

// New creates a Resolver from already-loaded snapshots.
func New(
	registry *suites.Registry,
	pages *suites.PagesConfig,
	rootFiles mapping.RootFilesMapping,
	rootFilesCfg *mapping.RootFilesConfig,
	moduleMappings map[suites.TestType]mapping.SuiteModuleMapping,
	log *logger.Logger,
) *Resolver {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Resolver{
		registry:       registry,
		pages:          pages,
		rootFiles:      rootFiles,
		rootFilesCfg:   rootFilesCfg,
		moduleMappings: moduleMappings,
		log:            log,
	}
}

// Load reads every mapping snapshot named by the configuration and builds a
// Resolver. Any missing or malformed file is a fatal configuration error;
// there is no partial result.
func Load(cfg *config.Config, log *logger.Logger) (*Resolver, error) {
	registry, err := suites.LoadRegistry(cfg.Paths.SuiteConfigs)
	if err != nil {
		return nil, err
	}

	pages, err := suites.LoadPagesConfig(cfg.Paths.LighthousePages)
	if err != nil {
		return nil, err
	}

	rootFiles, err := mapping.LoadRootFilesMapping(cfg.Paths.RootFilesMapping)
	if err != nil {
		return nil, err
	}

	rootFilesCfg, err := mapping.LoadRootFilesConfig(cfg.Paths.RootFilesConfig)
	if err != nil {
		return nil, err
	}

	moduleMappings := make(map[suites.TestType]mapping.SuiteModuleMapping, len(filteredTypes))
	for _, testType := range filteredTypes {
		dir := filepath.Join(cfg.Paths.ModulesMapping, string(testType))
		m, err := mapping.BuildSuiteModuleMapping(dir, registry.Suites(testType))
		if err != nil {
			return nil, err
		}
		moduleMappings[testType] = m
	}

	return New(registry, pages, rootFiles, rootFilesCfg, moduleMappings, log), nil
}

// Resolve computes the suites to run for the given changed files.
//
// Fail-open rules, in order:
//  1. Any changed file absent from the root files mapping -> full set.
//  2. Any affected root file in the run-all list -> full set.
//  3. Any suite without a fixture mapping -> that suite always runs
//     (whenever at least one root file is affected).
func (r *Resolver) Resolve(changedFiles []string) *Result {
	rootFiles, tracked := r.rootFiles.ResolveRootFiles(changedFiles)
	if !tracked {
		r.log.Infow("changed files not fully tracked by root files mapping, running everything",
			"changed_files", len(changedFiles))
		return r.AllSuites()
	}

	if r.rootFilesCfg.RequiresFullRun(rootFiles) {
		r.log.Infow("change affects a run-all root file, running everything")
		return r.AllSuites()
	}

	r.warnUnknownRootFiles(rootFiles)

	rootSet := make(map[string]bool, len(rootFiles))
	for _, root := range rootFiles {
		rootSet[root] = true
	}

	result := &Result{
		// E2E runs in full regardless of the diff.
		E2E:        newSuiteSet(r.registry.Suites(suites.TypeE2E)),
		Acceptance: newSuiteSet(r.affectedSuites(suites.TypeAcceptance, rootFiles, rootSet)),
	}
	result.LighthousePerformance = r.lighthouseSet(suites.TypeLighthousePerformance, rootFiles, rootSet)
	result.LighthouseAccessibility = r.lighthouseSet(suites.TypeLighthouseAccessibility, rootFiles, rootSet)

	return result
}

// affectedSuites returns the suites of one type implicated by the affected
// root files, in registry order (which also deduplicates: suite names are
// unique within a type). With no affected root files nothing runs, not even
// suites without fixtures.
func (r *Resolver) affectedSuites(testType suites.TestType, rootFiles []string, rootSet map[string]bool) []suites.TestSuite {
	if len(rootFiles) == 0 {
		return nil
	}

	moduleMapping := r.moduleMappings[testType]
	var affected []suites.TestSuite
	for _, suite := range r.registry.Suites(testType) {
		declared, hasFixture := moduleMapping[suite.Name]
		if !hasFixture {
			// No fixture means no impact bound; the suite cannot be skipped.
			r.log.WithTestType(string(testType)).WithSuite(suite.Name).
				Debugw("suite has no modules mapping, always running it")
			affected = append(affected, suite)
			continue
		}

		if rootSet[suite.Module] {
			// The suite's own spec file changed.
			affected = append(affected, suite)
			continue
		}
		for _, root := range declared {
			if rootSet[root] {
				affected = append(affected, suite)
				break
			}
		}
	}
	return affected
}

// lighthouseSet narrows a lighthouse type to its affected suites and, within
// each suite, the pages whose module is an affected root file. A suite can
// legitimately run with an empty page list (fixture-less suites fall back to
// their default configuration).
func (r *Resolver) lighthouseSet(testType suites.TestType, rootFiles []string, rootSet map[string]bool) LighthouseSuiteSet {
	affected := r.affectedSuites(testType, rootFiles, rootSet)
	return newLighthouseSuiteSet(affected, func(suiteName string) []string {
		pages, ok := r.pages.ShardPages(suiteName)
		if !ok {
			r.log.WithTestType(string(testType)).WithSuite(suiteName).
				Warnw("no lighthouse shard for suite, running with default pages")
			return nil
		}
		var names []string
		for _, page := range pages {
			if rootSet[page.PageModule] {
				names = append(names, page.Name)
			}
		}
		return names
	})
}

// AllSuites returns the run-everything envelope: every registered suite of
// every type, lighthouse suites annotated with their shard's full page list.
func (r *Resolver) AllSuites() *Result {
	result := &Result{
		E2E:        newSuiteSet(r.registry.Suites(suites.TypeE2E)),
		Acceptance: newSuiteSet(r.registry.Suites(suites.TypeAcceptance)),
	}
	result.LighthousePerformance = newLighthouseSuiteSet(
		r.registry.Suites(suites.TypeLighthousePerformance), r.pages.PageNames)
	result.LighthouseAccessibility = newLighthouseSuiteSet(
		r.registry.Suites(suites.TypeLighthouseAccessibility), r.pages.PageNames)
	return result
}

// warnUnknownRootFiles logs affected root files that nothing accounts for:
// not a valid terminal root, not any suite's module or declared dependency,
// and not any lighthouse page module. A warning here usually means the
// generated mapping data is stale.
func (r *Resolver) warnUnknownRootFiles(rootFiles []string) {
	for _, root := range rootFiles {
		if r.rootFilesCfg.IsValidRootFile(root) || r.rootFilesCfg.RequiresFullRun([]string{root}) {
			continue
		}
		if r.rootFileIsKnown(root) {
			continue
		}
		r.log.Warnw("affected root file matches nothing, mapping data may be stale",
			"root_file", root)
	}
}

func (r *Resolver) rootFileIsKnown(root string) bool {
	for _, testType := range filteredTypes {
		if r.moduleMappings[testType].DeclaredRootFiles()[root] {
			return true
		}
		for _, suite := range r.registry.Suites(testType) {
			if suite.Module == root {
				return true
			}
		}
	}
	for _, shardID := range r.pages.ShardIDs() {
		pages, _ := r.pages.ShardPages(shardID)
		for _, page := range pages {
			if page.PageModule == root {
				return true
			}
		}
	}
	return false
}
