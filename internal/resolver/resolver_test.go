package resolver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edtechops/ciselect/internal/config"
	"github.com/edtechops/ciselect/internal/logger"
)

// testFixture writes a complete set of mapping data to a temp directory and
// returns a Config pointing at it. The data mirrors a small web application:
// two lighthouse shards, three acceptance suites, and a root-files mapping
// covering a handful of components.
func testFixture(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()

	files := map[string]string{
		"root-files-mapping.json": `{
			"README.md": ["README.md"],
			"assets/README.md": ["assets/README.md"],
			"CODEOWNERS": ["CODEOWNERS"],
			"src/main.ts": ["src/main.ts"],
			"splash-banner.component.html": ["splash-page.module.ts"],
			"about-component.ts": ["about-page.module.ts"],
			"terms.component.html": ["terms-page.module.ts"],
			"privacy-policy.component.ts": ["privacy-page.module.ts"],
			"exploration-player.component.html": ["exploration-player-page.module.ts"],
			"exploration-player-banners.component.html": ["exploration-player-page.module.ts"],
			"exploration-player/view-exploration.spec.ts": ["exploration-player/view-exploration.spec.ts"]
		}`,
		"root-files-config.json": `{
			"VALID_ROOT_FILES": ["README.md", "assets/README.md", "CODEOWNERS"],
			"RUN_ALL_TESTS_ROOT_FILES": ["src/main.ts"]
		}`,
		"lighthouse-pages.json": `{
			"shards": {
				"1": {
					"splash": {"url": "http://localhost:8181/", "page_module": "splash-page.module.ts"},
					"about": {"url": "http://localhost:8181/about", "page_module": "about-page.module.ts"}
				},
				"2": {
					"terms": {"url": "http://localhost:8181/terms", "page_module": "terms-page.module.ts"},
					"privacy-policy": {"url": "http://localhost:8181/privacy-policy", "page_module": "privacy-page.module.ts"},
					"exploration-player": {"url": "http://localhost:8181/explore/{{topic_id}}", "page_module": "exploration-player-page.module.ts"}
				}
			}
		}`,
		"ci-test-suite-configs/e2e.json": `{"suites": [
			{"name": "accessibility", "module": "accessibility.js"},
			{"name": "additionalEditorFeatures", "module": "additionalEditorFeatures.js"},
			{"name": "additionalEditorFeaturesModals", "module": "additionalEditorFeaturesModals.js"}
		]}`,
		"ci-test-suite-configs/acceptance.json": `{"suites": [
			{"name": "blog-admin/assign-roles", "module": "blog-admin/assign-roles.spec.ts"},
			{"name": "blog-editor/publish", "module": "blog-editor/publish.spec.ts"},
			{"name": "exploration-player/view-exploration", "module": "exploration-player/view-exploration.spec.ts"}
		]}`,
		"ci-test-suite-configs/lighthouse-performance.json": `{"suites": [
			{"name": "1", "module": ".lighthouserc-performance-1.js"},
			{"name": "2", "module": ".lighthouserc-performance-2.js"}
		]}`,
		"ci-test-suite-configs/lighthouse-accessibility.json": `{"suites": [
			{"name": "1", "module": ".lighthouserc-accessibility-1.js"},
			{"name": "2", "module": ".lighthouserc-accessibility-2.js"}
		]}`,
		"test-modules-mapping/acceptance/blog-admin/assign-roles.txt":                "blog-admin-page.module.ts",
		"test-modules-mapping/acceptance/blog-admin/delete-blog-post.txt":            "blog-admin-page.module.ts",
		"test-modules-mapping/acceptance/blog-editor/publish.txt":                    "blog-admin-page.module.ts\nblog-dashboard-page.module.ts",
		"test-modules-mapping/acceptance/exploration-player/view-exploration.txt":    "exploration-player-page.module.ts",
		"test-modules-mapping/lighthouse-performance/1.txt":                          "splash-page.module.ts\nabout-page.module.ts",
		"test-modules-mapping/lighthouse-performance/2.txt":                          "terms-page.module.ts\nprivacy-page.module.ts\nexploration-player-page.module.ts",
		"test-modules-mapping/lighthouse-accessibility/1.txt":                        "splash-page.module.ts\nabout-page.module.ts",
		"test-modules-mapping/lighthouse-accessibility/2.txt":                        "terms-page.module.ts\nprivacy-page.module.ts\nexploration-player-page.module.ts",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	}

	cfg := config.DefaultConfig()
	cfg.Paths.RootFilesMapping = filepath.Join(dir, "root-files-mapping.json")
	cfg.Paths.RootFilesConfig = filepath.Join(dir, "root-files-config.json")
	cfg.Paths.LighthousePages = filepath.Join(dir, "lighthouse-pages.json")
	cfg.Paths.SuiteConfigs = filepath.Join(dir, "ci-test-suite-configs")
	cfg.Paths.ModulesMapping = filepath.Join(dir, "test-modules-mapping")
	return cfg
}

func newTestResolver(t *testing.T) *Resolver {
	t.Helper()
	r, err := Load(testFixture(t), logger.NewDefault())
	require.NoError(t, err)
	return r
}

// fullEnvelope is what every fail-open branch must produce.
func fullEnvelope() *Result {
	return &Result{
		E2E: SuiteSet{
			Suites: []NamedSuite{
				{Name: "accessibility"},
				{Name: "additionalEditorFeatures"},
				{Name: "additionalEditorFeaturesModals"},
			},
			Count: 3,
		},
		Acceptance: SuiteSet{
			Suites: []NamedSuite{
				{Name: "blog-admin/assign-roles"},
				{Name: "blog-editor/publish"},
				{Name: "exploration-player/view-exploration"},
			},
			Count: 3,
		},
		LighthousePerformance: LighthouseSuiteSet{
			Suites: []LighthouseSuite{
				{Name: "1", PagesToRun: []string{"splash", "about"}},
				{Name: "2", PagesToRun: []string{"terms", "privacy-policy", "exploration-player"}},
			},
			Count: 2,
		},
		LighthouseAccessibility: LighthouseSuiteSet{
			Suites: []LighthouseSuite{
				{Name: "1", PagesToRun: []string{"splash", "about"}},
				{Name: "2", PagesToRun: []string{"terms", "privacy-policy", "exploration-player"}},
			},
			Count: 2,
		},
	}
}

func TestAllSuites(t *testing.T) {
	r := newTestResolver(t)
	assert.Equal(t, fullEnvelope(), r.AllSuites())
}

func TestResolveUntrackedFileFailsOpen(t *testing.T) {
	r := newTestResolver(t)

	// package.json is not in the root files mapping; other tracked files in
	// the change set must not narrow the result.
	result := r.Resolve([]string{"splash-banner.component.html", "package.json"})
	assert.Equal(t, fullEnvelope(), result)
}

func TestResolveRunAllRootFile(t *testing.T) {
	r := newTestResolver(t)

	result := r.Resolve([]string{"src/main.ts"})
	assert.Equal(t, fullEnvelope(), result)
}

func TestResolveNoImpact(t *testing.T) {
	r := newTestResolver(t)

	// All three files map to valid terminal roots that no suite declares.
	result := r.Resolve([]string{"README.md", "assets/README.md", "CODEOWNERS"})

	assert.Equal(t, fullEnvelope().E2E, result.E2E, "e2e always runs in full")
	assert.Equal(t, SuiteSet{Suites: []NamedSuite{}, Count: 0}, result.Acceptance)
	assert.Equal(t, LighthouseSuiteSet{Suites: []LighthouseSuite{}, Count: 0}, result.LighthousePerformance)
	assert.Equal(t, LighthouseSuiteSet{Suites: []LighthouseSuite{}, Count: 0}, result.LighthouseAccessibility)
}

func TestResolveEmptyChangeSet(t *testing.T) {
	r := newTestResolver(t)

	result := r.Resolve(nil)
	assert.Equal(t, 3, result.E2E.Count)
	assert.Equal(t, 0, result.Acceptance.Count)
	assert.Equal(t, 0, result.LighthousePerformance.Count)
	assert.Equal(t, 0, result.LighthouseAccessibility.Count)
}

func TestResolvePartialChanges(t *testing.T) {
	r := newTestResolver(t)

	result := r.Resolve([]string{
		"splash-banner.component.html",
		"about-component.ts",
		"terms.component.html",
		"exploration-player.component.html",
		"exploration-player-banners.component.html",
	})

	assert.Equal(t, fullEnvelope().E2E, result.E2E)
	assert.Equal(t, SuiteSet{
		Suites: []NamedSuite{{Name: "exploration-player/view-exploration"}},
		Count:  1,
	}, result.Acceptance)

	expectedLighthouse := LighthouseSuiteSet{
		Suites: []LighthouseSuite{
			{Name: "1", PagesToRun: []string{"splash", "about"}},
			{Name: "2", PagesToRun: []string{"terms", "exploration-player"}},
		},
		Count: 2,
	}
	assert.Equal(t, expectedLighthouse, result.LighthousePerformance)
	assert.Equal(t, expectedLighthouse, result.LighthouseAccessibility)
}

func TestResolvePageSubsetting(t *testing.T) {
	r := newTestResolver(t)

	// Suite "1" declares both splash and about modules, but only the page
	// whose module actually changed is selected.
	result := r.Resolve([]string{"splash-banner.component.html"})

	require.Equal(t, 1, result.LighthousePerformance.Count)
	assert.Equal(t, LighthouseSuite{
		Name:       "1",
		PagesToRun: []string{"splash"},
	}, result.LighthousePerformance.Suites[0])
}

func TestResolveOwnModuleChanged(t *testing.T) {
	r := newTestResolver(t)

	// The acceptance suite's own spec file is the changed root file; the
	// suite must run even though its fixture declares no such dependency.
	result := r.Resolve([]string{"exploration-player/view-exploration.spec.ts"})

	assert.Equal(t, SuiteSet{
		Suites: []NamedSuite{{Name: "exploration-player/view-exploration"}},
		Count:  1,
	}, result.Acceptance)
	assert.Equal(t, 0, result.LighthousePerformance.Count)
	assert.Equal(t, 0, result.LighthouseAccessibility.Count)
}

func TestResolveDedup(t *testing.T) {
	r := newTestResolver(t)

	// Both files map to the exploration player module; the suite appears
	// exactly once.
	result := r.Resolve([]string{
		"exploration-player.component.html",
		"exploration-player-banners.component.html",
	})

	assert.Equal(t, 1, result.Acceptance.Count)
	assert.Equal(t, "exploration-player/view-exploration", result.Acceptance.Suites[0].Name)
}

func TestResolveSuiteWithoutFixtureAlwaysRuns(t *testing.T) {
	cfg := testFixture(t)

	// Register an extra acceptance suite with no fixture file.
	path := filepath.Join(cfg.Paths.SuiteConfigs, "acceptance.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"suites": [
		{"name": "blog-admin/assign-roles", "module": "blog-admin/assign-roles.spec.ts"},
		{"name": "blog-editor/publish", "module": "blog-editor/publish.spec.ts"},
		{"name": "exploration-player/view-exploration", "module": "exploration-player/view-exploration.spec.ts"},
		{"name": "blog-admin/create-blog-post", "module": "blog-admin/create-blog-post.spec.ts"}
	]}`), 0644))

	r, err := Load(cfg, logger.NewDefault())
	require.NoError(t, err)

	// A change with any affected root file pulls in the unmapped suite.
	result := r.Resolve([]string{"README.md"})
	assert.Equal(t, SuiteSet{
		Suites: []NamedSuite{{Name: "blog-admin/create-blog-post"}},
		Count:  1,
	}, result.Acceptance)

	// But an empty change set still runs nothing.
	result = r.Resolve(nil)
	assert.Equal(t, 0, result.Acceptance.Count)
}

func TestResolveIdempotent(t *testing.T) {
	r := newTestResolver(t)
	changed := []string{"splash-banner.component.html", "terms.component.html"}

	first, err := json.Marshal(r.Resolve(changed))
	require.NoError(t, err)
	second, err := json.Marshal(r.Resolve(changed))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestResultJSONShape(t *testing.T) {
	r := newTestResolver(t)

	data, err := json.Marshal(r.Resolve(nil))
	require.NoError(t, err)

	// Empty suite lists serialize as [], and every type key is present.
	assert.JSONEq(t, `{
		"e2e": {"suites": [
			{"name": "accessibility"},
			{"name": "additionalEditorFeatures"},
			{"name": "additionalEditorFeaturesModals"}
		], "count": 3},
		"acceptance": {"suites": [], "count": 0},
		"lighthouse_performance": {"suites": [], "count": 0},
		"lighthouse_accessibility": {"suites": [], "count": 0}
	}`, string(data))
}

func TestResultLighthouseJSONAlwaysCarriesPages(t *testing.T) {
	r := newTestResolver(t)

	data, err := json.Marshal(r.Resolve([]string{"splash-banner.component.html"}))
	require.NoError(t, err)

	var decoded map[string]map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &decoded))

	var lhSuites []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(decoded["lighthouse_performance"]["suites"], &lhSuites))
	require.Len(t, lhSuites, 1)
	_, ok := lhSuites[0]["pages_to_run"]
	assert.True(t, ok, "lighthouse suites always expose pages_to_run")
}

func TestLoadFailsOnMissingData(t *testing.T) {
	cfg := testFixture(t)
	require.NoError(t, os.Remove(cfg.Paths.LighthousePages))

	_, err := Load(cfg, logger.NewDefault())
	assert.Error(t, err)
}

func TestLoadFailsOnMissingMappingDirectory(t *testing.T) {
	cfg := testFixture(t)
	require.NoError(t, os.RemoveAll(filepath.Join(cfg.Paths.ModulesMapping, "acceptance")))

	_, err := Load(cfg, logger.NewDefault())
	assert.Error(t, err)
}

func TestSuiteCount(t *testing.T) {
	r := newTestResolver(t)
	result := r.AllSuites()

	assert.Equal(t, 3, result.SuiteCount("e2e"))
	assert.Equal(t, 3, result.SuiteCount("acceptance"))
	assert.Equal(t, 2, result.SuiteCount("lighthouse-performance"))
	assert.Equal(t, 2, result.SuiteCount("lighthouse-accessibility"))
	assert.Equal(t, 0, result.SuiteCount("unknown"))
}
