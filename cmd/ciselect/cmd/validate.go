package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/gookit/color"
	"github.com/spf13/cobra"

	"github.com/edtechops/ciselect/internal/config"
	"github.com/edtechops/ciselect/internal/mapping"
	"github.com/edtechops/ciselect/internal/suites"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration and mapping data consistency",
	Long: `Validate checks the configuration file and the static mapping data
the resolver depends on.

Checks performed:
  - Configuration syntax and required fields
  - Suite registry files parse and suite names are unique
  - Lighthouse shard IDs correspond 1:1 to lighthouse suite names
  - Mapping directory files that match no registered suite (strays)
  - Registered suites without a fixture file (these always run)
  - Root files referenced by the mapping that nothing accounts for

Example:
  ciselect validate --config ciselect.yaml`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat)

	if err := cfg.Validate(); err != nil {
		return err
	}
	printCheck("configuration valid")

	registry, err := suites.LoadRegistry(cfg.Paths.SuiteConfigs)
	if err != nil {
		return err
	}
	printCheck("suite registries loaded")

	pages, err := suites.LoadPagesConfig(cfg.Paths.LighthousePages)
	if err != nil {
		return err
	}
	printCheck("lighthouse pages config loaded")

	warnings := 0
	warnings += checkShards(registry, pages)

	rootFilesCfg, err := mapping.LoadRootFilesConfig(cfg.Paths.RootFilesConfig)
	if err != nil {
		return err
	}

	known := knownRootFiles(registry, pages, rootFilesCfg)
	for _, testType := range []suites.TestType{
		suites.TypeAcceptance,
		suites.TypeLighthousePerformance,
		suites.TypeLighthouseAccessibility,
	} {
		dir := filepath.Join(cfg.Paths.ModulesMapping, string(testType))
		registered := registry.Suites(testType)

		moduleMapping, err := mapping.BuildSuiteModuleMapping(dir, registered)
		if err != nil {
			return err
		}
		strays, err := mapping.ScanStrayFixtures(dir, registered)
		if err != nil {
			return err
		}

		for _, stray := range strays {
			printWarn("%s: fixture %s matches no registered suite", testType, stray)
			warnings++
		}
		for _, suite := range registered {
			if _, ok := moduleMapping[suite.Name]; !ok {
				printWarn("%s: suite %q has no fixture file (it will always run)", testType, suite.Name)
				warnings++
			}
		}
		for root := range moduleMapping.DeclaredRootFiles() {
			known[root] = true
		}
	}

	rootFiles, err := mapping.LoadRootFilesMapping(cfg.Paths.RootFilesMapping)
	if err != nil {
		return err
	}
	printCheck("root files mapping loaded (%d files tracked)", len(rootFiles))

	unknown := make(map[string]bool)
	for _, roots := range rootFiles {
		for _, root := range roots {
			if !known[root] && !unknown[root] {
				unknown[root] = true
				printWarn("root file %q is referenced by the mapping but matches nothing", root)
				warnings++
			}
		}
	}

	if warnings > 0 {
		fmt.Fprintf(outputWriter, "\n%s\n", color.Yellow.Sprintf("%d warning(s)", warnings))
		return nil
	}
	fmt.Fprintf(outputWriter, "\n%s\n", color.Green.Sprint("all checks passed"))
	return nil
}

// checkShards verifies the 1:1 correspondence between lighthouse shard IDs
// and lighthouse suite names, in both directions and for both types.
func checkShards(registry *suites.Registry, pages *suites.PagesConfig) int {
	warnings := 0
	shardIDs := make(map[string]bool)
	for _, shardID := range pages.ShardIDs() {
		shardIDs[shardID] = true
	}

	for _, testType := range []suites.TestType{
		suites.TypeLighthousePerformance,
		suites.TypeLighthouseAccessibility,
	} {
		suiteNames := make(map[string]bool)
		for _, suite := range registry.Suites(testType) {
			suiteNames[suite.Name] = true
			if !shardIDs[suite.Name] {
				printWarn("%s: suite %q has no lighthouse shard", testType, suite.Name)
				warnings++
			}
		}
		for shardID := range shardIDs {
			if !suiteNames[shardID] {
				printWarn("%s: shard %q has no registered suite", testType, shardID)
				warnings++
			}
		}
	}
	return warnings
}

// knownRootFiles seeds the set of accounted-for root files from the suite
// module paths, the page modules, and the root files config lists.
func knownRootFiles(registry *suites.Registry, pages *suites.PagesConfig, cfg *mapping.RootFilesConfig) map[string]bool {
	known := make(map[string]bool)
	for _, testType := range suites.AllTestTypes {
		for _, suite := range registry.Suites(testType) {
			if suite.Module != "" {
				known[suite.Module] = true
			}
		}
	}
	for _, shardID := range pages.ShardIDs() {
		shardPages, _ := pages.ShardPages(shardID)
		for _, page := range shardPages {
			known[page.PageModule] = true
		}
	}
	for _, root := range cfg.ValidRootFiles {
		known[root] = true
	}
	for _, root := range cfg.RunAllTestsRootFiles {
		known[root] = true
	}
	return known
}

func printCheck(format string, args ...interface{}) {
	fmt.Fprintf(outputWriter, "%s %s\n", color.Green.Sprint("✓"), fmt.Sprintf(format, args...))
}

func printWarn(format string, args ...interface{}) {
	fmt.Fprintf(outputWriter, "%s %s\n", color.Yellow.Sprint("!"), fmt.Sprintf(format, args...))
}
