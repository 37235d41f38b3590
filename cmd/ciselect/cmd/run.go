package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/edtechops/ciselect/internal/config"
	"github.com/edtechops/ciselect/internal/gitdiff"
	"github.com/edtechops/ciselect/internal/logger"
	"github.com/edtechops/ciselect/internal/output"
	"github.com/edtechops/ciselect/internal/resolver"
)

// outputWriter is used for printing output, can be overridden in tests
var outputWriter io.Writer = os.Stdout

// setOutputWriter sets the output writer (used for testing)
func setOutputWriter(w io.Writer) {
	outputWriter = w
}

// resetOutputWriter resets output to stdout (used for testing)
func resetOutputWriter() {
	outputWriter = os.Stdout
}

var (
	runBaseRef      string
	runHeadRef      string
	runChangedFiles []string
	runAll          bool
	runGithubOutput string
	runSummary      bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Resolve which test suites must run for a change",
	Long: `Run collects the changed files between two git refs (or takes them
directly via --changed-file), resolves them against the root-files mapping
and per-suite module fixtures, and prints the resulting suite envelope as
JSON on stdout.

If GITHUB_OUTPUT is set (or --github-output is given), the envelope is also
appended to that file as CI_TEST_SUITES_TO_RUN=<json>.

Examples:
  ciselect run --base-ref origin/develop --head-ref HEAD
  ciselect run --changed-file core/templates/pages/about-page/about-page.component.html
  ciselect run --all`,
	RunE: runRun,
}

func init() {
	runCmd.Flags().StringVar(&runBaseRef, "base-ref", "",
		"Base git ref of the change")
	runCmd.Flags().StringVar(&runHeadRef, "head-ref", "",
		"Head git ref of the change")
	runCmd.Flags().StringArrayVar(&runChangedFiles, "changed-file", nil,
		"Changed file path (repeatable; bypasses git)")
	runCmd.Flags().BoolVar(&runAll, "all", false,
		"Skip impact resolution and select every registered suite")
	runCmd.Flags().StringVar(&runGithubOutput, "github-output", "",
		"GitHub Actions output file (defaults to $GITHUB_OUTPUT)")
	runCmd.Flags().BoolVar(&runSummary, "summary", false,
		"Print a human-readable summary to stderr")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrides := GetCLIOverrides()
	cfg.ApplyOverrides(overrides.LogLevel, overrides.LogFormat)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log, err := logger.New(&cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer log.Sync() //nolint:errcheck

	res, err := resolveSuites(cmd, cfg, log)
	if err != nil {
		return err
	}

	data, err := output.MarshalResult(res)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}
	fmt.Fprintln(outputWriter, string(data))

	if path := githubOutputPath(); path != "" {
		if err := output.WriteGitHubOutput(path, res); err != nil {
			return err
		}
		log.Infow("wrote github output", "path", path, "variable", output.OutputVariable)
	}

	if runSummary {
		output.PrintSummary(os.Stderr, res)
	}

	return nil
}

func resolveSuites(cmd *cobra.Command, cfg *config.Config, log *logger.Logger) (*resolver.Result, error) {
	r, err := resolver.Load(cfg, log)
	if err != nil {
		return nil, err
	}

	if runAll {
		log.Infow("--all given, selecting every registered suite")
		return r.AllSuites(), nil
	}

	changedFiles := runChangedFiles
	if len(changedFiles) == 0 {
		if runBaseRef == "" || runHeadRef == "" {
			return nil, fmt.Errorf("either --changed-file or both --base-ref and --head-ref are required")
		}
		changedFiles, err = gitdiff.ChangedFiles(cmd.Context(), runBaseRef, runHeadRef)
		if err != nil {
			return nil, err
		}
	}
	log.Infow("collected changed files", "count", len(changedFiles))

	// Changes the mapping generator cannot see (backend code, CI config)
	// force the full set before resolution even starts.
	matched, err := gitdiff.MatchesAny(changedFiles, cfg.RunAll.FilePatterns)
	if err != nil {
		return nil, err
	}
	if matched {
		log.Infow("changed files match a run-all pattern, running everything")
		return r.AllSuites(), nil
	}

	return r.Resolve(changedFiles), nil
}

// githubOutputPath returns the explicit flag value, falling back to the
// GITHUB_OUTPUT environment variable GitHub Actions provides.
func githubOutputPath() string {
	if runGithubOutput != "" {
		return runGithubOutput
	}
	return os.Getenv("GITHUB_OUTPUT")
}
