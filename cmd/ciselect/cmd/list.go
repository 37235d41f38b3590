package cmd

import (
	"fmt"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/edtechops/ciselect/internal/config"
	"github.com/edtechops/ciselect/internal/suites"
)

var listType string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registered test suites",
	Long: `List displays the registered suites of every test type along with
their module paths, as loaded from the suite configs directory.

Example:
  ciselect list --config ciselect.yaml
  ciselect list --type acceptance`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listType, "type", "t", "",
		"Only list suites of this test type")

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(GetConfigFile())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	registry, err := suites.LoadRegistry(cfg.Paths.SuiteConfigs)
	if err != nil {
		return err
	}

	testTypes := suites.AllTestTypes
	if listType != "" {
		testType, err := parseTestType(listType)
		if err != nil {
			return err
		}
		testTypes = []suites.TestType{testType}
	}

	for _, testType := range testTypes {
		printSuiteTable(testType, registry.Suites(testType))
	}
	return nil
}

func parseTestType(s string) (suites.TestType, error) {
	for _, testType := range suites.AllTestTypes {
		if s == string(testType) || s == testType.OutputKey() {
			return testType, nil
		}
	}
	return "", fmt.Errorf("unknown test type %q (valid: e2e, acceptance, lighthouse-performance, lighthouse-accessibility)", s)
}

func printSuiteTable(testType suites.TestType, suiteList []suites.TestSuite) {
	fmt.Fprintf(outputWriter, "[%s] %s\n",
		color.Cyan.Sprint(string(testType)),
		color.Green.Sprintf("%d suite(s)", len(suiteList)))
	fmt.Fprintln(outputWriter, strings.Repeat("-", len(testType)+2))

	nameWidth := 0
	for _, suite := range suiteList {
		if sw := runewidth.StringWidth(suite.Name); sw > nameWidth {
			nameWidth = sw
		}
	}
	for _, suite := range suiteList {
		fmt.Fprintf(outputWriter, "  %s  %s\n",
			runewidth.FillRight(suite.Name, nameWidth),
			color.Gray.Sprint(suite.Module))
	}
	fmt.Fprintln(outputWriter)
}
