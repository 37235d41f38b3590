package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/gookit/color"
	"github.com/mattn/go-runewidth"

	"github.com/edtechops/ciselect/internal/resolver"
)

// PrintSummary renders a colored per-type overview of the suites to run.
func PrintSummary(w io.Writer, result *resolver.Result) {
	printHeader(w, "Test Suites To Run")

	printNamedSection(w, "e2e", result.E2E)
	printNamedSection(w, "acceptance", result.Acceptance)
	printLighthouseSection(w, "lighthouse_performance", result.LighthousePerformance)
	printLighthouseSection(w, "lighthouse_accessibility", result.LighthouseAccessibility)
}

func printHeader(w io.Writer, title string) {
	width := len(title) + 4
	fmt.Fprintln(w, strings.Repeat("=", width))
	fmt.Fprintf(w, "  %s\n", color.Bold.Sprint(title))
	fmt.Fprintln(w, strings.Repeat("=", width))
}

func printNamedSection(w io.Writer, name string, set resolver.SuiteSet) {
	fmt.Fprintln(w)
	printSectionTitle(w, name, set.Count)
	for _, suite := range set.Suites {
		fmt.Fprintf(w, "  • %s\n", suite.Name)
	}
}

func printLighthouseSection(w io.Writer, name string, set resolver.LighthouseSuiteSet) {
	fmt.Fprintln(w)
	printSectionTitle(w, name, set.Count)

	// Align the page lists after the widest suite name.
	nameWidth := 0
	for _, suite := range set.Suites {
		if sw := runewidth.StringWidth(suite.Name); sw > nameWidth {
			nameWidth = sw
		}
	}

	for _, suite := range set.Suites {
		padded := runewidth.FillRight(suite.Name, nameWidth)
		if len(suite.PagesToRun) == 0 {
			fmt.Fprintf(w, "  • %s  %s\n", padded, color.Gray.Sprint("(default pages)"))
			continue
		}
		fmt.Fprintf(w, "  • %s  pages: %s\n", padded, strings.Join(suite.PagesToRun, ", "))
	}
}

func printSectionTitle(w io.Writer, name string, count int) {
	countLabel := color.Green.Sprintf("%d suite(s)", count)
	if count == 0 {
		countLabel = color.Gray.Sprint("none")
	}
	fmt.Fprintf(w, "[%s] %s\n", color.Cyan.Sprint(name), countLabel)
	fmt.Fprintln(w, strings.Repeat("-", len(name)+2))
}
