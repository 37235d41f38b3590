// Package output writes the resolved suite sets to their consumers: the
// GitHub Actions output file and a human-readable terminal summary.
package output

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/edtechops/ciselect/internal/resolver"
)

// OutputVariable is the GitHub Actions output variable carrying the envelope.
const OutputVariable = "CI_TEST_SUITES_TO_RUN"

// WriteGitHubOutput appends the result envelope to the GitHub Actions output
// file as a single "NAME=json" line.
func WriteGitHubOutput(path string, result *resolver.Result) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("failed to marshal result: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to open github output file: %w", err)
	}
	defer f.Close()

	if _, err := fmt.Fprintf(f, "%s=%s\n", OutputVariable, data); err != nil {
		return fmt.Errorf("failed to write github output: %w", err)
	}
	return nil
}

// MarshalResult returns the compact JSON form of the envelope, as printed to
// stdout by the run command.
func MarshalResult(result *resolver.Result) ([]byte, error) {
	return json.Marshal(result)
}
