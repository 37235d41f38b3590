package config

import (
	"strings"
	"testing"
)

func TestValidateDefaults(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected default config to be valid, got %v", err)
	}
}

func TestValidateMissingPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Paths.RootFilesMapping = ""
	cfg.Paths.SuiteConfigs = ""

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation to fail for missing paths")
	}

	msg := err.Error()
	if !strings.Contains(msg, "paths.root_files_mapping") {
		t.Errorf("expected error to mention paths.root_files_mapping, got %s", msg)
	}
	if !strings.Contains(msg, "paths.suite_configs") {
		t.Errorf("expected error to mention paths.suite_configs, got %s", msg)
	}
}

func TestValidateRunAllPatterns(t *testing.T) {
	tests := []struct {
		name     string
		patterns []string
		valid    bool
	}{
		{
			name:     "valid patterns",
			patterns: []string{"**/*.py", "scripts/**", "*.md"},
			valid:    true,
		},
		{
			name:     "empty pattern",
			patterns: []string{""},
			valid:    false,
		},
		{
			name:     "unbalanced brace",
			patterns: []string{"{a,b"},
			valid:    false,
		},
		{
			name:     "no patterns at all",
			patterns: nil,
			valid:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.RunAll.FilePatterns = tt.patterns

			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected patterns %v to be valid, got %v", tt.patterns, err)
			}
			if !tt.valid && err == nil {
				t.Errorf("expected patterns %v to fail validation", tt.patterns)
			}
		})
	}
}

func TestValidateLogging(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Logging.Level = "verbose"
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation to fail for invalid logging settings")
	}

	msg := err.Error()
	if !strings.Contains(msg, "logging.level") {
		t.Errorf("expected error to mention logging.level, got %s", msg)
	}
	if !strings.Contains(msg, "logging.format") {
		t.Errorf("expected error to mention logging.format, got %s", msg)
	}
}

func TestValidationErrorsMessage(t *testing.T) {
	errs := ValidationErrors{
		{Field: "a", Message: "first"},
		{Field: "b", Message: "second"},
	}

	msg := errs.Error()
	if !strings.Contains(msg, "a: first") {
		t.Errorf("expected message to contain 'a: first', got %s", msg)
	}
	if !strings.Contains(msg, "b: second") {
		t.Errorf("expected message to contain 'b: second', got %s", msg)
	}

	var empty ValidationErrors
	if empty.Error() != "" {
		t.Errorf("expected empty errors to render as empty string, got %q", empty.Error())
	}
}
