package config

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validatePaths()...)
	errors = append(errors, c.validateRunAll()...)
	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validatePaths() ValidationErrors {
	var errors ValidationErrors

	required := []struct {
		field string
		value string
	}{
		{"paths.root_files_mapping", c.Paths.RootFilesMapping},
		{"paths.root_files_config", c.Paths.RootFilesConfig},
		{"paths.lighthouse_pages", c.Paths.LighthousePages},
		{"paths.suite_configs", c.Paths.SuiteConfigs},
		{"paths.modules_mapping", c.Paths.ModulesMapping},
	}
	for _, r := range required {
		if r.value == "" {
			errors = append(errors, ValidationError{
				Field:   r.field,
				Message: "path is required",
			})
		}
	}

	return errors
}

func (c *Config) validateRunAll() ValidationErrors {
	var errors ValidationErrors

	for i, pattern := range c.RunAll.FilePatterns {
		if pattern == "" {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("run_all.file_patterns[%d]", i),
				Message: "pattern cannot be empty",
			})
			continue
		}
		if !doublestar.ValidatePattern(pattern) {
			errors = append(errors, ValidationError{
				Field:   fmt.Sprintf("run_all.file_patterns[%d]", i),
				Message: fmt.Sprintf("invalid glob pattern %q", pattern),
			})
		}
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
