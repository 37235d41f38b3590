// Package config provides configuration structures and loading for ciselect.
package config

// Config represents the complete application configuration.
type Config struct {
	Paths   PathsConfig   `yaml:"paths" mapstructure:"paths"`
	RunAll  RunAllConfig  `yaml:"run_all" mapstructure:"run_all"`
	Logging LoggingConfig `yaml:"logging" mapstructure:"logging"`
}

// PathsConfig points at the static mapping data the resolver consumes.
// All paths are relative to the working directory unless absolute.
type PathsConfig struct {
	RootFilesMapping string `yaml:"root_files_mapping" mapstructure:"root_files_mapping"` // changed file -> root files (JSON)
	RootFilesConfig  string `yaml:"root_files_config" mapstructure:"root_files_config"`   // valid / run-all root file lists (JSON)
	LighthousePages  string `yaml:"lighthouse_pages" mapstructure:"lighthouse_pages"`     // shard -> pages (JSON)
	SuiteConfigs     string `yaml:"suite_configs" mapstructure:"suite_configs"`           // directory of per-type suite registries
	ModulesMapping   string `yaml:"modules_mapping" mapstructure:"modules_mapping"`       // directory of per-suite fixture files
}

// RunAllConfig controls the short-circuit that skips impact resolution entirely.
type RunAllConfig struct {
	// FilePatterns are doublestar globs. A changed file matching any pattern
	// forces the full suite set (e.g. "**/*.py" for backend changes that the
	// root-files mapping does not track).
	FilePatterns []string `yaml:"file_patterns" mapstructure:"file_patterns"`
}

// LoggingConfig represents logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`   // debug, info, warn, error
	Format string `yaml:"format" mapstructure:"format"` // json or text
	Output string `yaml:"output" mapstructure:"output"` // stdout, stderr, or file path
}

// DefaultConfig returns a Config with sensible default values.
func DefaultConfig() *Config {
	return &Config{
		Paths: PathsConfig{
			RootFilesMapping: "root-files-mapping.json",
			RootFilesConfig:  "root-files-config.json",
			LighthousePages:  "lighthouse-pages.json",
			SuiteConfigs:     "ci-test-suite-configs",
			ModulesMapping:   "test-modules-mapping",
		},
		RunAll: RunAllConfig{
			FilePatterns: []string{"**/*.py"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			// Stdout carries the result envelope, keep diagnostics off it.
			Output: "stderr",
		},
	}
}

// ApplyOverrides applies CLI flag overrides to the configuration.
// Only non-empty values are applied.
func (c *Config) ApplyOverrides(logLevel, logFormat string) {
	if logLevel != "" {
		c.Logging.Level = logLevel
	}
	if logFormat != "" {
		c.Logging.Format = logFormat
	}
}
