package config

import (
	"fmt"
	"slices"
)

// ValidationIssue describes a problem with a config value.
type ValidationIssue struct {
	Path    string
	Message string
}

func (v ValidationIssue) String() string {
	return fmt.Sprintf("%s: %s", v.Path, v.Message)
}

// Validate checks a Config for issues. Returns nil if valid.
func Validate(cfg *Config) []ValidationIssue {
	var issues []ValidationIssue

	if cfg.APIKey == "" {
		issues = append(issues, ValidationIssue{
			Path:    "apiKey",
			Message: "API key is required (set apiKey or ANTHROPIC_API_KEY)",
		})
	}

	if cfg.MaxTokens < 1 {
		issues = append(issues, ValidationIssue{
			Path:    "maxTokens",
			Message: fmt.Sprintf("must be positive, got %d", cfg.MaxTokens),
		})
	}

	if cfg.Temperature != nil && (*cfg.Temperature < 0 || *cfg.Temperature > 1) {
		issues = append(issues, ValidationIssue{
			Path:    "temperature",
			Message: fmt.Sprintf("must be between 0 and 1, got %g", *cfg.Temperature),
		})
	}

	if cfg.Agent.MaxToolRounds < 0 {
		issues = append(issues, ValidationIssue{
			Path:    "agent.maxToolRounds",
			Message: fmt.Sprintf("must be non-negative, got %d", cfg.Agent.MaxToolRounds),
		})
	}

	validLogLevels := []string{"silent", "error", "warn", "info", "debug", "trace"}
	if cfg.Logging.Level != "" && !slices.Contains(validLogLevels, cfg.Logging.Level) {
		issues = append(issues, ValidationIssue{
			Path:    "logging.level",
			Message: fmt.Sprintf("must be one of %v, got %q", validLogLevels, cfg.Logging.Level),
		})
	}

	return issues
}
