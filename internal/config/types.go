// Package config loads and validates the YAML configuration file, applying
// defaults and environment overrides.
package config

// Config is the root configuration.
type Config struct {
	APIKey      string   `yaml:"apiKey"`
	Model       string   `yaml:"model"`
	MaxTokens   int      `yaml:"maxTokens"`
	Temperature *float64 `yaml:"temperature,omitempty"`
	DBPath      string   `yaml:"dbPath"`

	Agent   AgentConfig   `yaml:"agent"`
	Logging LoggingConfig `yaml:"logging"`
}

// AgentConfig controls the conversation loop.
type AgentConfig struct {
	// ExtraPrompt is appended to the built-in system prompt.
	ExtraPrompt string `yaml:"extraPrompt"`

	// MaxToolRounds bounds tool-execution rounds per user turn.
	// Zero means unbounded.
	MaxToolRounds int `yaml:"maxToolRounds"`

	// Unattended allows confirmation-gated tools to run without an
	// interactive prompt. Off by default.
	Unattended bool `yaml:"unattended"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	Level string `yaml:"level"`
	// File is the log file path. Empty means the default under the data
	// directory.
	File string `yaml:"file"`
}
