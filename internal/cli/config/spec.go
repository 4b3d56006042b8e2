package config

import "time"

// CLIConfig is the configuration for minikv-cli.
type CLIConfig struct {
	// DefaultServer is used when no --server flag or MINIKV_SERVER
	// environment variable is given.
	DefaultServer string `koanf:"default_server" yaml:"default_server"`

	// DefaultOutput is the output format for STATS and KEYS: raw, json, table.
	DefaultOutput string `koanf:"default_output" yaml:"default_output"`

	// Timeout is the dial and per-command timeout.
	Timeout time.Duration `koanf:"timeout" yaml:"timeout"`
}

// Default returns the default CLI configuration.
func Default() *CLIConfig {
	return &CLIConfig{
		DefaultServer: "127.0.0.1:6379",
		DefaultOutput: "raw",
		Timeout:       5 * time.Second,
	}
}
