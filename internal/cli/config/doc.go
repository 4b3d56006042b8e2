// Package config provides CLI configuration for minikv-cli.
//
// This package defines CLI-specific configuration:
//
//   - spec.go: CLIConfig struct (~/.minikv/cli.yaml)
//   - loader.go: Configuration loading and saving
//
// Values from the file act as defaults; command-line flags and the
// MINIKV_SERVER environment variable take precedence.
package config
