// Package main provides the entry point for minikv-server.
//
// The server is the MiniKV service process that provides:
//
//   - Line-oriented TCP text protocol for key-value access
//   - Optional Prometheus metrics endpoint
//   - Live log-level reload when the config file changes
//
// Usage:
//
//	minikv-server [flags]
//	minikv-server --config /path/to/config.yaml
//
// The server loads configuration, initializes the store and listeners,
// and runs until it receives SIGINT or SIGTERM.
package main
