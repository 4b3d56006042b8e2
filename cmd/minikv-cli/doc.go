// Package main provides the entry point for minikv-cli.
//
// The CLI tool provides command-line access to a MiniKV server:
//
//   - set, get, del for key-value operations
//   - stats and keys for store inspection
//   - ping for liveness checks
//   - repl for an interactive shell
//
// Usage:
//
//	minikv-cli [command] [flags]
//	minikv-cli --server localhost:6379 set greeting hello world
//	minikv-cli stats --output table
package main
