// Package repl provides interactive mode for minikv-cli.
//
// This package implements the Read-Eval-Print Loop for interactive
// sessions:
//
//   - repl.go: Main REPL loop and command dispatch
//   - completer.go: Completion for command names
//   - history.go: Command history persistence
package repl
