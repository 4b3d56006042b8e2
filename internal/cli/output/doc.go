// Package output provides output formatting for minikv-cli.
//
// Server replies for STATS and KEYS can be rendered raw (exactly as the
// server sent them), as indented JSON, or as an ASCII table.
package output
