// Package logger provides structured logging for minikv.
//
// It wraps log/slog into a small application logger with JSON output by
// default, a process-wide level that can be adjusted at runtime (used by
// the configuration hot-reload path), and a default global instance for
// code without an injected logger.
package logger
