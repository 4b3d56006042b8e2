// Package httpserver provides the operational HTTP server for MiniKV.
//
// This package implements the ops endpoints using stdlib net/http:
//
//   - /healthz: liveness probe
//   - /version: build information
//   - /statsz: store statistics
//   - /metrics: Prometheus exposition (when metrics are enabled)
//
// Features:
//
//   - Middleware chain: RequestID, Recover, Audit
//   - Graceful shutdown with configurable timeout
package httpserver
