// Package metric provides Prometheus metrics for minikv.
//
// It exposes command throughput, store size and connection counts in
// Prometheus format. The metrics endpoint is optional; when no metrics
// address is configured the server runs without a registry at all.
package metric
