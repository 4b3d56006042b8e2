// Package config defines the minikv-server configuration structure.
//
// Configuration is loaded through internal/infra/confloader with the
// priority env > file > defaults, and validated with Verify before the
// server starts.
package config
