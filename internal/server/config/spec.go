package config

import "time"

// ServerConfig is the root configuration for minikv-server.
type ServerConfig struct {
	Server ServerSection `koanf:"server"`
	Store  StoreSection  `koanf:"store"`
	Log    LogSection    `koanf:"log"`
}

// ServerSection configures the TCP listener and its timeouts.
type ServerSection struct {
	// Addr is the listen address for the text protocol.
	Addr string `koanf:"addr"`

	// ReadTimeout bounds reading a single command line.
	ReadTimeout time.Duration `koanf:"read_timeout"`

	// WriteTimeout bounds writing a reply.
	WriteTimeout time.Duration `koanf:"write_timeout"`

	// IdleTimeout bounds how long a connection may sit between commands.
	IdleTimeout time.Duration `koanf:"idle_timeout"`

	// RateLimit is the maximum commands per second per connection.
	// Zero disables rate limiting.
	RateLimit int `koanf:"rate_limit"`

	// Metrics configures the optional Prometheus endpoint.
	Metrics MetricsConfig `koanf:"metrics"`
}

// MetricsConfig configures the metrics HTTP listener.
type MetricsConfig struct {
	// Addr is the listen address for /metrics. Empty disables metrics.
	Addr string `koanf:"addr"`
}

// StoreSection configures the storage engine.
type StoreSection struct {
	// InitialBuckets is the starting bucket count of the hash table.
	// Must be a power of two; zero selects the built-in default.
	InitialBuckets int `koanf:"initial_buckets"`
}

// LogSection configures logging.
type LogSection struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}
