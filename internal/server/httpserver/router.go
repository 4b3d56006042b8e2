package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/minikv/minikv-go/internal/infra/buildinfo"
	"github.com/minikv/minikv-go/internal/storage"
	"github.com/minikv/minikv-go/internal/telemetry/metric"
)

// RouterConfig holds the dependencies of the ops router.
type RouterConfig struct {
	// Store provides statistics for /statsz.
	Store storage.Store

	// Metrics enables /metrics when non-nil.
	Metrics *metric.Metrics

	// Logger is used by the middleware chain.
	Logger *slog.Logger
}

// NewRouter builds the ops endpoint handler.
func NewRouter(cfg *RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(buildinfo.Get())
	})

	if cfg.Store != nil {
		mux.HandleFunc("/statsz", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(cfg.Store.Stats())
		})
	}

	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics.Handler())
	}

	return Chain(mux,
		RequestID(),
		Recover(logger),
		Audit(logger),
	)
}
