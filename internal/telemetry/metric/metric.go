package metric

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics. A nil *Metrics is a valid
// no-op receiver so callers can run without a metrics endpoint.
type Metrics struct {
	registry *prometheus.Registry

	commandsTotal     *prometheus.CounterVec
	keysLive          prometheus.Gauge
	memoryBytes       prometheus.Gauge
	connectionsActive prometheus.Gauge
	connectionsTotal  prometheus.Counter
}

// New creates a metrics registry with all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "minikv",
			Name:      "commands_total",
			Help:      "Commands processed, by command name and outcome.",
		}, []string{"command", "outcome"}),
		keysLive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "minikv",
			Name:      "keys",
			Help:      "Live entries in the store.",
		}),
		memoryBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "minikv",
			Name:      "memory_bytes",
			Help:      "Accounted memory footprint of the store.",
		}),
		connectionsActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "minikv",
			Name:      "connections_active",
			Help:      "Currently open client connections.",
		}),
		connectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "minikv",
			Name:      "connections_total",
			Help:      "Client connections accepted since start.",
		}),
	}

	reg.MustRegister(m.commandsTotal, m.keysLive, m.memoryBytes,
		m.connectionsActive, m.connectionsTotal)
	return m
}

// Handler returns the HTTP handler serving the metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveCommand records one processed command and its outcome
// ("ok" or "error").
func (m *Metrics) ObserveCommand(command string, ok bool) {
	if m == nil {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	m.commandsTotal.WithLabelValues(command, outcome).Inc()
}

// SetStoreStats updates the store gauges.
func (m *Metrics) SetStoreStats(keys int, memoryBytes uint64) {
	if m == nil {
		return
	}
	m.keysLive.Set(float64(keys))
	m.memoryBytes.Set(float64(memoryBytes))
}

// ConnOpened records an accepted connection.
func (m *Metrics) ConnOpened() {
	if m == nil {
		return
	}
	m.connectionsTotal.Inc()
	m.connectionsActive.Inc()
}

// ConnClosed records a closed connection.
func (m *Metrics) ConnClosed() {
	if m == nil {
		return
	}
	m.connectionsActive.Dec()
}
