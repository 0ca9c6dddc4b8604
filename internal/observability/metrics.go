package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics counts engine commands by name and outcome. One instance is shared
// by all services and exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry
	commands *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rmaflow",
		Name:      "engine_commands_total",
		Help:      "Engine commands by name and outcome.",
	}, []string{"command", "outcome"})
	registry.MustRegister(commands)
	return &Metrics{registry: registry, commands: commands}
}

// ObserveCommand records one command invocation. Outcome is "ok" or "error".
func (m *Metrics) ObserveCommand(command string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.commands.WithLabelValues(command, outcome).Inc()
}

// Handler serves the metrics endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
