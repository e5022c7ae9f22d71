// Package metrics exposes Prometheus metrics for recipe generation and HTTP
// traffic on a private registry.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"moodchef/internal/recipe"
)

// Compile-time interface check.
var _ recipe.Observer = (*Metrics)(nil)

// Metrics holds the collectors.
type Metrics struct {
	registry *prometheus.Registry

	generationsTotal   *prometheus.CounterVec
	generationDuration *prometheus.HistogramVec
	httpRequestsTotal  *prometheus.CounterVec
}

// New creates and registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		generationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodchef_generations_total",
				Help: "Recipe generations by outcome.",
			},
			[]string{"outcome"},
		),
		generationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "moodchef_generation_duration_seconds",
				Help:    "Time spent generating a recipe, backend call included.",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 20, 45},
			},
			[]string{"outcome"},
		),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "moodchef_http_requests_total",
				Help: "HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
	}
	m.registry.MustRegister(m.generationsTotal, m.generationDuration, m.httpRequestsTotal)
	return m
}

// OnGenerate records one generation.
func (m *Metrics) OnGenerate(event recipe.GenerateEvent) {
	m.generationsTotal.WithLabelValues(event.Outcome).Inc()
	m.generationDuration.WithLabelValues(event.Outcome).Observe(event.Latency.Seconds())
}

// ObserveRequest counts one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int) {
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
