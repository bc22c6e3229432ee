// Package metrics exposes prometheus instrumentation for the analysis
// pipeline and the HTTP surface.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the collectors on a private registry so tests can
// construct isolated instances.
type Metrics struct {
	registry *prometheus.Registry

	BatchesTotal    prometheus.Counter
	BondsTotal      *prometheus.CounterVec
	BondErrorsTotal prometheus.Counter
	RequestDuration *prometheus.HistogramVec
}

// New constructs and registers all collectors.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		BatchesTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "bondrv_batches_total",
			Help: "Number of bond batches analyzed.",
		}),
		BondsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "bondrv_bonds_total",
			Help: "Number of bonds analyzed, by assessment outcome.",
		}, []string{"assessment"}),
		BondErrorsTotal: factory.NewCounter(prometheus.CounterOpts{
			Name: "bondrv_bond_errors_total",
			Help: "Number of bonds whose analysis aborted with an error.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "bondrv_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// RecordBatch counts one analyzed batch.
func (m *Metrics) RecordBatch() {
	if m == nil {
		return
	}
	m.BatchesTotal.Inc()
}

// RecordOutcome counts one bond by its assessment.
func (m *Metrics) RecordOutcome(assessment string) {
	if m == nil {
		return
	}
	m.BondsTotal.WithLabelValues(assessment).Inc()
}

// RecordError counts one failed bond.
func (m *Metrics) RecordError() {
	if m == nil {
		return
	}
	m.BondErrorsTotal.Inc()
}

// ObserveRequest records one HTTP request duration.
func (m *Metrics) ObserveRequest(route string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
