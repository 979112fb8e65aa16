// Package metrics records Prometheus metrics for complaint operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels.
const (
	OutcomeOK          = "ok"
	OutcomeBadRequest  = "bad_request"
	OutcomeNotFound    = "not_found"
	OutcomeServerError = "error"
)

// Cache lookup labels.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// Metrics holds the collectors for the complaints service.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	reg prometheus.Gatherer

	// Handler outcomes by operation (list, get, create, delete) and outcome
	Operations *prometheus.CounterVec

	// Handler latency by operation, including the store round trip
	Duration *prometheus.HistogramVec

	// Read-through cache results
	CacheLookups *prometheus.CounterVec
}

// New registers the collectors on a fresh registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

// NewWithRegistry registers the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		Operations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "complaints_operations_total",
			Help: "Total complaint operations by operation and outcome",
		}, []string{"operation", "outcome"}),

		Duration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "complaints_operation_duration_seconds",
			Help:    "Duration of complaint operations including store calls",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"operation"}),

		CacheLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "complaints_cache_lookups_total",
			Help: "Complaint cache lookups by result",
		}, []string{"result"}),
	}
}

// ObserveOperation records one handled operation.
func (m *Metrics) ObserveOperation(operation, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.Operations.WithLabelValues(operation, outcome).Inc()
	m.Duration.WithLabelValues(operation).Observe(d.Seconds())
}

// IncCacheLookup records one cache lookup result.
func (m *Metrics) IncCacheLookup(result string) {
	if m != nil {
		m.CacheLookups.WithLabelValues(result).Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}
