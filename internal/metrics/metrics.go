// Package metrics exposes Prometheus counters for engine computations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "dexengine"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics owns a dedicated registry so tests can create independent instances.
type Metrics struct {
	registry     *prometheus.Registry
	computations *prometheus.CounterVec
	durations    *prometheus.HistogramVec
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	computations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "computations_total",
		Help:      "Engine computations by operation and result.",
	}, []string{"op", "result"})
	durations := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "computation_duration_seconds",
		Help:      "Duration of engine computations including chain reads.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"op"})
	registry.MustRegister(computations, durations)
	return &Metrics{
		registry:     registry,
		computations: computations,
		durations:    durations,
	}
}

// Record counts one computation of op. A nil receiver is a no-op.
func (m *Metrics) Record(op string, err error) {
	if m == nil {
		return
	}
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	m.computations.WithLabelValues(op, result).Inc()
}

// Observe records the duration of op since start. A nil receiver is a no-op.
func (m *Metrics) Observe(op string, start time.Time) {
	if m == nil {
		return
	}
	m.durations.WithLabelValues(op).Observe(time.Since(start).Seconds())
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
