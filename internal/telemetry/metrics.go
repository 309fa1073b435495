// Package telemetry provides Prometheus metrics for the readiness service.
package telemetry

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics manages the service's Prometheus collectors. Each process
// builds one on its own registry so tests never collide on metric names.
type Metrics struct {
	registry *prometheus.Registry

	calculations        prometheus.Counter
	calculationErrors   prometheus.Counter
	calculationDuration prometheus.Histogram
	anomaliesFlagged    prometheus.Counter

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a fresh registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		calculations: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldready",
			Subsystem: "engine",
			Name:      "calculations_total",
			Help:      "Total number of readiness calculations completed",
		}),
		calculationErrors: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldready",
			Subsystem: "engine",
			Name:      "calculation_errors_total",
			Help:      "Total number of readiness calculations that failed",
		}),
		calculationDuration: auto.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fieldready",
			Subsystem: "engine",
			Name:      "calculation_duration_seconds",
			Help:      "Histogram of end-to-end readiness calculation durations",
			Buckets:   prometheus.DefBuckets,
		}),
		anomaliesFlagged: auto.NewCounter(prometheus.CounterOpts{
			Namespace: "fieldready",
			Subsystem: "engine",
			Name:      "anomalies_flagged_total",
			Help:      "Total number of anomaly alerts raised",
		}),
		httpRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fieldready",
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total HTTP requests by route, method and status",
		}, []string{"route", "method", "status"}),
		httpRequestDuration: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "fieldready",
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "Histogram of HTTP request durations by route",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
	}
}

// RecordCalculation counts one engine run and its duration
func (m *Metrics) RecordCalculation(elapsed time.Duration, err error) {
	if err != nil {
		m.calculationErrors.Inc()
		return
	}
	m.calculations.Inc()
	m.calculationDuration.Observe(elapsed.Seconds())
}

// RecordAnomalies counts raised anomaly alerts
func (m *Metrics) RecordAnomalies(count int) {
	m.anomaliesFlagged.Add(float64(count))
}

// RecordRequest counts one HTTP request against its route pattern
func (m *Metrics) RecordRequest(route, method string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(route, method, statusLabel(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// Handler exposes the registry in Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry for test scraping
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
