// Package metrics содержит Prometheus-метрики хаба.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	namespace = "prefkeeper"
)

// Metrics holds all Prometheus metrics of the hub
type Metrics struct {
	registry *prometheus.Registry

	// Sync metrics
	SyncTotal          *prometheus.CounterVec
	MergeOrderingTotal *prometheus.CounterVec
	MergeDuration      *prometheus.HistogramVec
	DocumentsCreated   prometheus.Counter
	Documents          prometheus.Gauge

	// Request metrics
	RequestsTotal    *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight prometheus.Gauge
}

// New creates a new Metrics instance with all collectors registered in its
// own registry, so several hubs may live in one process
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		// Результат синхронизации по типу документа
		SyncTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sync_total",
				Help:      "Total number of sync messages processed",
			},
			[]string{"type", "result"},
		),

		// Отношение пришедшего состояния к состоянию хаба
		MergeOrderingTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "merge_ordering_total",
				Help:      "Causal ordering of incoming state relative to the hub copy",
			},
			[]string{"ordering"},
		),

		// Buckets: 100us .. 1s
		MergeDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "merge_duration_seconds",
				Help:      "Duration of load, merge and save of one document",
				Buckets:   []float64{.0001, .0005, .001, .005, .01, .05, .1, .25, .5, 1},
			},
			[]string{"type"},
		),

		DocumentsCreated: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_created_total",
				Help:      "Total number of documents adopted on first contact",
			},
		),

		Documents: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "documents",
				Help:      "Number of documents stored on the hub",
			},
		),

		RequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		RequestsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "http_requests_in_flight",
				Help:      "Number of HTTP requests being served",
			},
		),
	}
}

// Registry returns the registry holding all collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler returns the /metrics handler
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordSync records the outcome of one sync message
func (m *Metrics) RecordSync(docType, result string, duration time.Duration) {
	m.SyncTotal.WithLabelValues(docType, result).Inc()
	m.MergeDuration.WithLabelValues(docType).Observe(duration.Seconds())
}

// RecordOrdering records how incoming state related to the hub copy
func (m *Metrics) RecordOrdering(ordering string) {
	m.MergeOrderingTotal.WithLabelValues(ordering).Inc()
}

// RecordDocumentCreated records a first-contact adoption
func (m *Metrics) RecordDocumentCreated() {
	m.DocumentsCreated.Inc()
	m.Documents.Inc()
}

// SetDocuments sets the number of stored documents
func (m *Metrics) SetDocuments(n int) {
	m.Documents.Set(float64(n))
}

// RecordRequest records one served HTTP request
func (m *Metrics) RecordRequest(method, route string, status int, duration time.Duration) {
	m.RequestsTotal.WithLabelValues(method, route, statusClass(status)).Inc()
	m.RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordRequestStart records a request start
func (m *Metrics) RecordRequestStart() {
	m.RequestsInFlight.Inc()
}

// RecordRequestEnd records a request end
func (m *Metrics) RecordRequestEnd() {
	m.RequestsInFlight.Dec()
}

func statusClass(status int) string {
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
