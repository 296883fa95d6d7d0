// Package prometheus registers and exposes the platform's Prometheus
// metrics.  Every component receives its metric handles through
// constructor injection; nothing in this package is a global.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "doclens"

// Default buckets per concern.
var (
	httpDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	analysisDurationBuckets = []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30}
	bulletCountBuckets      = []float64{0, 1, 2, 5, 10, 15, 20}
)

// AppMetrics holds every metric the platform records, registered against a
// private registry so that tests can construct as many instances as needed.
type AppMetrics struct {
	registry *prometheus.Registry

	// HTTP layer
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// Analysis engine
	AnalysisComponentDuration *prometheus.HistogramVec
	AnalysisBulletCount       prometheus.Histogram
	AnalysisIntentTotal       *prometheus.CounterVec
	AnalysesTotal             *prometheus.CounterVec

	// Infrastructure
	CacheHitsTotal    *prometheus.CounterVec
	CacheMissesTotal  *prometheus.CounterVec
	DBQueryDuration   *prometheus.HistogramVec
	EventsPublished   *prometheus.CounterVec
	EventsConsumed    *prometheus.CounterVec
	WorkerTaskRetries prometheus.Counter
}

// NewAppMetrics builds an AppMetrics with a fresh registry that also
// carries the standard process and Go runtime collectors.
func NewAppMetrics() *AppMetrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{Namespace: namespace}),
		prometheus.NewGoCollector(),
	)

	m := &AppMetrics{registry: registry}

	m.HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total HTTP requests",
	}, []string{"method", "path", "status_code"})

	m.HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request duration",
		Buckets:   httpDurationBuckets,
	}, []string{"method", "path"})

	m.AnalysisComponentDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_component_duration_seconds",
		Help:      "Per-component analysis duration",
		Buckets:   analysisDurationBuckets,
	}, []string{"component", "outcome"})

	m.AnalysisBulletCount = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "analysis_bullet_count",
		Help:      "Bullets returned per extraction",
		Buckets:   bulletCountBuckets,
	})

	m.AnalysisIntentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analysis_intent_total",
		Help:      "Intent classifications by label",
	}, []string{"label"})

	m.AnalysesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "analyses_total",
		Help:      "Completed document analyses",
	}, []string{"language", "status"})

	m.CacheHitsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_hits_total",
		Help:      "Cache hits",
	}, []string{"cache"})

	m.CacheMissesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_misses_total",
		Help:      "Cache misses",
	}, []string{"cache"})

	m.DBQueryDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "db_query_duration_seconds",
		Help:      "Database query duration",
		Buckets:   httpDurationBuckets,
	}, []string{"operation"})

	m.EventsPublished = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_published_total",
		Help:      "Events published to the broker",
	}, []string{"topic", "status"})

	m.EventsConsumed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_consumed_total",
		Help:      "Events consumed from the broker",
	}, []string{"topic", "status"})

	m.WorkerTaskRetries = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "worker_task_retries_total",
		Help:      "Worker task retries",
	})

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AnalysisComponentDuration,
		m.AnalysisBulletCount,
		m.AnalysisIntentTotal,
		m.AnalysesTotal,
		m.CacheHitsTotal,
		m.CacheMissesTotal,
		m.DBQueryDuration,
		m.EventsPublished,
		m.EventsConsumed,
		m.WorkerTaskRetries,
	)
	return m
}

// Handler returns the exposition endpoint for this instance's registry.
func (m *AppMetrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	})
}

// Registry exposes the underlying registry for additional collectors.
func (m *AppMetrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveHTTPRequest records one served HTTP request.
func (m *AppMetrics) ObserveHTTPRequest(method, path, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}
