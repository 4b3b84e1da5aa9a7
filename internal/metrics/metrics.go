// Package metrics exposes Prometheus collectors for the recommendation
// pipeline, the catalog client, and the HTTP API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cinematch"

var durationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30}

// Metrics holds every collector, registered on its own registry.
type Metrics struct {
	registry *prometheus.Registry

	QueriesTotal       *prometheus.CounterVec
	QueryDuration      *prometheus.HistogramVec
	DegradationsTotal  *prometheus.CounterVec
	ResultsReturned    *prometheus.HistogramVec
	HistoryAppends     *prometheus.CounterVec
	ProviderCallsTotal *prometheus.CounterVec
	ProviderDuration   *prometheus.HistogramVec
	HTTPRequestsTotal  *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

// New creates and registers all collectors, including Go runtime and
// process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		QueriesTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Recommendation queries by outcome",
		}, []string{"outcome"}),

		QueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_duration_seconds",
			Help:      "End-to-end recommendation query duration",
			Buckets:   durationBuckets,
		}, []string{"outcome"}),

		DegradationsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "degradations_total",
			Help:      "Secondary steps that failed and were replaced by empty results",
		}, []string{"source"}),

		ResultsReturned: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "results_returned",
			Help:      "Entries contributed per query by each result group",
			Buckets:   []float64{0, 1, 2, 4, 8, 16},
		}, []string{"group"}),

		HistoryAppends: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "history_appends_total",
			Help:      "Search history writes by result",
		}, []string{"result"}),

		ProviderCallsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_calls_total",
			Help:      "Catalog provider calls by operation and outcome",
		}, []string{"op", "outcome"}),

		ProviderDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "provider_call_duration_seconds",
			Help:      "Catalog provider call duration",
			Buckets:   durationBuckets,
		}, []string{"op"}),

		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by method and route",
			Buckets:   durationBuckets,
		}, []string{"method", "route"}),
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveQuery records one finished recommendation query.
func (m *Metrics) ObserveQuery(outcome string, elapsed time.Duration) {
	m.QueriesTotal.WithLabelValues(outcome).Inc()
	m.QueryDuration.WithLabelValues(outcome).Observe(elapsed.Seconds())
}

// ObserveDegradation records a secondary step replaced by an empty result.
func (m *Metrics) ObserveDegradation(source string) {
	m.DegradationsTotal.WithLabelValues(source).Inc()
}

// ObserveResults records how many entries a result group contributed.
func (m *Metrics) ObserveResults(group string, n int) {
	m.ResultsReturned.WithLabelValues(group).Observe(float64(n))
}

// ObserveHistoryAppend records a history write.
func (m *Metrics) ObserveHistoryAppend(err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.HistoryAppends.WithLabelValues(result).Inc()
}

// ObserveProviderCall records one catalog HTTP exchange.
func (m *Metrics) ObserveProviderCall(op, outcome string, elapsed time.Duration) {
	m.ProviderCallsTotal.WithLabelValues(op, outcome).Inc()
	m.ProviderDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

// Middleware records request counts and latency labelled by chi route
// pattern, so path parameters do not explode label cardinality.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
