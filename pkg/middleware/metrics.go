// Package middleware provides HTTP middleware for the request pipeline:
// Prometheus metrics and OpenTelemetry tracing.
package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsConfig configures the Prometheus metrics middleware.
type MetricsConfig struct {
	// Namespace is the metrics namespace (default: "remix").
	Namespace string

	// ConstLabels are constant labels added to all metrics.
	ConstLabels prometheus.Labels

	// Buckets are the histogram buckets for request duration.
	// Default: prometheus.DefBuckets.
	Buckets []float64

	// Registry is the Prometheus registry to use.
	// Default: prometheus.DefaultRegisterer.
	Registry prometheus.Registerer
}

// MetricsOption configures the Prometheus metrics middleware.
type MetricsOption func(*MetricsConfig)

// WithNamespace sets the metrics namespace.
func WithNamespace(namespace string) MetricsOption {
	return func(c *MetricsConfig) { c.Namespace = namespace }
}

// WithConstLabels sets constant labels for all metrics.
func WithConstLabels(labels prometheus.Labels) MetricsOption {
	return func(c *MetricsConfig) { c.ConstLabels = labels }
}

// WithBuckets sets the histogram buckets.
func WithBuckets(buckets []float64) MetricsOption {
	return func(c *MetricsConfig) { c.Buckets = buckets }
}

// WithRegistry sets the Prometheus registry.
func WithRegistry(registry prometheus.Registerer) MetricsOption {
	return func(c *MetricsConfig) { c.Registry = registry }
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Namespace: "remix",
		Buckets:   prometheus.DefBuckets,
		Registry:  prometheus.DefaultRegisterer,
	}
}

// metrics holds the Prometheus collectors for the request pipeline.
type metrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	loaderFailures   *prometheus.CounterVec
	noMatchTotal     prometheus.Counter
	snapshotRebuilds prometheus.Counter
}

// Collectors register once per process, on first use.
var (
	globalMetrics   *metrics
	globalMetricsMu sync.Mutex
)

func newMetrics(cfg MetricsConfig) *metrics {
	factory := promauto.With(cfg.Registry)
	return &metrics{
		requestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "requests_total",
			Help:        "HTTP requests handled, by request class and status.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"class", "status"}),
		requestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   cfg.Namespace,
			Name:        "request_duration_seconds",
			Help:        "HTTP request duration, by request class.",
			ConstLabels: cfg.ConstLabels,
			Buckets:     cfg.Buckets,
		}, []string{"class"}),
		loaderFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "loader_failures_total",
			Help:        "Loader faults, by route id.",
			ConstLabels: cfg.ConstLabels,
		}, []string{"route"}),
		noMatchTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "no_match_total",
			Help:        "Requests that matched no route.",
			ConstLabels: cfg.ConstLabels,
		}),
		snapshotRebuilds: factory.NewCounter(prometheus.CounterOpts{
			Namespace:   cfg.Namespace,
			Name:        "snapshot_rebuilds_total",
			Help:        "Route tree and asset snapshot rebuilds.",
			ConstLabels: cfg.ConstLabels,
		}),
	}
}

func getMetrics(opts ...MetricsOption) *metrics {
	globalMetricsMu.Lock()
	defer globalMetricsMu.Unlock()
	if globalMetrics == nil {
		cfg := defaultMetricsConfig()
		for _, opt := range opts {
			opt(&cfg)
		}
		globalMetrics = newMetrics(cfg)
	}
	return globalMetrics
}

// Metrics returns middleware recording request count and duration.
// The request class label is "manifest", "data", or "page".
func Metrics(opts ...MetricsOption) func(http.Handler) http.Handler {
	m := getMetrics(opts...)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			class := classify(r.URL.Path)
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(rec, r)

			m.requestsTotal.WithLabelValues(class, strconv.Itoa(rec.status)).Inc()
			m.requestDuration.WithLabelValues(class).Observe(time.Since(start).Seconds())
		})
	}
}

// CountLoaderFailure records a loader fault for a route. An empty id is
// the global loader.
func CountLoaderFailure(routeID string) {
	if routeID == "" {
		routeID = "global"
	}
	getMetrics().loaderFailures.WithLabelValues(routeID).Inc()
}

// CountNoMatch records a request that matched no route.
func CountNoMatch() {
	getMetrics().noMatchTotal.Inc()
}

// CountSnapshotRebuild records a snapshot rebuild.
func CountSnapshotRebuild() {
	getMetrics().snapshotRebuilds.Inc()
}

// classify maps a path to its request class label.
func classify(path string) string {
	switch path {
	case "/__remix_manifest":
		return "manifest"
	case "/__remix_data":
		return "data"
	default:
		return "page"
	}
}

// statusRecorder captures the status code written downstream.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}
