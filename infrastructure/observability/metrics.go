package observability

import (
	"net/http"
	"strconv"
	"time"

	"kbgraph/application/compiler"
	"kbgraph/application/ports"
	querybus "kbgraph/application/queries/bus"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	_ ports.CompileMetrics = (*Collector)(nil)
	_ querybus.Metrics     = (*Collector)(nil)
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Query metrics
	QueryRequests *prometheus.CounterVec
	QueryResults  *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Compile metrics
	CompileRuns        *prometheus.CounterVec
	CompileDuration    prometheus.Histogram
	CompileDocuments   prometheus.Gauge
	CompileFailures    prometheus.Gauge
	CompileLastSuccess prometheus.Gauge

	// Serving dataset metrics
	ArtifactReloads  *prometheus.CounterVec
	ArtifactArticles prometheus.Gauge
}

// NewCollector creates a collector with its own registry. Runtime collectors
// are included only when withRuntime is set.
func NewCollector(namespace string, withRuntime bool) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),

		QueryRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "queries_total",
				Help:      "Total number of queries dispatched",
			},
			[]string{"query"},
		),
		QueryResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "query_results_total",
				Help:      "Total number of completed queries by outcome",
			},
			[]string{"query", "outcome"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "query_duration_seconds",
				Help:      "Query handling duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"query"},
		),

		CompileRuns: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "compile_runs_total",
				Help:      "Total number of corpus compile runs",
			},
			[]string{"status"},
		),
		CompileDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "compile_duration_seconds",
				Help:      "Corpus compile duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
		),
		CompileDocuments: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "compile_documents",
				Help:      "Documents found by the last compile run",
			},
		),
		CompileFailures: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "compile_document_failures",
				Help:      "Documents skipped by the last compile run",
			},
		),
		CompileLastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "compile_last_success_timestamp_seconds",
				Help:      "Unix time of the last successful compile run",
			},
		),

		ArtifactReloads: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "artifact_reloads_total",
				Help:      "Total number of artifact reloads by status",
			},
			[]string{"status"},
		),
		ArtifactArticles: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "artifact_articles",
				Help:      "Articles in the dataset currently served",
			},
		),
	}

	registry.MustRegister(
		c.HTTPRequests,
		c.HTTPDuration,
		c.QueryRequests,
		c.QueryResults,
		c.QueryDuration,
		c.CompileRuns,
		c.CompileDuration,
		c.CompileDocuments,
		c.CompileFailures,
		c.CompileLastSuccess,
		c.ArtifactReloads,
		c.ArtifactArticles,
	)

	if withRuntime {
		registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	return c
}

// ObserveCompile records the outcome of a compile run
func (c *Collector) ObserveCompile(status string, documents, failures int, duration time.Duration) {
	c.CompileRuns.WithLabelValues(status).Inc()
	c.CompileDuration.Observe(duration.Seconds())
	c.CompileDocuments.Set(float64(documents))
	c.CompileFailures.Set(float64(failures))
	if status == compiler.StatusSucceeded {
		c.CompileLastSuccess.SetToCurrentTime()
	}
}

// ObserveReload records an artifact reload
func (c *Collector) ObserveReload(err error, articles int) {
	if err != nil {
		c.ArtifactReloads.WithLabelValues("failed").Inc()
		return
	}
	c.ArtifactReloads.WithLabelValues("succeeded").Inc()
	c.ArtifactArticles.Set(float64(articles))
}

// ObserveHTTP records one HTTP request
func (c *Collector) ObserveHTTP(method, route string, status int, duration time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// StartTimer starts a query duration timer
func (c *Collector) StartTimer(metric, label string) querybus.Timer {
	return queryTimer{timer: prometheus.NewTimer(c.QueryDuration.WithLabelValues(label))}
}

// Increment increments a query counter
func (c *Collector) Increment(metric, label string) {
	switch metric {
	case querybus.MetricQueryCount:
		c.QueryRequests.WithLabelValues(label).Inc()
	case querybus.MetricQuerySuccess:
		c.QueryResults.WithLabelValues(label, "success").Inc()
	case querybus.MetricQueryErrors:
		c.QueryResults.WithLabelValues(label, "error").Inc()
	}
}

// Handler serves the registry in the Prometheus exposition format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// WriteTextfile writes the registry for the node exporter textfile collector
func (c *Collector) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, c.registry)
}

// GetRegistry returns the Prometheus registry for this collector
func (c *Collector) GetRegistry() *prometheus.Registry {
	return c.registry
}

type queryTimer struct {
	timer *prometheus.Timer
}

func (t queryTimer) Stop() {
	t.timer.ObserveDuration()
}
