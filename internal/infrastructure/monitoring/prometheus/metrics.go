// Package prometheus registers the platform metrics and serves the
// scrape endpoint.  All metrics live in one registry under the lexatlas
// namespace so the apiserver and worker expose a consistent surface.
package prometheus

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "lexatlas"

var (
	httpDurationBuckets     = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10}
	analysisDurationBuckets = []float64{.01, .05, .1, .5, 1, 5, 10, 30, 60}
	llmDurationBuckets      = []float64{.5, 1, 2, 5, 10, 30, 60, 120}
	riskScoreBuckets        = []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100}
)

// Metrics holds every metric the platform emits.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DocumentsIngestedTotal *prometheus.CounterVec
	IngestDuration         prometheus.Histogram

	AnalysisRunsTotal *prometheus.CounterVec
	AnalysisDuration  prometheus.Histogram
	RiskScores        prometheus.Histogram

	ComparisonsTotal   *prometheus.CounterVec
	ComparisonDuration prometheus.Histogram

	GraphNodes         *prometheus.GaugeVec
	GraphEdges         *prometheus.GaugeVec
	GraphBuildDuration prometheus.Histogram

	LLMRequestsTotal   *prometheus.CounterVec
	LLMRequestDuration prometheus.Histogram

	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	EventsPublishedTotal *prometheus.CounterVec
	EventsConsumedTotal  *prometheus.CounterVec
}

// NewMetrics builds and registers the metric set on a fresh registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)

	m := &Metrics{registry: registry}

	m.HTTPRequestsTotal = newCounterVec("http_requests_total",
		"HTTP requests by method, path and status code.",
		"method", "path", "status")
	m.HTTPRequestDuration = newHistogramVec("http_request_duration_seconds",
		"HTTP request duration.",
		httpDurationBuckets, "method", "path")

	m.DocumentsIngestedTotal = newCounterVec("documents_ingested_total",
		"Ingested documents by type and outcome.",
		"doc_type", "status")
	m.IngestDuration = newHistogram("ingest_duration_seconds",
		"End-to-end document ingestion duration.",
		analysisDurationBuckets)

	m.AnalysisRunsTotal = newCounterVec("analysis_runs_total",
		"Risk analysis runs by outcome.",
		"status")
	m.AnalysisDuration = newHistogram("analysis_duration_seconds",
		"Risk analysis duration.",
		analysisDurationBuckets)
	m.RiskScores = newHistogram("analysis_risk_score",
		"Distribution of composite risk scores.",
		riskScoreBuckets)

	m.ComparisonsTotal = newCounterVec("comparisons_total",
		"Document comparisons by kind.",
		"kind")
	m.ComparisonDuration = newHistogram("comparison_duration_seconds",
		"Document comparison duration.",
		analysisDurationBuckets)

	m.GraphNodes = newGaugeVec("graph_nodes",
		"Citation graph node count by node type.",
		"type")
	m.GraphEdges = newGaugeVec("graph_edges",
		"Citation graph edge count by edge type.",
		"type")
	m.GraphBuildDuration = newHistogram("graph_build_duration_seconds",
		"Citation graph build duration.",
		analysisDurationBuckets)

	m.LLMRequestsTotal = newCounterVec("llm_requests_total",
		"LLM requests by operation and outcome.",
		"operation", "status")
	m.LLMRequestDuration = newHistogram("llm_request_duration_seconds",
		"LLM request duration.",
		llmDurationBuckets)

	m.CacheHitsTotal = newCounterVec("cache_hits_total",
		"Cache hits by cache name.",
		"cache")
	m.CacheMissesTotal = newCounterVec("cache_misses_total",
		"Cache misses by cache name.",
		"cache")

	m.EventsPublishedTotal = newCounterVec("events_published_total",
		"Kafka events published by topic.",
		"topic")
	m.EventsConsumedTotal = newCounterVec("events_consumed_total",
		"Kafka events consumed by topic and outcome.",
		"topic", "status")

	registry.MustRegister(
		m.HTTPRequestsTotal, m.HTTPRequestDuration,
		m.DocumentsIngestedTotal, m.IngestDuration,
		m.AnalysisRunsTotal, m.AnalysisDuration, m.RiskScores,
		m.ComparisonsTotal, m.ComparisonDuration,
		m.GraphNodes, m.GraphEdges, m.GraphBuildDuration,
		m.LLMRequestsTotal, m.LLMRequestDuration,
		m.CacheHitsTotal, m.CacheMissesTotal,
		m.EventsPublishedTotal, m.EventsConsumedTotal,
	)
	return m
}

// Handler serves the scrape endpoint for this metric set.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// ObserveHTTPRequest records one completed HTTP request.
func (m *Metrics) ObserveHTTPRequest(method, path, status string, elapsed time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
}

func newGaugeVec(name, help string, labels ...string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, labels)
}

func newHistogram(name, help string, buckets []float64) prometheus.Histogram {
	return prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})
}

func newHistogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
}
