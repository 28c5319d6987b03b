package service

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "wordcloud"

// Outcome label values of the analyses counter.
const (
	outcomeOK         = "ok"
	outcomeEmpty      = "empty_content"
	outcomeNoKeywords = "no_keywords"
	outcomeTooLarge   = "too_large"
	outcomeError      = "error"
	strategyNone      = "none"
	labelStrategy     = "strategy"
	labelOutcome      = "outcome"
)

// Metrics holds the analysis metrics on a private registry.
type Metrics struct {
	registry   *prometheus.Registry
	analyses   *prometheus.CounterVec
	cacheHits  prometheus.Counter
	duration   prometheus.Histogram
	inputBytes prometheus.Histogram
}

// NewMetrics creates the analysis metrics plus Go runtime and process
// collectors on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "analyses_total",
			Help:      "Keyword analyses by ranking strategy and outcome.",
		}, []string{labelStrategy, labelOutcome}),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "cache_hits_total",
			Help:      "Analyses answered from the result cache.",
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "analysis_duration_seconds",
			Help:      "Time spent analyzing uncached documents.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 2, 14),
		}),
		inputBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "input_bytes",
			Help:      "Size of analyzed documents.",
			Buckets:   prometheus.ExponentialBuckets(256, 4, 8),
		}),
	}
	m.registry.MustRegister(
		m.analyses,
		m.cacheHits,
		m.duration,
		m.inputBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the metrics are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observe(strategy, outcome string) {
	if strategy == "" {
		strategy = strategyNone
	}
	m.analyses.WithLabelValues(strategy, outcome).Inc()
}
