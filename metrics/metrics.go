// Package metrics defines the Prometheus collectors for index builds and
// exposes an HTTP handler for scraping them.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	BuildStatusSuccess = "success"
	BuildStatusFailed  = "failed"
)

// Metrics holds the collectors on a registry of its own, so several
// instances can coexist in one process. A nil *Metrics records nothing.
type Metrics struct {
	registry          *prometheus.Registry
	BuildsTotal       *prometheus.CounterVec
	BuildDuration     prometheus.Histogram
	DocumentsIndexed  prometheus.Counter
	LastBuildTerms    prometheus.Gauge
	LastBuildDocCount prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		BuildsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sitesearch_builds_total",
				Help: "Total number of index rebuilds by outcome.",
			},
			[]string{"status"},
		),
		BuildDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "sitesearch_build_duration_seconds",
				Help:    "Duration of full index rebuilds in seconds.",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
		),
		DocumentsIndexed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "sitesearch_documents_indexed_total",
				Help: "Total number of documents added to an index.",
			},
		),
		LastBuildTerms: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sitesearch_last_build_terms",
				Help: "Number of distinct terms in the last successful build.",
			},
		),
		LastBuildDocCount: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "sitesearch_last_build_documents",
				Help: "Number of documents in the last successful build.",
			},
		),
	}

	m.registry.MustRegister(
		m.BuildsTotal,
		m.BuildDuration,
		m.DocumentsIndexed,
		m.LastBuildTerms,
		m.LastBuildDocCount,
	)

	return m
}

func (m *Metrics) ObserveBuild(status string, duration time.Duration, documents int, terms int) {
	if m == nil {
		return
	}
	m.BuildsTotal.WithLabelValues(status).Inc()
	m.BuildDuration.Observe(duration.Seconds())
	if status != BuildStatusSuccess {
		return
	}
	m.DocumentsIndexed.Add(float64(documents))
	m.LastBuildTerms.Set(float64(terms))
	m.LastBuildDocCount.Set(float64(documents))
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
