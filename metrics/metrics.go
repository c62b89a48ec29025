// Package metrics holds the Prometheus instruments for document generation.
// Each Metrics owns a private registry so tests and multiple servers in one
// process do not collide on registration.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "presentation"

// Image fetch outcomes.
const (
	ImageFetched = "fetched"
	ImageFailed  = "failed"
)

// Metrics holds all generation metrics. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	DocumentsGenerated *prometheus.CounterVec
	GenerationFailures *prometheus.CounterVec
	GenerationDuration *prometheus.HistogramVec
	ImageFetches       *prometheus.CounterVec
	ImageFetchDuration prometheus.Histogram
	TokensUsed         prometheus.Counter
	SlidesSkipped      prometheus.Counter
}

// New registers every instrument on a fresh registry, together with the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		DocumentsGenerated: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "documents_generated_total",
			Help:      "Documents serialized and returned, by kind (outline, deck)",
		}, []string{"kind"}),
		GenerationFailures: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_failures_total",
			Help:      "Generation requests that ended in an error, by reason",
		}, []string{"kind", "reason"}),
		GenerationDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "generation_duration_seconds",
			Help:      "End-to-end time to produce a document",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 20, 30, 60, 120},
		}, []string{"kind"}),
		ImageFetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "image_fetches_total",
			Help:      "Image lookups by outcome (fetched, failed)",
		}, []string{"outcome"}),
		ImageFetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "image_fetch_duration_seconds",
			Help:      "Time spent resolving one image query",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		}),
		TokensUsed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tokens_used_total",
			Help:      "Completion tokens reported by the backend",
		}),
		SlidesSkipped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slides_skipped_total",
			Help:      "Slide groups dropped for lacking a layout marker",
		}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) RecordDocument(kind string, elapsed time.Duration, tokens int64) {
	if m == nil {
		return
	}
	m.DocumentsGenerated.WithLabelValues(kind).Inc()
	m.GenerationDuration.WithLabelValues(kind).Observe(elapsed.Seconds())
	if tokens > 0 {
		m.TokensUsed.Add(float64(tokens))
	}
}

func (m *Metrics) RecordFailure(kind, reason string) {
	if m == nil {
		return
	}
	m.GenerationFailures.WithLabelValues(kind, reason).Inc()
}

func (m *Metrics) RecordImageFetch(ok bool, elapsed time.Duration) {
	if m == nil {
		return
	}
	outcome := ImageFetched
	if !ok {
		outcome = ImageFailed
	}
	m.ImageFetches.WithLabelValues(outcome).Inc()
	m.ImageFetchDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) RecordSkippedSlide() {
	if m == nil {
		return
	}
	m.SlidesSkipped.Inc()
}
