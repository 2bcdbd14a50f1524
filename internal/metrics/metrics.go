package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "paperqa"

// Metrics holds the prometheus collectors shared by the API server and the worker.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	ingestTotal       *prometheus.CounterVec
	ingestDuration    prometheus.Histogram
	chunksIngested    prometheus.Counter
	questionsTotal    *prometheus.CounterVec
	generationErrors  *prometheus.CounterVec
	jobsTotal         *prometheus.CounterVec
	callbackFailures  prometheus.Counter
	catalogDocuments  prometheus.Gauge
	retrievalDuration prometheus.Histogram
}

// New creates the collectors and registers them on a fresh registry together
// with the Go runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ingestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestions_total",
			Help:      "Document ingestions by outcome.",
		}, []string{"status"}),
		ingestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingestion_duration_seconds",
			Help:      "Time spent ingesting a document.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
		chunksIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_ingested_total",
			Help:      "Chunks written to the vector store.",
		}),
		questionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "questions_total",
			Help:      "Answered questions by the model that produced the answer.",
		}, []string{"model"}),
		generationErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "generation_errors_total",
			Help:      "Failed generation attempts by provider.",
		}, []string{"provider"}),
		jobsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_jobs_total",
			Help:      "Queue jobs handled by the worker by outcome.",
		}, []string{"outcome"}),
		callbackFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "worker_callback_failures_total",
			Help:      "Status callbacks that could not be delivered.",
		}),
		catalogDocuments: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_documents",
			Help:      "Documents currently registered in the in-process catalog.",
		}),
		retrievalDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_duration_seconds",
			Help:      "Time spent embedding, querying and reranking a question.",
			Buckets:   prometheus.DefBuckets,
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.ingestTotal,
		m.ingestDuration,
		m.chunksIngested,
		m.questionsTotal,
		m.generationErrors,
		m.jobsTotal,
		m.callbackFailures,
		m.catalogDocuments,
		m.retrievalDuration,
	)
	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveIngest records one ingestion attempt.
func (m *Metrics) ObserveIngest(err error, elapsed time.Duration, chunks int) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failure"
	}
	m.ingestTotal.WithLabelValues(status).Inc()
	m.ingestDuration.Observe(elapsed.Seconds())
	if err == nil {
		m.chunksIngested.Add(float64(chunks))
	}
}

// SetCatalogSize records the number of catalogued documents.
func (m *Metrics) SetCatalogSize(n int) {
	if m == nil {
		return
	}
	m.catalogDocuments.Set(float64(n))
}

// ObserveRetrieval records the latency of one retrieval.
func (m *Metrics) ObserveRetrieval(elapsed time.Duration) {
	if m == nil {
		return
	}
	m.retrievalDuration.Observe(elapsed.Seconds())
}

// IncQuestion counts an answered question.
func (m *Metrics) IncQuestion(model string) {
	if m == nil {
		return
	}
	m.questionsTotal.WithLabelValues(model).Inc()
}

// IncGenerationError counts a failed generation attempt.
func (m *Metrics) IncGenerationError(provider string) {
	if m == nil {
		return
	}
	m.generationErrors.WithLabelValues(provider).Inc()
}

// IncJob counts a worker job outcome (completed, failed, malformed).
func (m *Metrics) IncJob(outcome string) {
	if m == nil {
		return
	}
	m.jobsTotal.WithLabelValues(outcome).Inc()
}

// IncCallbackFailure counts an undelivered callback.
func (m *Metrics) IncCallbackFailure() {
	if m == nil {
		return
	}
	m.callbackFailures.Inc()
}
