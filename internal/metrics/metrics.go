// Package metrics exports query and ingestion outcomes as Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Otachiking/Chatbot-RAG/internal/core/domain"
	"github.com/Otachiking/Chatbot-RAG/internal/core/ports/driven"
)

const namespace = "ragbot"

var _ driven.Observer = (*Metrics)(nil)

// Metrics is a driven.Observer backed by a private Prometheus registry.
type Metrics struct {
	registry *prometheus.Registry

	queries        *prometheus.CounterVec
	queryLatency   *prometheus.HistogramVec
	topScore       prometheus.Histogram
	ingestions     *prometheus.CounterVec
	chunksIndexed  prometheus.Counter
	ingestDuration prometheus.Histogram
}

// New creates and registers all collectors. Go runtime and process
// collectors are included when withRuntime is true.
func New(withRuntime bool) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "queries_total",
			Help:      "Completed queries by answering mode, fallback stage and outcome.",
		}, []string{"mode", "fallback_stage", "success"}),
		queryLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "query_latency_seconds",
			Help:      "Query latency by phase.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"phase"}),
		topScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "retrieval_top_score",
			Help:      "Best similarity score per grounded query.",
			Buckets:   prometheus.LinearBuckets(0, 0.1, 11),
		}),
		ingestions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ingestions_total",
			Help:      "Ingestion attempts by file type and outcome.",
		}, []string{"type", "success"}),
		chunksIndexed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "chunks_indexed_total",
			Help:      "Chunks written to the vector store.",
		}),
		ingestDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ingestion_duration_seconds",
			Help:      "End-to-end ingestion time.",
			Buckets:   prometheus.ExponentialBuckets(0.1, 2, 10),
		}),
	}

	m.registry.MustRegister(
		m.queries,
		m.queryLatency,
		m.topScore,
		m.ingestions,
		m.chunksIndexed,
		m.ingestDuration,
	)
	if withRuntime {
		m.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
	return m
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// QueryCompleted records one finished query.
func (m *Metrics) QueryCompleted(entry domain.QueryLogEntry) {
	stage := entry.FallbackStage
	if stage == "" {
		stage = domain.FallbackNone
	}
	m.queries.WithLabelValues(string(entry.Mode), string(stage), strconv.FormatBool(entry.Success)).Inc()

	m.queryLatency.WithLabelValues("total").Observe(entry.TotalLatencyMS / 1000)
	if entry.RetrievalLatencyMS != nil {
		m.queryLatency.WithLabelValues("retrieval").Observe(*entry.RetrievalLatencyMS / 1000)
	}
	if entry.GenerationLatencyMS != nil {
		m.queryLatency.WithLabelValues("generation").Observe(*entry.GenerationLatencyMS / 1000)
	}

	if len(entry.RetrievalScores) > 0 {
		best := entry.RetrievalScores[0]
		for _, s := range entry.RetrievalScores[1:] {
			if s > best {
				best = s
			}
		}
		m.topScore.Observe(best)
	}
}

// IngestionCompleted records one finished ingestion attempt.
func (m *Metrics) IngestionCompleted(fileType domain.FileType, chunks int, duration time.Duration, err error) {
	m.ingestions.WithLabelValues(string(fileType), strconv.FormatBool(err == nil)).Inc()
	m.ingestDuration.Observe(duration.Seconds())
	if err == nil && chunks > 0 {
		m.chunksIndexed.Add(float64(chunks))
	}
}
