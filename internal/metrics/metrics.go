package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatcher_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "jobmatcher_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	EmbeddingCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatcher_embedding_calls_total",
			Help: "Embedding adapter calls by mode and outcome",
		},
		[]string{"mode", "outcome"},
	)

	MatchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatcher_match_requests_total",
			Help: "Match requests by outcome",
		},
		[]string{"outcome"},
	)

	CorpusJobs = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "jobmatcher_corpus_jobs",
			Help: "Number of jobs in the published corpus",
		},
	)

	CorpusReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "jobmatcher_corpus_reloads_total",
			Help: "Corpus reloads by outcome",
		},
		[]string{"outcome"},
	)
)

const (
	ModeOne      = "one"
	ModeBatch    = "batch"
	ModeFallback = "fallback"

	OutcomeOK       = "ok"
	OutcomeError    = "error"
	OutcomeSkipped  = "skipped"
	OutcomeEmpty    = "empty"
	OutcomeFailed   = "failed"
	OutcomeNotReady = "not_ready"
)
