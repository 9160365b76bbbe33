package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides a centralized interface for collecting benchmark metrics.
//
// The metrics system is built on Prometheus and tracks:
//   - Hypothesis evaluations by terminal status
//   - SQL execution latency against the event store
//   - Translation API performance, response status, and token usage
//   - Rows loaded into the event store by source
//   - Error rates categorized by component and type
//
// All recorder methods are safe to call on a nil *Metrics, so components can
// treat metrics as optional wiring.
//
// Usage:
//
//	metrics := observability.NewMetrics()
//	start := time.Now()
//	// ... evaluate hypothesis ...
//	metrics.RecordEvaluation("evaluated", time.Since(start))
type Metrics struct {
	// EvaluationCounter counts hypothesis evaluations.
	// Labels: status (evaluated|failed)
	EvaluationCounter *prometheus.CounterVec

	// EvaluationDuration measures per-hypothesis evaluation latency in seconds.
	// Labels: status (evaluated|failed)
	// Buckets: 0.001s, 0.01s, 0.05s, 0.1s, 0.5s, 1s, 5s, 30s, 60s
	EvaluationDuration *prometheus.HistogramVec

	// QueryDuration measures SQL execution latency in seconds.
	// Buckets: 0.001s, 0.005s, 0.01s, 0.05s, 0.1s, 0.5s, 1s, 5s, 30s
	QueryDuration prometheus.Histogram

	// BatchCounter counts evaluation batches.
	BatchCounter prometheus.Counter

	// BatchDuration measures whole-batch latency in seconds.
	// Buckets: 0.1s, 0.5s, 1s, 5s, 30s, 60s, 300s, 600s
	BatchDuration prometheus.Histogram

	// BatchSize observes hypotheses per batch.
	// Buckets: 1, 5, 10, 25, 50, 100, 250
	BatchSize prometheus.Histogram

	// FailedQueries counts hypotheses whose queries could not be executed
	// or scored.
	FailedQueries prometheus.Counter

	// TranslationCounter counts hypothesis-to-SQL translation requests.
	// Labels: provider (openai|anthropic|bedrock|google), model, status (success|error)
	TranslationCounter *prometheus.CounterVec

	// TranslationDuration measures translation API latency in seconds.
	// Labels: provider, model
	// Buckets: 0.1s, 0.5s, 1s, 2s, 5s, 10s, 30s, 60s
	TranslationDuration *prometheus.HistogramVec

	// TranslationTokens tracks token consumption.
	// Labels: provider, model, type (prompt|completion)
	TranslationTokens *prometheus.CounterVec

	// RowsLoaded counts event rows ingested into the event store.
	// Labels: source (csv|postgres|s3|synthetic)
	RowsLoaded *prometheus.CounterVec

	// WatchTriggers counts evaluation runs started by watch mode.
	// Labels: reason (file|schedule)
	WatchTriggers *prometheus.CounterVec

	// ErrorCounter tracks errors by component and error type.
	// Labels: component (evaluator|eventlog|nl2sql|loader|report), error_type
	ErrorCounter *prometheus.CounterVec
}

// NewMetrics creates and registers all Prometheus metrics.
// This should be called once at application startup; metrics register with
// the default registry and surface through the standard prometheus handler.
func NewMetrics() *Metrics {
	return &Metrics{
		EvaluationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huntbench_evaluations_total",
				Help: "Total number of hypothesis evaluations by terminal status",
			},
			[]string{"status"},
		),

		EvaluationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "huntbench_evaluation_duration_seconds",
				Help:    "Duration of hypothesis evaluations in seconds",
				Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 60},
			},
			[]string{"status"},
		),

		QueryDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "huntbench_query_duration_seconds",
				Help:    "Duration of SQL executions against the event store in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
			},
		),

		BatchCounter: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "huntbench_batches_total",
				Help: "Total number of evaluation batches",
			},
		),

		BatchDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "huntbench_batch_duration_seconds",
				Help:    "Duration of evaluation batches in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 30, 60, 300, 600},
			},
		),

		BatchSize: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "huntbench_batch_size_hypotheses",
				Help:    "Hypotheses per evaluation batch",
				Buckets: []float64{1, 5, 10, 25, 50, 100, 250},
			},
		),

		FailedQueries: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "huntbench_failed_queries_total",
				Help: "Total number of hypothesis queries that failed to execute or score",
			},
		),

		TranslationCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huntbench_translations_total",
				Help: "Total number of hypothesis-to-SQL translation requests by provider, model, and status",
			},
			[]string{"provider", "model", "status"},
		),

		TranslationDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "huntbench_translation_duration_seconds",
				Help:    "Duration of translation API requests in seconds",
				Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
			},
			[]string{"provider", "model"},
		),

		TranslationTokens: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huntbench_translation_tokens_total",
				Help: "Total number of tokens used by provider, model, and type",
			},
			[]string{"provider", "model", "type"},
		),

		RowsLoaded: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huntbench_rows_loaded_total",
				Help: "Total number of event rows loaded into the event store by source",
			},
			[]string{"source"},
		),

		WatchTriggers: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huntbench_watch_triggers_total",
				Help: "Total number of watch-mode evaluation runs by trigger reason",
			},
			[]string{"reason"},
		),

		ErrorCounter: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "huntbench_errors_total",
				Help: "Total number of errors by component and error type",
			},
			[]string{"component", "error_type"},
		),
	}
}

// RecordEvaluation records a finished hypothesis evaluation.
//
// Example:
//
//	start := time.Now()
//	// ... evaluate hypothesis ...
//	metrics.RecordEvaluation("evaluated", time.Since(start))
func (m *Metrics) RecordEvaluation(status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.EvaluationCounter.WithLabelValues(status).Inc()
	m.EvaluationDuration.WithLabelValues(status).Observe(duration.Seconds())
}

// RecordWatchTrigger records one watch-mode run. reason is "file" or
// "schedule".
func (m *Metrics) RecordWatchTrigger(reason string) {
	if m == nil {
		return
	}
	m.WatchTriggers.WithLabelValues(reason).Inc()
}

// RecordQueryDuration records the latency of one SQL execution.
func (m *Metrics) RecordQueryDuration(duration time.Duration) {
	if m == nil {
		return
	}
	m.QueryDuration.Observe(duration.Seconds())
}

// RecordBatch records aggregate metrics for a finished evaluation batch.
//
// Example:
//
//	metrics.RecordBatch(report.TotalHypotheses, report.FailedQueries, elapsed)
func (m *Metrics) RecordBatch(hypotheses, failed int, duration time.Duration) {
	if m == nil {
		return
	}
	m.BatchCounter.Inc()
	m.BatchDuration.Observe(duration.Seconds())
	m.BatchSize.Observe(float64(hypotheses))
	if failed > 0 {
		m.FailedQueries.Add(float64(failed))
	}
}

// RecordTranslation records metrics for a translation API request.
//
// Example:
//
//	start := time.Now()
//	// ... call provider ...
//	metrics.RecordTranslation("openai", "gpt-4o", "success", time.Since(start).Seconds(), 900, 150)
func (m *Metrics) RecordTranslation(provider, model, status string, durationSeconds float64, promptTokens, completionTokens int) {
	if m == nil {
		return
	}
	m.TranslationCounter.WithLabelValues(provider, model, status).Inc()
	m.TranslationDuration.WithLabelValues(provider, model).Observe(durationSeconds)
	if promptTokens > 0 {
		m.TranslationTokens.WithLabelValues(provider, model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		m.TranslationTokens.WithLabelValues(provider, model, "completion").Add(float64(completionTokens))
	}
}

// RecordRowsLoaded records event rows ingested from a source.
//
// Example:
//
//	metrics.RecordRowsLoaded("csv", 5000)
func (m *Metrics) RecordRowsLoaded(source string, rows int) {
	if m == nil {
		return
	}
	m.RowsLoaded.WithLabelValues(source).Add(float64(rows))
}

// RecordError increments the error counter for a given component and error type.
//
// Example:
//
//	metrics.RecordError("nl2sql", "rate_limited")
func (m *Metrics) RecordError(component, errorType string) {
	if m == nil {
		return
	}
	m.ErrorCounter.WithLabelValues(component, errorType).Inc()
}
