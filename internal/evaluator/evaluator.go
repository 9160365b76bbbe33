// Package evaluator scores generated hunt queries against ground-truth
// outcomes. Each hypothesis walks a small state machine (pending, executing,
// then evaluated or failed) and produces a result record whether or not the
// query ran: failed queries are data, not aborts.
package evaluator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/haasonsaas/huntbench/internal/evalmetrics"
	"github.com/haasonsaas/huntbench/internal/observability"
	"github.com/haasonsaas/huntbench/internal/recordkey"
	"github.com/haasonsaas/huntbench/internal/reconcile"
	"github.com/haasonsaas/huntbench/pkg/models"
)

// DefaultSampleKeys bounds how many missing/extra record keys a result
// carries for diagnostics.
const DefaultSampleKeys = 10

// Querier executes a SQL query against the event table and returns typed
// rows. Implementations must not let queries mutate the table.
type Querier interface {
	Query(ctx context.Context, query string) ([]models.EventRow, error)
}

// KeyDeriver produces a stable identity key for an event row.
type KeyDeriver interface {
	Derive(row models.EventRow) (string, error)
}

// Config holds evaluator settings.
type Config struct {
	// Weights blends precision, recall, and F1 into the overall score.
	// Zero value means evalmetrics.DefaultWeights.
	Weights evalmetrics.Weights

	// SampleKeys caps the missing/extra key samples per result.
	// Zero means DefaultSampleKeys; negative disables sampling.
	SampleKeys int

	// QueryTimeout bounds a single query execution. Zero means no bound.
	// Expiry is recorded as an execution failure on the result.
	QueryTimeout time.Duration

	// Workers sets batch parallelism. Zero and one both mean sequential.
	Workers int

	// Logger receives per-hypothesis progress. Nil means slog.Default().
	Logger *slog.Logger

	// Metrics receives counters and latency observations when set.
	Metrics *observability.Metrics

	// Recorder receives run and hypothesis lifecycle events when set.
	Recorder *observability.EventRecorder

	// Tracer emits spans around batches and per-hypothesis scoring when set.
	Tracer *observability.Tracer
}

// Evaluator scores hypotheses one at a time or in batches.
type Evaluator struct {
	querier Querier
	deriver KeyDeriver
	cfg     Config
	logger  *slog.Logger
}

// New creates an Evaluator. A nil deriver falls back to the default
// CloudTrail identity fields.
func New(querier Querier, deriver KeyDeriver, cfg Config) *Evaluator {
	if deriver == nil {
		deriver = recordkey.New(nil)
	}
	if cfg.SampleKeys == 0 {
		cfg.SampleKeys = DefaultSampleKeys
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Evaluator{
		querier: querier,
		deriver: deriver,
		cfg:     cfg,
		logger:  logger,
	}
}

// Evaluate runs one generated query and scores its results against the
// expected rows. It always returns a result record; failures surface in the
// record's Status, Error, and Notes fields rather than as a Go error.
func (e *Evaluator) Evaluate(ctx context.Context, q models.GeneratedQuery, expected []models.EventRow) models.HypothesisEvaluation {
	var span trace.Span
	if e.cfg.Tracer != nil {
		ctx, span = e.cfg.Tracer.TraceHypothesisEvaluation(ctx, q.HypothesisID, q.HypothesisName)
		defer span.End()
	}

	result := models.HypothesisEvaluation{
		HypothesisID:   q.HypothesisID,
		HypothesisName: q.HypothesisName,
		SQL:            q.SQL,
		Status:         models.StatusPending,
		ExpectedCount:  len(expected),
	}
	e.cfg.Recorder.RecordHypothesisStart(ctx, q.HypothesisID, q.HypothesisName)

	expectedKeys, err := e.deriveKeys(expected)
	if err != nil {
		return e.fail(ctx, span, result, NewEvalError(q.HypothesisID, err).WithMessage(
			fmt.Sprintf("expected rows: %v", err)))
	}

	result.Status = models.StatusExecuting
	e.logger.Debug("executing hypothesis query",
		"hypothesis_id", q.HypothesisID,
		"hypothesis_name", q.HypothesisName)

	queryCtx := ctx
	if e.cfg.QueryTimeout > 0 {
		var cancel context.CancelFunc
		queryCtx, cancel = context.WithTimeout(ctx, e.cfg.QueryTimeout)
		defer cancel()
	}

	start := time.Now()
	actual, err := e.querier.Query(queryCtx, q.SQL)
	result.Duration = time.Since(start)
	e.cfg.Metrics.RecordQueryDuration(result.Duration)

	if err != nil {
		return e.fail(ctx, span, result, NewEvalError(q.HypothesisID, err))
	}
	result.ActualCount = len(actual)

	actualKeys, err := e.deriveKeys(actual)
	if err != nil {
		return e.fail(ctx, span, result, NewEvalError(q.HypothesisID, err))
	}

	outcome := reconcile.Reconcile(expectedKeys, actualKeys)
	summary := evalmetrics.Compute(len(outcome.Matched), len(expectedKeys), len(actualKeys), e.cfg.Weights)

	result.Status = models.StatusEvaluated
	result.MatchedCount = len(outcome.Matched)
	result.MissingCount = len(outcome.Missing)
	result.ExtraCount = len(outcome.Extra)
	result.Precision = summary.Precision
	result.Recall = summary.Recall
	result.F1 = summary.F1
	result.ExactMatch = summary.ExactMatch
	result.OverallScore = summary.Overall
	result.MissingKeys = sampleKeys(outcome.Missing, e.cfg.SampleKeys)
	result.ExtraKeys = sampleKeys(outcome.Extra, e.cfg.SampleKeys)
	result.Notes = fmt.Sprintf("Found %d records, expected %d", result.ActualCount, result.ExpectedCount)

	if span != nil {
		e.cfg.Tracer.SetAttributes(span,
			"precision", summary.Precision,
			"recall", summary.Recall,
			"f1", summary.F1,
		)
	}
	e.cfg.Metrics.RecordEvaluation(string(models.StatusEvaluated), result.Duration)
	e.cfg.Recorder.RecordHypothesisEnd(ctx, q.HypothesisID, q.HypothesisName, result.Duration, nil)
	e.logger.Info("hypothesis evaluated",
		"hypothesis_id", q.HypothesisID,
		"precision", summary.Precision,
		"recall", summary.Recall,
		"f1", summary.F1,
		"duration", result.Duration)

	return result
}

// fail finalizes a result record for an unexecutable or unscorable query.
// span is non-nil only when a tracer is configured.
func (e *Evaluator) fail(ctx context.Context, span trace.Span, result models.HypothesisEvaluation, evalErr *EvalError) models.HypothesisEvaluation {
	result.Status = models.StatusFailed
	result.Error = evalErr.Error()
	result.Notes = "Query execution failed"

	if span != nil {
		e.cfg.Tracer.RecordError(span, evalErr)
	}
	e.cfg.Metrics.RecordEvaluation(string(models.StatusFailed), result.Duration)
	e.cfg.Recorder.RecordHypothesisEnd(ctx, result.HypothesisID, result.HypothesisName, result.Duration, evalErr)
	e.logger.Warn("hypothesis evaluation failed",
		"hypothesis_id", result.HypothesisID,
		"kind", string(evalErr.Kind),
		"error", evalErr.Message)

	return result
}

// deriveKeys reduces rows to their identity key set. Duplicate keys collapse:
// matching is defined over distinct records.
func (e *Evaluator) deriveKeys(rows []models.EventRow) (map[string]struct{}, error) {
	keys := make([]string, 0, len(rows))
	for _, row := range rows {
		key, err := e.deriver.Derive(row)
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return reconcile.KeySet(keys), nil
}

// sampleKeys bounds an already-sorted key slice to n entries.
func sampleKeys(keys []string, n int) []string {
	if n < 0 || len(keys) == 0 {
		return nil
	}
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}
