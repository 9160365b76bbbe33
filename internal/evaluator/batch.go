package evaluator

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/haasonsaas/huntbench/internal/observability"
	"github.com/haasonsaas/huntbench/pkg/models"
)

// EvaluateBatch scores every query against its expected outcome rows and
// aggregates the results into a report. Queries with no entry in outcomes
// are scored against an empty expectation. The only error it returns is for
// an empty batch; per-hypothesis failures land in the result records.
//
// Results keep the input order regardless of worker count, and summary
// averages are computed only after every hypothesis has finished.
func (e *Evaluator) EvaluateBatch(ctx context.Context, queries []models.GeneratedQuery, outcomes map[string][]models.EventRow) (*models.EvaluationReport, error) {
	if len(queries) == 0 {
		return nil, NewEvalError("", ErrEmptyInput)
	}

	runID := uuid.NewString()
	ctx = observability.AddRunID(ctx, runID)
	started := time.Now().UTC()

	if e.cfg.Tracer != nil {
		var span trace.Span
		ctx, span = e.cfg.Tracer.TraceBatchEvaluation(ctx, runID, len(queries))
		defer span.End()
	}

	e.cfg.Recorder.RecordRunStart(ctx, runID, map[string]any{"hypotheses": len(queries)})
	e.logger.Info("starting evaluation batch",
		"run_id", runID,
		"hypotheses", len(queries),
		"workers", e.workerCount(len(queries)))

	results := make([]models.HypothesisEvaluation, len(queries))

	workers := e.workerCount(len(queries))
	if workers <= 1 {
		for i, q := range queries {
			results[i] = e.Evaluate(ctx, q, outcomes[q.HypothesisID])
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					results[i] = e.Evaluate(ctx, queries[i], outcomes[queries[i].HypothesisID])
				}
			}()
		}
		for i := range queries {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
	}

	report := e.summarize(results)
	report.RunID = runID
	report.StartedAt = started
	report.CompletedAt = time.Now().UTC()

	e.cfg.Metrics.RecordBatch(report.TotalHypotheses, report.FailedQueries, report.CompletedAt.Sub(started))
	e.cfg.Recorder.RecordRunEnd(ctx, report.CompletedAt.Sub(started), nil)
	e.logger.Info("evaluation batch complete",
		"run_id", report.RunID,
		"successful", report.SuccessfulQueries,
		"failed", report.FailedQueries,
		"avg_f1", report.AvgF1,
		"duration", report.CompletedAt.Sub(started))

	return report, nil
}

// summarize folds per-hypothesis results into report aggregates. Precision,
// recall, and F1 average over successful evaluations only; the overall score
// averages over every result, so failed queries drag it toward zero.
func (e *Evaluator) summarize(results []models.HypothesisEvaluation) *models.EvaluationReport {
	report := &models.EvaluationReport{
		TotalHypotheses: len(results),
		Results:         results,
	}

	var sumP, sumR, sumF1, sumOverall float64
	for _, r := range results {
		sumOverall += r.OverallScore
		if r.Succeeded() {
			report.SuccessfulQueries++
			sumP += r.Precision
			sumR += r.Recall
			sumF1 += r.F1
		} else {
			report.FailedQueries++
		}
	}

	if report.SuccessfulQueries > 0 {
		n := float64(report.SuccessfulQueries)
		report.AvgPrecision = sumP / n
		report.AvgRecall = sumR / n
		report.AvgF1 = sumF1 / n
	}
	if len(results) > 0 {
		report.AvgOverallScore = sumOverall / float64(len(results))
	}

	return report
}

// workerCount clamps configured parallelism to the batch size.
func (e *Evaluator) workerCount(batch int) int {
	workers := e.cfg.Workers
	if workers < 1 {
		workers = 1
	}
	if workers > batch {
		workers = batch
	}
	return workers
}
