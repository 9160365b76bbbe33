package nl2sql

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/haasonsaas/huntbench/internal/observability"
	"github.com/haasonsaas/huntbench/pkg/models"
)

// GeneratorConfig configures a Generator. All fields are optional; zero
// values fall back to the package defaults and no-op observability.
type GeneratorConfig struct {
	// Table is the event table name queries should target.
	Table string

	// Dialect names the SQL dialect queries should be written in,
	// e.g. "SQLite" or "PostgreSQL".
	Dialect string

	Logger   *slog.Logger
	Metrics  *observability.Metrics
	Recorder *observability.EventRecorder
	Tracer   *observability.Tracer
}

// Generator runs a Translator over hypotheses and packages the results
// as GeneratedQuery values ready for evaluation. It owns the
// observability around translation: progress logs, token metrics,
// translation events, and spans.
type Generator struct {
	translator Translator
	table      string
	dialect    string
	logger     *slog.Logger
	metrics    *observability.Metrics
	recorder   *observability.EventRecorder
	tracer     *observability.Tracer
}

// NewGenerator wraps a Translator with batch orchestration.
func NewGenerator(t Translator, cfg GeneratorConfig) *Generator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		translator: t,
		table:      cfg.Table,
		dialect:    cfg.Dialect,
		logger:     logger.With("component", "nl2sql"),
		metrics:    cfg.Metrics,
		recorder:   cfg.Recorder,
		tracer:     cfg.Tracer,
	}
}

// Generate translates a single hypothesis into a GeneratedQuery.
//
// A fallback result (unparseable model reply) is not an error: the
// degraded query is returned so the evaluator can score it. Errors are
// reserved for failures to obtain any reply at all.
func (g *Generator) Generate(ctx context.Context, h models.Hypothesis) (models.GeneratedQuery, error) {
	ctx = observability.AddHypothesisID(ctx, h.ID)
	ctx = observability.AddProvider(ctx, g.translator.Name())

	var span trace.Span
	if g.tracer != nil {
		ctx, span = g.tracer.TraceTranslation(ctx, g.translator.Name(), g.translator.Model())
		defer span.End()
	}

	_ = g.recorder.Record(ctx, observability.EventTypeTranslationStart, h.Name, map[string]any{
		"hypothesis_id": h.ID,
		"provider":      g.translator.Name(),
		"model":         g.translator.Model(),
	})

	req := Request{Hypothesis: h, Table: g.table, Dialect: g.dialect}

	start := time.Now()
	res, err := g.translator.Translate(ctx, req)
	duration := time.Since(start)

	if err != nil {
		if g.tracer != nil {
			g.tracer.RecordError(span, err)
		}
		g.metrics.RecordTranslation(g.translator.Name(), g.translator.Model(), "failed", duration.Seconds(), 0, 0)
		_ = g.recorder.RecordError(ctx, observability.EventTypeTranslationEnd, h.Name, err, map[string]any{
			"hypothesis_id": h.ID,
		})
		g.logger.Error("translation failed",
			"hypothesis_id", h.ID,
			"provider", g.translator.Name(),
			"error", err)
		return models.GeneratedQuery{}, err
	}

	status := "success"
	if res.Fallback {
		status = "fallback"
	}
	g.metrics.RecordTranslation(g.translator.Name(), res.Model, status, duration.Seconds(), res.PromptTokens, res.CompletionTokens)
	_ = g.recorder.Record(ctx, observability.EventTypeTranslationEnd, h.Name, map[string]any{
		"hypothesis_id":     h.ID,
		"model":             res.Model,
		"fallback":          res.Fallback,
		"prompt_tokens":     res.PromptTokens,
		"completion_tokens": res.CompletionTokens,
		"duration_ms":       duration.Milliseconds(),
	})
	if g.tracer != nil {
		g.tracer.SetAttributes(span,
			"llm.prompt_tokens", res.PromptTokens,
			"llm.completion_tokens", res.CompletionTokens,
			"llm.fallback", res.Fallback,
		)
	}

	g.logger.Info("hypothesis translated",
		"hypothesis_id", h.ID,
		"model", res.Model,
		"confidence", res.Explanation.Confidence,
		"fallback", res.Fallback,
		"duration", duration)

	return models.GeneratedQuery{
		HypothesisID:   h.ID,
		HypothesisName: h.Name,
		HypothesisText: h.Hypothesis,
		SQL:            res.SQL,
		Explanation:    res.Explanation,
		Model:          res.Model,
		GeneratedAt:    time.Now().UTC(),
	}, nil
}

// GenerateBatch translates hypotheses sequentially. A hypothesis whose
// translation fails is logged and skipped so one provider hiccup does
// not sink the batch; the returned slice holds only the successes.
// Context cancellation aborts the batch and returns what completed.
func (g *Generator) GenerateBatch(ctx context.Context, hypotheses []models.Hypothesis) ([]models.GeneratedQuery, error) {
	if len(hypotheses) == 0 {
		return nil, ErrNoHypotheses
	}

	queries := make([]models.GeneratedQuery, 0, len(hypotheses))
	for i, h := range hypotheses {
		g.logger.Info("translating hypothesis",
			"index", i+1,
			"total", len(hypotheses),
			"hypothesis_id", h.ID,
			"name", h.Name)

		q, err := g.Generate(ctx, h)
		if err != nil {
			if ctx.Err() != nil {
				return queries, ctx.Err()
			}
			continue
		}
		queries = append(queries, q)
	}

	g.logger.Info("translation batch complete",
		"translated", len(queries),
		"failed", len(hypotheses)-len(queries))
	return queries, nil
}
