// Package observability provides monitoring and debugging capabilities for
// huntbench through metrics, structured logging, distributed tracing, and a
// replayable run timeline.
//
// # Overview
//
// The package implements the three pillars of observability plus an event
// timeline for post-hoc inspection of benchmark runs:
//
//  1. Metrics - Quantitative measurements using Prometheus
//  2. Logging - Structured slog output with sensitive data redaction
//  3. Tracing - Distributed tracing with OpenTelemetry
//  4. Events - An in-memory timeline of run and hypothesis lifecycle events
//
// # Metrics
//
// Metrics are implemented with the Prometheus client libraries and track
// hypothesis evaluations, SQL execution latency, translation API calls and
// token usage, rows loaded into the event store, and error rates.
//
//	metrics := observability.NewMetrics()
//	start := time.Now()
//	// ... evaluate hypothesis ...
//	metrics.RecordEvaluation("evaluated", time.Since(start))
//
// # Logging
//
// Logging is built on slog with automatic correlation of run, hypothesis,
// and iteration IDs from context, plus redaction of API keys and other
// secrets before they reach the log stream:
//
//	logger := observability.NewLogger(observability.LogConfig{
//	    Level:  "info",
//	    Format: "json",
//	})
//	ctx = observability.AddRunID(ctx, runID)
//	logger.Info(ctx, "batch complete", "hypotheses", 12)
//
// # Tracing
//
// Tracing uses OpenTelemetry with an OTLP gRPC exporter. Without an endpoint
// the tracer is a no-op, so instrumented code needs no build flags or guards:
//
//	tracer, shutdown := observability.NewTracer(observability.TraceConfig{
//	    ServiceName: "huntbench",
//	    Endpoint:    os.Getenv("OTEL_ENDPOINT"),
//	})
//	defer shutdown(context.Background())
//
//	ctx, span := tracer.TraceHypothesisEvaluation(ctx, "hyp-001", "Console login without MFA")
//	defer span.End()
//
// # Events
//
// The event timeline records run starts, per-hypothesis evaluations,
// translation calls, and data loads so a finished benchmark run can be
// reconstructed step by step:
//
//	store := observability.NewMemoryEventStore(0)
//	recorder := observability.NewEventRecorder(store, logger)
//	recorder.RecordRunStart(ctx, runID, nil)
//	// ... run batch ...
//	events, _ := store.GetByRunID(runID)
//	fmt.Println(observability.FormatTimeline(observability.BuildTimeline(events)))
//
// # Security
//
// The logging component automatically redacts API keys (OpenAI, Anthropic,
// generic), bearer and JWT tokens, passwords, and custom patterns supplied
// through configuration. Sensitive map keys (password, secret, api_key,
// token, authorization) are masked regardless of value.
package observability
