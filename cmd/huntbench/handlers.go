// Package main provides the CLI entry point for huntbench, a benchmark
// harness for LLM-generated threat hunting queries.
//
// handlers.go contains the RunE handler functions for all CLI commands and
// the shared wiring they use: config loading, observability setup, event
// source selection, and translator construction.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/haasonsaas/huntbench/internal/config"
	"github.com/haasonsaas/huntbench/internal/evalmetrics"
	"github.com/haasonsaas/huntbench/internal/evaluator"
	"github.com/haasonsaas/huntbench/internal/eventlog"
	"github.com/haasonsaas/huntbench/internal/loader"
	"github.com/haasonsaas/huntbench/internal/nl2sql"
	"github.com/haasonsaas/huntbench/internal/notify"
	"github.com/haasonsaas/huntbench/internal/observability"
	"github.com/haasonsaas/huntbench/internal/recordkey"
	"github.com/haasonsaas/huntbench/internal/report"
	"github.com/haasonsaas/huntbench/internal/schedule"
	"github.com/haasonsaas/huntbench/internal/synth"
	"github.com/haasonsaas/huntbench/internal/watch"
	"github.com/haasonsaas/huntbench/pkg/models"
)

// defaultConfigName is looked for in the working directory and is optional;
// an explicitly passed config path must exist.
const defaultConfigName = "huntbench.yaml"

// =============================================================================
// Evaluate Command Handler
// =============================================================================

// evaluateOptions carries the evaluate command flags.
type evaluateOptions struct {
	configPath     string
	hypothesesPath string
	outcomesPath   string
	queriesPath    string
	dataSource     string
	outputDir      string
	iteration      int
	minSuccessRate float64
	// minSuccessRateSet distinguishes an explicit zero from the flag default.
	minSuccessRateSet bool
	timeline          bool
	debug             bool
}

// runEvaluate implements the evaluate command logic.
func runEvaluate(cmd *cobra.Command, opts evaluateOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.dataSource != "" {
		cfg.Data.Source = opts.dataSource
	}
	if opts.outputDir != "" {
		cfg.Report.OutputDir = opts.outputDir
	}
	if opts.iteration > 0 {
		cfg.Report.Iteration = opts.iteration
	}
	if opts.minSuccessRateSet {
		cfg.Report.MinSuccessRate = opts.minSuccessRate
	}

	obsLogger := setupLogging(cfg, opts.debug)
	log := obsLogger.Slog()
	metrics := runMetrics()
	tracer, stopTracing := setupTracing(cfg)
	defer shutdownTracing(stopTracing, log)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("starting evaluation",
		"version", version,
		"hypotheses", opts.hypothesesPath,
		"data", cfg.Data.Source,
	)

	deps := runDeps{logger: obsLogger, metrics: metrics, tracer: tracer}
	if opts.queriesPath == "" {
		deps.translator, err = buildTranslator(cfg)
		if err != nil {
			return err
		}
	}

	rep, err := evaluateRun(ctx, cfg, runInputs{
		hypothesesPath: opts.hypothesesPath,
		outcomesPath:   opts.outcomesPath,
		queriesPath:    opts.queriesPath,
		timeline:       opts.timeline,
		out:            cmd.OutOrStdout(),
	}, deps)
	if err != nil {
		return err
	}

	if gate := cfg.Report.MinSuccessRate; gate > 0 && rep.SuccessRate() < gate {
		return fmt.Errorf("success rate %.1f%% is below the required %.1f%%",
			rep.SuccessRate()*100, gate*100)
	}
	return nil
}

// runInputs names the documents one evaluation pass consumes.
type runInputs struct {
	hypothesesPath string
	outcomesPath   string
	// queriesPath, when set, supplies pre-generated queries and skips
	// translation.
	queriesPath string
	timeline    bool
	out         io.Writer
}

// runDeps carries the long-lived pieces evaluation passes share.
type runDeps struct {
	logger  *observability.Logger
	metrics *observability.Metrics
	tracer  *observability.Tracer
	// translator is nil when queries come from a file.
	translator nl2sql.Translator
}

// evaluateRun executes one full evaluation pass: load the hunt documents,
// open the event source, obtain queries, score them, and write reports.
// Shared by the evaluate command and each watch-mode trigger.
func evaluateRun(ctx context.Context, cfg *config.Config, in runInputs, deps runDeps) (*models.EvaluationReport, error) {
	log := deps.logger.Slog()

	hypotheses, err := loader.LoadHypotheses(in.hypothesesPath)
	if err != nil {
		return nil, err
	}
	outcomes, err := loader.LoadOutcomes(in.outcomesPath)
	if err != nil {
		return nil, err
	}

	eventStore := observability.NewMemoryEventStore(0)
	recorder := observability.NewEventRecorder(eventStore, deps.logger)

	source, err := openEventSource(ctx, cfg, log, deps.metrics, recorder, deps.tracer)
	if err != nil {
		return nil, err
	}
	defer source.Close()

	var queries []models.GeneratedQuery
	if in.queriesPath != "" {
		queries, err = loader.LoadQueries(in.queriesPath)
		if err != nil {
			return nil, err
		}
	} else {
		gen := nl2sql.NewGenerator(deps.translator, nl2sql.GeneratorConfig{
			Table:    source.Table(),
			Dialect:  queryDialect(cfg.Data.Source),
			Logger:   log,
			Metrics:  deps.metrics,
			Recorder: recorder,
			Tracer:   deps.tracer,
		})
		queries, err = gen.GenerateBatch(ctx, hypotheses)
		if err != nil {
			return nil, fmt.Errorf("translate hypotheses: %w", err)
		}
	}

	ev := evaluator.New(source, recordkey.New(cfg.Evaluation.IdentityFields), evaluator.Config{
		Weights: evalmetrics.Weights{
			Precision: cfg.Evaluation.Weights.Precision,
			Recall:    cfg.Evaluation.Weights.Recall,
			F1:        cfg.Evaluation.Weights.F1,
		},
		SampleKeys:   cfg.Evaluation.SampleKeys,
		QueryTimeout: cfg.Evaluation.QueryTimeout,
		Workers:      cfg.Evaluation.Workers,
		Logger:       log,
		Metrics:      deps.metrics,
		Recorder:     recorder,
		Tracer:       deps.tracer,
	})

	rep, err := ev.EvaluateBatch(ctx, queries, outcomes)
	if err != nil {
		return nil, fmt.Errorf("evaluate batch: %w", err)
	}
	rep.Iteration = cfg.Report.Iteration

	if err := writeReports(in.out, cfg, rep, log); err != nil {
		return nil, err
	}
	if in.timeline {
		printTimeline(in.out, eventStore, rep.RunID)
	}

	notifyRun(ctx, cfg, rep, log)
	return rep, nil
}

// =============================================================================
// Generate Command Handler
// =============================================================================

// generateOptions carries the generate command flags.
type generateOptions struct {
	configPath     string
	hypothesesPath string
	outPath        string
	provider       string
	model          string
	debug          bool
}

// runGenerate implements the generate command logic.
func runGenerate(cmd *cobra.Command, opts generateOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.provider != "" {
		cfg.Translator.Provider = opts.provider
	}
	if opts.model != "" {
		cfg.Translator.Model = opts.model
	}

	obsLogger := setupLogging(cfg, opts.debug)
	log := obsLogger.Slog()
	metrics := runMetrics()
	tracer, stopTracing := setupTracing(cfg)
	defer shutdownTracing(stopTracing, log)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	hypotheses, err := loader.LoadHypotheses(opts.hypothesesPath)
	if err != nil {
		return err
	}
	translator, err := buildTranslator(cfg)
	if err != nil {
		return err
	}

	log.Info("translating hypotheses",
		"count", len(hypotheses),
		"provider", translator.Name(),
		"model", translator.Model(),
	)

	gen := nl2sql.NewGenerator(translator, nl2sql.GeneratorConfig{
		Table:   cfg.Data.Table,
		Dialect: queryDialect(cfg.Data.Source),
		Logger:  log,
		Metrics: metrics,
		Tracer:  tracer,
	})
	queries, err := gen.GenerateBatch(ctx, hypotheses)
	if err != nil {
		return fmt.Errorf("translate hypotheses: %w", err)
	}

	if err := loader.SaveQueries(opts.outPath, queries); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d queries to %s\n", len(queries), opts.outPath)
	return nil
}

// =============================================================================
// Synth Command Handler
// =============================================================================

// synthOptions carries the synth command flags.
type synthOptions struct {
	events      int
	threatRatio float64
	noThreats   bool
	seed        int64
	out         string
}

// runSynth implements the synth command logic.
func runSynth(cmd *cobra.Command, opts synthOptions) error {
	gen := synth.New(synth.Options{
		Records:     opts.events,
		ThreatRatio: opts.threatRatio,
		NoThreats:   opts.noThreats,
		Seed:        opts.seed,
	})

	if dir := filepath.Dir(opts.out); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	f, err := os.Create(opts.out)
	if err != nil {
		return fmt.Errorf("create %s: %w", opts.out, err)
	}
	n, err := gen.WriteCSV(f)
	if err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %s: %w", opts.out, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d synthetic events to %s\n", n, opts.out)
	return nil
}

// =============================================================================
// Schema Command Handler
// =============================================================================

// runSchema implements the schema command logic.
func runSchema(cmd *cobra.Command, document string) error {
	var (
		data []byte
		err  error
	)
	switch document {
	case "hypotheses":
		data, err = loader.HypothesesSchema()
	case "queries":
		data, err = loader.QueriesSchema()
	case "outcomes":
		data, err = loader.OutcomesSchema()
	case "config":
		data, err = config.JSONSchema()
	default:
		return fmt.Errorf("unknown document %q (want hypotheses, queries, outcomes, or config)", document)
	}
	if err != nil {
		return fmt.Errorf("build schema: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return nil
}

// =============================================================================
// Watch Command Handler
// =============================================================================

// watchOptions carries the watch command flags.
type watchOptions struct {
	configPath     string
	hypothesesPath string
	outcomesPath   string
	queriesPath    string
	dataSource     string
	scheduleExpr   string
	debug          bool
}

// runWatch implements the watch command logic. It owns the metrics listener
// and shuts everything down on SIGINT/SIGTERM.
func runWatch(cmd *cobra.Command, opts watchOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.dataSource != "" {
		cfg.Data.Source = opts.dataSource
	}
	if opts.scheduleExpr != "" {
		cfg.Watch.Schedule = opts.scheduleExpr
	}

	obsLogger := setupLogging(cfg, opts.debug)
	log := obsLogger.Slog()
	metrics := runMetrics()
	tracer, stopTracing := setupTracing(cfg)
	defer shutdownTracing(stopTracing, log)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	deps := runDeps{logger: obsLogger, metrics: metrics, tracer: tracer}
	if opts.queriesPath == "" {
		// Key resolution may prompt; do it once, before the watch starts.
		deps.translator, err = buildTranslator(cfg)
		if err != nil {
			return err
		}
	}

	var sched *schedule.Schedule
	if expr := strings.TrimSpace(cfg.Watch.Schedule); expr != "" {
		sched, err = schedule.Parse(expr)
		if err != nil {
			return err
		}
	}

	if addr := cfg.Observability.MetricsListen; addr != "" {
		stopMetrics := serveMetrics(addr, log)
		defer stopMetrics()
	}

	in := runInputs{
		hypothesesPath: opts.hypothesesPath,
		outcomesPath:   opts.outcomesPath,
		queriesPath:    opts.queriesPath,
		out:            cmd.OutOrStdout(),
	}
	run := func(runCtx context.Context, reason string) {
		rep, err := evaluateRun(runCtx, cfg, in, deps)
		if err != nil {
			log.Error("evaluation run failed", "reason", reason, "error", err)
			return
		}
		if gate := cfg.Report.MinSuccessRate; gate > 0 && rep.SuccessRate() < gate {
			log.Warn("success rate below minimum",
				"rate", rep.SuccessRate(),
				"minimum", gate,
			)
		}
	}

	paths := watchPaths(opts, cfg)
	watcher, err := watch.New(watch.Config{
		Paths:    paths,
		Debounce: cfg.Watch.Debounce,
		Schedule: sched,
		Logger:   log,
		Metrics:  metrics,
	}, run)
	if err != nil {
		return err
	}

	log.Info("watch mode started", "paths", paths, "schedule", cfg.Watch.Schedule)
	if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info("watch mode stopped")
	return nil
}

// watchPaths lists the local files whose changes should trigger a run.
// Remote sources cannot be watched.
func watchPaths(opts watchOptions, cfg *config.Config) []string {
	paths := []string{opts.hypothesesPath, opts.outcomesPath}
	if opts.queriesPath != "" {
		paths = append(paths, opts.queriesPath)
	}
	if src := strings.TrimSpace(cfg.Data.Source); src != "" && isLocalSource(src) {
		paths = append(paths, src)
	}
	return paths
}

// serveMetrics exposes Prometheus metrics on /metrics until the returned
// stop function is called.
func serveMetrics(addr string, log *slog.Logger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Info("metrics listener started", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics listener failed", "error", err)
		}
	}()

	return func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("metrics listener shutdown failed", "error", err)
		}
	}
}

// =============================================================================
// Shared Wiring
// =============================================================================

// loadConfig reads the config file. The default file name is optional: when
// it does not exist, the built-in defaults apply.
func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigName {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return config.Default(), nil
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

// setupLogging builds the run logger from config and installs it
// process-wide so package-level slog calls share handler and level.
func setupLogging(cfg *config.Config, debug bool) *observability.Logger {
	level := cfg.Log.Level
	if debug {
		level = "debug"
	}
	obsLogger := observability.NewLogger(observability.LogConfig{
		Level:  level,
		Format: cfg.Log.Format,
	})
	slog.SetDefault(obsLogger.Slog())
	return obsLogger
}

var (
	metricsOnce sync.Once
	metricsInst *observability.Metrics
)

// runMetrics returns the process-wide metrics set. Collectors register with
// the default Prometheus registry exactly once per process.
func runMetrics() *observability.Metrics {
	metricsOnce.Do(func() {
		metricsInst = observability.NewMetrics()
	})
	return metricsInst
}

// setupTracing builds the OTel tracer; it is a no-op when no OTLP endpoint
// is configured.
func setupTracing(cfg *config.Config) (*observability.Tracer, func(context.Context) error) {
	return observability.NewTracer(observability.TraceConfig{
		ServiceName:    "huntbench",
		ServiceVersion: version,
		Environment:    cfg.Observability.Environment,
		Endpoint:       cfg.Observability.OTLPEndpoint,
		SamplingRate:   cfg.Observability.SamplingRate,
		EnableInsecure: cfg.Observability.Insecure,
	})
}

// shutdownTracing flushes pending spans with a bounded deadline.
func shutdownTracing(stop func(context.Context) error, log *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := stop(ctx); err != nil {
		log.Warn("trace shutdown failed", "error", err)
	}
}

// openEventSource connects the configured evidence backend. The postgres and
// s3 branches wire pool and credential settings from the data section;
// anything else is loaded as a local CSV into the in-memory store.
func openEventSource(ctx context.Context, cfg *config.Config, log *slog.Logger, metrics *observability.Metrics, recorder *observability.EventRecorder, tracer *observability.Tracer) (eventlog.EventSource, error) {
	source := strings.TrimSpace(cfg.Data.Source)
	if source == "" {
		return nil, fmt.Errorf("no event data source configured (set data.source or pass --data)")
	}

	switch {
	case strings.HasPrefix(source, "postgres://"), strings.HasPrefix(source, "postgresql://"):
		pg := eventlog.DefaultPostgresConfig()
		pg.DSN = source
		pg.Logger = log
		pg.Tracer = tracer
		if cfg.Data.Table != "" {
			pg.Table = cfg.Data.Table
		}
		if v := cfg.Data.Postgres.MaxOpenConns; v > 0 {
			pg.MaxOpenConns = v
		}
		if v := cfg.Data.Postgres.MaxIdleConns; v > 0 {
			pg.MaxIdleConns = v
		}
		if v := cfg.Data.Postgres.ConnMaxLifetime; v > 0 {
			pg.ConnMaxLifetime = v
		}
		if v := cfg.Data.Postgres.ConnMaxIdleTime; v > 0 {
			pg.ConnMaxIdleTime = v
		}
		if v := cfg.Data.Postgres.ConnectTimeout; v > 0 {
			pg.ConnectTimeout = v
		}
		return eventlog.NewPostgresStore(ctx, pg)

	case strings.HasPrefix(source, "s3://"):
		s3cfg := eventlog.DefaultS3Config()
		if cfg.Data.S3.Region != "" {
			s3cfg.Region = cfg.Data.S3.Region
		}
		s3cfg.Endpoint = cfg.Data.S3.Endpoint
		s3cfg.AccessKeyID = cfg.Data.S3.AccessKeyID
		s3cfg.SecretAccessKey = cfg.Data.S3.SecretAccessKey
		s3cfg.UsePathStyle = cfg.Data.S3.UsePathStyle
		return eventlog.OpenS3(ctx, source, s3cfg, storeConfig(cfg, log, metrics, recorder, tracer))

	default:
		return eventlog.Open(ctx, source, storeConfig(cfg, log, metrics, recorder, tracer))
	}
}

func storeConfig(cfg *config.Config, log *slog.Logger, metrics *observability.Metrics, recorder *observability.EventRecorder, tracer *observability.Tracer) eventlog.Config {
	return eventlog.Config{
		Table:    cfg.Data.Table,
		Logger:   log,
		Metrics:  metrics,
		Recorder: recorder,
		Tracer:   tracer,
	}
}

// isLocalSource reports whether the data source is a watchable local file.
func isLocalSource(source string) bool {
	return !strings.HasPrefix(source, "postgres://") &&
		!strings.HasPrefix(source, "postgresql://") &&
		!strings.HasPrefix(source, "s3://")
}

// queryDialect names the SQL flavor queries will execute under. Postgres
// sources are queried in place; everything else lands in the SQLite store.
func queryDialect(source string) string {
	if strings.HasPrefix(source, "postgres://") || strings.HasPrefix(source, "postgresql://") {
		return "PostgreSQL"
	}
	return "SQLite"
}

// buildTranslator constructs the configured provider, resolving the API key
// from config, environment, or an interactive prompt.
func buildTranslator(cfg *config.Config) (nl2sql.Translator, error) {
	tc := nl2sql.Config{
		Provider:        cfg.Translator.Provider,
		Model:           cfg.Translator.Model,
		APIKey:          cfg.Translator.APIKey,
		BaseURL:         cfg.Translator.BaseURL,
		Temperature:     cfg.Translator.Temperature,
		MaxTokens:       cfg.Translator.MaxTokens,
		MaxRetries:      cfg.Translator.MaxRetries,
		RetryDelay:      cfg.Translator.RetryDelay,
		Region:          cfg.Translator.Region,
		AccessKeyID:     cfg.Translator.AccessKeyID,
		SecretAccessKey: cfg.Translator.SecretAccessKey,
		SessionToken:    cfg.Translator.SessionToken,
	}
	if strings.TrimSpace(tc.APIKey) == "" {
		tc.APIKey = os.Getenv(apiKeyEnvVar(tc.Provider))
	}
	if strings.TrimSpace(tc.APIKey) == "" && providerNeedsKey(tc.Provider) {
		tc.APIKey = promptSecret(fmt.Sprintf("%s API key", tc.Provider))
	}

	translator, err := nl2sql.New(tc)
	if err != nil {
		return nil, fmt.Errorf("build translator: %w", err)
	}
	return translator, nil
}

// apiKeyEnvVar names the conventional environment variable for a provider.
func apiKeyEnvVar(provider string) string {
	switch provider {
	case "anthropic":
		return "ANTHROPIC_API_KEY"
	case "google":
		return "GEMINI_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

// providerNeedsKey reports whether the provider authenticates with an API
// key. Bedrock uses the AWS credential chain instead.
func providerNeedsKey(provider string) bool {
	return provider != "bedrock"
}

// promptSecret asks for a secret without echoing it. Returns empty when
// stdin is not interactive.
func promptSecret(label string) string {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return ""
	}
	fmt.Fprintf(os.Stderr, "%s: ", label)
	text, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(text))
}

// writeReports renders the report in each configured format.
func writeReports(out io.Writer, cfg *config.Config, rep *models.EvaluationReport, log *slog.Logger) error {
	for _, format := range cfg.Report.Formats {
		switch strings.ToLower(strings.TrimSpace(format)) {
		case "json":
			path, err := report.SaveJSON(cfg.Report.OutputDir, rep)
			if err != nil {
				return err
			}
			log.Info("report written", "format", "json", "path", path)
		case "markdown":
			path, err := report.SaveMarkdown(cfg.Report.OutputDir, rep)
			if err != nil {
				return err
			}
			log.Info("report written", "format", "markdown", "path", path)
		case "console":
			if err := report.WriteConsole(out, rep); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unknown report format %q", format)
		}
	}
	return nil
}

// printTimeline renders the run's recorded events.
func printTimeline(out io.Writer, store *observability.MemoryEventStore, runID string) {
	events, err := store.GetByRunID(runID)
	if err != nil || len(events) == 0 {
		return
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, observability.FormatTimeline(observability.BuildTimeline(events)))
}

// notifyRun posts the Slack summary when notification is configured.
// Delivery failures are logged, not fatal: the evaluation already happened.
func notifyRun(ctx context.Context, cfg *config.Config, rep *models.EvaluationReport, log *slog.Logger) {
	sc := cfg.Notify.Slack
	if !sc.Enabled {
		return
	}
	notifier, err := notify.New(notify.Config{
		Token:   sc.Token,
		Channel: sc.Channel,
		Logger:  log,
	})
	if err != nil {
		log.Warn("slack notifier disabled", "error", err)
		return
	}
	if err := notifier.NotifyRun(ctx, rep); err != nil {
		log.Warn("slack notification failed", "error", err)
	}
}
