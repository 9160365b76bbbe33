// Package main provides the CLI entry point for huntbench, a benchmark
// harness for LLM-generated threat hunting queries.
//
// commands.go contains all cobra command definitions and their flag
// configurations. Each command builder creates a command and wires it to
// its handler in handlers.go.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// =============================================================================
// Evaluate Command
// =============================================================================

// buildEvaluateCmd creates the "evaluate" command that runs the full
// benchmark pipeline. This is the primary command.
func buildEvaluateCmd() *cobra.Command {
	var opts evaluateOptions

	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run hypotheses against event data and score the results",
		Long: `Run the full hypothesis evaluation pipeline against an event dataset.

The pipeline will:
1. Load configuration, hypotheses, and expected outcomes
2. Load event data from a CSV file, S3 object, or Postgres table
3. Translate each hypothesis to SQL via the configured LLM provider,
   or load pre-generated queries with --queries
4. Execute every query and score the returned rows against expectations
5. Write JSON and Markdown reports and print a console summary

The command exits non-zero when the query success rate falls below the
configured minimum, so it can gate CI pipelines.`,
		Example: `  # Evaluate with inline translation
  huntbench evaluate --hypotheses hypotheses.json --outcomes outcomes.json

  # Score pre-generated queries, skipping the LLM entirely
  huntbench evaluate --hypotheses hypotheses.json --outcomes outcomes.json \
    --queries generated_queries.json

  # Query a Postgres event table instead of a local CSV
  huntbench evaluate --data postgres://hunter@db/trail \
    --hypotheses hypotheses.json --outcomes outcomes.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.minSuccessRateSet = cmd.Flags().Changed("min-success-rate")
			return runEvaluate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", defaultConfigName,
		"Path to YAML configuration file")
	cmd.Flags().StringVar(&opts.hypothesesPath, "hypotheses", "",
		"Path to the hypotheses JSON document")
	cmd.Flags().StringVar(&opts.outcomesPath, "outcomes", "",
		"Path to the expected outcomes JSON document")
	cmd.Flags().StringVar(&opts.queriesPath, "queries", "",
		"Path to pre-generated queries (skips translation)")
	cmd.Flags().StringVar(&opts.dataSource, "data", "",
		"Event source: CSV path, s3:// URI, or postgres:// DSN (overrides config)")
	cmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", "",
		"Directory for JSON and Markdown reports (overrides config)")
	cmd.Flags().IntVar(&opts.iteration, "iteration", 0,
		"Iteration number stamped on report file names")
	cmd.Flags().Float64Var(&opts.minSuccessRate, "min-success-rate", 0,
		"Fail the run when the success rate drops below this fraction")
	cmd.Flags().BoolVar(&opts.timeline, "timeline", false,
		"Print the run event timeline after the summary")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false,
		"Enable debug logging (verbose output)")
	cobra.CheckErr(cmd.MarkFlagRequired("hypotheses"))
	cobra.CheckErr(cmd.MarkFlagRequired("outcomes"))

	return cmd
}

// =============================================================================
// Generate Command
// =============================================================================

// buildGenerateCmd creates the "generate" command that translates hypotheses
// without evaluating them.
func buildGenerateCmd() *cobra.Command {
	var opts generateOptions

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Translate hypotheses to SQL and save the generated queries",
		Long: `Translate each hypothesis to a SQL query via the configured LLM provider
and write the results to a generated-queries file.

The file can be fed back to "evaluate --queries" to score the same
translations repeatedly without paying for new provider calls.`,
		Example: `  # Translate with the configured provider
  huntbench generate --hypotheses hypotheses.json

  # Override the provider and model for one run
  huntbench generate --hypotheses hypotheses.json --provider anthropic \
    --model claude-sonnet-4-20250514`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", defaultConfigName,
		"Path to YAML configuration file")
	cmd.Flags().StringVar(&opts.hypothesesPath, "hypotheses", "",
		"Path to the hypotheses JSON document")
	cmd.Flags().StringVar(&opts.outPath, "out", "generated_queries.json",
		"Path for the generated-queries file")
	cmd.Flags().StringVar(&opts.provider, "provider", "",
		"LLM provider: openai, anthropic, bedrock, or google (overrides config)")
	cmd.Flags().StringVar(&opts.model, "model", "",
		"Model name (overrides the provider default)")
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false,
		"Enable debug logging (verbose output)")
	cobra.CheckErr(cmd.MarkFlagRequired("hypotheses"))

	return cmd
}

// =============================================================================
// Synth Command
// =============================================================================

// buildSynthCmd creates the "synth" command that writes a synthetic
// CloudTrail dataset.
func buildSynthCmd() *cobra.Command {
	var opts synthOptions

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate a synthetic CloudTrail CSV dataset",
		Long: `Generate a synthetic CloudTrail event log with planted threat patterns:
failed logins, root console access, CloudTrail tampering, enumeration,
secrets access, cryptomining-sized instances, S3 brute force, suspicious
user agents, and access key creation.

Output is deterministic for a given seed, so datasets can be regenerated
exactly for regression runs.`,
		Example: `  # Default 1000-event dataset
  huntbench synth

  # Larger dataset with a fixed seed
  huntbench synth --events 5000 --seed 7 --out testdata/cloudtrail.csv

  # Baseline traffic only, no threats
  huntbench synth --no-threats`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSynth(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.events, "events", 1000,
		"Number of events to generate")
	cmd.Flags().Float64Var(&opts.threatRatio, "threat-ratio", 0.2,
		"Fraction of events drawn from threat archetypes")
	cmd.Flags().BoolVar(&opts.noThreats, "no-threats", false,
		"Generate baseline traffic only")
	cmd.Flags().Int64Var(&opts.seed, "seed", 42,
		"Random seed for reproducible output")
	cmd.Flags().StringVar(&opts.out, "out", "synthetic_cloudtrail_logs.csv",
		"Output CSV path")

	return cmd
}

// =============================================================================
// Schema Command
// =============================================================================

// buildSchemaCmd creates the "schema" command that prints document schemas.
func buildSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema <document>",
		Short:     "Print the JSON Schema for an input document",
		ValidArgs: []string{"hypotheses", "queries", "outcomes", "config"},
		Args:      cobra.ExactArgs(1),
		Long: `Print the JSON Schema a huntbench input document is validated against.

Documents: hypotheses, queries, outcomes, config.`,
		Example: `  huntbench schema hypotheses
  huntbench schema config > config.schema.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(cmd, args[0])
		},
	}
}

// =============================================================================
// Watch Command
// =============================================================================

// buildWatchCmd creates the "watch" command for continuous evaluation.
func buildWatchCmd() *cobra.Command {
	var opts watchOptions

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run the evaluation whenever hunt inputs change",
		Long: `Watch the hypotheses, outcomes, and data files and re-run the evaluation
whenever one of them changes. Bursts of file events are debounced into a
single run.

A schedule adds time-based runs on top of file triggers: "every 30m",
"at 06:00", or a cron expression. When a metrics listen address is
configured, Prometheus metrics are served on /metrics for the lifetime
of the watch.

Runs until interrupted with SIGINT or SIGTERM.`,
		Example: `  # Re-evaluate on every edit
  huntbench watch --hypotheses hypotheses.json --outcomes outcomes.json

  # Nightly run on top of file triggers
  huntbench watch --hypotheses hypotheses.json --outcomes outcomes.json \
    --schedule "at 02:00"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", defaultConfigName,
		"Path to YAML configuration file")
	cmd.Flags().StringVar(&opts.hypothesesPath, "hypotheses", "",
		"Path to the hypotheses JSON document")
	cmd.Flags().StringVar(&opts.outcomesPath, "outcomes", "",
		"Path to the expected outcomes JSON document")
	cmd.Flags().StringVar(&opts.queriesPath, "queries", "",
		"Path to pre-generated queries (skips translation)")
	cmd.Flags().StringVar(&opts.dataSource, "data", "",
		"Event source: CSV path, s3:// URI, or postgres:// DSN (overrides config)")
	cmd.Flags().StringVar(&opts.scheduleExpr, "schedule", "",
		`Time-based trigger: "every <duration>", "at HH:MM", or cron (overrides config)`)
	cmd.Flags().BoolVarP(&opts.debug, "debug", "d", false,
		"Enable debug logging (verbose output)")
	cobra.CheckErr(cmd.MarkFlagRequired("hypotheses"))
	cobra.CheckErr(cmd.MarkFlagRequired("outcomes"))

	return cmd
}

// =============================================================================
// Version Command
// =============================================================================

func buildVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "huntbench %s (commit: %s, built: %s)\n",
				version, commit, date)
		},
	}
}
