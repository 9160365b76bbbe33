// Package main provides the CLI entry point for huntbench, a benchmark
// harness for LLM-generated threat hunting queries.
//
// # Basic Usage
//
//	huntbench evaluate --hypotheses hypotheses.json --outcomes outcomes.json
//	huntbench generate --hypotheses hypotheses.json --out generated_queries.json
//	huntbench synth --events 5000 --out cloudtrail.csv
//	huntbench watch --hypotheses hypotheses.json --outcomes outcomes.json
//	huntbench schema config
//
// # Environment Variables
//
//	OPENAI_API_KEY     API key for the openai provider
//	ANTHROPIC_API_KEY  API key for the anthropic provider
//	GEMINI_API_KEY     API key for the google provider
//	AWS_*              Credential chain for the bedrock provider and s3 sources
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// Build-time variables injected via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0 -X main.commit=$(git rev-parse HEAD) -X main.date=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	// Bootstrap logger; handlers rebuild it from the loaded config.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if err := buildRootCmd().Execute(); err != nil {
		slog.Error("command execution failed", "error", err)
		os.Exit(1)
	}
}

// buildRootCmd creates the root command and registers all subcommands.
func buildRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "huntbench",
		Short: "Benchmark LLM-generated threat hunting queries",
		Long: `Huntbench measures how well an LLM turns natural-language threat
hunting hypotheses into SQL. It translates each hypothesis, runs the
generated query against a CloudTrail event log, and scores the rows it
returns against expected outcomes with precision, recall, and F1.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		buildEvaluateCmd(),
		buildGenerateCmd(),
		buildSynthCmd(),
		buildSchemaCmd(),
		buildWatchCmd(),
		buildVersionCmd(),
	)

	return rootCmd
}
