package main

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/haasonsaas/huntbench/internal/config"
	"github.com/haasonsaas/huntbench/internal/loader"
	"github.com/haasonsaas/huntbench/internal/synth"
	"github.com/haasonsaas/huntbench/pkg/models"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := buildRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFixtureFile(t *testing.T, dir, name, contents string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

// writeHuntFixture lays out a complete offline evaluation: a CSV event log,
// one hypothesis, its expected outcome, a pre-generated query, and a config
// pointing reports at the temp dir.
func writeHuntFixture(t *testing.T, sql string) (configPath, dir string) {
	t.Helper()
	dir = t.TempDir()

	writeFixtureFile(t, dir, "events.csv", strings.Join([]string{
		"eventID,eventTime,eventName,sourceIPAddress,userIdentityuserName",
		"evt-1,2023-01-01T00:00:00Z,ConsoleLogin,10.0.0.1,admin",
		"evt-2,2023-01-02T00:00:00Z,RunInstances,10.0.0.2,developer",
		"evt-3,2023-01-03T00:00:00Z,ConsoleLogin,10.0.0.3,analyst",
	}, "\n"))

	writeFixtureFile(t, dir, "hypotheses.json", `[
		{"id": "hyp-001", "name": "Console logins", "hypothesis": "An attacker is signing in through the console"}
	]`)

	writeFixtureFile(t, dir, "outcomes.json", `[
		{"hyp-001": [
			{"eventID": "evt-1", "eventTime": "2023-01-01T00:00:00Z", "eventName": "ConsoleLogin", "sourceIPAddress": "10.0.0.1", "userIdentityuserName": "admin"},
			{"eventID": "evt-3", "eventTime": "2023-01-03T00:00:00Z", "eventName": "ConsoleLogin", "sourceIPAddress": "10.0.0.3", "userIdentityuserName": "analyst"}
		]}
	]`)

	queries := []models.GeneratedQuery{{
		HypothesisID:   "hyp-001",
		HypothesisName: "Console logins",
		HypothesisText: "An attacker is signing in through the console",
		SQL:            sql,
		Explanation: models.QueryExplanation{
			Interpretation: "Find console sign-in events",
			Reasoning:      "ConsoleLogin names the console sign-in action",
			Assumptions:    []string{"eventName identifies the action"},
			Confidence:     0.9,
			KeyFields:      []string{"eventName"},
		},
		GeneratedAt: time.Now().UTC(),
	}}
	if err := loader.SaveQueries(filepath.Join(dir, "queries.json"), queries); err != nil {
		t.Fatalf("SaveQueries: %v", err)
	}

	writeFixtureFile(t, dir, "huntbench.yaml", fmt.Sprintf(`
data:
  source: %s
report:
  output_dir: %s
  formats: [json, console]
`, filepath.Join(dir, "events.csv"), filepath.Join(dir, "reports")))

	return filepath.Join(dir, "huntbench.yaml"), dir
}

func TestEvaluateCommandWithPregeneratedQueries(t *testing.T) {
	configPath, dir := writeHuntFixture(t,
		"SELECT * FROM cloudtrail_logs WHERE eventName = 'ConsoleLogin'")

	out, err := execute(t, "evaluate",
		"--config", configPath,
		"--hypotheses", filepath.Join(dir, "hypotheses.json"),
		"--outcomes", filepath.Join(dir, "outcomes.json"),
		"--queries", filepath.Join(dir, "queries.json"),
		"--timeline",
	)
	if err != nil {
		t.Fatalf("evaluate: %v\noutput:\n%s", err, out)
	}
	if !strings.Contains(out, "EVALUATION SUMMARY") {
		t.Errorf("output missing console summary:\n%s", out)
	}
	if !strings.Contains(out, "Timeline for Run") {
		t.Errorf("output missing timeline:\n%s", out)
	}

	data, err := os.ReadFile(filepath.Join(dir, "reports", "evaluation_results_iter1.json"))
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var doc struct {
		Summary struct {
			TotalHypotheses   int     `json:"total_hypotheses"`
			SuccessfulQueries int     `json:"successful_queries"`
			AvgF1             float64 `json:"avg_f1"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("decode report: %v", err)
	}
	if doc.Summary.TotalHypotheses != 1 || doc.Summary.SuccessfulQueries != 1 {
		t.Errorf("summary = %+v, want 1 hypothesis, 1 success", doc.Summary)
	}
	if doc.Summary.AvgF1 != 1.0 {
		t.Errorf("avg_f1 = %v, want 1.0 for an exact match", doc.Summary.AvgF1)
	}
}

func TestEvaluateCommandFailsSuccessGate(t *testing.T) {
	configPath, dir := writeHuntFixture(t, "SELECT FROM WHERE")

	out, err := execute(t, "evaluate",
		"--config", configPath,
		"--hypotheses", filepath.Join(dir, "hypotheses.json"),
		"--outcomes", filepath.Join(dir, "outcomes.json"),
		"--queries", filepath.Join(dir, "queries.json"),
	)
	if err == nil {
		t.Fatalf("expected gate failure, got success\noutput:\n%s", out)
	}
	if !strings.Contains(err.Error(), "below the required") {
		t.Errorf("err = %v, want success-rate gate message", err)
	}
}

func TestEvaluateCommandGateDisabled(t *testing.T) {
	configPath, dir := writeHuntFixture(t, "SELECT FROM WHERE")

	_, err := execute(t, "evaluate",
		"--config", configPath,
		"--hypotheses", filepath.Join(dir, "hypotheses.json"),
		"--outcomes", filepath.Join(dir, "outcomes.json"),
		"--queries", filepath.Join(dir, "queries.json"),
		"--min-success-rate=-1",
	)
	if err != nil {
		t.Fatalf("expected success with the gate disabled, got %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	want := "huntbench dev (commit: none, built: unknown)\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestSchemaCommand(t *testing.T) {
	for _, document := range []string{"hypotheses", "queries", "outcomes", "config"} {
		t.Run(document, func(t *testing.T) {
			out, err := execute(t, "schema", document)
			if err != nil {
				t.Fatalf("schema %s: %v", document, err)
			}
			if !json.Valid([]byte(out)) {
				t.Errorf("schema %s output is not valid JSON", document)
			}
		})
	}
}

func TestSchemaCommandUnknownDocument(t *testing.T) {
	_, err := execute(t, "schema", "bogus")
	if err == nil || !strings.Contains(err.Error(), "unknown document") {
		t.Fatalf("err = %v, want unknown document error", err)
	}
}

func TestSynthCommandWritesCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "events.csv")

	output, err := execute(t, "synth", "--events", "50", "--seed", "7", "--out", out)
	if err != nil {
		t.Fatalf("synth: %v", err)
	}
	if !strings.Contains(output, "Wrote 50 synthetic events") {
		t.Errorf("output = %q, want written-count message", output)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("parse output: %v", err)
	}
	if got, want := len(records), 51; got != want {
		t.Fatalf("rows = %d (incl. header), want %d", got, want)
	}
	if got, want := strings.Join(records[0], ","), strings.Join(synth.Columns(), ","); got != want {
		t.Errorf("header = %s, want %s", got, want)
	}
}

func TestLoadConfigDefaultsWhenFileAbsent(t *testing.T) {
	cfg, err := loadConfig(defaultConfigName)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Translator.Provider != "openai" {
		t.Errorf("provider = %q, want openai default", cfg.Translator.Provider)
	}
	if cfg.Report.MinSuccessRate != 0.8 {
		t.Errorf("min success rate = %v, want 0.8 default", cfg.Report.MinSuccessRate)
	}
}

func TestLoadConfigMissingExplicitPath(t *testing.T) {
	if _, err := loadConfig(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for a missing explicit config path")
	}
}

func TestLoadConfigReadsFile(t *testing.T) {
	path := writeFixtureFile(t, t.TempDir(), "huntbench.yaml", `
translator:
  provider: anthropic
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Translator.Provider != "anthropic" {
		t.Errorf("provider = %q, want anthropic", cfg.Translator.Provider)
	}
	if len(cfg.Report.Formats) != 3 {
		t.Errorf("formats = %v, want the three defaults", cfg.Report.Formats)
	}
}

func TestQueryDialect(t *testing.T) {
	tests := []struct {
		source string
		want   string
	}{
		{"postgres://hunter@db/trail", "PostgreSQL"},
		{"postgresql://hunter@db/trail", "PostgreSQL"},
		{"s3://bucket/logs.csv", "SQLite"},
		{"events.csv", "SQLite"},
		{"", "SQLite"},
	}
	for _, tt := range tests {
		if got := queryDialect(tt.source); got != tt.want {
			t.Errorf("queryDialect(%q) = %q, want %q", tt.source, got, tt.want)
		}
	}
}

func TestAPIKeyEnvVar(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"openai", "OPENAI_API_KEY"},
		{"anthropic", "ANTHROPIC_API_KEY"},
		{"google", "GEMINI_API_KEY"},
	}
	for _, tt := range tests {
		if got := apiKeyEnvVar(tt.provider); got != tt.want {
			t.Errorf("apiKeyEnvVar(%q) = %q, want %q", tt.provider, got, tt.want)
		}
	}
}

func TestProviderNeedsKey(t *testing.T) {
	if providerNeedsKey("bedrock") {
		t.Error("bedrock should use the AWS credential chain, not an API key")
	}
	if !providerNeedsKey("openai") {
		t.Error("openai requires an API key")
	}
}

func TestWatchPaths(t *testing.T) {
	tests := []struct {
		name   string
		opts   watchOptions
		source string
		want   []string
	}{
		{
			name:   "csv source watched",
			opts:   watchOptions{hypothesesPath: "h.json", outcomesPath: "o.json"},
			source: "events.csv",
			want:   []string{"h.json", "o.json", "events.csv"},
		},
		{
			name:   "postgres source skipped",
			opts:   watchOptions{hypothesesPath: "h.json", outcomesPath: "o.json"},
			source: "postgres://hunter@db/trail",
			want:   []string{"h.json", "o.json"},
		},
		{
			name:   "s3 source skipped",
			opts:   watchOptions{hypothesesPath: "h.json", outcomesPath: "o.json"},
			source: "s3://bucket/logs.csv",
			want:   []string{"h.json", "o.json"},
		},
		{
			name:   "queries file watched",
			opts:   watchOptions{hypothesesPath: "h.json", outcomesPath: "o.json", queriesPath: "q.json"},
			source: "",
			want:   []string{"h.json", "o.json", "q.json"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Data.Source = tt.source

			got := watchPaths(tt.opts, cfg)
			if len(got) != len(tt.want) {
				t.Fatalf("paths = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("paths[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}
