// Package nl2sql translates natural-language threat hunting hypotheses
// into SQL queries over an event table.
//
// A Translator wraps one LLM provider (OpenAI, Anthropic, AWS Bedrock, or
// Google Gemini). The prompt embeds the event table schema and demands a
// strict JSON reply; replies that cannot be decoded degrade to a fallback
// exploratory query with zero confidence rather than an error, so a broken
// translation is still a scorable data point.
package nl2sql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/haasonsaas/huntbench/pkg/models"
)

// Request carries one hypothesis plus the prompt context for translating it.
type Request struct {
	// Hypothesis is the claim to translate.
	Hypothesis models.Hypothesis

	// Table is the event table name queries must target.
	// Defaults to "cloudtrail_logs".
	Table string

	// Dialect names the SQL flavor in the prompt ("SQLite", "Postgres").
	// Defaults to "SQLite".
	Dialect string
}

func (r Request) table() string {
	if strings.TrimSpace(r.Table) == "" {
		return "cloudtrail_logs"
	}
	return r.Table
}

func (r Request) dialect() string {
	if strings.TrimSpace(r.Dialect) == "" {
		return "SQLite"
	}
	return r.Dialect
}

// Result is one parsed translation.
type Result struct {
	// SQL is the generated query. Empty when the model decoded cleanly but
	// omitted a query; the evaluator scores that as an execution failure.
	SQL string

	// Explanation is the model's structured reasoning.
	Explanation models.QueryExplanation

	// RawResponse preserves the unparsed model output for debugging.
	RawResponse string

	// Model is the model that produced the response.
	Model string

	// Fallback is true when the response could not be decoded and SQL holds
	// the exploratory fallback query.
	Fallback bool

	// Token usage as reported by the provider, zero when unavailable.
	PromptTokens     int
	CompletionTokens int
}

// Translator turns one hypothesis into a SQL query with explanation.
type Translator interface {
	// Name returns the provider identifier ("openai", "anthropic", ...).
	Name() string

	// Model returns the model requests are sent to.
	Model() string

	// Translate sends the hypothesis to the model and parses the reply.
	Translate(ctx context.Context, req Request) (*Result, error)
}

// Config selects and configures a translation provider.
type Config struct {
	// Provider is one of "openai" (default), "anthropic", "bedrock",
	// "google".
	Provider string

	// Model overrides the provider's default model.
	Model string

	// APIKey authenticates openai/anthropic/google requests.
	APIKey string

	// BaseURL overrides the API endpoint (openai, anthropic).
	BaseURL string

	// Temperature defaults to 0.1: low for consistency across runs.
	Temperature float64

	// MaxTokens caps the completion length. Defaults to 2000.
	MaxTokens int

	// MaxRetries for transient failures. Defaults to 3.
	MaxRetries int

	// RetryDelay is the base backoff delay. Defaults to 1 second.
	RetryDelay time.Duration

	// AWS settings, used by the bedrock provider.
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
}

func (c Config) withDefaults() Config {
	if c.Temperature <= 0 {
		c.Temperature = 0.1
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = 2000
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.RetryDelay <= 0 {
		c.RetryDelay = time.Second
	}
	return c
}

// New builds the translator named by cfg.Provider.
func New(cfg Config) (Translator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openai":
		return NewOpenAITranslator(cfg)
	case "anthropic":
		return NewAnthropicTranslator(cfg)
	case "bedrock":
		return NewBedrockTranslator(cfg)
	case "google", "gemini":
		return NewGoogleTranslator(cfg)
	default:
		return nil, fmt.Errorf("unknown translator provider %q", cfg.Provider)
	}
}
