package nl2sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const defaultAnthropicModel = "claude-sonnet-4-20250514"

// AnthropicTranslator translates hypotheses using Anthropic Claude models.
// Safe for concurrent use.
type AnthropicTranslator struct {
	client      anthropic.Client
	model       string
	temperature float64
	maxTokens   int
	retry       retrier
}

// NewAnthropicTranslator creates an Anthropic-backed translator.
func NewAnthropicTranslator(cfg Config) (*AnthropicTranslator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("anthropic: API key is required")
	}
	cfg = cfg.withDefaults()

	options := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if strings.TrimSpace(cfg.BaseURL) != "" {
		options = append(options, option.WithBaseURL(cfg.BaseURL))
	}

	model := cfg.Model
	if model == "" {
		model = defaultAnthropicModel
	}

	return &AnthropicTranslator{
		client:      anthropic.NewClient(options...),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		retry:       newRetrier(cfg.MaxRetries, cfg.RetryDelay),
	}, nil
}

// Name returns the provider identifier.
func (t *AnthropicTranslator) Name() string {
	return "anthropic"
}

// Model returns the model requests are sent to.
func (t *AnthropicTranslator) Model() string {
	return t.model
}

// Translate sends the hypothesis to the model and parses the reply.
func (t *AnthropicTranslator) Translate(ctx context.Context, req Request) (*Result, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(t.model),
		MaxTokens:   int64(t.maxTokens),
		Temperature: anthropic.Float(t.temperature),
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: systemPrompt(req)},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(userPrompt(req.Hypothesis))),
		},
	}

	var message *anthropic.Message
	err := t.retry.do(ctx, IsRetryable, func() error {
		var err error
		message, err = t.client.Messages.New(ctx, params)
		return err
	})
	if err != nil {
		return nil, NewTranslateError("anthropic", t.model, err)
	}

	var sb strings.Builder
	for _, block := range message.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return nil, NewTranslateError("anthropic", t.model, fmt.Errorf("empty response"))
	}

	model := string(message.Model)
	if model == "" {
		model = t.model
	}
	return finishResult(sb.String(), req, model,
		int(message.Usage.InputTokens), int(message.Usage.OutputTokens)), nil
}
