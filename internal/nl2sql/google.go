package nl2sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGoogleModel = "gemini-2.0-flash"

// GoogleTranslator translates hypotheses using Google Gemini models via the
// Gen AI SDK. Safe for concurrent use.
type GoogleTranslator struct {
	client      *genai.Client
	model       string
	temperature float64
	maxTokens   int
	retry       retrier
}

// NewGoogleTranslator creates a Gemini-backed translator.
func NewGoogleTranslator(cfg Config) (*GoogleTranslator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("google: API key is required")
	}
	cfg = cfg.withDefaults()

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("google: failed to create client: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultGoogleModel
	}

	return &GoogleTranslator{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		retry:       newRetrier(cfg.MaxRetries, cfg.RetryDelay),
	}, nil
}

// Name returns the provider identifier.
func (t *GoogleTranslator) Name() string {
	return "google"
}

// Model returns the Gemini model requests are sent to.
func (t *GoogleTranslator) Model() string {
	return t.model
}

// Translate sends the hypothesis to the model and parses the reply.
func (t *GoogleTranslator) Translate(ctx context.Context, req Request) (*Result, error) {
	temperature := float32(t.temperature)
	genCfg := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemPrompt(req)}},
		},
		Temperature: &temperature,
	}
	if t.maxTokens > 0 {
		genCfg.MaxOutputTokens = int32(t.maxTokens)
	}

	contents := []*genai.Content{
		{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: userPrompt(req.Hypothesis)}},
		},
	}

	var resp *genai.GenerateContentResponse
	err := t.retry.do(ctx, IsRetryable, func() error {
		var err error
		resp, err = t.client.Models.GenerateContent(ctx, t.model, contents, genCfg)
		return err
	})
	if err != nil {
		return nil, NewTranslateError("google", t.model, err)
	}

	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.Text != "" {
				sb.WriteString(part.Text)
			}
		}
	}
	if sb.Len() == 0 {
		return nil, NewTranslateError("google", t.model, fmt.Errorf("empty response"))
	}

	var promptTokens, completionTokens int
	if resp.UsageMetadata != nil {
		promptTokens = int(resp.UsageMetadata.PromptTokenCount)
		completionTokens = int(resp.UsageMetadata.CandidatesTokenCount)
	}
	return finishResult(sb.String(), req, t.model, promptTokens, completionTokens), nil
}
