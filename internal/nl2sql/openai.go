package nl2sql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// defaultOpenAIModel balances SQL quality against cost for hunt queries.
const defaultOpenAIModel = "gpt-4o"

// OpenAITranslator translates hypotheses using OpenAI chat models.
//
// Translations run as single non-streaming completions with a low
// temperature: the same hypothesis should produce the same query across
// runs. Transient failures (rate limits, 5xx) retry with linear backoff.
//
// Thread Safety:
// OpenAITranslator is safe for concurrent use across multiple goroutines.
//
// Example:
//
//	tr, err := NewOpenAITranslator(Config{APIKey: os.Getenv("OPENAI_API_KEY")})
//	if err != nil {
//	    return err
//	}
//	res, err := tr.Translate(ctx, Request{Hypothesis: hyp})
type OpenAITranslator struct {
	client      *openai.Client
	model       string
	temperature float64
	maxTokens   int
	retry       retrier
}

// NewOpenAITranslator creates an OpenAI-backed translator.
// cfg.BaseURL points the client at a compatible proxy when set.
func NewOpenAITranslator(cfg Config) (*OpenAITranslator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai: API key is required")
	}
	cfg = cfg.withDefaults()

	var client *openai.Client
	if strings.TrimSpace(cfg.BaseURL) != "" {
		clientCfg := openai.DefaultConfig(cfg.APIKey)
		clientCfg.BaseURL = cfg.BaseURL
		client = openai.NewClientWithConfig(clientCfg)
	} else {
		client = openai.NewClient(cfg.APIKey)
	}

	model := cfg.Model
	if model == "" {
		model = defaultOpenAIModel
	}

	return &OpenAITranslator{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		retry:       newRetrier(cfg.MaxRetries, cfg.RetryDelay),
	}, nil
}

// Name returns the provider identifier.
func (t *OpenAITranslator) Name() string {
	return "openai"
}

// Model returns the chat model requests are sent to.
func (t *OpenAITranslator) Model() string {
	return t.model
}

// Translate sends the hypothesis to the model and parses the reply.
func (t *OpenAITranslator) Translate(ctx context.Context, req Request) (*Result, error) {
	chatReq := openai.ChatCompletionRequest{
		Model:       t.model,
		Temperature: float32(t.temperature),
		MaxTokens:   t.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt(req.Hypothesis)},
		},
	}

	var resp openai.ChatCompletionResponse
	err := t.retry.do(ctx, IsRetryable, func() error {
		var err error
		resp, err = t.client.CreateChatCompletion(ctx, chatReq)
		return err
	})
	if err != nil {
		return nil, NewTranslateError("openai", t.model, err)
	}
	if len(resp.Choices) == 0 {
		return nil, NewTranslateError("openai", t.model, fmt.Errorf("empty response"))
	}

	model := resp.Model
	if model == "" {
		model = t.model
	}
	return finishResult(resp.Choices[0].Message.Content, req, model,
		resp.Usage.PromptTokens, resp.Usage.CompletionTokens), nil
}
