package nl2sql

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime/types"
)

const defaultBedrockModel = "anthropic.claude-3-sonnet-20240229-v1:0"

// BedrockTranslator translates hypotheses via AWS Bedrock's Converse API.
// Authentication uses explicit credentials when provided, otherwise the
// default AWS credential chain. Safe for concurrent use.
type BedrockTranslator struct {
	client      *bedrockruntime.Client
	model       string
	temperature float64
	maxTokens   int
	retry       retrier
}

// NewBedrockTranslator creates a Bedrock-backed translator.
func NewBedrockTranslator(cfg Config) (*BedrockTranslator, error) {
	cfg = cfg.withDefaults()

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		awsCfg, err = config.LoadDefaultConfig(context.Background(),
			config.WithRegion(region),
			config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				cfg.AccessKeyID,
				cfg.SecretAccessKey,
				cfg.SessionToken,
			)),
		)
	} else {
		awsCfg, err = config.LoadDefaultConfig(context.Background(),
			config.WithRegion(region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("bedrock: failed to load AWS config: %w", err)
	}

	model := cfg.Model
	if model == "" {
		model = defaultBedrockModel
	}

	return &BedrockTranslator{
		client:      bedrockruntime.NewFromConfig(awsCfg),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		retry:       newRetrier(cfg.MaxRetries, cfg.RetryDelay),
	}, nil
}

// Name returns the provider identifier.
func (t *BedrockTranslator) Name() string {
	return "bedrock"
}

// Model returns the Bedrock model ID requests are sent to.
func (t *BedrockTranslator) Model() string {
	return t.model
}

// Translate sends the hypothesis to the model and parses the reply.
func (t *BedrockTranslator) Translate(ctx context.Context, req Request) (*Result, error) {
	input := &bedrockruntime.ConverseInput{
		ModelId: aws.String(t.model),
		System: []types.SystemContentBlock{
			&types.SystemContentBlockMemberText{Value: systemPrompt(req)},
		},
		Messages: []types.Message{
			{
				Role: types.ConversationRoleUser,
				Content: []types.ContentBlock{
					&types.ContentBlockMemberText{Value: userPrompt(req.Hypothesis)},
				},
			},
		},
		InferenceConfig: &types.InferenceConfiguration{
			MaxTokens:   aws.Int32(int32(t.maxTokens)),
			Temperature: aws.Float32(float32(t.temperature)),
		},
	}

	var out *bedrockruntime.ConverseOutput
	err := t.retry.do(ctx, IsRetryable, func() error {
		var err error
		out, err = t.client.Converse(ctx, input)
		return err
	})
	if err != nil {
		return nil, NewTranslateError("bedrock", t.model, err)
	}

	msg, ok := out.Output.(*types.ConverseOutputMemberMessage)
	if !ok {
		return nil, NewTranslateError("bedrock", t.model, fmt.Errorf("unexpected output type %T", out.Output))
	}

	var sb strings.Builder
	for _, block := range msg.Value.Content {
		if text, ok := block.(*types.ContentBlockMemberText); ok {
			sb.WriteString(text.Value)
		}
	}
	if sb.Len() == 0 {
		return nil, NewTranslateError("bedrock", t.model, fmt.Errorf("empty response"))
	}

	var promptTokens, completionTokens int
	if out.Usage != nil {
		promptTokens = int(aws.ToInt32(out.Usage.InputTokens))
		completionTokens = int(aws.ToInt32(out.Usage.OutputTokens))
	}
	return finishResult(sb.String(), req, t.model, promptTokens, completionTokens), nil
}
