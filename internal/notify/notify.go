// Package notify posts evaluation run summaries to Slack.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/slack-go/slack"

	"github.com/haasonsaas/huntbench/pkg/models"
)

// PostClient is the message-posting subset of the Slack API used here.
// The concrete *slack.Client satisfies it; tests inject doubles.
type PostClient interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slack.MsgOption) (string, string, error)
}

var _ PostClient = (*slack.Client)(nil)

// Config configures the Slack notifier.
type Config struct {
	Token   string
	Channel string

	// Logger receives delivery diagnostics. Nil means slog.Default().
	Logger *slog.Logger

	// Client overrides the API client built from Token.
	Client PostClient
}

// Notifier posts one message per evaluation run.
type Notifier struct {
	client  PostClient
	channel string
	logger  *slog.Logger
}

// New builds a Slack notifier. Channel is required; Token is required unless
// a client override is supplied.
func New(cfg Config) (*Notifier, error) {
	if strings.TrimSpace(cfg.Channel) == "" {
		return nil, fmt.Errorf("slack channel is required")
	}
	client := cfg.Client
	if client == nil {
		if strings.TrimSpace(cfg.Token) == "" {
			return nil, fmt.Errorf("slack token is required")
		}
		client = slack.New(cfg.Token)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Notifier{
		client:  client,
		channel: cfg.Channel,
		logger:  logger.With("component", "notify"),
	}, nil
}

// NotifyRun posts the run summary to the configured channel.
func (n *Notifier) NotifyRun(ctx context.Context, rep *models.EvaluationReport) error {
	_, _, err := n.client.PostMessageContext(ctx, n.channel, runMessage(rep)...)
	if err != nil {
		n.logger.Error("slack notification failed", "channel", n.channel, "error", err)
		return fmt.Errorf("post slack message: %w", err)
	}
	n.logger.Info("slack notification sent", "channel", n.channel, "run_id", rep.RunID)
	return nil
}

// runMessage renders the report as Block Kit blocks with a plain-text
// fallback for notification previews.
func runMessage(rep *models.EvaluationReport) []slack.MsgOption {
	headline := fmt.Sprintf("Hunt evaluation: iteration %d", rep.Iteration)

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject("plain_text", headline, false, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject("mrkdwn", summaryText(rep), false, false), nil, nil),
	}
	if failures := failureLine(rep, 5); failures != "" {
		blocks = append(blocks, slack.NewContextBlock("",
			slack.NewTextBlockObject("mrkdwn", failures, false, false),
		))
	}

	return []slack.MsgOption{
		slack.MsgOptionBlocks(blocks...),
		slack.MsgOptionText(summaryText(rep), false),
	}
}

func summaryText(rep *models.EvaluationReport) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("*Queries:* %d/%d succeeded (%.0f%%)\n",
		rep.SuccessfulQueries, rep.TotalHypotheses, rep.SuccessRate()*100))
	sb.WriteString(fmt.Sprintf("*Precision:* %.3f  *Recall:* %.3f  *F1:* %.3f\n",
		rep.AvgPrecision, rep.AvgRecall, rep.AvgF1))
	sb.WriteString(fmt.Sprintf("*Overall:* %.3f", rep.AvgOverallScore))
	return sb.String()
}

// failureLine lists failed hypothesis IDs, capped at max. Empty when the run
// was clean.
func failureLine(rep *models.EvaluationReport, max int) string {
	var failed []string
	for i := range rep.Results {
		if !rep.Results[i].Succeeded() {
			failed = append(failed, rep.Results[i].HypothesisID)
		}
	}
	if len(failed) == 0 {
		return ""
	}
	shown := failed
	suffix := ""
	if len(failed) > max {
		shown = failed[:max]
		suffix = fmt.Sprintf(" +%d more", len(failed)-max)
	}
	return "Failed: " + strings.Join(shown, ", ") + suffix
}
