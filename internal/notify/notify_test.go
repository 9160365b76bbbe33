package notify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/slack-go/slack"

	"github.com/haasonsaas/huntbench/pkg/models"
)

type fakePostClient struct {
	calls   int
	channel string
	err     error
}

func (f *fakePostClient) PostMessageContext(_ context.Context, channelID string, options ...slack.MsgOption) (string, string, error) {
	f.calls++
	f.channel = channelID
	if f.err != nil {
		return "", "", f.err
	}
	return channelID, "1234567890.123456", nil
}

func sampleReport() *models.EvaluationReport {
	return &models.EvaluationReport{
		RunID:             "run-123",
		Iteration:         2,
		TotalHypotheses:   10,
		SuccessfulQueries: 8,
		FailedQueries:     2,
		AvgPrecision:      0.812,
		AvgRecall:         0.744,
		AvgF1:             0.767,
		AvgOverallScore:   0.731,
		Results: []models.HypothesisEvaluation{
			{HypothesisID: "hyp-001", Status: models.StatusEvaluated},
			{HypothesisID: "hyp-003", Status: models.StatusFailed},
			{HypothesisID: "hyp-007", Status: models.StatusFailed},
		},
	}
}

func TestNewValidatesConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "missing channel", cfg: Config{Token: "xoxb-test"}, wantErr: "channel"},
		{name: "missing token", cfg: Config{Channel: "C123"}, wantErr: "token"},
		{name: "token and channel", cfg: Config{Token: "xoxb-test", Channel: "C123"}},
		{name: "client override skips token", cfg: Config{Channel: "C123", Client: &fakePostClient{}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("New() error = %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("New() expected error containing %q", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("New() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestNotifyRunPostsToChannel(t *testing.T) {
	fake := &fakePostClient{}
	n, err := New(Config{Channel: "C123", Client: fake})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := n.NotifyRun(context.Background(), sampleReport()); err != nil {
		t.Fatalf("NotifyRun() error = %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("calls = %d, want 1", fake.calls)
	}
	if fake.channel != "C123" {
		t.Errorf("channel = %q, want C123", fake.channel)
	}
}

func TestNotifyRunWrapsError(t *testing.T) {
	fake := &fakePostClient{err: errors.New("channel_not_found")}
	n, err := New(Config{Channel: "C123", Client: fake})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = n.NotifyRun(context.Background(), sampleReport())
	if err == nil {
		t.Fatalf("NotifyRun() expected error")
	}
	if !strings.Contains(err.Error(), "post slack message") {
		t.Errorf("error = %v, want post slack message wrap", err)
	}
	if !strings.Contains(err.Error(), "channel_not_found") {
		t.Errorf("error = %v, want cause preserved", err)
	}
}

func TestSummaryText(t *testing.T) {
	text := summaryText(sampleReport())

	for _, fragment := range []string{"8/10", "(80%)", "0.812", "0.744", "0.767", "0.731"} {
		if !strings.Contains(text, fragment) {
			t.Errorf("summary missing %q in %q", fragment, text)
		}
	}
}

func TestFailureLine(t *testing.T) {
	rep := sampleReport()

	line := failureLine(rep, 5)
	if want := "Failed: hyp-003, hyp-007"; line != want {
		t.Errorf("failureLine() = %q, want %q", line, want)
	}

	if got := failureLine(rep, 1); got != "Failed: hyp-003 +1 more" {
		t.Errorf("capped failureLine() = %q", got)
	}

	clean := &models.EvaluationReport{
		Results: []models.HypothesisEvaluation{{HypothesisID: "hyp-001", Status: models.StatusEvaluated}},
	}
	if got := failureLine(clean, 5); got != "" {
		t.Errorf("failureLine() on clean run = %q, want empty", got)
	}
}
