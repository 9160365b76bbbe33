package report

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/haasonsaas/huntbench/pkg/models"
)

// jsonDocument is the on-disk report shape: a flat summary object followed by
// the full per-hypothesis results.
type jsonDocument struct {
	Summary jsonSummary                   `json:"summary"`
	Results []models.HypothesisEvaluation `json:"results"`
}

type jsonSummary struct {
	RunID             string    `json:"run_id"`
	StartedAt         time.Time `json:"started_at"`
	CompletedAt       time.Time `json:"completed_at"`
	TotalHypotheses   int       `json:"total_hypotheses"`
	SuccessfulQueries int       `json:"successful_queries"`
	FailedQueries     int       `json:"failed_queries"`
	AvgPrecision      float64   `json:"avg_precision"`
	AvgRecall         float64   `json:"avg_recall"`
	AvgF1             float64   `json:"avg_f1"`
	AvgOverallScore   float64   `json:"avg_overall_score"`
	Iteration         int       `json:"iteration"`
	Improvements      string    `json:"improvements,omitempty"`
}

func renderJSON(rep *models.EvaluationReport) ([]byte, error) {
	doc := jsonDocument{
		Summary: jsonSummary{
			RunID:             rep.RunID,
			StartedAt:         rep.StartedAt,
			CompletedAt:       rep.CompletedAt,
			TotalHypotheses:   rep.TotalHypotheses,
			SuccessfulQueries: rep.SuccessfulQueries,
			FailedQueries:     rep.FailedQueries,
			AvgPrecision:      rep.AvgPrecision,
			AvgRecall:         rep.AvgRecall,
			AvgF1:             rep.AvgF1,
			AvgOverallScore:   rep.AvgOverallScore,
			Iteration:         rep.Iteration,
			Improvements:      rep.Improvements,
		},
		Results: rep.Results,
	}
	if doc.Results == nil {
		doc.Results = []models.HypothesisEvaluation{}
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return append(data, '\n'), nil
}
