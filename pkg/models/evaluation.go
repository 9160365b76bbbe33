package models

import (
	"time"
)

// EvaluationStatus tracks a hypothesis evaluation through its lifecycle.
type EvaluationStatus string

const (
	// StatusPending means the hypothesis has not started evaluating.
	StatusPending EvaluationStatus = "pending"
	// StatusExecuting means the generated query is running.
	StatusExecuting EvaluationStatus = "executing"
	// StatusEvaluated means metrics were computed successfully.
	StatusEvaluated EvaluationStatus = "evaluated"
	// StatusFailed means query execution or key derivation failed;
	// metrics are zero-filled and Error carries the cause.
	StatusFailed EvaluationStatus = "failed"
)

// HypothesisEvaluation is the immutable per-hypothesis result record.
// A failed evaluation still produces one of these: failures are data,
// never control flow, once they reach the batch boundary.
type HypothesisEvaluation struct {
	HypothesisID   string           `json:"hypothesis_id"`
	HypothesisName string           `json:"hypothesis_name"`
	SQL            string           `json:"sql_query"`
	Status         EvaluationStatus `json:"status"`
	Error          string           `json:"error,omitempty"`

	ExpectedCount int `json:"expected_count"`
	ActualCount   int `json:"actual_count"`
	MatchedCount  int `json:"matched_count"`
	MissingCount  int `json:"missing_count"`
	ExtraCount    int `json:"extra_count"`

	Precision    float64 `json:"precision"`
	Recall       float64 `json:"recall"`
	F1           float64 `json:"f1"`
	ExactMatch   float64 `json:"exact_match"`
	OverallScore float64 `json:"overall_score"`

	// Bounded samples of unmatched record keys, for diagnosis. Never the
	// full difference: reports must not grow with the dataset.
	MissingKeys []string `json:"missing_keys,omitempty"`
	ExtraKeys   []string `json:"extra_keys,omitempty"`

	Duration time.Duration `json:"duration"`
	Notes    string        `json:"notes,omitempty"`
}

// Succeeded reports whether the evaluation produced computable metrics.
func (e *HypothesisEvaluation) Succeeded() bool {
	return e.Status == StatusEvaluated
}

// EvaluationReport aggregates one batch run. Mean metrics cover successful
// evaluations only; failures are counted but excluded from the means, except
// the overall score which averages every result so failed queries drag the
// headline number down.
type EvaluationReport struct {
	RunID       string    `json:"run_id"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`

	Iteration    int    `json:"iteration"`
	Improvements string `json:"improvements,omitempty"`

	TotalHypotheses   int `json:"total_hypotheses"`
	SuccessfulQueries int `json:"successful_queries"`
	FailedQueries     int `json:"failed_queries"`

	AvgPrecision    float64 `json:"avg_precision"`
	AvgRecall       float64 `json:"avg_recall"`
	AvgF1           float64 `json:"avg_f1"`
	AvgOverallScore float64 `json:"avg_overall_score"`

	Results []HypothesisEvaluation `json:"results"`
}

// SuccessRate returns the fraction of hypotheses whose queries executed.
func (r *EvaluationReport) SuccessRate() float64 {
	if r.TotalHypotheses == 0 {
		return 0
	}
	return float64(r.SuccessfulQueries) / float64(r.TotalHypotheses)
}
