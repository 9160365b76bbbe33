// Package models defines the core data types for huntbench.
package models

import (
	"time"
)

// Hypothesis is a natural-language claim about a security-relevant pattern
// in event logs, to be tested via a generated SQL query.
type Hypothesis struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Hypothesis string `json:"hypothesis"`
}

// QueryExplanation is the structured reasoning a translator returns
// alongside the generated SQL.
type QueryExplanation struct {
	Interpretation string   `json:"hypothesis_interpretation"`
	Reasoning      string   `json:"query_reasoning"`
	Assumptions    []string `json:"assumptions"`
	Confidence     float64  `json:"confidence_score"`
	KeyFields      []string `json:"key_fields_used"`
}

// GeneratedQuery pairs a hypothesis with the SQL produced for it.
// Produced once by the translation step (or loaded from a queries file),
// consumed read-only by the evaluator.
type GeneratedQuery struct {
	HypothesisID   string           `json:"hypothesis_id"`
	HypothesisName string           `json:"hypothesis_name"`
	HypothesisText string           `json:"hypothesis_text"`
	SQL            string           `json:"sql_query"`
	Explanation    QueryExplanation `json:"explanation"`
	Model          string           `json:"model,omitempty"`
	GeneratedAt    time.Time        `json:"generated_at"`
}
