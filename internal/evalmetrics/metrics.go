// Package evalmetrics derives set-retrieval accuracy metrics from
// reconciliation counts.
package evalmetrics

// Weights blends precision, recall and F1 into the overall score. The blend
// is a reporting policy, not a correctness invariant; anything overriding
// the defaults should say so in its own documentation.
type Weights struct {
	Precision float64 `json:"precision" yaml:"precision"`
	Recall    float64 `json:"recall" yaml:"recall"`
	F1        float64 `json:"f1" yaml:"f1"`
}

// DefaultWeights returns the standard 0.3/0.3/0.4 blend.
func DefaultWeights() Weights {
	return Weights{Precision: 0.3, Recall: 0.3, F1: 0.4}
}

// IsZero reports whether no weight is set.
func (w Weights) IsZero() bool {
	return w.Precision == 0 && w.Recall == 0 && w.F1 == 0
}

// Summary holds the computed metrics for one hypothesis.
type Summary struct {
	Precision  float64
	Recall     float64
	F1         float64
	ExactMatch float64
	Overall    float64
}

// Compute derives metrics from set cardinalities. matched, expected and
// actual are the sizes of the matched, expected and actual key sets.
//
// Comparing two empty sets is a vacuous perfect match: precision and recall
// are 1.0 rather than a division-by-zero masquerading as a zero score. A
// ratio whose denominator is zero while the other set is non-empty is
// defined as 0.0.
func Compute(matched, expected, actual int, w Weights) Summary {
	if w.IsZero() {
		w = DefaultWeights()
	}

	var s Summary
	switch {
	case actual > 0:
		s.Precision = float64(matched) / float64(actual)
	case expected == 0:
		s.Precision = 1.0
	}
	switch {
	case expected > 0:
		s.Recall = float64(matched) / float64(expected)
	case actual == 0:
		s.Recall = 1.0
	}
	if s.Precision+s.Recall > 0 {
		s.F1 = 2 * s.Precision * s.Recall / (s.Precision + s.Recall)
	}
	if matched == expected && matched == actual {
		s.ExactMatch = 1.0
	}
	s.Overall = w.Precision*s.Precision + w.Recall*s.Recall + w.F1*s.F1
	return s
}
