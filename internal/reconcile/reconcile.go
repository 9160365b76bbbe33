// Package reconcile computes the overlap between expected and actual record
// key sets. Membership is the only signal: row order never matters, and
// duplicate rows that reduce to the same key collapse to one member.
package reconcile

import (
	"sort"
)

// Outcome holds the three partitions of a comparison. Each slice is sorted,
// so reconciling the same inputs twice yields byte-identical results.
type Outcome struct {
	// Matched keys appear in both sets.
	Matched []string
	// Missing keys were expected but not returned (false negatives).
	Missing []string
	// Extra keys were returned but not expected (false positives).
	Extra []string
}

// Reconcile partitions the two key sets. The partition sizes always satisfy
// len(Matched)+len(Missing) == len(expected) and
// len(Matched)+len(Extra) == len(actual).
func Reconcile(expected, actual map[string]struct{}) Outcome {
	out := Outcome{
		Matched: make([]string, 0, min(len(expected), len(actual))),
		Missing: make([]string, 0),
		Extra:   make([]string, 0),
	}
	for key := range expected {
		if _, ok := actual[key]; ok {
			out.Matched = append(out.Matched, key)
		} else {
			out.Missing = append(out.Missing, key)
		}
	}
	for key := range actual {
		if _, ok := expected[key]; !ok {
			out.Extra = append(out.Extra, key)
		}
	}
	sort.Strings(out.Matched)
	sort.Strings(out.Missing)
	sort.Strings(out.Extra)
	return out
}

// KeySet collapses a key list into a set.
func KeySet(keys []string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}
