package reconcile

import (
	"reflect"
	"testing"
)

func TestReconcile(t *testing.T) {
	tests := []struct {
		name        string
		expected    []string
		actual      []string
		wantMatched []string
		wantMissing []string
		wantExtra   []string
	}{
		{
			name:        "identical sets",
			expected:    []string{"e1", "e2"},
			actual:      []string{"e2", "e1"},
			wantMatched: []string{"e1", "e2"},
			wantMissing: []string{},
			wantExtra:   []string{},
		},
		{
			name:        "actual subset of expected",
			expected:    []string{"e1", "e2", "e3", "e4"},
			actual:      []string{"e1", "e2", "e3"},
			wantMatched: []string{"e1", "e2", "e3"},
			wantMissing: []string{"e4"},
			wantExtra:   []string{},
		},
		{
			name:        "disjoint sets",
			expected:    []string{"e1"},
			actual:      []string{"x1", "x2"},
			wantMatched: []string{},
			wantMissing: []string{"e1"},
			wantExtra:   []string{"x1", "x2"},
		},
		{
			name:        "both empty",
			expected:    nil,
			actual:      nil,
			wantMatched: []string{},
			wantMissing: []string{},
			wantExtra:   []string{},
		},
		{
			name:        "duplicates collapse",
			expected:    []string{"e1", "e1", "e2"},
			actual:      []string{"e1"},
			wantMatched: []string{"e1"},
			wantMissing: []string{"e2"},
			wantExtra:   []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Reconcile(KeySet(tt.expected), KeySet(tt.actual))
			if !reflect.DeepEqual(got.Matched, tt.wantMatched) {
				t.Errorf("Matched = %v, want %v", got.Matched, tt.wantMatched)
			}
			if !reflect.DeepEqual(got.Missing, tt.wantMissing) {
				t.Errorf("Missing = %v, want %v", got.Missing, tt.wantMissing)
			}
			if !reflect.DeepEqual(got.Extra, tt.wantExtra) {
				t.Errorf("Extra = %v, want %v", got.Extra, tt.wantExtra)
			}
		})
	}
}

func TestReconcilePartitionInvariants(t *testing.T) {
	expected := KeySet([]string{"a", "b", "c", "d", "e"})
	actual := KeySet([]string{"c", "d", "e", "f", "g"})

	out := Reconcile(expected, actual)

	if got := len(out.Matched) + len(out.Missing); got != len(expected) {
		t.Errorf("matched+missing = %d, want len(expected) = %d", got, len(expected))
	}
	if got := len(out.Matched) + len(out.Extra); got != len(actual) {
		t.Errorf("matched+extra = %d, want len(actual) = %d", got, len(actual))
	}
}

func TestReconcileIdempotent(t *testing.T) {
	expected := KeySet([]string{"k3", "k1", "k2"})
	actual := KeySet([]string{"k2", "k9"})

	first := Reconcile(expected, actual)
	for i := 0; i < 20; i++ {
		got := Reconcile(expected, actual)
		if !reflect.DeepEqual(got, first) {
			t.Fatalf("Reconcile() = %+v on repeat, first was %+v", got, first)
		}
	}
}
