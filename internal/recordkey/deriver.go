// Package recordkey builds stable identity keys for event rows so two result
// sets can be compared as sets, without trusting row order or column layout.
package recordkey

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/haasonsaas/huntbench/pkg/models"
)

// ErrSchemaMismatch is returned when none of the designated identity fields
// yields a usable value for a row. An empty key would silently match
// unrelated rows, so derivation fails instead.
var ErrSchemaMismatch = errors.New("no designated identity field present")

// Separator joins the field:value segments of a key. The format is internal:
// keys are only compared for equality, never parsed.
const Separator = "|"

// DefaultFields returns the identity columns used for CloudTrail-style data,
// in priority order.
func DefaultFields() []string {
	return []string{"eventID", "eventTime", "eventName", "sourceIPAddress", "userIdentityuserName"}
}

// Deriver turns event rows into record keys. It concatenates every
// designated field that is present with a non-null value, in the fixed field
// order, which discriminates better than stopping at the first hit when
// identity columns are not individually unique.
type Deriver struct {
	fields []string
}

// New creates a Deriver over the given identity fields. An empty list falls
// back to DefaultFields.
func New(fields []string) *Deriver {
	if len(fields) == 0 {
		fields = DefaultFields()
	}
	owned := make([]string, len(fields))
	copy(owned, fields)
	return &Deriver{fields: owned}
}

// Fields returns the identity fields in derivation order.
func (d *Deriver) Fields() []string {
	out := make([]string, len(d.fields))
	copy(out, d.fields)
	return out
}

// Derive builds the record key for a row. Rows with identical values in all
// identity fields produce identical keys; collisions from non-unique identity
// data are an accepted approximation. Returns ErrSchemaMismatch when no
// designated field is present with a non-null value.
func (d *Deriver) Derive(row models.EventRow) (string, error) {
	segments := make([]string, 0, len(d.fields))
	for _, field := range d.fields {
		v, ok := row.Field(field)
		if !ok || v.IsNull() {
			continue
		}
		segments = append(segments, field+":"+v.String())
	}
	if len(segments) == 0 {
		return "", fmt.Errorf("%w: wanted one of %v, row has columns %v",
			ErrSchemaMismatch, d.fields, columnNames(row))
	}
	return strings.Join(segments, Separator), nil
}

func columnNames(row models.EventRow) []string {
	cols := make([]string, 0, len(row))
	for name := range row {
		cols = append(cols, name)
	}
	sort.Strings(cols)
	return cols
}
