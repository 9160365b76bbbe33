package models

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FieldKind tags the value type held by a FieldValue.
type FieldKind string

const (
	// FieldNull marks an absent or SQL NULL value.
	FieldNull FieldKind = "null"
	// FieldString marks a text value.
	FieldString FieldKind = "string"
	// FieldNumber marks a numeric value.
	FieldNumber FieldKind = "number"
	// FieldBool marks a boolean value.
	FieldBool FieldKind = "bool"
)

// FieldValue is a tagged column value. Text always carries the canonical
// string form, fixed at construction, so formatting a value twice can never
// disagree.
type FieldValue struct {
	Kind FieldKind
	Text string
	Num  float64
	Bool bool
}

// NullField returns the null value.
func NullField() FieldValue {
	return FieldValue{Kind: FieldNull}
}

// StringField wraps a text value.
func StringField(s string) FieldValue {
	return FieldValue{Kind: FieldString, Text: s}
}

// NumberField wraps a float, formatting it with the shortest representation
// that round-trips.
func NumberField(f float64) FieldValue {
	return FieldValue{Kind: FieldNumber, Text: strconv.FormatFloat(f, 'g', -1, 64), Num: f}
}

// IntField wraps an integer without going through float formatting.
func IntField(i int64) FieldValue {
	return FieldValue{Kind: FieldNumber, Text: strconv.FormatInt(i, 10), Num: float64(i)}
}

// BoolField wraps a boolean.
func BoolField(b bool) FieldValue {
	return FieldValue{Kind: FieldBool, Text: strconv.FormatBool(b), Bool: b}
}

// JSONField converts a value decoded from JSON into a FieldValue.
// json.Number keeps its literal text, so integer identifiers survive intact
// instead of being reformatted through float64. Values with no scalar
// representation (nested objects, arrays) degrade to their fmt rendering.
func JSONField(v any) FieldValue {
	switch t := v.(type) {
	case nil:
		return NullField()
	case string:
		return StringField(t)
	case bool:
		return BoolField(t)
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return StringField(t.String())
		}
		return FieldValue{Kind: FieldNumber, Text: t.String(), Num: f}
	case float64:
		return NumberField(t)
	case int:
		return IntField(int64(t))
	case int64:
		return IntField(t)
	default:
		return StringField(fmt.Sprintf("%v", t))
	}
}

// IsNull reports whether the value is absent.
func (v FieldValue) IsNull() bool {
	return v.Kind == FieldNull || v.Kind == ""
}

// String returns the canonical text form used in record keys.
// Null values format as the empty string; callers deciding identity must
// check IsNull first.
func (v FieldValue) String() string {
	return v.Text
}

// EventRow is one row of the event table: an immutable mapping from column
// name to a tagged value. Rows are never mutated after construction.
type EventRow map[string]FieldValue

// Field looks up a column, reporting whether it exists in the row schema.
func (r EventRow) Field(name string) (FieldValue, bool) {
	v, ok := r[name]
	return v, ok
}

// Columns returns the number of columns in the row.
func (r EventRow) Columns() int {
	return len(r)
}

// RowFromJSON converts a decoded JSON object into an EventRow.
func RowFromJSON(obj map[string]any) EventRow {
	row := make(EventRow, len(obj))
	for k, v := range obj {
		row[k] = JSONField(v)
	}
	return row
}
