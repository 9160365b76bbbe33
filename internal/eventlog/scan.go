package eventlog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/haasonsaas/huntbench/pkg/models"
)

// collectRows drains a result set into event rows, tagging every column
// value with the type the driver reported.
func collectRows(rows *sql.Rows) ([]models.EventRow, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("read columns: %w", err)
	}

	var out []models.EventRow
	values := make([]any, len(cols))
	ptrs := make([]any, len(cols))
	for i := range values {
		ptrs[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		row := make(models.EventRow, len(cols))
		for i, col := range cols {
			row[col] = fieldFromSQL(values[i])
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return out, nil
}

// fieldFromSQL converts a driver value into a tagged field. Timestamps
// normalize to RFC 3339 UTC so keys derived from them are stable across
// backends.
func fieldFromSQL(v any) models.FieldValue {
	switch t := v.(type) {
	case nil:
		return models.NullField()
	case []byte:
		return models.StringField(string(t))
	case string:
		return models.StringField(t)
	case int64:
		return models.IntField(t)
	case float64:
		return models.NumberField(t)
	case bool:
		return models.BoolField(t)
	case time.Time:
		return models.StringField(t.UTC().Format(time.RFC3339))
	default:
		return models.StringField(fmt.Sprintf("%v", t))
	}
}
