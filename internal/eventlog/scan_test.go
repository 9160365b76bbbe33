package eventlog

import (
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/haasonsaas/huntbench/pkg/models"
)

func TestCollectRowsTypeConversion(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	seen := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"name", "count", "ratio", "active", "seen", "blob", "missing"}).
			AddRow("login", int64(7), 0.25, true, seen, []byte("raw"), nil),
	)

	rows, err := db.Query("SELECT 1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	out, err := collectRows(rows)
	if err != nil {
		t.Fatalf("collectRows: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("got %d rows, want 1", len(out))
	}
	row := out[0]

	tests := []struct {
		col  string
		kind models.FieldKind
		text string
	}{
		{"name", models.FieldString, "login"},
		{"count", models.FieldNumber, "7"},
		{"ratio", models.FieldNumber, "0.25"},
		{"active", models.FieldBool, "true"},
		{"seen", models.FieldString, "2024-03-01T12:30:00Z"},
		{"blob", models.FieldString, "raw"},
		{"missing", models.FieldNull, ""},
	}
	for _, tt := range tests {
		got, ok := row.Field(tt.col)
		if !ok {
			t.Errorf("column %s missing from row", tt.col)
			continue
		}
		if got.Kind != tt.kind {
			t.Errorf("%s kind = %s, want %s", tt.col, got.Kind, tt.kind)
		}
		if got.String() != tt.text {
			t.Errorf("%s text = %q, want %q", tt.col, got.String(), tt.text)
		}
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestCollectRowsIterationError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"eventID"}).
			AddRow("evt-1").
			AddRow("evt-2").
			RowError(1, errors.New("connection reset")),
	)

	rows, err := db.Query("SELECT 1")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	defer rows.Close()

	if _, err := collectRows(rows); err == nil {
		t.Fatal("expected iteration error to propagate")
	}
}

func TestFieldFromSQLFallback(t *testing.T) {
	// Unrecognized driver types degrade to their fmt rendering.
	got := fieldFromSQL(complex(1, 2))
	if got.Kind != models.FieldString {
		t.Fatalf("kind = %s, want string", got.Kind)
	}
	if got.String() != "(1+2i)" {
		t.Errorf("text = %q, want (1+2i)", got.String())
	}
}
