package eventlog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

// newMockPostgres builds a store around a mock connection so the SQL it
// issues can be asserted without a running server.
func newMockPostgres(t *testing.T) (*PostgresStore, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := &PostgresStore{
		db:     db,
		table:  DefaultTable,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	return store, mock
}

func TestPostgresQueryRunsInTransaction(t *testing.T) {
	store, mock := newMockPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT .* FROM cloudtrail_logs").WillReturnRows(
		sqlmock.NewRows([]string{"eventID", "eventName"}).
			AddRow("evt-1", "ConsoleLogin").
			AddRow("evt-2", "AssumeRole"),
	)
	mock.ExpectRollback()

	rows, err := store.Query(context.Background(),
		"SELECT eventID, eventName FROM cloudtrail_logs")
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	if got := rows[0]["eventID"].String(); got != "evt-1" {
		t.Errorf("eventID = %q, want evt-1", got)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestPostgresQueryError(t *testing.T) {
	store, mock := newMockPostgres(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT").WillReturnError(errors.New(`relation "nope" does not exist`))
	mock.ExpectRollback()

	_, err := store.Query(context.Background(), "SELECT * FROM nope")
	if err == nil {
		t.Fatal("expected query error")
	}
	if !strings.Contains(err.Error(), "execute query") {
		t.Errorf("error = %v, want execute query wrap", err)
	}
}

func TestPostgresCount(t *testing.T) {
	store, mock := newMockPostgres(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "cloudtrail_logs"`).WillReturnRows(
		sqlmock.NewRows([]string{"count"}).AddRow(42),
	)

	n, err := store.Count(context.Background())
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if n != 42 {
		t.Errorf("count = %d, want 42", n)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unfulfilled expectations: %v", err)
	}
}

func TestNewPostgresStoreRequiresDSN(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), PostgresConfig{})
	if err == nil {
		t.Fatal("expected error for missing DSN")
	}
	if !strings.Contains(err.Error(), "dsn") {
		t.Errorf("error = %v, want dsn complaint", err)
	}
}

func TestNewPostgresStoreRejectsBadTable(t *testing.T) {
	_, err := NewPostgresStore(context.Background(), PostgresConfig{
		DSN:   "postgres://localhost/hunts",
		Table: "logs; DROP TABLE x",
	})
	if err == nil {
		t.Fatal("expected error for invalid table name")
	}
}

func TestWithPostgresDefaults(t *testing.T) {
	got := withPostgresDefaults(PostgresConfig{DSN: "postgres://localhost/hunts"})
	want := DefaultPostgresConfig()

	if got.Table != want.Table {
		t.Errorf("Table = %q, want %q", got.Table, want.Table)
	}
	if got.MaxOpenConns != want.MaxOpenConns || got.MaxIdleConns != want.MaxIdleConns {
		t.Errorf("pool conns = %d/%d, want %d/%d",
			got.MaxOpenConns, got.MaxIdleConns, want.MaxOpenConns, want.MaxIdleConns)
	}
	if got.ConnectTimeout != want.ConnectTimeout {
		t.Errorf("ConnectTimeout = %v, want %v", got.ConnectTimeout, want.ConnectTimeout)
	}

	// Explicit settings survive.
	custom := withPostgresDefaults(PostgresConfig{
		DSN:          "postgres://localhost/hunts",
		Table:        "security_events",
		MaxOpenConns: 2,
		ConnMaxLifetime: time.Minute,
	})
	if custom.Table != "security_events" || custom.MaxOpenConns != 2 {
		t.Errorf("custom settings overwritten: %+v", custom)
	}
	if custom.ConnMaxLifetime != time.Minute {
		t.Errorf("ConnMaxLifetime = %v, want 1m", custom.ConnMaxLifetime)
	}
	if custom.MaxIdleConns != want.MaxIdleConns {
		t.Errorf("unset MaxIdleConns = %d, want default %d", custom.MaxIdleConns, want.MaxIdleConns)
	}
}
