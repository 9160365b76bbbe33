// Package eventlog loads security event logs into queryable SQL stores.
//
// The default store is an in-memory SQLite table built from a CSV export,
// so an evaluation run is hermetic and leaves nothing behind. Event tables
// that already live in Postgres can be queried in place, and CSV objects
// can be fetched from S3 before loading.
//
// Every store satisfies the one-method contract the evaluator needs:
// execute a SQL string, get rows back as tagged column values.
package eventlog

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"regexp"
	"strings"
	"sync"

	"go.opentelemetry.io/otel/trace"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/haasonsaas/huntbench/internal/observability"
	"github.com/haasonsaas/huntbench/pkg/models"
)

// DefaultTable is the table name hunt queries are written against.
const DefaultTable = "cloudtrail_logs"

// Table names are interpolated into DDL, so only plain identifiers pass.
var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Config configures an in-memory event store.
type Config struct {
	// Table is the name of the event table. Defaults to DefaultTable.
	Table string

	// Logger receives load and query diagnostics. Defaults to slog.Default().
	Logger *slog.Logger

	// Metrics counts loaded rows when set.
	Metrics *observability.Metrics

	// Recorder emits data.loaded timeline events when set.
	Recorder *observability.EventRecorder

	// Tracer emits a span per query execution when set.
	Tracer *observability.Tracer
}

// Store is an in-memory SQLite event table. A store accepts exactly one
// load; after that the database is frozen read-only so generated queries
// cannot mutate the evidence they are scored against.
type Store struct {
	db       *sql.DB
	table    string
	logger   *slog.Logger
	metrics  *observability.Metrics
	recorder *observability.EventRecorder
	tracer   *observability.Tracer

	mu      sync.Mutex
	loaded  bool
	columns []string
}

// NewStore opens an empty in-memory event store.
func NewStore(ctx context.Context, cfg Config) (*Store, error) {
	table := strings.TrimSpace(cfg.Table)
	if table == "" {
		table = DefaultTable
	}
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("table name %q must be a plain SQL identifier", table)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// A single connection pins every statement to the same in-memory
	// database; a second pooled connection would see an empty schema.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &Store{
		db:       db,
		table:    table,
		logger:   logger,
		metrics:  cfg.Metrics,
		recorder: cfg.Recorder,
		tracer:   cfg.Tracer,
	}, nil
}

// LoadCSV reads CSV data into the event table. The first record is the
// header; every column is stored as TEXT and empty cells become NULL.
// Short rows are padded with NULLs, but rows wider than the header abort
// the load since they indicate a malformed file. The source label tags
// metrics and timeline events ("csv", "s3").
func (s *Store) LoadCSV(ctx context.Context, r io.Reader, source string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return 0, fmt.Errorf("event table %s already loaded", s.table)
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return 0, errors.New("csv input is empty")
	}
	if err != nil {
		return 0, fmt.Errorf("read csv header: %w", err)
	}
	header[0] = strings.TrimPrefix(header[0], "\uFEFF")

	columns := make([]string, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			return 0, fmt.Errorf("csv header column %d is empty", i+1)
		}
		columns[i] = name
	}

	if err := s.createTable(ctx, columns); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin load transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(
		"INSERT INTO %s VALUES (%s)", quoteIdent(s.table), placeholders,
	))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	rows := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return 0, fmt.Errorf("read csv row %d: %w", rows+2, err)
		}
		if len(rec) > len(columns) {
			return 0, fmt.Errorf("csv row %d has %d fields, header has %d", rows+2, len(rec), len(columns))
		}
		args := make([]any, len(columns))
		for i := range columns {
			if i < len(rec) && rec[i] != "" {
				args[i] = rec[i]
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("insert csv row %d: %w", rows+2, err)
		}
		rows++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit load: %w", err)
	}

	// Freeze the evidence: hunt queries must never mutate the table
	// they are scored against.
	if _, err := s.db.ExecContext(ctx, "PRAGMA query_only = 1"); err != nil {
		return 0, fmt.Errorf("set read-only: %w", err)
	}

	s.loaded = true
	s.columns = columns
	s.metrics.RecordRowsLoaded(source, rows)
	_ = s.recorder.RecordDataLoaded(ctx, source, rows)
	s.logger.Info("event table loaded",
		"table", s.table,
		"rows", rows,
		"columns", len(columns),
		"source", source,
	)
	return rows, nil
}

// LoadCSVFile loads a CSV file from disk.
func (s *Store) LoadCSVFile(ctx context.Context, path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	s.logger.Debug("loading events from file", "path", path)
	return s.LoadCSV(ctx, f, "csv")
}

// Query executes a read-only SQL query against the event table.
func (s *Store) Query(ctx context.Context, query string) ([]models.EventRow, error) {
	if s.tracer != nil {
		var span trace.Span
		ctx, span = s.tracer.TraceQueryExecution(ctx, "sqlite", s.table)
		defer span.End()
	}

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()
	return collectRows(rows)
}

// Count returns the number of rows in the event table.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(s.table))
	if err := s.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

// Columns returns the loaded header, in file order. Nil before a load.
func (s *Store) Columns() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.columns == nil {
		return nil
	}
	out := make([]string, len(s.columns))
	copy(out, s.columns)
	return out
}

// Table returns the event table name.
func (s *Store) Table() string {
	return s.table
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createTable(ctx context.Context, columns []string) error {
	defs := make([]string, len(columns))
	for i, col := range columns {
		defs[i] = quoteIdent(col) + " TEXT"
	}
	ddl := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(s.table), strings.Join(defs, ", "))
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// quoteIdent wraps an identifier in double quotes, escaping embedded quotes.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
