package eventlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq" // Postgres driver
	"go.opentelemetry.io/otel/trace"

	"github.com/haasonsaas/huntbench/internal/observability"
	"github.com/haasonsaas/huntbench/pkg/models"
)

// PostgresConfig configures a connection to an event table that already
// lives in Postgres.
type PostgresConfig struct {
	DSN             string
	Table           string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	ConnectTimeout  time.Duration

	Logger *slog.Logger
	Tracer *observability.Tracer
}

// DefaultPostgresConfig returns default connection pool settings.
func DefaultPostgresConfig() PostgresConfig {
	return PostgresConfig{
		Table:           DefaultTable,
		MaxOpenConns:    25,
		MaxIdleConns:    5,
		ConnMaxLifetime: 5 * time.Minute,
		ConnMaxIdleTime: 2 * time.Minute,
		ConnectTimeout:  10 * time.Second,
	}
}

// PostgresStore queries an existing Postgres event table. It never writes:
// every query runs inside a read-only transaction.
type PostgresStore struct {
	db     *sql.DB
	table  string
	logger *slog.Logger
	tracer *observability.Tracer
}

// NewPostgresStore opens a pooled connection to the event database.
// Zero-valued pool settings fall back to DefaultPostgresConfig.
func NewPostgresStore(ctx context.Context, cfg PostgresConfig) (*PostgresStore, error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, fmt.Errorf("dsn is required")
	}
	cfg = withPostgresDefaults(cfg)
	if !identPattern.MatchString(cfg.Table) {
		return nil, fmt.Errorf("table name %q must be a plain SQL identifier", cfg.Table)
	}

	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("connected to postgres event table", "table", cfg.Table)

	return &PostgresStore{db: db, table: cfg.Table, logger: logger, tracer: cfg.Tracer}, nil
}

// Query executes SQL inside a read-only transaction, so generated queries
// cannot mutate shared evidence tables.
func (p *PostgresStore) Query(ctx context.Context, query string) ([]models.EventRow, error) {
	if p.tracer != nil {
		var span trace.Span
		ctx, span = p.tracer.TraceQueryExecution(ctx, "postgres", p.table)
		defer span.End()
	}

	tx, err := p.db.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("execute query: %w", err)
	}
	defer rows.Close()
	return collectRows(rows)
}

// Count returns the number of rows in the event table.
func (p *PostgresStore) Count(ctx context.Context) (int, error) {
	var n int
	q := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteIdent(p.table))
	if err := p.db.QueryRowContext(ctx, q).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows: %w", err)
	}
	return n, nil
}

// Table returns the event table name.
func (p *PostgresStore) Table() string {
	return p.table
}

// Close releases the connection pool.
func (p *PostgresStore) Close() error {
	return p.db.Close()
}

func withPostgresDefaults(cfg PostgresConfig) PostgresConfig {
	def := DefaultPostgresConfig()
	if strings.TrimSpace(cfg.Table) == "" {
		cfg.Table = def.Table
	}
	if cfg.MaxOpenConns <= 0 {
		cfg.MaxOpenConns = def.MaxOpenConns
	}
	if cfg.MaxIdleConns <= 0 {
		cfg.MaxIdleConns = def.MaxIdleConns
	}
	if cfg.ConnMaxLifetime <= 0 {
		cfg.ConnMaxLifetime = def.ConnMaxLifetime
	}
	if cfg.ConnMaxIdleTime <= 0 {
		cfg.ConnMaxIdleTime = def.ConnMaxIdleTime
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = def.ConnectTimeout
	}
	return cfg
}
