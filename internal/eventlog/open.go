package eventlog

import (
	"context"
	"fmt"
	"strings"

	"github.com/haasonsaas/huntbench/pkg/models"
)

// EventSource is a queryable table of security events.
type EventSource interface {
	Query(ctx context.Context, query string) ([]models.EventRow, error)
	Count(ctx context.Context) (int, error)
	Table() string
	Close() error
}

// Open builds an event source from a location string. Three forms are
// recognized: a postgres:// DSN queries the table in place, an
// s3://bucket/key object is fetched and loaded into memory, and anything
// else is treated as a local CSV path.
func Open(ctx context.Context, source string, cfg Config) (EventSource, error) {
	switch {
	case strings.HasPrefix(source, "postgres://"), strings.HasPrefix(source, "postgresql://"):
		pg := DefaultPostgresConfig()
		pg.DSN = source
		pg.Table = cfg.Table
		pg.Logger = cfg.Logger
		pg.Tracer = cfg.Tracer
		return NewPostgresStore(ctx, pg)

	case strings.HasPrefix(source, "s3://"):
		bucket, key, err := ParseS3URI(source)
		if err != nil {
			return nil, err
		}
		fetcher, err := NewS3Fetcher(ctx, nil)
		if err != nil {
			return nil, err
		}
		body, err := fetcher.Fetch(ctx, bucket, key)
		if err != nil {
			return nil, err
		}
		defer body.Close()
		return loadInto(ctx, cfg, func(s *Store) (int, error) {
			return s.LoadCSV(ctx, body, "s3")
		})

	default:
		return loadInto(ctx, cfg, func(s *Store) (int, error) {
			return s.LoadCSVFile(ctx, source)
		})
	}
}

// OpenS3 is Open for callers that need explicit S3 credentials.
func OpenS3(ctx context.Context, uri string, s3cfg *S3Config, cfg Config) (EventSource, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	fetcher, err := NewS3Fetcher(ctx, s3cfg)
	if err != nil {
		return nil, err
	}
	body, err := fetcher.Fetch(ctx, bucket, key)
	if err != nil {
		return nil, err
	}
	defer body.Close()
	return loadInto(ctx, cfg, func(s *Store) (int, error) {
		return s.LoadCSV(ctx, body, "s3")
	})
}

func loadInto(ctx context.Context, cfg Config, load func(*Store) (int, error)) (EventSource, error) {
	store, err := NewStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if _, err := load(store); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load events: %w", err)
	}
	return store, nil
}
