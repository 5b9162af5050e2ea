// Package storage defines the persistence interfaces shared by the memory,
// PostgreSQL, and ClickHouse backends. Persistence is optional: the analysis
// core never requires a store.
package storage

import (
	"context"

	"token-forensics/internal/domain"
	"token-forensics/internal/intervals"
)

// TradeStore provides access to normalized trade persistence, keyed by
// transaction signature.
type TradeStore interface {
	// Insert adds one trade. Returns ErrDuplicateKey if tx_id exists,
	// ErrInvalidInput on an empty tx_id.
	Insert(ctx context.Context, t *domain.TradeRecord) error

	// InsertBulk adds multiple trades atomically. Fails entire batch on any duplicate.
	InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error

	// GetAll retrieves every trade ordered by (timestamp, tx_id) ASC.
	GetAll(ctx context.Context) ([]*domain.TradeRecord, error)

	// GetByTimeRange retrieves trades within [start, end] (inclusive), same order.
	GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.TradeRecord, error)

	// Count returns the number of stored trades.
	Count(ctx context.Context) (int, error)
}

// RunStore provides access to analysis run summaries.
type RunStore interface {
	// Insert adds a run summary. Returns ErrDuplicateKey if run_id exists.
	Insert(ctx context.Context, run *domain.AnalysisRun) error

	// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
	GetByID(ctx context.Context, runID string) (*domain.AnalysisRun, error)

	// GetAll retrieves all runs ordered by generated_at ASC.
	GetAll(ctx context.Context) ([]*domain.AnalysisRun, error)
}

// BucketStore provides access to interval-bucket timeseries, keyed by
// (run_id, width, start).
type BucketStore interface {
	// InsertBulk adds the buckets of one run and width. Fails entire batch
	// on any duplicate key.
	InsertBulk(ctx context.Context, runID string, buckets []*intervals.Bucket) error

	// GetByRun retrieves a run's buckets of the given width, ordered by start ASC.
	GetByRun(ctx context.Context, runID string, width int64) ([]*intervals.Bucket, error)
}
