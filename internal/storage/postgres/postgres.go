// Package postgres implements the trade and run stores on PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool wraps pgxpool.Pool for dependency injection.
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new Postgres connection pool.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() {
	p.Pool.Close()
}

// EnsureSchema creates the tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, pool *Pool) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS trades (
			tx_id            TEXT PRIMARY KEY,
			ts               BIGINT NOT NULL,
			side             TEXT NOT NULL,
			wallet           TEXT NOT NULL,
			amount           DOUBLE PRECISION NOT NULL,
			price            DOUBLE PRECISION NOT NULL,
			value            DOUBLE PRECISION NOT NULL,
			net_quote_change DOUBLE PRECISION NOT NULL,
			created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_ts ON trades (ts)`,
		`CREATE INDEX IF NOT EXISTS idx_trades_wallet ON trades (wallet)`,
		`CREATE TABLE IF NOT EXISTS analysis_runs (
			run_id                TEXT PRIMARY KEY,
			generated_at          BIGINT NOT NULL,
			digest                TEXT NOT NULL,
			trade_count           INTEGER NOT NULL,
			dropped_records       INTEGER NOT NULL,
			anomalous_prices      INTEGER NOT NULL,
			flagged_wallets       INTEGER NOT NULL,
			confirmed_pumps       INTEGER NOT NULL,
			coordinated_intervals INTEGER NOT NULL,
			whale_entries         INTEGER NOT NULL,
			total_trade_value     DOUBLE PRECISION NOT NULL,
			created_at            TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}

// PostgreSQL error codes
const (
	pgErrUniqueViolation = "23505" // unique_violation
)

// isDuplicateKeyError checks if error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}

	return false
}

// isNotFoundError checks if error indicates no rows found.
func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}
