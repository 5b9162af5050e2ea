package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"token-forensics/internal/domain"
	"token-forensics/internal/storage"
)

// RunStore implements storage.RunStore using PostgreSQL.
type RunStore struct {
	pool *Pool
}

// NewRunStore creates a new RunStore.
func NewRunStore(pool *Pool) *RunStore {
	return &RunStore{pool: pool}
}

// Compile-time interface check.
var _ storage.RunStore = (*RunStore)(nil)

// Insert adds a run summary. Returns ErrDuplicateKey if run_id exists.
func (s *RunStore) Insert(ctx context.Context, run *domain.AnalysisRun) error {
	if run == nil || run.RunID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO analysis_runs (
			run_id, generated_at, digest, trade_count, dropped_records,
			anomalous_prices, flagged_wallets, confirmed_pumps,
			coordinated_intervals, whale_entries, total_trade_value
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := s.pool.Exec(ctx, query,
		run.RunID,
		run.GeneratedAt,
		run.Digest,
		run.TradeCount,
		run.DroppedRecords,
		run.AnomalousPrices,
		run.FlaggedWallets,
		run.ConfirmedPumps,
		run.CoordinatedIntervals,
		run.WhaleEntries,
		run.TotalTradeValue,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert run: %w", err)
	}
	return nil
}

// GetByID retrieves a run by its ID. Returns ErrNotFound if not exists.
func (s *RunStore) GetByID(ctx context.Context, runID string) (*domain.AnalysisRun, error) {
	query := `
		SELECT run_id, generated_at, digest, trade_count, dropped_records,
			anomalous_prices, flagged_wallets, confirmed_pumps,
			coordinated_intervals, whale_entries, total_trade_value
		FROM analysis_runs
		WHERE run_id = $1
	`

	row := s.pool.QueryRow(ctx, query, runID)
	run, err := scanRun(row)
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get run by id: %w", err)
	}
	return run, nil
}

// GetAll retrieves all runs ordered by generated_at ASC.
func (s *RunStore) GetAll(ctx context.Context) ([]*domain.AnalysisRun, error) {
	query := `
		SELECT run_id, generated_at, digest, trade_count, dropped_records,
			anomalous_prices, flagged_wallets, confirmed_pumps,
			coordinated_intervals, whale_entries, total_trade_value
		FROM analysis_runs
		ORDER BY generated_at ASC, run_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all runs: %w", err)
	}
	defer rows.Close()

	var runs []*domain.AnalysisRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan run row: %w", err)
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate run rows: %w", err)
	}

	return runs, nil
}

// scanRun scans a single row into an AnalysisRun.
func scanRun(row pgx.Row) (*domain.AnalysisRun, error) {
	var run domain.AnalysisRun

	err := row.Scan(
		&run.RunID,
		&run.GeneratedAt,
		&run.Digest,
		&run.TradeCount,
		&run.DroppedRecords,
		&run.AnomalousPrices,
		&run.FlaggedWallets,
		&run.ConfirmedPumps,
		&run.CoordinatedIntervals,
		&run.WhaleEntries,
		&run.TotalTradeValue,
	)
	if err != nil {
		return nil, err
	}
	return &run, nil
}
