package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"token-forensics/internal/domain"
	"token-forensics/internal/storage"
)

// TradeStore implements storage.TradeStore using PostgreSQL.
type TradeStore struct {
	pool *Pool
}

// NewTradeStore creates a new TradeStore.
func NewTradeStore(pool *Pool) *TradeStore {
	return &TradeStore{pool: pool}
}

// Compile-time interface check.
var _ storage.TradeStore = (*TradeStore)(nil)

// Insert adds one trade. Returns ErrDuplicateKey if tx_id exists.
func (s *TradeStore) Insert(ctx context.Context, t *domain.TradeRecord) error {
	if t == nil || t.TxID == "" {
		return storage.ErrInvalidInput
	}

	query := `
		INSERT INTO trades (
			tx_id, ts, side, wallet, amount, price, value, net_quote_change
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := s.pool.Exec(ctx, query,
		t.TxID,
		t.Timestamp,
		string(t.Side),
		t.Wallet,
		t.Amount,
		t.Price,
		t.Value,
		t.NetQuoteChange,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert trade: %w", err)
	}
	return nil
}

// InsertBulk adds multiple trades in one transaction. Fails entire batch on
// any duplicate.
func (s *TradeStore) InsertBulk(ctx context.Context, trades []*domain.TradeRecord) error {
	if len(trades) == 0 {
		return nil
	}

	for _, t := range trades {
		if t == nil || t.TxID == "" {
			return storage.ErrInvalidInput
		}
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO trades (
			tx_id, ts, side, wallet, amount, price, value, net_quote_change
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	for _, t := range trades {
		_, err := tx.Exec(ctx, query,
			t.TxID,
			t.Timestamp,
			string(t.Side),
			t.Wallet,
			t.Amount,
			t.Price,
			t.Value,
			t.NetQuoteChange,
		)
		if err != nil {
			if isDuplicateKeyError(err) {
				return storage.ErrDuplicateKey
			}
			return fmt.Errorf("insert trade in bulk: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit bulk insert: %w", err)
	}
	return nil
}

// GetAll retrieves every trade ordered by (timestamp, tx_id) ASC.
func (s *TradeStore) GetAll(ctx context.Context) ([]*domain.TradeRecord, error) {
	query := `
		SELECT tx_id, ts, side, wallet, amount, price, value, net_quote_change
		FROM trades
		ORDER BY ts ASC, tx_id ASC
	`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("get all trades: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// GetByTimeRange retrieves trades within [start, end] (inclusive).
func (s *TradeStore) GetByTimeRange(ctx context.Context, start, end int64) ([]*domain.TradeRecord, error) {
	query := `
		SELECT tx_id, ts, side, wallet, amount, price, value, net_quote_change
		FROM trades
		WHERE ts >= $1 AND ts <= $2
		ORDER BY ts ASC, tx_id ASC
	`

	rows, err := s.pool.Query(ctx, query, start, end)
	if err != nil {
		return nil, fmt.Errorf("get trades by time range: %w", err)
	}
	defer rows.Close()

	return scanTrades(rows)
}

// Count returns the number of stored trades.
func (s *TradeStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.pool.QueryRow(ctx, `SELECT count(*) FROM trades`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count trades: %w", err)
	}
	return count, nil
}

// scanTrades scans multiple rows into a slice of TradeRecord.
func scanTrades(rows pgx.Rows) ([]*domain.TradeRecord, error) {
	var trades []*domain.TradeRecord

	for rows.Next() {
		var t domain.TradeRecord
		var sideStr string

		err := rows.Scan(
			&t.TxID,
			&t.Timestamp,
			&sideStr,
			&t.Wallet,
			&t.Amount,
			&t.Price,
			&t.Value,
			&t.NetQuoteChange,
		)
		if err != nil {
			return nil, fmt.Errorf("scan trade row: %w", err)
		}

		t.Side = domain.Side(sideStr)
		trades = append(trades, &t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trade rows: %w", err)
	}

	return trades, nil
}
