package clickhouse

import (
	"context"
	"fmt"

	"token-forensics/internal/domain"
	"token-forensics/internal/intervals"
	"token-forensics/internal/storage"
)

// BucketStore implements storage.BucketStore using ClickHouse.
type BucketStore struct {
	conn *Conn
}

// NewBucketStore creates a new BucketStore.
func NewBucketStore(conn *Conn) *BucketStore {
	return &BucketStore{conn: conn}
}

// Compile-time interface check.
var _ storage.BucketStore = (*BucketStore)(nil)

// InsertBulk adds the buckets of one run and width. Fails entire batch on
// any duplicate key. MergeTree does not enforce uniqueness, so duplicates
// are checked explicitly before the batch is sent.
func (s *BucketStore) InsertBulk(ctx context.Context, runID string, buckets []*intervals.Bucket) error {
	if runID == "" {
		return storage.ErrInvalidInput
	}
	if len(buckets) == 0 {
		return nil
	}

	// Check for intra-batch duplicates
	type key struct {
		width int64
		start int64
	}
	seen := make(map[key]struct{}, len(buckets))
	for _, b := range buckets {
		if b == nil {
			return storage.ErrInvalidInput
		}
		k := key{b.Width, b.Start}
		if _, exists := seen[k]; exists {
			return storage.ErrDuplicateKey
		}
		seen[k] = struct{}{}
	}

	// Check for duplicates against existing DB rows
	for _, b := range buckets {
		exists, err := s.exists(ctx, runID, b.Width, b.Start)
		if err != nil {
			return fmt.Errorf("check exists: %w", err)
		}
		if exists {
			return storage.ErrDuplicateKey
		}
	}

	batch, err := s.conn.PrepareBatch(ctx, `
		INSERT INTO interval_buckets (
			run_id, width, start, buy_count, sell_count,
			buy_volume, sell_volume, buy_value, sell_value,
			avg_buy_price, avg_sell_price, unique_wallets,
			wash_wallets, whale_tx_count, whale_wallets
		)
	`)
	if err != nil {
		return fmt.Errorf("prepare batch: %w", err)
	}

	for _, b := range buckets {
		err = batch.Append(
			runID, b.Width, b.Start,
			uint32(b.BuyCount), uint32(b.SellCount),
			b.BuyVolume, b.SellVolume, b.BuyValue, b.SellValue,
			b.AvgBuyPrice, b.AvgSellPrice, uint32(b.UniqueWallets),
			b.WashWallets, uint32(b.WhaleTxCount), b.WhaleWallets,
		)
		if err != nil {
			return fmt.Errorf("append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("send batch: %w", err)
	}

	return nil
}

// GetByRun retrieves a run's buckets of the given width, ordered by start ASC.
// The buy/sell ratio is derived from the stored counts.
func (s *BucketStore) GetByRun(ctx context.Context, runID string, width int64) ([]*intervals.Bucket, error) {
	query := `
		SELECT width, start, buy_count, sell_count,
			buy_volume, sell_volume, buy_value, sell_value,
			avg_buy_price, avg_sell_price, unique_wallets,
			wash_wallets, whale_tx_count, whale_wallets
		FROM interval_buckets
		WHERE run_id = ? AND width = ?
		ORDER BY start ASC
	`

	rows, err := s.conn.Query(ctx, query, runID, width)
	if err != nil {
		return nil, fmt.Errorf("query buckets by run: %w", err)
	}
	defer rows.Close()

	var buckets []*intervals.Bucket
	for rows.Next() {
		var b intervals.Bucket
		var buyCount, sellCount, uniqueWallets, whaleTxCount uint32

		err := rows.Scan(
			&b.Width, &b.Start, &buyCount, &sellCount,
			&b.BuyVolume, &b.SellVolume, &b.BuyValue, &b.SellValue,
			&b.AvgBuyPrice, &b.AvgSellPrice, &uniqueWallets,
			&b.WashWallets, &whaleTxCount, &b.WhaleWallets,
		)
		if err != nil {
			return nil, fmt.Errorf("scan bucket row: %w", err)
		}

		b.BuyCount = int(buyCount)
		b.SellCount = int(sellCount)
		b.UniqueWallets = int(uniqueWallets)
		b.WhaleTxCount = int(whaleTxCount)
		b.BuySellRatio = domain.RatioOf(float64(b.BuyCount), float64(b.SellCount))
		buckets = append(buckets, &b)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate bucket rows: %w", err)
	}

	return buckets, nil
}

// exists checks if a bucket with the given key exists.
func (s *BucketStore) exists(ctx context.Context, runID string, width, start int64) (bool, error) {
	query := `
		SELECT count(*) FROM interval_buckets
		WHERE run_id = ? AND width = ? AND start = ?
	`

	var count uint64
	err := s.conn.QueryRow(ctx, query, runID, width, start).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
