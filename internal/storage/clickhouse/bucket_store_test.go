package clickhouse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-forensics/internal/intervals"
	"token-forensics/internal/storage"
)

func testBucket(width, start int64) *intervals.Bucket {
	return &intervals.Bucket{
		Start:         start,
		Width:         width,
		BuyCount:      3,
		SellCount:     1,
		BuyVolume:     300,
		SellVolume:    50,
		BuyValue:      150,
		SellValue:     25,
		AvgBuyPrice:   0.5,
		AvgSellPrice:  0.5,
		UniqueWallets: 2,
		WashWallets:   []string{"WalletA"},
		WhaleTxCount:  1,
		WhaleWallets:  []string{"WalletB"},
	}
}

func TestBucketStore_InsertBulkAndGetByRun(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBucketStore(conn)
	ctx := context.Background()

	buckets := []*intervals.Bucket{
		testBucket(intervals.WidthCoarse, 1700000400),
		testBucket(intervals.WidthCoarse, 1700000000),
	}
	require.NoError(t, store.InsertBulk(ctx, "run-001", buckets))

	got, err := store.GetByRun(ctx, "run-001", intervals.WidthCoarse)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// ordered by start
	assert.Equal(t, int64(1700000000), got[0].Start)
	assert.Equal(t, int64(1700000400), got[1].Start)

	b := got[0]
	assert.Equal(t, intervals.WidthCoarse, b.Width)
	assert.Equal(t, 3, b.BuyCount)
	assert.Equal(t, 1, b.SellCount)
	assert.Equal(t, 300.0, b.BuyVolume)
	assert.Equal(t, []string{"WalletA"}, b.WashWallets)
	assert.Equal(t, 1, b.WhaleTxCount)
	assert.Equal(t, []string{"WalletB"}, b.WhaleWallets)

	// ratio is rebuilt from counts on read
	assert.Equal(t, "3", b.BuySellRatio.String())
}

func TestBucketStore_WidthsAreSeparate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBucketStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, "run-001", []*intervals.Bucket{
		testBucket(intervals.WidthFine, 1700000000),
	}))
	require.NoError(t, store.InsertBulk(ctx, "run-001", []*intervals.Bucket{
		testBucket(intervals.WidthHour, 1699999200),
	}))

	fine, err := store.GetByRun(ctx, "run-001", intervals.WidthFine)
	require.NoError(t, err)
	assert.Len(t, fine, 1)

	hour, err := store.GetByRun(ctx, "run-001", intervals.WidthHour)
	require.NoError(t, err)
	assert.Len(t, hour, 1)

	coarse, err := store.GetByRun(ctx, "run-001", intervals.WidthCoarse)
	require.NoError(t, err)
	assert.Empty(t, coarse)
}

func TestBucketStore_InsertBulkDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBucketStore(conn)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, "run-001", []*intervals.Bucket{
		testBucket(intervals.WidthCoarse, 1700000000),
	}))

	err := store.InsertBulk(ctx, "run-001", []*intervals.Bucket{
		testBucket(intervals.WidthCoarse, 1700000000),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// same key in another run is fine
	err = store.InsertBulk(ctx, "run-002", []*intervals.Bucket{
		testBucket(intervals.WidthCoarse, 1700000000),
	})
	assert.NoError(t, err)
}

func TestBucketStore_InsertBulkIntraBatchDuplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBucketStore(conn)
	err := store.InsertBulk(context.Background(), "run-001", []*intervals.Bucket{
		testBucket(intervals.WidthCoarse, 1700000000),
		testBucket(intervals.WidthCoarse, 1700000000),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestBucketStore_EmptyRunID(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewBucketStore(conn)
	err := store.InsertBulk(context.Background(), "", []*intervals.Bucket{
		testBucket(intervals.WidthCoarse, 1700000000),
	})
	assert.ErrorIs(t, err, storage.ErrInvalidInput)
}
