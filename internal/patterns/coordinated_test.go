package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-forensics/internal/domain"
	"token-forensics/internal/intervals"
)

func TestScoreIntervals(t *testing.T) {
	buckets := []*intervals.Bucket{
		{
			// burst: 25 tx from 3 wallets (+3), 1 wash wallet (+2)
			Start: 300, BuyCount: 15, SellCount: 10, UniqueWallets: 3,
			WashWallets:  []string{"W"},
			BuySellRatio: domain.RatioOf(15, 10),
		},
		{
			// quiet bucket, no points
			Start: 600, BuyCount: 2, SellCount: 2, UniqueWallets: 4,
			BuySellRatio: domain.RatioOf(2, 2),
		},
		{
			// lopsided (+2) and 4 whale trades (+3)
			Start: 900, BuyCount: 12, SellCount: 1, UniqueWallets: 8,
			WhaleTxCount: 4, WhaleWallets: []string{"A", "B"},
			BuySellRatio: domain.RatioOf(12, 1),
		},
	}

	scored := ScoreIntervals(buckets)
	require.Len(t, scored, 2)

	// descending by score
	assert.Equal(t, int64(300), scored[0].BucketStart)
	assert.Equal(t, 5, scored[0].Score)
	assert.False(t, scored[0].Coordinated) // no whale wallets

	assert.Equal(t, int64(900), scored[1].BucketStart)
	assert.Equal(t, 5, scored[1].Score)
	assert.True(t, scored[1].Coordinated) // score 5 with 2 distinct whales
}

func TestScoreIntervalsWashStacking(t *testing.T) {
	scored := ScoreIntervals([]*intervals.Bucket{
		{
			Start: 300, BuyCount: 3, SellCount: 3, UniqueWallets: 6,
			WashWallets:  []string{"A", "B", "C"},
			BuySellRatio: domain.RatioOf(3, 3),
		},
	})
	require.Len(t, scored, 1)
	assert.Equal(t, 6, scored[0].Score) // 2 points per wash wallet
	assert.Equal(t, 3, scored[0].WashTradingCount)
}

func TestScoreIntervalsTieKeepsChronology(t *testing.T) {
	mk := func(start int64) *intervals.Bucket {
		return &intervals.Bucket{
			Start: start, BuyCount: 12, SellCount: 1, UniqueWallets: 8,
			BuySellRatio: domain.RatioOf(12, 1),
		}
	}
	scored := ScoreIntervals([]*intervals.Bucket{mk(300), mk(600), mk(900)})
	require.Len(t, scored, 3)
	assert.Equal(t, int64(300), scored[0].BucketStart)
	assert.Equal(t, int64(600), scored[1].BucketStart)
	assert.Equal(t, int64(900), scored[2].BucketStart)
}

func TestCoordinatedOnly(t *testing.T) {
	scored := []domain.SuspiciousInterval{
		{BucketStart: 300, Score: 7, Coordinated: true},
		{BucketStart: 600, Score: 5, Coordinated: false},
		{BucketStart: 900, Score: 6, Coordinated: true},
	}

	coord := CoordinatedOnly(scored)
	require.Len(t, coord, 2)
	assert.Equal(t, int64(300), coord[0].BucketStart)
	assert.Equal(t, int64(900), coord[1].BucketStart)
}
