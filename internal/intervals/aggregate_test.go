package intervals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-forensics/internal/domain"
)

func trade(ts int64, side domain.Side, wallet string, amount, price float64) domain.TradeRecord {
	return domain.TradeRecord{
		Timestamp: ts,
		Side:      side,
		Wallet:    wallet,
		Amount:    amount,
		Price:     price,
		Value:     amount * price,
		TxID:      "tx",
	}
}

func TestBucketStart(t *testing.T) {
	assert.Equal(t, int64(600), BucketStart(600, 600))
	assert.Equal(t, int64(600), BucketStart(1199, 600))
	assert.Equal(t, int64(1200), BucketStart(1200, 600))
	assert.Equal(t, int64(0), BucketStart(299, 300))
}

func TestAggregateBucketing(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(600, domain.SideBuy, "A", 100, 0.5),
		trade(900, domain.SideSell, "B", 50, 0.6),
		trade(1200, domain.SideBuy, "A", 10, 0.7),
	}

	buckets := Aggregate(trades, WidthCoarse, 10000)
	require.Len(t, buckets, 2)

	b0 := buckets[0]
	assert.Equal(t, int64(600), b0.Start)
	assert.Equal(t, 1, b0.BuyCount)
	assert.Equal(t, 1, b0.SellCount)
	assert.Equal(t, 100.0, b0.BuyVolume)
	assert.Equal(t, 50.0, b0.SellVolume)
	assert.Equal(t, 0.5, b0.AvgBuyPrice)
	assert.Equal(t, 0.6, b0.AvgSellPrice)
	assert.Equal(t, 2, b0.UniqueWallets)
	assert.Equal(t, 2, b0.TotalTransactions())
	assert.Equal(t, 150.0, b0.TotalVolume())

	b1 := buckets[1]
	assert.Equal(t, int64(1200), b1.Start)
	assert.Equal(t, 1, b1.BuyCount)
	assert.True(t, b1.BuySellRatio.IsInfinite())
}

func TestAggregateWashWallets(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(600, domain.SideBuy, "W", 10, 0.5),
		trade(700, domain.SideSell, "W", 10, 0.5),
		trade(800, domain.SideBuy, "X", 10, 0.5),
		// same wallet both sides but in a different bucket
		trade(1300, domain.SideSell, "X", 10, 0.5),
	}

	buckets := Aggregate(trades, WidthCoarse, 10000)
	require.Len(t, buckets, 2)

	assert.Equal(t, []string{"W"}, buckets[0].WashWallets)
	assert.Empty(t, buckets[1].WashWallets)
}

func TestAggregateWhales(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(600, domain.SideBuy, "Whale1", 30000, 0.5),  // value 15000
		trade(700, domain.SideSell, "Whale2", 20000, 0.5), // value 10000, at threshold
		trade(800, domain.SideBuy, "Shrimp", 100, 0.5),
	}

	buckets := Aggregate(trades, WidthCoarse, 10000)
	require.Len(t, buckets, 1)

	b := buckets[0]
	assert.Equal(t, 2, b.WhaleTxCount)
	assert.Equal(t, []string{"Whale1", "Whale2"}, b.WhaleWallets)
}

func TestAggregateEmpty(t *testing.T) {
	assert.Nil(t, Aggregate(nil, WidthCoarse, 10000))
	assert.Nil(t, Aggregate([]domain.TradeRecord{trade(600, domain.SideBuy, "A", 1, 1)}, 0, 10000))
}

func TestBucketPrice(t *testing.T) {
	b := &Bucket{BuyCount: 2, AvgBuyPrice: 0.5, SellCount: 1, AvgSellPrice: 0.6}
	price, ok := b.Price()
	assert.True(t, ok)
	assert.Equal(t, 0.5, price) // buy side wins when present

	b = &Bucket{SellCount: 1, AvgSellPrice: 0.6}
	price, ok = b.Price()
	assert.True(t, ok)
	assert.Equal(t, 0.6, price)

	_, ok = (&Bucket{}).Price()
	assert.False(t, ok)
}

func TestHourlyVolumeSeriesGapFill(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(3600, domain.SideBuy, "A", 100, 0.5),
		// hour 7200 has no trades
		trade(10800, domain.SideSell, "B", 40, 0.5),
	}

	series := HourlyVolumeSeries(trades, WidthHour)
	require.Len(t, series, 3)

	assert.Equal(t, int64(3600), series[0].Start)
	assert.Equal(t, 100.0, series[0].BuyVolume)
	assert.Equal(t, 1, series[0].TxCount)

	// synthesized zero point
	assert.Equal(t, int64(7200), series[1].Start)
	assert.Equal(t, 0.0, series[1].TotalVolume)
	assert.Equal(t, 0, series[1].TxCount)

	assert.Equal(t, int64(10800), series[2].Start)
	assert.Equal(t, 40.0, series[2].SellVolume)
}

func TestHourlyVolumeSeriesEmpty(t *testing.T) {
	assert.Nil(t, HourlyVolumeSeries(nil, WidthHour))
}
