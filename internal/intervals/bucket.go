// Package intervals buckets the sorted trade sequence into fixed-width time
// windows. One primitive, instantiated at the fine, coarse, and hourly widths.
package intervals

import (
	"token-forensics/internal/domain"
)

// Supported bucket widths (seconds).
const (
	WidthFine   int64 = 300
	WidthCoarse int64 = 600
	WidthHour   int64 = 3600
)

// Bucket holds per-window statistics over the trades whose timestamp falls
// in [Start, Start+Width).
type Bucket struct {
	Start int64
	Width int64

	BuyCount  int
	SellCount int

	BuyVolume  float64 // token units
	SellVolume float64
	BuyValue   float64 // quote units
	SellValue  float64

	AvgBuyPrice  float64 // mean over buys only, 0 when no buys
	AvgSellPrice float64 // mean over sells only, 0 when no sells

	UniqueWallets int
	WashWallets   []string // wallets with both a buy and a sell in this bucket, sorted
	WhaleTxCount  int      // trades valued at or above the whale threshold
	WhaleWallets  []string // distinct wallets behind those trades, sorted

	BuySellRatio domain.Ratio // count-based, shared convention
}

// TotalTransactions returns buys plus sells.
func (b *Bucket) TotalTransactions() int {
	return b.BuyCount + b.SellCount
}

// TotalVolume returns buy plus sell token volume.
func (b *Bucket) TotalVolume() float64 {
	return b.BuyVolume + b.SellVolume
}

// Price returns the bucket's representative price: mean buy price when any
// buys exist, else mean sell price. ok is false when neither side traded
// with a derivable price, excluding the bucket from the price series.
func (b *Bucket) Price() (price float64, ok bool) {
	if b.BuyCount > 0 {
		return b.AvgBuyPrice, true
	}
	if b.SellCount > 0 {
		return b.AvgSellPrice, true
	}
	return 0, false
}

// BucketStart aligns a timestamp to its bucket: floor(ts/width)*width.
func BucketStart(ts, width int64) int64 {
	return (ts / width) * width
}
