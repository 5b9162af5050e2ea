package intervals

import (
	"sort"

	"token-forensics/internal/domain"
)

// accumulator collects raw per-bucket state before deriving the final Bucket.
type accumulator struct {
	bucket       *Bucket
	buyPriceSum  float64
	sellPriceSum float64
	buyers       map[string]struct{}
	sellers      map[string]struct{}
	whales       map[string]struct{}
}

// Aggregate partitions trades into width-second buckets and computes the
// per-bucket statistics. Empty buckets are not materialized. The returned
// slice is sorted ascending by bucket start.
func Aggregate(trades []domain.TradeRecord, width int64, whaleThreshold float64) []*Bucket {
	if len(trades) == 0 || width <= 0 {
		return nil
	}

	accs := make(map[int64]*accumulator)

	for i := range trades {
		t := &trades[i]
		start := BucketStart(t.Timestamp, width)

		acc, ok := accs[start]
		if !ok {
			acc = &accumulator{
				bucket:  &Bucket{Start: start, Width: width},
				buyers:  make(map[string]struct{}),
				sellers: make(map[string]struct{}),
				whales:  make(map[string]struct{}),
			}
			accs[start] = acc
		}

		b := acc.bucket
		if t.IsBuy() {
			b.BuyCount++
			b.BuyVolume += t.Amount
			b.BuyValue += t.Value
			acc.buyPriceSum += t.Price
			if t.Wallet != "" {
				acc.buyers[t.Wallet] = struct{}{}
			}
		} else {
			b.SellCount++
			b.SellVolume += t.Amount
			b.SellValue += t.Value
			acc.sellPriceSum += t.Price
			if t.Wallet != "" {
				acc.sellers[t.Wallet] = struct{}{}
			}
		}

		if t.Value >= whaleThreshold {
			b.WhaleTxCount++
			if t.Wallet != "" {
				acc.whales[t.Wallet] = struct{}{}
			}
		}
	}

	buckets := make([]*Bucket, 0, len(accs))
	for _, acc := range accs {
		buckets = append(buckets, acc.finalize())
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Start < buckets[j].Start
	})

	return buckets
}

// finalize derives means, wallet sets, and the buy/sell ratio.
func (acc *accumulator) finalize() *Bucket {
	b := acc.bucket

	if b.BuyCount > 0 {
		b.AvgBuyPrice = acc.buyPriceSum / float64(b.BuyCount)
	}
	if b.SellCount > 0 {
		b.AvgSellPrice = acc.sellPriceSum / float64(b.SellCount)
	}

	unique := make(map[string]struct{}, len(acc.buyers)+len(acc.sellers))
	for w := range acc.buyers {
		unique[w] = struct{}{}
		if _, sold := acc.sellers[w]; sold {
			b.WashWallets = append(b.WashWallets, w)
		}
	}
	for w := range acc.sellers {
		unique[w] = struct{}{}
	}
	b.UniqueWallets = len(unique)
	sort.Strings(b.WashWallets)

	for w := range acc.whales {
		b.WhaleWallets = append(b.WhaleWallets, w)
	}
	sort.Strings(b.WhaleWallets)

	b.BuySellRatio = domain.RatioOf(float64(b.BuyCount), float64(b.SellCount))
	return b
}

// VolumePoint is one gap-free hourly volume sample for charting.
type VolumePoint struct {
	Start       int64   `json:"start"`
	BuyVolume   float64 `json:"buy_volume"`
	SellVolume  float64 `json:"sell_volume"`
	TotalVolume float64 `json:"total_volume"`
	TxCount     int     `json:"tx_count"`
}

// HourlyVolumeSeries aggregates trades into hour buckets and synthesizes
// zero-valued points for empty hours so chart axes have no gaps.
func HourlyVolumeSeries(trades []domain.TradeRecord, width int64) []VolumePoint {
	if len(trades) == 0 {
		return nil
	}
	if width <= 0 {
		width = WidthHour
	}

	byHour := make(map[int64]*VolumePoint)
	minStart := BucketStart(trades[0].Timestamp, width)
	maxStart := minStart

	for i := range trades {
		t := &trades[i]
		start := BucketStart(t.Timestamp, width)
		if start < minStart {
			minStart = start
		}
		if start > maxStart {
			maxStart = start
		}

		p, ok := byHour[start]
		if !ok {
			p = &VolumePoint{Start: start}
			byHour[start] = p
		}
		p.TxCount++
		p.TotalVolume += t.Amount
		if t.IsBuy() {
			p.BuyVolume += t.Amount
		} else {
			p.SellVolume += t.Amount
		}
	}

	series := make([]VolumePoint, 0, (maxStart-minStart)/width+1)
	for start := minStart; start <= maxStart; start += width {
		if p, ok := byHour[start]; ok {
			series = append(series, *p)
		} else {
			series = append(series, VolumePoint{Start: start})
		}
	}

	return series
}
