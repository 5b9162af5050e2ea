package patterns

import (
	"sort"

	"token-forensics/internal/domain"
	"token-forensics/internal/intervals"
)

// minWhaleEntryTx is the qualifying-buy count an hour window needs before
// it is reported as a whale entry.
const minWhaleEntryTx = 2

// DetectWhaleEntries groups whale-sized buys by hour window and emits an
// entry for every window with at least two qualifying transactions. The
// reported volume share is relative to the dataset's total token volume
// across both sides.
func DetectWhaleEntries(trades []domain.TradeRecord, whaleThreshold float64, hourWidth int64) []domain.WhaleEntryEvent {
	if hourWidth <= 0 {
		hourWidth = intervals.WidthHour
	}

	type hourAcc struct {
		txCount   int
		buyVolume float64
		wallets   map[string]struct{}
	}

	totalVolume := 0.0
	byHour := make(map[int64]*hourAcc)

	for i := range trades {
		t := &trades[i]
		totalVolume += t.Amount

		if !t.IsBuy() || t.Value < whaleThreshold {
			continue
		}

		start := intervals.BucketStart(t.Timestamp, hourWidth)
		acc, ok := byHour[start]
		if !ok {
			acc = &hourAcc{wallets: make(map[string]struct{})}
			byHour[start] = acc
		}
		acc.txCount++
		acc.buyVolume += t.Amount
		if t.Wallet != "" {
			acc.wallets[t.Wallet] = struct{}{}
		}
	}

	var entries []domain.WhaleEntryEvent
	for start, acc := range byHour {
		if acc.txCount < minWhaleEntryTx {
			continue
		}

		pct := 0.0
		if totalVolume > 0 {
			pct = acc.buyVolume / totalVolume * 100
		}

		entries = append(entries, domain.WhaleEntryEvent{
			HourStart:   start,
			WhaleCount:  len(acc.wallets),
			TxCount:     acc.txCount,
			BuyVolume:   acc.buyVolume,
			PctOfVolume: pct,
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].HourStart < entries[j].HourStart
	})

	return entries
}
