package patterns

import (
	"sort"

	"token-forensics/internal/domain"
	"token-forensics/internal/intervals"
)

// Composite interval score components. The wash count contributes 2 points
// per wash wallet; the rest are fixed increments.
const (
	burstMinTx        = 20 // transaction burst lower bound
	burstMaxUnique    = 5  // with fewer distinct wallets than this
	washPointsPer     = 2
	lopsidedRatioHigh = 10.0
	lopsidedRatioLow  = 0.1
	whaleTxBound      = 3 // more whale trades than this scores

	coordinatedMinScore  = 5
	coordinatedMinWhales = 2
)

// ScoreIntervals computes the composite activity score for every fine-width
// bucket. Buckets scoring zero are dropped; the rest are sorted descending
// by score with chronological order preserved on ties. Coordinated is set on
// intervals meeting the score and distinct-whale bounds.
func ScoreIntervals(buckets []*intervals.Bucket) []domain.SuspiciousInterval {
	var out []domain.SuspiciousInterval

	for _, b := range buckets {
		score := 0

		if b.TotalTransactions() > burstMinTx && b.UniqueWallets < burstMaxUnique {
			score += 3
		}
		score += washPointsPer * len(b.WashWallets)
		if b.BuySellRatio.Lopsided(lopsidedRatioHigh, lopsidedRatioLow) {
			score += 2
		}
		if b.WhaleTxCount > whaleTxBound {
			score += 3
		}

		if score == 0 {
			continue
		}

		out = append(out, domain.SuspiciousInterval{
			BucketStart:      b.Start,
			Score:            score,
			TxCount:          b.TotalTransactions(),
			UniqueWallets:    b.UniqueWallets,
			WashTradingCount: len(b.WashWallets),
			WhaleTxCount:     b.WhaleTxCount,
			WhaleWallets:     b.WhaleWallets,
			BuyToSellRatio:   b.BuySellRatio,
			Coordinated:      score >= coordinatedMinScore && len(b.WhaleWallets) >= coordinatedMinWhales,
		})
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	return out
}

// CoordinatedOnly filters scored intervals down to the coordinated subset.
func CoordinatedOnly(scored []domain.SuspiciousInterval) []domain.SuspiciousInterval {
	var out []domain.SuspiciousInterval
	for _, si := range scored {
		if si.Coordinated {
			out = append(out, si)
		}
	}
	return out
}
