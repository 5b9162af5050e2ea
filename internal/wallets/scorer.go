package wallets

import (
	"sort"

	"token-forensics/internal/domain"
)

// Scoring heuristic constants. These are part of the detection contract,
// not tuning knobs; only the whale threshold and top-N are configurable.
const (
	ratioHighBound   = 10.0 // one-sided flow above this is suspicious
	ratioLowBound    = 0.1  // or below this
	freqHighPerHour  = 10.0
	freqMedPerHour   = 5.0
	burstMaxHours    = 1.0
	burstMinTxCount  = 20
	profitBoundQuote = 10.0 // net quote gain above this scores
)

// DefaultTopSuspects is the size of the ranked manipulator list.
const DefaultTopSuspects = 20

// Score computes the composite suspicion score for every wallet and returns
// profiles sorted descending by score. Ties keep first-appearance order
// (stable sort over ProfileSet.Order).
func Score(set *ProfileSet, whaleThreshold float64) []domain.SuspicionProfile {
	scored := make([]domain.SuspicionProfile, 0, set.Len())

	for _, addr := range set.Order {
		p := set.ByAddress[addr]
		scored = append(scored, scoreProfile(p, whaleThreshold))
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

// TopSuspects truncates a ranked list to its top n entries.
func TopSuspects(ranked []domain.SuspicionProfile, n int) []domain.SuspicionProfile {
	if n <= 0 {
		n = DefaultTopSuspects
	}
	if len(ranked) <= n {
		return ranked
	}
	return ranked[:n]
}

// scoreProfile applies the additive heuristic. All increments are
// independent and non-exclusive except the explicit else branches.
func scoreProfile(p *domain.WalletProfile, whaleThreshold float64) domain.SuspicionProfile {
	totalValue := p.TotalValue()
	ratio := p.BuyToSellRatio()
	duration := p.ActiveDurationHours()

	frequency := float64(p.TotalTransactions)
	if duration > 0 {
		frequency = float64(p.TotalTransactions) / duration
	}

	score := 0

	switch {
	case totalValue > 10*whaleThreshold:
		score += 5
	case totalValue > whaleThreshold:
		score += 3
	}

	if ratio.Lopsided(ratioHighBound, ratioLowBound) {
		score += 3
	}

	switch {
	case frequency > freqHighPerHour:
		score += 3
	case frequency > freqMedPerHour:
		score += 2
	}

	if duration < burstMaxHours && p.TotalTransactions > burstMinTxCount {
		score += 4
	}

	if p.NetQuoteChange > profitBoundQuote {
		score += 3
	}

	return domain.SuspicionProfile{
		Address:              p.Address,
		TotalValue:           totalValue,
		BuyToSellRatio:       ratio,
		ActiveDurationHours:  duration,
		TransactionFrequency: frequency,
		TransactionCount:     p.TotalTransactions,
		NetQuoteChange:       p.NetQuoteChange,
		Score:                score,
	}
}
