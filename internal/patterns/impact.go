package patterns

import (
	"token-forensics/internal/domain"
)

// MarketImpact cross-references the ranked suspects against dataset-wide
// trade value, reporting each wallet's share in percent.
func MarketImpact(suspects []domain.SuspicionProfile, totalTradeValue float64) []domain.MarketImpact {
	impacts := make([]domain.MarketImpact, 0, len(suspects))

	for _, s := range suspects {
		pct := 0.0
		if totalTradeValue > 0 {
			pct = s.TotalValue / totalTradeValue * 100
		}
		impacts = append(impacts, domain.MarketImpact{
			Address:     s.Address,
			TradeValue:  s.TotalValue,
			PctOfMarket: pct,
			Score:       s.Score,
		})
	}

	return impacts
}
