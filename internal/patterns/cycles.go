package patterns

import (
	"token-forensics/internal/domain"
)

// DefaultMarketPeriods splits the observed range into this many slices.
const DefaultMarketPeriods = 6

// Phase transition rule thresholds (percent change between period ends).
const (
	flatChangePct   = 5.0
	strongChangePct = 10.0
)

// BuildMarketPeriods splits the full observed time range into n equal
// slices and computes each slice's directional price change and buy/sell
// ratio. Requires a sorted trade sequence; returns nil when the range has
// zero span or fewer than two trades.
func BuildMarketPeriods(trades []domain.TradeRecord, n int) []domain.MarketPeriod {
	if n <= 0 {
		n = DefaultMarketPeriods
	}
	if len(trades) < 2 {
		return nil
	}

	rangeStart := trades[0].Timestamp
	rangeEnd := trades[len(trades)-1].Timestamp
	span := rangeEnd - rangeStart
	if span <= 0 {
		return nil
	}

	periods := make([]domain.MarketPeriod, n)
	for i := range periods {
		periods[i] = domain.MarketPeriod{
			Index:     i,
			StartTime: rangeStart + int64(i)*span/int64(n),
			EndTime:   rangeStart + int64(i+1)*span/int64(n),
		}
	}

	for i := range trades {
		t := &trades[i]
		idx := n - 1 // the range-end trade lands in the last period
		for j := range periods {
			if t.Timestamp < periods[j].EndTime {
				idx = j
				break
			}
		}

		p := &periods[idx]
		if p.FirstPrice == 0 {
			p.FirstPrice = t.Price
		}
		p.LastPrice = t.Price
		if t.IsBuy() {
			p.BuyCount++
		} else {
			p.SellCount++
		}
	}

	for i := range periods {
		p := &periods[i]
		if p.FirstPrice > 0 {
			p.PriceChangePct = (p.LastPrice - p.FirstPrice) / p.FirstPrice * 100
		}
		p.BuySellRatio = domain.RatioOf(float64(p.BuyCount), float64(p.SellCount))
	}

	return periods
}

// DetectPhaseTransitions applies the adjacent-period rules. Rules are
// checked in order and fire independently; the same period pair can yield
// more than one transition.
func DetectPhaseTransitions(periods []domain.MarketPeriod) []domain.PhaseTransition {
	var transitions []domain.PhaseTransition

	for i := 0; i+1 < len(periods); i++ {
		cur, next := &periods[i], &periods[i+1]

		if cur.PriceChangePct < flatChangePct && next.PriceChangePct > strongChangePct {
			transitions = append(transitions, domain.PhaseTransition{
				From: domain.PhaseAccumulation, To: domain.PhaseMarkup,
				FromPeriod: i, ToPeriod: i + 1, At: next.StartTime,
			})
		}

		if cur.PriceChangePct > strongChangePct && next.PriceChangePct < flatChangePct && next.BuySellRatio.LessThan(1) {
			transitions = append(transitions, domain.PhaseTransition{
				From: domain.PhaseMarkup, To: domain.PhaseDistribution,
				FromPeriod: i, ToPeriod: i + 1, At: next.StartTime,
			})
		}

		if cur.PriceChangePct < flatChangePct && cur.BuySellRatio.LessThan(1) && next.PriceChangePct < -strongChangePct {
			transitions = append(transitions, domain.PhaseTransition{
				From: domain.PhaseDistribution, To: domain.PhaseMarkdown,
				FromPeriod: i, ToPeriod: i + 1, At: next.StartTime,
			})
		}
	}

	return transitions
}
