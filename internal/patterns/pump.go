// Package patterns classifies higher-order manipulation patterns from the
// independently computed interval, price-movement, and suspicion signals.
package patterns

import (
	"token-forensics/internal/domain"
)

// PumpParams configures pump-and-dump detection.
type PumpParams struct {
	RetailThreshold     float64 // retail buy upper bound, quote units
	MediumThreshold     float64 // whale-sell lower bound
	WhaleThreshold      float64 // prior-accumulation buy lower bound
	FollowWindowSeconds int64   // dump window after the event end
	MinRetailBuys       int     // confirmation requires strictly more
	MinSmallBuys        int     // evidence band for sub-medium buys
	AccumulationPriceFr float64 // prior buys below this fraction of start price
}

// DefaultPumpParams returns the contract defaults.
func DefaultPumpParams() PumpParams {
	return PumpParams{
		RetailThreshold:     100,
		MediumThreshold:     1000,
		WhaleThreshold:      10000,
		FollowWindowSeconds: 1800,
		MinRetailBuys:       5,
		MinSmallBuys:        5,
		AccumulationPriceFr: 0.8,
	}
}

// DetectPumpAndDump evaluates every extreme upward price event against the
// trade sequence. A candidate is emitted for each such event; Confirmed is
// set iff retail buys inside the window exceed MinRetailBuys AND at least
// one whale-sized sell lands in the follow window.
func DetectPumpAndDump(events []domain.PriceChangeEvent, trades []domain.TradeRecord, p PumpParams) []domain.PumpAndDumpCandidate {
	var candidates []domain.PumpAndDumpCandidate

	for _, ev := range events {
		if !ev.Extreme || !ev.Upward() {
			continue
		}
		candidates = append(candidates, evaluatePump(ev, trades, p))
	}

	return candidates
}

func evaluatePump(ev domain.PriceChangeEvent, trades []domain.TradeRecord, p PumpParams) domain.PumpAndDumpCandidate {
	c := domain.PumpAndDumpCandidate{Event: ev}
	followEnd := ev.EndTime + p.FollowWindowSeconds

	for i := range trades {
		t := &trades[i]

		switch {
		case t.Timestamp >= ev.StartTime && t.Timestamp <= ev.EndTime:
			if !t.IsBuy() {
				continue
			}
			if t.Value > 0 && t.Value <= p.RetailThreshold {
				c.RetailBuyCount++
			}
			if t.Value < p.MediumThreshold {
				c.SmallBuyCount++
			}

		case t.Timestamp > ev.EndTime && t.Timestamp <= followEnd:
			if t.Side == domain.SideSell && t.Value >= p.MediumThreshold {
				c.WhaleSellCount++
				c.WhaleSellValue += t.Value
			}

		case t.Timestamp < ev.StartTime:
			if t.IsBuy() && t.Value >= p.WhaleThreshold && t.Price < p.AccumulationPriceFr*ev.StartPrice {
				c.PriorAccumulation = true
				c.PriorAccumulationVol += t.Amount
			}
		}
	}

	c.Confirmed = c.RetailBuyCount > p.MinRetailBuys && c.WhaleSellCount > 0
	c.HeavySmallBuying = c.SmallBuyCount >= p.MinSmallBuys
	return c
}
