// Package pricemoves derives the ordered price series from coarse interval
// buckets and flags significant and extreme movements.
package pricemoves

import (
	"token-forensics/internal/domain"
	"token-forensics/internal/intervals"
)

// Default movement thresholds (percent).
const (
	DefaultSignificantPct = 5.0
	DefaultExtremePct     = 10.0
)

// DefaultVolatilityRiskBound flags a fluctuation risk when the global
// max/min price multiplier exceeds it.
const DefaultVolatilityRiskBound = 1000.0

// PricePoint is one sample of the ordered price series.
type PricePoint struct {
	Time  int64 // bucket start, Unix seconds
	Price float64
}

// BuildPriceSeries extracts one point per non-empty coarse bucket, using the
// mean buy price when available, else the mean sell price. Buckets with no
// derivable price are excluded before adjacency is computed.
func BuildPriceSeries(buckets []*intervals.Bucket) []PricePoint {
	series := make([]PricePoint, 0, len(buckets))
	for _, b := range buckets {
		price, ok := b.Price()
		if !ok {
			continue
		}
		series = append(series, PricePoint{Time: b.Start, Price: price})
	}
	return series
}

// DetectChanges walks adjacent price-series pairs and emits an event for
// every move whose magnitude exceeds significantPct. Moves beyond extremePct
// are additionally marked Extreme. Pairs with a zero previous price are
// skipped rather than dividing by zero.
func DetectChanges(series []PricePoint, significantPct, extremePct float64) []domain.PriceChangeEvent {
	if significantPct <= 0 {
		significantPct = DefaultSignificantPct
	}
	if extremePct <= 0 {
		extremePct = DefaultExtremePct
	}

	var events []domain.PriceChangeEvent
	for i := 1; i < len(series); i++ {
		prev, curr := series[i-1], series[i]
		if prev.Price == 0 {
			continue
		}

		pct := (curr.Price - prev.Price) / prev.Price * 100
		mag := pct
		if mag < 0 {
			mag = -mag
		}
		if mag <= significantPct {
			continue
		}

		events = append(events, domain.PriceChangeEvent{
			StartTime:     prev.Time,
			EndTime:       curr.Time,
			StartPrice:    prev.Price,
			EndPrice:      curr.Price,
			PercentChange: pct,
			Significant:   mag > significantPct,
			Extreme:       mag > extremePct,
		})
	}
	return events
}

// Extrema computes the global max and min trade prices with their
// timestamps, the volatility multiplier max/min, and the fluctuation-risk
// flag. Returns the zero value for an empty sequence.
func Extrema(trades []domain.TradeRecord, riskBound float64) domain.PriceExtrema {
	if len(trades) == 0 {
		return domain.PriceExtrema{}
	}
	if riskBound <= 0 {
		riskBound = DefaultVolatilityRiskBound
	}

	ex := domain.PriceExtrema{
		MaxPrice:     trades[0].Price,
		MaxPriceTime: trades[0].Timestamp,
		MinPrice:     trades[0].Price,
		MinPriceTime: trades[0].Timestamp,
	}
	for i := 1; i < len(trades); i++ {
		t := &trades[i]
		if t.Price > ex.MaxPrice {
			ex.MaxPrice = t.Price
			ex.MaxPriceTime = t.Timestamp
		}
		if t.Price < ex.MinPrice {
			ex.MinPrice = t.Price
			ex.MinPriceTime = t.Timestamp
		}
	}

	if ex.MinPrice > 0 {
		ex.Multiplier = ex.MaxPrice / ex.MinPrice
		ex.FluctuationRisk = ex.Multiplier > riskBound
	}
	return ex
}
