package analysis

import (
	"time"

	"token-forensics/internal/domain"
	"token-forensics/internal/intervals"
	"token-forensics/internal/pricemoves"
)

// Result is the complete derived view of one analysis run. Everything below
// RunID and GeneratedAt is a pure function of the input sequence: re-running
// on the same input yields identical values.
type Result struct {
	RunID       string
	GeneratedAt time.Time

	// Normalized input
	Trades          []domain.TradeRecord
	DroppedRecords  int
	AnomalousPrices int
	Digest          string // sha256 over the normalized sequence

	// Dataset totals
	TotalTradeValue  float64 // quote units, both sides
	TotalTokenVolume float64 // token units, both sides

	// Wallet signals
	Profiles    map[string]*domain.WalletProfile
	Ranked      []domain.SuspicionProfile // all wallets, descending score
	TopSuspects []domain.SuspicionProfile // truncated manipulator list

	// Interval aggregates
	CoarseBuckets []*intervals.Bucket
	FineBuckets   []*intervals.Bucket
	HourlyVolume  []intervals.VolumePoint // gap-free chart series

	// Price movement
	PriceSeries  []pricemoves.PricePoint
	PriceChanges []domain.PriceChangeEvent
	Extrema      domain.PriceExtrema

	// Pattern detectors
	PumpCandidates       []domain.PumpAndDumpCandidate
	SuspiciousIntervals  []domain.SuspiciousInterval
	CoordinatedIntervals []domain.SuspiciousInterval
	WhaleEntries         []domain.WhaleEntryEvent
	MarketPeriods        []domain.MarketPeriod
	PhaseTransitions     []domain.PhaseTransition
	MarketImpacts        []domain.MarketImpact

	// Narrative evidence computed only under fluctuation risk.
	FluctuationNotes []string
}

// ConfirmedPumps returns the confirmed subset of pump candidates.
func (r *Result) ConfirmedPumps() []domain.PumpAndDumpCandidate {
	var out []domain.PumpAndDumpCandidate
	for _, c := range r.PumpCandidates {
		if c.Confirmed {
			out = append(out, c)
		}
	}
	return out
}

// Summary condenses the result into the persisted run record.
func (r *Result) Summary() *domain.AnalysisRun {
	flagged := 0
	for _, s := range r.Ranked {
		if s.Flagged() {
			flagged++
		}
	}
	return &domain.AnalysisRun{
		RunID:                r.RunID,
		GeneratedAt:          r.GeneratedAt.Unix(),
		Digest:               r.Digest,
		TradeCount:           len(r.Trades),
		DroppedRecords:       r.DroppedRecords,
		AnomalousPrices:      r.AnomalousPrices,
		FlaggedWallets:       flagged,
		ConfirmedPumps:       len(r.ConfirmedPumps()),
		CoordinatedIntervals: len(r.CoordinatedIntervals),
		WhaleEntries:         len(r.WhaleEntries),
		TotalTradeValue:      r.TotalTradeValue,
	}
}

// HasFindings reports whether any detector produced a positive result worth
// alerting on.
func (r *Result) HasFindings() bool {
	return len(r.ConfirmedPumps()) > 0 ||
		len(r.CoordinatedIntervals) > 0 ||
		len(r.WhaleEntries) > 0
}
