// Package analysis composes the detection stages into a single deterministic
// pipeline: normalize → wallet fold → interval aggregation → price movement →
// suspicion scoring → pattern detection → market impact.
package analysis

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"

	"token-forensics/internal/config"
	"token-forensics/internal/domain"
	"token-forensics/internal/intervals"
	"token-forensics/internal/normalization"
	"token-forensics/internal/observability"
	"token-forensics/internal/patterns"
	"token-forensics/internal/pricemoves"
	"token-forensics/internal/wallets"
)

// Params holds every tunable threshold of the pipeline.
type Params struct {
	WhaleThreshold  float64
	MediumThreshold float64
	RetailThreshold float64

	CoarseWidth int64
	FineWidth   int64
	HourWidth   int64

	Pump patterns.PumpParams

	SignificantChangePct float64
	ExtremeChangePct     float64
	VolatilityRiskBound  float64

	PriceSanityMin float64
	PriceSanityMax float64

	TopSuspects   int
	MarketPeriods int
}

// DefaultParams returns the contract defaults.
func DefaultParams() Params {
	return ParamsFromConfig(config.Default())
}

// ParamsFromConfig maps loaded configuration onto pipeline parameters.
func ParamsFromConfig(cfg *config.Config) Params {
	return Params{
		WhaleThreshold:  cfg.Thresholds.Whale,
		MediumThreshold: cfg.Thresholds.Medium,
		RetailThreshold: cfg.Thresholds.Retail,
		CoarseWidth:     cfg.Intervals.CoarseSeconds,
		FineWidth:       cfg.Intervals.FineSeconds,
		HourWidth:       cfg.Intervals.HourSeconds,
		Pump: patterns.PumpParams{
			RetailThreshold:     cfg.Thresholds.Retail,
			MediumThreshold:     cfg.Thresholds.Medium,
			WhaleThreshold:      cfg.Thresholds.Whale,
			FollowWindowSeconds: cfg.Pump.FollowWindowSeconds,
			MinRetailBuys:       cfg.Pump.MinRetailBuys,
			MinSmallBuys:        cfg.Pump.MinSmallBuys,
			AccumulationPriceFr: cfg.Pump.AccumulationPriceFr,
		},
		SignificantChangePct: cfg.Analysis.SignificantChangePct,
		ExtremeChangePct:     cfg.Analysis.ExtremeChangePct,
		VolatilityRiskBound:  cfg.Analysis.VolatilityRiskBound,
		PriceSanityMin:       cfg.Analysis.PriceSanityMin,
		PriceSanityMax:       cfg.Analysis.PriceSanityMax,
		TopSuspects:          cfg.Analysis.TopSuspects,
		MarketPeriods:        cfg.Analysis.MarketPeriods,
	}
}

// Engine runs the pipeline. Safe for reuse across runs; each run produces a
// fresh Result and mutates no shared state.
type Engine struct {
	params  Params
	metrics *observability.Metrics
	now     func() time.Time
	newID   func() string
}

// New creates an engine with the given parameters.
func New(params Params) *Engine {
	return &Engine{
		params: params,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return uuid.NewString() },
	}
}

// WithMetrics attaches observability counters updated on every run.
func (e *Engine) WithMetrics(m *observability.Metrics) *Engine {
	e.metrics = m
	return e
}

// WithClock sets a custom clock for deterministic output.
func (e *Engine) WithClock(now func() time.Time) *Engine {
	e.now = now
	return e
}

// WithIDGenerator sets a custom run-ID generator for deterministic output.
func (e *Engine) WithIDGenerator(newID func() string) *Engine {
	e.newID = newID
	return e
}

// Run normalizes raw rows and analyzes the resulting sequence.
func (e *Engine) Run(rows []domain.RawTrade) *Result {
	started := e.now()

	norm := normalization.New(e.params.PriceSanityMin, e.params.PriceSanityMax).Normalize(rows)
	res := e.Analyze(norm.Trades)
	res.DroppedRecords = norm.Dropped
	res.AnomalousPrices = norm.AnomalousPrices

	if e.metrics != nil {
		e.metrics.TradesNormalized.Add(float64(len(norm.Trades)))
		e.metrics.RecordsDropped.Add(float64(norm.Dropped))
		e.metrics.AnomalousPrices.Add(float64(norm.AnomalousPrices))
		e.metrics.PumpCandidates.Add(float64(len(res.ConfirmedPumps())))
		e.metrics.CoordinatedIntervals.Add(float64(len(res.CoordinatedIntervals)))
		e.metrics.WhaleEntries.Add(float64(len(res.WhaleEntries)))
		e.metrics.AnalysisDuration.Observe(e.now().Sub(started).Seconds())
		e.metrics.AnalysisRuns.Inc()
	}

	return res
}

// Analyze runs every stage over an already normalized, sorted sequence.
// An empty sequence yields zero-length outputs for every stage so that
// collaborators can render an insufficient-data state.
func (e *Engine) Analyze(trades []domain.TradeRecord) *Result {
	p := e.params

	res := &Result{
		RunID:       e.newID(),
		GeneratedAt: e.now(),
		Trades:      trades,
		Digest:      digest(trades),
	}

	for i := range trades {
		res.TotalTradeValue += trades[i].Value
		res.TotalTokenVolume += trades[i].Amount
	}

	// Wallet signals
	profiles := wallets.Aggregate(trades)
	res.Profiles = profiles.ByAddress
	res.Ranked = wallets.Score(profiles, p.WhaleThreshold)
	res.TopSuspects = wallets.TopSuspects(res.Ranked, p.TopSuspects)

	// Interval aggregates: two independent series plus the hourly chart axis
	res.CoarseBuckets = intervals.Aggregate(trades, p.CoarseWidth, p.WhaleThreshold)
	res.FineBuckets = intervals.Aggregate(trades, p.FineWidth, p.WhaleThreshold)
	res.HourlyVolume = intervals.HourlyVolumeSeries(trades, p.HourWidth)

	// Price movement
	res.PriceSeries = pricemoves.BuildPriceSeries(res.CoarseBuckets)
	res.PriceChanges = pricemoves.DetectChanges(res.PriceSeries, p.SignificantChangePct, p.ExtremeChangePct)
	res.Extrema = pricemoves.Extrema(trades, p.VolatilityRiskBound)

	// Pattern detectors
	res.PumpCandidates = patterns.DetectPumpAndDump(res.PriceChanges, trades, p.Pump)
	res.SuspiciousIntervals = patterns.ScoreIntervals(res.FineBuckets)
	res.CoordinatedIntervals = patterns.CoordinatedOnly(res.SuspiciousIntervals)
	res.WhaleEntries = patterns.DetectWhaleEntries(trades, p.WhaleThreshold, p.HourWidth)
	res.MarketPeriods = patterns.BuildMarketPeriods(trades, p.MarketPeriods)
	res.PhaseTransitions = patterns.DetectPhaseTransitions(res.MarketPeriods)
	res.MarketImpacts = patterns.MarketImpact(res.TopSuspects, res.TotalTradeValue)

	// Extra narrative evidence is gated on the volatility multiplier.
	if res.Extrema.FluctuationRisk {
		res.FluctuationNotes = fluctuationNotes(res)
	}

	return res
}

// fluctuationNotes builds the liquidity-imbalance and manipulation summary
// lines reported only when the max/min multiplier crosses the risk bound.
func fluctuationNotes(res *Result) []string {
	var buyValue, sellValue float64
	for i := range res.Trades {
		if res.Trades[i].IsBuy() {
			buyValue += res.Trades[i].Value
		} else {
			sellValue += res.Trades[i].Value
		}
	}

	notes := []string{
		fmt.Sprintf("price fluctuation risk: max/min multiplier %.1fx", res.Extrema.Multiplier),
	}
	if res.TotalTradeValue > 0 {
		notes = append(notes, fmt.Sprintf(
			"liquidity imbalance: buy value %.2f vs sell value %.2f (%.1f%% buy-side)",
			buyValue, sellValue, buyValue/res.TotalTradeValue*100))
	}
	flagged := 0
	for _, s := range res.Ranked {
		if s.Flagged() {
			flagged++
		}
	}
	notes = append(notes, fmt.Sprintf(
		"manipulation summary: %d flagged wallets, %d confirmed pumps, %d coordinated intervals",
		flagged, len(res.ConfirmedPumps()), len(res.CoordinatedIntervals)))
	return notes
}

// digest hashes the normalized sequence for cache keys and idempotence
// checks. Field order is fixed; identical inputs hash identically.
func digest(trades []domain.TradeRecord) string {
	h := sha256.New()
	var buf [8]byte
	for i := range trades {
		t := &trades[i]
		binary.BigEndian.PutUint64(buf[:], uint64(t.Timestamp))
		h.Write(buf[:])
		h.Write([]byte(t.Side))
		h.Write([]byte(t.Wallet))
		fmt.Fprintf(h, "%g|%g|%g|%s", t.Amount, t.Price, t.NetQuoteChange, t.TxID)
	}
	return hex.EncodeToString(h.Sum(nil))
}
