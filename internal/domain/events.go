package domain

// PriceChangeEvent pairs two chronologically adjacent non-empty price buckets.
// Ordering is strictly by increasing bucket timestamp; buckets without a
// derivable price are excluded from the series before adjacency is computed.
type PriceChangeEvent struct {
	StartTime     int64 // earlier bucket start, Unix seconds
	EndTime       int64 // later bucket start
	StartPrice    float64
	EndPrice      float64
	PercentChange float64
	Significant   bool // |change| > significant threshold (5% default)
	Extreme       bool // |change| > extreme threshold (10% default)
}

// Upward reports whether the move was positive.
func (e *PriceChangeEvent) Upward() bool {
	return e.PercentChange > 0
}

// PriceExtrema holds the global price bounds of the dataset and the
// derived volatility multiplier.
type PriceExtrema struct {
	MaxPrice        float64
	MaxPriceTime    int64
	MinPrice        float64
	MinPriceTime    int64
	Multiplier      float64 // MaxPrice / MinPrice
	FluctuationRisk bool    // Multiplier above configured risk bound
}

// PumpAndDumpCandidate is an extreme upward price event with retail-buy
// evidence inside its window and whale-sell evidence in the follow window.
type PumpAndDumpCandidate struct {
	Event          PriceChangeEvent
	RetailBuyCount int     // buys valued in (0, retail threshold]
	SmallBuyCount  int     // buys under the medium threshold in the window
	WhaleSellCount int     // sells >= medium threshold in the follow window
	WhaleSellValue float64 // aggregate quote value of those sells
	Confirmed      bool    // retail buys > min AND whale sells > 0

	// Narrative evidence, does not gate confirmation.
	PriorAccumulation    bool    // whale buys below 80% of event start price
	PriorAccumulationVol float64 // token volume of those buys
	HeavySmallBuying     bool    // >= 5 sub-medium buys in the window
}

// WhaleEntryEvent is an hour window with at least two whale-sized buys.
type WhaleEntryEvent struct {
	HourStart   int64 // floor(ts/3600)*3600, Unix seconds
	WhaleCount  int   // distinct buying wallets at or above the threshold
	TxCount     int   // qualifying buy transactions
	BuyVolume   float64
	PctOfVolume float64 // share of dataset total token volume
}

// SuspiciousInterval is a fine-width bucket with a positive composite
// activity score.
type SuspiciousInterval struct {
	BucketStart      int64
	Score            int
	TxCount          int
	UniqueWallets    int
	WashTradingCount int
	WhaleTxCount     int
	WhaleWallets     []string // distinct whale wallets in the bucket
	BuyToSellRatio   Ratio
	Coordinated      bool // score >= 5 with >= 2 distinct whale wallets
}

// CyclePhase is a coarse narrative label for a price/volume regime.
type CyclePhase string

// Market cycle phases
const (
	PhaseAccumulation CyclePhase = "accumulation"
	PhaseMarkup       CyclePhase = "markup"
	PhaseDistribution CyclePhase = "distribution"
	PhaseMarkdown     CyclePhase = "markdown"
)

// MarketPeriod is one of six equal-duration slices of the observed range.
type MarketPeriod struct {
	Index          int
	StartTime      int64
	EndTime        int64
	FirstPrice     float64
	LastPrice      float64
	PriceChangePct float64
	BuyCount       int
	SellCount      int
	BuySellRatio   Ratio
}

// PhaseTransition is a detected shift between adjacent periods.
type PhaseTransition struct {
	From       CyclePhase
	To         CyclePhase
	FromPeriod int // index of the earlier period
	ToPeriod   int
	At         int64 // boundary timestamp, Unix seconds
}
