package domain

// WalletProfile accumulates lifetime statistics for one wallet.
// Built by a single fold over the sorted trade sequence, read-only afterward.
type WalletProfile struct {
	Address string

	BuyCount  int
	BuyVolume float64 // token units
	BuyValue  float64 // quote units

	SellCount  int
	SellVolume float64
	SellValue  float64

	TotalTransactions int
	FirstSeen         int64 // Unix seconds
	LastSeen          int64
	NetQuoteChange    float64 // cumulative SOL delta
}

// TotalValue returns buy value plus sell value in quote units.
func (p *WalletProfile) TotalValue() float64 {
	return p.BuyValue + p.SellValue
}

// ActiveDurationHours returns the span between first and last trade in hours.
func (p *WalletProfile) ActiveDurationHours() float64 {
	return float64(p.LastSeen-p.FirstSeen) / 3600.0
}

// BuyToSellRatio returns the count-based ratio under the shared convention.
func (p *WalletProfile) BuyToSellRatio() Ratio {
	return RatioOf(float64(p.BuyCount), float64(p.SellCount))
}

// Suspicion score display bands.
const (
	SuspicionFlagged       = 3
	SuspicionHighSuspicion = 5
)

// SuspicionProfile is the scored view of a wallet, one per WalletProfile.
// Immutable once computed.
type SuspicionProfile struct {
	Address              string
	TotalValue           float64
	BuyToSellRatio       Ratio
	ActiveDurationHours  float64
	TransactionFrequency float64 // trades per active hour
	TransactionCount     int
	NetQuoteChange       float64
	Score                int
}

// Flagged reports whether the wallet crosses the display flag band.
func (s *SuspicionProfile) Flagged() bool {
	return s.Score >= SuspicionFlagged
}

// HighSuspicion reports whether the wallet crosses the high-suspicion band.
func (s *SuspicionProfile) HighSuspicion() bool {
	return s.Score >= SuspicionHighSuspicion
}

// MarketImpact is one flagged wallet's share of dataset-wide trade value.
type MarketImpact struct {
	Address     string
	TradeValue  float64 // wallet total value, quote units
	PctOfMarket float64 // TradeValue / dataset total * 100
	Score       int
}
