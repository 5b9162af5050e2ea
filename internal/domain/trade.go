package domain

// Side identifies the direction of a trade.
type Side string

// Trade side constants
const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// Valid reports whether the side is a known value.
func (s Side) Valid() bool {
	return s == SideBuy || s == SideSell
}

// TradeRecord is a single normalized DEX trade for the analyzed token.
// Created once by the normalizer and never mutated afterward.
type TradeRecord struct {
	Timestamp      int64   // Unix timestamp in seconds
	Side           Side    // "buy" | "sell"
	Wallet         string  // wallet address (base58)
	Amount         float64 // token units, non-negative
	Price          float64 // quote per token, positive
	Value          float64 // Amount * Price, quote units
	NetQuoteChange float64 // signed SOL delta for the wallet
	TxID           string  // transaction signature
}

// IsBuy reports whether the trade is buy-side.
func (t *TradeRecord) IsBuy() bool {
	return t.Side == SideBuy
}
