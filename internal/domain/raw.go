package domain

// RawTrade is one unvalidated row as delivered by an ingestion source
// (trade log file or live feed). Per-side fields are nullable because DEX
// exports populate only the active side.
type RawTrade struct {
	Timestamp    int64    `json:"timestamp"`
	Side         string   `json:"side"`
	Wallet       string   `json:"wallet_address"`
	BuyAmount    *float64 `json:"buy_amount,omitempty"`
	BuyPrice     *float64 `json:"buy_price,omitempty"`
	SellAmount   *float64 `json:"sell_amount,omitempty"`
	SellPrice    *float64 `json:"sell_price,omitempty"`
	NetSOLChange float64  `json:"net_sol_change"`
	TxID         string   `json:"tx_id"`
}
