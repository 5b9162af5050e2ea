// Package normalization validates raw trade rows and produces the canonical
// sorted trade sequence every downstream stage consumes.
package normalization

import (
	"sort"

	"token-forensics/internal/domain"
	"token-forensics/internal/logger"
)

// Price sanity bounds used when the caller passes zeroes.
const (
	DefaultPriceSanityMin = 1e-8
	DefaultPriceSanityMax = 1000.0
)

// Result is the outcome of one normalization pass.
type Result struct {
	Trades          []domain.TradeRecord // sorted ascending by timestamp, stable
	Dropped         int                  // rows rejected as malformed
	AnomalousPrices int                  // rows flagged outside sanity bounds, kept
}

// Normalizer validates and orders raw rows.
type Normalizer struct {
	priceSanityMin float64
	priceSanityMax float64
}

// New creates a normalizer. Non-positive bounds fall back to defaults.
func New(priceSanityMin, priceSanityMax float64) *Normalizer {
	if priceSanityMin <= 0 {
		priceSanityMin = DefaultPriceSanityMin
	}
	if priceSanityMax <= 0 {
		priceSanityMax = DefaultPriceSanityMax
	}
	return &Normalizer{priceSanityMin: priceSanityMin, priceSanityMax: priceSanityMax}
}

// Normalize converts raw rows into sorted TradeRecords.
// Malformed rows are dropped and counted, never fatal. Prices outside the
// sanity bounds are flagged for operator review but the record is kept.
func (n *Normalizer) Normalize(rows []domain.RawTrade) Result {
	var res Result
	res.Trades = make([]domain.TradeRecord, 0, len(rows))

	for i := range rows {
		rec, ok := n.normalizeRow(&rows[i])
		if !ok {
			res.Dropped++
			continue
		}
		if rec.Price < n.priceSanityMin || rec.Price > n.priceSanityMax {
			res.AnomalousPrices++
			logger.Warn("anomalous price %.12g at ts=%d tx=%s, keeping record", rec.Price, rec.Timestamp, rec.TxID)
		}
		res.Trades = append(res.Trades, rec)
	}

	// Stable: rows with equal timestamps keep their arrival order.
	sort.SliceStable(res.Trades, func(i, j int) bool {
		return res.Trades[i].Timestamp < res.Trades[j].Timestamp
	})

	return res
}

// normalizeRow validates one row. Requirements: positive timestamp, known
// side, and amount+price present for that side.
func (n *Normalizer) normalizeRow(row *domain.RawTrade) (domain.TradeRecord, bool) {
	if row.Timestamp <= 0 {
		logger.Debug("dropping row tx=%s: missing timestamp", row.TxID)
		return domain.TradeRecord{}, false
	}

	side := domain.Side(row.Side)
	if !side.Valid() {
		logger.Debug("dropping row tx=%s: unknown side %q", row.TxID, row.Side)
		return domain.TradeRecord{}, false
	}

	var amount, price *float64
	if side == domain.SideBuy {
		amount, price = row.BuyAmount, row.BuyPrice
	} else {
		amount, price = row.SellAmount, row.SellPrice
	}
	if amount == nil || price == nil {
		logger.Debug("dropping row tx=%s: missing %s amount/price", row.TxID, side)
		return domain.TradeRecord{}, false
	}
	if *amount < 0 || *price <= 0 {
		logger.Debug("dropping row tx=%s: non-positive price or negative amount", row.TxID)
		return domain.TradeRecord{}, false
	}

	return domain.TradeRecord{
		Timestamp:      row.Timestamp,
		Side:           side,
		Wallet:         row.Wallet,
		Amount:         *amount,
		Price:          *price,
		Value:          *amount * *price,
		NetQuoteChange: row.NetSOLChange,
		TxID:           row.TxID,
	}, true
}
