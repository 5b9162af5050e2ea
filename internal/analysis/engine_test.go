package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-forensics/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func rawBuy(ts int64, txID, wallet string, amount, price, netQuote float64) domain.RawTrade {
	return domain.RawTrade{
		Timestamp: ts, Side: "buy", Wallet: wallet,
		BuyAmount: ptr(amount), BuyPrice: ptr(price),
		NetSOLChange: netQuote, TxID: txID,
	}
}

func rawSell(ts int64, txID, wallet string, amount, price, netQuote float64) domain.RawTrade {
	return domain.RawTrade{
		Timestamp: ts, Side: "sell", Wallet: wallet,
		SellAmount: ptr(amount), SellPrice: ptr(price),
		NetSOLChange: netQuote, TxID: txID,
	}
}

func fixedEngine() *Engine {
	n := 0
	return New(DefaultParams()).
		WithClock(func() time.Time { return time.Unix(1700000000, 0).UTC() }).
		WithIDGenerator(func() string { n++; return "run-fixed" })
}

func TestEngineRunEmptyInput(t *testing.T) {
	res := fixedEngine().Run(nil)

	require.NotNil(t, res)
	assert.Equal(t, "run-fixed", res.RunID)
	assert.Empty(t, res.Trades)
	assert.Empty(t, res.Ranked)
	assert.Empty(t, res.CoarseBuckets)
	assert.Empty(t, res.PriceChanges)
	assert.Empty(t, res.PumpCandidates)
	assert.Empty(t, res.MarketPeriods)
	assert.Empty(t, res.FluctuationNotes)
	assert.False(t, res.HasFindings())
	assert.NotEmpty(t, res.Digest) // empty input still hashes deterministically
}

func TestEngineRunFullPipeline(t *testing.T) {
	rows := []domain.RawTrade{
		rawBuy(1000, "tx-1", "A", 200, 0.5, -100),
		rawSell(1400, "tx-2", "B", 100, 0.55, 55),
		rawBuy(2200, "tx-3", "A", 50, 0.6, -30),
		rawBuy(4000, "tx-4", "C", 30000, 0.6, -18000), // whale buy
		rawBuy(4100, "tx-5", "D", 25000, 0.6, -15000), // second whale buy, same hour
		{Timestamp: 0, Side: "buy", TxID: "tx-bad"},   // dropped
	}

	res := fixedEngine().Run(rows)

	assert.Len(t, res.Trades, 5)
	assert.Equal(t, 1, res.DroppedRecords)
	assert.Len(t, res.Profiles, 4)
	assert.NotEmpty(t, res.Ranked)

	// whale entry hour at 3600 with two distinct wallets
	require.Len(t, res.WhaleEntries, 1)
	assert.Equal(t, int64(3600), res.WhaleEntries[0].HourStart)
	assert.Equal(t, 2, res.WhaleEntries[0].WhaleCount)
	assert.True(t, res.HasFindings())

	var wantValue float64
	for _, tr := range res.Trades {
		wantValue += tr.Value
	}
	assert.Equal(t, wantValue, res.TotalTradeValue)
}

func TestEngineDeterministicDigest(t *testing.T) {
	rows := []domain.RawTrade{
		rawBuy(1000, "tx-1", "A", 200, 0.5, -100),
		rawSell(1400, "tx-2", "B", 100, 0.55, 55),
	}

	e := fixedEngine()
	first := e.Run(rows)
	second := e.Run(rows)

	assert.Equal(t, first.Digest, second.Digest)

	// any field change shifts the digest
	rows[1].NetSOLChange = 56
	third := e.Run(rows)
	assert.NotEqual(t, first.Digest, third.Digest)
}

func TestEngineFluctuationNotesGated(t *testing.T) {
	// multiplier 2x stays quiet
	calm := fixedEngine().Run([]domain.RawTrade{
		rawBuy(1000, "tx-1", "A", 100, 1, -100),
		rawBuy(2000, "tx-2", "A", 100, 2, -200),
	})
	assert.Empty(t, calm.FluctuationNotes)

	// multiplier 20000x crosses the risk bound
	wild := fixedEngine().Run([]domain.RawTrade{
		rawBuy(1000, "tx-1", "A", 100, 0.0001, -0.01),
		rawBuy(2000, "tx-2", "A", 100, 2, -200),
	})
	assert.NotEmpty(t, wild.FluctuationNotes)
}

func TestResultSummary(t *testing.T) {
	rows := []domain.RawTrade{
		rawBuy(1000, "tx-1", "A", 200, 0.5, -100),
		rawSell(1400, "tx-2", "B", 100, 0.55, 55),
		{Timestamp: 0, Side: "buy", TxID: "tx-bad"},
	}

	res := fixedEngine().Run(rows)
	sum := res.Summary()

	assert.Equal(t, res.RunID, sum.RunID)
	assert.Equal(t, res.Digest, sum.Digest)
	assert.Equal(t, 2, sum.TradeCount)
	assert.Equal(t, 1, sum.DroppedRecords)
	assert.Equal(t, res.TotalTradeValue, sum.TotalTradeValue)
}
