package wallets

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-forensics/internal/domain"
)

func trade(ts int64, side domain.Side, wallet string, amount, price, netQuote float64) domain.TradeRecord {
	return domain.TradeRecord{
		Timestamp:      ts,
		Side:           side,
		Wallet:         wallet,
		Amount:         amount,
		Price:          price,
		Value:          amount * price,
		NetQuoteChange: netQuote,
		TxID:           "tx",
	}
}

func TestAggregate(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(1000, domain.SideBuy, "A", 100, 0.5, -50),
		trade(2000, domain.SideSell, "A", 40, 0.6, 24),
		trade(3000, domain.SideBuy, "B", 10, 0.5, -5),
	}

	set := Aggregate(trades)
	require.Equal(t, 2, set.Len())

	a := set.ByAddress["A"]
	assert.Equal(t, 1, a.BuyCount)
	assert.Equal(t, 1, a.SellCount)
	assert.Equal(t, 100.0, a.BuyVolume)
	assert.Equal(t, 40.0, a.SellVolume)
	assert.Equal(t, 50.0, a.BuyValue)
	assert.Equal(t, 24.0, a.SellValue)
	assert.Equal(t, 74.0, a.TotalValue())
	assert.Equal(t, 2, a.TotalTransactions)
	assert.Equal(t, int64(1000), a.FirstSeen)
	assert.Equal(t, int64(2000), a.LastSeen)
	assert.Equal(t, -26.0, a.NetQuoteChange)

	assert.Equal(t, []string{"A", "B"}, set.Order)
}

func TestAggregateSkipsEmptyWallet(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(1000, domain.SideBuy, "", 100, 0.5, -50),
		trade(2000, domain.SideBuy, "A", 10, 0.5, -5),
	}

	set := Aggregate(trades)
	assert.Equal(t, 1, set.Len())
	assert.NotContains(t, set.ByAddress, "")
}

func TestAggregatePermutationInvariant(t *testing.T) {
	trades := []domain.TradeRecord{
		trade(1000, domain.SideBuy, "A", 100, 0.5, -50),
		trade(1500, domain.SideSell, "B", 20, 0.55, 11),
		trade(2000, domain.SideSell, "A", 40, 0.6, 24),
		trade(2500, domain.SideBuy, "B", 30, 0.6, -18),
		trade(3000, domain.SideBuy, "A", 5, 0.7, -3.5),
	}

	want := Aggregate(trades)

	shuffled := make([]domain.TradeRecord, len(trades))
	copy(shuffled, trades)
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Aggregate(shuffled)
		require.Equal(t, want.Len(), got.Len())
		for addr, wp := range want.ByAddress {
			assert.Equal(t, *wp, *got.ByAddress[addr], "wallet %s differs", addr)
		}
	}
}
