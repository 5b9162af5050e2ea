package patterns

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"token-forensics/internal/domain"
)

func TestBuildMarketPeriods(t *testing.T) {
	// 6 trades spanning exactly 6000 seconds, one per 1000s period
	trades := []domain.TradeRecord{
		buy(0, "A", 100, 1.0),
		buy(1000, "A", 100, 1.1),
		sell(2000, "B", 100, 1.2),
		sell(3000, "B", 100, 1.1),
		buy(4000, "A", 100, 1.0),
		sell(6000, "B", 100, 0.9),
	}

	periods := BuildMarketPeriods(trades, 6)
	require.Len(t, periods, 6)

	assert.Equal(t, int64(0), periods[0].StartTime)
	assert.Equal(t, int64(1000), periods[0].EndTime)
	assert.Equal(t, int64(6000), periods[5].EndTime)

	// one trade per period except the last boundary trade
	assert.Equal(t, 1, periods[0].BuyCount+periods[0].SellCount)
	assert.Equal(t, 1.0, periods[0].FirstPrice)
	assert.Equal(t, 1.0, periods[0].LastPrice)

	// the range-end trade lands in the last period
	assert.Equal(t, 1, periods[5].SellCount)
	assert.Equal(t, 0.9, periods[5].LastPrice)
}

func TestBuildMarketPeriodsPriceChange(t *testing.T) {
	trades := []domain.TradeRecord{
		buy(0, "A", 100, 1.0),
		buy(400, "A", 100, 1.5),
		sell(1000, "B", 100, 1.5),
	}

	periods := BuildMarketPeriods(trades, 2)
	require.Len(t, periods, 2)
	assert.InDelta(t, 50, periods[0].PriceChangePct, 0.001)
	assert.Equal(t, 0.0, periods[1].PriceChangePct)
}

func TestBuildMarketPeriodsDegenerate(t *testing.T) {
	assert.Nil(t, BuildMarketPeriods(nil, 6))
	assert.Nil(t, BuildMarketPeriods([]domain.TradeRecord{buy(100, "A", 1, 1)}, 6))

	// identical timestamps give a zero span
	same := []domain.TradeRecord{buy(100, "A", 1, 1), sell(100, "B", 1, 1)}
	assert.Nil(t, BuildMarketPeriods(same, 6))
}

func mkPeriod(i int, changePct float64, buys, sells int) domain.MarketPeriod {
	return domain.MarketPeriod{
		Index:          i,
		StartTime:      int64(i) * 1000,
		EndTime:        int64(i+1) * 1000,
		PriceChangePct: changePct,
		BuyCount:       buys,
		SellCount:      sells,
		BuySellRatio:   domain.RatioOf(float64(buys), float64(sells)),
	}
}

func TestDetectPhaseTransitions(t *testing.T) {
	tests := []struct {
		name    string
		periods []domain.MarketPeriod
		want    []domain.PhaseTransition
	}{
		{
			name: "accumulation to markup",
			periods: []domain.MarketPeriod{
				mkPeriod(0, 2, 5, 5),
				mkPeriod(1, 15, 8, 2),
			},
			want: []domain.PhaseTransition{
				{From: domain.PhaseAccumulation, To: domain.PhaseMarkup, FromPeriod: 0, ToPeriod: 1, At: 1000},
			},
		},
		{
			name: "markup to distribution needs sell pressure",
			periods: []domain.MarketPeriod{
				mkPeriod(0, 15, 8, 2),
				mkPeriod(1, 2, 3, 7), // flat with ratio < 1
			},
			want: []domain.PhaseTransition{
				{From: domain.PhaseMarkup, To: domain.PhaseDistribution, FromPeriod: 0, ToPeriod: 1, At: 1000},
			},
		},
		{
			name: "markup to distribution blocked by buy pressure",
			periods: []domain.MarketPeriod{
				mkPeriod(0, 15, 8, 2),
				mkPeriod(1, 2, 7, 3), // flat but still net buying
			},
			want: nil,
		},
		{
			name: "distribution to markdown",
			periods: []domain.MarketPeriod{
				mkPeriod(0, 1, 3, 7),
				mkPeriod(1, -20, 2, 8),
			},
			want: []domain.PhaseTransition{
				{From: domain.PhaseDistribution, To: domain.PhaseMarkdown, FromPeriod: 0, ToPeriod: 1, At: 1000},
			},
		},
		{
			name:    "no transitions in steady market",
			periods: []domain.MarketPeriod{mkPeriod(0, 2, 5, 5), mkPeriod(1, 3, 5, 5)},
			want:    nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectPhaseTransitions(tt.periods)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectPhaseTransitionsMultipleRulesSamePair(t *testing.T) {
	// flat period with sell pressure followed by a crash also counts as
	// accumulation->markup if the next period pumps; here the next crashes,
	// firing only the markdown rule.
	periods := []domain.MarketPeriod{
		mkPeriod(0, 1, 3, 7),
		mkPeriod(1, 12, 8, 2),
		mkPeriod(2, 1, 3, 7),
		mkPeriod(3, -15, 2, 8),
	}

	got := DetectPhaseTransitions(periods)
	require.Len(t, got, 3)
	assert.Equal(t, domain.PhaseAccumulation, got[0].From) // 0 -> 1 pump
	assert.Equal(t, domain.PhaseMarkup, got[1].From)       // 1 -> 2 stall with sell pressure
	assert.Equal(t, domain.PhaseDistribution, got[2].From) // 2 -> 3 crash
}

func TestMarketImpact(t *testing.T) {
	suspects := []domain.SuspicionProfile{
		{Address: "A", TotalValue: 25000, Score: 8},
		{Address: "B", TotalValue: 5000, Score: 4},
	}

	impacts := MarketImpact(suspects, 100000)
	require.Len(t, impacts, 2)

	assert.Equal(t, "A", impacts[0].Address)
	assert.Equal(t, 25.0, impacts[0].PctOfMarket)
	assert.Equal(t, 8, impacts[0].Score)
	assert.Equal(t, 5.0, impacts[1].PctOfMarket)
}

func TestMarketImpactZeroTotal(t *testing.T) {
	impacts := MarketImpact([]domain.SuspicionProfile{{Address: "A", TotalValue: 100}}, 0)
	require.Len(t, impacts, 1)
	assert.Equal(t, 0.0, impacts[0].PctOfMarket)
}
