package reporting

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"token-forensics/internal/analysis"
	"token-forensics/internal/domain"
)

func fixedResult() *analysis.Result {
	return &analysis.Result{
		RunID:           "run-fixed",
		GeneratedAt:     time.Unix(1700000000, 0).UTC(),
		Trades:          []domain.TradeRecord{{Timestamp: 1000, Value: 50}, {Timestamp: 2000, Value: 70}},
		TotalTradeValue: 120,
		Profiles: map[string]*domain.WalletProfile{
			"A": {Address: "A"},
		},
		TopSuspects: []domain.SuspicionProfile{
			{Address: "A", Score: 7, TotalValue: 120, BuyToSellRatio: domain.RatioOf(2, 0)},
			{Address: "B", Score: 3, TotalValue: 30, BuyToSellRatio: domain.RatioOf(1, 1)},
			{Address: "C", Score: 1, TotalValue: 5, BuyToSellRatio: domain.RatioOf(0, 0)},
		},
		PriceChanges: []domain.PriceChangeEvent{
			{StartTime: 600, EndTime: 1200, StartPrice: 10, EndPrice: 12, PercentChange: 20, Significant: true, Extreme: true},
		},
		Extrema: domain.PriceExtrema{MaxPrice: 12, MaxPriceTime: 1200, MinPrice: 10, MinPriceTime: 600, Multiplier: 1.2},
		PumpCandidates: []domain.PumpAndDumpCandidate{
			{
				Event:          domain.PriceChangeEvent{StartTime: 600, EndTime: 1200, PercentChange: 20},
				RetailBuyCount: 8, WhaleSellCount: 2, WhaleSellValue: 3000, Confirmed: true,
			},
		},
		WhaleEntries: []domain.WhaleEntryEvent{
			{HourStart: 0, WhaleCount: 2, TxCount: 2, BuyVolume: 54000, PctOfVolume: 40.3},
		},
		MarketImpacts: []domain.MarketImpact{
			{Address: "A", TradeValue: 120, PctOfMarket: 100, Score: 7},
		},
	}
}

func TestRenderMarkdown(t *testing.T) {
	md := RenderMarkdown(fixedResult())

	assert.Contains(t, md, "# Manipulation Assessment")
	assert.Contains(t, md, "Run: run-fixed")
	assert.Contains(t, md, "| Trades | 2 |")
	assert.Contains(t, md, "## Suspected Manipulators")
	assert.Contains(t, md, "HIGH")    // score 7
	assert.Contains(t, md, "flagged") // score 3
	assert.Contains(t, md, "[CONFIRMED] +20.00%")
	assert.Contains(t, md, "## Whale Entries")
	assert.Contains(t, md, "## Market Impact")
	assert.NotContains(t, md, "## Volatility Risk") // no fluctuation notes
}

func TestRenderMarkdownInsufficientData(t *testing.T) {
	r := &analysis.Result{
		RunID:          "run-empty",
		GeneratedAt:    time.Unix(1700000000, 0).UTC(),
		DroppedRecords: 4,
	}

	md := RenderMarkdown(r)
	assert.Contains(t, md, "Insufficient data")
	assert.Contains(t, md, "4 malformed rows dropped")
	assert.NotContains(t, md, "## Dataset")
}

func TestRenderMarkdownDeterministic(t *testing.T) {
	assert.Equal(t, RenderMarkdown(fixedResult()), RenderMarkdown(fixedResult()))
}

func TestRenderSuspectsCSV(t *testing.T) {
	csv := RenderSuspectsCSV(fixedResult())
	lines := strings.Split(strings.TrimSpace(csv), "\n")

	assert.Equal(t, "wallet,score,total_value,buy_sell_ratio,active_hours,tx_count,tx_per_hour,net_quote_change,pct_of_market", lines[0])
	assert.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[1], "A,7,"))
	assert.Contains(t, lines[1], ",inf,")      // sell-free ratio renders as inf
	assert.Contains(t, lines[1], ",100.0000")  // market impact joined by wallet
	assert.True(t, strings.HasSuffix(lines[3], ",0.0000")) // wallet C has no impact row
}

func TestRenderPriceChangesCSV(t *testing.T) {
	csv := RenderPriceChangesCSV(fixedResult())
	lines := strings.Split(strings.TrimSpace(csv), "\n")

	assert.Equal(t, "start_time,end_time,start_price,end_price,percent_change,significant,extreme", lines[0])
	assert.Equal(t, "600,1200,10,12,20.0000,true,true", lines[1])
}

func TestRenderChartJSON(t *testing.T) {
	b, err := RenderChartJSON(fixedResult())
	assert.NoError(t, err)
	s := string(b)
	assert.Contains(t, s, `"annotations"`)
	assert.Contains(t, s, `"pump"`)
	assert.Contains(t, s, `"whale_entry"`)
}
