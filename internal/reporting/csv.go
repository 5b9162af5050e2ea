package reporting

import (
	"fmt"
	"strings"

	"token-forensics/internal/analysis"
)

// RenderSuspectsCSV renders the ranked suspect list as CSV.
func RenderSuspectsCSV(r *analysis.Result) string {
	var sb strings.Builder

	sb.WriteString("wallet,score,total_value,buy_sell_ratio,active_hours,tx_count,tx_per_hour,net_quote_change,pct_of_market\n")

	impactByWallet := make(map[string]float64, len(r.MarketImpacts))
	for _, im := range r.MarketImpacts {
		impactByWallet[im.Address] = im.PctOfMarket
	}

	for _, s := range r.TopSuspects {
		sb.WriteString(fmt.Sprintf("%s,%d,%.6f,%s,%.4f,%d,%.4f,%.6f,%.4f\n",
			s.Address,
			s.Score,
			s.TotalValue,
			s.BuyToSellRatio.String(),
			s.ActiveDurationHours,
			s.TransactionCount,
			s.TransactionFrequency,
			s.NetQuoteChange,
			impactByWallet[s.Address],
		))
	}

	return sb.String()
}

// RenderPriceChangesCSV renders the ordered price-change event list as CSV.
func RenderPriceChangesCSV(r *analysis.Result) string {
	var sb strings.Builder

	sb.WriteString("start_time,end_time,start_price,end_price,percent_change,significant,extreme\n")
	for _, ev := range r.PriceChanges {
		sb.WriteString(fmt.Sprintf("%d,%d,%.10g,%.10g,%.4f,%t,%t\n",
			ev.StartTime, ev.EndTime, ev.StartPrice, ev.EndPrice,
			ev.PercentChange, ev.Significant, ev.Extreme))
	}

	return sb.String()
}
