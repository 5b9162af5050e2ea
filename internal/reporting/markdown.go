// Package reporting renders analysis results for downstream consumers:
// Markdown narrative, CSV exports, and chart configuration.
package reporting

import (
	"fmt"
	"strings"
	"time"

	"token-forensics/internal/analysis"
)

// RenderMarkdown renders the full manipulation assessment as Markdown.
func RenderMarkdown(r *analysis.Result) string {
	var sb strings.Builder

	sb.WriteString("# Manipulation Assessment\n\n")
	sb.WriteString(fmt.Sprintf("Run: %s | Generated: %s\n\n", r.RunID, r.GeneratedAt.Format(time.RFC3339)))

	if len(r.Trades) == 0 {
		sb.WriteString("**Insufficient data.** No valid trade records after normalization")
		if r.DroppedRecords > 0 {
			sb.WriteString(fmt.Sprintf(" (%d malformed rows dropped)", r.DroppedRecords))
		}
		sb.WriteString(".\n")
		return sb.String()
	}

	// Dataset summary
	sb.WriteString("## Dataset\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Trades | %d |\n", len(r.Trades)))
	sb.WriteString(fmt.Sprintf("| Dropped rows | %d |\n", r.DroppedRecords))
	sb.WriteString(fmt.Sprintf("| Anomalous prices | %d |\n", r.AnomalousPrices))
	sb.WriteString(fmt.Sprintf("| Wallets | %d |\n", len(r.Profiles)))
	sb.WriteString(fmt.Sprintf("| Total trade value | %.2f |\n", r.TotalTradeValue))
	sb.WriteString(fmt.Sprintf("| Total token volume | %.4f |\n", r.TotalTokenVolume))
	sb.WriteString(fmt.Sprintf("| Range | %d .. %d |\n", r.Trades[0].Timestamp, r.Trades[len(r.Trades)-1].Timestamp))
	sb.WriteString("\n")

	writePriceSection(&sb, r)
	writeSuspectsSection(&sb, r)
	writePumpSection(&sb, r)
	writeCoordinatedSection(&sb, r)
	writeWhaleSection(&sb, r)
	writeCycleSection(&sb, r)
	writeImpactSection(&sb, r)

	if len(r.FluctuationNotes) > 0 {
		sb.WriteString("## Volatility Risk\n\n")
		for _, note := range r.FluctuationNotes {
			sb.WriteString(fmt.Sprintf("- %s\n", note))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writePriceSection(sb *strings.Builder, r *analysis.Result) {
	sb.WriteString("## Price Movement\n\n")
	ex := r.Extrema
	sb.WriteString(fmt.Sprintf("Max %.8g at %d, min %.8g at %d, multiplier %.2fx\n\n",
		ex.MaxPrice, ex.MaxPriceTime, ex.MinPrice, ex.MinPriceTime, ex.Multiplier))

	if len(r.PriceChanges) == 0 {
		sb.WriteString("No significant price movements.\n\n")
		return
	}
	sb.WriteString("| Start | End | From | To | Change % | Extreme |\n")
	sb.WriteString("|-------|-----|------|----|----------|---------|\n")
	for _, ev := range r.PriceChanges {
		extreme := ""
		if ev.Extreme {
			extreme = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %d | %d | %.8g | %.8g | %+.2f | %s |\n",
			ev.StartTime, ev.EndTime, ev.StartPrice, ev.EndPrice, ev.PercentChange, extreme))
	}
	sb.WriteString("\n")
}

func writeSuspectsSection(sb *strings.Builder, r *analysis.Result) {
	sb.WriteString("## Suspected Manipulators\n\n")
	if len(r.TopSuspects) == 0 {
		sb.WriteString("No wallets scored.\n\n")
		return
	}
	sb.WriteString("| Wallet | Score | Band | Total Value | B/S Ratio | Tx | Freq/h | Net SOL |\n")
	sb.WriteString("|--------|-------|------|-------------|-----------|----|--------|--------|\n")
	for _, s := range r.TopSuspects {
		band := ""
		switch {
		case s.HighSuspicion():
			band = "HIGH"
		case s.Flagged():
			band = "flagged"
		}
		sb.WriteString(fmt.Sprintf("| %s | %d | %s | %.2f | %s | %d | %.2f | %+.2f |\n",
			s.Address, s.Score, band, s.TotalValue, s.BuyToSellRatio.String(),
			s.TransactionCount, s.TransactionFrequency, s.NetQuoteChange))
	}
	sb.WriteString("\n")
}

func writePumpSection(sb *strings.Builder, r *analysis.Result) {
	sb.WriteString("## Pump-and-Dump Candidates\n\n")
	if len(r.PumpCandidates) == 0 {
		sb.WriteString("No extreme upward movements to evaluate.\n\n")
		return
	}
	for _, c := range r.PumpCandidates {
		status := "unconfirmed"
		if c.Confirmed {
			status = "CONFIRMED"
		}
		sb.WriteString(fmt.Sprintf("- [%s] +%.2f%% over %d..%d: %d retail buys in window, %d whale sells (%.2f) in follow window\n",
			status, c.Event.PercentChange, c.Event.StartTime, c.Event.EndTime,
			c.RetailBuyCount, c.WhaleSellCount, c.WhaleSellValue))
		if c.PriorAccumulation {
			sb.WriteString(fmt.Sprintf("  - prior low-price whale accumulation: %.4f tokens\n", c.PriorAccumulationVol))
		}
		if c.HeavySmallBuying {
			sb.WriteString(fmt.Sprintf("  - heavy small buying: %d sub-medium buys during the pump\n", c.SmallBuyCount))
		}
	}
	sb.WriteString("\n")
}

func writeCoordinatedSection(sb *strings.Builder, r *analysis.Result) {
	sb.WriteString("## Suspicious Intervals\n\n")
	if len(r.SuspiciousIntervals) == 0 {
		sb.WriteString("No suspicious intervals.\n\n")
		return
	}
	sb.WriteString("| Bucket | Score | Tx | Wallets | Wash | Whale Tx | Coordinated |\n")
	sb.WriteString("|--------|-------|----|---------|------|----------|-------------|\n")
	for _, si := range r.SuspiciousIntervals {
		coord := ""
		if si.Coordinated {
			coord = "yes"
		}
		sb.WriteString(fmt.Sprintf("| %d | %d | %d | %d | %d | %d | %s |\n",
			si.BucketStart, si.Score, si.TxCount, si.UniqueWallets,
			si.WashTradingCount, si.WhaleTxCount, coord))
	}
	sb.WriteString("\n")
}

func writeWhaleSection(sb *strings.Builder, r *analysis.Result) {
	sb.WriteString("## Whale Entries\n\n")
	if len(r.WhaleEntries) == 0 {
		sb.WriteString("No whale entry windows.\n\n")
		return
	}
	sb.WriteString("| Hour | Whales | Tx | Buy Volume | % of Volume |\n")
	sb.WriteString("|------|--------|----|------------|-------------|\n")
	for _, w := range r.WhaleEntries {
		sb.WriteString(fmt.Sprintf("| %d | %d | %d | %.4f | %.2f |\n",
			w.HourStart, w.WhaleCount, w.TxCount, w.BuyVolume, w.PctOfVolume))
	}
	sb.WriteString("\n")
}

func writeCycleSection(sb *strings.Builder, r *analysis.Result) {
	sb.WriteString("## Market Cycle\n\n")
	if len(r.MarketPeriods) == 0 {
		sb.WriteString("Observed range too short for cycle analysis.\n\n")
		return
	}
	sb.WriteString("| Period | Start | End | Change % | B/S Ratio |\n")
	sb.WriteString("|--------|-------|-----|----------|-----------|\n")
	for _, p := range r.MarketPeriods {
		sb.WriteString(fmt.Sprintf("| %d | %d | %d | %+.2f | %s |\n",
			p.Index, p.StartTime, p.EndTime, p.PriceChangePct, p.BuySellRatio.String()))
	}
	sb.WriteString("\n")
	if len(r.PhaseTransitions) > 0 {
		for _, tr := range r.PhaseTransitions {
			sb.WriteString(fmt.Sprintf("- %s → %s between periods %d and %d\n",
				tr.From, tr.To, tr.FromPeriod, tr.ToPeriod))
		}
		sb.WriteString("\n")
	}
}

func writeImpactSection(sb *strings.Builder, r *analysis.Result) {
	sb.WriteString("## Market Impact\n\n")
	if len(r.MarketImpacts) == 0 {
		sb.WriteString("No flagged wallets.\n\n")
		return
	}
	sb.WriteString("| Wallet | Score | Trade Value | % of Market |\n")
	sb.WriteString("|--------|-------|-------------|-------------|\n")
	for _, im := range r.MarketImpacts {
		sb.WriteString(fmt.Sprintf("| %s | %d | %.2f | %.2f |\n",
			im.Address, im.Score, im.TradeValue, im.PctOfMarket))
	}
	sb.WriteString("\n")
}
