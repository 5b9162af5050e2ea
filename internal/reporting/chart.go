package reporting

import (
	"encoding/json"
	"fmt"

	"token-forensics/internal/analysis"
	"token-forensics/internal/intervals"
	"token-forensics/internal/pricemoves"
)

// ChartConfig is the presentation-agnostic chart description handed to the
// visualization layer. The hourly volume axis is gap-free by construction.
type ChartConfig struct {
	Title        string                  `json:"title"`
	PriceSeries  []pricemoves.PricePoint `json:"price_series"`
	HourlyVolume []intervals.VolumePoint `json:"hourly_volume"`
	Annotations  []ChartAnnotation       `json:"annotations,omitempty"`
}

// ChartAnnotation marks a detected event on the chart timeline.
type ChartAnnotation struct {
	Time  int64  `json:"time"`
	Kind  string `json:"kind"` // "pump" | "whale_entry" | "coordinated"
	Label string `json:"label"`
}

// BuildChartConfig derives the chart description from an analysis result.
func BuildChartConfig(r *analysis.Result) ChartConfig {
	cfg := ChartConfig{
		Title:        "Token trade activity",
		PriceSeries:  r.PriceSeries,
		HourlyVolume: r.HourlyVolume,
	}

	for _, c := range r.PumpCandidates {
		if !c.Confirmed {
			continue
		}
		cfg.Annotations = append(cfg.Annotations, ChartAnnotation{
			Time:  c.Event.StartTime,
			Kind:  "pump",
			Label: fmt.Sprintf("pump +%.1f%%", c.Event.PercentChange),
		})
	}
	for _, w := range r.WhaleEntries {
		cfg.Annotations = append(cfg.Annotations, ChartAnnotation{
			Time:  w.HourStart,
			Kind:  "whale_entry",
			Label: fmt.Sprintf("%d whales", w.WhaleCount),
		})
	}
	for _, si := range r.CoordinatedIntervals {
		cfg.Annotations = append(cfg.Annotations, ChartAnnotation{
			Time:  si.BucketStart,
			Kind:  "coordinated",
			Label: fmt.Sprintf("score %d", si.Score),
		})
	}

	return cfg
}

// RenderChartJSON serializes the chart config with stable field order.
func RenderChartJSON(r *analysis.Result) ([]byte, error) {
	cfg := BuildChartConfig(r)
	return json.MarshalIndent(cfg, "", "  ")
}
