// Package config loads application configuration from file and environment.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Thresholds ThresholdConfig `mapstructure:"thresholds"`
	Intervals  IntervalConfig  `mapstructure:"intervals"`
	Pump       PumpConfig      `mapstructure:"pump"`
	Analysis   AnalysisConfig  `mapstructure:"analysis"`
	Feed       FeedConfig      `mapstructure:"feed"`
	Storage    StorageConfig   `mapstructure:"storage"`
	Telegram   TelegramConfig  `mapstructure:"telegram"`
	Logging    LoggingConfig   `mapstructure:"logging"`
}

// ThresholdConfig holds trade-size classification bounds in quote units.
type ThresholdConfig struct {
	Whale  float64 `mapstructure:"whale"`
	Medium float64 `mapstructure:"medium"`
	Retail float64 `mapstructure:"retail"`
}

// IntervalConfig holds the bucket widths in seconds.
type IntervalConfig struct {
	CoarseSeconds int64 `mapstructure:"coarse_seconds"`
	FineSeconds   int64 `mapstructure:"fine_seconds"`
	HourSeconds   int64 `mapstructure:"hour_seconds"`
}

// PumpConfig holds pump-and-dump detection parameters.
type PumpConfig struct {
	FollowWindowSeconds int64   `mapstructure:"follow_window_seconds"`
	MinRetailBuys       int     `mapstructure:"min_retail_buys"`
	MinSmallBuys        int     `mapstructure:"min_small_buys"`
	AccumulationPriceFr float64 `mapstructure:"accumulation_price_fraction"`
}

// AnalysisConfig holds scoring and price-movement parameters.
type AnalysisConfig struct {
	TopSuspects          int     `mapstructure:"top_suspects"`
	SignificantChangePct float64 `mapstructure:"significant_change_pct"`
	ExtremeChangePct     float64 `mapstructure:"extreme_change_pct"`
	VolatilityRiskBound  float64 `mapstructure:"volatility_risk_bound"`
	PriceSanityMin       float64 `mapstructure:"price_sanity_min"`
	PriceSanityMax       float64 `mapstructure:"price_sanity_max"`
	MarketPeriods        int     `mapstructure:"market_periods"`
}

// FeedConfig holds live feed connection parameters.
type FeedConfig struct {
	WSURL             string `mapstructure:"ws_url"`
	ReconnectDelaySec int    `mapstructure:"reconnect_delay_sec"`
	AnalyzeEverySec   int    `mapstructure:"analyze_every_sec"`
}

// StorageConfig holds optional persistence backends. Empty DSN disables a backend.
type StorageConfig struct {
	PostgresDSN   string `mapstructure:"postgres_dsn"`
	ClickHouseDSN string `mapstructure:"clickhouse_dsn"`
	RedisAddr     string `mapstructure:"redis_addr"`
}

// TelegramConfig holds alert notification settings.
type TelegramConfig struct {
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	Enabled  bool   `mapstructure:"enabled"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Load reads configuration from an optional file plus environment variables.
// An empty path uses defaults and environment only.
func Load(path string) (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix("TOKEN_FORENSICS")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Default returns the built-in configuration without touching files or env.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// Defaults are static and always validate.
		panic(err)
	}
	return cfg
}

// Validate checks cross-field consistency.
func (c *Config) Validate() error {
	if c.Thresholds.Retail > c.Thresholds.Medium || c.Thresholds.Medium > c.Thresholds.Whale {
		return fmt.Errorf("thresholds must satisfy retail <= medium <= whale, got %v/%v/%v",
			c.Thresholds.Retail, c.Thresholds.Medium, c.Thresholds.Whale)
	}
	if c.Intervals.CoarseSeconds <= 0 || c.Intervals.FineSeconds <= 0 || c.Intervals.HourSeconds <= 0 {
		return fmt.Errorf("interval widths must be positive")
	}
	if c.Analysis.SignificantChangePct <= 0 || c.Analysis.ExtremeChangePct < c.Analysis.SignificantChangePct {
		return fmt.Errorf("change thresholds must satisfy 0 < significant <= extreme")
	}
	if c.Analysis.MarketPeriods < 2 {
		return fmt.Errorf("market_periods must be at least 2, got %d", c.Analysis.MarketPeriods)
	}
	return nil
}

// setDefaults configures default values for all configuration options.
func setDefaults(v *viper.Viper) {
	// Trade-size thresholds (quote currency units)
	v.SetDefault("thresholds.whale", 10000.0)
	v.SetDefault("thresholds.medium", 1000.0)
	v.SetDefault("thresholds.retail", 100.0)

	// Bucket widths
	v.SetDefault("intervals.coarse_seconds", 600)
	v.SetDefault("intervals.fine_seconds", 300)
	v.SetDefault("intervals.hour_seconds", 3600)

	// Pump detection
	v.SetDefault("pump.follow_window_seconds", 1800)
	v.SetDefault("pump.min_retail_buys", 5)
	v.SetDefault("pump.min_small_buys", 5)
	v.SetDefault("pump.accumulation_price_fraction", 0.8)

	// Analysis
	v.SetDefault("analysis.top_suspects", 20)
	v.SetDefault("analysis.significant_change_pct", 5.0)
	v.SetDefault("analysis.extreme_change_pct", 10.0)
	v.SetDefault("analysis.volatility_risk_bound", 1000.0)
	v.SetDefault("analysis.price_sanity_min", 1e-8)
	v.SetDefault("analysis.price_sanity_max", 1000.0)
	v.SetDefault("analysis.market_periods", 6)

	// Feed
	v.SetDefault("feed.reconnect_delay_sec", 5)
	v.SetDefault("feed.analyze_every_sec", 300)

	// Logging
	v.SetDefault("logging.level", "info")
}
