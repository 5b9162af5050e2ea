// Package main provides the batch analysis entry point.
// Executes: trade log → normalization → detection → reports
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/joho/godotenv"

	"token-forensics/internal/analysis"
	"token-forensics/internal/cache"
	"token-forensics/internal/config"
	"token-forensics/internal/feed"
	"token-forensics/internal/intervals"
	"token-forensics/internal/logger"
	"token-forensics/internal/notify"
	"token-forensics/internal/reporting"
	"token-forensics/internal/storage"
	"token-forensics/internal/storage/clickhouse"
	"token-forensics/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	inputPath := flag.String("input", "", "Path to JSON-lines trade log (required)")
	outputDir := flag.String("output-dir", "reports", "Output directory for generated files")
	flag.Parse()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "Usage: analyze -input <trade log> [-config <file>] [-output-dir <dir>]")
		os.Exit(1)
	}

	// Load .env if present, env vars override config file values
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level)

	// Create context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal %v, cancelling", sig)
		cancel()
	}()

	if err := run(ctx, cfg, *inputPath, *outputDir); err != nil {
		logger.Error("analysis failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, inputPath, outputDir string) error {
	src, err := feed.NewFileSource(ctx, inputPath)
	if err != nil {
		return err
	}
	defer src.Close()

	rows := feed.ReadAll(src)
	logger.Info("read %d raw rows from %s", len(rows), inputPath)

	engine := analysis.New(analysis.ParamsFromConfig(cfg))
	res := engine.Run(rows)

	logger.Info("run %s: %d trades, %d dropped, %d flagged wallets, %d confirmed pumps",
		res.RunID, len(res.Trades), res.DroppedRecords, res.Summary().FlaggedWallets, len(res.ConfirmedPumps()))

	report, err := renderReport(ctx, cfg, res)
	if err != nil {
		return err
	}

	if err := writeOutputs(outputDir, res, report); err != nil {
		return err
	}

	if err := persist(ctx, cfg, res); err != nil {
		return err
	}

	if cfg.Telegram.Enabled && res.HasFindings() {
		notifier, err := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, 0, 0)
		if err != nil {
			return fmt.Errorf("create notifier: %w", err)
		}
		if err := notifier.SendFindings(res); err != nil {
			logger.Warn("telegram alert failed: %v", err)
		}
	}

	return nil
}

// renderReport renders the Markdown report, reusing a cached render for the
// same dataset digest when Redis is configured.
func renderReport(ctx context.Context, cfg *config.Config, res *analysis.Result) (string, error) {
	if cfg.Storage.RedisAddr == "" {
		return reporting.RenderMarkdown(res), nil
	}

	rc, err := cache.New(ctx, cfg.Storage.RedisAddr, "", 0)
	if err != nil {
		logger.Warn("report cache unavailable: %v", err)
		return reporting.RenderMarkdown(res), nil
	}
	defer rc.Close()

	if cached, err := rc.Get(ctx, res.Digest); err == nil {
		logger.Info("report cache hit for digest %s", res.Digest[:12])
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		logger.Warn("report cache get: %v", err)
	}

	report := reporting.RenderMarkdown(res)
	if err := rc.Put(ctx, res.Digest, report); err != nil {
		logger.Warn("report cache put: %v", err)
	}
	return report, nil
}

// writeOutputs writes the Markdown report, the CSV exports, and the chart
// config into the output directory.
func writeOutputs(outputDir string, res *analysis.Result, report string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	chartJSON, err := reporting.RenderChartJSON(res)
	if err != nil {
		return fmt.Errorf("render chart config: %w", err)
	}

	outputs := map[string][]byte{
		"report.md":         []byte(report),
		"suspects.csv":      []byte(reporting.RenderSuspectsCSV(res)),
		"price_changes.csv": []byte(reporting.RenderPriceChangesCSV(res)),
		"chart.json":        chartJSON,
	}

	for name, data := range outputs {
		path := filepath.Join(outputDir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
		logger.Info("wrote %s (%d bytes)", path, len(data))
	}
	return nil
}

// persist stores trades and the run summary in PostgreSQL and the bucket
// timeseries in ClickHouse when DSNs are configured.
func persist(ctx context.Context, cfg *config.Config, res *analysis.Result) error {
	if cfg.Storage.PostgresDSN != "" {
		if err := persistPostgres(ctx, cfg.Storage.PostgresDSN, res); err != nil {
			return err
		}
	}
	if cfg.Storage.ClickHouseDSN != "" {
		if err := persistClickHouse(ctx, cfg.Storage.ClickHouseDSN, res); err != nil {
			return err
		}
	}
	return nil
}

func persistPostgres(ctx context.Context, dsn string, res *analysis.Result) error {
	pool, err := postgres.NewPool(ctx, dsn)
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		return err
	}

	tradeStore := postgres.NewTradeStore(pool)
	inserted := 0
	for i := range res.Trades {
		err := tradeStore.Insert(ctx, &res.Trades[i])
		if err != nil {
			// Re-analyzing an overlapping log is routine.
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			return fmt.Errorf("persist trade: %w", err)
		}
		inserted++
	}

	if err := postgres.NewRunStore(pool).Insert(ctx, res.Summary()); err != nil {
		return fmt.Errorf("persist run: %w", err)
	}

	logger.Info("persisted %d new trades and run %s to postgres", inserted, res.RunID)
	return nil
}

func persistClickHouse(ctx context.Context, dsn string, res *analysis.Result) error {
	conn, err := clickhouse.NewConn(ctx, dsn)
	if err != nil {
		return err
	}
	defer conn.Close()

	if err := clickhouse.EnsureSchema(ctx, conn); err != nil {
		return err
	}

	store := clickhouse.NewBucketStore(conn)
	for _, buckets := range [][]*intervals.Bucket{res.CoarseBuckets, res.FineBuckets} {
		if err := store.InsertBulk(ctx, res.RunID, buckets); err != nil {
			return fmt.Errorf("persist buckets: %w", err)
		}
	}

	logger.Info("persisted %d buckets for run %s to clickhouse",
		len(res.CoarseBuckets)+len(res.FineBuckets), res.RunID)
	return nil
}
