// Package main provides the live monitoring entry point: websocket trade
// feed → rolling buffer → periodic re-analysis → alerts and metrics.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"token-forensics/internal/analysis"
	"token-forensics/internal/config"
	"token-forensics/internal/domain"
	"token-forensics/internal/feed"
	"token-forensics/internal/logger"
	"token-forensics/internal/notify"
	"token-forensics/internal/observability"
	"token-forensics/internal/storage"
	"token-forensics/internal/storage/postgres"
)

func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	metricsAddr := flag.String("metrics-addr", ":9090", "Prometheus metrics listen address")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if cfg.Feed.WSURL == "" {
		fmt.Fprintln(os.Stderr, "feed.ws_url must be configured for watch mode")
		os.Exit(1)
	}

	logger.Init(cfg.Logging.Level)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received signal %v, shutting down", sig)
		cancel()
	}()

	if err := run(ctx, cfg, *metricsAddr); err != nil {
		logger.Error("watch failed: %v", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, metricsAddr string) error {
	metrics := observability.NewMetrics("token_forensics")
	startMetricsServer(ctx, metricsAddr, metrics)

	var tradeStore *postgres.TradeStore
	if cfg.Storage.PostgresDSN != "" {
		pool, err := postgres.NewPool(ctx, cfg.Storage.PostgresDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := postgres.EnsureSchema(ctx, pool); err != nil {
			return err
		}
		tradeStore = postgres.NewTradeStore(pool)
	}

	var notifier *notify.Notifier
	if cfg.Telegram.Enabled {
		n, err := notify.New(cfg.Telegram.BotToken, cfg.Telegram.ChatID, 0, 0)
		if err != nil {
			return fmt.Errorf("create notifier: %w", err)
		}
		notifier = n
	}

	wsCfg := feed.DefaultWSConfig()
	if cfg.Feed.ReconnectDelaySec > 0 {
		wsCfg.ReconnectDelay = time.Duration(cfg.Feed.ReconnectDelaySec) * time.Second
	}

	src, err := feed.NewWSSource(ctx, cfg.Feed.WSURL, &wsCfg, metrics)
	if err != nil {
		return err
	}
	defer src.Close()

	engine := analysis.New(analysis.ParamsFromConfig(cfg)).WithMetrics(metrics)

	w := &watcher{
		engine:     engine,
		tradeStore: tradeStore,
		notifier:   notifier,
		metrics:    metrics,
	}

	interval := time.Duration(cfg.Feed.AnalyzeEverySec) * time.Second
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("watching %s, re-analyzing every %s", cfg.Feed.WSURL, interval)

	for {
		select {
		case <-ctx.Done():
			w.analyze(context.Background())
			return nil

		case row, ok := <-src.Trades():
			if !ok {
				w.analyze(context.Background())
				return nil
			}
			w.append(row)

		case <-ticker.C:
			w.analyze(ctx)
		}
	}
}

// watcher accumulates raw rows and re-runs the full pipeline over everything
// seen so far. The digest makes unchanged windows cheap to spot.
type watcher struct {
	engine     *analysis.Engine
	tradeStore *postgres.TradeStore
	notifier   *notify.Notifier
	metrics    *observability.Metrics

	mu         sync.Mutex
	rows       []domain.RawTrade
	lastDigest string
}

func (w *watcher) append(row domain.RawTrade) {
	w.mu.Lock()
	w.rows = append(w.rows, row)
	w.mu.Unlock()
}

func (w *watcher) analyze(ctx context.Context) {
	w.mu.Lock()
	rows := make([]domain.RawTrade, len(w.rows))
	copy(rows, w.rows)
	w.mu.Unlock()

	if len(rows) == 0 {
		return
	}

	res := w.engine.Run(rows)

	w.mu.Lock()
	unchanged := res.Digest == w.lastDigest
	w.lastDigest = res.Digest
	w.mu.Unlock()

	if unchanged {
		logger.Debug("dataset unchanged since last run, skipping downstream")
		return
	}

	logger.Info("run %s: %d trades, %d flagged wallets, %d confirmed pumps, %d coordinated intervals",
		res.RunID, len(res.Trades), res.Summary().FlaggedWallets,
		len(res.ConfirmedPumps()), len(res.CoordinatedIntervals))

	if w.tradeStore != nil {
		w.persistTrades(ctx, res)
	}

	if w.notifier != nil && res.HasFindings() {
		if err := w.notifier.SendFindings(res); err != nil {
			logger.Warn("telegram alert failed: %v", err)
		}
	}
}

func (w *watcher) persistTrades(ctx context.Context, res *analysis.Result) {
	inserted := 0
	for i := range res.Trades {
		err := w.tradeStore.Insert(ctx, &res.Trades[i])
		if err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				continue
			}
			w.metrics.DBQueryErrors.WithLabelValues("postgres", "insert_trade").Inc()
			logger.Warn("persist trade %s: %v", res.Trades[i].TxID, err)
			continue
		}
		inserted++
	}
	if inserted > 0 {
		logger.Info("persisted %d new trades", inserted)
	}
}

// startMetricsServer exposes /metrics until the context is cancelled.
func startMetricsServer(ctx context.Context, addr string, metrics *observability.Metrics) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		logger.Info("metrics listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server: %v", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
