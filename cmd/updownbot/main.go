package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/alejandrodnm/updownbot/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file")
	backtestMode := flag.Bool("backtest", false, "analyze closed markets and print the strategy report")
	limit := flag.Int("limit", 0, "closed markets to analyze (overrides config)")
	minClose := flag.Int("min-close", 0, "minutes a market must have been closed (overrides config)")
	pattern := flag.String("pattern", "", "window pattern: 15min|any (overrides config)")
	amount := flag.Float64("amount", 0, "USDC per trade (overrides config)")
	live := flag.Bool("live", false, "place real orders (default: dry-run)")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	if *limit > 0 {
		cfg.Backtest.Limit = *limit
	}
	if *minClose > 0 {
		cfg.Backtest.MinMinutesSinceClose = *minClose
	}
	if *pattern != "" {
		cfg.Backtest.Pattern = *pattern
	}
	if *amount > 0 {
		cfg.Trader.AmountUSDC = *amount
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	slog.Info("updownbot starting",
		"config", *configPath,
		"backtest", *backtestMode,
		"live", *live,
	)

	if *backtestMode {
		runBacktest(ctx, cfg)
		return
	}

	runTrader(ctx, cfg, *live)
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
}
