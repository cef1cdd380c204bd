package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/alejandrodnm/updownbot/config"
	"github.com/alejandrodnm/updownbot/internal/adapters/notify"
	"github.com/alejandrodnm/updownbot/internal/adapters/polymarket"
	"github.com/alejandrodnm/updownbot/internal/backtest"
)

// runBacktest analiza mercados cerrados y imprime el report de estrategia.
func runBacktest(ctx context.Context, cfg *config.Config) {
	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase, cfg.API.APIKey)

	btCfg := backtest.Config{
		Limit:                cfg.Backtest.Limit,
		MinMinutesSinceClose: cfg.Backtest.MinMinutesSinceClose,
		Pattern:              cfg.Backtest.Pattern,
		FidelityMinutes:      cfg.Backtest.FidelityMinutes,
		LookbackMinutes:      cfg.Backtest.LookbackMinutes,
		Thresholds:           cfg.Backtest.Thresholds,
		DeviationThresholds:  cfg.Backtest.DeviationThresholds,
		BucketWidth:          cfg.Backtest.BucketWidth,
		BucketMinPrice:       cfg.Backtest.BucketMinPrice,
		BucketMaxPrice:       cfg.Backtest.BucketMaxPrice,
		Workers:              cfg.Backtest.Workers,
	}

	runner := backtest.NewRunner(btCfg, client, client)

	report, err := runner.Run(ctx)
	if err != nil {
		slog.Error("backtest failed", "err", err)
		os.Exit(1)
	}

	notify.NewConsole().PrintReport(report)
}
