package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/alejandrodnm/updownbot/config"
	"github.com/alejandrodnm/updownbot/internal/adapters/notify"
	"github.com/alejandrodnm/updownbot/internal/adapters/polymarket"
	"github.com/alejandrodnm/updownbot/internal/adapters/storage"
	"github.com/alejandrodnm/updownbot/internal/trader"
)

// runTrader arranca el loop de señales en vivo. Con live=false las entradas
// se simulan pero igual se registran en storage.
func runTrader(ctx context.Context, cfg *config.Config, live bool) {
	if live && cfg.API.APIKey == "" {
		slog.Error("live mode requires POLYMARKET_API_KEY")
		os.Exit(1)
	}

	client := polymarket.NewClient(cfg.API.CLOBBase, cfg.API.GammaBase, cfg.API.APIKey)

	store, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
	if err != nil {
		slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
		os.Exit(1)
	}
	defer store.Close()

	trCfg := trader.Config{
		AmountUSDC:        cfg.Trader.AmountUSDC,
		MinProb:           cfg.Trader.MinProb,
		MaxProb:           cfg.Trader.MaxProb,
		RefreshInterval:   cfg.RefreshInterval(),
		PollInterval:      cfg.PollInterval(),
		MinMinutesToClose: cfg.Trader.MinMinutesToClose,
		MaxMinutesToClose: cfg.Trader.MaxMinutesToClose,
		WindowOpenMinutes: cfg.Trader.WindowOpenMinutes,
		SearchQuery:       cfg.Trader.SearchQuery,
		PageSize:          cfg.Trader.PageSize,
		MaxPages:          cfg.Trader.MaxPages,
		DryRun:            !live,
	}

	started := time.Now()
	t := trader.New(trCfg, client, client, client, store)

	err = t.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("trader exited with error", "err", err)
		os.Exit(1)
	}

	summary, err := store.Summary(context.Background(), started)
	if err != nil {
		slog.Warn("failed to read session summary", "err", err)
		return
	}
	notify.NewConsole().PrintSession(summary, started)

	slog.Info("updownbot stopped cleanly")
}
