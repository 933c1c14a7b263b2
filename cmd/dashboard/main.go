package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"CoinPulse/internal/api"
	"CoinPulse/internal/collector"
	"CoinPulse/internal/config"
	"CoinPulse/internal/dashboard"
	"CoinPulse/internal/notifier"
	"CoinPulse/internal/recorder"
	"CoinPulse/internal/scheduler"
	"CoinPulse/internal/watchlist"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] CoinPulse starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init fetcher and collector
	fetcher := collector.NewCoinGeckoFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	log.Printf("[INFO] data source: %s (%s, top %d)", fetcher.Name(), cfg.DataSource.Currency, cfg.DataSource.PerPage)
	col := collector.NewCollector(fetcher, cfg.DataSource.Currency, cfg.DataSource.PerPage)

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init Telegram notifier
	var tn *notifier.TelegramNotifier
	opts := scheduler.Options{
		Interval:   cfg.Schedule.RefreshInterval,
		AlertAfter: cfg.Schedule.AlertAfterFailures,
		Recorder:   rec,
	}
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		opts.Alerter = tn
	} else {
		log.Println("[INFO] Telegram not configured, chat commands and alerts disabled")
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, opts)
	if err := sched.Start(); err != nil {
		log.Fatalf("[FATAL] start scheduler: %v", err)
	}
	defer sched.Stop()

	dash := dashboard.New(sched, watchlist.NewStore(cfg.Watchlist.Default), cfg.Portfolio.Positions, cfg.DataSource.Currency)

	// Start Telegram polling
	if tn != nil {
		go tn.StartPolling(ctx, dash.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	// Start API server
	srv := api.NewServer(dash, cfg.API.ListenAddr, cfg.API.APIKey, cfg.API.CORSOrigin)
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("[ERROR] API server: %v", err)
		}
	}()

	log.Println("[INFO] CoinPulse is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] API shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] CoinPulse stopped")
}
