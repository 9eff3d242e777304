package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/slangop28/local-electrician-sub001/internal/bootstrap"
	"github.com/slangop28/local-electrician-sub001/internal/events"
	"github.com/slangop28/local-electrician-sub001/internal/scheduler"
	"github.com/slangop28/local-electrician-sub001/internal/telemetry"
	"github.com/slangop28/local-electrician-sub001/platform/config"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	if cfg.GetRedisURL() == "" {
		log.Error("REDIS_URL is required for the scheduler")
		panic("REDIS_URL is required for the scheduler")
	}
	if !cfg.IsMirrorEnabled() {
		log.Error("MIRROR_SPREADSHEET_ID is required for the scheduler")
		panic("MIRROR_SPREADSHEET_ID is required for the scheduler")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, log, false)
	if err != nil {
		log.Error("failed to open stores", "error", err)
		panic("failed to open stores: " + err.Error())
	}
	defer stores.Close()

	eventBus := events.NewInMemoryBus(log)
	telemetry.New(log).Subscribe(eventBus)

	reconciler, closeReconciler, err := bootstrap.NewReconciler(cfg, stores, eventBus, log)
	if err != nil {
		log.Error("failed to initialize reconciliation", "error", err)
		panic("failed to initialize reconciliation: " + err.Error())
	}
	defer closeReconciler()

	worker, err := scheduler.NewWorker(cfg, reconciler, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		worker.Run(ctx)
	}()

	if expr := cfg.GetSyncCron(); expr != "" {
		client, err := scheduler.NewClient(cfg, cfg.GetSyncLockTTL())
		if err != nil {
			log.Error("failed to initialize scheduler client", "error", err)
			panic("failed to initialize scheduler client: " + err.Error())
		}
		defer func() { _ = client.Close() }()

		schedule, err := scheduler.NewCron(expr, client, log)
		if err != nil {
			log.Error("invalid SYNC_CRON", "expr", expr, "error", err)
			panic("invalid SYNC_CRON: " + err.Error())
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			schedule.Run(ctx)
		}()
		log.Info("reconciliation scheduled", "cron", expr)
	} else {
		log.Warn("SYNC_CRON not configured; only externally enqueued runs are processed")
	}

	wg.Wait()
	eventBus.Wait()
	log.Info("scheduler stopped")
}
