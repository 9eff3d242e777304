package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/slangop28/local-electrician-sub001/internal/bootstrap"
	"github.com/slangop28/local-electrician-sub001/internal/customers"
	"github.com/slangop28/local-electrician-sub001/internal/events"
	apphttp "github.com/slangop28/local-electrician-sub001/internal/http"
	"github.com/slangop28/local-electrician-sub001/internal/http/router"
	"github.com/slangop28/local-electrician-sub001/internal/reconcile"
	"github.com/slangop28/local-electrician-sub001/internal/requests"
	"github.com/slangop28/local-electrician-sub001/internal/telemetry"
	"github.com/slangop28/local-electrician-sub001/platform/config"
	"github.com/slangop28/local-electrician-sub001/platform/idgen"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
	"github.com/slangop28/local-electrician-sub001/platform/validator"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	stores, err := bootstrap.OpenStores(ctx, cfg, log, true)
	if err != nil {
		log.Error("failed to open stores", "error", err)
		panic("failed to open stores: " + err.Error())
	}
	defer stores.Close()

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)
	telemetry.New(log).Subscribe(eventBus)

	reconciler, closeReconciler, err := bootstrap.NewReconciler(cfg, stores, eventBus, log)
	if err != nil {
		log.Error("failed to initialize reconciliation", "error", err)
		panic("failed to initialize reconciliation: " + err.Error())
	}
	defer closeReconciler()

	// Shared validator instance for dependency injection
	val := validator.New()
	ids := idgen.New()

	// ========================================================================
	// Domain Modules
	// ========================================================================

	customersModule := customers.NewModule(stores.Replicated, ids, val, log)
	requestsModule := requests.NewModule(stores.Replicated, customersModule.Service(), ids, eventBus, val, log)
	reconcileModule := reconcile.NewModule(reconciler)

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   stores.Primary,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			customersModule,
			requestsModule,
			reconcileModule,
		},
	}

	engine := router.New(app)
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("server shutdown failed", "error", err)
		}
		eventBus.Wait()
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}
