// Command mirror-sync runs one reconciliation pass and prints the counts as JSON.
package main

import (
	"context"
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/slangop28/local-electrician-sub001/internal/bootstrap"
	"github.com/slangop28/local-electrician-sub001/internal/reconcile"
	"github.com/slangop28/local-electrician-sub001/platform/config"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	if !cfg.IsMirrorEnabled() {
		log.Error("MIRROR_SPREADSHEET_ID is required")
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stores, err := bootstrap.OpenStores(ctx, cfg, log, true)
	if err != nil {
		log.Error("failed to open stores", "error", err)
		os.Exit(1)
	}
	defer stores.Close()

	reconciler, closeReconciler, err := bootstrap.NewReconciler(cfg, stores, nil, log)
	if err != nil {
		log.Error("failed to initialize reconciliation", "error", err)
		os.Exit(1)
	}
	defer closeReconciler()

	res, err := reconciler.Run(ctx, "cli")
	if err != nil {
		log.Error("reconciliation failed", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(map[string]any{"success": true, "results": reconcile.NewResultsView(res)})
}
