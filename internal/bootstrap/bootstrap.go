// Package bootstrap holds the wiring shared by the api, scheduler and mirror-sync binaries.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/slangop28/local-electrician-sub001/internal/events"
	"github.com/slangop28/local-electrician-sub001/internal/reconcile"
	"github.com/slangop28/local-electrician-sub001/internal/scheduler"
	"github.com/slangop28/local-electrician-sub001/internal/store"
	"github.com/slangop28/local-electrician-sub001/internal/store/postgres"
	"github.com/slangop28/local-electrician-sub001/internal/store/sheets"
	"github.com/slangop28/local-electrician-sub001/migrations"
	"github.com/slangop28/local-electrician-sub001/platform/config"
	"github.com/slangop28/local-electrician-sub001/platform/db"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
)

// Stores are the opened persistence backends.
type Stores struct {
	Pool       *pgxpool.Pool
	Primary    *postgres.Repository
	Mirror     store.Mirror
	Replicated *store.Replicated
}

// Close releases the pool.
func (s *Stores) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

// OpenStores runs migrations when migrate is set, connects the pool and, if
// configured, the spreadsheet mirror.
func OpenStores(ctx context.Context, cfg *config.Config, log *logger.Logger, migrate bool) (*Stores, error) {
	if migrate {
		if err := WithRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
			return db.RunMigrations(ctx, cfg, migrations.FS)
		}); err != nil {
			return nil, err
		}
		log.Info("database migrations complete")
	}

	var pool *pgxpool.Pool
	if err := WithRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		return nil, err
	}
	log.Info("database connection established")

	s := &Stores{Pool: pool, Primary: postgres.New(pool)}
	if cfg.IsMirrorEnabled() {
		client, err := sheets.NewClient(ctx, cfg)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("open mirror: %w", err)
		}
		s.Mirror = sheets.NewLedger(client).WithLogger(log)
		log.Info("spreadsheet mirror enabled", "spreadsheet_id", cfg.GetMirrorSpreadsheetID())
	} else {
		log.Warn("MIRROR_SPREADSHEET_ID not configured; running without mirror")
	}

	s.Replicated = store.NewReplicated(s.Primary, s.Mirror, cfg, log)
	return s, nil
}

// NewReconciler builds the reconciliation service. The redis lock is used when
// REDIS_URL is set; the returned closer releases the redis client.
func NewReconciler(cfg *config.Config, stores *Stores, bus events.Bus, log *logger.Logger) (*reconcile.Service, func(), error) {
	var (
		locker reconcile.Locker
		closer = func() {}
	)
	if cfg.GetRedisURL() != "" {
		client, err := scheduler.NewRedisClient(cfg)
		if err != nil {
			return nil, nil, err
		}
		locker = reconcile.NewRedisLocker(client, cfg.GetSyncLockTTL())
		closer = func() { _ = client.Close() }
	} else {
		log.Warn("REDIS_URL not configured; reconciliation runs are not locked across processes")
	}

	// A nil interface, not a typed nil, when the mirror is disabled.
	var source reconcile.Source
	if stores.Mirror != nil {
		source = stores.Mirror
	}
	return reconcile.New(source, stores.Primary, locker, bus, log), closer, nil
}

// WithRetry runs fn up to attempts times with quadratic backoff.
func WithRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
