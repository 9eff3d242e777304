package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/slangop28/local-electrician-sub001/platform/logger"
)

// Cron enqueues reconciliation runs on a fixed schedule.
type Cron struct {
	cron     *cron.Cron
	enqueuer ReconcileEnqueuer
	log      *logger.Logger
}

// NewCron parses expr (standard five-field cron, or descriptors such as "@every 15m").
func NewCron(expr string, enqueuer ReconcileEnqueuer, log *logger.Logger) (*Cron, error) {
	c := &Cron{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		enqueuer: enqueuer,
		log:      log,
	}
	if _, err := c.cron.AddFunc(expr, c.tick); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Cron) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := c.enqueuer.EnqueueReconcile(ctx, "cron"); err != nil {
		c.log.Warn("enqueue reconcile failed", "error", err)
	}
}

// Run starts the schedule and blocks until ctx is done.
func (c *Cron) Run(ctx context.Context) {
	c.cron.Start()
	<-ctx.Done()
	<-c.cron.Stop().Done()
}
