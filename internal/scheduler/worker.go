package scheduler

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"github.com/slangop28/local-electrician-sub001/internal/reconcile"
	"github.com/slangop28/local-electrician-sub001/platform/apperr"
	"github.com/slangop28/local-electrician-sub001/platform/config"
	"github.com/slangop28/local-electrician-sub001/platform/logger"
)

// Reconciler runs one reconciliation pass.
type Reconciler interface {
	Run(ctx context.Context, trigger string) (reconcile.Results, error)
}

type Worker struct {
	server     *asynq.Server
	mux        *asynq.ServeMux
	reconciler Reconciler
	log        *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, reconciler Reconciler, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 2
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:     server,
		mux:        mux,
		reconciler: reconciler,
		log:        log,
	}

	mux.HandleFunc(TaskReconcileMirror, w.handleReconcileMirror)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleReconcileMirror(ctx context.Context, task *asynq.Task) error {
	return handleReconcile(ctx, w.reconciler, w.log, task)
}

func handleReconcile(ctx context.Context, reconciler Reconciler, log *logger.Logger, task *asynq.Task) error {
	payload, err := ParseReconcileMirrorPayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}

	_, err = reconciler.Run(ctx, payload.Trigger)
	if apperr.Is(err, apperr.KindConflict) {
		// Another run holds the lock; this tick is covered.
		log.Info("reconcile skipped, run in progress", "trigger", payload.Trigger)
		return nil
	}
	return err
}
