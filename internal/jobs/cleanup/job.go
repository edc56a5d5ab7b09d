package cleanup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const defaultEventRetention = 30 * 24 * time.Hour

type webhookEventPruner interface {
	DeleteProcessedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Job prunes processed gateway events once they are older than the retention
// window. A gateway retry after that window is treated as a new event.
type Job struct {
	events    webhookEventPruner
	retention time.Duration
	now       func() time.Time
	logger    *zap.Logger
}

func NewWebhookEventCleanupJob(events webhookEventPruner, retention time.Duration, logger *zap.Logger) *Job {
	if retention <= 0 {
		retention = defaultEventRetention
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Job{
		events:    events,
		retention: retention,
		now:       time.Now,
		logger:    logger,
	}
}

func (j *Job) Run(ctx context.Context) error {
	if j.events == nil {
		return nil
	}

	cutoff := j.now().Add(-j.retention)
	rows, err := j.events.DeleteProcessedBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("cleanup webhook events: %w", err)
	}
	if rows > 0 {
		j.logger.Info("cleanup webhook events completed", zap.Int64("deleted", rows))
	}
	return nil
}

// Loop runs the job immediately and then on every tick until ctx is done.
// Failed runs are logged and retried on the next tick.
func (j *Job) Loop(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Hour
	}

	if err := j.Run(ctx); err != nil {
		j.logger.Warn("cleanup job failed", zap.Error(err))
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				j.logger.Warn("cleanup job failed", zap.Error(err))
			}
		}
	}
}
