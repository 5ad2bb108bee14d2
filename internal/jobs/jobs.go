// Package jobs runs the background maintenance tasks of the portal.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mvc-is/portal/internal/logger"
)

// Purger deletes expired password reset tokens.
type Purger interface {
	PurgeExpiredResets(ctx context.Context) (int64, error)
}

// Job is a named task with a cron schedule.
type Job struct {
	Name     string
	Schedule string
	Run      func(ctx context.Context) error
}

// ResetPurge removes expired password reset tokens.
func ResetPurge(schedule string, p Purger, log *zap.Logger) Job {
	log = logger.OrNop(log)
	return Job{
		Name:     "purge-password-resets",
		Schedule: schedule,
		Run: func(ctx context.Context) error {
			n, err := p.PurgeExpiredResets(ctx)
			if err != nil {
				return err
			}
			if n > 0 {
				log.Info("purged expired password reset tokens", zap.Int64("count", n))
			}
			return nil
		},
	}
}

// Start schedules the jobs and starts the scheduler. Each run gets a
// timeout; a run still going when the next tick fires is skipped.
func Start(log *zap.Logger, timeout time.Duration, jobs ...Job) (*cron.Cron, error) {
	log = logger.OrNop(log).Named("jobs")
	c := cron.New(cron.WithChain(
		cron.Recover(cron.DefaultLogger),
		cron.SkipIfStillRunning(cron.DefaultLogger),
	))

	for _, j := range jobs {
		_, err := c.AddFunc(j.Schedule, func() {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			if err := j.Run(ctx); err != nil {
				log.Error("job failed", zap.String("job", j.Name), zap.Error(err))
			}
		})
		if err != nil {
			return nil, fmt.Errorf("failed to register job %s: %w", j.Name, err)
		}
		log.Info("job scheduled", zap.String("job", j.Name), zap.String("schedule", j.Schedule))
	}

	c.Start()
	return c, nil
}
