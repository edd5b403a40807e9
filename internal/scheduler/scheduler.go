// Package scheduler runs the periodic maintenance jobs of the server.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Purger removes expired import results.
type Purger interface {
	PurgeExpired(ctx context.Context) (int64, error)
}

// Scheduler wraps a cron runner. Jobs never overlap with themselves and a
// panicking job is logged instead of crashing the server.
type Scheduler struct {
	cron   *cron.Cron
	logger *log.Logger
}

// New creates a stopped Scheduler.
func New(logger *log.Logger) *Scheduler {
	cl := cronLogger{logger: logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
	}
}

// SchedulePurge runs purger on spec ("@every 1h", "0 3 * * *"). Every run is
// bounded by timeout.
func (s *Scheduler) SchedulePurge(spec string, purger Purger, timeout time.Duration) error {
	if _, err := s.cron.AddFunc(spec, PurgeJob(purger, timeout, s.logger)); err != nil {
		return fmt.Errorf("invalid purge schedule %q: %w", spec, err)
	}
	return nil
}

// Jobs returns the number of scheduled jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stopped before running jobs finished")
	}
}

// PurgeJob returns the cron job removing expired import results.
func PurgeJob(purger Purger, timeout time.Duration, logger *log.Logger) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		n, err := purger.PurgeExpired(ctx)
		if err != nil {
			logger.Error("import cache purge failed", "err", err)
			return
		}
		logger.Debug("import cache purged", "removed", n)
	}
}

// cronLogger adapts the server logger to cron.Logger.
type cronLogger struct {
	logger *log.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "err", err)...)
}
