// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// jobTimeout bounds a single run of a maintenance job.
const jobTimeout = 2 * time.Minute

// JobExpirer deactivates job postings whose expiry date has passed.
type JobExpirer interface {
	ExpireStale(ctx context.Context) (int64, error)
}

// Scheduler manages cron job scheduling.
type Scheduler struct {
	cron    *cron.Cron
	expirer JobExpirer
	logger  *slog.Logger
}

// New creates a scheduler that runs job expiry on expirySpec, a six-field
// cron expression (seconds first).
func New(expirer JobExpirer, expirySpec string, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithSeconds(),
		cron.WithChain(cron.Recover(cron.DiscardLogger)),
	)
	s := &Scheduler{cron: c, expirer: expirer, logger: logger}

	if _, err := c.AddFunc(expirySpec, s.ExpireJobs); err != nil {
		return nil, fmt.Errorf("register job expiry %q: %w", expirySpec, err)
	}
	return s, nil
}

// ExpireJobs runs one job expiry pass.
func (s *Scheduler) ExpireJobs() {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	n, err := s.expirer.ExpireStale(ctx)
	if err != nil {
		s.logger.Error("job expiry failed", slog.String("error", err.Error()))
		return
	}
	if n > 0 {
		s.logger.Info("expired job postings", slog.Int64("count", n))
	}
}

// Start begins the cron scheduler.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("cron scheduler started", slog.Int("jobs", len(s.cron.Entries())))
}

// Stop waits for running jobs to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("cron scheduler stopped")
}

// Entries reports how many jobs are registered.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}
