package usecase

import (
	"context"
	"log/slog"
	"time"

	"TrendRadar/internal/ports"
)

// Scheduler runs tracking and newsletter pipelines on the driver's cadence.
type Scheduler struct {
	driver     ports.Scheduler
	tracker    *Tracker
	newsletter *Newsletter
	logger     *slog.Logger
}

// NewScheduler returns a helper to start/stop recurring runs.
func NewScheduler(driver ports.Scheduler, tracker *Tracker, newsletter *Newsletter, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{driver: driver, tracker: tracker, newsletter: newsletter, logger: logger}
}

// Start registers both pipelines with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	job := func(trigger time.Time) {
		if s.tracker != nil {
			if _, err := s.tracker.Run(ctx, trigger.UTC()); err != nil {
				s.logger.Error("scheduled tracking run failed", "error", err)
			}
		}
		if s.newsletter != nil {
			if _, err := s.newsletter.Run(ctx, false); err != nil {
				s.logger.Error("scheduled newsletter run failed", "error", err)
			}
		}
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}

	return s.driver.Stop(ctx)
}
