// Package scheduler runs the daily credential issuance batch at local
// midnight in a configured timezone.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/medyatra/credsvc/internal/service"
)

// BatchRunner runs one credential issuance batch over all eligible users.
type BatchRunner interface {
	IssueForAllUsers(ctx context.Context) (service.BatchSummary, error)
}

// Scheduler triggers the batch runner once per day at midnight in the
// configured location.
type Scheduler struct {
	runner   BatchRunner
	logger   *slog.Logger
	location *time.Location

	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	mu      sync.Mutex

	// now is replaceable in tests.
	now func() time.Time
}

// New creates a Scheduler for the given timezone name, e.g. "Asia/Kolkata".
func New(runner BatchRunner, logger *slog.Logger, timezone string) (*Scheduler, error) {
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		runner:   runner,
		logger:   logger.With("component", "scheduler", "timezone", timezone),
		location: loc,
		now:      time.Now,
	}, nil
}

// Run blocks until the context is cancelled, firing the batch at each
// local midnight.
func (s *Scheduler) Run(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return errors.New("scheduler already started")
	}
	s.started = true
	s.done = make(chan struct{})
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	defer close(s.done)

	s.logger.Info("scheduler started")

	for {
		next := nextMidnight(s.now().In(s.location))
		wait := next.Sub(s.now())
		s.logger.Info("next batch scheduled", "at", next, "in", wait)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.logger.Info("scheduler stopping")
			return ctx.Err()
		case <-timer.C:
			s.runBatch(ctx)
		}
	}
}

// Shutdown stops the scheduler. A batch already running completes on its
// own context.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil
	}
	cancel := s.cancel
	done := s.done
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

func (s *Scheduler) runBatch(ctx context.Context) {
	start := s.now()
	s.logger.Info("scheduled batch starting")

	summary, err := s.runner.IssueForAllUsers(ctx)
	if err != nil {
		s.logger.Error("scheduled batch failed", "error", err)
		return
	}

	s.logger.Info("scheduled batch complete",
		"processed", summary.Processed,
		"successful", summary.Successful,
		"emails_sent", summary.EmailsSent,
		"duration", s.now().Sub(start),
	)
}

// nextMidnight returns the first midnight strictly after t, in t's location.
func nextMidnight(t time.Time) time.Time {
	year, month, day := t.Date()
	midnight := time.Date(year, month, day, 0, 0, 0, 0, t.Location())
	if !midnight.After(t) {
		midnight = midnight.AddDate(0, 0, 1)
	}
	return midnight
}
