// Package scheduler refreshes widget data on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// RefreshTimeout bounds a single scheduled refresh.
const RefreshTimeout = 30 * time.Second

// Refresher is the work a tick performs. *widget.Controller implements it.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler runs a Refresher on a cron spec.
type Scheduler struct {
	spec      string
	refresher Refresher
	logger    *slog.Logger
	cron      *cron.Cron

	mu   sync.Mutex
	runs int
}

// New validates spec and prepares a stopped scheduler.
// Overlapping ticks are skipped while a refresh is still running.
func New(spec string, r Refresher, loc *time.Location, logger *slog.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if loc == nil {
		loc = time.UTC
	}

	s := &Scheduler{
		spec:      spec,
		refresher: r,
		logger:    logger,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.Recover(cron.DiscardLogger), cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
	}

	if _, err := s.cron.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("schedule refresh %q: %w", spec, err)
	}
	return s, nil
}

// Start begins running ticks in the background.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("refresh scheduler started", slog.String("schedule", s.spec))
}

// Stop halts the schedule and waits for a running refresh, or ctx, to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		s.logger.Info("refresh scheduler stopped")
	case <-ctx.Done():
		s.logger.Warn("refresh scheduler stop timed out")
	}
}

// Runs reports how many refreshes have completed.
func (s *Scheduler) Runs() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.runs
}

// RunOnce performs one refresh immediately.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	start := time.Now()
	err := s.refresher.Refresh(ctx)

	s.mu.Lock()
	s.runs++
	s.mu.Unlock()

	if err != nil {
		s.logger.Error("scheduled refresh failed",
			slog.Any("error", err),
			slog.Duration("duration", time.Since(start)),
		)
		return err
	}

	s.logger.Debug("scheduled refresh complete",
		slog.Duration("duration", time.Since(start)),
	)
	return nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), RefreshTimeout)
	defer cancel()

	_ = s.RunOnce(ctx)
}
