package scheduler

import (
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"
)

// Sweeper removes expired entries and reports how many went away.
type Sweeper interface {
	DeleteExpired() int
}

// Scheduler periodically sweeps expired cache entries.
type Scheduler struct {
	scheduler *gocron.Scheduler
	cache     Sweeper
	interval  time.Duration
	logger    *zap.Logger
}

const defaultInterval = time.Minute

// New creates a new Scheduler.
func New(cache Sweeper, interval time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		cache:     cache,
		interval:  interval,
		logger:    logger,
	}
}

// Start schedules the sweep job and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(s.interval).Do(s.sweep)
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	s.logger.Info("cache sweeper started", zap.Duration("interval", s.interval))
	return nil
}

func (s *Scheduler) sweep() {
	if removed := s.cache.DeleteExpired(); removed > 0 {
		s.logger.Debug("cache sweep removed expired entries", zap.Int("removed", removed))
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
