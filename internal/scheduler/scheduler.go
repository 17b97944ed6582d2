package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/imolchanov/sunday/internal/weather"
)

// Scheduler periodically refreshes forecasts for pinned cities so their data
// (and condition imagery) stays warm.
type Scheduler struct {
	scheduler *gocron.Scheduler
	service   *weather.Service
	interval  time.Duration
	log       *zap.Logger
}

// New creates a new Scheduler.
func New(service *weather.Service, interval time.Duration, log *zap.Logger) *Scheduler {
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		service:   service,
		interval:  interval,
		log:       log,
	}
}

// Start schedules the periodic refresh job and starts the underlying
// scheduler.
func (s *Scheduler) Start() error {
	minutes := int(s.interval.Minutes())
	if minutes <= 0 {
		minutes = 15
	}

	_, err := s.scheduler.Every(minutes).Minutes().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		cities, err := s.service.PinnedCities(ctx)
		if err != nil {
			s.log.Warn("pinned refresh job failed", zap.Error(err))
			return
		}
		if len(cities) == 0 {
			return
		}
		s.log.Info("pinned refresh job completed", zap.Int("cities", len(cities)))
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
