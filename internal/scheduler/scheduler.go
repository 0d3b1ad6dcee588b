package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/Dan9191/voucher-service/internal/models"
)

// Updater refreshes the stored UMA value
type Updater interface {
	Update(ctx context.Context) (models.IndexValue, bool, error)
}

// Scheduler runs UMA refreshes on a cron schedule
type Scheduler struct {
	cron    *cron.Cron
	updater Updater
	timeout time.Duration
	log     *logrus.Logger
}

// NewScheduler registers the refresh job for spec (standard 5-field cron)
func NewScheduler(spec string, updater Updater, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:    cron.New(),
		updater: updater,
		timeout: time.Minute,
		log:     log,
	}
	if _, err := s.cron.AddFunc(spec, s.RunOnce); err != nil {
		return nil, fmt.Errorf("invalid UMA refresh schedule %q: %w", spec, err)
	}
	return s, nil
}

// RunOnce performs a single refresh; failures are logged, never returned
func (s *Scheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	value, created, err := s.updater.Update(ctx)
	if err != nil {
		s.log.Errorf("Scheduled UMA refresh failed: %v", err)
		return
	}
	s.log.WithFields(logrus.Fields{
		"daily_value": value.DailyValue.String(),
		"created":     created,
	}).Info("Scheduled UMA refresh finished")
}

// Start begins running scheduled jobs in the background
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("UMA refresh scheduler started")
}

// Stop halts the scheduler and waits for a running job to finish
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info("UMA refresh scheduler stopped")
}
