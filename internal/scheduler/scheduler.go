// Package scheduler owns the recurring ingestion cadence: a cron-style daily
// run plus a one-shot run shortly after startup so a fresh install doesn't
// sit empty until 2am.
package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

type Task func(ctx context.Context)

type Scheduler struct {
	cron         *cron.Cron
	startupDelay time.Duration
	startupTimer *time.Timer
}

// New validates the cron spec up front so a config typo fails at boot, not
// silently at 2am.
func New(cronSpec string, startupDelay time.Duration, task Task) (*Scheduler, error) {
	if _, err := cron.ParseStandard(cronSpec); err != nil {
		return nil, err
	}

	c := cron.New()
	_, err := c.AddFunc(cronSpec, func() {
		runSafely(context.Background(), "daily", task)
	})
	if err != nil {
		return nil, err
	}

	s := &Scheduler{cron: c, startupDelay: startupDelay}
	if startupDelay > 0 {
		s.startupTimer = time.AfterFunc(startupDelay, func() {
			runSafely(context.Background(), "startup", task)
		})
		s.startupTimer.Stop() // armed in Start
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	if s.startupTimer != nil {
		s.startupTimer.Reset(s.startupDelay)
	}
	log.Printf("[scheduler] started (startup run in %s)", s.startupDelay)
}

// Stop halts future triggers and waits for a run already in flight.
func (s *Scheduler) Stop() {
	if s.startupTimer != nil {
		s.startupTimer.Stop()
	}
	<-s.cron.Stop().Done()
}

func runSafely(ctx context.Context, trigger string, task Task) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[scheduler] %s run panicked: %v", trigger, r)
		}
	}()
	log.Printf("[scheduler] %s run starting", trigger)
	task(ctx)
}
