package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Evaluator runs one automatic-mode evaluation cycle.
type Evaluator interface {
	RunCycle(ctx context.Context) error
}

// Scheduler drives the evaluation loop on a fixed cadence. One cycle runs
// immediately on start so a fresh daemon sets the screen without waiting a
// full interval.
type Scheduler struct {
	engine   Evaluator
	logger   *zap.Logger
	interval time.Duration
	cron     *cron.Cron
	entryID  cron.EntryID

	mu      sync.Mutex
	running bool
	lastRun time.Time
}

func NewScheduler(engine Evaluator, interval time.Duration, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		engine:   engine,
		logger:   logger,
		interval: interval,
		cron:     cron.New(),
	}
}

func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}

	spec := fmt.Sprintf("@every %s", s.interval)
	entryID, err := s.cron.AddFunc(spec, s.runCycle)
	if err != nil {
		// running stays false so a later Start can try again.
		return fmt.Errorf("schedule %q: %w", spec, err)
	}
	s.entryID = entryID
	s.running = true

	s.logger.Info("Scheduler started",
		zap.Duration("interval", s.interval))

	go s.runCycle()
	s.cron.Start()
	return nil
}

func (s *Scheduler) runCycle() {
	s.mu.Lock()
	s.lastRun = time.Now()
	s.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	start := time.Now()
	if err := s.engine.RunCycle(ctx); err != nil {
		s.logger.Error("Evaluation cycle failed",
			zap.Error(err),
			zap.Duration("duration", time.Since(start)))
	} else {
		s.logger.Debug("Evaluation cycle completed",
			zap.Duration("duration", time.Since(start)))
	}
}

// ForceRun triggers a cycle outside the schedule.
func (s *Scheduler) ForceRun() {
	s.logger.Info("Manually triggering evaluation cycle")
	go s.runCycle()
}

// Stop halts the schedule and waits for cron-launched cycles to finish.
// Cycles started out of band (the immediate run on Start, ForceRun) are
// not awaited.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) GetStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	status := map[string]interface{}{
		"running":  s.running,
		"interval": s.interval.String(),
		"last_run": s.lastRun,
	}
	if s.running {
		status["next_run"] = s.cron.Entry(s.entryID).Next
	}
	return status
}
