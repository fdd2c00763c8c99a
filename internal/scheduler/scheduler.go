package scheduler

import (
	"sync"
	"time"

	"go.uber.org/zap"

	"backupwatch/internal/logging"
)

// Callbacks provides hooks for check lifecycle events. Nil callbacks are
// simply not called.
type Callbacks struct {
	OnCheckStart   func()
	OnCheckSuccess func(elapsed time.Duration)
	OnCheckFailure func(err error)
}

// Scheduler runs the check function on a schedule.
type Scheduler struct {
	schedule  *Schedule
	checkFunc func() error
	callbacks *Callbacks

	stop chan struct{}
	wg   sync.WaitGroup

	mu      sync.Mutex
	running bool
	lastRun time.Time
	lastErr error
}

// NewScheduler creates a scheduler over the given check function.
func NewScheduler(schedule *Schedule, checkFunc func() error, callbacks *Callbacks) *Scheduler {
	return &Scheduler{
		schedule:  schedule,
		checkFunc: checkFunc,
		callbacks: callbacks,
		stop:      make(chan struct{}),
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run()
}

// Stop stops the scheduler and waits for an in-flight check to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	close(s.stop)
	s.wg.Wait()
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	for {
		next := s.schedule.NextRun(time.Now())
		logging.L().Debug("next scheduled check", zap.Time("at", next))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-timer.C:
			s.RunNow()
		case <-s.stop:
			timer.Stop()
			return
		}
	}
}

// RunNow executes one check immediately and records the outcome. The
// watch command uses it for the initial run at startup.
func (s *Scheduler) RunNow() {
	if s.callbacks != nil && s.callbacks.OnCheckStart != nil {
		s.callbacks.OnCheckStart()
	}

	start := time.Now()
	err := s.checkFunc()
	elapsed := time.Since(start)

	s.mu.Lock()
	s.lastRun = start
	s.lastErr = err
	s.mu.Unlock()

	if err != nil {
		logging.L().Error("scheduled check failed", zap.Error(err))
		if s.callbacks != nil && s.callbacks.OnCheckFailure != nil {
			s.callbacks.OnCheckFailure(err)
		}
		return
	}

	logging.L().Info("scheduled check completed", zap.Duration("elapsed", elapsed))
	if s.callbacks != nil && s.callbacks.OnCheckSuccess != nil {
		s.callbacks.OnCheckSuccess(elapsed)
	}
}

// LastRun returns the start time and error of the most recent check.
func (s *Scheduler) LastRun() (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun, s.lastErr
}
