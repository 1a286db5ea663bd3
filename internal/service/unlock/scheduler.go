package unlock

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Sweeper is the thing a Scheduler drives. *Service satisfies it.
type Sweeper interface {
	Sweep(ctx context.Context) Stats
}

// Option configures a Scheduler at construction, following the teacher's
// functional-options style for its long-lived registry components.
type Option func(*Scheduler)

// WithInterval overrides the default tick period.
func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) { s.interval = d }
}

// Scheduler is the background driver holding exactly one recurring sweep
// task with max_instances=1: a tick that lands while the previous sweep is
// still running is dropped, not queued.
type Scheduler struct {
	sweeper  Sweeper
	logger   *zap.Logger
	interval time.Duration

	running  atomic.Bool // true while a sweep is in flight
	started  atomic.Bool // true once Start has been called and not yet Stop-ed
	stopCh   chan struct{}
	doneCh   chan struct{}
	startMu  sync.Mutex
	lastStat atomic.Value // Stats
}

// NewScheduler builds a Scheduler with a 60 second default interval,
// matching worker_check_interval_seconds' spec default.
func NewScheduler(sweeper Sweeper, logger *zap.Logger, opts ...Option) *Scheduler {
	s := &Scheduler{
		sweeper:  sweeper,
		logger:   logger,
		interval: 60 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start is idempotent: calling it while already running logs a warning and
// returns without spawning a second ticker goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if s.started.Load() {
		s.logger.Warn("SCHEDULER_ALREADY_RUNNING")
		return
	}
	s.started.Store(true)
	s.stopCh = make(chan struct{})
	s.doneCh = make(chan struct{})

	go s.run(ctx)
}

func (s *Scheduler) run(ctx context.Context) {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick runs one sweep unless the previous one is still in flight, in which
// case it is dropped: max_instances=1, skip don't queue.
func (s *Scheduler) tick(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Warn("SWEEP_TICK_SKIPPED_STILL_RUNNING")
		return
	}
	defer s.running.Store(false)

	stats := s.sweeper.Sweep(ctx)
	s.lastStat.Store(stats)
}

// Stop waits for the current sweep, if any, to finish before returning, and
// cancels future ticks. It is safe to call on a Scheduler that was never
// started.
func (s *Scheduler) Stop() {
	s.startMu.Lock()
	defer s.startMu.Unlock()

	if !s.started.Load() {
		return
	}
	close(s.stopCh)
	<-s.doneCh
	s.started.Store(false)
}

// LastStats returns the outcome of the most recently completed sweep, or the
// zero value if none has run yet.
func (s *Scheduler) LastStats() Stats {
	if v, ok := s.lastStat.Load().(Stats); ok {
		return v
	}
	return Stats{}
}
