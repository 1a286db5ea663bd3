// Package unlock implements the time-lock engine: the Sweep that advances
// sealed and unfolding capsules according to the state machine, and the
// Scheduler that drives it at a fixed interval.
package unlock

import (
	"context"

	"go.uber.org/zap"

	"github.com/webitel/timecapsule/internal/domain/capsule"
	"github.com/webitel/timecapsule/internal/domain/clock"
	"github.com/webitel/timecapsule/internal/domain/event"
	"github.com/webitel/timecapsule/internal/obs"
	"github.com/webitel/timecapsule/internal/service/notifier"
	"github.com/webitel/timecapsule/internal/store"
)

// Stats summarizes one sweep's outcome.
type Stats struct {
	Checked          int
	SealedToUnfold   int
	UnfoldingToReady int
	Errors           int
}

// Service is the UnlockService: Repository + StateMachine + Clock composed
// into one sweep entrypoint.
type Service struct {
	repo     store.CapsuleRepository
	sm       capsule.StateMachine
	clock    clock.Clock
	notifier notifier.Notifier
	logger   *zap.Logger
	tracer   *obs.Tracer
}

func New(repo store.CapsuleRepository, sm capsule.StateMachine, clk clock.Clock, n notifier.Notifier, logger *zap.Logger, tracer *obs.Tracer) *Service {
	return &Service{repo: repo, sm: sm, clock: clk, notifier: n, logger: logger, tracer: tracer}
}

// Sweep is the single entrypoint the Scheduler drives. It reads "now" once,
// fetches every due capsule, and advances each at most one transition.
// A per-capsule failure is logged and counted; it never aborts the sweep.
func (s *Service) Sweep(ctx context.Context) Stats {
	var stats Stats
	_ = s.tracer.Span(ctx, "unlock.sweep", func(ctx context.Context) error {
		stats = s.sweep(ctx)
		return nil
	})
	return stats
}

func (s *Service) sweep(ctx context.Context) Stats {
	now := s.clock.Now()

	due, err := s.repo.Due(ctx)
	if err != nil {
		s.logger.Error("SWEEP_FETCH_DUE_FAILED", zap.Error(err))
		return Stats{Errors: 1}
	}

	var stats Stats
	stats.Checked = len(due)

	for _, c := range due {
		if err := ctx.Err(); err != nil {
			// Shutdown mid-sweep: stop touching new rows, keep what committed.
			s.logger.Warn("SWEEP_CANCELLED", zap.Int("remaining", stats.Checked-stats.SealedToUnfold-stats.UnfoldingToReady-stats.Errors))
			break
		}

		next, ok := s.sm.NextState(c, now)
		if !ok {
			continue
		}

		if err := s.sm.ValidateTransition(c.State, next); err != nil {
			s.logger.Error("SWEEP_ILLEGAL_TRANSITION", zap.String("capsule_id", c.ID.String()), zap.Error(err))
			stats.Errors++
			continue
		}

		if _, err := s.repo.TransitionState(ctx, c.ID, next, store.CapsuleFields{}); err != nil {
			s.logger.Error("SWEEP_TRANSITION_FAILED",
				zap.String("capsule_id", c.ID.String()),
				zap.String("from", string(c.State)),
				zap.String("to", string(next)),
				zap.Error(err),
			)
			stats.Errors++
			continue
		}

		switch next {
		case capsule.StateUnfolding:
			stats.SealedToUnfold++
		case capsule.StateReady:
			stats.UnfoldingToReady++
		}

		s.notify(ctx, event.NewTransitionEvent(c, next, now))
	}

	s.logger.Info("SWEEP_COMPLETE",
		zap.Int("checked", stats.Checked),
		zap.Int("sealed_to_unfolding", stats.SealedToUnfold),
		zap.Int("unfolding_to_ready", stats.UnfoldingToReady),
		zap.Int("errors", stats.Errors),
	)
	return stats
}

// notify invokes the Notifier best-effort; a failure is logged, never
// propagated, per the Notifier contract.
func (s *Service) notify(ctx context.Context, evt event.Eventer) {
	if err := s.notifier.Notify(ctx, evt); err != nil {
		s.logger.Warn("SWEEP_NOTIFY_FAILED", zap.String("capsule_id", evt.GetCapsuleID().String()), zap.Error(err))
	}
}
