package unlock

import (
	"context"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/webitel/timecapsule/config"
	"github.com/webitel/timecapsule/internal/domain/capsule"
	"github.com/webitel/timecapsule/internal/domain/clock"
)

// Module wires the Service and Scheduler into the application lifecycle:
// the Scheduler starts on OnStart and drains the in-flight sweep on OnStop.
var Module = fx.Module("unlock",
	fx.Provide(
		func() capsule.StateMachine { return capsule.NewStateMachine(capsule.DefaultParams()) },
		func() clock.Clock { return clock.System{} },
		New,
		func(svc *Service, cfg *config.Config, logger *zap.Logger) *Scheduler {
			return NewScheduler(svc, logger, WithInterval(time.Duration(cfg.Unlock.CheckIntervalSeconds)*time.Second))
		},
	),
	fx.Invoke(func(lc fx.Lifecycle, sched *Scheduler) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				sched.Start(context.Background())
				return nil
			},
			OnStop: func(ctx context.Context) error {
				sched.Stop()
				return nil
			},
		})
	}),
)
