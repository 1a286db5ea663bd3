package notifier

import (
	"github.com/ThreeDotsLabs/watermill"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/webitel/timecapsule/config"
)

// Module wires the Notifier used by the UnlockService: the queued transport
// (AMQP, or Noop when unconfigured) composed with the realtime presence push
// so a connected receiver gets an instant websocket signal in addition to
// the durable queued one.
var Module = fx.Module("notifier",
	fx.Provide(
		fx.Annotate(
			func(cfg *config.Config, logger *zap.Logger) (Notifier, error) {
				if cfg.AMQP.URL == "" {
					logger.Info("NOTIFIER_NOOP_ACTIVE")
					return Noop{}, nil
				}
				publisher, err := NewAMQPPublisher(cfg.AMQP.URL, watermill.NewStdLogger(false, false))
				if err != nil {
					return nil, err
				}
				return NewAMQPNotifier(publisher, cfg.AMQP.Exchange, logger), nil
			},
			fx.ResultTags(`name:"queued"`),
		),
		fx.Annotate(
			func(queued Notifier, push Pusher) Notifier {
				return NewComposite(queued, push)
			},
			fx.ParamTags(`name:"queued"`, ``),
		),
	),
)
