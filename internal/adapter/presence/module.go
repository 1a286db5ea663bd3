package presence

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/webitel/timecapsule/internal/service/notifier"
)

// Module provides the presence Hub and wires its Shutdown into the fx
// lifecycle. The Hub is also exposed as a notifier.Pusher so the Notifier
// module's composite can push to connected websocket sessions.
var Module = fx.Module("presence",
	fx.Provide(
		func(logger *zap.Logger) *Hub {
			return NewHub(logger)
		},
		fx.Annotate(
			func(h *Hub) notifier.Pusher { return h },
			fx.As(new(notifier.Pusher)),
		),
	),
	fx.Invoke(func(lc fx.Lifecycle, hub *Hub) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				hub.Shutdown()
				return nil
			},
		})
	}),
)
