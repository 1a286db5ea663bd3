package obs

import (
	"context"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// Module provides the *Tracer facade operations and the unlock sweep use,
// and shuts the TracerProvider down (flushing any buffered spans) on stop.
var Module = fx.Module("obs",
	fx.Provide(NewProvider, NewTracer),
	fx.Invoke(func(lc fx.Lifecycle, tp *sdktrace.TracerProvider) {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return tp.Shutdown(ctx)
			},
		})
	}),
)
