package http

import (
	"context"

	"go.uber.org/fx"
)

// Module wires the HTTP handler layer and its fx.Lifecycle start/stop hooks
// for the *http.Server, following the teacher's grpc/amqp module shape of
// provide-then-invoke-with-lifecycle-hook.
var Module = fx.Module("http",
	fx.Provide(
		NewAuthHandler,
		NewCapsuleHandler,
		NewPersonalHandler,
		NewWSHandler,
		NewServer,
	),
	fx.Invoke(func(lc fx.Lifecycle, srv *Server) {
		lc.Append(fx.Hook{
			OnStart: func(ctx context.Context) error {
				return srv.Start()
			},
			OnStop: func(ctx context.Context) error {
				return srv.Stop(ctx)
			},
		})
	}),
)
