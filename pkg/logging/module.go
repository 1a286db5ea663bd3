package logging

import "go.uber.org/fx"

// Module provides the process-wide *zap.Logger.
var Module = fx.Module("logging",
	fx.Provide(New),
)
