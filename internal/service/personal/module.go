package personal

import "go.uber.org/fx"

// Module provides the draft-autosave/saved-recipients Service for the HTTP
// layer to consume.
var Module = fx.Module("personal",
	fx.Provide(New),
)
