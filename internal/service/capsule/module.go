package capsule

import (
	"go.uber.org/fx"
)

// Module provides the Facade, plus the EnrichingFacade decorator the HTTP
// layer actually consumes.
var Module = fx.Module("capsule_facade",
	fx.Provide(New, NewEnrichingFacade),
)
