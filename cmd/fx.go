package cmd

import (
	"go.uber.org/fx"

	"github.com/webitel/timecapsule/config"
	"github.com/webitel/timecapsule/internal/adapter/presence"
	httphandler "github.com/webitel/timecapsule/internal/handler/http"
	"github.com/webitel/timecapsule/internal/obs"
	"github.com/webitel/timecapsule/internal/service/auth"
	capsulefacade "github.com/webitel/timecapsule/internal/service/capsule"
	"github.com/webitel/timecapsule/internal/service/notifier"
	"github.com/webitel/timecapsule/internal/service/personal"
	"github.com/webitel/timecapsule/internal/service/unlock"
	"github.com/webitel/timecapsule/internal/store/cache"
	"github.com/webitel/timecapsule/internal/store/postgres"
	"github.com/webitel/timecapsule/pkg/logging"
)

// NewApp assembles the whole process: configuration, persistence, the
// domain services, the notifier fan-out, presence, and the HTTP surface.
func NewApp() *fx.App {
	return fx.New(
		config.Module,
		logging.Module,
		obs.Module,
		postgres.Module,
		cache.Module,
		unlock.Module,
		capsulefacade.Module,
		auth.Module,
		personal.Module,
		notifier.Module,
		presence.Module,
		httphandler.Module,
	)
}
