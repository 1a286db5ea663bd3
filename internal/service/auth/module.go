package auth

import (
	"go.uber.org/fx"

	"github.com/webitel/timecapsule/config"
)

// Module wires the CredentialService and auth Service.
var Module = fx.Module("auth",
	fx.Provide(
		func(cfg *config.Config) CredentialService {
			return NewJWTCredentialService([]byte(cfg.JWT.SigningKey), Lifetimes{
				Access:  cfg.JWT.AccessTokenTTL,
				Refresh: cfg.JWT.RefreshTokenTTL,
			})
		},
		NewService,
	),
)
