package cache

import (
	"go.uber.org/fx"

	"github.com/webitel/timecapsule/config"
	"github.com/webitel/timecapsule/internal/store"
)

// Module decorates the store.CapsuleRepository fx already resolved (the
// Postgres implementation) with the LRU layer, using fx.Decorate so every
// downstream consumer gets the cached version transparently.
var Module = fx.Module("capsule_cache",
	fx.Decorate(func(cfg *config.Config, next store.CapsuleRepository) (store.CapsuleRepository, error) {
		return NewCapsuleCache(next, cfg.Cache.CapsuleLRUSize)
	}),
)
