package auth

import (
	"github.com/polkiloo/fintrack/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"
)

// Module provides authentication primitives via fx.
var Module = fx.Options(
	fx.Provide(newPasswordHasher),
	fx.Provide(newTokenStrategy),
	fx.Provide(newDenylist),
)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newPasswordHasher(p strategyParams) PasswordHasher {
	return NewBcryptHasher(p.Config.BcryptCost)
}

func newTokenStrategy(p strategyParams) (Strategy, error) {
	return NewJWTStrategy(p.Config.JWTSecret, Options{TTL: p.Config.TokenTTL})
}

type denylistParams struct {
	fx.In

	Redis *redis.Client `optional:"true"`
}

func newDenylist(p denylistParams) Denylist {
	if p.Redis == nil {
		return NoopDenylist{}
	}
	return NewRedisDenylist(p.Redis)
}
