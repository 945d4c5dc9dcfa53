package cache

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/polkiloo/fintrack/internal/config"
)

// Module provides an optional Redis client. The client is nil when no
// address is configured.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Invoke(registerLifecycle),
)

type clientParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (*redis.Client, error) {
	if p.Config.RedisAddr == "" {
		p.Logger.Info("redis not configured, token revocation is disabled")
		return nil, nil
	}
	return New(p.Ctx, p.Config.RedisAddr)
}

func registerLifecycle(lc fx.Lifecycle, client *redis.Client) {
	if client == nil {
		return
	}
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return client.Close()
		},
	})
}
