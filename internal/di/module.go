package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/fintrack/internal/app"
	"github.com/polkiloo/fintrack/internal/config"
	"github.com/polkiloo/fintrack/internal/logger"
	"github.com/polkiloo/fintrack/internal/pkg/auth"
	"github.com/polkiloo/fintrack/internal/server/http/router"
	"github.com/polkiloo/fintrack/internal/storage/cache"
	"github.com/polkiloo/fintrack/internal/storage/postgres"
	"github.com/polkiloo/fintrack/internal/usecase"
)

// Module assembles the whole application graph. Extra options are applied
// last so callers can replace any component.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		cache.Module,
		auth.Module,
		postgres.Module,
		usecase.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
