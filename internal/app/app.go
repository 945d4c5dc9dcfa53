package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/polkiloo/fintrack/internal/config"
	"github.com/polkiloo/fintrack/internal/server/http/handlers"
	"github.com/polkiloo/fintrack/internal/server/http/middleware"
	"github.com/polkiloo/fintrack/internal/worker"
)

// Module wires application services, runtime components, and lifecycle hooks.
var Module = fx.Options(
	fx.Provide(
		fx.Annotate(
			NewFinanceFacade,
			fx.As(fx.Self()),
			fx.As(new(handlers.FinanceFacade)),
			fx.As(new(middleware.TokenAuthorizer)),
			fx.As(new(worker.BudgetFacade)),
		),
		newHTTPServer,
		newBudgetRefresher,
	),
	fx.Invoke(registerLifecycle),
)

const readHeaderTimeout = 5 * time.Second

type serverParams struct {
	fx.In

	Config *config.Config
	Router *gin.Engine
}

func newHTTPServer(p serverParams) *http.Server {
	return &http.Server{
		Addr:              p.Config.RunAddress,
		Handler:           p.Router,
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

type workerParams struct {
	fx.In

	Facade worker.BudgetFacade
	Config *config.Config
	Logger *slog.Logger
}

func newBudgetRefresher(p workerParams) *worker.BudgetRefresher {
	return worker.NewBudgetRefresher(
		p.Facade,
		p.Config.BudgetRefreshInterval,
		p.Config.MaxBudgetsBatch,
		p.Config.WorkerPoolSize,
		p.Logger,
	)
}

type lifecycleParams struct {
	fx.In

	Lifecycle  fx.Lifecycle
	Shutdowner fx.Shutdowner
	Logger     *slog.Logger
	Server     *http.Server
	Worker     *worker.BudgetRefresher
	Config     *config.Config
}

func registerLifecycle(p lifecycleParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Logger.Info("starting fintrack", slog.String("addr", p.Server.Addr), slog.String("env", p.Config.Env))
			// The start context expires once startup finishes.
			p.Worker.Start(context.WithoutCancel(ctx))
			go func() {
				if err := p.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					p.Logger.Error("http server terminated", slog.String("error", err.Error()))
					_ = p.Shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx := ctx
			cancel := func() {}
			if _, ok := ctx.Deadline(); !ok {
				shutdownCtx, cancel = context.WithTimeout(ctx, p.Config.ShutdownTimeout)
			}
			defer cancel()

			err := p.Server.Shutdown(shutdownCtx)
			p.Worker.Stop()
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			p.Logger.Info("fintrack stopped")
			return nil
		},
	})
}
