package router

import (
	"log/slog"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fintrack/internal/config"
	"github.com/polkiloo/fintrack/internal/server/http/handlers"
	"github.com/polkiloo/fintrack/internal/server/http/middleware"
)

// Setup configures gin router with handlers and middleware.
func Setup(facade handlers.FinanceFacade, authorizer middleware.TokenAuthorizer, logger *slog.Logger, cfg *config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.RequestLogger(logger))
	engine.Use(middleware.SecureHeaders(cfg.IsProduction()))
	engine.Use(middleware.DecompressRequest(middleware.DefaultMaxBodyBytes))
	engine.Use(gzip.Gzip(gzip.DefaultCompression))

	cookie := handlers.CookieOptions{MaxAge: int(cfg.TokenTTL / time.Second), Secure: cfg.IsProduction()}
	authHandler := handlers.NewAuthHandler(facade, cookie, logger)
	healthHandler := handlers.NewHealthHandler(facade, logger)
	analyticsHandler := handlers.NewAnalyticsHandler(facade, logger)

	api := engine.Group("/api")
	api.GET("/health", healthHandler.Check)

	auth := api.Group("/auth")
	auth.POST("/register", authHandler.Register)
	auth.POST("/login", middleware.RateLimitByIP(cfg.LoginRateLimit, time.Minute), authHandler.Login)

	private := api.Group("")
	private.Use(middleware.AuthRequired(authorizer, logger))
	private.POST("/auth/logout", authHandler.Logout)
	private.GET("/auth/me", authHandler.Me)
	private.GET("/analytics/summary", analyticsHandler.Summary)

	mountResource(private.Group("/expenses"), handlers.NewExpenseHandler(facade, logger))
	mountResource(private.Group("/budgets"), handlers.NewBudgetHandler(facade, logger))
	mountResource(private.Group("/categories"), handlers.NewCategoryHandler(facade, logger))
	mountResource(private.Group("/savings-goals"), handlers.NewSavingsGoalHandler(facade, logger))

	return engine
}

type crudHandler interface {
	Create(*gin.Context)
	List(*gin.Context)
	Get(*gin.Context)
	Update(*gin.Context)
	Delete(*gin.Context)
}

func mountResource(group *gin.RouterGroup, h crudHandler) {
	group.GET("", h.List)
	group.POST("", h.Create)
	group.GET("/:id", h.Get)
	group.PUT("/:id", h.Update)
	group.DELETE("/:id", h.Delete)
}
