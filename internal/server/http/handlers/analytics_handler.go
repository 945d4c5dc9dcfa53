package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fintrack/internal/server/http/dto"
)

// AnalyticsHandler renders the spending dashboard.
type AnalyticsHandler struct {
	facade AnalyticsFacade
	logger *slog.Logger
}

func NewAnalyticsHandler(facade AnalyticsFacade, logger *slog.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{facade: facade, logger: logger}
}

// Summary handles GET /api/analytics/summary?from=&to=.
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	from, ok := queryDate(c, "from")
	if !ok {
		return
	}
	to, ok := queryDate(c, "to")
	if !ok {
		return
	}

	summary, err := h.facade.Summary(c.Request.Context(), CurrentUserID(c), from, to)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewSummaryResponse(summary))
}

func queryDate(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := dto.ParseDate(raw)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:  "validation failed",
			Fields: map[string]string{name: "must be a date in YYYY-MM-DD format"},
		})
		return time.Time{}, false
	}
	return t, true
}

// HealthHandler reports storage availability.
type HealthHandler struct {
	facade HealthFacade
	logger *slog.Logger
}

func NewHealthHandler(facade HealthFacade, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{facade: facade, logger: logger}
}

// Check handles GET /api/health.
func (h *HealthHandler) Check(c *gin.Context) {
	if err := h.facade.HealthCheck(c.Request.Context()); err != nil {
		h.logger.Warn("health check failed", slog.String("error", err.Error()))
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
