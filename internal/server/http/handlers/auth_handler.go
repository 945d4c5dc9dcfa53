package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/fintrack/internal/server/http/dto"
	"github.com/polkiloo/fintrack/internal/server/http/middleware"
)

// CookieOptions controls the session cookie written on login.
type CookieOptions struct {
	MaxAge int
	Secure bool
}

// AuthHandler processes registration, login, logout and profile lookups.
type AuthHandler struct {
	facade AuthFacade
	cookie CookieOptions
	logger *slog.Logger
}

// NewAuthHandler creates AuthHandler instance.
func NewAuthHandler(facade AuthFacade, cookie CookieOptions, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{facade: facade, cookie: cookie, logger: logger}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	user, err := h.facade.Register(c.Request.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewRegisterResponse(user))
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body")
		return
	}

	_, token, err := h.facade.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	middleware.SetAuthCookie(c, token, h.cookie.MaxAge, h.cookie.Secure)
	c.JSON(http.StatusOK, dto.TokenResponse{Token: token})
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.facade.Logout(c.Request.Context(), CurrentPrincipal(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	middleware.ClearAuthCookie(c, h.cookie.Secure)
	c.Status(http.StatusNoContent)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.facade.Profile(c.Request.Context(), CurrentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewProfileResponse(user))
}
