package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/fintrack/internal/domain/errors"
	pkgAuth "github.com/polkiloo/fintrack/internal/pkg/auth"
	"github.com/polkiloo/fintrack/internal/server/http/dto"
	"github.com/polkiloo/fintrack/internal/server/http/middleware"
)

// CurrentUserID extracts authenticated user identifier from context.
func CurrentUserID(c *gin.Context) int64 {
	val, ok := c.Get(middleware.UserIDContextKey)
	if !ok {
		return 0
	}
	id, _ := val.(int64)
	return id
}

// CurrentPrincipal returns the authenticated principal, or nil.
func CurrentPrincipal(c *gin.Context) *pkgAuth.Principal {
	val, ok := c.Get(middleware.PrincipalContextKey)
	if !ok {
		return nil
	}
	p, _ := val.(*pkgAuth.Principal)
	return p
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: msg})
}

// respondError maps domain errors onto HTTP statuses.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	var verr *domainErrors.ValidationError
	switch {
	case errors.As(err, &verr):
		c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Error: "validation failed", Fields: verr.Fields})
	case errors.Is(err, domainErrors.ErrInvalidCredentials):
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid credentials"})
	case errors.Is(err, pkgAuth.ErrInvalidToken), errors.Is(err, domainErrors.ErrInactiveUser):
		c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "unauthorized"})
	case errors.Is(err, domainErrors.ErrNotFound):
		c.AbortWithStatusJSON(http.StatusNotFound, dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, domainErrors.ErrAlreadyExists):
		c.AbortWithStatusJSON(http.StatusConflict, dto.ErrorResponse{Error: "already exists"})
	default:
		logger.Error("request failed",
			slog.String("path", c.FullPath()),
			slog.String("error", err.Error()),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "internal server error"})
	}
}
