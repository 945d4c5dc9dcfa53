package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/fintrack/internal/domain/errors"
	pkgAuth "github.com/polkiloo/fintrack/internal/pkg/auth"
)

const (
	// UserIDContextKey is a gin context key for authenticated user identifier.
	UserIDContextKey = "userID"
	// PrincipalContextKey holds the *pkgAuth.Principal of the caller.
	PrincipalContextKey = "principal"
	authCookieName      = "fintrack_token"
)

// TokenAuthorizer resolves bearer tokens into principals.
type TokenAuthorizer interface {
	Authorize(ctx context.Context, token string) (*pkgAuth.Principal, error)
}

// AuthRequired ensures user is authenticated before accessing handler.
func AuthRequired(authorizer TokenAuthorizer, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			abortUnauthorized(c)
			return
		}
		principal, err := authorizer.Authorize(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) || errors.Is(err, domainErrors.ErrInactiveUser) {
				abortUnauthorized(c)
				return
			}
			logger.Error("authorize request failed", slog.String("error", err.Error()))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		c.Set(UserIDContextKey, principal.UserID)
		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie and header to response.
func SetAuthCookie(c *gin.Context, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, token, maxAge, "/", "", secure, true)
	c.Header("Authorization", "Bearer "+token)
}

// ClearAuthCookie expires the auth cookie.
func ClearAuthCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(authCookieName, "", -1, "/", "", secure, true)
}
