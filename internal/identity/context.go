// Package identity carries the current user through gin requests.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
	"github.com/gabonshop/gabonshop-backend/internal/identity/domain"
)

const CtxCurrentUser = "current_user"

// Authenticator turns a bearer token into the user it belongs to.
type Authenticator interface {
	Authenticate(ctx context.Context, idToken string) (*domain.CurrentUser, error)
}

// Authenticate resolves the bearer token, if any, into the current user.
// Requests without a token pass through anonymously; an invalid token is
// rejected. When the profile cannot be fetched the request continues
// anonymously and the failure is logged.
func Authenticate(a Authenticator, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.Next()
			return
		}

		u, err := a.Authenticate(c.Request.Context(), token)
		if errors.Is(err, gateway.ErrInvalidToken) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalide ou expirée. Veuillez vous reconnecter."})
			c.Abort()
			return
		}
		if err != nil {
			log.Warn("could not resolve current user", zap.Error(err))
			c.Next()
			return
		}

		SetCurrentUser(c, u)
		c.Next()
	}
}

// RequireUser rejects anonymous requests.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := CurrentUser(c); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Vous devez être connecté."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin rejects requests whose user does not have the admin role.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Vous devez être connecté."})
			c.Abort()
			return
		}
		if !u.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "Accès réservé aux administrateurs."})
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentUser returns the user set by Authenticate.
func CurrentUser(c *gin.Context) (*domain.CurrentUser, bool) {
	v, ok := c.Get(CtxCurrentUser)
	if !ok {
		return nil, false
	}
	u, ok := v.(*domain.CurrentUser)
	return u, ok && u != nil
}

func SetCurrentUser(c *gin.Context, u *domain.CurrentUser) {
	c.Set(CtxCurrentUser, u)
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	bearerToken := c.GetHeader("Authorization")
	if len(bearerToken) > 7 && strings.HasPrefix(bearerToken, "Bearer ") {
		return strings.TrimSpace(bearerToken[7:])
	}
	return ""
}
