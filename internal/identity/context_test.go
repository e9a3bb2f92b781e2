package identity

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
	"github.com/gabonshop/gabonshop-backend/internal/identity/domain"
)

type stubAuthenticator map[string]*domain.CurrentUser

func (s stubAuthenticator) Authenticate(ctx context.Context, token string) (*domain.CurrentUser, error) {
	if token == "broken" {
		return nil, errors.New("profile store unavailable")
	}
	u, ok := s[token]
	if !ok {
		return nil, gateway.ErrInvalidToken
	}
	return u, nil
}

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	auth := stubAuthenticator{
		"user-token":  {ID: "u1", UID: "u1", Role: domain.RoleUser},
		"admin-token": {ID: "a1", UID: "a1", Role: domain.RoleAdmin},
	}

	r := gin.New()
	r.Use(Authenticate(auth, zap.NewNop()))
	r.GET("/open", func(c *gin.Context) {
		u, ok := CurrentUser(c)
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, u.ID)
	})
	r.GET("/user", RequireUser(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func TestMiddleware(t *testing.T) {
	r := setupRouter()

	tests := []struct {
		name     string
		path     string
		token    string
		wantCode int
		wantBody string
	}{
		{name: "anonymous open", path: "/open", wantCode: http.StatusOK, wantBody: "anonymous"},
		{name: "user open", path: "/open", token: "user-token", wantCode: http.StatusOK, wantBody: "u1"},
		{name: "invalid token", path: "/open", token: "forged", wantCode: http.StatusUnauthorized},
		{name: "profile failure is anonymous", path: "/open", token: "broken", wantCode: http.StatusOK, wantBody: "anonymous"},
		{name: "anonymous user route", path: "/user", wantCode: http.StatusUnauthorized},
		{name: "user route", path: "/user", token: "user-token", wantCode: http.StatusNoContent},
		{name: "user on admin route", path: "/admin", token: "user-token", wantCode: http.StatusForbidden},
		{name: "admin route", path: "/admin", token: "admin-token", wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.wantCode, w.Code)
			if tt.wantBody != "" {
				assert.Equal(t, tt.wantBody, w.Body.String())
			}
		})
	}
}
