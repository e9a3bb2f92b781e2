package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	catalogdomain "github.com/gabonshop/gabonshop-backend/internal/catalog/domain"
	catalogrepo "github.com/gabonshop/gabonshop-backend/internal/catalog/repository"
	catalogservice "github.com/gabonshop/gabonshop-backend/internal/catalog/service"
	"github.com/gabonshop/gabonshop-backend/internal/gateway"
	"github.com/gabonshop/gabonshop-backend/internal/gateway/memory"
	"github.com/gabonshop/gabonshop-backend/internal/identity"
	identitydomain "github.com/gabonshop/gabonshop-backend/internal/identity/domain"
	identityrepo "github.com/gabonshop/gabonshop-backend/internal/identity/repository"
	"github.com/gabonshop/gabonshop-backend/internal/moderation/repository"
	"github.com/gabonshop/gabonshop-backend/internal/moderation/service"
)

var callers = map[string]*identitydomain.CurrentUser{
	"admin": {ID: "a1", UID: "a1", Role: identitydomain.RoleAdmin},
	"user":  {ID: "u1", UID: "u1", Role: identitydomain.RoleUser},
}

func setupRouter(t *testing.T) (*gin.Engine, *memory.Documents, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	docs := memory.NewDocuments()
	catalog := catalogservice.NewStore(catalogrepo.NewProductRepository(docs), zap.NewNop())
	profiles := identityrepo.NewProfileRepository(docs)
	require.NoError(t, profiles.Create(ctx, identitydomain.Profile{ID: "u1", Name: "Ada", Role: identitydomain.RoleUser}))
	require.NoError(t, profiles.Create(ctx, identitydomain.Profile{ID: "a1", Name: "Root", Role: identitydomain.RoleAdmin}))

	productID, err := catalog.Create(ctx, catalogdomain.ProductForm{Title: "Chaise", Description: "Bois", Images: []string{"x.jpg"}},
		catalogdomain.Owner{ID: "u1"})
	require.NoError(t, err)

	workflow := service.NewWorkflow(repository.NewLogRepository(docs), catalog, profiles, zap.NewNop())

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(func(c *gin.Context) {
		if u, ok := callers[c.GetHeader("X-Test-User")]; ok {
			identity.SetCurrentUser(c, u)
		}
		c.Next()
	})
	New(workflow, zap.NewNop()).Register(api)
	return r, docs, productID
}

func do(t *testing.T, r *gin.Engine, method, path, caller string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != "" {
		req.Header.Set("X-Test-User", caller)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	r, _, _ := setupRouter(t)

	assert.Equal(t, http.StatusUnauthorized, do(t, r, http.MethodGet, "/api/v1/admin/users", "", nil).Code)
	assert.Equal(t, http.StatusForbidden, do(t, r, http.MethodGet, "/api/v1/admin/users", "user", nil).Code)
	assert.Equal(t, http.StatusOK, do(t, r, http.MethodGet, "/api/v1/admin/users", "admin", nil).Code)
}

func TestDeleteProduct(t *testing.T) {
	t.Run("requires a reason", func(t *testing.T) {
		r, docs, productID := setupRouter(t)
		w := do(t, r, http.MethodDelete, "/api/v1/admin/products/"+productID, "admin", gin.H{"reason": " "})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 0, docs.Count(gateway.CollectionModerationLogs))
		assert.Equal(t, 1, docs.Count(gateway.CollectionProducts))
	})

	t.Run("logs and deletes", func(t *testing.T) {
		r, docs, productID := setupRouter(t)
		w := do(t, r, http.MethodDelete, "/api/v1/admin/products/"+productID, "admin", gin.H{"reason": "spam"})
		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, 1, docs.Count(gateway.CollectionModerationLogs))
		assert.Equal(t, 0, docs.Count(gateway.CollectionProducts))

		w = do(t, r, http.MethodGet, "/api/v1/admin/moderation-logs", "admin", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var out struct {
			Logs []struct {
				TargetID string `json:"targetId"`
				Reason   string `json:"reason"`
				AdminID  string `json:"adminId"`
			} `json:"logs"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
		require.Len(t, out.Logs, 1)
		assert.Equal(t, productID, out.Logs[0].TargetID)
		assert.Equal(t, "a1", out.Logs[0].AdminID)
	})

	t.Run("orphan log on delete failure", func(t *testing.T) {
		r, docs, productID := setupRouter(t)
		docs.FailNext(memory.OpDelete, gateway.CollectionProducts, errors.New("unavailable"))

		w := do(t, r, http.MethodDelete, "/api/v1/admin/products/"+productID, "admin", gin.H{"reason": "spam"})
		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, w.Body.String(), "logId")
		assert.Equal(t, 1, docs.Count(gateway.CollectionModerationLogs))
	})

	t.Run("unknown product", func(t *testing.T) {
		r, _, _ := setupRouter(t)
		w := do(t, r, http.MethodDelete, "/api/v1/admin/products/nope", "admin", gin.H{"reason": "spam"})
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteUser(t *testing.T) {
	r, docs, _ := setupRouter(t)

	w := do(t, r, http.MethodDelete, "/api/v1/admin/users/a1", "admin", gin.H{"reason": "fraude"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = do(t, r, http.MethodDelete, "/api/v1/admin/users/u1", "admin", gin.H{"reason": "fraude"})
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, 1, docs.Count(gateway.CollectionUsers))

	w = do(t, r, http.MethodGet, "/api/v1/admin/stats", "admin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var out struct {
		Stats service.Stats `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	assert.Equal(t, service.Stats{Products: 1, Users: 1, Admins: 1}, out.Stats)
}
