package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/gabonshop/gabonshop-backend/internal/gateway"
	"github.com/gabonshop/gabonshop-backend/internal/gateway/memory"
	"github.com/gabonshop/gabonshop-backend/internal/identity"
	"github.com/gabonshop/gabonshop-backend/internal/identity/repository"
	"github.com/gabonshop/gabonshop-backend/internal/identity/service"
)

type authResponse struct {
	Session struct {
		UID     string `json:"uid"`
		IDToken string `json:"idToken"`
	} `json:"session"`
	User *struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Role  string `json:"role"`
		Phone string `json:"phone"`
	} `json:"user"`
	Warning string `json:"warning"`
	Error   string `json:"error"`
}

func setupRouter(t *testing.T) (*gin.Engine, *memory.Documents) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	docs := memory.NewDocuments()
	auth := memory.NewAuth()
	accounts := service.NewAccounts(auth, repository.NewProfileRepository(docs), validator.New(), zap.NewNop())

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(identity.Authenticate(accounts, zap.NewNop()))
	New(accounts, zap.NewNop()).Register(api.Group("/auth"))
	return r, docs
}

func do(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, authResponse) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var out authResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func registration() gin.H {
	return gin.H{
		"name":            "Ada",
		"email":           "ada@example.com",
		"phone":           "077123456",
		"password":        "secret1",
		"confirmPassword": "secret1",
	}
}

func TestAuthFlow(t *testing.T) {
	r, _ := setupRouter(t)

	w, reg := do(t, r, http.MethodPost, "/api/v1/auth/register", "", registration())
	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, reg.User)
	assert.Equal(t, "Ada", reg.User.Name)
	assert.Equal(t, "user", reg.User.Role)

	w, me := do(t, r, http.MethodGet, "/api/v1/auth/me", reg.Session.IDToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reg.Session.UID, me.User.ID)

	w, _ = do(t, r, http.MethodPost, "/api/v1/auth/logout", reg.Session.IDToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w, _ = do(t, r, http.MethodGet, "/api/v1/auth/me", reg.Session.IDToken, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, login := do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ada@example.com", "password": "secret1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, reg.Session.UID, login.Session.UID)

	w, bad := do(t, r, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ada@example.com", "password": "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Email ou mot de passe incorrect.", bad.Error)
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(b gin.H)
		wantCode int
		wantErr  string
	}{
		{
			name:     "password mismatch",
			mutate:   func(b gin.H) { b["confirmPassword"] = "other" },
			wantCode: http.StatusBadRequest,
			wantErr:  "Les mots de passe ne correspondent pas.",
		},
		{
			name:     "missing name",
			mutate:   func(b gin.H) { b["name"] = " " },
			wantCode: http.StatusBadRequest,
			wantErr:  "Le nom complet est obligatoire",
		},
		{
			name: "short password",
			mutate: func(b gin.H) {
				b["password"] = "abc"
				b["confirmPassword"] = "abc"
			},
			wantCode: http.StatusBadRequest,
			wantErr:  "Le mot de passe doit contenir au moins 6 caractères.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, docs := setupRouter(t)
			body := registration()
			tt.mutate(body)

			w, out := do(t, r, http.MethodPost, "/api/v1/auth/register", "", body)
			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantErr, out.Error)
			assert.Empty(t, docs.Writes())
		})
	}

	t.Run("email in use", func(t *testing.T) {
		r, _ := setupRouter(t)
		w, _ := do(t, r, http.MethodPost, "/api/v1/auth/register", "", registration())
		require.Equal(t, http.StatusCreated, w.Code)

		w, out := do(t, r, http.MethodPost, "/api/v1/auth/register", "", registration())
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, "Cet email est déjà utilisé.", out.Error)
	})
}

func TestRegister_ProfileWriteFailure(t *testing.T) {
	r, docs := setupRouter(t)
	docs.FailNext(memory.OpSet, gateway.CollectionUsers, errors.New("permission denied"))

	w, out := do(t, r, http.MethodPost, "/api/v1/auth/register", "", registration())
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, out.Warning)
	require.NotNil(t, out.User)
	assert.Equal(t, "user", out.User.Role)
	assert.Empty(t, out.User.Phone)

	w, me := do(t, r, http.MethodGet, "/api/v1/auth/me", out.Session.IDToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user", me.User.Role)
}
