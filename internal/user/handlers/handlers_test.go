package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/auth"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db/dbtest"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/user/service"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/user/store"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := auth.NewTokenManager("handlers-test-secret-0123456789abc", "kanban", time.Hour)
	svc := service.NewService(store.NewSQLRepository(dbtest.NewSQLitePool(t)), tokens, auth.NewPasswordHasher(bcrypt.MinCost), logger.NewNop())

	router := gin.New()
	RegisterRoutes(router.Group("/api"), svc, auth.RequireAuth(tokens), logger.NewNop())
	return router
}

func do(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) (int, envelope) {
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
	router.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return w.Code, env
}

func TestAuthFlow(t *testing.T) {
	router := newRouter(t)

	status, env := do(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Ada", "email": "ada@example.com", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, status)
	require.True(t, env.Success)

	var registered struct {
		User  map[string]interface{} `json:"user"`
		Token string                 `json:"token"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &registered))
	assert.NotEmpty(t, registered.Token)
	assert.Equal(t, "ada@example.com", registered.User["email"])
	assert.NotContains(t, registered.User, "password_hash")
	assert.NotContains(t, registered.User, "_id")

	status, env = do(t, router, http.MethodPost, "/api/auth/register", "", gin.H{
		"name": "Other", "email": "ada@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "email already registered", env.Message)

	status, env = do(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ada@example.com", "password": "bad-password",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "invalid credentials", env.Message)

	status, _ = do(t, router, http.MethodPost, "/api/auth/login", "", gin.H{
		"email": "ada@example.com", "password": "secret1",
	})
	assert.Equal(t, http.StatusOK, status)

	status, env = do(t, router, http.MethodGet, "/api/auth/me", registered.Token, nil)
	require.Equal(t, http.StatusOK, status)
	var me map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, registered.User["id"], me["id"])

	status, env = do(t, router, http.MethodPut, "/api/auth/me", registered.Token, gin.H{"name": "Ada L."})
	require.Equal(t, http.StatusOK, status)
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "Ada L.", me["name"])

	status, _ = do(t, router, http.MethodGet, "/api/users?email=ADA@example.com", registered.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, _ = do(t, router, http.MethodGet, "/api/users?email=nobody@example.com", registered.Token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestMe_RequiresToken(t *testing.T) {
	router := newRouter(t)

	status, env := do(t, router, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)

	status, _ = do(t, router, http.MethodGet, "/api/auth/me", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}
