package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
)

func perform(t *testing.T, handler gin.HandlerFunc) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/x", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestOK(t *testing.T) {
	w, body := perform(t, func(c *gin.Context) { OK(c, gin.H{"id": "1"}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "1", body["data"].(map[string]interface{})["id"])
	assert.NotContains(t, body, "message")
}

func TestCreated(t *testing.T) {
	w, body := perform(t, func(c *gin.Context) { Created(c, []string{"a"}) })
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, body["success"])
}

func TestError_AppError(t *testing.T) {
	w, body := perform(t, func(c *gin.Context) { Error(c, apperrors.NotFound("board")) })
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "board not found", body["message"])
	assert.NotContains(t, body, "data")
}

func TestError_UnknownErrorIsHidden(t *testing.T) {
	w, body := perform(t, func(c *gin.Context) { Error(c, errors.New("connection refused")) })
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "internal server error", body["message"])
}
