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

	"github.com/IsSact22/Gestion-tareas-sub001/internal/auth"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db/dbtest"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository/sqldb"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/service"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type testAPI struct {
	t      *testing.T
	router *gin.Engine
	tokens *auth.TokenManager
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()
	tokens := auth.NewTokenManager("task-handlers-secret-0123456789abcdef", "kanban", time.Hour)
	svc := service.NewService(sqldb.NewWithPool(dbtest.NewSQLitePool(t)), nil, nil, nil, log)

	router := gin.New()
	api := router.Group("/api", auth.RequireAuth(tokens))
	RegisterWorkspaceRoutes(api, svc, log)
	RegisterBoardRoutes(api, svc, log)
	RegisterColumnRoutes(api, svc, log)
	RegisterTaskRoutes(api, svc, log)
	return &testAPI{t: t, router: router, tokens: tokens}
}

func (a *testAPI) do(method, path, userID string, body interface{}) (int, envelope) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		token, err := a.tokens.Generate(userID, "member")
		require.NoError(a.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	require.NoError(a.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

// create posts body and returns the "id" of the created resource.
func (a *testAPI) create(path, userID string, body interface{}) string {
	a.t.Helper()
	status, env := a.do(http.MethodPost, path, userID, body)
	require.Equal(a.t, http.StatusCreated, status, env.Message)
	var out struct {
		ID string `json:"id"`
	}
	require.NoError(a.t, json.Unmarshal(env.Data, &out))
	return out.ID
}

func decode(t *testing.T, env envelope, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func TestRequiresAuth(t *testing.T) {
	api := newTestAPI(t)
	status, env := api.do(http.MethodGet, "/api/workspaces", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
}

func TestWorkspaceOwnerRemovalRejected(t *testing.T) {
	api := newTestAPI(t)
	wsID := api.create("/api/workspaces", "owner", gin.H{"name": "Team"})

	status, env := api.do(http.MethodDelete, "/api/workspaces/"+wsID+"/members/owner", "owner", nil)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, "cannot remove the workspace owner", env.Message)

	status, env = api.do(http.MethodGet, "/api/workspaces/"+wsID+"/members", "owner", nil)
	require.Equal(t, http.StatusOK, status)
	var members []map[string]interface{}
	decode(t, env, &members)
	require.Len(t, members, 1)
	assert.Equal(t, "owner", members[0]["user_id"])
	assert.Equal(t, "admin", members[0]["role"])

	status, _ = api.do(http.MethodGet, "/api/workspaces/"+wsID, "stranger", nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestColumnLifecycleAndReorder(t *testing.T) {
	api := newTestAPI(t)
	wsID := api.create("/api/workspaces", "owner", gin.H{"name": "Team"})
	boardID := api.create("/api/boards", "owner", gin.H{"workspace_id": wsID, "name": "Sprint"})

	a := api.create("/api/columns", "owner", gin.H{"board_id": boardID, "name": "Todo"})
	b := api.create("/api/columns", "owner", gin.H{"board_id": boardID, "name": "Doing"})
	c := api.create("/api/columns", "owner", gin.H{"board_id": boardID, "name": "Done", "color": "#10b981"})

	status, env := api.do(http.MethodPut, "/api/columns/reorder", "owner", gin.H{
		"board_id": boardID,
		"columns":  []gin.H{{"id": a, "position": 2}, {"id": c, "position": 0}},
	})
	require.Equal(t, http.StatusOK, status, env.Message)
	var columns []struct {
		ID       string `json:"id"`
		Position int    `json:"position"`
		Color    string `json:"color"`
	}
	decode(t, env, &columns)
	require.Len(t, columns, 3)
	assert.Equal(t, []string{c, b, a}, []string{columns[0].ID, columns[1].ID, columns[2].ID})
	assert.Equal(t, "#10b981", columns[0].Color)
	assert.Equal(t, "#6b7280", columns[1].Color)

	status, _ = api.do(http.MethodPut, "/api/columns/reorder", "owner", gin.H{
		"board_id": boardID,
		"columns":  []gin.H{{"id": "missing", "position": 0}},
	})
	assert.Equal(t, http.StatusNotFound, status)

	status, env = api.do(http.MethodDelete, "/api/columns/"+b, "owner", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
	assert.JSONEq(t, `{"id":"`+b+`"}`, string(env.Data))
	status, _ = api.do(http.MethodGet, "/api/columns/"+b, "owner", nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTaskMoveAndComments(t *testing.T) {
	api := newTestAPI(t)
	wsID := api.create("/api/workspaces", "owner", gin.H{"name": "Team"})
	boardID := api.create("/api/boards", "owner", gin.H{"workspace_id": wsID, "name": "Sprint"})
	todo := api.create("/api/columns", "owner", gin.H{"board_id": boardID, "name": "Todo"})
	done := api.create("/api/columns", "owner", gin.H{"board_id": boardID, "name": "Done"})

	taskID := api.create("/api/tasks", "owner", gin.H{"column_id": todo, "title": "Write docs", "tags": []string{"docs"}})
	api.create("/api/tasks", "owner", gin.H{"column_id": done, "title": "Already done"})

	status, env := api.do(http.MethodPost, "/api/tasks/"+taskID+"/move", "owner", gin.H{"column_id": done})
	require.Equal(t, http.StatusOK, status, env.Message)
	var moved struct {
		ColumnID string `json:"column_id"`
		Position int    `json:"position"`
		BoardID  string `json:"board_id"`
	}
	decode(t, env, &moved)
	assert.Equal(t, done, moved.ColumnID)
	assert.Equal(t, 1, moved.Position)
	assert.Equal(t, boardID, moved.BoardID)

	status, _ = api.do(http.MethodGet, "/api/tasks", "owner", nil)
	assert.Equal(t, http.StatusBadRequest, status)

	status, env = api.do(http.MethodGet, "/api/tasks?column_id="+done, "owner", nil)
	require.Equal(t, http.StatusOK, status)
	var tasks []map[string]interface{}
	decode(t, env, &tasks)
	assert.Len(t, tasks, 2)

	commentID := api.create("/api/tasks/"+taskID+"/comments", "owner", gin.H{"text": "first!"})
	status, env = api.do(http.MethodPut, "/api/tasks/"+taskID+"/comments/"+commentID, "owner", gin.H{"text": "edited"})
	require.Equal(t, http.StatusOK, status, env.Message)

	status, env = api.do(http.MethodGet, "/api/tasks/"+taskID, "owner", nil)
	require.Equal(t, http.StatusOK, status)
	var task struct {
		Comments []struct {
			Text string `json:"text"`
		} `json:"comments"`
		Tags     []string `json:"tags"`
		Priority string   `json:"priority"`
	}
	decode(t, env, &task)
	require.Len(t, task.Comments, 1)
	assert.Equal(t, "edited", task.Comments[0].Text)
	assert.Equal(t, []string{"docs"}, task.Tags)
	assert.Equal(t, "medium", task.Priority)

	status, env = api.do(http.MethodPut, "/api/tasks/"+taskID, "owner", gin.H{"due_date": "2026-12-01T09:00:00Z", "priority": "high"})
	require.Equal(t, http.StatusOK, status, env.Message)
	status, env = api.do(http.MethodPut, "/api/tasks/"+taskID, "owner", gin.H{"due_date": nil})
	require.Equal(t, http.StatusOK, status, env.Message)
	var cleared map[string]interface{}
	decode(t, env, &cleared)
	assert.Nil(t, cleared["due_date"])
	assert.Equal(t, "high", cleared["priority"])
}

func TestBoardActivities(t *testing.T) {
	api := newTestAPI(t)
	wsID := api.create("/api/workspaces", "owner", gin.H{"name": "Team"})
	boardID := api.create("/api/boards", "owner", gin.H{"workspace_id": wsID, "name": "Sprint"})
	api.create("/api/columns", "owner", gin.H{"board_id": boardID, "name": "Todo"})

	status, env := api.do(http.MethodGet, "/api/boards/"+boardID+"/activities?limit=1", "owner", nil)
	require.Equal(t, http.StatusOK, status)
	var list []map[string]interface{}
	decode(t, env, &list)
	assert.Len(t, list, 1)

	status, _ = api.do(http.MethodGet, "/api/boards?workspace_id="+wsID, "stranger", nil)
	assert.Equal(t, http.StatusForbidden, status)
}
