package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/config"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db/dbtest"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events/bus"
	gateways "github.com/IsSact22/Gestion-tareas-sub001/internal/gateway/websocket"
	ws "github.com/IsSact22/Gestion-tareas-sub001/pkg/websocket"
)

type app struct {
	t      *testing.T
	server *httptest.Server
	hub    *gateways.Hub
}

func newApp(t *testing.T) *app {
	return newAppWithPrefix(t, "/api")
}

func newAppWithPrefix(t *testing.T, apiPrefix string) *app {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := logger.NewNop()

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:     "integration-secret",
			Issuer:        "kanban",
			TokenDuration: 3600,
			BcryptCost:    bcrypt.MinCost,
		},
	}

	eventBus := bus.NewMemoryEventBus(log)
	svcs := provideServices(cfg, newRepositories(dbtest.NewSQLitePool(t)), eventBus, log)

	ctx, cancel := context.WithCancel(context.Background())
	gateway, err := provideGateway(ctx, svcs, eventBus, nil, log)
	require.NoError(t, err)
	go gateway.Hub.Run(ctx)

	server := httptest.NewServer(corsHandler(nil, newRouter(svcs, gateway, apiPrefix, log)))
	t.Cleanup(func() {
		server.Close()
		cancel()
		eventBus.Close()
	})
	return &app{t: t, server: server, hub: gateway.Hub}
}

// call performs a JSON request and returns the decoded data of the envelope.
func (a *app) call(method, path, token string, body interface{}, wantStatus int) map[string]interface{} {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(a.t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	require.Equal(a.t, wantStatus, resp.StatusCode, "%s %s", method, path)

	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
		Message string                 `json:"message"`
	}
	require.NoError(a.t, json.NewDecoder(resp.Body).Decode(&envelope))
	return envelope.Data
}

func (a *app) register(name string) (string, string) {
	a.t.Helper()
	data := a.call(http.MethodPost, "/api/auth/register", "", map[string]string{
		"name":     name,
		"email":    strings.ToLower(name) + "@example.com",
		"password": "secret123",
	}, http.StatusCreated)
	user := data["user"].(map[string]interface{})
	return user["id"].(string), data["token"].(string)
}

type wsClient struct {
	t        *testing.T
	conn     *gorillaws.Conn
	messages chan *ws.Message
}

func (a *app) dial(token string) *wsClient {
	a.t.Helper()
	url := "ws" + strings.TrimPrefix(a.server.URL, "http") + "/ws?token=" + token
	conn, _, err := gorillaws.DefaultDialer.Dial(url, nil)
	require.NoError(a.t, err)
	a.t.Cleanup(func() { _ = conn.Close() })

	c := &wsClient{t: a.t, conn: conn, messages: make(chan *ws.Message, 64)}
	go func() {
		defer close(c.messages)
		for {
			var msg ws.Message
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			c.messages <- &msg
		}
	}()
	return c
}

func (c *wsClient) send(action string, payload interface{}) {
	c.t.Helper()
	msg, err := ws.NewRequest("req-"+action, action, payload)
	require.NoError(c.t, err)
	require.NoError(c.t, c.conn.WriteJSON(msg))
}

func (c *wsClient) expect(action string) *ws.Message {
	c.t.Helper()
	timeout := time.After(2 * time.Second)
	for {
		select {
		case msg, ok := <-c.messages:
			if !ok {
				c.t.Fatalf("connection closed while waiting for %s", action)
			}
			if msg.Action == action {
				return msg
			}
		case <-timeout:
			c.t.Fatalf("timed out waiting for %s", action)
			return nil
		}
	}
}

func (c *wsClient) expectNone(action string, wait time.Duration) {
	c.t.Helper()
	timeout := time.After(wait)
	for {
		select {
		case msg, ok := <-c.messages:
			if !ok {
				return
			}
			if msg.Action == action {
				c.t.Fatalf("unexpected %s", action)
			}
		case <-timeout:
			return
		}
	}
}

func TestHealth(t *testing.T) {
	a := newApp(t)

	resp, err := http.Get(a.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))
}

func TestAPI_RequiresToken(t *testing.T) {
	a := newApp(t)
	a.call(http.MethodGet, "/api/workspaces", "", nil, http.StatusUnauthorized)
	a.call(http.MethodGet, "/api/workspaces", "not-a-token", nil, http.StatusUnauthorized)
}

func TestRootPrefix_ServesRESTAtRoot(t *testing.T) {
	a := newAppWithPrefix(t, "")

	data := a.call(http.MethodPost, "/auth/register", "", map[string]string{
		"name":     "Carol",
		"email":    "carol@example.com",
		"password": "secret123",
	}, http.StatusCreated)
	token := data["token"].(string)

	workspace := a.call(http.MethodPost, "/workspaces", token,
		map[string]string{"name": "Root"}, http.StatusCreated)
	assert.NotEmpty(t, workspace["id"])

	deleted := a.call(http.MethodDelete, "/workspaces/"+workspace["id"].(string), token, nil, http.StatusOK)
	assert.Equal(t, workspace["id"], deleted["id"])

	resp, err := http.Get(a.server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestTaskMove_BroadcastsToBoardRoom(t *testing.T) {
	a := newApp(t)
	_, aliceToken := a.register("Alice")
	_, bobToken := a.register("Bob")

	workspace := a.call(http.MethodPost, "/api/workspaces", aliceToken,
		map[string]string{"name": "Product"}, http.StatusCreated)
	board := a.call(http.MethodPost, "/api/boards", aliceToken,
		map[string]string{"workspace_id": workspace["id"].(string), "name": "Roadmap"}, http.StatusCreated)
	boardID := board["id"].(string)

	todo := a.call(http.MethodPost, "/api/columns", aliceToken,
		map[string]string{"board_id": boardID, "name": "To do"}, http.StatusCreated)
	done := a.call(http.MethodPost, "/api/columns", aliceToken,
		map[string]string{"board_id": boardID, "name": "Done"}, http.StatusCreated)
	task := a.call(http.MethodPost, "/api/tasks", aliceToken,
		map[string]string{"column_id": todo["id"].(string), "title": "Ship it"}, http.StatusCreated)

	alice := a.dial(aliceToken)
	alice.send(ws.ActionJoinBoard, map[string]string{"board_id": boardID})
	joined := alice.expect(ws.ActionJoinBoard)
	require.Equal(t, ws.MessageTypeResponse, joined.Type)

	bob := a.dial(bobToken)
	bob.send(ws.ActionJoinBoard, map[string]string{"board_id": boardID})
	rejected := bob.expect(ws.ActionJoinBoard)
	require.Equal(t, ws.MessageTypeError, rejected.Type)

	a.call(http.MethodPost, "/api/tasks/"+task["id"].(string)+"/move", aliceToken,
		map[string]interface{}{"column_id": done["id"].(string), "position": 0}, http.StatusOK)

	moved := alice.expect(ws.ActionTaskMoved)
	var payload map[string]interface{}
	require.NoError(t, moved.ParsePayload(&payload))
	assert.Equal(t, task["id"], payload["task_id"])
	assert.Equal(t, done["id"], payload["column_id"])
	assert.Equal(t, todo["id"], payload["from_column_id"])

	bob.expectNone(ws.ActionTaskMoved, 200*time.Millisecond)
}

func TestBoardInvitation_ReachesUserRoom(t *testing.T) {
	a := newApp(t)
	_, aliceToken := a.register("Alice")
	bobID, bobToken := a.register("Bob")

	bob := a.dial(bobToken)
	require.Eventually(t, func() bool { return a.hub.RoomSize(gateways.UserRoom(bobID)) == 1 },
		2*time.Second, 10*time.Millisecond)

	workspace := a.call(http.MethodPost, "/api/workspaces", aliceToken,
		map[string]string{"name": "Ops"}, http.StatusCreated)
	board := a.call(http.MethodPost, "/api/boards", aliceToken,
		map[string]string{"workspace_id": workspace["id"].(string), "name": "Incidents"}, http.StatusCreated)
	a.call(http.MethodPost, "/api/boards/"+board["id"].(string)+"/members", aliceToken,
		map[string]string{"user_id": bobID, "role": "member"}, http.StatusCreated)

	bob.expect(ws.ActionNotification)
}
