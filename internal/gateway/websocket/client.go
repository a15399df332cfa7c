package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	ws "github.com/IsSact22/Gestion-tareas-sub001/pkg/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 64 * 1024

	sendBufferSize = 256
)

// RoomAuthorizer decides whether a user may join a board or workspace room.
type RoomAuthorizer interface {
	CanAccessBoard(ctx context.Context, boardID, userID string) (bool, error)
	CanAccessWorkspace(ctx context.Context, workspaceID, userID string) (bool, error)
}

// Client represents a single authenticated WebSocket connection.
type Client struct {
	ID     string
	UserID string

	conn       *websocket.Conn
	hub        *Hub
	authorizer RoomAuthorizer
	send       chan []byte
	rooms      map[string]bool // guarded by hub.mu
	expiresAt  time.Time       // token expiry, zero when unknown

	mu     sync.Mutex
	closed bool
	logger *logger.Logger
}

func NewClient(id, userID string, conn *websocket.Conn, hub *Hub, authorizer RoomAuthorizer, log *logger.Logger) *Client {
	return &Client{
		ID:         id,
		UserID:     userID,
		conn:       conn,
		hub:        hub,
		authorizer: authorizer,
		send:       make(chan []byte, sendBufferSize),
		rooms:      make(map[string]bool),
		logger:     log.WithFields(zap.String("client_id", id), zap.String("user_id", userID)),
	}
}

// enqueue queues data without blocking. It reports false when the buffer
// is full or the client is gone.
func (c *Client) enqueue(data []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		return false
	}
}

func (c *Client) closeSend() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// ReadPump pumps messages from the WebSocket connection to the hub.
func (c *Client) ReadPump(ctx context.Context) {
	defer func() {
		c.hub.Unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Warn("WebSocket read error", zap.Error(err))
			}
			return
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			c.sendError("", "", ws.ErrorCodeBadRequest, "Invalid message format", nil)
			continue
		}
		if c.tokenExpired(time.Now()) {
			c.sendError(msg.ID, msg.Action, ws.ErrorCodeUnauthorized, "token expired", nil)
			return
		}
		c.handleMessage(ctx, &msg)
	}
}

func (c *Client) handleMessage(ctx context.Context, msg *ws.Message) {
	c.logger.Debug("Received message",
		zap.String("action", msg.Action),
		zap.String("id", msg.ID))

	// Room actions need the client itself.
	switch msg.Action {
	case ws.ActionJoinBoard:
		c.handleJoinBoard(ctx, msg)
		return
	case ws.ActionLeaveBoard:
		c.handleLeaveBoard(msg)
		return
	case ws.ActionJoinWorkspace:
		c.handleJoinWorkspace(ctx, msg)
		return
	case ws.ActionLeaveWorkspace:
		c.handleLeaveWorkspace(msg)
		return
	}

	response, err := c.hub.dispatcher.Dispatch(ctx, msg)
	if err != nil {
		c.logger.Error("Handler error",
			zap.String("action", msg.Action),
			zap.Error(err))
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeInternalError, err.Error(), nil)
		return
	}
	if response != nil {
		c.sendMessage(response)
	}
}

type boardRoomRequest struct {
	BoardID string `json:"board_id"`
}

type workspaceRoomRequest struct {
	WorkspaceID string `json:"workspace_id"`
}

func (c *Client) handleJoinBoard(ctx context.Context, msg *ws.Message) {
	var req boardRoomRequest
	if err := msg.ParsePayload(&req); err != nil {
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeBadRequest, "Invalid payload: "+err.Error(), nil)
		return
	}
	if req.BoardID == "" {
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeValidation, "board_id is required", nil)
		return
	}
	if !c.authorize(msg, func() (bool, error) {
		return c.authorizer.CanAccessBoard(ctx, req.BoardID, c.UserID)
	}) {
		return
	}

	c.hub.Join(c, BoardRoom(req.BoardID))
	c.respond(msg, map[string]interface{}{"success": true, "board_id": req.BoardID})
	c.hub.notifyPresence(ws.ActionUserJoined, req.BoardID, c)
}

func (c *Client) handleLeaveBoard(msg *ws.Message) {
	var req boardRoomRequest
	if err := msg.ParsePayload(&req); err != nil || req.BoardID == "" {
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeValidation, "board_id is required", nil)
		return
	}
	wasMember := c.hub.Leave(c, BoardRoom(req.BoardID))
	c.respond(msg, map[string]interface{}{"success": true, "board_id": req.BoardID})
	if wasMember {
		c.hub.notifyPresence(ws.ActionUserLeft, req.BoardID, c)
	}
}

func (c *Client) handleJoinWorkspace(ctx context.Context, msg *ws.Message) {
	var req workspaceRoomRequest
	if err := msg.ParsePayload(&req); err != nil {
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeBadRequest, "Invalid payload: "+err.Error(), nil)
		return
	}
	if req.WorkspaceID == "" {
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeValidation, "workspace_id is required", nil)
		return
	}
	if !c.authorize(msg, func() (bool, error) {
		return c.authorizer.CanAccessWorkspace(ctx, req.WorkspaceID, c.UserID)
	}) {
		return
	}

	c.hub.Join(c, WorkspaceRoom(req.WorkspaceID))
	c.respond(msg, map[string]interface{}{"success": true, "workspace_id": req.WorkspaceID})
}

func (c *Client) handleLeaveWorkspace(msg *ws.Message) {
	var req workspaceRoomRequest
	if err := msg.ParsePayload(&req); err != nil || req.WorkspaceID == "" {
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeValidation, "workspace_id is required", nil)
		return
	}
	c.hub.Leave(c, WorkspaceRoom(req.WorkspaceID))
	c.respond(msg, map[string]interface{}{"success": true, "workspace_id": req.WorkspaceID})
}

func (c *Client) tokenExpired(now time.Time) bool {
	return !c.expiresAt.IsZero() && now.After(c.expiresAt)
}

// canAccess asks the authorizer whether the client's user may read room.
func (c *Client) canAccess(ctx context.Context, room string) (bool, error) {
	if c.authorizer == nil {
		return true, nil
	}
	if id, ok := strings.CutPrefix(room, roomBoardPrefix); ok {
		return c.authorizer.CanAccessBoard(ctx, id, c.UserID)
	}
	if id, ok := strings.CutPrefix(room, roomWorkspacePrefix); ok {
		return c.authorizer.CanAccessWorkspace(ctx, id, c.UserID)
	}
	return true, nil
}

// authorize runs check and answers FORBIDDEN or INTERNAL_ERROR on failure.
func (c *Client) authorize(msg *ws.Message, check func() (bool, error)) bool {
	if c.authorizer == nil {
		return true
	}
	ok, err := check()
	if err != nil {
		c.logger.Error("room authorization failed", zap.String("action", msg.Action), zap.Error(err))
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeInternalError, "authorization failed", nil)
		return false
	}
	if !ok {
		c.sendError(msg.ID, msg.Action, ws.ErrorCodeForbidden, "not a member", nil)
		return false
	}
	return true
}

func (c *Client) respond(msg *ws.Message, payload map[string]interface{}) {
	resp, err := ws.NewResponse(msg.ID, msg.Action, payload)
	if err != nil {
		c.logger.Error("Failed to create response", zap.Error(err))
		return
	}
	c.sendMessage(resp)
}

func (c *Client) sendMessage(msg *ws.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		c.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}
	if !c.enqueue(data) {
		c.logger.Warn("Client send buffer full")
	}
}

func (c *Client) sendError(id, action, code, message string, details map[string]interface{}) {
	msg, err := ws.NewError(id, action, code, message, details)
	if err != nil {
		c.logger.Error("Failed to create error message", zap.Error(err))
		return
	}
	c.sendMessage(msg)
}

// WritePump pumps queued frames to the connection, one message per frame,
// and pings the peer.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
