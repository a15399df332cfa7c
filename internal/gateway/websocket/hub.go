// Package websocket provides the realtime gateway: authenticated sockets,
// board/workspace/user rooms, and the relay from the event bus.
package websocket

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	ws "github.com/IsSact22/Gestion-tareas-sub001/pkg/websocket"
)

// Room name prefixes.
const (
	roomBoardPrefix     = "board:"
	roomWorkspacePrefix = "workspace:"
	roomUserPrefix      = "user:"
)

func BoardRoom(id string) string     { return roomBoardPrefix + id }
func WorkspaceRoom(id string) string { return roomWorkspacePrefix + id }
func UserRoom(id string) string      { return roomUserPrefix + id }

// Hub manages all WebSocket client connections and their rooms.
type Hub struct {
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	dispatcher *ws.Dispatcher

	mu     sync.RWMutex
	logger *logger.Logger
}

func NewHub(dispatcher *ws.Dispatcher, log *logger.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		dispatcher: dispatcher,
		logger:     log.WithFields(zap.String("component", "ws_hub")),
	}
}

// Run starts the hub's main processing loop. It returns when ctx is done.
func (h *Hub) Run(ctx context.Context) {
	h.logger.Info("WebSocket hub started")
	defer h.logger.Info("WebSocket hub stopped")
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAllClients()
			return

		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("Client registered",
				zap.String("client_id", client.ID),
				zap.String("user_id", client.UserID))

		case client := <-h.unregister:
			h.removeClient(client)
		}
	}
}

func (h *Hub) closeAllClients() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		client.closeSend()
		delete(h.clients, client)
	}
	h.rooms = make(map[string]map[*Client]bool)
}

// removeClient drops the client from every room and tells the remaining
// members of its board rooms that the user left.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, client)
	client.closeSend()

	var leftBoards []string
	for room := range client.rooms {
		h.leaveLocked(client, room)
		if strings.HasPrefix(room, roomBoardPrefix) {
			leftBoards = append(leftBoards, strings.TrimPrefix(room, roomBoardPrefix))
		}
	}
	h.mu.Unlock()

	for _, boardID := range leftBoards {
		h.notifyPresence(ws.ActionUserLeft, boardID, client)
	}
	h.logger.Debug("Client unregistered", zap.String("client_id", client.ID))
}

// Register adds a client to the hub. It blocks until the hub has seen it.
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// BroadcastToRooms delivers msg once to every client in any of rooms.
// Delivery is best effort: a client with a full buffer misses it.
func (h *Hub) BroadcastToRooms(msg *ws.Message, rooms ...string) {
	h.broadcastToRooms(msg, nil, rooms...)
}

func (h *Hub) broadcastToRooms(msg *ws.Message, except *Client, rooms ...string) {
	data, err := json.Marshal(msg)
	if err != nil {
		h.logger.Error("Failed to marshal message", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	sent := make(map[*Client]bool)
	for _, room := range rooms {
		for client := range h.rooms[room] {
			if client == except || sent[client] {
				continue
			}
			sent[client] = true
			if !client.enqueue(data) {
				h.logger.Debug("Dropped message for slow client",
					zap.String("client_id", client.ID),
					zap.String("action", msg.Action))
			}
		}
	}
}

// Join adds the client to room.
func (h *Hub) Join(client *Client, room string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.rooms[room]; !ok {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][client] = true
	client.rooms[room] = true

	h.logger.Debug("Client joined room",
		zap.String("client_id", client.ID),
		zap.String("room", room))
}

// Leave removes the client from room and reports whether it was there.
func (h *Hub) Leave(client *Client, room string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.leaveLocked(client, room)
}

func (h *Hub) leaveLocked(client *Client, room string) bool {
	_, was := client.rooms[room]
	delete(client.rooms, room)
	if clients, ok := h.rooms[room]; ok {
		delete(clients, client)
		if len(clients) == 0 {
			delete(h.rooms, room)
		}
	}
	return was
}

// RevokeStale re-checks the board and workspace rooms held by userID's
// sockets and drops every room the user can no longer read. It returns the
// number of memberships removed.
func (h *Hub) RevokeStale(ctx context.Context, userID string) int {
	type held struct {
		client *Client
		room   string
	}

	h.mu.RLock()
	var memberships []held
	for client := range h.clients {
		if client.UserID != userID {
			continue
		}
		for room := range client.rooms {
			if strings.HasPrefix(room, roomBoardPrefix) || strings.HasPrefix(room, roomWorkspacePrefix) {
				memberships = append(memberships, held{client: client, room: room})
			}
		}
	}
	h.mu.RUnlock()

	decided := make(map[string]bool, len(memberships))
	removed := 0
	for _, m := range memberships {
		ok, seen := decided[m.room]
		if !seen {
			var err error
			ok, err = m.client.canAccess(ctx, m.room)
			if err != nil {
				h.logger.Error("failed to re-check room access",
					zap.String("user_id", userID),
					zap.String("room", m.room),
					zap.Error(err))
				continue
			}
			decided[m.room] = ok
		}
		if ok || !h.Leave(m.client, m.room) {
			continue
		}
		removed++
		if boardID, isBoard := strings.CutPrefix(m.room, roomBoardPrefix); isBoard {
			h.notifyPresence(ws.ActionUserLeft, boardID, m.client)
		}
	}

	if removed > 0 {
		h.logger.Debug("Revoked room memberships",
			zap.String("user_id", userID),
			zap.Int("rooms", removed))
	}
	return removed
}

// notifyPresence sends user:joined or user:left to the other members of a
// board room.
func (h *Hub) notifyPresence(action, boardID string, client *Client) {
	msg, err := ws.NewNotification(action, map[string]interface{}{
		"board_id": boardID,
		"user_id":  client.UserID,
	})
	if err != nil {
		h.logger.Error("failed to build presence notification", zap.Error(err))
		return
	}
	h.broadcastToRooms(msg, client, BoardRoom(boardID))
}

// RoomSize returns the number of clients in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
