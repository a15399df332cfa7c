package websocket

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	gorillaws "github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/auth"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/response"
	ws "github.com/IsSact22/Gestion-tareas-sub001/pkg/websocket"
)

// TokenValidator checks the bearer token presented on connect.
type TokenValidator interface {
	Validate(token string) (*auth.Claims, error)
}

// Handler authenticates and upgrades WebSocket connections.
type Handler struct {
	hub        *Hub
	tokens     TokenValidator
	authorizer RoomAuthorizer
	upgrader   gorillaws.Upgrader
	logger     *logger.Logger
}

// NewHandler creates a handler. allowedOrigins empty or containing "*"
// accepts any origin.
func NewHandler(hub *Hub, tokens TokenValidator, authorizer RoomAuthorizer, allowedOrigins []string, log *logger.Logger) *Handler {
	return &Handler{
		hub:        hub,
		tokens:     tokens,
		authorizer: authorizer,
		upgrader: gorillaws.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		logger: log.WithFields(zap.String("component", "ws_handler")),
	}
}

func originChecker(allowed []string) func(r *http.Request) bool {
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || len(set) == 0 || set[origin]
	}
}

// HandleConnection validates ?token= or the Authorization header, then
// upgrades. Every socket joins its user room.
func (h *Handler) HandleConnection(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		token = auth.BearerToken(c.Request)
	}
	if token == "" {
		response.Fail(c, http.StatusUnauthorized, "missing token")
		return
	}
	claims, err := h.tokens.Validate(token)
	if err != nil {
		response.Fail(c, http.StatusUnauthorized, "invalid token")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed to upgrade connection", zap.Error(err))
		return
	}

	clientID := uuid.New().String()
	h.logger.Debug("WebSocket connection established",
		zap.String("client_id", clientID),
		zap.String("user_id", claims.UserID),
		zap.String("remote_addr", c.Request.RemoteAddr))

	client := NewClient(clientID, claims.UserID, conn, h.hub, h.authorizer, h.logger)
	client.expiresAt = claims.ExpiresAt
	h.hub.Register(client)
	h.hub.Join(client, UserRoom(claims.UserID))

	go client.WritePump()
	client.ReadPump(c.Request.Context())
}

// RegisterHealthHandler registers the health check handler
func RegisterHealthHandler(d *ws.Dispatcher) {
	d.RegisterFunc(ws.ActionHealthCheck, func(ctx context.Context, msg *ws.Message) (*ws.Message, error) {
		return ws.NewResponse(msg.ID, msg.Action, map[string]interface{}{
			"status":  "ok",
			"service": "kanban",
		})
	})
}
