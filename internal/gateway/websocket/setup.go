package websocket

import (
	"github.com/gin-gonic/gin"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	ws "github.com/IsSact22/Gestion-tareas-sub001/pkg/websocket"
)

// Gateway bundles the hub, dispatcher and connection handler.
type Gateway struct {
	Hub        *Hub
	Dispatcher *ws.Dispatcher
	Handler    *Handler
	logger     *logger.Logger
}

func NewGateway(tokens TokenValidator, authorizer RoomAuthorizer, allowedOrigins []string, log *logger.Logger) *Gateway {
	dispatcher := ws.NewDispatcher()
	hub := NewHub(dispatcher, log)
	handler := NewHandler(hub, tokens, authorizer, allowedOrigins, log)

	RegisterHealthHandler(dispatcher)

	return &Gateway{
		Hub:        hub,
		Dispatcher: dispatcher,
		Handler:    handler,
		logger:     log,
	}
}

// SetupRoutes adds GET /ws.
func (g *Gateway) SetupRoutes(router gin.IRouter) {
	router.GET("/ws", g.Handler.HandleConnection)
}
