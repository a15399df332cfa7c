package websocket

import "github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"

// Provide creates the realtime gateway.
func Provide(tokens TokenValidator, authorizer RoomAuthorizer, allowedOrigins []string, log *logger.Logger) (*Gateway, error) {
	return NewGateway(tokens, authorizer, allowedOrigins, log), nil
}
