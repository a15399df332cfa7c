package main

import (
	"context"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events/bus"
	gateways "github.com/IsSact22/Gestion-tareas-sub001/internal/gateway/websocket"
)

// provideGateway builds the realtime gateway and subscribes it to the bus.
// The caller runs gateway.Hub.
func provideGateway(ctx context.Context, svcs *Services, eventBus bus.EventBus, origins []string, log *logger.Logger) (*gateways.Gateway, error) {
	gateway, err := gateways.Provide(svcs.Tokens, svcs.Task, origins, log)
	if err != nil {
		return nil, err
	}
	gateways.RegisterEventNotifications(ctx, eventBus, gateway.Hub, log)
	return gateway, nil
}
