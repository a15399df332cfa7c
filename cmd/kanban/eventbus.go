package main

import (
	"go.uber.org/zap"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/config"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events/bus"
)

func provideEventBus(cfg *config.Config, log *logger.Logger) (bus.EventBus, func() error, error) {
	provided, cleanup, err := events.Provide(cfg, log)
	if err != nil {
		return nil, nil, err
	}
	if provided.NATS != nil {
		log.Info("Connected to NATS event bus", zap.String("url", cfg.NATS.URL))
	} else {
		log.Info("Using in-memory event bus")
	}
	return provided.Bus, cleanup, nil
}
