package main

import (
	"github.com/IsSact22/Gestion-tareas-sub001/internal/auth"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/config"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events/bus"
	notificationservice "github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/service"
	taskservice "github.com/IsSact22/Gestion-tareas-sub001/internal/task/service"
	userservice "github.com/IsSact22/Gestion-tareas-sub001/internal/user/service"
)

func provideServices(cfg *config.Config, repos *Repositories, eventBus bus.EventBus, log *logger.Logger) *Services {
	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.Issuer, cfg.Auth.TokenDurationTime())
	hasher := auth.NewPasswordHasher(cfg.Auth.BcryptCost)

	userSvc := userservice.NewService(repos.User, tokens, hasher, log)
	notificationSvc := notificationservice.NewService(repos.Notifications, eventBus, log)
	taskSvc := taskservice.NewService(repos.Task, eventBus, userSvc, notificationSvc, log)

	return &Services{
		Task:          taskSvc,
		User:          userSvc,
		Notifications: notificationSvc,
		Tokens:        tokens,
	}
}
