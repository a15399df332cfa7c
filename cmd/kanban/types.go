package main

import (
	"github.com/IsSact22/Gestion-tareas-sub001/internal/auth"
	notificationservice "github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/service"
	notificationstore "github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/store"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository"
	taskservice "github.com/IsSact22/Gestion-tareas-sub001/internal/task/service"
	userservice "github.com/IsSact22/Gestion-tareas-sub001/internal/user/service"
	userstore "github.com/IsSact22/Gestion-tareas-sub001/internal/user/store"
)

// Repositories groups the storage layers sharing one database pool.
type Repositories struct {
	Task          repository.Repository
	User          userstore.Repository
	Notifications notificationstore.Repository
}

// Services groups the domain services exposed over REST and WebSocket.
type Services struct {
	Task          *taskservice.Service
	User          *userservice.Service
	Notifications *notificationservice.Service
	Tokens        *auth.TokenManager
}
