// Package service implements workspaces, boards, columns, tasks, comments
// and activities on top of the task repository.
package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events/bus"
	notificationmodels "github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository"
)

const defaultColumnColor = "#6b7280"

// UserDirectory checks that referenced users exist.
type UserDirectory interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// Notifier delivers a notification to one user.
type Notifier interface {
	Notify(ctx context.Context, n *notificationmodels.Notification) error
}

// Service provides board domain operations. Every method takes the id of
// the acting user and enforces membership itself.
type Service struct {
	repo     repository.Repository
	eventBus bus.EventBus
	users    UserDirectory
	notifier Notifier
	logger   *logger.Logger
}

// NewService creates a task service. eventBus, users and notifier may be nil.
func NewService(repo repository.Repository, eventBus bus.EventBus, users UserDirectory, notifier Notifier, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		users:    users,
		notifier: notifier,
		logger:   log.WithFields(zap.String("component", "task-service")),
	}
}
