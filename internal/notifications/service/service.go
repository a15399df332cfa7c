// Package service stores user notifications and pushes them over the event
// bus to the recipient's realtime room.
package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events/bus"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/store"
)

type Service struct {
	repo     store.Repository
	eventBus bus.EventBus
	logger   *logger.Logger
}

func NewService(repo store.Repository, eventBus bus.EventBus, log *logger.Logger) *Service {
	return &Service{
		repo:     repo,
		eventBus: eventBus,
		logger:   log.WithFields(zap.String("component", "notifications-service")),
	}
}

// Notify stores n and publishes notification.created for the recipient.
func (s *Service) Notify(ctx context.Context, n *models.Notification) error {
	if strings.TrimSpace(n.UserID) == "" {
		return apperrors.ValidationError("user_id", "is required")
	}
	if !n.Type.Valid() {
		return apperrors.ValidationError("type", "is invalid")
	}
	n.Read = false
	n.CreatedAt = time.Now().UTC()
	if err := s.repo.Create(ctx, n); err != nil {
		return apperrors.InternalError("failed to store notification", err)
	}
	s.publish(ctx, n)
	return nil
}

func (s *Service) publish(ctx context.Context, n *models.Notification) {
	if s.eventBus == nil {
		return
	}
	data := map[string]interface{}{
		"id":         n.ID,
		"user_id":    n.UserID,
		"type":       string(n.Type),
		"title":      n.Title,
		"message":    n.Message,
		"data":       n.Data,
		"read":       n.Read,
		"link":       n.Link,
		"created_at": n.CreatedAt.Format(time.RFC3339Nano),
	}
	event := bus.NewEvent(events.NotificationCreated, "notifications-service", data)
	if err := s.eventBus.Publish(ctx, events.NotificationCreated, event); err != nil {
		s.logger.Error("failed to publish notification event",
			zap.String("notification_id", n.ID),
			zap.Error(err))
	}
}

func (s *Service) List(ctx context.Context, userID string, opts store.ListOptions) ([]*models.Notification, error) {
	list, err := s.repo.List(ctx, userID, opts)
	if err != nil {
		return nil, apperrors.InternalError("failed to list notifications", err)
	}
	return list, nil
}

func (s *Service) MarkRead(ctx context.Context, userID, id string) (*models.Notification, error) {
	n, err := s.repo.MarkRead(ctx, userID, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "notification not found")
	}
	return n, nil
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.MarkAllRead(ctx, userID)
	if err != nil {
		return 0, apperrors.InternalError("failed to mark notifications read", err)
	}
	return n, nil
}

func (s *Service) UnreadCount(ctx context.Context, userID string) (int, error) {
	n, err := s.repo.CountUnread(ctx, userID)
	if err != nil {
		return 0, apperrors.InternalError("failed to count notifications", err)
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		return apperrors.Wrap(err, "notification not found")
	}
	return nil
}
