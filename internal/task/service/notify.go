package service

import (
	"context"

	"go.uber.org/zap"

	notificationmodels "github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/models"
)

// notify sends n unless the recipient is the actor. Failures are logged.
func (s *Service) notify(ctx context.Context, actorID string, n *notificationmodels.Notification) {
	if s.notifier == nil || n.UserID == "" || n.UserID == actorID {
		return
	}
	n.Data.FromUserID = actorID
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("failed to send notification",
			zap.String("type", string(n.Type)),
			zap.String("user_id", n.UserID),
			zap.Error(err))
	}
}
