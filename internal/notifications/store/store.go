// Package store persists notifications.
package store

import (
	"context"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/models"
)

// ListOptions pages through a user's notifications.
type ListOptions struct {
	UnreadOnly bool
	Limit      int
	Offset     int
}

// Repository stores notifications. Every operation is scoped to the owning
// user: a notification of someone else behaves as missing.
type Repository interface {
	Create(ctx context.Context, n *models.Notification) error
	List(ctx context.Context, userID string, opts ListOptions) ([]*models.Notification, error)
	MarkRead(ctx context.Context, userID, id string) (*models.Notification, error)
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	Delete(ctx context.Context, userID, id string) error
}
