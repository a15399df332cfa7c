// Package store persists user accounts.
package store

import (
	"context"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/user/models"
)

// Repository is the user storage contract. Lookups return a wrapped
// errors.ErrNotFound for missing rows.
type Repository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUsers(ctx context.Context, ids []string) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
}
