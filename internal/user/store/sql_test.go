package store

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db/dbtest"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/user/models"
)

func newUser(email string) *models.User {
	return &models.User{
		ID:           uuid.New().String(),
		Name:         "Ada",
		Email:        email,
		PasswordHash: "hash",
		Role:         models.RoleMember,
	}
}

func TestSQLRepository_CreateAndGet(t *testing.T) {
	repo := NewSQLRepository(dbtest.NewSQLitePool(t))
	ctx := context.Background()

	user := newUser("ada@example.com")
	require.NoError(t, repo.CreateUser(ctx, user))

	byID, err := repo.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", byID.Email)
	assert.Equal(t, "hash", byID.PasswordHash)
	assert.False(t, byID.CreatedAt.IsZero())

	byEmail, err := repo.GetUserByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)
}

func TestSQLRepository_DuplicateEmail(t *testing.T) {
	repo := NewSQLRepository(dbtest.NewSQLitePool(t))
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, newUser("dup@example.com")))
	err := repo.CreateUser(ctx, newUser("dup@example.com"))
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestSQLRepository_NotFound(t *testing.T) {
	repo := NewSQLRepository(dbtest.NewSQLitePool(t))
	ctx := context.Background()

	_, err := repo.GetUser(ctx, "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	err = repo.UpdateUser(ctx, &models.User{ID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestSQLRepository_GetUsersAndUpdate(t *testing.T) {
	repo := NewSQLRepository(dbtest.NewSQLitePool(t))
	ctx := context.Background()

	a := newUser("a@example.com")
	b := newUser("b@example.com")
	require.NoError(t, repo.CreateUser(ctx, a))
	require.NoError(t, repo.CreateUser(ctx, b))

	users, err := repo.GetUsers(ctx, []string{a.ID, b.ID, "ghost"})
	require.NoError(t, err)
	assert.Len(t, users, 2)

	empty, err := repo.GetUsers(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	a.Name = "Ada Lovelace"
	a.Avatar = "https://example.com/a.png"
	require.NoError(t, repo.UpdateUser(ctx, a))

	got, err := repo.GetUser(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", got.Name)
	assert.Equal(t, "https://example.com/a.png", got.Avatar)
}
