package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db/dbtest"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/models"
)

func seed(t *testing.T, repo *SQLRepository, userID, title string, at time.Time) *models.Notification {
	t.Helper()
	n := &models.Notification{
		UserID:    userID,
		Type:      models.TypeTaskAssigned,
		Title:     title,
		Data:      models.Data{BoardID: "b1", TaskID: "t1"},
		CreatedAt: at,
	}
	require.NoError(t, repo.Create(context.Background(), n))
	return n
}

func TestSQLRepository_ListNewestFirst(t *testing.T) {
	repo := NewSQLRepository(dbtest.NewSQLitePool(t))
	ctx := context.Background()
	base := time.Now().UTC().Add(-time.Hour)

	seed(t, repo, "u1", "old", base)
	seed(t, repo, "u1", "new", base.Add(time.Minute))
	seed(t, repo, "u2", "other", base)

	list, err := repo.List(ctx, "u1", ListOptions{})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "new", list[0].Title)
	assert.Equal(t, "b1", list[0].Data.BoardID)
	assert.False(t, list[0].Read)

	page, err := repo.List(ctx, "u1", ListOptions{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "old", page[0].Title)
}

func TestSQLRepository_ReadFlow(t *testing.T) {
	repo := NewSQLRepository(dbtest.NewSQLitePool(t))
	ctx := context.Background()
	now := time.Now().UTC()

	a := seed(t, repo, "u1", "a", now)
	seed(t, repo, "u1", "b", now)
	foreign := seed(t, repo, "u2", "c", now)

	count, err := repo.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	read, err := repo.MarkRead(ctx, "u1", a.ID)
	require.NoError(t, err)
	assert.True(t, read.Read)

	unread, err := repo.List(ctx, "u1", ListOptions{UnreadOnly: true})
	require.NoError(t, err)
	require.Len(t, unread, 1)
	assert.Equal(t, "b", unread[0].Title)

	_, err = repo.MarkRead(ctx, "u1", foreign.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "u1", foreign.ID), apperrors.ErrNotFound)

	n, err := repo.MarkAllRead(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	count, err = repo.CountUnread(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, repo.Delete(ctx, "u1", a.ID))
	list, err := repo.List(ctx, "u1", ListOptions{})
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
