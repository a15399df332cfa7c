package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db/dialect"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/models"
)

const (
	notificationColumns = "id, user_id, type, title, message, data, is_read, link, created_at"
	defaultListLimit    = 20
	maxListLimit        = 100
)

type SQLRepository struct {
	db *sqlx.DB
	ro *sqlx.DB
}

var _ Repository = (*SQLRepository)(nil)

func NewSQLRepository(pool *db.Pool) *SQLRepository {
	return &SQLRepository{db: pool.Writer(), ro: pool.Reader()}
}

func (r *SQLRepository) Create(ctx context.Context, n *models.Notification) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO notifications (`+notificationColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`), n.ID, n.UserID, n.Type, n.Title, n.Message, n.Data, n.Read, n.Link, n.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert notification: %w", err)
	}
	return nil
}

// List returns the user's notifications, newest first.
func (r *SQLRepository) List(ctx context.Context, userID string, opts ListOptions) ([]*models.Notification, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	q := dialect.Builder(r.ro.DriverName()).
		Select(notificationColumns).
		From("notifications").
		Where("user_id = ?", userID).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if opts.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	out := []*models.Notification{}
	if err := r.ro.SelectContext(ctx, &out, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	return out, nil
}

func (r *SQLRepository) MarkRead(ctx context.Context, userID, id string) (*models.Notification, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE notifications SET is_read = ? WHERE id = ? AND user_id = ?
	`), true, id, userID)
	if err != nil {
		return nil, fmt.Errorf("mark notification read: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, fmt.Errorf("notification %s: %w", id, apperrors.ErrNotFound)
	}

	var out models.Notification
	err = r.db.GetContext(ctx, &out, r.db.Rebind(`SELECT `+notificationColumns+` FROM notifications WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("notification %s: %w", id, apperrors.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get notification: %w", err)
	}
	return &out, nil
}

func (r *SQLRepository) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE notifications SET is_read = ? WHERE user_id = ? AND is_read = ?
	`), true, userID, false)
	if err != nil {
		return 0, fmt.Errorf("mark all read: %w", err)
	}
	return res.RowsAffected()
}

func (r *SQLRepository) CountUnread(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.ro.GetContext(ctx, &count, r.ro.Rebind(`
		SELECT COUNT(1) FROM notifications WHERE user_id = ? AND is_read = ?
	`), userID, false)
	if err != nil {
		return 0, fmt.Errorf("count unread: %w", err)
	}
	return count, nil
}

func (r *SQLRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM notifications WHERE id = ? AND user_id = ?
	`), id, userID)
	if err != nil {
		return fmt.Errorf("delete notification: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("notification %s: %w", id, apperrors.ErrNotFound)
	}
	return nil
}
