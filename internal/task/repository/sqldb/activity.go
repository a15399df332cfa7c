package sqldb

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository"
)

const (
	activityColumns      = "id, user_id, action, entity_type, entity_id, board_id, details, created_at"
	defaultActivityLimit = 50
	maxActivityLimit     = 200
)

func (r *Repository) CreateActivity(ctx context.Context, activity *models.Activity) error {
	if activity.ID == "" {
		activity.ID = uuid.New().String()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = time.Now().UTC()
	}
	if activity.Details == nil {
		activity.Details = models.JSONMap{}
	}
	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO activities (`+activityColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), activity.ID, activity.UserID, activity.Action, activity.EntityType, activity.EntityID,
		activity.BoardID, activity.Details, activity.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert activity: %w", err)
	}
	return nil
}

// ListActivities returns matching activities, newest first.
func (r *Repository) ListActivities(ctx context.Context, filter repository.ActivityFilter) ([]*models.Activity, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	if limit > maxActivityLimit {
		limit = maxActivityLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	q := r.builder().
		Select(activityColumns).
		From("activities").
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		Offset(uint64(offset))
	if filter.BoardID != "" {
		q = q.Where(sq.Eq{"board_id": filter.BoardID})
	}
	if filter.UserID != "" {
		q = q.Where(sq.Eq{"user_id": filter.UserID})
	}
	if filter.EntityType != "" {
		q = q.Where(sq.Eq{"entity_type": filter.EntityType})
	}
	if filter.EntityID != "" {
		q = q.Where(sq.Eq{"entity_id": filter.EntityID})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	activities := []*models.Activity{}
	if err := r.ro.SelectContext(ctx, &activities, query, args...); err != nil {
		return nil, fmt.Errorf("list activities: %w", err)
	}
	return activities, nil
}
