package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
)

const commentColumns = "id, task_id, user_id, text, created_at, updated_at"

func (r *Repository) CreateComment(ctx context.Context, comment *models.Comment) error {
	if comment.ID == "" {
		comment.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, r.db.Rebind(`
		INSERT INTO task_comments (`+commentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?)
	`), comment.ID, comment.TaskID, comment.UserID, comment.Text, comment.CreatedAt, comment.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *Repository) GetComment(ctx context.Context, id string) (*models.Comment, error) {
	comment := &models.Comment{}
	err := r.ro.GetContext(ctx, comment, r.ro.Rebind(`SELECT `+commentColumns+` FROM task_comments WHERE id = ?`), id)
	if err := getOne(err, "comment", id); err != nil {
		return nil, err
	}
	return comment, nil
}

func (r *Repository) UpdateComment(ctx context.Context, comment *models.Comment) error {
	comment.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE task_comments SET text = ?, updated_at = ? WHERE id = ?
	`), comment.Text, comment.UpdatedAt, comment.ID)
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	return affected(res, "comment", comment.ID)
}

func (r *Repository) DeleteComment(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM task_comments WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return affected(res, "comment", id)
}

// ListComments returns the task's comments, oldest first.
func (r *Repository) ListComments(ctx context.Context, taskID string) ([]models.Comment, error) {
	comments := []models.Comment{}
	err := r.ro.SelectContext(ctx, &comments, r.ro.Rebind(`
		SELECT `+commentColumns+` FROM task_comments WHERE task_id = ? ORDER BY created_at, id
	`), taskID)
	if err != nil {
		return nil, fmt.Errorf("list comments: %w", err)
	}
	return comments, nil
}
