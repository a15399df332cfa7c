package sqldb

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository"
)

const taskColumns = "id, board_id, column_id, title, description, position, assignee_id, priority, due_date, tags, attachments, created_by, created_at, updated_at"

var taskSelectColumns = []string{
	"t.id", "t.board_id", "t.column_id", "t.title", "t.description", "t.position",
	"t.assignee_id", "t.priority", "t.due_date", "t.tags", "t.attachments",
	"t.created_by", "t.created_at", "t.updated_at",
}

// CreateTask appends the task to its column.
func (r *Repository) CreateTask(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.Priority == "" {
		task.Priority = models.PriorityMedium
	}
	if task.Tags == nil {
		task.Tags = models.StringList{}
	}
	if task.Attachments == nil {
		task.Attachments = models.AttachmentList{}
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	task.Comments = []models.Comment{}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &task.Position, tx.Rebind(`
			SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE column_id = ?
		`), task.ColumnID); err != nil {
			return fmt.Errorf("next task position: %w", err)
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO tasks (`+taskColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`), task.ID, task.BoardID, task.ColumnID, task.Title, task.Description, task.Position,
			task.AssigneeID, task.Priority, task.DueDate, task.Tags, task.Attachments,
			task.CreatedBy, task.CreatedAt, task.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert task: %w", err)
		}
		return nil
	})
}

// GetTask loads the task with its comments.
func (r *Repository) GetTask(ctx context.Context, id string) (*models.Task, error) {
	task := &models.Task{}
	err := r.ro.GetContext(ctx, task, r.ro.Rebind(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`), id)
	if err := getOne(err, "task", id); err != nil {
		return nil, err
	}
	comments, err := r.ListComments(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Comments = comments
	return task, nil
}

// UpdateTask saves the editable fields. Column and position change through
// MoveTask and SetTaskPosition.
func (r *Repository) UpdateTask(ctx context.Context, task *models.Task) error {
	task.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE tasks SET title = ?, description = ?, assignee_id = ?, priority = ?, due_date = ?,
			tags = ?, attachments = ?, updated_at = ?
		WHERE id = ?
	`), task.Title, task.Description, task.AssigneeID, task.Priority, task.DueDate,
		task.Tags, task.Attachments, task.UpdatedAt, task.ID)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	return affected(res, "task", task.ID)
}

func (r *Repository) DeleteTask(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM task_comments WHERE task_id = ?`), id); err != nil {
			return fmt.Errorf("delete task comments: %w", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM tasks WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete task: %w", err)
		}
		return affected(res, "task", id)
	})
}

// ListTasks returns matching tasks ordered by column position, then task
// position.
func (r *Repository) ListTasks(ctx context.Context, filter repository.TaskFilter) ([]*models.Task, error) {
	q := r.builder().
		Select(taskSelectColumns...).
		From("tasks t").
		LeftJoin("board_columns c ON c.id = t.column_id").
		OrderBy("c.position", "t.column_id", "t.position", "t.created_at")
	if filter.BoardID != "" {
		q = q.Where(sq.Eq{"t.board_id": filter.BoardID})
	}
	if filter.ColumnID != "" {
		q = q.Where(sq.Eq{"t.column_id": filter.ColumnID})
	}
	if filter.AssigneeID != "" {
		q = q.Where(sq.Eq{"t.assignee_id": filter.AssigneeID})
	}
	if filter.Priority != "" {
		q = q.Where(sq.Eq{"t.priority": filter.Priority})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	tasks := []*models.Task{}
	if err := r.ro.SelectContext(ctx, &tasks, query, args...); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	if err := r.attachComments(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *Repository) attachComments(ctx context.Context, tasks []*models.Task) error {
	if len(tasks) == 0 {
		return nil
	}
	ids := make([]string, 0, len(tasks))
	byID := make(map[string]*models.Task, len(tasks))
	for _, t := range tasks {
		ids = append(ids, t.ID)
		byID[t.ID] = t
		t.Comments = []models.Comment{}
	}
	query, args, err := r.builder().
		Select(commentColumns).
		From("task_comments").
		Where(sq.Eq{"task_id": ids}).
		OrderBy("created_at", "id").
		ToSql()
	if err != nil {
		return err
	}
	var comments []models.Comment
	if err := r.ro.SelectContext(ctx, &comments, query, args...); err != nil {
		return fmt.Errorf("list comments: %w", err)
	}
	for _, c := range comments {
		byID[c.TaskID].Comments = append(byID[c.TaskID].Comments, c)
	}
	return nil
}

// MoveTask sets the task's column and position. A nil position appends to
// the destination column. Neither column is renumbered.
func (r *Repository) MoveTask(ctx context.Context, id, columnID string, position *int) (*models.Task, error) {
	err := r.withTx(ctx, func(tx *sqlx.Tx) error {
		pos := 0
		if position != nil {
			pos = *position
		} else if err := tx.GetContext(ctx, &pos, tx.Rebind(`
			SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE column_id = ? AND id <> ?
		`), columnID, id); err != nil {
			return fmt.Errorf("next task position: %w", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`
			UPDATE tasks SET column_id = ?, position = ?, updated_at = ? WHERE id = ?
		`), columnID, pos, time.Now().UTC(), id)
		if err != nil {
			return fmt.Errorf("move task: %w", err)
		}
		return affected(res, "task", id)
	})
	if err != nil {
		return nil, err
	}
	return r.GetTask(ctx, id)
}

// SetTaskPosition writes one position. No other task is renumbered.
func (r *Repository) SetTaskPosition(ctx context.Context, id string, position int) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE tasks SET position = ?, updated_at = ? WHERE id = ?
	`), position, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set task position: %w", err)
	}
	return affected(res, "task", id)
}
