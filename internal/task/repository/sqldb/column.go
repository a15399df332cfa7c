package sqldb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
)

const columnColumns = "id, board_id, name, position, color, created_at, updated_at"

// CreateColumn appends the column to its board: position becomes the
// current maximum plus one, or 0 on an empty board.
func (r *Repository) CreateColumn(ctx context.Context, column *models.Column) error {
	if column.ID == "" {
		column.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	column.CreatedAt = now
	column.UpdatedAt = now

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if err := tx.GetContext(ctx, &column.Position, tx.Rebind(`
			SELECT COALESCE(MAX(position), -1) + 1 FROM board_columns WHERE board_id = ?
		`), column.BoardID); err != nil {
			return fmt.Errorf("next column position: %w", err)
		}
		_, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO board_columns (`+columnColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`), column.ID, column.BoardID, column.Name, column.Position, column.Color, column.CreatedAt, column.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert column: %w", err)
		}
		return nil
	})
}

func (r *Repository) GetColumn(ctx context.Context, id string) (*models.Column, error) {
	column := &models.Column{}
	err := r.ro.GetContext(ctx, column, r.ro.Rebind(`SELECT `+columnColumns+` FROM board_columns WHERE id = ?`), id)
	if err := getOne(err, "column", id); err != nil {
		return nil, err
	}
	return column, nil
}

// UpdateColumn saves name and color. Position changes go through
// SetColumnPosition.
func (r *Repository) UpdateColumn(ctx context.Context, column *models.Column) error {
	column.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE board_columns SET name = ?, color = ?, updated_at = ? WHERE id = ?
	`), column.Name, column.Color, column.UpdatedAt, column.ID)
	if err != nil {
		return fmt.Errorf("update column: %w", err)
	}
	return affected(res, "column", column.ID)
}

// DeleteColumn removes the column together with its tasks and their comments.
func (r *Repository) DeleteColumn(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		taskIDs, err := selectIDs(ctx, tx, "tasks", "column_id", id)
		if err != nil {
			return err
		}
		if err := r.deleteIn(ctx, tx, "task_comments", "task_id", taskIDs); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM tasks WHERE column_id = ?`), id); err != nil {
			return fmt.Errorf("delete column tasks: %w", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM board_columns WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete column: %w", err)
		}
		return affected(res, "column", id)
	})
}

// ListColumns returns the board's columns ordered by position, then creation.
func (r *Repository) ListColumns(ctx context.Context, boardID string) ([]*models.Column, error) {
	columns := []*models.Column{}
	err := r.ro.SelectContext(ctx, &columns, r.ro.Rebind(`
		SELECT `+columnColumns+` FROM board_columns WHERE board_id = ?
		ORDER BY position, created_at, id
	`), boardID)
	if err != nil {
		return nil, fmt.Errorf("list columns: %w", err)
	}
	return columns, nil
}

// SetColumnPosition writes one position. No other column is renumbered.
func (r *Repository) SetColumnPosition(ctx context.Context, id string, position int) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE board_columns SET position = ?, updated_at = ? WHERE id = ?
	`), position, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("set column position: %w", err)
	}
	return affected(res, "column", id)
}
