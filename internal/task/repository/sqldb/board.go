package sqldb

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/db/dialect"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository"
)

const boardColumns = "id, workspace_id, name, description, created_by, created_at, updated_at"

// CreateBoard inserts the board and its initial members atomically.
func (r *Repository) CreateBoard(ctx context.Context, board *models.Board) error {
	if board.ID == "" {
		board.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	board.CreatedAt = now
	board.UpdatedAt = now
	board.Columns = []string{}

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO boards (`+boardColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`), board.ID, board.WorkspaceID, board.Name, board.Description, board.CreatedBy, board.CreatedAt, board.UpdatedAt); err != nil {
			return fmt.Errorf("insert board: %w", err)
		}
		for i := range board.Members {
			m := &board.Members[i]
			m.BoardID = board.ID
			if m.JoinedAt.IsZero() {
				m.JoinedAt = now
			}
			if err := insertBoardMember(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertBoardMember(ctx context.Context, tx execer, m *models.BoardMember) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO board_members (board_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
	`), m.BoardID, m.UserID, m.Role, m.JoinedAt)
	if err != nil {
		if dialect.IsUniqueViolation(err) {
			return repository.ErrAlreadyMember
		}
		return fmt.Errorf("insert board member: %w", err)
	}
	return nil
}

// GetBoard loads the board with its members and ordered column ids.
func (r *Repository) GetBoard(ctx context.Context, id string) (*models.Board, error) {
	board := &models.Board{}
	err := r.ro.GetContext(ctx, board, r.ro.Rebind(`SELECT `+boardColumns+` FROM boards WHERE id = ?`), id)
	if err := getOne(err, "board", id); err != nil {
		return nil, err
	}
	if err := r.hydrateBoards(ctx, []*models.Board{board}); err != nil {
		return nil, err
	}
	return board, nil
}

func (r *Repository) UpdateBoard(ctx context.Context, board *models.Board) error {
	board.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE boards SET name = ?, description = ?, updated_at = ? WHERE id = ?
	`), board.Name, board.Description, board.UpdatedAt, board.ID)
	if err != nil {
		return fmt.Errorf("update board: %w", err)
	}
	return affected(res, "board", board.ID)
}

// DeleteBoard removes the board with its columns, tasks, comments,
// activities and members.
func (r *Repository) DeleteBoard(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		var exists int
		if err := tx.GetContext(ctx, &exists, tx.Rebind(`SELECT COUNT(1) FROM boards WHERE id = ?`), id); err != nil {
			return fmt.Errorf("check board: %w", err)
		}
		if exists == 0 {
			return notFound("board", id)
		}
		return r.deleteBoardsTx(ctx, tx, []string{id})
	})
}

func (r *Repository) deleteBoardsTx(ctx context.Context, tx *sqlx.Tx, boardIDs []string) error {
	if len(boardIDs) == 0 {
		return nil
	}
	taskIDs, err := r.selectIDsIn(ctx, tx, "tasks", "board_id", boardIDs)
	if err != nil {
		return err
	}
	if err := r.deleteIn(ctx, tx, "task_comments", "task_id", taskIDs); err != nil {
		return err
	}
	for _, table := range []string{"tasks", "board_columns", "activities", "board_members"} {
		if err := r.deleteIn(ctx, tx, table, "board_id", boardIDs); err != nil {
			return err
		}
	}
	return r.deleteIn(ctx, tx, "boards", "id", boardIDs)
}

func (r *Repository) ListBoards(ctx context.Context, workspaceID string) ([]*models.Board, error) {
	boards := []*models.Board{}
	err := r.ro.SelectContext(ctx, &boards, r.ro.Rebind(`
		SELECT `+boardColumns+` FROM boards WHERE workspace_id = ? ORDER BY created_at, id
	`), workspaceID)
	if err != nil {
		return nil, fmt.Errorf("list boards: %w", err)
	}
	if err := r.hydrateBoards(ctx, boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// hydrateBoards fills Members and Columns for each board.
func (r *Repository) hydrateBoards(ctx context.Context, boards []*models.Board) error {
	if len(boards) == 0 {
		return nil
	}
	ids := make([]string, 0, len(boards))
	byID := make(map[string]*models.Board, len(boards))
	for _, b := range boards {
		ids = append(ids, b.ID)
		byID[b.ID] = b
		b.Members = []models.BoardMember{}
		b.Columns = []string{}
	}

	query, args, err := r.builder().
		Select("board_id, user_id, role, joined_at").
		From("board_members").
		Where(sq.Eq{"board_id": ids}).
		OrderBy("joined_at", "user_id").
		ToSql()
	if err != nil {
		return err
	}
	var members []models.BoardMember
	if err := r.ro.SelectContext(ctx, &members, query, args...); err != nil {
		return fmt.Errorf("list board members: %w", err)
	}
	for _, m := range members {
		byID[m.BoardID].Members = append(byID[m.BoardID].Members, m)
	}

	query, args, err = r.builder().
		Select("id, board_id").
		From("board_columns").
		Where(sq.Eq{"board_id": ids}).
		OrderBy("position", "created_at", "id").
		ToSql()
	if err != nil {
		return err
	}
	var cols []struct {
		ID      string `db:"id"`
		BoardID string `db:"board_id"`
	}
	if err := r.ro.SelectContext(ctx, &cols, query, args...); err != nil {
		return fmt.Errorf("list board columns: %w", err)
	}
	for _, c := range cols {
		byID[c.BoardID].Columns = append(byID[c.BoardID].Columns, c.ID)
	}
	return nil
}

func (r *Repository) AddBoardMember(ctx context.Context, member *models.BoardMember) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}
	return insertBoardMember(ctx, r.db, member)
}

func (r *Repository) RemoveBoardMember(ctx context.Context, boardID, userID string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM board_members WHERE board_id = ? AND user_id = ?
	`), boardID, userID)
	if err != nil {
		return fmt.Errorf("remove board member: %w", err)
	}
	return affected(res, "board member", userID)
}
