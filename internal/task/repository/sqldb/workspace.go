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

const workspaceColumns = "id, name, description, owner_id, created_at, updated_at"

// CreateWorkspace inserts the workspace and its initial members atomically.
func (r *Repository) CreateWorkspace(ctx context.Context, workspace *models.Workspace) error {
	if workspace.ID == "" {
		workspace.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	workspace.CreatedAt = now
	workspace.UpdatedAt = now

	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, tx.Rebind(`
			INSERT INTO workspaces (`+workspaceColumns+`)
			VALUES (?, ?, ?, ?, ?, ?)
		`), workspace.ID, workspace.Name, workspace.Description, workspace.OwnerID, workspace.CreatedAt, workspace.UpdatedAt); err != nil {
			return fmt.Errorf("insert workspace: %w", err)
		}
		for i := range workspace.Members {
			m := &workspace.Members[i]
			m.WorkspaceID = workspace.ID
			if m.JoinedAt.IsZero() {
				m.JoinedAt = now
			}
			if err := insertWorkspaceMember(ctx, tx, m); err != nil {
				return err
			}
		}
		return nil
	})
}

func insertWorkspaceMember(ctx context.Context, tx execer, m *models.WorkspaceMember) error {
	_, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO workspace_members (workspace_id, user_id, role, joined_at)
		VALUES (?, ?, ?, ?)
	`), m.WorkspaceID, m.UserID, m.Role, m.JoinedAt)
	if err != nil {
		if dialect.IsUniqueViolation(err) {
			return repository.ErrAlreadyMember
		}
		return fmt.Errorf("insert workspace member: %w", err)
	}
	return nil
}

func (r *Repository) GetWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	workspace := &models.Workspace{}
	err := r.ro.GetContext(ctx, workspace, r.ro.Rebind(`SELECT `+workspaceColumns+` FROM workspaces WHERE id = ?`), id)
	if err := getOne(err, "workspace", id); err != nil {
		return nil, err
	}
	members, err := r.workspaceMembers(ctx, []string{id})
	if err != nil {
		return nil, err
	}
	workspace.Members = members[id]
	if workspace.Members == nil {
		workspace.Members = []models.WorkspaceMember{}
	}
	return workspace, nil
}

func (r *Repository) UpdateWorkspace(ctx context.Context, workspace *models.Workspace) error {
	workspace.UpdatedAt = time.Now().UTC()
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE workspaces SET name = ?, description = ?, updated_at = ? WHERE id = ?
	`), workspace.Name, workspace.Description, workspace.UpdatedAt, workspace.ID)
	if err != nil {
		return fmt.Errorf("update workspace: %w", err)
	}
	return affected(res, "workspace", workspace.ID)
}

// DeleteWorkspace removes the workspace with its members, boards and
// everything under them.
func (r *Repository) DeleteWorkspace(ctx context.Context, id string) error {
	return r.withTx(ctx, func(tx *sqlx.Tx) error {
		boardIDs, err := selectIDs(ctx, tx, "boards", "workspace_id", id)
		if err != nil {
			return err
		}
		if err := r.deleteBoardsTx(ctx, tx, boardIDs); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM activities WHERE entity_type = ? AND entity_id = ?`), models.EntityWorkspace, id); err != nil {
			return fmt.Errorf("delete workspace activities: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM workspace_members WHERE workspace_id = ?`), id); err != nil {
			return fmt.Errorf("delete workspace members: %w", err)
		}
		res, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM workspaces WHERE id = ?`), id)
		if err != nil {
			return fmt.Errorf("delete workspace: %w", err)
		}
		return affected(res, "workspace", id)
	})
}

// ListWorkspacesForUser returns the workspaces userID is a member of, oldest first.
func (r *Repository) ListWorkspacesForUser(ctx context.Context, userID string) ([]*models.Workspace, error) {
	workspaces := []*models.Workspace{}
	err := r.ro.SelectContext(ctx, &workspaces, r.ro.Rebind(`
		SELECT w.id, w.name, w.description, w.owner_id, w.created_at, w.updated_at
		FROM workspaces w
		JOIN workspace_members m ON m.workspace_id = w.id
		WHERE m.user_id = ?
		ORDER BY w.created_at, w.id
	`), userID)
	if err != nil {
		return nil, fmt.Errorf("list workspaces: %w", err)
	}

	ids := make([]string, 0, len(workspaces))
	for _, w := range workspaces {
		ids = append(ids, w.ID)
	}
	members, err := r.workspaceMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, w := range workspaces {
		w.Members = members[w.ID]
		if w.Members == nil {
			w.Members = []models.WorkspaceMember{}
		}
	}
	return workspaces, nil
}

func (r *Repository) workspaceMembers(ctx context.Context, workspaceIDs []string) (map[string][]models.WorkspaceMember, error) {
	out := make(map[string][]models.WorkspaceMember, len(workspaceIDs))
	if len(workspaceIDs) == 0 {
		return out, nil
	}
	query, args, err := r.builder().
		Select("workspace_id, user_id, role, joined_at").
		From("workspace_members").
		Where(sq.Eq{"workspace_id": workspaceIDs}).
		OrderBy("joined_at", "user_id").
		ToSql()
	if err != nil {
		return nil, err
	}
	var rows []models.WorkspaceMember
	if err := r.ro.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list workspace members: %w", err)
	}
	for _, m := range rows {
		out[m.WorkspaceID] = append(out[m.WorkspaceID], m)
	}
	return out, nil
}

func (r *Repository) AddWorkspaceMember(ctx context.Context, member *models.WorkspaceMember) error {
	if member.JoinedAt.IsZero() {
		member.JoinedAt = time.Now().UTC()
	}
	return insertWorkspaceMember(ctx, r.db, member)
}

func (r *Repository) UpdateWorkspaceMemberRole(ctx context.Context, workspaceID, userID string, role models.MemberRole) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		UPDATE workspace_members SET role = ? WHERE workspace_id = ? AND user_id = ?
	`), role, workspaceID, userID)
	if err != nil {
		return fmt.Errorf("update workspace member: %w", err)
	}
	return affected(res, "workspace member", userID)
}

func (r *Repository) RemoveWorkspaceMember(ctx context.Context, workspaceID, userID string) error {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`
		DELETE FROM workspace_members WHERE workspace_id = ? AND user_id = ?
	`), workspaceID, userID)
	if err != nil {
		return fmt.Errorf("remove workspace member: %w", err)
	}
	return affected(res, "workspace member", userID)
}
