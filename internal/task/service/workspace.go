package service

import (
	"context"
	"errors"
	"strings"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events"
	notificationmodels "github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository"
)

type CreateWorkspaceRequest struct {
	Name        string
	Description string
}

type UpdateWorkspaceRequest struct {
	Name        *string
	Description *string
}

// CreateWorkspace makes the caller owner and admin member of a new workspace.
func (s *Service) CreateWorkspace(ctx context.Context, userID string, req CreateWorkspaceRequest) (*models.Workspace, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ValidationError("name", "is required")
	}
	ws := &models.Workspace{
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		OwnerID:     userID,
		Members:     []models.WorkspaceMember{{UserID: userID, Role: models.RoleAdmin}},
	}
	if err := s.repo.CreateWorkspace(ctx, ws); err != nil {
		return nil, apperrors.InternalError("failed to create workspace", err)
	}
	s.recordActivity(ctx, userID, models.ActionCreated, models.EntityWorkspace, ws.ID, "", models.JSONMap{"name": ws.Name})
	s.publishEventToBus(ctx, events.WorkspaceCreated, "workspace", ws.ID, withActor(workspaceData(ws), userID))
	return ws, nil
}

func (s *Service) ListWorkspaces(ctx context.Context, userID string) ([]*models.Workspace, error) {
	list, err := s.repo.ListWorkspacesForUser(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError("failed to list workspaces", err)
	}
	return list, nil
}

func (s *Service) GetWorkspace(ctx context.Context, userID, id string) (*models.Workspace, error) {
	ws, _, err := s.workspaceMember(ctx, id, userID)
	return ws, err
}

func (s *Service) UpdateWorkspace(ctx context.Context, userID, id string, req UpdateWorkspaceRequest) (*models.Workspace, error) {
	ws, err := s.workspaceManager(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.ValidationError("name", "is required")
		}
		ws.Name = name
	}
	if req.Description != nil {
		ws.Description = strings.TrimSpace(*req.Description)
	}
	if err := s.repo.UpdateWorkspace(ctx, ws); err != nil {
		return nil, apperrors.Wrap(err, "failed to update workspace")
	}
	s.recordActivity(ctx, userID, models.ActionUpdated, models.EntityWorkspace, ws.ID, "", nil)
	s.publishEventToBus(ctx, events.WorkspaceUpdated, "workspace", ws.ID, withActor(workspaceData(ws), userID))
	return ws, nil
}

// DeleteWorkspace is reserved to the owner and cascades to every board.
func (s *Service) DeleteWorkspace(ctx context.Context, userID, id string) error {
	ws, _, err := s.workspaceMember(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ws.IsOwner(userID) {
		return apperrors.Forbidden("only the owner can delete a workspace")
	}
	if err := s.repo.DeleteWorkspace(ctx, id); err != nil {
		return apperrors.Wrap(err, "failed to delete workspace")
	}
	s.publishEventToBus(ctx, events.WorkspaceDeleted, "workspace", id, withActor(map[string]interface{}{
		"id":           id,
		"workspace_id": id,
	}, userID))
	return nil
}

func (s *Service) ListWorkspaceMembers(ctx context.Context, userID, id string) ([]models.WorkspaceMember, error) {
	ws, _, err := s.workspaceMember(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return ws.Members, nil
}

// AddWorkspaceMember adds memberID with role (default member) and sends a
// workspace_invitation notification.
func (s *Service) AddWorkspaceMember(ctx context.Context, userID, id, memberID string, role models.MemberRole) (*models.Workspace, error) {
	ws, err := s.workspaceManager(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(memberID) == "" {
		return nil, apperrors.ValidationError("user_id", "is required")
	}
	if role == "" {
		role = models.RoleMember
	}
	if !role.Valid() {
		return nil, apperrors.ValidationError("role", "must be admin, member or viewer")
	}
	if _, ok := ws.RoleOf(memberID); ok {
		return nil, apperrors.BadRequest("user is already a member")
	}
	if err := s.ensureUserExists(ctx, memberID); err != nil {
		return nil, err
	}

	member := &models.WorkspaceMember{WorkspaceID: id, UserID: memberID, Role: role}
	if err := s.repo.AddWorkspaceMember(ctx, member); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			return nil, apperrors.BadRequest("user is already a member")
		}
		return nil, apperrors.InternalError("failed to add member", err)
	}

	s.recordActivity(ctx, userID, models.ActionMemberAdded, models.EntityWorkspace, id, "", models.JSONMap{
		"user_id": memberID,
		"role":    string(role),
	})
	s.publishEventToBus(ctx, events.WorkspaceMemberAdded, "workspace", id, withActor(map[string]interface{}{
		"workspace_id": id,
		"user_id":      memberID,
		"role":         string(role),
	}, userID))
	s.notify(ctx, userID, &notificationmodels.Notification{
		UserID:  memberID,
		Type:    notificationmodels.TypeWorkspaceInvitation,
		Title:   "Workspace invitation",
		Message: "You were added to the workspace " + ws.Name,
		Data:    notificationmodels.Data{WorkspaceID: id},
		Link:    "/workspaces/" + id,
	})
	return s.loadWorkspace(ctx, id)
}

// UpdateWorkspaceMember changes a member's role. The owner stays admin.
func (s *Service) UpdateWorkspaceMember(ctx context.Context, userID, id, memberID string, role models.MemberRole) (*models.Workspace, error) {
	ws, err := s.workspaceManager(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, apperrors.ValidationError("role", "must be admin, member or viewer")
	}
	if _, ok := ws.RoleOf(memberID); !ok {
		return nil, apperrors.NotFound("member")
	}
	if ws.IsOwner(memberID) && role != models.RoleAdmin {
		return nil, apperrors.BadRequest("cannot change the workspace owner's role")
	}
	if err := s.repo.UpdateWorkspaceMemberRole(ctx, id, memberID, role); err != nil {
		return nil, apperrors.Wrap(err, "member not found")
	}

	s.recordActivity(ctx, userID, models.ActionMemberUpdated, models.EntityWorkspace, id, "", models.JSONMap{
		"user_id": memberID,
		"role":    string(role),
	})
	s.publishEventToBus(ctx, events.WorkspaceMemberUpdated, "workspace", id, withActor(map[string]interface{}{
		"workspace_id": id,
		"user_id":      memberID,
		"role":         string(role),
	}, userID))
	return s.loadWorkspace(ctx, id)
}

// RemoveWorkspaceMember removes memberID. Managers may remove anyone but the
// owner; any member may remove themselves.
func (s *Service) RemoveWorkspaceMember(ctx context.Context, userID, id, memberID string) (*models.Workspace, error) {
	ws, role, err := s.workspaceMember(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if memberID != userID && !ws.IsOwner(userID) && role != models.RoleAdmin {
		return nil, apperrors.Forbidden("workspace admin rights required")
	}
	if ws.IsOwner(memberID) {
		return nil, apperrors.BadRequest("cannot remove the workspace owner")
	}
	if _, ok := ws.RoleOf(memberID); !ok {
		return nil, apperrors.NotFound("member")
	}
	if err := s.repo.RemoveWorkspaceMember(ctx, id, memberID); err != nil {
		return nil, apperrors.Wrap(err, "member not found")
	}

	s.recordActivity(ctx, userID, models.ActionMemberRemoved, models.EntityWorkspace, id, "", models.JSONMap{"user_id": memberID})
	s.publishEventToBus(ctx, events.WorkspaceMemberRemoved, "workspace", id, withActor(map[string]interface{}{
		"workspace_id": id,
		"user_id":      memberID,
	}, userID))
	return s.loadWorkspace(ctx, id)
}
