package service

import (
	"context"
	"net/http"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
)

var roleRank = map[models.MemberRole]int{
	models.RoleViewer: 1,
	models.RoleMember: 2,
	models.RoleAdmin:  3,
}

func higherRole(a, b models.MemberRole) models.MemberRole {
	if roleRank[b] > roleRank[a] {
		return b
	}
	return a
}

func (s *Service) loadWorkspace(ctx context.Context, id string) (*models.Workspace, error) {
	ws, err := s.repo.GetWorkspace(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "workspace not found")
	}
	return ws, nil
}

// workspaceMember loads the workspace and returns the caller's role. A
// non-member gets 403.
func (s *Service) workspaceMember(ctx context.Context, workspaceID, userID string) (*models.Workspace, models.MemberRole, error) {
	ws, err := s.loadWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, "", err
	}
	role, ok := ws.RoleOf(userID)
	if !ok {
		return nil, "", apperrors.Forbidden("not a member of this workspace")
	}
	return ws, role, nil
}

// workspaceManager requires the owner or an admin member.
func (s *Service) workspaceManager(ctx context.Context, workspaceID, userID string) (*models.Workspace, error) {
	ws, role, err := s.workspaceMember(ctx, workspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !ws.IsOwner(userID) && role != models.RoleAdmin {
		return nil, apperrors.Forbidden("workspace admin rights required")
	}
	return ws, nil
}

// boardAccess is the caller's effective standing on a board: the higher of
// the board role and the workspace role.
type boardAccess struct {
	board     *models.Board
	workspace *models.Workspace
	role      models.MemberRole
}

func (a *boardAccess) canWrite() bool { return a.role.CanWrite() }
func (a *boardAccess) isAdmin() bool  { return a.role == models.RoleAdmin }

func (s *Service) boardRead(ctx context.Context, boardID, userID string) (*boardAccess, error) {
	board, err := s.repo.GetBoard(ctx, boardID)
	if err != nil {
		return nil, apperrors.Wrap(err, "board not found")
	}
	ws, err := s.loadWorkspace(ctx, board.WorkspaceID)
	if err != nil {
		return nil, err
	}

	boardRole, onBoard := board.RoleOf(userID)
	wsRole, inWorkspace := ws.RoleOf(userID)
	if !onBoard && !inWorkspace {
		return nil, apperrors.Forbidden("not a member of this board")
	}
	role := higherRole(boardRole, wsRole)
	if ws.IsOwner(userID) {
		role = models.RoleAdmin
	}
	return &boardAccess{board: board, workspace: ws, role: role}, nil
}

func (s *Service) boardWrite(ctx context.Context, boardID, userID string) (*boardAccess, error) {
	access, err := s.boardRead(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	if !access.canWrite() {
		return nil, apperrors.Forbidden("viewers cannot modify this board")
	}
	return access, nil
}

func (s *Service) boardAdmin(ctx context.Context, boardID, userID string) (*boardAccess, error) {
	access, err := s.boardRead(ctx, boardID, userID)
	if err != nil {
		return nil, err
	}
	if !access.isAdmin() {
		return nil, apperrors.Forbidden("board admin rights required")
	}
	return access, nil
}

// CanAccessBoard reports whether userID may read the board. Used by the
// realtime gateway before joining a board room.
func (s *Service) CanAccessBoard(ctx context.Context, boardID, userID string) (bool, error) {
	_, err := s.boardRead(ctx, boardID, userID)
	return allowed(err)
}

// CanAccessWorkspace reports whether userID is a workspace member.
func (s *Service) CanAccessWorkspace(ctx context.Context, workspaceID, userID string) (bool, error) {
	_, _, err := s.workspaceMember(ctx, workspaceID, userID)
	return allowed(err)
}

func allowed(err error) (bool, error) {
	if err == nil {
		return true, nil
	}
	status := apperrors.GetHTTPStatus(err)
	if status == http.StatusForbidden || status == http.StatusNotFound {
		return false, nil
	}
	return false, err
}

func (s *Service) ensureUserExists(ctx context.Context, userID string) error {
	if s.users == nil {
		return nil
	}
	ok, err := s.users.Exists(ctx, userID)
	if err != nil {
		return apperrors.InternalError("failed to look up user", err)
	}
	if !ok {
		return apperrors.NotFound("user")
	}
	return nil
}
