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

type CreateBoardRequest struct {
	WorkspaceID string
	Name        string
	Description string
}

type UpdateBoardRequest struct {
	Name        *string
	Description *string
}

func (s *Service) ListBoards(ctx context.Context, userID, workspaceID string) ([]*models.Board, error) {
	if strings.TrimSpace(workspaceID) == "" {
		return nil, apperrors.ValidationError("workspace_id", "is required")
	}
	if _, _, err := s.workspaceMember(ctx, workspaceID, userID); err != nil {
		return nil, err
	}
	boards, err := s.repo.ListBoards(ctx, workspaceID)
	if err != nil {
		return nil, apperrors.InternalError("failed to list boards", err)
	}
	return boards, nil
}

// CreateBoard requires a non-viewer workspace member, who becomes board admin.
func (s *Service) CreateBoard(ctx context.Context, userID string, req CreateBoardRequest) (*models.Board, error) {
	name := strings.TrimSpace(req.Name)
	if strings.TrimSpace(req.WorkspaceID) == "" {
		return nil, apperrors.ValidationError("workspace_id", "is required")
	}
	if name == "" {
		return nil, apperrors.ValidationError("name", "is required")
	}
	ws, role, err := s.workspaceMember(ctx, req.WorkspaceID, userID)
	if err != nil {
		return nil, err
	}
	if !role.CanWrite() && !ws.IsOwner(userID) {
		return nil, apperrors.Forbidden("viewers cannot create boards")
	}

	board := &models.Board{
		WorkspaceID: ws.ID,
		Name:        name,
		Description: strings.TrimSpace(req.Description),
		CreatedBy:   userID,
		Members:     []models.BoardMember{{UserID: userID, Role: models.RoleAdmin}},
	}
	if err := s.repo.CreateBoard(ctx, board); err != nil {
		return nil, apperrors.InternalError("failed to create board", err)
	}
	s.recordActivity(ctx, userID, models.ActionCreated, models.EntityBoard, board.ID, board.ID, models.JSONMap{"name": board.Name})
	s.publishEventToBus(ctx, events.BoardCreated, "board", board.ID, withActor(boardData(board), userID))
	return board, nil
}

func (s *Service) GetBoard(ctx context.Context, userID, id string) (*models.Board, error) {
	access, err := s.boardRead(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	return access.board, nil
}

func (s *Service) UpdateBoard(ctx context.Context, userID, id string, req UpdateBoardRequest) (*models.Board, error) {
	access, err := s.boardWrite(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	board := access.board
	changes := models.JSONMap{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.ValidationError("name", "is required")
		}
		board.Name = name
		changes["name"] = name
	}
	if req.Description != nil {
		board.Description = strings.TrimSpace(*req.Description)
		changes["description"] = board.Description
	}
	if err := s.repo.UpdateBoard(ctx, board); err != nil {
		return nil, apperrors.Wrap(err, "failed to update board")
	}
	s.recordActivity(ctx, userID, models.ActionUpdated, models.EntityBoard, board.ID, board.ID, changes)
	s.publishEventToBus(ctx, events.BoardUpdated, "board", board.ID, withActor(boardData(board), userID))
	return board, nil
}

// DeleteBoard requires board admin rights and cascades to its content.
func (s *Service) DeleteBoard(ctx context.Context, userID, id string) error {
	access, err := s.boardAdmin(ctx, id, userID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBoard(ctx, id); err != nil {
		return apperrors.Wrap(err, "failed to delete board")
	}
	s.publishEventToBus(ctx, events.BoardDeleted, "board", id, withActor(map[string]interface{}{
		"id":           id,
		"board_id":     id,
		"workspace_id": access.board.WorkspaceID,
	}, userID))
	return nil
}

// AddBoardMember adds memberID and sends a board_invitation notification.
func (s *Service) AddBoardMember(ctx context.Context, userID, id, memberID string, role models.MemberRole) (*models.Board, error) {
	access, err := s.boardAdmin(ctx, id, userID)
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
	if _, ok := access.board.RoleOf(memberID); ok {
		return nil, apperrors.BadRequest("user is already a member")
	}
	if err := s.ensureUserExists(ctx, memberID); err != nil {
		return nil, err
	}

	if err := s.repo.AddBoardMember(ctx, &models.BoardMember{BoardID: id, UserID: memberID, Role: role}); err != nil {
		if errors.Is(err, repository.ErrAlreadyMember) {
			return nil, apperrors.BadRequest("user is already a member")
		}
		return nil, apperrors.InternalError("failed to add member", err)
	}

	s.recordActivity(ctx, userID, models.ActionMemberAdded, models.EntityBoard, id, id, models.JSONMap{
		"user_id": memberID,
		"role":    string(role),
	})
	s.publishEventToBus(ctx, events.BoardMemberAdded, "board", id, withActor(map[string]interface{}{
		"board_id": id,
		"user_id":  memberID,
		"role":     string(role),
	}, userID))
	s.notify(ctx, userID, &notificationmodels.Notification{
		UserID:  memberID,
		Type:    notificationmodels.TypeBoardInvitation,
		Title:   "Board invitation",
		Message: "You were added to the board " + access.board.Name,
		Data:    notificationmodels.Data{BoardID: id, WorkspaceID: access.board.WorkspaceID},
		Link:    "/boards/" + id,
	})

	board, err := s.repo.GetBoard(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "board not found")
	}
	return board, nil
}

// RemoveBoardMember requires board admin rights unless members remove themselves.
func (s *Service) RemoveBoardMember(ctx context.Context, userID, id, memberID string) (*models.Board, error) {
	access, err := s.boardRead(ctx, id, userID)
	if err != nil {
		return nil, err
	}
	if memberID != userID && !access.isAdmin() {
		return nil, apperrors.Forbidden("board admin rights required")
	}
	if _, ok := access.board.RoleOf(memberID); !ok {
		return nil, apperrors.NotFound("member")
	}
	if err := s.repo.RemoveBoardMember(ctx, id, memberID); err != nil {
		return nil, apperrors.Wrap(err, "member not found")
	}

	s.recordActivity(ctx, userID, models.ActionMemberRemoved, models.EntityBoard, id, id, models.JSONMap{"user_id": memberID})
	s.publishEventToBus(ctx, events.BoardMemberRemoved, "board", id, withActor(map[string]interface{}{
		"board_id": id,
		"user_id":  memberID,
	}, userID))

	board, err := s.repo.GetBoard(ctx, id)
	if err != nil {
		return nil, apperrors.Wrap(err, "board not found")
	}
	return board, nil
}

// ListActivities pages through a board's activity log, newest first.
func (s *Service) ListActivities(ctx context.Context, userID, boardID string, limit, offset int) ([]*models.Activity, error) {
	if _, err := s.boardRead(ctx, boardID, userID); err != nil {
		return nil, err
	}
	list, err := s.repo.ListActivities(ctx, repository.ActivityFilter{BoardID: boardID, Limit: limit, Offset: offset})
	if err != nil {
		return nil, apperrors.InternalError("failed to list activities", err)
	}
	return list, nil
}
