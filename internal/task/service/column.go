package service

import (
	"context"
	"strings"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
)

type CreateColumnRequest struct {
	BoardID string
	Name    string
	Color   string
}

type UpdateColumnRequest struct {
	Name  *string
	Color *string
}

// CreateColumn appends a column to the board.
func (s *Service) CreateColumn(ctx context.Context, userID string, req CreateColumnRequest) (*models.Column, error) {
	if strings.TrimSpace(req.BoardID) == "" {
		return nil, apperrors.ValidationError("board_id", "is required")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, apperrors.ValidationError("name", "is required")
	}
	if _, err := s.boardWrite(ctx, req.BoardID, userID); err != nil {
		return nil, err
	}

	color := strings.TrimSpace(req.Color)
	if color == "" {
		color = defaultColumnColor
	}
	column := &models.Column{BoardID: req.BoardID, Name: name, Color: color}
	if err := s.repo.CreateColumn(ctx, column); err != nil {
		return nil, apperrors.InternalError("failed to create column", err)
	}

	s.recordActivity(ctx, userID, models.ActionCreated, models.EntityColumn, column.ID, column.BoardID, models.JSONMap{
		"name":     column.Name,
		"position": column.Position,
	})
	s.publishEventToBus(ctx, events.ColumnCreated, "column", column.ID, withActor(columnData(column), userID))
	return column, nil
}

// loadColumn returns the column together with the caller's board access.
func (s *Service) loadColumn(ctx context.Context, id, userID string, write bool) (*models.Column, *boardAccess, error) {
	column, err := s.repo.GetColumn(ctx, id)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "column not found")
	}
	var access *boardAccess
	if write {
		access, err = s.boardWrite(ctx, column.BoardID, userID)
	} else {
		access, err = s.boardRead(ctx, column.BoardID, userID)
	}
	if err != nil {
		return nil, nil, err
	}
	return column, access, nil
}

func (s *Service) GetColumn(ctx context.Context, userID, id string) (*models.Column, error) {
	column, _, err := s.loadColumn(ctx, id, userID, false)
	return column, err
}

// ListColumns returns the board's columns ordered by position.
func (s *Service) ListColumns(ctx context.Context, userID, boardID string) ([]*models.Column, error) {
	if strings.TrimSpace(boardID) == "" {
		return nil, apperrors.ValidationError("board_id", "is required")
	}
	if _, err := s.boardRead(ctx, boardID, userID); err != nil {
		return nil, err
	}
	columns, err := s.repo.ListColumns(ctx, boardID)
	if err != nil {
		return nil, apperrors.InternalError("failed to list columns", err)
	}
	return columns, nil
}

func (s *Service) UpdateColumn(ctx context.Context, userID, id string, req UpdateColumnRequest) (*models.Column, error) {
	column, _, err := s.loadColumn(ctx, id, userID, true)
	if err != nil {
		return nil, err
	}
	changes := models.JSONMap{}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.ValidationError("name", "is required")
		}
		column.Name = name
		changes["name"] = name
	}
	if req.Color != nil {
		color := strings.TrimSpace(*req.Color)
		if color == "" {
			color = defaultColumnColor
		}
		column.Color = color
		changes["color"] = color
	}
	if err := s.repo.UpdateColumn(ctx, column); err != nil {
		return nil, apperrors.Wrap(err, "failed to update column")
	}

	s.recordActivity(ctx, userID, models.ActionUpdated, models.EntityColumn, column.ID, column.BoardID, changes)
	s.publishEventToBus(ctx, events.ColumnUpdated, "column", column.ID, withActor(columnData(column), userID))
	return column, nil
}

// DeleteColumn removes the column and every task in it.
func (s *Service) DeleteColumn(ctx context.Context, userID, id string) error {
	column, _, err := s.loadColumn(ctx, id, userID, true)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteColumn(ctx, id); err != nil {
		return apperrors.Wrap(err, "failed to delete column")
	}

	s.recordActivity(ctx, userID, models.ActionDeleted, models.EntityColumn, id, column.BoardID, models.JSONMap{"name": column.Name})
	s.publishEventToBus(ctx, events.ColumnDeleted, "column", id, withActor(map[string]interface{}{
		"id":       id,
		"board_id": column.BoardID,
	}, userID))
	return nil
}

// ReorderColumns applies each {id, position} as an independent write, in
// order. Positions are not checked for uniqueness. An unknown id stops the
// batch with 404; writes already applied stay.
func (s *Service) ReorderColumns(ctx context.Context, userID, boardID string, updates []models.PositionUpdate) ([]*models.Column, error) {
	if len(updates) == 0 {
		return nil, apperrors.ValidationError("columns", "must not be empty")
	}
	for _, u := range updates {
		if strings.TrimSpace(u.ID) == "" {
			return nil, apperrors.ValidationError("columns", "entries need an id")
		}
	}

	// The board comes from the request, or from the first column.
	if boardID == "" {
		first, err := s.repo.GetColumn(ctx, updates[0].ID)
		if err != nil {
			return nil, apperrors.Wrap(err, "column not found")
		}
		boardID = first.BoardID
	}
	if _, err := s.boardWrite(ctx, boardID, userID); err != nil {
		return nil, err
	}

	for _, u := range updates {
		column, err := s.repo.GetColumn(ctx, u.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, "column not found")
		}
		if column.BoardID != boardID {
			return nil, apperrors.BadRequest("column " + u.ID + " belongs to another board")
		}
		if err := s.repo.SetColumnPosition(ctx, u.ID, u.Position); err != nil {
			return nil, apperrors.Wrap(err, "column not found")
		}
		column.Position = u.Position
		s.publishEventToBus(ctx, events.ColumnUpdated, "column", column.ID, withActor(columnData(column), userID))
	}

	s.recordActivity(ctx, userID, models.ActionReordered, models.EntityColumn, boardID, boardID, models.JSONMap{
		"count": len(updates),
	})

	columns, err := s.repo.ListColumns(ctx, boardID)
	if err != nil {
		return nil, apperrors.InternalError("failed to list columns", err)
	}
	return columns, nil
}
