package service

import (
	"context"
	"strings"
	"time"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events"
	notificationmodels "github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository"
)

type CreateTaskRequest struct {
	ColumnID    string
	Title       string
	Description string
	AssigneeID  *string
	Priority    models.Priority
	DueDate     *time.Time
	Tags        []string
}

// UpdateTaskRequest carries optional changes. An empty AssigneeID clears
// the assignee; ClearDueDate removes the due date.
type UpdateTaskRequest struct {
	Title        *string
	Description  *string
	AssigneeID   *string
	Priority     *models.Priority
	DueDate      *time.Time
	ClearDueDate bool
	Tags         *[]string
}

type MoveTaskRequest struct {
	ColumnID string
	Position *int
}

func cleanTags(tags []string) models.StringList {
	out := models.StringList{}
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// CreateTask appends a task to a column. The board is taken from the column.
func (s *Service) CreateTask(ctx context.Context, userID string, req CreateTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.ColumnID) == "" {
		return nil, apperrors.ValidationError("column_id", "is required")
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, apperrors.ValidationError("title", "is required")
	}
	priority := req.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	if !priority.Valid() {
		return nil, apperrors.ValidationError("priority", "must be low, medium, high or urgent")
	}

	column, _, err := s.loadColumn(ctx, req.ColumnID, userID, true)
	if err != nil {
		return nil, err
	}

	var assignee *string
	if req.AssigneeID != nil && strings.TrimSpace(*req.AssigneeID) != "" {
		id := strings.TrimSpace(*req.AssigneeID)
		if err := s.ensureUserExists(ctx, id); err != nil {
			return nil, err
		}
		assignee = &id
	}

	task := &models.Task{
		BoardID:     column.BoardID,
		ColumnID:    column.ID,
		Title:       title,
		Description: strings.TrimSpace(req.Description),
		AssigneeID:  assignee,
		Priority:    priority,
		DueDate:     req.DueDate,
		Tags:        cleanTags(req.Tags),
		Attachments: models.AttachmentList{},
		CreatedBy:   userID,
	}
	if err := s.repo.CreateTask(ctx, task); err != nil {
		return nil, apperrors.InternalError("failed to create task", err)
	}

	s.recordActivity(ctx, userID, models.ActionCreated, models.EntityTask, task.ID, task.BoardID, models.JSONMap{
		"title":     task.Title,
		"column_id": task.ColumnID,
	})
	s.publishEventToBus(ctx, events.TaskCreated, "task", task.ID, withActor(taskData(task), userID))
	if assignee != nil {
		s.notifyAssigned(ctx, userID, task)
	}
	return task, nil
}

func (s *Service) notifyAssigned(ctx context.Context, actorID string, task *models.Task) {
	s.notify(ctx, actorID, &notificationmodels.Notification{
		UserID:  task.Assignee(),
		Type:    notificationmodels.TypeTaskAssigned,
		Title:   "Task assigned",
		Message: "You were assigned to " + task.Title,
		Data:    notificationmodels.Data{BoardID: task.BoardID, TaskID: task.ID},
		Link:    "/boards/" + task.BoardID + "?task=" + task.ID,
	})
}

// loadTask returns the task together with the caller's board access.
func (s *Service) loadTask(ctx context.Context, id, userID string, write bool) (*models.Task, *boardAccess, error) {
	task, err := s.repo.GetTask(ctx, id)
	if err != nil {
		return nil, nil, apperrors.Wrap(err, "task not found")
	}
	var access *boardAccess
	if write {
		access, err = s.boardWrite(ctx, task.BoardID, userID)
	} else {
		access, err = s.boardRead(ctx, task.BoardID, userID)
	}
	if err != nil {
		return nil, nil, err
	}
	return task, access, nil
}

func (s *Service) GetTask(ctx context.Context, userID, id string) (*models.Task, error) {
	task, _, err := s.loadTask(ctx, id, userID, false)
	return task, err
}

// ListTasks needs a board or a column to scope the query.
func (s *Service) ListTasks(ctx context.Context, userID string, filter repository.TaskFilter) ([]*models.Task, error) {
	if filter.BoardID == "" && filter.ColumnID == "" {
		return nil, apperrors.BadRequest("board_id or column_id is required")
	}
	if filter.Priority != "" && !models.Priority(filter.Priority).Valid() {
		return nil, apperrors.ValidationError("priority", "must be low, medium, high or urgent")
	}
	boardID := filter.BoardID
	if boardID == "" {
		column, err := s.repo.GetColumn(ctx, filter.ColumnID)
		if err != nil {
			return nil, apperrors.Wrap(err, "column not found")
		}
		boardID = column.BoardID
	}
	if _, err := s.boardRead(ctx, boardID, userID); err != nil {
		return nil, err
	}
	tasks, err := s.repo.ListTasks(ctx, filter)
	if err != nil {
		return nil, apperrors.InternalError("failed to list tasks", err)
	}
	return tasks, nil
}

func (s *Service) UpdateTask(ctx context.Context, userID, id string, req UpdateTaskRequest) (*models.Task, error) {
	task, _, err := s.loadTask(ctx, id, userID, true)
	if err != nil {
		return nil, err
	}
	previousAssignee := task.Assignee()
	changes := models.JSONMap{}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, apperrors.ValidationError("title", "is required")
		}
		task.Title = title
		changes["title"] = title
	}
	if req.Description != nil {
		task.Description = strings.TrimSpace(*req.Description)
		changes["description"] = task.Description
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			return nil, apperrors.ValidationError("priority", "must be low, medium, high or urgent")
		}
		task.Priority = *req.Priority
		changes["priority"] = string(task.Priority)
	}
	if req.AssigneeID != nil {
		assignee := strings.TrimSpace(*req.AssigneeID)
		if assignee == "" {
			task.AssigneeID = nil
		} else {
			if assignee != previousAssignee {
				if err := s.ensureUserExists(ctx, assignee); err != nil {
					return nil, err
				}
			}
			task.AssigneeID = &assignee
		}
		changes["assignee_id"] = assignee
	}
	if req.ClearDueDate {
		task.DueDate = nil
		changes["due_date"] = nil
	} else if req.DueDate != nil {
		due := req.DueDate.UTC()
		task.DueDate = &due
		changes["due_date"] = due.Format(time.RFC3339)
	}
	if req.Tags != nil {
		task.Tags = cleanTags(*req.Tags)
		changes["tags"] = []string(task.Tags)
	}

	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, apperrors.Wrap(err, "failed to update task")
	}

	s.recordActivity(ctx, userID, models.ActionUpdated, models.EntityTask, task.ID, task.BoardID, changes)
	s.publishEventToBus(ctx, events.TaskUpdated, "task", task.ID, withActor(taskData(task), userID))
	if current := task.Assignee(); current != "" && current != previousAssignee {
		s.notifyAssigned(ctx, userID, task)
	}
	return task, nil
}

func (s *Service) DeleteTask(ctx context.Context, userID, id string) error {
	task, _, err := s.loadTask(ctx, id, userID, true)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteTask(ctx, id); err != nil {
		return apperrors.Wrap(err, "failed to delete task")
	}

	s.recordActivity(ctx, userID, models.ActionDeleted, models.EntityTask, id, task.BoardID, models.JSONMap{"title": task.Title})
	s.publishEventToBus(ctx, events.TaskDeleted, "task", id, withActor(map[string]interface{}{
		"id":        id,
		"task_id":   id,
		"board_id":  task.BoardID,
		"column_id": task.ColumnID,
	}, userID))
	return nil
}

// MoveTask places the task in a column of the same board. A nil position
// appends. Other tasks keep their positions.
func (s *Service) MoveTask(ctx context.Context, userID, id string, req MoveTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.ColumnID) == "" {
		return nil, apperrors.ValidationError("column_id", "is required")
	}
	if req.Position != nil && *req.Position < 0 {
		return nil, apperrors.ValidationError("position", "must not be negative")
	}
	task, _, err := s.loadTask(ctx, id, userID, true)
	if err != nil {
		return nil, err
	}
	dest, err := s.repo.GetColumn(ctx, req.ColumnID)
	if err != nil {
		return nil, apperrors.Wrap(err, "column not found")
	}
	if dest.BoardID != task.BoardID {
		return nil, apperrors.BadRequest("cannot move a task to another board")
	}

	fromColumnID := task.ColumnID
	moved, err := s.repo.MoveTask(ctx, id, dest.ID, req.Position)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to move task")
	}

	s.recordActivity(ctx, userID, models.ActionMoved, models.EntityTask, id, moved.BoardID, models.JSONMap{
		"from_column_id": fromColumnID,
		"to_column_id":   moved.ColumnID,
		"position":       moved.Position,
	})
	s.publishEventToBus(ctx, events.TaskMoved, "task", id, withActor(map[string]interface{}{
		"id":             moved.ID,
		"task_id":        moved.ID,
		"board_id":       moved.BoardID,
		"from_column_id": fromColumnID,
		"column_id":      moved.ColumnID,
		"position":       moved.Position,
		"task":           taskData(moved),
	}, userID))
	return moved, nil
}

// ReorderTasks applies each {id, position} as an independent write, in
// order, like ReorderColumns. All tasks must be on one board.
func (s *Service) ReorderTasks(ctx context.Context, userID string, updates []models.PositionUpdate) ([]*models.Task, error) {
	if len(updates) == 0 {
		return nil, apperrors.ValidationError("tasks", "must not be empty")
	}
	for _, u := range updates {
		if strings.TrimSpace(u.ID) == "" {
			return nil, apperrors.ValidationError("tasks", "entries need an id")
		}
	}

	boardID := ""
	for _, u := range updates {
		task, err := s.repo.GetTask(ctx, u.ID)
		if err != nil {
			return nil, apperrors.Wrap(err, "task not found")
		}
		if boardID == "" {
			if _, err := s.boardWrite(ctx, task.BoardID, userID); err != nil {
				return nil, err
			}
			boardID = task.BoardID
		} else if task.BoardID != boardID {
			return nil, apperrors.BadRequest("task " + u.ID + " belongs to another board")
		}
		if err := s.repo.SetTaskPosition(ctx, u.ID, u.Position); err != nil {
			return nil, apperrors.Wrap(err, "task not found")
		}
		task.Position = u.Position
		s.publishEventToBus(ctx, events.TaskUpdated, "task", task.ID, withActor(taskData(task), userID))
	}

	s.recordActivity(ctx, userID, models.ActionReordered, models.EntityTask, boardID, boardID, models.JSONMap{
		"count": len(updates),
	})

	tasks, err := s.repo.ListTasks(ctx, repository.TaskFilter{BoardID: boardID})
	if err != nil {
		return nil, apperrors.InternalError("failed to list tasks", err)
	}
	return tasks, nil
}
