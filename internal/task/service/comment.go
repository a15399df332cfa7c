package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events"
	notificationmodels "github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
)

func (s *Service) ListComments(ctx context.Context, userID, taskID string) ([]models.Comment, error) {
	task, _, err := s.loadTask(ctx, taskID, userID, false)
	if err != nil {
		return nil, err
	}
	return task.Comments, nil
}

// AddComment appends a comment and notifies the assignee and the creator.
func (s *Service) AddComment(ctx context.Context, userID, taskID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ValidationError("text", "is required")
	}
	task, _, err := s.loadTask(ctx, taskID, userID, true)
	if err != nil {
		return nil, err
	}

	comment := &models.Comment{TaskID: task.ID, UserID: userID, Text: text}
	if err := s.repo.CreateComment(ctx, comment); err != nil {
		return nil, apperrors.InternalError("failed to add comment", err)
	}

	s.recordActivity(ctx, userID, models.ActionCreated, models.EntityComment, comment.ID, task.BoardID, models.JSONMap{
		"task_id": task.ID,
	})
	s.publishTaskChanged(ctx, userID, task.ID)

	recipients := []string{task.Assignee()}
	if task.CreatedBy != task.Assignee() {
		recipients = append(recipients, task.CreatedBy)
	}
	for _, recipient := range recipients {
		s.notify(ctx, userID, &notificationmodels.Notification{
			UserID:  recipient,
			Type:    notificationmodels.TypeTaskCommented,
			Title:   "New comment",
			Message: "New comment on " + task.Title,
			Data:    notificationmodels.Data{BoardID: task.BoardID, TaskID: task.ID},
			Link:    "/boards/" + task.BoardID + "?task=" + task.ID,
		})
	}
	return comment, nil
}

// loadComment resolves a comment that must belong to taskID.
func (s *Service) loadComment(ctx context.Context, taskID, commentID string) (*models.Comment, error) {
	comment, err := s.repo.GetComment(ctx, commentID)
	if err != nil {
		return nil, apperrors.Wrap(err, "comment not found")
	}
	if comment.TaskID != taskID {
		return nil, apperrors.NotFound("comment")
	}
	return comment, nil
}

// UpdateComment is allowed for the author only.
func (s *Service) UpdateComment(ctx context.Context, userID, taskID, commentID, text string) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, apperrors.ValidationError("text", "is required")
	}
	task, _, err := s.loadTask(ctx, taskID, userID, false)
	if err != nil {
		return nil, err
	}
	comment, err := s.loadComment(ctx, task.ID, commentID)
	if err != nil {
		return nil, err
	}
	if comment.UserID != userID {
		return nil, apperrors.Forbidden("only the author can edit a comment")
	}

	comment.Text = text
	if err := s.repo.UpdateComment(ctx, comment); err != nil {
		return nil, apperrors.Wrap(err, "failed to update comment")
	}
	s.recordActivity(ctx, userID, models.ActionUpdated, models.EntityComment, comment.ID, task.BoardID, models.JSONMap{
		"task_id": task.ID,
	})
	s.publishTaskChanged(ctx, userID, task.ID)
	return comment, nil
}

// DeleteComment is allowed for the author or a board admin.
func (s *Service) DeleteComment(ctx context.Context, userID, taskID, commentID string) error {
	task, access, err := s.loadTask(ctx, taskID, userID, false)
	if err != nil {
		return err
	}
	comment, err := s.loadComment(ctx, task.ID, commentID)
	if err != nil {
		return err
	}
	if comment.UserID != userID && !access.isAdmin() {
		return apperrors.Forbidden("only the author or a board admin can delete a comment")
	}

	if err := s.repo.DeleteComment(ctx, comment.ID); err != nil {
		return apperrors.Wrap(err, "failed to delete comment")
	}
	s.recordActivity(ctx, userID, models.ActionDeleted, models.EntityComment, comment.ID, task.BoardID, models.JSONMap{
		"task_id": task.ID,
	})
	s.publishTaskChanged(ctx, userID, task.ID)
	return nil
}

// publishTaskChanged reloads the task and emits task.updated.
func (s *Service) publishTaskChanged(ctx context.Context, userID, taskID string) {
	task, err := s.repo.GetTask(ctx, taskID)
	if err != nil {
		s.logger.Warn("failed to reload task for event", zap.String("task_id", taskID), zap.Error(err))
		return
	}
	s.publishEventToBus(ctx, events.TaskUpdated, "task", task.ID, withActor(taskData(task), userID))
}
