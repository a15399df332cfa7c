package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
)

type AddAttachmentRequest struct {
	Name     string
	URL      string
	Size     int64
	MimeType string
}

// AddAttachment records attachment metadata on the task.
func (s *Service) AddAttachment(ctx context.Context, userID, taskID string, req AddAttachmentRequest) (*models.Task, error) {
	name := strings.TrimSpace(req.Name)
	url := strings.TrimSpace(req.URL)
	if name == "" {
		return nil, apperrors.ValidationError("name", "is required")
	}
	if url == "" {
		return nil, apperrors.ValidationError("url", "is required")
	}
	if req.Size < 0 {
		return nil, apperrors.ValidationError("size", "must not be negative")
	}
	task, _, err := s.loadTask(ctx, taskID, userID, true)
	if err != nil {
		return nil, err
	}

	attachment := models.Attachment{
		ID:         uuid.New().String(),
		Name:       name,
		URL:        url,
		Size:       req.Size,
		MimeType:   strings.TrimSpace(req.MimeType),
		UploadedBy: userID,
		UploadedAt: time.Now().UTC(),
	}
	task.Attachments = append(task.Attachments, attachment)
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, apperrors.Wrap(err, "failed to add attachment")
	}

	s.recordActivity(ctx, userID, models.ActionUpdated, models.EntityTask, task.ID, task.BoardID, models.JSONMap{
		"attachment_added": attachment.Name,
	})
	s.publishEventToBus(ctx, events.TaskUpdated, "task", task.ID, withActor(taskData(task), userID))
	return task, nil
}

func (s *Service) DeleteAttachment(ctx context.Context, userID, taskID, attachmentID string) (*models.Task, error) {
	task, _, err := s.loadTask(ctx, taskID, userID, true)
	if err != nil {
		return nil, err
	}

	kept := make(models.AttachmentList, 0, len(task.Attachments))
	var removed *models.Attachment
	for i := range task.Attachments {
		if task.Attachments[i].ID == attachmentID {
			removed = &task.Attachments[i]
			continue
		}
		kept = append(kept, task.Attachments[i])
	}
	if removed == nil {
		return nil, apperrors.NotFound("attachment")
	}
	task.Attachments = kept
	if err := s.repo.UpdateTask(ctx, task); err != nil {
		return nil, apperrors.Wrap(err, "failed to delete attachment")
	}

	s.recordActivity(ctx, userID, models.ActionUpdated, models.EntityTask, task.ID, task.BoardID, models.JSONMap{
		"attachment_removed": removed.Name,
	})
	s.publishEventToBus(ctx, events.TaskUpdated, "task", task.ID, withActor(taskData(task), userID))
	return task, nil
}
