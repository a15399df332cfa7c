package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/events/bus"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
)

// publishEventToBus is fire-and-forget: failures are logged and never fail
// the mutation that caused them.
func (s *Service) publishEventToBus(ctx context.Context, eventType, resourceType, resourceID string, data map[string]interface{}) {
	if s.eventBus == nil {
		return
	}
	event := bus.NewEvent(eventType, "task-service", data)
	if err := s.eventBus.Publish(ctx, eventType, event); err != nil {
		s.logger.Error("failed to publish "+resourceType+" event",
			zap.String("event_type", eventType),
			zap.String(resourceType+"_id", resourceID),
			zap.Error(err))
	}
}

func withActor(data map[string]interface{}, actorID string) map[string]interface{} {
	data["actor_id"] = actorID
	return data
}

func workspaceData(ws *models.Workspace) map[string]interface{} {
	members := make([]map[string]interface{}, 0, len(ws.Members))
	for _, m := range ws.Members {
		members = append(members, map[string]interface{}{
			"user_id":   m.UserID,
			"role":      string(m.Role),
			"joined_at": m.JoinedAt.Format(time.RFC3339),
		})
	}
	return map[string]interface{}{
		"id":           ws.ID,
		"workspace_id": ws.ID,
		"name":         ws.Name,
		"description":  ws.Description,
		"owner_id":     ws.OwnerID,
		"members":      members,
		"created_at":   ws.CreatedAt.Format(time.RFC3339),
		"updated_at":   ws.UpdatedAt.Format(time.RFC3339),
	}
}

func boardData(b *models.Board) map[string]interface{} {
	members := make([]map[string]interface{}, 0, len(b.Members))
	for _, m := range b.Members {
		members = append(members, map[string]interface{}{
			"user_id": m.UserID,
			"role":    string(m.Role),
		})
	}
	columns := b.Columns
	if columns == nil {
		columns = []string{}
	}
	return map[string]interface{}{
		"id":           b.ID,
		"board_id":     b.ID,
		"workspace_id": b.WorkspaceID,
		"name":         b.Name,
		"description":  b.Description,
		"columns":      columns,
		"members":      members,
		"created_by":   b.CreatedBy,
		"created_at":   b.CreatedAt.Format(time.RFC3339),
		"updated_at":   b.UpdatedAt.Format(time.RFC3339),
	}
}

func columnData(c *models.Column) map[string]interface{} {
	return map[string]interface{}{
		"id":         c.ID,
		"board_id":   c.BoardID,
		"name":       c.Name,
		"position":   c.Position,
		"color":      c.Color,
		"created_at": c.CreatedAt.Format(time.RFC3339),
		"updated_at": c.UpdatedAt.Format(time.RFC3339),
	}
}

func taskData(t *models.Task) map[string]interface{} {
	data := map[string]interface{}{
		"id":          t.ID,
		"task_id":     t.ID,
		"board_id":    t.BoardID,
		"column_id":   t.ColumnID,
		"title":       t.Title,
		"description": t.Description,
		"position":    t.Position,
		"assignee_id": t.AssigneeID,
		"priority":    string(t.Priority),
		"due_date":    nil,
		"tags":        t.Tags,
		"attachments": t.Attachments,
		"comments":    t.Comments,
		"created_by":  t.CreatedBy,
		"created_at":  t.CreatedAt.Format(time.RFC3339),
		"updated_at":  t.UpdatedAt.Format(time.RFC3339),
	}
	if t.DueDate != nil {
		data["due_date"] = t.DueDate.Format(time.RFC3339)
	}
	return data
}

// recordActivity appends to the audit log. Failures are logged only.
func (s *Service) recordActivity(ctx context.Context, userID, action, entityType, entityID, boardID string, details models.JSONMap) {
	activity := &models.Activity{
		UserID:     userID,
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if boardID != "" {
		activity.BoardID = &boardID
	}
	if err := s.repo.CreateActivity(ctx, activity); err != nil {
		s.logger.Error("failed to record activity",
			zap.String("action", action),
			zap.String("entity_type", entityType),
			zap.String("entity_id", entityID),
			zap.Error(err))
	}
}
