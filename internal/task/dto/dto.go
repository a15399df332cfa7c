// Package dto holds the JSON request bodies of the board domain API.
// Responses use the models directly.
package dto

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
)

type CreateWorkspaceRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateWorkspaceRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type AddMemberRequest struct {
	UserID string            `json:"user_id"`
	Role   models.MemberRole `json:"role"`
}

type UpdateMemberRequest struct {
	Role models.MemberRole `json:"role"`
}

type CreateBoardRequest struct {
	WorkspaceID string `json:"workspace_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type UpdateBoardRequest struct {
	Name        *string `json:"name,omitempty"`
	Description *string `json:"description,omitempty"`
}

type CreateColumnRequest struct {
	BoardID string `json:"board_id"`
	Name    string `json:"name"`
	Color   string `json:"color,omitempty"`
}

type UpdateColumnRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

type ReorderColumnsRequest struct {
	BoardID string                  `json:"board_id,omitempty"`
	Columns []models.PositionUpdate `json:"columns"`
}

type CreateTaskRequest struct {
	ColumnID    string     `json:"column_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	AssigneeID  *string    `json:"assignee_id,omitempty"`
	Priority    string     `json:"priority,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Tags        []string   `json:"tags,omitempty"`
}

// UpdateTaskRequest uses raw JSON for due_date so that an explicit null
// clears it while an absent field leaves it alone.
type UpdateTaskRequest struct {
	Title       *string         `json:"title,omitempty"`
	Description *string         `json:"description,omitempty"`
	AssigneeID  *string         `json:"assignee_id,omitempty"`
	Priority    *string         `json:"priority,omitempty"`
	DueDate     json.RawMessage `json:"due_date,omitempty"`
	Tags        *[]string       `json:"tags,omitempty"`
}

// ParseDueDate returns (nil, true) for an explicit null and (nil, false)
// when the field was absent.
func (r UpdateTaskRequest) ParseDueDate() (*time.Time, bool, error) {
	if len(r.DueDate) == 0 {
		return nil, false, nil
	}
	if string(r.DueDate) == "null" {
		return nil, true, nil
	}
	var due time.Time
	if err := json.Unmarshal(r.DueDate, &due); err != nil {
		return nil, false, fmt.Errorf("due_date: %w", err)
	}
	return &due, false, nil
}

type MoveTaskRequest struct {
	ColumnID string `json:"column_id"`
	Position *int   `json:"position,omitempty"`
}

type ReorderTasksRequest struct {
	Tasks []models.PositionUpdate `json:"tasks"`
}

type CommentRequest struct {
	Text string `json:"text"`
}

type AddAttachmentRequest struct {
	Name     string `json:"name"`
	URL      string `json:"url"`
	Size     int64  `json:"size"`
	MimeType string `json:"mime_type"`
}
