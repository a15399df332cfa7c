package models

import (
	"time"
)

// MemberRole is a role within a workspace or board.
type MemberRole string

const (
	RoleAdmin  MemberRole = "admin"
	RoleMember MemberRole = "member"
	RoleViewer MemberRole = "viewer"
)

// Valid reports whether r is a known role.
func (r MemberRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// CanWrite reports whether the role may mutate content.
func (r MemberRole) CanWrite() bool {
	return r == RoleAdmin || r == RoleMember
}

// Priority of a task.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Workspace groups boards and owns a member list. The owner is always an
// admin member.
type Workspace struct {
	ID          string            `db:"id" json:"id"`
	Name        string            `db:"name" json:"name"`
	Description string            `db:"description" json:"description"`
	OwnerID     string            `db:"owner_id" json:"owner_id"`
	Members     []WorkspaceMember `db:"-" json:"members"`
	CreatedAt   time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time         `db:"updated_at" json:"updated_at"`
}

type WorkspaceMember struct {
	WorkspaceID string     `db:"workspace_id" json:"-"`
	UserID      string     `db:"user_id" json:"user_id"`
	Role        MemberRole `db:"role" json:"role"`
	JoinedAt    time.Time  `db:"joined_at" json:"joined_at"`
}

// RoleOf returns the role of userID, if a member.
func (w *Workspace) RoleOf(userID string) (MemberRole, bool) {
	for _, m := range w.Members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// IsOwner reports whether userID owns the workspace.
func (w *Workspace) IsOwner(userID string) bool {
	return w.OwnerID == userID
}

// Board belongs to a workspace. Columns holds column ids ordered by position.
type Board struct {
	ID          string        `db:"id" json:"id"`
	WorkspaceID string        `db:"workspace_id" json:"workspace_id"`
	Name        string        `db:"name" json:"name"`
	Description string        `db:"description" json:"description"`
	Columns     []string      `db:"-" json:"columns"`
	Members     []BoardMember `db:"-" json:"members"`
	CreatedBy   string        `db:"created_by" json:"created_by"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}

type BoardMember struct {
	BoardID  string     `db:"board_id" json:"-"`
	UserID   string     `db:"user_id" json:"user_id"`
	Role     MemberRole `db:"role" json:"role"`
	JoinedAt time.Time  `db:"joined_at" json:"joined_at"`
}

// RoleOf returns the board role of userID, if a board member.
func (b *Board) RoleOf(userID string) (MemberRole, bool) {
	for _, m := range b.Members {
		if m.UserID == userID {
			return m.Role, true
		}
	}
	return "", false
}

// Column is an ordered list of tasks on a board.
type Column struct {
	ID        string    `db:"id" json:"id"`
	BoardID   string    `db:"board_id" json:"board_id"`
	Name      string    `db:"name" json:"name"`
	Position  int       `db:"position" json:"position"`
	Color     string    `db:"color" json:"color"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Task is a card in a column. Comments are loaded separately.
type Task struct {
	ID          string         `db:"id" json:"id"`
	BoardID     string         `db:"board_id" json:"board_id"`
	ColumnID    string         `db:"column_id" json:"column_id"`
	Title       string         `db:"title" json:"title"`
	Description string         `db:"description" json:"description"`
	Position    int            `db:"position" json:"position"`
	AssigneeID  *string        `db:"assignee_id" json:"assignee_id"`
	Priority    Priority       `db:"priority" json:"priority"`
	DueDate     *time.Time     `db:"due_date" json:"due_date"`
	Tags        StringList     `db:"tags" json:"tags"`
	Attachments AttachmentList `db:"attachments" json:"attachments"`
	Comments    []Comment      `db:"-" json:"comments"`
	CreatedBy   string         `db:"created_by" json:"created_by"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at" json:"updated_at"`
}

// Assignee returns the assignee id or "".
func (t *Task) Assignee() string {
	if t.AssigneeID == nil {
		return ""
	}
	return *t.AssigneeID
}

type Comment struct {
	ID        string    `db:"id" json:"id"`
	TaskID    string    `db:"task_id" json:"task_id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Text      string    `db:"text" json:"text"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Attachment is stored metadata only; the file itself lives elsewhere.
type Attachment struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Size       int64     `json:"size"`
	MimeType   string    `json:"mime_type"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Activity is an immutable audit record.
type Activity struct {
	ID         string    `db:"id" json:"id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Action     string    `db:"action" json:"action"`
	EntityType string    `db:"entity_type" json:"entity_type"`
	EntityID   string    `db:"entity_id" json:"entity_id"`
	BoardID    *string   `db:"board_id" json:"board_id"`
	Details    JSONMap   `db:"details" json:"details"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}

// Activity entity types
const (
	EntityWorkspace = "workspace"
	EntityBoard     = "board"
	EntityColumn    = "column"
	EntityTask      = "task"
	EntityComment   = "comment"
)

// Activity actions
const (
	ActionCreated       = "created"
	ActionUpdated       = "updated"
	ActionDeleted       = "deleted"
	ActionMoved         = "moved"
	ActionReordered     = "reordered"
	ActionMemberAdded   = "member_added"
	ActionMemberUpdated = "member_updated"
	ActionMemberRemoved = "member_removed"
)

// PositionUpdate is one entry of a reorder batch.
type PositionUpdate struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}
