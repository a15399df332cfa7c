// Package events defines the bus subjects published by the kanban services.
package events

// Event types for workspaces
const (
	WorkspaceCreated       = "workspace.created"
	WorkspaceUpdated       = "workspace.updated"
	WorkspaceDeleted       = "workspace.deleted"
	WorkspaceMemberAdded   = "workspace.member_added"
	WorkspaceMemberUpdated = "workspace.member_updated"
	WorkspaceMemberRemoved = "workspace.member_removed"
)

// Event types for boards
const (
	BoardCreated       = "board.created"
	BoardUpdated       = "board.updated"
	BoardDeleted       = "board.deleted"
	BoardMemberAdded   = "board.member_added"
	BoardMemberRemoved = "board.member_removed"
)

// Event types for columns
const (
	ColumnCreated = "column.created"
	ColumnUpdated = "column.updated"
	ColumnDeleted = "column.deleted"
)

// Event types for tasks
const (
	TaskCreated = "task.created"
	TaskUpdated = "task.updated"
	TaskDeleted = "task.deleted"
	TaskMoved   = "task.moved"
)

// NotificationCreated is published for every stored notification.
const NotificationCreated = "notification.created"

// AllSubjects is the wildcard set the realtime gateway subscribes to.
var AllSubjects = []string{
	"workspace.*",
	"board.*",
	"column.*",
	"task.*",
	NotificationCreated,
}
