// Package repository defines storage for workspaces, boards, columns, tasks,
// comments and activities.
package repository

import (
	"context"
	"errors"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
)

// ErrAlreadyMember is returned when adding a member twice.
var ErrAlreadyMember = errors.New("already a member")

// TaskFilter narrows ListTasks. Empty fields do not filter.
type TaskFilter struct {
	BoardID    string
	ColumnID   string
	AssigneeID string
	Priority   string
}

// ActivityFilter narrows ListActivities. A zero Limit uses the default.
type ActivityFilter struct {
	BoardID    string
	UserID     string
	EntityType string
	EntityID   string
	Limit      int
	Offset     int
}

// Repository is the storage contract for the board domain. Missing rows are
// reported as a wrapped errors.ErrNotFound.
type Repository interface {
	// Workspace operations
	CreateWorkspace(ctx context.Context, workspace *models.Workspace) error
	GetWorkspace(ctx context.Context, id string) (*models.Workspace, error)
	UpdateWorkspace(ctx context.Context, workspace *models.Workspace) error
	DeleteWorkspace(ctx context.Context, id string) error
	ListWorkspacesForUser(ctx context.Context, userID string) ([]*models.Workspace, error)
	AddWorkspaceMember(ctx context.Context, member *models.WorkspaceMember) error
	UpdateWorkspaceMemberRole(ctx context.Context, workspaceID, userID string, role models.MemberRole) error
	RemoveWorkspaceMember(ctx context.Context, workspaceID, userID string) error

	// Board operations
	CreateBoard(ctx context.Context, board *models.Board) error
	GetBoard(ctx context.Context, id string) (*models.Board, error)
	UpdateBoard(ctx context.Context, board *models.Board) error
	DeleteBoard(ctx context.Context, id string) error
	ListBoards(ctx context.Context, workspaceID string) ([]*models.Board, error)
	AddBoardMember(ctx context.Context, member *models.BoardMember) error
	RemoveBoardMember(ctx context.Context, boardID, userID string) error

	// Column operations. CreateColumn appends: position is max+1, or 0.
	CreateColumn(ctx context.Context, column *models.Column) error
	GetColumn(ctx context.Context, id string) (*models.Column, error)
	UpdateColumn(ctx context.Context, column *models.Column) error
	DeleteColumn(ctx context.Context, id string) error
	ListColumns(ctx context.Context, boardID string) ([]*models.Column, error)
	SetColumnPosition(ctx context.Context, id string, position int) error

	// Task operations. CreateTask appends within its column.
	CreateTask(ctx context.Context, task *models.Task) error
	GetTask(ctx context.Context, id string) (*models.Task, error)
	UpdateTask(ctx context.Context, task *models.Task) error
	DeleteTask(ctx context.Context, id string) error
	ListTasks(ctx context.Context, filter TaskFilter) ([]*models.Task, error)
	MoveTask(ctx context.Context, id, columnID string, position *int) (*models.Task, error)
	SetTaskPosition(ctx context.Context, id string, position int) error

	// Comment operations
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetComment(ctx context.Context, id string) (*models.Comment, error)
	UpdateComment(ctx context.Context, comment *models.Comment) error
	DeleteComment(ctx context.Context, id string) error
	ListComments(ctx context.Context, taskID string) ([]models.Comment, error)

	// Activity operations
	CreateActivity(ctx context.Context, activity *models.Activity) error
	ListActivities(ctx context.Context, filter ActivityFilter) ([]*models.Activity, error)
}
