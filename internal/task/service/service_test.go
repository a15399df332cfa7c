package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/IsSact22/Gestion-tareas-sub001/internal/common/errors"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/db/dbtest"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events/bus"
	notificationmodels "github.com/IsSact22/Gestion-tareas-sub001/internal/notifications/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/models"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/task/repository/sqldb"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []*notificationmodels.Notification
}

func (f *fakeNotifier) Notify(_ context.Context, n *notificationmodels.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, n)
	return nil
}

func (f *fakeNotifier) recipients(typ notificationmodels.Type) []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, n := range f.sent {
		if n.Type == typ {
			out = append(out, n.UserID)
		}
	}
	return out
}

// fakeUsers knows every user except "ghost".
type fakeUsers struct{}

func (fakeUsers) Exists(_ context.Context, id string) (bool, error) {
	return id != "ghost", nil
}

type fixture struct {
	svc      *Service
	notifier *fakeNotifier
	bus      *bus.MemoryEventBus
	ws       *models.Workspace
	board    *models.Board
}

// newFixture creates a workspace owned by "owner" with "member" and
// "viewer" workspace members, plus one board.
func newFixture(t *testing.T) *fixture {
	t.Helper()
	eventBus := bus.NewMemoryEventBus(logger.NewNop())
	t.Cleanup(eventBus.Close)
	notifier := &fakeNotifier{}
	repo := sqldb.NewWithPool(dbtest.NewSQLitePool(t))
	svc := NewService(repo, eventBus, fakeUsers{}, notifier, logger.NewNop())

	ctx := context.Background()
	ws, err := svc.CreateWorkspace(ctx, "owner", CreateWorkspaceRequest{Name: "Team"})
	require.NoError(t, err)
	_, err = svc.AddWorkspaceMember(ctx, "owner", ws.ID, "member", models.RoleMember)
	require.NoError(t, err)
	ws, err = svc.AddWorkspaceMember(ctx, "owner", ws.ID, "viewer", models.RoleViewer)
	require.NoError(t, err)

	board, err := svc.CreateBoard(ctx, "owner", CreateBoardRequest{WorkspaceID: ws.ID, Name: "Sprint"})
	require.NoError(t, err)

	return &fixture{svc: svc, notifier: notifier, bus: eventBus, ws: ws, board: board}
}

func (f *fixture) column(t *testing.T, name string) *models.Column {
	t.Helper()
	col, err := f.svc.CreateColumn(context.Background(), "owner", CreateColumnRequest{BoardID: f.board.ID, Name: name})
	require.NoError(t, err)
	return col
}

func (f *fixture) task(t *testing.T, col *models.Column, title string) *models.Task {
	t.Helper()
	task, err := f.svc.CreateTask(context.Background(), "owner", CreateTaskRequest{ColumnID: col.ID, Title: title})
	require.NoError(t, err)
	return task
}

func (f *fixture) capture(t *testing.T, subject string) <-chan *bus.Event {
	t.Helper()
	ch := make(chan *bus.Event, 16)
	_, err := f.bus.Subscribe(subject, func(_ context.Context, e *bus.Event) error {
		ch <- e
		return nil
	})
	require.NoError(t, err)
	return ch
}

func waitEvent(t *testing.T, ch <-chan *bus.Event) *bus.Event {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return nil
	}
}

func positions(columns []*models.Column) map[string]int {
	out := make(map[string]int, len(columns))
	for _, c := range columns {
		out[c.ID] = c.Position
	}
	return out
}

func TestCreateWorkspace_OwnerIsAdminMember(t *testing.T) {
	f := newFixture(t)

	role, ok := f.ws.RoleOf("owner")
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, role)
	assert.Equal(t, "owner", f.ws.OwnerID)
	assert.ElementsMatch(t, []string{"member", "viewer"}, f.notifier.recipients(notificationmodels.TypeWorkspaceInvitation))
}

func TestWorkspaceOwnerCannotBeRemovedOrDemoted(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.RemoveWorkspaceMember(ctx, "owner", f.ws.ID, "owner")
	require.Error(t, err)
	assert.True(t, apperrors.IsBadRequest(err))

	_, err = f.svc.UpdateWorkspaceMember(ctx, "owner", f.ws.ID, "owner", models.RoleViewer)
	assert.True(t, apperrors.IsBadRequest(err))

	ws, err := f.svc.GetWorkspace(ctx, "owner", f.ws.ID)
	require.NoError(t, err)
	role, ok := ws.RoleOf("owner")
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, role)
}

func TestWorkspaceMembership(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.AddWorkspaceMember(ctx, "owner", f.ws.ID, "member", models.RoleMember)
	assert.True(t, apperrors.IsBadRequest(err))

	_, err = f.svc.AddWorkspaceMember(ctx, "owner", f.ws.ID, "ghost", models.RoleMember)
	assert.True(t, apperrors.IsNotFound(err))

	_, err = f.svc.AddWorkspaceMember(ctx, "member", f.ws.ID, "someone", models.RoleMember)
	assert.Equal(t, 403, apperrors.GetHTTPStatus(err))

	_, err = f.svc.GetWorkspace(ctx, "stranger", f.ws.ID)
	assert.Equal(t, 403, apperrors.GetHTTPStatus(err))

	ws, err := f.svc.RemoveWorkspaceMember(ctx, "member", f.ws.ID, "member")
	require.NoError(t, err)
	_, ok := ws.RoleOf("member")
	assert.False(t, ok)

	assert.Equal(t, 403, apperrors.GetHTTPStatus(f.svc.DeleteWorkspace(ctx, "viewer", f.ws.ID)))
	require.NoError(t, f.svc.DeleteWorkspace(ctx, "owner", f.ws.ID))
	_, err = f.svc.GetBoard(ctx, "owner", f.board.ID)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestBoardAccess(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.CreateBoard(ctx, "viewer", CreateBoardRequest{WorkspaceID: f.ws.ID, Name: "Nope"})
	assert.Equal(t, 403, apperrors.GetHTTPStatus(err))

	board, err := f.svc.CreateBoard(ctx, "member", CreateBoardRequest{WorkspaceID: f.ws.ID, Name: "Mine"})
	require.NoError(t, err)
	role, ok := board.RoleOf("member")
	require.True(t, ok)
	assert.Equal(t, models.RoleAdmin, role)

	// Workspace viewers read every board but cannot change them.
	_, err = f.svc.GetBoard(ctx, "viewer", f.board.ID)
	require.NoError(t, err)
	_, err = f.svc.CreateColumn(ctx, "viewer", CreateColumnRequest{BoardID: f.board.ID, Name: "x"})
	assert.Equal(t, 403, apperrors.GetHTTPStatus(err))

	ok, err = f.svc.CanAccessBoard(ctx, f.board.ID, "stranger")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = f.svc.CanAccessBoard(ctx, "missing", "owner")
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = f.svc.CanAccessWorkspace(ctx, f.ws.ID, "viewer")
	require.NoError(t, err)
	assert.True(t, ok)

	boards, err := f.svc.ListBoards(ctx, "viewer", f.ws.ID)
	require.NoError(t, err)
	assert.Len(t, boards, 2)
}

func TestAddBoardMember(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	added := f.capture(t, events.BoardMemberAdded)

	board, err := f.svc.AddBoardMember(ctx, "owner", f.board.ID, "guest", models.RoleMember)
	require.NoError(t, err)
	_, ok := board.RoleOf("guest")
	assert.True(t, ok)

	e := waitEvent(t, added)
	assert.Equal(t, f.board.ID, e.String("board_id"))
	assert.Equal(t, "guest", e.String("user_id"))
	assert.Equal(t, []string{"guest"}, f.notifier.recipients(notificationmodels.TypeBoardInvitation))

	_, err = f.svc.AddBoardMember(ctx, "owner", f.board.ID, "guest", models.RoleMember)
	assert.True(t, apperrors.IsBadRequest(err))

	// Board-only members can read the board but not administer it.
	_, err = f.svc.GetBoard(ctx, "guest", f.board.ID)
	require.NoError(t, err)
	_, err = f.svc.AddBoardMember(ctx, "guest", f.board.ID, "other", models.RoleMember)
	assert.Equal(t, 403, apperrors.GetHTTPStatus(err))
}

func TestColumns_AppendAndDefaultColor(t *testing.T) {
	f := newFixture(t)

	a := f.column(t, "Todo")
	b := f.column(t, "Doing")
	c := f.column(t, "Done")
	assert.Equal(t, []int{0, 1, 2}, []int{a.Position, b.Position, c.Position})
	assert.Equal(t, defaultColumnColor, a.Color)

	board, err := f.svc.GetBoard(context.Background(), "owner", f.board.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, board.Columns)

	_, err = f.svc.CreateColumn(context.Background(), "owner", CreateColumnRequest{BoardID: f.board.ID})
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestReorderColumns_Swap(t *testing.T) {
	f := newFixture(t)
	a := f.column(t, "A")
	b := f.column(t, "B")
	updated := f.capture(t, events.ColumnUpdated)

	columns, err := f.svc.ReorderColumns(context.Background(), "owner", f.board.ID, []models.PositionUpdate{
		{ID: a.ID, Position: 1},
		{ID: b.ID, Position: 0},
	})
	require.NoError(t, err)
	require.Len(t, columns, 2)
	assert.Equal(t, b.ID, columns[0].ID)
	assert.Equal(t, a.ID, columns[1].ID)

	waitEvent(t, updated)
	waitEvent(t, updated)
}

func TestReorderColumns_DuplicatePositionsAreKept(t *testing.T) {
	f := newFixture(t)
	a := f.column(t, "A")
	b := f.column(t, "B")
	c := f.column(t, "C")

	columns, err := f.svc.ReorderColumns(context.Background(), "owner", "", []models.PositionUpdate{
		{ID: c.ID, Position: 1},
	})
	require.NoError(t, err)
	got := positions(columns)
	assert.Equal(t, 0, got[a.ID])
	assert.Equal(t, 1, got[b.ID])
	assert.Equal(t, 1, got[c.ID])
}

func TestReorderColumns_UnknownIDStopsBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	a := f.column(t, "A")
	b := f.column(t, "B")

	_, err := f.svc.ReorderColumns(ctx, "owner", f.board.ID, []models.PositionUpdate{
		{ID: a.ID, Position: 5},
		{ID: "missing", Position: 0},
		{ID: b.ID, Position: 7},
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	columns, err := f.svc.ListColumns(ctx, "owner", f.board.ID)
	require.NoError(t, err)
	got := positions(columns)
	assert.Equal(t, 5, got[a.ID])
	assert.Equal(t, 1, got[b.ID])
}

func TestCreateTask(t *testing.T) {
	f := newFixture(t)
	col := f.column(t, "Todo")
	created := f.capture(t, events.TaskCreated)

	first := f.task(t, col, "one")
	second := f.task(t, col, "two")
	assert.Equal(t, f.board.ID, first.BoardID)
	assert.Equal(t, 0, first.Position)
	assert.Equal(t, 1, second.Position)
	assert.Equal(t, models.PriorityMedium, first.Priority)

	e := waitEvent(t, created)
	assert.Equal(t, f.board.ID, e.String("board_id"))
	assert.Equal(t, "owner", e.String("actor_id"))

	_, err := f.svc.CreateTask(context.Background(), "owner", CreateTaskRequest{ColumnID: col.ID, Title: "x", Priority: "asap"})
	assert.True(t, apperrors.IsBadRequest(err))

	_, err = f.svc.ListTasks(context.Background(), "owner", repository.TaskFilter{})
	assert.True(t, apperrors.IsBadRequest(err))

	tasks, err := f.svc.ListTasks(context.Background(), "owner", repository.TaskFilter{ColumnID: col.ID})
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestTaskAssignmentNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := f.column(t, "Todo")

	self := "owner"
	_, err := f.svc.CreateTask(ctx, "owner", CreateTaskRequest{ColumnID: col.ID, Title: "mine", AssigneeID: &self})
	require.NoError(t, err)
	assert.Empty(t, f.notifier.recipients(notificationmodels.TypeTaskAssigned))

	task := f.task(t, col, "theirs")
	assignee := "member"
	updated, err := f.svc.UpdateTask(ctx, "owner", task.ID, UpdateTaskRequest{AssigneeID: &assignee})
	require.NoError(t, err)
	assert.Equal(t, "member", updated.Assignee())
	assert.Equal(t, []string{"member"}, f.notifier.recipients(notificationmodels.TypeTaskAssigned))

	// Saving the same assignee again does not notify twice.
	title := "renamed"
	_, err = f.svc.UpdateTask(ctx, "owner", task.ID, UpdateTaskRequest{Title: &title, AssigneeID: &assignee})
	require.NoError(t, err)
	assert.Len(t, f.notifier.recipients(notificationmodels.TypeTaskAssigned), 1)
}

func TestMoveTask(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	todo := f.column(t, "Todo")
	done := f.column(t, "Done")
	task := f.task(t, todo, "ship")
	f.task(t, done, "a")
	f.task(t, done, "b")
	moved := f.capture(t, events.TaskMoved)

	result, err := f.svc.MoveTask(ctx, "member", task.ID, MoveTaskRequest{ColumnID: done.ID})
	require.NoError(t, err)
	assert.Equal(t, done.ID, result.ColumnID)
	assert.Equal(t, 2, result.Position)

	e := waitEvent(t, moved)
	assert.Equal(t, todo.ID, e.String("from_column_id"))
	assert.Equal(t, done.ID, e.String("column_id"))
	assert.Equal(t, f.board.ID, e.String("board_id"))
	assert.Equal(t, "member", e.String("actor_id"))

	pos := 0
	result, err = f.svc.MoveTask(ctx, "member", task.ID, MoveTaskRequest{ColumnID: todo.ID, Position: &pos})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Position)

	other, err := f.svc.CreateBoard(ctx, "owner", CreateBoardRequest{WorkspaceID: f.ws.ID, Name: "Other"})
	require.NoError(t, err)
	foreign, err := f.svc.CreateColumn(ctx, "owner", CreateColumnRequest{BoardID: other.ID, Name: "Elsewhere"})
	require.NoError(t, err)
	_, err = f.svc.MoveTask(ctx, "member", task.ID, MoveTaskRequest{ColumnID: foreign.ID})
	assert.True(t, apperrors.IsBadRequest(err))

	_, err = f.svc.MoveTask(ctx, "viewer", task.ID, MoveTaskRequest{ColumnID: done.ID})
	assert.Equal(t, 403, apperrors.GetHTTPStatus(err))
}

func TestReorderTasks(t *testing.T) {
	f := newFixture(t)
	col := f.column(t, "Todo")
	a := f.task(t, col, "a")
	b := f.task(t, col, "b")

	tasks, err := f.svc.ReorderTasks(context.Background(), "owner", []models.PositionUpdate{
		{ID: a.ID, Position: 1},
		{ID: b.ID, Position: 0},
	})
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, b.ID, tasks[0].ID)
	assert.Equal(t, a.ID, tasks[1].ID)

	_, err = f.svc.ReorderTasks(context.Background(), "owner", []models.PositionUpdate{{ID: "missing", Position: 0}})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestComments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := f.column(t, "Todo")
	assignee := "member"
	task, err := f.svc.CreateTask(ctx, "owner", CreateTaskRequest{ColumnID: col.ID, Title: "review", AssigneeID: &assignee})
	require.NoError(t, err)
	updated := f.capture(t, events.TaskUpdated)

	comment, err := f.svc.AddComment(ctx, "member", task.ID, "looks good")
	require.NoError(t, err)
	assert.Equal(t, []string{"owner"}, f.notifier.recipients(notificationmodels.TypeTaskCommented))
	e := waitEvent(t, updated)
	assert.Equal(t, task.ID, e.String("task_id"))

	_, err = f.svc.UpdateComment(ctx, "owner", task.ID, comment.ID, "hijack")
	assert.Equal(t, 403, apperrors.GetHTTPStatus(err))
	edited, err := f.svc.UpdateComment(ctx, "member", task.ID, comment.ID, "looks great")
	require.NoError(t, err)
	assert.Equal(t, "looks great", edited.Text)

	_, err = f.svc.UpdateComment(ctx, "member", task.ID, "missing", "x")
	assert.True(t, apperrors.IsNotFound(err))

	// The board admin may delete someone else's comment.
	require.NoError(t, f.svc.DeleteComment(ctx, "owner", task.ID, comment.ID))
	comments, err := f.svc.ListComments(ctx, "owner", task.ID)
	require.NoError(t, err)
	assert.Empty(t, comments)
}

func TestAttachments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	task := f.task(t, f.column(t, "Todo"), "write docs")

	withFile, err := f.svc.AddAttachment(ctx, "member", task.ID, AddAttachmentRequest{
		Name: "design.pdf", URL: "https://files.example.com/design.pdf", Size: 1024, MimeType: "application/pdf",
	})
	require.NoError(t, err)
	require.Len(t, withFile.Attachments, 1)
	att := withFile.Attachments[0]
	assert.Equal(t, "member", att.UploadedBy)

	_, err = f.svc.AddAttachment(ctx, "member", task.ID, AddAttachmentRequest{Name: "x"})
	assert.True(t, apperrors.IsBadRequest(err))

	_, err = f.svc.DeleteAttachment(ctx, "member", task.ID, "missing")
	assert.True(t, apperrors.IsNotFound(err))

	without, err := f.svc.DeleteAttachment(ctx, "member", task.ID, att.ID)
	require.NoError(t, err)
	assert.Empty(t, without.Attachments)
}

func TestActivitiesAreRecorded(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	col := f.column(t, "Todo")
	task := f.task(t, col, "a")
	require.NoError(t, f.svc.DeleteTask(ctx, "owner", task.ID))

	list, err := f.svc.ListActivities(ctx, "viewer", f.board.ID, 0, 0)
	require.NoError(t, err)
	actions := map[string]bool{}
	for _, a := range list {
		actions[a.EntityType+"."+a.Action] = true
	}
	assert.True(t, actions["board.created"])
	assert.True(t, actions["column.created"])
	assert.True(t, actions["task.created"])
	assert.True(t, actions["task.deleted"])

	_, err = f.svc.ListActivities(ctx, "stranger", f.board.ID, 0, 0)
	assert.Equal(t, 403, apperrors.GetHTTPStatus(err))
}
