package websocket

// Client request actions
const (
	ActionHealthCheck    = "health.check"
	ActionJoinBoard      = "join:board"
	ActionLeaveBoard     = "leave:board"
	ActionJoinWorkspace  = "join:workspace"
	ActionLeaveWorkspace = "leave:workspace"
)

// Server push actions
const (
	ActionUserJoined = "user:joined"
	ActionUserLeft   = "user:left"

	ActionWorkspaceUpdated       = "workspace:updated"
	ActionWorkspaceDeleted       = "workspace:deleted"
	ActionWorkspaceMemberAdded   = "workspace:member-added"
	ActionWorkspaceMemberUpdated = "workspace:member-updated"
	ActionWorkspaceMemberRemoved = "workspace:member-removed"

	ActionBoardCreated       = "board:created"
	ActionBoardUpdated       = "board:updated"
	ActionBoardDeleted       = "board:deleted"
	ActionBoardMemberAdded   = "board:member-added"
	ActionBoardMemberRemoved = "board:member-removed"

	ActionColumnCreated = "column:created"
	ActionColumnUpdated = "column:updated"
	ActionColumnDeleted = "column:deleted"

	ActionTaskCreated = "task:created"
	ActionTaskUpdated = "task:updated"
	ActionTaskDeleted = "task:deleted"
	ActionTaskMoved   = "task:moved"

	ActionNotification = "notification"
)

// Error codes
const (
	ErrorCodeBadRequest    = "BAD_REQUEST"
	ErrorCodeInternalError = "INTERNAL_ERROR"
	ErrorCodeUnauthorized  = "UNAUTHORIZED"
	ErrorCodeForbidden     = "FORBIDDEN"
	ErrorCodeValidation    = "VALIDATION_ERROR"
	ErrorCodeUnknownAction = "UNKNOWN_ACTION"
)
