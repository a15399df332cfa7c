package websocket

import (
	"context"

	"go.uber.org/zap"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events"
	"github.com/IsSact22/Gestion-tareas-sub001/internal/events/bus"
	ws "github.com/IsSact22/Gestion-tareas-sub001/pkg/websocket"
)

// Room scopes an event can be delivered to. Each reads its id from the
// event data.
type roomScope int

const (
	scopeBoard roomScope = iota
	scopeWorkspace
	scopeUser
)

type route struct {
	action string
	scopes []roomScope
}

// routes maps bus subjects to the ws action and the rooms that receive it.
var routes = map[string]route{
	events.WorkspaceUpdated:       {ws.ActionWorkspaceUpdated, []roomScope{scopeWorkspace}},
	events.WorkspaceDeleted:       {ws.ActionWorkspaceDeleted, []roomScope{scopeWorkspace}},
	events.WorkspaceMemberAdded:   {ws.ActionWorkspaceMemberAdded, []roomScope{scopeWorkspace, scopeUser}},
	events.WorkspaceMemberUpdated: {ws.ActionWorkspaceMemberUpdated, []roomScope{scopeWorkspace, scopeUser}},
	events.WorkspaceMemberRemoved: {ws.ActionWorkspaceMemberRemoved, []roomScope{scopeWorkspace, scopeUser}},

	events.BoardCreated:       {ws.ActionBoardCreated, []roomScope{scopeWorkspace}},
	events.BoardUpdated:       {ws.ActionBoardUpdated, []roomScope{scopeBoard, scopeWorkspace}},
	events.BoardDeleted:       {ws.ActionBoardDeleted, []roomScope{scopeBoard, scopeWorkspace}},
	events.BoardMemberAdded:   {ws.ActionBoardMemberAdded, []roomScope{scopeBoard, scopeUser}},
	events.BoardMemberRemoved: {ws.ActionBoardMemberRemoved, []roomScope{scopeBoard, scopeUser}},

	events.ColumnCreated: {ws.ActionColumnCreated, []roomScope{scopeBoard}},
	events.ColumnUpdated: {ws.ActionColumnUpdated, []roomScope{scopeBoard}},
	events.ColumnDeleted: {ws.ActionColumnDeleted, []roomScope{scopeBoard}},

	events.TaskCreated: {ws.ActionTaskCreated, []roomScope{scopeBoard}},
	events.TaskUpdated: {ws.ActionTaskUpdated, []roomScope{scopeBoard}},
	events.TaskDeleted: {ws.ActionTaskDeleted, []roomScope{scopeBoard}},
	events.TaskMoved:   {ws.ActionTaskMoved, []roomScope{scopeBoard}},

	events.NotificationCreated: {ws.ActionNotification, []roomScope{scopeUser}},
}

// roomsFor resolves the rooms of a route from the event data.
func roomsFor(r route, event *bus.Event) []string {
	rooms := make([]string, 0, len(r.scopes))
	for _, scope := range r.scopes {
		switch scope {
		case scopeBoard:
			if id := event.String("board_id"); id != "" {
				rooms = append(rooms, BoardRoom(id))
			}
		case scopeWorkspace:
			if id := event.String("workspace_id"); id != "" {
				rooms = append(rooms, WorkspaceRoom(id))
			}
		case scopeUser:
			if id := event.String("user_id"); id != "" {
				rooms = append(rooms, UserRoom(id))
			}
		}
	}
	return rooms
}

// EventBroadcaster relays bus events to the matching rooms.
type EventBroadcaster struct {
	hub           *Hub
	subscriptions []bus.Subscription
	logger        *logger.Logger
}

func RegisterEventNotifications(ctx context.Context, eventBus bus.EventBus, hub *Hub, log *logger.Logger) *EventBroadcaster {
	b := &EventBroadcaster{
		hub:    hub,
		logger: log.WithFields(zap.String("component", "ws-event-broadcaster")),
	}
	if eventBus == nil {
		return b
	}

	for _, subject := range events.AllSubjects {
		b.subscribe(eventBus, subject)
	}

	go func() {
		<-ctx.Done()
		b.Close()
	}()

	return b
}

func (b *EventBroadcaster) Close() {
	for _, sub := range b.subscriptions {
		if sub != nil && sub.IsValid() {
			_ = sub.Unsubscribe()
		}
	}
	b.subscriptions = nil
}

func (b *EventBroadcaster) subscribe(eventBus bus.EventBus, subject string) {
	sub, err := eventBus.Subscribe(subject, func(ctx context.Context, event *bus.Event) error {
		b.relay(ctx, event)
		return nil
	})
	if err != nil {
		b.logger.Error("failed to subscribe to events", zap.String("subject", subject), zap.Error(err))
		return
	}
	b.subscriptions = append(b.subscriptions, sub)
}

func (b *EventBroadcaster) relay(ctx context.Context, event *bus.Event) {
	r, ok := routes[event.Type]
	if !ok {
		return
	}
	rooms := roomsFor(r, event)
	if len(rooms) == 0 {
		b.logger.Debug("event has no room to relay to", zap.String("event_type", event.Type))
		return
	}
	msg, err := ws.NewNotification(r.action, event.Data)
	if err != nil {
		b.logger.Error("failed to build websocket notification", zap.String("action", r.action), zap.Error(err))
		return
	}
	b.hub.BroadcastToRooms(msg, rooms...)

	// The removed member still gets the event above, then loses the rooms
	// it can no longer read.
	switch event.Type {
	case events.BoardMemberRemoved, events.WorkspaceMemberRemoved:
		if userID := event.String("user_id"); userID != "" {
			b.hub.RevokeStale(ctx, userID)
		}
	}
}
