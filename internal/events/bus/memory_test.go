package bus

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IsSact22/Gestion-tareas-sub001/internal/common/logger"
)

func newTestBus(t *testing.T) *MemoryEventBus {
	t.Helper()
	b := NewMemoryEventBus(logger.NewNop())
	t.Cleanup(b.Close)
	return b
}

func TestMemoryEventBus_PublishSubscribe(t *testing.T) {
	b := newTestBus(t)
	received := make(chan *Event, 1)

	_, err := b.Subscribe("task.moved", func(_ context.Context, e *Event) error {
		received <- e
		return nil
	})
	require.NoError(t, err)

	event := NewEvent("task.moved", "test", map[string]interface{}{"board_id": "b1"})
	require.NoError(t, b.Publish(context.Background(), "task.moved", event))

	select {
	case got := <-received:
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, "b1", got.String("board_id"))
	case <-time.After(time.Second):
		t.Fatal("event not delivered")
	}
}

func TestMemoryEventBus_Wildcards(t *testing.T) {
	b := newTestBus(t)
	var single, multi atomic.Int32

	_, err := b.Subscribe("task.*", func(context.Context, *Event) error { single.Add(1); return nil })
	require.NoError(t, err)
	_, err = b.Subscribe("board.>", func(context.Context, *Event) error { multi.Add(1); return nil })
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, b.Publish(ctx, "task.created", NewEvent("task.created", "test", nil)))
	require.NoError(t, b.Publish(ctx, "task.comment.added", NewEvent("task.comment.added", "test", nil)))
	require.NoError(t, b.Publish(ctx, "board.member.added", NewEvent("board.member.added", "test", nil)))

	assert.Eventually(t, func() bool { return single.Load() == 1 && multi.Load() == 1 }, time.Second, 10*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(1), single.Load())
}

func TestSubjectMatches(t *testing.T) {
	tests := []struct {
		pattern, subject string
		want             bool
	}{
		{"task.moved", "task.moved", true},
		{"task.moved", "task.created", false},
		{"task.*", "task.created", true},
		{"task.*", "task", false},
		{"task.*", "task.comment.added", false},
		{"board.>", "board.member.added", true},
		{"board.>", "board", false},
		{">", "notification.created", true},
		{"*.created", "column.created", true},
	}
	for _, tt := range tests {
		t.Run(tt.pattern+" "+tt.subject, func(t *testing.T) {
			got := subjectMatches(strings.Split(tt.pattern, "."), strings.Split(tt.subject, "."))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMemoryEventBus_Unsubscribe(t *testing.T) {
	b := newTestBus(t)
	var count atomic.Int32

	sub, err := b.Subscribe("task.deleted", func(context.Context, *Event) error { count.Add(1); return nil })
	require.NoError(t, err)
	require.True(t, sub.IsValid())
	require.NoError(t, sub.Unsubscribe())
	assert.False(t, sub.IsValid())

	require.NoError(t, b.Publish(context.Background(), "task.deleted", NewEvent("task.deleted", "test", nil)))
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, int32(0), count.Load())
}

func TestMemoryEventBus_Closed(t *testing.T) {
	b := NewMemoryEventBus(logger.NewNop())
	assert.True(t, b.IsConnected())
	b.Close()
	assert.False(t, b.IsConnected())

	assert.Error(t, b.Publish(context.Background(), "x", NewEvent("x", "test", nil)))
	_, err := b.Subscribe("x", func(context.Context, *Event) error { return nil })
	assert.Error(t, err)
}
