package logger

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLogger_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	log, err := NewLogger(LoggingConfig{Level: "debug", Format: "json", OutputPath: path})
	require.NoError(t, err)

	log.Info("hello", zap.String("k", "v"))
	require.NoError(t, log.Sync())
	assert.FileExists(t, path)
}

func TestNewLogger_InvalidLevelFallsBackToInfo(t *testing.T) {
	log, err := NewLogger(LoggingConfig{Level: "nope", Format: "console"})
	require.NoError(t, err)
	assert.False(t, log.Zap().Core().Enabled(zap.DebugLevel))
	assert.True(t, log.Zap().Core().Enabled(zap.InfoLevel))
}

func TestWithFields_DoesNotMutateParent(t *testing.T) {
	log := NewNop()
	child := log.WithFields(zap.String("component", "a"))
	grandchild := child.WithFields(zap.String("x", "y"))

	assert.Len(t, log.fields, 0)
	assert.Len(t, child.fields, 1)
	assert.Len(t, grandchild.fields, 2)
}

func TestWithContext(t *testing.T) {
	log := NewNop()
	assert.Same(t, log, log.WithContext(context.Background()))

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, "user-1")
	withCtx := log.WithContext(ctx)
	assert.Len(t, withCtx.fields, 2)
}

func TestSetDefault(t *testing.T) {
	original := Default()
	t.Cleanup(func() { SetDefault(original) })

	custom := NewNop()
	SetDefault(custom)
	assert.Same(t, custom, Default())
}
