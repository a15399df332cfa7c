package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemberRole(t *testing.T) {
	assert.True(t, RoleAdmin.CanWrite())
	assert.True(t, RoleMember.CanWrite())
	assert.False(t, RoleViewer.CanWrite())
	assert.False(t, MemberRole("owner").Valid())
}

func TestWorkspaceRoleOf(t *testing.T) {
	ws := &Workspace{OwnerID: "u1", Members: []WorkspaceMember{
		{UserID: "u1", Role: RoleAdmin},
		{UserID: "u2", Role: RoleViewer},
	}}

	role, ok := ws.RoleOf("u2")
	assert.True(t, ok)
	assert.Equal(t, RoleViewer, role)

	_, ok = ws.RoleOf("u3")
	assert.False(t, ok)
	assert.True(t, ws.IsOwner("u1"))
}

func TestStringList_ScanValue(t *testing.T) {
	v, err := StringList{"bug", "ui"}.Value()
	require.NoError(t, err)
	assert.Equal(t, `["bug","ui"]`, v)

	nilValue, err := StringList(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", nilValue)

	var l StringList
	require.NoError(t, l.Scan([]byte(`["a"]`)))
	assert.Equal(t, StringList{"a"}, l)

	require.NoError(t, l.Scan(nil))
	assert.NotNil(t, l)
	assert.Empty(t, l)

	assert.Error(t, l.Scan(42))
}

func TestAttachmentList_Scan(t *testing.T) {
	var l AttachmentList
	require.NoError(t, l.Scan(`[{"id":"a1","name":"design.pdf","size":10,"uploaded_at":"2024-01-02T03:04:05Z"}]`))
	require.Len(t, l, 1)
	assert.Equal(t, "design.pdf", l[0].Name)
	assert.Equal(t, int64(10), l[0].Size)
	assert.True(t, l[0].UploadedAt.Equal(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)))
}

func TestJSONMap_Scan(t *testing.T) {
	var m JSONMap
	require.NoError(t, m.Scan(`{"from_column_id":"c1"}`))
	assert.Equal(t, "c1", m["from_column_id"])

	v, err := JSONMap(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "{}", v)
}
