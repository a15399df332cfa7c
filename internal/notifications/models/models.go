package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Type of a notification.
type Type string

const (
	TypeTaskAssigned        Type = "task_assigned"
	TypeTaskCommented       Type = "task_commented"
	TypeBoardInvitation     Type = "board_invitation"
	TypeWorkspaceInvitation Type = "workspace_invitation"
)

func (t Type) Valid() bool {
	switch t {
	case TypeTaskAssigned, TypeTaskCommented, TypeBoardInvitation, TypeWorkspaceInvitation:
		return true
	}
	return false
}

// Data links a notification to the entities it is about.
type Data struct {
	BoardID     string `json:"board_id,omitempty"`
	WorkspaceID string `json:"workspace_id,omitempty"`
	TaskID      string `json:"task_id,omitempty"`
	FromUserID  string `json:"from_user_id,omitempty"`
}

func (d Data) Value() (driver.Value, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (d *Data) Scan(src interface{}) error {
	*d = Data{}
	var raw []byte
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported notification data type %T", src)
	}
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, d)
}

// Notification is a message addressed to one user.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Type      Type      `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Message   string    `db:"message" json:"message"`
	Data      Data      `db:"data" json:"data"`
	Read      bool      `db:"is_read" json:"read"`
	Link      string    `db:"link" json:"link,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
