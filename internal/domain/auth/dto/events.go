package dto

import "time"

const (
	EventSessionRegistered = "auth.session_registered"
	EventSessionRemoved    = "auth.session_removed"
)

// SessionEvent is published on every registry change
type SessionEvent struct {
	EventID    string    `json:"event_id"`
	Type       string    `json:"type"`
	AuthID     int64     `json:"auth_id"`
	Username   string    `json:"username,omitempty"`
	Guest      bool      `json:"guest"`
	HasIssues  bool      `json:"has_issues"`
	Reason     string    `json:"reason,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}
