package dto

import (
	"time"

	"github.com/Conte777/fanscraper/internal/domain/auth/entities"
)

// LoginRequest is the body of POST /api/v1/auths/login
type LoginRequest struct {
	Guest bool `json:"guest"`
	// Auth holds a raw auth document, legacy keys accepted
	Auth map[string]any `json:"auth"`
}

// SessionResponse describes a session. Registered is false for guest sessions
// the platform did not authenticate; those are released after the response.
type SessionResponse struct {
	ID         int64            `json:"id"`
	Username   string           `json:"username"`
	Name       string           `json:"name,omitempty"`
	Guest      bool             `json:"guest"`
	State      string           `json:"state"`
	Registered bool             `json:"registered"`
	Issues     *entities.Issues `json:"issues,omitempty"`
	UserCount  int              `json:"user_count"`
}

// SweepResponse is returned by POST /api/v1/auths/sweep
type SweepResponse struct {
	Checked  int       `json:"checked"`
	Removed  []int64   `json:"removed"`
	Failed   []int64   `json:"failed"`
	SweptAt  time.Time `json:"swept_at"`
	Warnings []string  `json:"warnings,omitempty"`
}

// NewSessionResponse converts a session for the HTTP layer
func NewSessionResponse(s *entities.AuthSession) SessionResponse {
	return SessionResponse{
		ID:         s.ID,
		Username:   s.Username,
		Name:       s.Name,
		Guest:      s.Guest,
		State:      s.State().String(),
		Registered: true,
		Issues:     s.Issues(),
		UserCount:  len(s.Users()),
	}
}
