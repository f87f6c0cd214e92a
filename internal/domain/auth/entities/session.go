package entities

import (
	"context"
	"strconv"
	"strings"
	"sync"
)

// AuthState is the authentication state of a session
type AuthState int

const (
	StateUnauthenticated AuthState = iota
	StateAuthenticated
)

func (s AuthState) String() string {
	if s == StateAuthenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// Requester is the transport handle owned by exactly one AuthSession
type Requester interface {
	Close(ctx context.Context) error
}

// Issues is the diagnostic report returned after login
type Issues struct {
	Data []map[string]any `json:"data"`
}

// HasData reports whether the report carries at least one entry
func (i *Issues) HasData() bool {
	return i != nil && len(i.Data) > 0
}

// User is an account discovered through a session
type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
}

// AuthSession is a live binding between the client and one remote account
type AuthSession struct {
	ID       int64
	Username string
	Name     string
	Guest    bool

	requester Requester

	mu     sync.RWMutex
	state  AuthState
	issues *Issues
	users  map[int64]*User
}

// NewAuthSession creates a session owning requester
func NewAuthSession(id int64, username string, guest bool, requester Requester) *AuthSession {
	return &AuthSession{
		ID:        id,
		Username:  username,
		Guest:     guest,
		requester: requester,
		users:     make(map[int64]*User),
	}
}

func (s *AuthSession) IsAuthed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state == StateAuthenticated
}

func (s *AuthSession) State() AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *AuthSession) SetState(state AuthState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

func (s *AuthSession) Requester() Requester {
	return s.requester
}

// Issues returns the login issues report, nil when the platform reported none
func (s *AuthSession) Issues() *Issues {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.issues
}

// SetIssues attaches the report only when it carries data
func (s *AuthSession) SetIssues(issues *Issues) {
	if !issues.HasData() {
		return
	}
	s.mu.Lock()
	s.issues = issues
	s.mu.Unlock()
}

// AddUser records an account discovered through this session
func (s *AuthSession) AddUser(user *User) {
	if user == nil {
		return
	}
	s.mu.Lock()
	s.users[user.ID] = user
	s.mu.Unlock()
}

// FindUser looks up a discovered account by numeric id or username
func (s *AuthSession) FindUser(identifier string) (*User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if id, err := strconv.ParseInt(identifier, 10, 64); err == nil {
		if user, ok := s.users[id]; ok {
			return user, true
		}
	}

	for _, user := range s.users {
		if strings.EqualFold(user.Username, identifier) {
			return user, true
		}
	}
	return nil, false
}

// Users returns a snapshot of discovered accounts
func (s *AuthSession) Users() []*User {
	s.mu.RLock()
	defer s.mu.RUnlock()

	users := make([]*User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users
}
