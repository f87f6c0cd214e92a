package registry

import (
	"sync"

	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
	"github.com/Conte777/fanscraper/internal/domain/auth/entities"
)

// Registry maps account id to its single AuthSession
type Registry struct {
	mu       sync.RWMutex
	sessions map[int64]*entities.AuthSession
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		sessions: make(map[int64]*entities.AuthSession),
	}
}

// NewSessionRegistry provides the registry behind its interface for fx
func NewSessionRegistry() deps.SessionRegistry {
	return New()
}

func (r *Registry) Get(id int64) (*entities.AuthSession, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	return s, ok
}

func (r *Registry) LoadOrStore(s *entities.AuthSession) (*entities.AuthSession, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[s.ID]; ok {
		return existing, true
	}
	r.sessions[s.ID] = s
	return s, false
}

func (r *Registry) CompareAndDelete(id int64, s *entities.AuthSession) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.sessions[id]; !ok || current != s {
		return false
	}
	delete(r.sessions, id)
	return true
}

// Snapshot returns a point-in-time copy of the registered sessions
func (r *Registry) Snapshot() []*entities.AuthSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]*entities.AuthSession, 0, len(r.sessions))
	for _, s := range r.sessions {
		snapshot = append(snapshot, s)
	}
	return snapshot
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
