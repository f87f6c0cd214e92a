package deps

import (
	"context"

	"github.com/Conte777/fanscraper/internal/domain/auth/entities"
)

// Authenticator performs the remote login for one set of credentials
type Authenticator interface {
	// Login returns nil session when the platform rejected the credentials
	Login(ctx context.Context, guest bool) (*entities.AuthSession, error)
	IsAuthed() bool
	LoginIssues(ctx context.Context, session *entities.AuthSession) (*entities.Issues, error)
	// Close releases the transport acquired for the login
	Close(ctx context.Context) error
}

// AuthenticatorFactory builds an authenticator for the given credentials
type AuthenticatorFactory func(creds entities.Credentials, guest bool) (Authenticator, error)

// SessionRegistry stores at most one session per account id
type SessionRegistry interface {
	Get(id int64) (*entities.AuthSession, bool)
	// LoadOrStore returns the existing session for s.ID if present, otherwise stores s
	LoadOrStore(s *entities.AuthSession) (actual *entities.AuthSession, loaded bool)
	// CompareAndDelete removes id only while it still maps to s
	CompareAndDelete(id int64, s *entities.AuthSession) bool
	Snapshot() []*entities.AuthSession
	Len() int
}

// SessionRepository persists auth session snapshots
type SessionRepository interface {
	SaveLogin(ctx context.Context, session *entities.AuthSession) error
	MarkRemoved(ctx context.Context, id int64, reason string) error
}

// EventPublisher publishes auth lifecycle events
type EventPublisher interface {
	PublishSessionRegistered(ctx context.Context, session *entities.AuthSession) error
	PublishSessionRemoved(ctx context.Context, id int64, reason string) error
}

// SweepReport summarises one invalidation sweep
type SweepReport struct {
	Checked int     `json:"checked"`
	Removed []int64 `json:"removed"`
	Failed  []int64 `json:"failed"`
}

// LoginReport summarises a batch login
type LoginReport struct {
	Total      int              `json:"total"`
	Successful int              `json:"successful"`
	Failed     int              `json:"failed"`
	Errors     map[string]error `json:"-"`
}

// UseCase is the auth session lifecycle
type UseCase interface {
	Login(ctx context.Context, creds entities.Credentials, guest bool) (*entities.AuthSession, error)
	LoginScoped(ctx context.Context, creds entities.Credentials, guest bool, fn func(ctx context.Context, session *entities.AuthSession) error) error
	LoginAll(ctx context.Context, list []entities.Credentials, maxConcurrent int) *LoginReport
	FindAuth(id int64) (*entities.AuthSession, bool)
	ListAuths() []*entities.AuthSession
	RemoveAuth(ctx context.Context, id int64) error
	SweepInvalid(ctx context.Context) (SweepReport, error)
	Close(ctx context.Context) error
}
