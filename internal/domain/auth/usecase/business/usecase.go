package business

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
	"github.com/Conte777/fanscraper/internal/domain/auth/entities"
	autherrors "github.com/Conte777/fanscraper/internal/domain/auth/errors"
	"github.com/Conte777/fanscraper/internal/infrastructure/metrics"
)

const (
	reasonManual    = "manual"
	reasonSweep     = "sweep"
	reasonScopeExit = "scope_exit"
	reasonShutdown  = "shutdown"

	defaultCloseTimeout  = 10 * time.Second
	defaultLoginTimeout  = time.Minute
	defaultMaxConcurrent = 4
)

// UseCase implements the auth session lifecycle on top of a SessionRegistry
type UseCase struct {
	registry     deps.SessionRegistry
	factory      deps.AuthenticatorFactory
	repo         deps.SessionRepository
	events       deps.EventPublisher
	metrics      *metrics.Metrics
	closeTimeout time.Duration
	loginTimeout time.Duration
	logger       zerolog.Logger

	logins singleflight.Group
}

// Config holds the optional collaborators of the use case; nil fields are skipped
type Config struct {
	Repository   deps.SessionRepository
	Events       deps.EventPublisher
	Metrics      *metrics.Metrics
	CloseTimeout time.Duration
	LoginTimeout time.Duration // bounds a shared login flight once it is detached from its callers
}

// NewUseCase creates a new auth lifecycle use case
func NewUseCase(registry deps.SessionRegistry, factory deps.AuthenticatorFactory, cfg Config, logger zerolog.Logger) *UseCase {
	closeTimeout := cfg.CloseTimeout
	if closeTimeout <= 0 {
		closeTimeout = defaultCloseTimeout
	}
	loginTimeout := cfg.LoginTimeout
	if loginTimeout <= 0 {
		loginTimeout = defaultLoginTimeout
	}

	return &UseCase{
		registry:     registry,
		factory:      factory,
		repo:         cfg.Repository,
		events:       cfg.Events,
		metrics:      cfg.Metrics,
		closeTimeout: closeTimeout,
		loginTimeout: loginTimeout,
		logger:       logger.With().Str("usecase", "auth").Logger(),
	}
}

// acquired is the outcome of a remote login before registration
type acquired struct {
	auth    deps.Authenticator
	session *entities.AuthSession
	authed  bool
}

// Login returns the registered session for creds, logging in when none exists.
// Guest logins that the platform does not authenticate are returned unregistered;
// the caller owns their requester.
func (uc *UseCase) Login(ctx context.Context, creds entities.Credentials, guest bool) (*entities.AuthSession, error) {
	if session, ok := uc.cached(creds); ok {
		return session, nil
	}

	if !creds.HasID() {
		return uc.login(ctx, creds, guest)
	}

	// The flight outlives any single caller: one waiter cancelling must not fail the others.
	results := uc.logins.DoChan(strconv.FormatInt(creds.ID, 10), func() (any, error) {
		if session, ok := uc.registry.Get(creds.ID); ok {
			return session, nil
		}

		flightCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.loginTimeout)
		defer cancel()
		return uc.login(flightCtx, creds, guest)
	})

	select {
	case res := <-results:
		if res.Err != nil {
			return nil, res.Err
		}
		session, _ := res.Val.(*entities.AuthSession)
		return session, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (uc *UseCase) login(ctx context.Context, creds entities.Credentials, guest bool) (*entities.AuthSession, error) {
	start := time.Now()

	acq, err := uc.acquire(ctx, creds, guest)
	if err != nil {
		return nil, err
	}

	if !acq.authed {
		uc.metrics.RecordLogin("guest", time.Since(start).Seconds())
		return acq.session, nil
	}

	session, loaded := uc.register(ctx, acq)
	if loaded {
		uc.release(ctx, acq.auth, session.ID)
		uc.metrics.RecordLogin("converged", time.Since(start).Seconds())
		return session, nil
	}

	uc.metrics.RecordLogin("registered", time.Since(start).Seconds())
	return session, nil
}

// LoginScoped yields a session to fn. A session acquired here is released and
// unregistered when fn exits on any path; a cached session is yielded as is.
func (uc *UseCase) LoginScoped(
	ctx context.Context,
	creds entities.Credentials,
	guest bool,
	fn func(ctx context.Context, session *entities.AuthSession) error,
) error {
	if session, ok := uc.cached(creds); ok {
		return fn(ctx, session)
	}

	acq, err := uc.acquire(ctx, creds, guest)
	if err != nil {
		return err
	}

	if !acq.authed {
		defer uc.release(ctx, acq.auth, acq.session.ID)
		return fn(ctx, acq.session)
	}

	session, loaded := uc.register(ctx, acq)
	defer func() {
		uc.release(ctx, acq.auth, acq.session.ID)
		if !loaded {
			uc.unregister(ctx, acq.session, reasonScopeExit)
		}
	}()

	return fn(ctx, session)
}

func (uc *UseCase) cached(creds entities.Credentials) (*entities.AuthSession, bool) {
	if !creds.HasID() {
		return nil, false
	}

	session, ok := uc.registry.Get(creds.ID)
	if ok {
		uc.metrics.RecordLogin("cached", 0)
	}
	return session, ok
}

// acquire performs the remote login. On failure the authenticator is already released.
func (uc *UseCase) acquire(ctx context.Context, creds entities.Credentials, guest bool) (*acquired, error) {
	logger := uc.logger.With().Int64("auth_id", creds.ID).Bool("guest", guest).Logger()

	auth, err := uc.factory(creds, guest)
	if err != nil {
		uc.metrics.RecordLoginError(errorType(err))
		return nil, loginError(err)
	}

	session, err := auth.Login(ctx, guest)
	if err != nil {
		uc.release(ctx, auth, creds.ID)
		uc.metrics.RecordLoginError(errorType(err))
		logger.Warn().Err(err).Msg("login failed")
		return nil, loginError(err)
	}

	if session == nil {
		uc.release(ctx, auth, creds.ID)
		uc.metrics.RecordLoginError("rejected")
		logger.Warn().Msg("login rejected by platform")
		return nil, autherrors.ErrAuthenticationFailed
	}

	if !auth.IsAuthed() {
		if guest {
			session.SetState(entities.StateUnauthenticated)
			return &acquired{auth: auth, session: session}, nil
		}
		uc.release(ctx, auth, creds.ID)
		uc.metrics.RecordLoginError("rejected")
		logger.Warn().Msg("login did not authenticate")
		return nil, autherrors.ErrAuthenticationFailed
	}

	session.SetState(entities.StateAuthenticated)

	issues, err := auth.LoginIssues(ctx, session)
	if err != nil {
		logger.Warn().Err(err).Msg("failed to fetch login issues")
	} else {
		session.SetIssues(issues)
	}

	return &acquired{auth: auth, session: session, authed: true}, nil
}

// register stores the acquired session. loaded is true when another flow won the
// insert and the returned session is theirs.
func (uc *UseCase) register(ctx context.Context, acq *acquired) (*entities.AuthSession, bool) {
	actual, loaded := uc.registry.LoadOrStore(acq.session)
	if loaded {
		uc.logger.Debug().Int64("auth_id", actual.ID).Msg("concurrent login converged on existing session")
		return actual, true
	}

	uc.metrics.UpdateActiveSessions(uc.registry.Len())
	uc.logger.Info().
		Int64("auth_id", actual.ID).
		Str("username", actual.Username).
		Bool("issues", actual.Issues() != nil).
		Msg("auth session registered")

	if uc.repo != nil {
		if err := uc.repo.SaveLogin(ctx, actual); err != nil {
			uc.logger.Warn().Err(err).Int64("auth_id", actual.ID).Msg("failed to persist auth session")
		}
	}
	if uc.events != nil {
		if err := uc.events.PublishSessionRegistered(ctx, actual); err != nil {
			uc.logger.Warn().Err(err).Int64("auth_id", actual.ID).Msg("failed to publish session registered event")
		}
	}

	return actual, false
}

// release closes an authenticator with a bounded context that survives caller cancellation
func (uc *UseCase) release(ctx context.Context, auth deps.Authenticator, id int64) {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.closeTimeout)
	defer cancel()

	if err := auth.Close(closeCtx); err != nil {
		uc.metrics.RecordReleaseFailure()
		uc.logger.Warn().Err(err).Int64("auth_id", id).Msg("failed to release authenticator")
	}
}

// FindAuth looks up a registered session
func (uc *UseCase) FindAuth(id int64) (*entities.AuthSession, bool) {
	return uc.registry.Get(id)
}

// ListAuths returns a snapshot of registered sessions
func (uc *UseCase) ListAuths() []*entities.AuthSession {
	return uc.registry.Snapshot()
}

// RemoveAuth closes the session requester and removes the entry.
// A close failure is returned as *ResourceReleaseError after removal.
func (uc *UseCase) RemoveAuth(ctx context.Context, id int64) error {
	session, ok := uc.registry.Get(id)
	if !ok {
		return autherrors.ErrSessionNotFound
	}
	_, err := uc.remove(ctx, session, reasonManual)
	return err
}

// remove reports whether this call deleted the registry entry; a concurrent removal may win
func (uc *UseCase) remove(ctx context.Context, session *entities.AuthSession, reason string) (bool, error) {
	var releaseErr error

	if requester := session.Requester(); requester != nil {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), uc.closeTimeout)
		err := requester.Close(closeCtx)
		cancel()

		if err != nil {
			releaseErr = &autherrors.ResourceReleaseError{ID: session.ID, Err: err}
			uc.metrics.RecordReleaseFailure()
			uc.logger.Error().Err(err).Int64("auth_id", session.ID).Str("reason", reason).Msg("failed to close requester")
		}
	}

	removed := uc.unregister(ctx, session, reason)
	return removed, releaseErr
}

func (uc *UseCase) unregister(ctx context.Context, session *entities.AuthSession, reason string) bool {
	if !uc.registry.CompareAndDelete(session.ID, session) {
		return false
	}

	uc.metrics.RecordSessionRemoved(reason)
	uc.metrics.UpdateActiveSessions(uc.registry.Len())
	uc.logger.Info().Int64("auth_id", session.ID).Str("reason", reason).Msg("auth session removed")

	if uc.repo != nil {
		if err := uc.repo.MarkRemoved(ctx, session.ID, reason); err != nil {
			uc.logger.Warn().Err(err).Int64("auth_id", session.ID).Msg("failed to persist session removal")
		}
	}
	if uc.events != nil {
		if err := uc.events.PublishSessionRemoved(ctx, session.ID, reason); err != nil {
			uc.logger.Warn().Err(err).Int64("auth_id", session.ID).Msg("failed to publish session removed event")
		}
	}
	return true
}

// SweepInvalid removes every session that is no longer authenticated.
// It iterates a snapshot, so sessions registered during the sweep are untouched.
func (uc *UseCase) SweepInvalid(ctx context.Context) (deps.SweepReport, error) {
	start := time.Now()
	snapshot := uc.registry.Snapshot()

	report := deps.SweepReport{
		Checked: len(snapshot),
		Removed: make([]int64, 0),
		Failed:  make([]int64, 0),
	}

	var errs []error
	for _, session := range snapshot {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		if session.IsAuthed() {
			continue
		}

		removed, err := uc.remove(ctx, session, reasonSweep)
		if err != nil {
			report.Failed = append(report.Failed, session.ID)
			errs = append(errs, err)
		}
		if removed {
			report.Removed = append(report.Removed, session.ID)
		}
	}

	uc.metrics.RecordSweep(time.Since(start).Seconds())
	uc.logger.Info().
		Int("checked", report.Checked).
		Int("removed", len(report.Removed)).
		Int("failed", len(report.Failed)).
		Msg("invalid sessions swept")

	return report, errors.Join(errs...)
}

// LoginAll logs in every credential set with at most maxConcurrent flows in flight
func (uc *UseCase) LoginAll(ctx context.Context, list []entities.Credentials, maxConcurrent int) *deps.LoginReport {
	report := &deps.LoginReport{
		Total:  len(list),
		Errors: make(map[string]error),
	}

	if len(list) == 0 {
		uc.logger.Warn().Msg("no credentials configured for startup login")
		return report
	}

	if maxConcurrent <= 0 {
		maxConcurrent = defaultMaxConcurrent
	}

	var wg sync.WaitGroup
	var reportMu sync.Mutex
	semaphore := make(chan struct{}, maxConcurrent)

	fail := func(key string, err error) {
		reportMu.Lock()
		report.Errors[key] = err
		report.Failed++
		reportMu.Unlock()
	}

	for i, creds := range list {
		key := credentialsKey(i, creds)

		wg.Add(1)
		go func(creds entities.Credentials) {
			defer wg.Done()

			select {
			case semaphore <- struct{}{}:
				defer func() { <-semaphore }()
			case <-ctx.Done():
				fail(key, ctx.Err())
				return
			}

			if _, err := uc.Login(ctx, creds, false); err != nil {
				fail(key, err)
				return
			}

			reportMu.Lock()
			report.Successful++
			reportMu.Unlock()
		}(creds)
	}

	wg.Wait()

	uc.logger.Info().
		Int("total", report.Total).
		Int("successful", report.Successful).
		Int("failed", report.Failed).
		Msg("startup login completed")

	return report
}

// Close removes every registered session, closing its requester
func (uc *UseCase) Close(ctx context.Context) error {
	var errs []error
	for _, session := range uc.registry.Snapshot() {
		if _, err := uc.remove(ctx, session, reasonShutdown); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func credentialsKey(i int, creds entities.Credentials) string {
	if creds.HasID() {
		return strconv.FormatInt(creds.ID, 10)
	}
	return fmt.Sprintf("#%d", i)
}

// loginError keeps network failures and cancellation as they are and wraps everything else as an auth failure
func loginError(err error) error {
	switch {
	case errors.Is(err, autherrors.ErrNetworkUnavailable),
		errors.Is(err, autherrors.ErrAuthenticationFailed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return err
	}
	return fmt.Errorf("%w: %w", autherrors.ErrAuthenticationFailed, err)
}

func errorType(err error) string {
	switch {
	case errors.Is(err, autherrors.ErrNetworkUnavailable):
		return "network_unavailable"
	case errors.Is(err, autherrors.ErrAuthenticationFailed):
		return "authentication_failed"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "context"
	default:
		return "unknown"
	}
}
