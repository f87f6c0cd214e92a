package onlyfans

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/fanscraper/config"
	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
	"github.com/Conte777/fanscraper/internal/domain/auth/entities"
	autherrors "github.com/Conte777/fanscraper/internal/domain/auth/errors"
	"github.com/Conte777/fanscraper/internal/infrastructure/requester"
	"github.com/Conte777/fanscraper/internal/infrastructure/rules"
)

const (
	mePath          = "/users/me"
	loginIssuesPath = "/users/me/login-issues"
)

// meResponse is the subset of /users/me the login flow needs
type meResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	IsAuth   bool   `json:"isAuth"`
}

// Authenticator logs one account in through /users/me
type Authenticator struct {
	creds     entities.Credentials
	requester *requester.Requester
	authed    atomic.Bool
	logger    zerolog.Logger
}

// Login resolves the account behind the credentials. A nil session means
// the platform did not accept them.
func (a *Authenticator) Login(ctx context.Context, guest bool) (*entities.AuthSession, error) {
	if guest && a.creds.Cookie == "" {
		a.logger.Debug().Msg("guest login without cookie")
		return entities.NewAuthSession(0, "", true, a.requester), nil
	}

	var me meResponse
	err := a.requester.GetJSON(ctx, mePath, &me)
	switch {
	case errors.Is(err, requester.ErrUnauthorized):
		if guest {
			return entities.NewAuthSession(0, "", true, a.requester), nil
		}
		return nil, nil
	case err != nil:
		return nil, err
	}

	if me.ID == 0 || !me.IsAuth {
		if guest {
			return entities.NewAuthSession(0, "", true, a.requester), nil
		}
		return nil, nil
	}

	if a.creds.HasID() && a.creds.ID != me.ID {
		a.logger.Warn().Int64("resolved_id", me.ID).Msg("credentials belong to a different account")
		return nil, fmt.Errorf("%w: credentials resolved to account %d", autherrors.ErrAuthenticationFailed, me.ID)
	}

	a.authed.Store(true)
	a.requester.SetUserID(me.ID)

	session := entities.NewAuthSession(me.ID, me.Username, guest, a.requester)
	session.Name = me.Name
	a.requester.OnUnauthorized(func() {
		session.SetState(entities.StateUnauthenticated)
	})

	a.logger.Info().Int64("auth_id", me.ID).Str("username", me.Username).Msg("logged in")
	return session, nil
}

func (a *Authenticator) IsAuthed() bool {
	return a.authed.Load()
}

// LoginIssues fetches the diagnostic report the platform keeps for the account
func (a *Authenticator) LoginIssues(ctx context.Context, session *entities.AuthSession) (*entities.Issues, error) {
	var data []map[string]any
	if err := a.requester.GetJSON(ctx, loginIssuesPath, &data); err != nil {
		return nil, err
	}
	return &entities.Issues{Data: data}, nil
}

// Close releases the requester acquired for this login
func (a *Authenticator) Close(ctx context.Context) error {
	return a.requester.Close(ctx)
}

// NewAuthenticatorFactory builds authenticators sharing the site settings and dynamic rules
func NewAuthenticatorFactory(cfg *config.SiteConfig, provider *rules.Provider, logger zerolog.Logger) deps.AuthenticatorFactory {
	return newFactory(cfg, provider, nil, logger)
}

func newFactory(cfg *config.SiteConfig, provider *rules.Provider, dial fasthttp.DialFunc, logger zerolog.Logger) deps.AuthenticatorFactory {
	return func(creds entities.Credentials, guest bool) (deps.Authenticator, error) {
		if !guest && creds.Cookie == "" {
			return nil, fmt.Errorf("%w: cookie is required", autherrors.ErrInvalidCredentials)
		}

		userAgent := creds.UserAgent
		if userAgent == "" {
			userAgent = cfg.UserAgent
		}

		reqCfg := requester.Config{
			BaseURL:           cfg.BaseURL,
			UserAgent:         userAgent,
			RequestsPerSecond: cfg.RequestsPerSecond,
			Timeout:           cfg.RequestTimeout,
		}
		if dial != nil {
			reqCfg.Dial = dial
		}

		r, err := requester.New(reqCfg, requester.Session{
			UserID:  creds.ID,
			Cookie:  creds.Cookie,
			XBC:     creds.XBC,
			AuthUID: creds.AuthUID,
		}, provider, logger)
		if err != nil {
			return nil, err
		}

		return &Authenticator{
			creds:     creds,
			requester: r,
			logger:    logger.With().Str("component", "onlyfans_auth").Int64("auth_id", creds.ID).Bool("guest", guest).Logger(),
		}, nil
	}
}
