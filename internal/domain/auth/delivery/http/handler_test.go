package http

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
	"github.com/Conte777/fanscraper/internal/domain/auth/entities"
	autherrors "github.com/Conte777/fanscraper/internal/domain/auth/errors"
	pkgerrors "github.com/Conte777/fanscraper/pkg/errors"
)

// closeRecorder is a mock implementation of entities.Requester
type closeRecorder struct {
	closed atomic.Int32
}

func (c *closeRecorder) Close(context.Context) error {
	c.closed.Add(1)
	return nil
}

// stubUseCase is a mock implementation of deps.UseCase.
// Logins register the session unless guestUnauthed is set.
type stubUseCase struct {
	sessions      map[int64]*entities.AuthSession
	loginErr      error
	removeErr     error
	sweep         deps.SweepReport
	sweepErr      error
	lastCreds     entities.Credentials
	lastGuest     bool
	guestUnauthed bool
	requester     *closeRecorder
}

func (s *stubUseCase) Login(_ context.Context, creds entities.Credentials, guest bool) (*entities.AuthSession, error) {
	s.lastCreds, s.lastGuest = creds, guest
	if s.loginErr != nil {
		return nil, s.loginErr
	}

	var requester entities.Requester
	if s.requester != nil {
		requester = s.requester
	}
	session := entities.NewAuthSession(creds.ID, creds.Username, guest, requester)
	if guest && s.guestUnauthed {
		return session, nil
	}

	session.SetState(entities.StateAuthenticated)
	if s.sessions == nil {
		s.sessions = make(map[int64]*entities.AuthSession)
	}
	s.sessions[session.ID] = session
	return session, nil
}

func (s *stubUseCase) LoginScoped(ctx context.Context, creds entities.Credentials, guest bool, fn func(context.Context, *entities.AuthSession) error) error {
	return errors.New("not used")
}

func (s *stubUseCase) LoginAll(context.Context, []entities.Credentials, int) *deps.LoginReport {
	return &deps.LoginReport{}
}

func (s *stubUseCase) FindAuth(id int64) (*entities.AuthSession, bool) {
	session, ok := s.sessions[id]
	return session, ok
}

func (s *stubUseCase) ListAuths() []*entities.AuthSession {
	list := make([]*entities.AuthSession, 0, len(s.sessions))
	for _, session := range s.sessions {
		list = append(list, session)
	}
	return list
}

func (s *stubUseCase) RemoveAuth(_ context.Context, id int64) error {
	return s.removeErr
}

func (s *stubUseCase) SweepInvalid(context.Context) (deps.SweepReport, error) {
	return s.sweep, s.sweepErr
}

func (s *stubUseCase) Close(context.Context) error { return nil }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

func newHandler(uc *stubUseCase) *Handler {
	return NewHandler(uc, pkgerrors.NewMapper(zerolog.Nop()), zerolog.Nop())
}

func decode(t *testing.T, ctx *fasthttp.RequestCtx) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env))
	return env
}

func TestHandler_Login(t *testing.T) {
	uc := &stubUseCase{}
	h := newHandler(uc)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetBody([]byte(`{"guest": false, "auth": {"auth_id": "15", "username": "alice", "cookie": "c=1"}}`))
	h.Login(ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	require.Equal(t, int64(15), uc.lastCreds.ID)
	require.Equal(t, "c=1", uc.lastCreds.Cookie)

	env := decode(t, ctx)
	require.True(t, env.Success)

	var session map[string]any
	require.NoError(t, json.Unmarshal(env.Data, &session))
	require.Equal(t, float64(15), session["id"])
	require.Equal(t, "authenticated", session["state"])
}

func TestHandler_LoginKeepsRegisteredSessionOpen(t *testing.T) {
	req := &closeRecorder{}
	h := newHandler(&stubUseCase{requester: req})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetBody([]byte(`{"auth": {"id": 21, "cookie": "c=1"}}`))
	h.Login(ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var session map[string]any
	require.NoError(t, json.Unmarshal(decode(t, ctx).Data, &session))
	require.Equal(t, true, session["registered"])
	require.Equal(t, int32(0), req.closed.Load())
}

func TestHandler_LoginReleasesUnregisteredGuest(t *testing.T) {
	req := &closeRecorder{}
	h := newHandler(&stubUseCase{requester: req, guestUnauthed: true})

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.SetBody([]byte(`{"guest": true, "auth": {}}`))
	h.Login(ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var session map[string]any
	require.NoError(t, json.Unmarshal(decode(t, ctx).Data, &session))
	require.Equal(t, false, session["registered"])
	require.Equal(t, "unauthenticated", session["state"])
	require.Equal(t, int32(1), req.closed.Load())
}

func TestHandler_LoginErrors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		loginErr   error
		wantStatus int
	}{
		{name: "bad body", body: `{`, wantStatus: fasthttp.StatusBadRequest},
		{name: "denied", body: `{"auth": {"id": 1}}`, loginErr: autherrors.ErrAuthenticationFailed, wantStatus: fasthttp.StatusUnauthorized},
		{name: "network", body: `{"auth": {"id": 1}}`, loginErr: autherrors.ErrNetworkUnavailable, wantStatus: fasthttp.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandler(&stubUseCase{loginErr: tt.loginErr})
			ctx := &fasthttp.RequestCtx{}
			ctx.Request.SetBody([]byte(tt.body))

			h.Login(ctx)

			require.Equal(t, tt.wantStatus, ctx.Response.StatusCode())
			require.False(t, decode(t, ctx).Success)
		})
	}
}

func TestHandler_GetAuth(t *testing.T) {
	session := entities.NewAuthSession(3, "carol", false, nil)
	h := newHandler(&stubUseCase{sessions: map[int64]*entities.AuthSession{3: session}})

	ctx := &fasthttp.RequestCtx{}
	ctx.SetUserValue("id", "3")
	h.GetAuth(ctx)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	ctx = &fasthttp.RequestCtx{}
	ctx.SetUserValue("id", "4")
	h.GetAuth(ctx)
	require.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	ctx = &fasthttp.RequestCtx{}
	ctx.SetUserValue("id", "abc")
	h.GetAuth(ctx)
	require.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
}

func TestHandler_RemoveAuthReleaseFailureIsWarning(t *testing.T) {
	h := newHandler(&stubUseCase{removeErr: &autherrors.ResourceReleaseError{ID: 3, Err: errors.New("reset")}})

	ctx := &fasthttp.RequestCtx{}
	ctx.SetUserValue("id", "3")
	h.RemoveAuth(ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var data map[string]any
	require.NoError(t, json.Unmarshal(decode(t, ctx).Data, &data))
	require.Equal(t, true, data["removed"])
	require.Contains(t, data["warning"], "reset")
}

func TestHandler_RemoveAuthNotFound(t *testing.T) {
	h := newHandler(&stubUseCase{removeErr: autherrors.ErrSessionNotFound})

	ctx := &fasthttp.RequestCtx{}
	ctx.SetUserValue("id", "3")
	h.RemoveAuth(ctx)

	require.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestHandler_Sweep(t *testing.T) {
	h := newHandler(&stubUseCase{
		sweep:    deps.SweepReport{Checked: 3, Removed: []int64{2}, Failed: []int64{2}},
		sweepErr: &autherrors.ResourceReleaseError{ID: 2, Err: errors.New("timeout")},
	})

	ctx := &fasthttp.RequestCtx{}
	h.Sweep(ctx)

	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	var data map[string]any
	require.NoError(t, json.Unmarshal(decode(t, ctx).Data, &data))
	require.Equal(t, float64(3), data["checked"])
	require.Len(t, data["warnings"], 1)
}
