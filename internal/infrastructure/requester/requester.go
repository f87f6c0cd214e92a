package requester

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
	"golang.org/x/time/rate"

	autherrors "github.com/Conte777/fanscraper/internal/domain/auth/errors"
	"github.com/Conte777/fanscraper/internal/infrastructure/rules"
)

var (
	ErrClosed       = errors.New("requester closed")
	ErrUnauthorized = errors.New("platform rejected session credentials")
)

// StatusError reports an unexpected HTTP status
type StatusError struct {
	Path string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: unexpected status %d", e.Path, e.Code)
}

// Config holds the transport settings of one requester
type Config struct {
	BaseURL           string
	UserAgent         string
	RequestsPerSecond float64
	Timeout           time.Duration
	// Dial overrides the dialer, used by tests
	Dial fasthttp.DialFunc
}

// Session holds the per-account headers attached to every request
type Session struct {
	UserID  int64
	Cookie  string
	XBC     string
	AuthUID string
}

// Requester is the rate-limited, signed transport owned by one auth session
type Requester struct {
	baseURL  string
	basePath string
	cfg      Config
	session  Session

	client  *fasthttp.Client
	limiter *rate.Limiter
	rules   *rules.Provider
	logger  zerolog.Logger

	mu             sync.Mutex
	closed         bool
	onUnauthorized func()
}

// New creates a requester for one account
func New(cfg Config, session Session, provider *rules.Provider, logger zerolog.Logger) (*Requester, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Requester{
		baseURL:  cfg.BaseURL,
		basePath: base.Path,
		cfg:      cfg,
		session:  session,
		client: &fasthttp.Client{
			Name:                cfg.UserAgent,
			Dial:                cfg.Dial,
			MaxIdleConnDuration: time.Minute,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		rules:   provider,
		logger:  logger.With().Str("component", "requester").Int64("auth_id", session.UserID).Logger(),
	}, nil
}

// SetUserID sets the account id used for signing once login resolved it
func (r *Requester) SetUserID(id int64) {
	r.mu.Lock()
	r.session.UserID = id
	r.mu.Unlock()
}

// OnUnauthorized registers a hook called when the platform rejects the session
func (r *Requester) OnUnauthorized(fn func()) {
	r.mu.Lock()
	r.onUnauthorized = fn
	r.mu.Unlock()
}

// GetJSON performs a signed GET of path relative to the base url and decodes the body into out
func (r *Requester) GetJSON(ctx context.Context, path string, out any) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	session := r.session
	r.mu.Unlock()

	if err := r.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait cancelled: %w", err)
	}

	ruleset, err := r.rules.Wait(ctx)
	if err != nil {
		return fmt.Errorf("%w: dynamic rules: %w", autherrors.ErrNetworkUnavailable, err)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(r.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json, text/plain, */*")
	if r.cfg.UserAgent != "" {
		req.Header.SetUserAgent(r.cfg.UserAgent)
	}
	if session.Cookie != "" {
		req.Header.Set("Cookie", session.Cookie)
	}
	if session.XBC != "" {
		req.Header.Set("x-bc", session.XBC)
	}
	if session.UserID > 0 {
		req.Header.Set("user-id", fmt.Sprintf("%d", session.UserID))
	}

	sig := ruleset.Sign(r.basePath+path, session.UserID, time.Now())
	req.Header.Set("sign", sig.Sign)
	req.Header.Set("time", sig.Time)
	req.Header.Set("app-token", sig.AppToken)
	for _, h := range ruleset.RemoveHeaders {
		req.Header.Del(h)
	}

	deadline := time.Now().Add(r.cfg.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := r.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("%w: GET %s: %w", autherrors.ErrNetworkUnavailable, path, err)
	}

	switch status := resp.StatusCode(); {
	case status == fasthttp.StatusUnauthorized || status == fasthttp.StatusForbidden:
		r.markUnauthorized()
		return fmt.Errorf("GET %s: %w", path, ErrUnauthorized)
	case status < 200 || status >= 300:
		return &StatusError{Path: path, Code: status}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(resp.Body(), out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (r *Requester) markUnauthorized() {
	r.mu.Lock()
	hook := r.onUnauthorized
	r.mu.Unlock()

	r.logger.Warn().Msg("platform rejected session")
	if hook != nil {
		hook()
	}
}

// Close releases pooled connections. It is safe to call more than once.
func (r *Requester) Close(_ context.Context) error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	r.mu.Unlock()

	r.client.CloseIdleConnections()
	r.logger.Debug().Msg("requester closed")
	return nil
}

// Closed reports whether Close has been called
func (r *Requester) Closed() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.closed
}
