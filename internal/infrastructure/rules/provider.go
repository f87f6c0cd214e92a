package rules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"
)

var ErrNotStarted = errors.New("dynamic rules fetch not started")

const (
	defaultRetryDelay    = time.Second
	defaultMaxRetryDelay = 30 * time.Second
)

// Provider fetches the dynamic ruleset in the background, retrying with
// backoff until it loads or the start context is cancelled.
// Signed request paths call Wait before they build a signature.
type Provider struct {
	url     string
	client  *fasthttp.Client
	timeout time.Duration
	logger  zerolog.Logger

	retryDelay    time.Duration
	maxRetryDelay time.Duration

	startOnce sync.Once
	started   chan struct{}
	attempted chan struct{} // closed once the first fetch attempt finished

	mu    sync.RWMutex
	rules *Rules
	err   error
}

// NewProvider creates a provider for the ruleset at url
func NewProvider(url string, client *fasthttp.Client, timeout time.Duration, logger zerolog.Logger) *Provider {
	if client == nil {
		client = &fasthttp.Client{}
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Provider{
		url:           url,
		client:        client,
		timeout:       timeout,
		logger:        logger.With().Str("component", "dynamic_rules").Logger(),
		retryDelay:    defaultRetryDelay,
		maxRetryDelay: defaultMaxRetryDelay,
		started:       make(chan struct{}),
		attempted:     make(chan struct{}),
	}
}

// Start launches the fetch loop. Calls after the first are no-ops.
func (p *Provider) Start(ctx context.Context) {
	p.startOnce.Do(func() {
		close(p.started)
		go p.run(ctx)
	})
}

func (p *Provider) run(ctx context.Context) {
	delay := p.retryDelay

	for attempt := 1; ; attempt++ {
		rules, err := p.fetch(ctx)

		p.mu.Lock()
		if err == nil {
			p.rules, p.err = rules, nil
		} else {
			p.err = err
		}
		p.mu.Unlock()

		if attempt == 1 {
			close(p.attempted)
		}

		if err == nil {
			p.logger.Info().Str("url", p.url).Int("attempt", attempt).Msg("dynamic rules loaded")
			return
		}

		p.logger.Error().
			Err(err).
			Str("url", p.url).
			Int("attempt", attempt).
			Dur("retry_in", delay).
			Msg("failed to fetch dynamic rules")

		select {
		case <-ctx.Done():
			return
		case <-time.After(delay):
		}

		delay *= 2
		if delay > p.maxRetryDelay {
			delay = p.maxRetryDelay
		}
	}
}

// Wait blocks until the first fetch attempt finished. It returns the rules once
// any attempt succeeded, otherwise the latest fetch error while retries continue.
func (p *Provider) Wait(ctx context.Context) (*Rules, error) {
	select {
	case <-p.started:
	default:
		return nil, ErrNotStarted
	}

	select {
	case <-p.attempted:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.rules != nil {
		return p.rules, nil
	}
	return nil, p.err
}

// Ready reports whether the rules have been loaded
func (p *Provider) Ready() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.rules != nil
}

func (p *Provider) fetch(ctx context.Context) (*Rules, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(p.url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline := time.Now().Add(p.timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	if err := p.client.DoDeadline(req, resp, deadline); err != nil {
		return nil, fmt.Errorf("request rules: %w", err)
	}

	if status := resp.StatusCode(); status != fasthttp.StatusOK {
		return nil, fmt.Errorf("request rules: unexpected status %d", status)
	}

	var rules Rules
	if err := json.Unmarshal(resp.Body(), &rules); err != nil {
		return nil, fmt.Errorf("decode rules: %w", err)
	}

	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("validate rules: %w", err)
	}

	return &rules, nil
}
