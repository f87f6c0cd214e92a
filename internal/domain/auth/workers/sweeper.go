package workers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Conte777/fanscraper/config"
	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
)

// SweeperWorker periodically removes sessions that lost authentication
type SweeperWorker struct {
	useCase  deps.UseCase
	interval time.Duration
	timeout  time.Duration
	logger   zerolog.Logger

	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewSweeperWorker creates a new sweeper worker
func NewSweeperWorker(useCase deps.UseCase, authCfg *config.AuthConfig, logger zerolog.Logger) *SweeperWorker {
	ctx, cancel := context.WithCancel(context.Background())

	timeout := authCfg.SweepInterval
	if authCfg.CloseTimeout > 0 && authCfg.CloseTimeout*4 < timeout {
		timeout = authCfg.CloseTimeout * 4
	}

	return &SweeperWorker{
		useCase:  useCase,
		interval: authCfg.SweepInterval,
		timeout:  timeout,
		logger:   logger.With().Str("worker", "auth_sweeper").Logger(),
		done:     make(chan struct{}),
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start starts the sweeper loop
func (w *SweeperWorker) Start() {
	w.logger.Info().
		Dur("interval", w.interval).
		Dur("timeout", w.timeout).
		Msg("Starting auth sweeper worker")

	w.wg.Add(1)
	go w.run()
}

// Stop gracefully stops the sweeper loop
func (w *SweeperWorker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info().Msg("Stopping auth sweeper worker")

		w.cancel()
		close(w.done)
		w.wg.Wait()

		w.logger.Info().Msg("Auth sweeper worker stopped")
	})
}

func (w *SweeperWorker) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

// sweep performs a single invalidation pass
func (w *SweeperWorker) sweep() {
	ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
	defer cancel()

	report, err := w.useCase.SweepInvalid(ctx)
	if err != nil {
		w.logger.Warn().
			Err(err).
			Int("removed", len(report.Removed)).
			Int("failed", len(report.Failed)).
			Msg("Sweep finished with release failures")
		return
	}

	if len(report.Removed) > 0 {
		w.logger.Info().
			Int("checked", report.Checked).
			Ints64("removed", report.Removed).
			Msg("Sweep removed invalid sessions")
	}
}
