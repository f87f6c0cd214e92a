package workers

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Conte777/fanscraper/config"
	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
	"github.com/Conte777/fanscraper/internal/domain/auth/entities"
)

const bootstrapConcurrency = 4

// BootstrapWorker logs in the accounts listed in the credentials file at startup
type BootstrapWorker struct {
	useCase deps.UseCase
	path    string
	logger  zerolog.Logger

	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewBootstrapWorker creates a startup login worker; an empty path disables it
func NewBootstrapWorker(useCase deps.UseCase, authCfg *config.AuthConfig, logger zerolog.Logger) *BootstrapWorker {
	ctx, cancel := context.WithCancel(context.Background())

	return &BootstrapWorker{
		useCase: useCase,
		path:    authCfg.CredentialsFile,
		logger:  logger.With().Str("worker", "auth_bootstrap").Logger(),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start loads the credentials file and logs the accounts in the background
func (w *BootstrapWorker) Start() error {
	if w.path == "" {
		w.logger.Debug().Msg("No credentials file configured, skipping startup login")
		return nil
	}

	list, err := loadCredentials(w.path)
	if err != nil {
		return err
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		report := w.useCase.LoginAll(w.ctx, list, bootstrapConcurrency)
		for key, err := range report.Errors {
			w.logger.Warn().Err(err).Str("account", key).Msg("Startup login failed")
		}
	}()

	return nil
}

// Stop cancels logins still in flight and waits for them
func (w *BootstrapWorker) Stop() {
	w.cancel()
	w.wg.Wait()
}

func loadCredentials(path string) ([]entities.Credentials, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read credentials file: %w", err)
	}

	list, err := entities.ParseCredentialsList(data)
	if err != nil {
		return nil, fmt.Errorf("parse credentials file %s: %w", path, err)
	}

	active := list[:0]
	for _, creds := range list {
		if creds.Enabled() {
			active = append(active, creds)
		}
	}
	return active, nil
}
