package auth

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/fanscraper/config"
	authhttp "github.com/Conte777/fanscraper/internal/domain/auth/delivery/http"
	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
	"github.com/Conte777/fanscraper/internal/domain/auth/registry"
	"github.com/Conte777/fanscraper/internal/domain/auth/repository/postgres"
	"github.com/Conte777/fanscraper/internal/domain/auth/usecase/business"
	"github.com/Conte777/fanscraper/internal/domain/auth/workers"
	"github.com/Conte777/fanscraper/internal/infrastructure/http/server"
	"github.com/Conte777/fanscraper/internal/infrastructure/metrics"
	pkgerrors "github.com/Conte777/fanscraper/pkg/errors"
)

// Module provides auth session components for fx DI
var Module = fx.Module("auth",
	fx.Provide(registry.NewSessionRegistry),
	fx.Provide(postgres.NewRepository),
	fx.Provide(NewUseCaseFx),
	fx.Provide(NewHandlerFx),
	fx.Provide(NewRouterFx),
	fx.Invoke(RegisterRoutes),
	workers.Module,
)

// NewUseCaseFx creates the auth lifecycle and closes every session on shutdown
func NewUseCaseFx(
	lc fx.Lifecycle,
	reg deps.SessionRegistry,
	factory deps.AuthenticatorFactory,
	repo deps.SessionRepository,
	events deps.EventPublisher,
	m *metrics.Metrics,
	authCfg *config.AuthConfig,
	logger zerolog.Logger,
) deps.UseCase {
	uc := business.NewUseCase(reg, factory, business.Config{
		Repository:   repo,
		Events:       events,
		Metrics:      m,
		CloseTimeout: authCfg.CloseTimeout,
		LoginTimeout: authCfg.LoginTimeout,
	}, logger)

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info().Msg("closing auth sessions...")
			return uc.Close(ctx)
		},
	})

	return uc
}

// NewHandlerFx creates an auth handler for fx DI
func NewHandlerFx(useCase deps.UseCase, mapper *pkgerrors.Mapper, logger zerolog.Logger) *authhttp.Handler {
	return authhttp.NewHandler(useCase, mapper, logger)
}

// NewRouterFx creates an auth router for fx DI
func NewRouterFx(handler *authhttp.Handler, logger zerolog.Logger) *authhttp.Router {
	return authhttp.NewRouter(handler, logger)
}

// RegisterRoutes registers auth routes on the server
func RegisterRoutes(server *server.Server, router *authhttp.Router) {
	router.RegisterRoutes(server.Router)
}
