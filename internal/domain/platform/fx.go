package platform

import (
	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/fanscraper/config"
	"github.com/Conte777/fanscraper/internal/domain/auth/deps"
	platformhttp "github.com/Conte777/fanscraper/internal/domain/platform/delivery/http"
	"github.com/Conte777/fanscraper/internal/domain/platform/facade"
	"github.com/Conte777/fanscraper/internal/infrastructure/http/server"
	"github.com/Conte777/fanscraper/internal/infrastructure/metrics"
	"github.com/Conte777/fanscraper/internal/infrastructure/rules"
	pkgerrors "github.com/Conte777/fanscraper/pkg/errors"
)

// Module provides the platform facade and its routes for fx DI
var Module = fx.Module("platform",
	fx.Provide(NewAPIFx),
	fx.Provide(NewHandlerFx),
	fx.Provide(NewRouterFx),
	fx.Invoke(RegisterRoutes),
)

// NewAPIFx creates the platform facade for fx DI
func NewAPIFx(cfg *config.SiteConfig, auth deps.UseCase, provider *rules.Provider, m *metrics.Metrics) *facade.API {
	return facade.NewAPI(cfg.Name, auth, provider, m)
}

func NewHandlerFx(api *facade.API, mapper *pkgerrors.Mapper, logger zerolog.Logger) *platformhttp.Handler {
	return platformhttp.NewHandler(api, mapper, logger)
}

func NewRouterFx(handler *platformhttp.Handler, logger zerolog.Logger) *platformhttp.Router {
	return platformhttp.NewRouter(handler, logger)
}

// RegisterRoutes registers taxonomy and health routes on the server
func RegisterRoutes(server *server.Server, router *platformhttp.Router) {
	router.RegisterRoutes(server.Router)
}
