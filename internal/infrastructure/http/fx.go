package http

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/fanscraper/config"
	"github.com/Conte777/fanscraper/internal/infrastructure/http/server"
	pkgerrors "github.com/Conte777/fanscraper/pkg/errors"
)

// Module provides HTTP server for fx DI
var Module = fx.Module("http",
	fx.Provide(NewServerFx),
	fx.Provide(pkgerrors.NewMapper),
)

// NewServerFx creates HTTP server with lifecycle hooks for fx DI
func NewServerFx(lc fx.Lifecycle, serviceCfg *config.ServiceConfig, logger zerolog.Logger) *server.Server {
	srv := server.NewServer(serviceCfg.Name, serviceCfg.Port, logger)
	srv.RegisterMetrics()

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return srv.Start()
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})

	return srv
}
