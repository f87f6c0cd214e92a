package app

import (
	"go.uber.org/fx"

	"github.com/Conte777/fanscraper/config"
	"github.com/Conte777/fanscraper/internal/domain/auth"
	"github.com/Conte777/fanscraper/internal/domain/platform"
	"github.com/Conte777/fanscraper/internal/infrastructure"
)

// CreateApp creates the fx application options
func CreateApp() fx.Option {
	return fx.Options(
		fx.Provide(config.Out),
		infrastructure.Module,
		// Domain modules
		auth.Module,
		platform.Module, // Must be after auth.Module (wraps its UseCase)
	)
}
