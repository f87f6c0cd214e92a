package rules

import (
	"context"

	"github.com/rs/zerolog"
	"go.uber.org/fx"

	"github.com/Conte777/fanscraper/config"
)

// Module provides the dynamic rules provider for fx DI
var Module = fx.Module("rules",
	fx.Provide(NewProviderFx),
)

// NewProviderFx creates the provider, starts the fetch loop on start and stops retrying on stop
func NewProviderFx(lc fx.Lifecycle, cfg *config.SiteConfig, logger zerolog.Logger) *Provider {
	provider := NewProvider(cfg.DynamicRulesURL, nil, cfg.RequestTimeout, logger)
	ctx, cancel := context.WithCancel(context.Background())

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			provider.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			cancel()
			return nil
		},
	})

	return provider
}
