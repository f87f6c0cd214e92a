package workers

import (
	"context"

	"go.uber.org/fx"
)

// Module provides auth workers for fx DI
var Module = fx.Module("auth-workers",
	fx.Provide(NewSweeperWorker),
	fx.Provide(NewBootstrapWorker),
	fx.Invoke(registerLifecycle),
)

// registerLifecycle registers auth workers with fx.Lifecycle
func registerLifecycle(lc fx.Lifecycle, sweeper *SweeperWorker, bootstrap *BootstrapWorker) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := bootstrap.Start(); err != nil {
				return err
			}
			sweeper.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			sweeper.Stop()
			bootstrap.Stop()
			return nil
		},
	})
}
