package onlyfans

import "go.uber.org/fx"

// Module provides the platform authenticator factory for fx DI
var Module = fx.Module("onlyfans",
	fx.Provide(NewAuthenticatorFactory),
)
