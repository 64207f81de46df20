package marketing

import "go.uber.org/fx"

// Module provides the marketing service to Fx.
var Module = fx.Provide(NewService)
