package invoice

import "go.uber.org/fx"

// Module provides the invoice service to Fx.
var Module = fx.Provide(NewService)
