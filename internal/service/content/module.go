package content

import "go.uber.org/fx"

// Module provides the content service to Fx.
var Module = fx.Provide(NewService)
