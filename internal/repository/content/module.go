package content

import "go.uber.org/fx"

// Module provides the content repository to Fx.
var Module = fx.Provide(NewRepository)
