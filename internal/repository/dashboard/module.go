package dashboard

import "go.uber.org/fx"

// Module provides the dashboard repository to Fx.
var Module = fx.Provide(NewRepository)
