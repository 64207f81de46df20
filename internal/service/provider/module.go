package provider

import "go.uber.org/fx"

// Module provides the provider service to Fx.
var Module = fx.Provide(NewService)
