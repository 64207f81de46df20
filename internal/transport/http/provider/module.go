package provider

import "go.uber.org/fx"

// Module wires HTTP provider handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(Register),
)
