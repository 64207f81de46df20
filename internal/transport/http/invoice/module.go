package invoice

import "go.uber.org/fx"

// Module wires HTTP invoice handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(Register),
)
