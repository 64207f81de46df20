package marketing

import "go.uber.org/fx"

// Module wires HTTP marketing handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(Register),
)
