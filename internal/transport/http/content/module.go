package content

import "go.uber.org/fx"

// Module wires HTTP content handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(Register),
)
