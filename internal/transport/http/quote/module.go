package quote

import "go.uber.org/fx"

// Module wires HTTP quote handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(Register),
)
