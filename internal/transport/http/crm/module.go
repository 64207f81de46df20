package crm

import "go.uber.org/fx"

// Module wires HTTP CRM handlers.
var Module = fx.Options(
	fx.Provide(NewHandler),
	fx.Invoke(Register),
)
