package crm

import "go.uber.org/fx"

// Module provides the CRM service to Fx.
var Module = fx.Provide(NewService)
