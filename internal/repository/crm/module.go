package crm

import "go.uber.org/fx"

// Module provides the CRM repository to Fx.
var Module = fx.Provide(NewRepository)
