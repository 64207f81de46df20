package rut

import "go.uber.org/fx"

// Module wires the RUT check route.
var Module = fx.Invoke(Register)
