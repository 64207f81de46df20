package http

import (
	echo "github.com/labstack/echo/v4"

	"github.com/Additional-Code/funerarias/internal/config"
)

// Routes groups the three API surfaces.
type Routes struct {
	// Public is the unauthenticated marketplace API.
	Public *echo.Group
	// Dashboard is mounted at /dashboard/:providerID.
	Dashboard *echo.Group
	// Admin is the superadmin console guarded by X-Admin-Token.
	Admin *echo.Group
}

// NewRoutes mounts the route groups on e.
func NewRoutes(e *echo.Echo, cfg config.Config) *Routes {
	return &Routes{
		Public:    e.Group(""),
		Dashboard: e.Group("/dashboard/:providerID", ProviderScope()),
		Admin:     e.Group("/admin", AdminGuard(cfg.Admin.Token)),
	}
}
