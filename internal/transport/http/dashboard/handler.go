package dashboard

import (
	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/funerarias/internal/presentation/http/response"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	service "github.com/Additional-Code/funerarias/internal/service/dashboard"
)

// Handler exposes provider and platform statistics over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a dashboard Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the stats routes.
func Register(r *httpserver.Routes, h *Handler) {
	r.Dashboard.GET("/stats", h.providerStats)
	r.Admin.GET("/stats", h.platformStats)
}

func (h *Handler) providerStats(c echo.Context) error {
	b := response.New(c)

	stats, err := h.svc.ProviderStats(c.Request().Context(), httpserver.ProviderID(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(stats).Build()
}

func (h *Handler) platformStats(c echo.Context) error {
	b := response.New(c)

	stats, err := h.svc.PlatformStats(c.Request().Context())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(stats).Build()
}
