package invoice

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/funerarias/internal/dto"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/presentation/http/request"
	"github.com/Additional-Code/funerarias/internal/presentation/http/response"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	service "github.com/Additional-Code/funerarias/internal/service/invoice"
)

// Handler exposes invoice endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an invoice Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the dashboard invoice routes.
func Register(r *httpserver.Routes, h *Handler) {
	r.Dashboard.POST("/orders/:id/invoice", h.issue)

	g := r.Dashboard.Group("/invoices")
	g.GET("", h.list)
	g.GET("/:id", h.get)
	g.PATCH("/:id/status", h.setStatus)
	g.GET("/:id/pdf", h.pdf)
}

func (h *Handler) issue(c echo.Context) error {
	b := response.New(c)

	orderID, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	inv, err := h.svc.IssueFromOrder(c.Request().Context(), httpserver.ProviderID(c), orderID)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(inv).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	limit, offset, err := request.Page(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	status := entity.InvoiceStatus(c.QueryParam("status"))
	rows, total, err := h.svc.List(c.Request().Context(), httpserver.ProviderID(c), status, limit, offset)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) get(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	inv, err := h.svc.Get(c.Request().Context(), httpserver.ProviderID(c), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(inv).Build()
}

func (h *Handler) setStatus(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.StatusRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	inv, err := h.svc.SetStatus(c.Request().Context(), httpserver.ProviderID(c), id, entity.InvoiceStatus(payload.Status))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(inv).Build()
}

func (h *Handler) pdf(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	data, filename, err := h.svc.RenderPDF(c.Request().Context(), httpserver.ProviderID(c), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return response.PDF(c, filename, data)
}
