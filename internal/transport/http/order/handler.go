package order

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/funerarias/internal/dto"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/presentation/http/request"
	"github.com/Additional-Code/funerarias/internal/presentation/http/response"
	repo "github.com/Additional-Code/funerarias/internal/repository/order"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	service "github.com/Additional-Code/funerarias/internal/service/order"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/funerarias/transport/http/order")

// Handler exposes order endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs an order Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the dashboard order routes.
func Register(r *httpserver.Routes, h *Handler) {
	g := r.Dashboard.Group("/orders")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.getByID)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.PATCH("/:id/status", h.updateStatus)
	g.GET("/:id/pdf", h.pdf)
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	limit, offset, err := request.Page(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	rows, total, err := h.svc.List(c.Request().Context(), repo.ListQuery{
		ProviderID: httpserver.ProviderID(c),
		Status:     entity.OrderStatus(c.QueryParam("status")),
		Text:       c.QueryParam("q"),
		Limit:      limit,
		Offset:     offset,
	})
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) getByID(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "orders.getByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := h.svc.Get(ctx, httpserver.ProviderID(c), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(order).Build()
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.OrderRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	providerID := httpserver.ProviderID(c)
	ctx, span := httpTracer.Start(c.Request().Context(), "orders.create", trace.WithAttributes(
		attribute.Int64("provider.id", providerID),
		attribute.Int("order.items", len(payload.Items)),
	))
	defer span.End()

	order, err := h.svc.Create(ctx, providerID, payload.ToInput())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(order).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.OrderRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	order, err := h.svc.Update(c.Request().Context(), httpserver.ProviderID(c), id, payload.ToInput())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(order).Build()
}

func (h *Handler) updateStatus(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.StatusRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	order, err := h.svc.UpdateStatus(c.Request().Context(), httpserver.ProviderID(c), id, entity.OrderStatus(payload.Status))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(order).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	if err := h.svc.Delete(c.Request().Context(), httpserver.ProviderID(c), id); err != nil {
		return b.WithError(err).Build()
	}
	return c.NoContent(http.StatusNoContent)
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
