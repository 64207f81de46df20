package quote

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/funerarias/internal/dto"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/presentation/http/request"
	"github.com/Additional-Code/funerarias/internal/presentation/http/response"
	repo "github.com/Additional-Code/funerarias/internal/repository/quote"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	service "github.com/Additional-Code/funerarias/internal/service/quote"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/funerarias/transport/http/quote")

// Handler exposes quote endpoints over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a quote Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the public preview and the dashboard quote routes.
func Register(r *httpserver.Routes, h *Handler) {
	r.Public.POST("/quotes/preview", h.preview)

	g := r.Dashboard.Group("/quotes")
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/reorder", h.reorder)
	g.GET("/:id/pdf", h.pdf)
	g.POST("/:id/send", h.send)
	g.POST("/:id/accept", h.accept)
	g.POST("/:id/reject", h.reject)
	g.POST("/:id/convert", h.convert)
}

func (h *Handler) preview(c echo.Context) error {
	b := response.New(c)

	var payload dto.PreviewRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	items, totals, rate, err := h.svc.Totals(payload.Items, payload.TaxRate)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(dto.NewPreview(items, totals, rate)).Build()
}

func (h *Handler) list(c echo.Context) error {
	b := response.New(c)

	limit, offset, err := request.Page(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	lq := repo.ListQuery{
		ProviderID: httpserver.ProviderID(c),
		Status:     entity.QuoteStatus(c.QueryParam("status")),
		Text:       c.QueryParam("q"),
		Limit:      limit,
		Offset:     offset,
	}
	rows, total, err := h.svc.List(c.Request().Context(), lq)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) create(c echo.Context) error {
	b := response.New(c)

	var payload dto.QuoteRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	in, err := payload.ToInput()
	if err != nil {
		return b.WithError(err).Build()
	}

	providerID := httpserver.ProviderID(c)
	ctx, span := httpTracer.Start(c.Request().Context(), "quotes.create", trace.WithAttributes(
		attribute.Int64("provider.id", providerID),
		attribute.Int("quote.items", len(in.Items)),
	))
	defer span.End()

	q, err := h.svc.Create(ctx, providerID, in)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(q).Build()
}

func (h *Handler) get(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	q, err := h.svc.Get(c.Request().Context(), httpserver.ProviderID(c), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(q).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.QuoteRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	in, err := payload.ToInput()
	if err != nil {
		return b.WithError(err).Build()
	}
	q, err := h.svc.Update(c.Request().Context(), httpserver.ProviderID(c), id, in)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(q).Build()
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

func (h *Handler) reorder(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.ReorderRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	q, err := h.svc.Reorder(c.Request().Context(), httpserver.ProviderID(c), id, payload.From, payload.To)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(q).Build()
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

type transition func(ctx context.Context, providerID, id int64) (*entity.Quote, error)

func (h *Handler) send(c echo.Context) error   { return h.transition(c, h.svc.Send) }
func (h *Handler) accept(c echo.Context) error { return h.transition(c, h.svc.Accept) }
func (h *Handler) reject(c echo.Context) error { return h.transition(c, h.svc.Reject) }

func (h *Handler) transition(c echo.Context, fn transition) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	q, err := fn(c.Request().Context(), httpserver.ProviderID(c), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(q).Build()
}

func (h *Handler) convert(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	providerID := httpserver.ProviderID(c)
	ctx, span := httpTracer.Start(c.Request().Context(), "quotes.convert", trace.WithAttributes(
		attribute.Int64("provider.id", providerID),
		attribute.Int64("quote.id", id),
	))
	defer span.End()

	order, err := h.svc.ConvertToOrder(ctx, providerID, id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(order).Build()
}
