package marketing

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/funerarias/internal/dto"
	"github.com/Additional-Code/funerarias/internal/presentation/http/request"
	"github.com/Additional-Code/funerarias/internal/presentation/http/response"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	service "github.com/Additional-Code/funerarias/internal/service/marketing"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/funerarias/transport/http/marketing")

// Handler exposes marketing campaigns to the admin console.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a marketing Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the campaign route.
func Register(r *httpserver.Routes, h *Handler) {
	r.Admin.POST("/campaigns", h.request)
}

func (h *Handler) request(c echo.Context) error {
	b := response.New(c)

	var payload dto.CampaignRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "campaigns.request", trace.WithAttributes(
		attribute.Int("campaign.recipients", len(payload.To)),
	))
	defer span.End()

	res, err := h.svc.Request(ctx, payload.To, payload.Subject, payload.HTML)
	if err != nil {
		return b.WithError(err).Build()
	}
	status := http.StatusOK
	if res.Queued {
		status = http.StatusAccepted
	}
	return b.WithStatus(status).WithData(res).Build()
}
