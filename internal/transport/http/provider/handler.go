package provider

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/funerarias/internal/dto"
	"github.com/Additional-Code/funerarias/internal/presentation/http/request"
	"github.com/Additional-Code/funerarias/internal/presentation/http/response"
	repo "github.com/Additional-Code/funerarias/internal/repository/provider"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	service "github.com/Additional-Code/funerarias/internal/service/provider"
)

var httpTracer = otel.Tracer("github.com/Additional-Code/funerarias/transport/http/provider")

// Handler exposes the provider directory, registration and profile
// management over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a provider Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts public, dashboard and admin provider routes.
func Register(r *httpserver.Routes, h *Handler) {
	pub := r.Public.Group("/providers")
	pub.GET("", h.directory)
	pub.POST("", h.register)
	pub.GET("/compare", h.compare)
	pub.GET("/slug/:slug", h.profile)

	r.Dashboard.GET("/profile", h.get)
	r.Dashboard.PUT("/profile", h.update)
	r.Dashboard.GET("/coverage", h.coverage)
	r.Dashboard.PUT("/coverage", h.setCoverage)

	adm := r.Admin.Group("/providers")
	adm.GET("", h.directory)
	adm.PATCH("/:id/verify", h.verify)
	adm.DELETE("/:id", h.delete)
}

func (h *Handler) directory(c echo.Context) error {
	b := response.New(c)

	limit, offset, err := request.Page(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	verified, err := request.Bool(c, "verified")
	if err != nil {
		return b.WithError(err).Build()
	}
	page, err := h.svc.Directory(c.Request().Context(), repo.DirectoryQuery{
		Text:         c.QueryParam("q"),
		Region:       c.QueryParam("region"),
		Commune:      c.QueryParam("commune"),
		Category:     c.QueryParam("category"),
		VerifiedOnly: verified,
		Sort:         c.QueryParam("sort"),
		Limit:        limit,
		Offset:       offset,
	})
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(page).Build()
}

func (h *Handler) compare(c echo.Context) error {
	b := response.New(c)

	ids, err := request.IDs(c, "ids")
	if err != nil {
		return b.WithError(err).Build()
	}
	providers, err := h.svc.Compare(c.Request().Context(), ids)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(providers).Build()
}

func (h *Handler) profile(c echo.Context) error {
	b := response.New(c)

	profile, err := h.svc.GetBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(profile).Build()
}

func (h *Handler) register(c echo.Context) error {
	b := response.New(c)

	var form dto.ProviderForm
	if err := request.Bind(c, &form); err != nil {
		return b.WithError(err).Build()
	}
	coverage, err := form.CoverageEntries()
	if err != nil {
		return b.WithError(err).Build()
	}

	var files request.Files
	defer files.Close()
	logo, err := files.Upload(c, "logo")
	if err != nil {
		return b.WithError(err).Build()
	}
	hero, err := files.Upload(c, "hero")
	if err != nil {
		return b.WithError(err).Build()
	}

	ctx, span := httpTracer.Start(c.Request().Context(), "providers.register", trace.WithAttributes(
		attribute.String("provider.name", form.Name),
		attribute.Bool("provider.logo", logo != nil),
		attribute.Bool("provider.hero", hero != nil),
	))
	defer span.End()

	p, err := h.svc.Register(ctx, service.RegisterInput{
		Details:  form.Details(),
		Coverage: coverage,
		Logo:     logo,
		Hero:     hero,
	})
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(p).Build()
}

func (h *Handler) get(c echo.Context) error {
	b := response.New(c)

	p, err := h.svc.Get(c.Request().Context(), httpserver.ProviderID(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(p).Build()
}

func (h *Handler) update(c echo.Context) error {
	b := response.New(c)

	var form dto.ProviderForm
	if err := request.Bind(c, &form); err != nil {
		return b.WithError(err).Build()
	}

	var files request.Files
	defer files.Close()
	logo, err := files.Upload(c, "logo")
	if err != nil {
		return b.WithError(err).Build()
	}
	hero, err := files.Upload(c, "hero")
	if err != nil {
		return b.WithError(err).Build()
	}

	p, err := h.svc.Update(c.Request().Context(), httpserver.ProviderID(c), form.Details(), logo, hero)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(p).Build()
}

func (h *Handler) coverage(c echo.Context) error {
	b := response.New(c)

	communes, err := h.svc.Coverage(c.Request().Context(), httpserver.ProviderID(c))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(communes).Build()
}

func (h *Handler) setCoverage(c echo.Context) error {
	b := response.New(c)

	var payload dto.CoverageRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	communes, err := h.svc.SetCoverage(c.Request().Context(), httpserver.ProviderID(c), payload.ToEntities())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(communes).Build()
}

func (h *Handler) verify(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.VerifyRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	p, err := h.svc.Verify(c.Request().Context(), id, payload.Verified)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(p).Build()
}

func (h *Handler) delete(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return b.WithError(err).Build()
	}
	return c.NoContent(http.StatusNoContent)
}
