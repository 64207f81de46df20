package catalog

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/funerarias/internal/dto"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/presentation/http/request"
	"github.com/Additional-Code/funerarias/internal/presentation/http/response"
	repo "github.com/Additional-Code/funerarias/internal/repository/catalog"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	service "github.com/Additional-Code/funerarias/internal/service/catalog"
)

// Handler exposes the provider catalog over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a catalog Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts product and service routes on the dashboard, and the
// active catalog of each provider on the public API.
func Register(r *httpserver.Routes, h *Handler) {
	r.Public.GET("/providers/:providerID/products", h.publicProducts)
	r.Public.GET("/providers/:providerID/services", h.publicServices)

	products := r.Dashboard.Group("/products")
	products.GET("", h.listProducts)
	products.POST("", h.createProduct)
	products.GET("/:id", h.getProduct)
	products.PUT("/:id", h.updateProduct)
	products.DELETE("/:id", h.deleteProduct)

	services := r.Dashboard.Group("/services")
	services.GET("", h.listServices)
	services.POST("", h.createService)
	services.GET("/:id", h.getService)
	services.PUT("/:id", h.updateService)
	services.DELETE("/:id", h.deleteService)
}

func listQuery(c echo.Context, providerID int64, activeOnly bool) (repo.ListQuery, error) {
	limit, offset, err := request.Page(c)
	if err != nil {
		return repo.ListQuery{}, err
	}
	if !activeOnly {
		if activeOnly, err = request.Bool(c, "active"); err != nil {
			return repo.ListQuery{}, err
		}
	}
	return repo.ListQuery{
		ProviderID: providerID,
		Category:   entity.Category(c.QueryParam("category")),
		Text:       c.QueryParam("q"),
		ActiveOnly: activeOnly,
		Limit:      limit,
		Offset:     offset,
	}, nil
}

func (h *Handler) publicProducts(c echo.Context) error {
	return h.listPublic(c, func(ctx context.Context, q repo.ListQuery) (any, int, error) {
		return h.svc.ListProducts(ctx, q)
	})
}

func (h *Handler) publicServices(c echo.Context) error {
	return h.listPublic(c, func(ctx context.Context, q repo.ListQuery) (any, int, error) {
		return h.svc.ListServices(ctx, q)
	})
}

func (h *Handler) listPublic(c echo.Context, list func(context.Context, repo.ListQuery) (any, int, error)) error {
	b := response.New(c)

	providerID, err := request.ParamID(c, "providerID")
	if err != nil {
		return b.WithError(err).Build()
	}
	q, err := listQuery(c, providerID, true)
	if err != nil {
		return b.WithError(err).Build()
	}
	rows, total, err := list(c.Request().Context(), q)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) listProducts(c echo.Context) error {
	b := response.New(c)

	q, err := listQuery(c, httpserver.ProviderID(c), false)
	if err != nil {
		return b.WithError(err).Build()
	}
	rows, total, err := h.svc.ListProducts(c.Request().Context(), q)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) createProduct(c echo.Context) error {
	b := response.New(c)

	var payload dto.CatalogRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	p, err := h.svc.CreateProduct(c.Request().Context(), httpserver.ProviderID(c), payload.ToInput())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(p).Build()
}

func (h *Handler) getProduct(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	p, err := h.svc.GetProduct(c.Request().Context(), httpserver.ProviderID(c), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(p).Build()
}

func (h *Handler) updateProduct(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.CatalogRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	p, err := h.svc.UpdateProduct(c.Request().Context(), httpserver.ProviderID(c), id, payload.ToInput())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(p).Build()
}

func (h *Handler) deleteProduct(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	if err := h.svc.DeleteProduct(c.Request().Context(), httpserver.ProviderID(c), id); err != nil {
		return b.WithError(err).Build()
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listServices(c echo.Context) error {
	b := response.New(c)

	q, err := listQuery(c, httpserver.ProviderID(c), false)
	if err != nil {
		return b.WithError(err).Build()
	}
	rows, total, err := h.svc.ListServices(c.Request().Context(), q)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) createService(c echo.Context) error {
	b := response.New(c)

	var payload dto.CatalogRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	s, err := h.svc.CreateService(c.Request().Context(), httpserver.ProviderID(c), payload.ToInput())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(s).Build()
}

func (h *Handler) getService(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	s, err := h.svc.GetService(c.Request().Context(), httpserver.ProviderID(c), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(s).Build()
}

func (h *Handler) updateService(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.CatalogRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	s, err := h.svc.UpdateService(c.Request().Context(), httpserver.ProviderID(c), id, payload.ToInput())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(s).Build()
}

func (h *Handler) deleteService(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	if err := h.svc.DeleteService(c.Request().Context(), httpserver.ProviderID(c), id); err != nil {
		return b.WithError(err).Build()
	}
	return c.NoContent(http.StatusNoContent)
}
