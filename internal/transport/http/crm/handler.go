package crm

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Additional-Code/funerarias/internal/dto"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/presentation/http/request"
	"github.com/Additional-Code/funerarias/internal/presentation/http/response"
	repo "github.com/Additional-Code/funerarias/internal/repository/crm"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	service "github.com/Additional-Code/funerarias/internal/service/crm"
)

// Handler exposes leads, employees and funeral cases over HTTP.
type Handler struct {
	svc *service.Service
}

// NewHandler constructs a CRM Handler.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the public contact form and the dashboard CRM routes.
func Register(r *httpserver.Routes, h *Handler) {
	r.Public.POST("/leads", h.createLead)

	leads := r.Dashboard.Group("/leads")
	leads.GET("", h.listLeads)
	leads.GET("/:id", h.getLead)
	leads.PATCH("/:id/status", h.setLeadStatus)

	employees := r.Dashboard.Group("/employees")
	employees.GET("", h.listEmployees)
	employees.POST("", h.createEmployee)
	employees.GET("/:id", h.getEmployee)
	employees.PUT("/:id", h.updateEmployee)
	employees.DELETE("/:id", h.deleteEmployee)

	cases := r.Dashboard.Group("/cases")
	cases.GET("", h.listCases)
	cases.POST("", h.createCase)
	cases.GET("/:id", h.getCase)
	cases.PUT("/:id", h.updateCase)
	cases.DELETE("/:id", h.deleteCase)
}

func listQuery(c echo.Context) (repo.ListQuery, error) {
	limit, offset, err := request.Page(c)
	if err != nil {
		return repo.ListQuery{}, err
	}
	return repo.ListQuery{
		ProviderID: httpserver.ProviderID(c),
		Status:     c.QueryParam("status"),
		Text:       c.QueryParam("q"),
		Limit:      limit,
		Offset:     offset,
	}, nil
}

func (h *Handler) createLead(c echo.Context) error {
	b := response.New(c)

	var payload dto.LeadRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	lead, err := h.svc.CreateLead(c.Request().Context(), payload.ToInput())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(lead).Build()
}

func (h *Handler) listLeads(c echo.Context) error {
	b := response.New(c)

	q, err := listQuery(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	rows, total, err := h.svc.ListLeads(c.Request().Context(), q)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) getLead(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	lead, err := h.svc.GetLead(c.Request().Context(), httpserver.ProviderID(c), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(lead).Build()
}

func (h *Handler) setLeadStatus(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.StatusRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	lead, err := h.svc.SetLeadStatus(c.Request().Context(), httpserver.ProviderID(c), id, entity.LeadStatus(payload.Status))
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(lead).Build()
}

func (h *Handler) listEmployees(c echo.Context) error {
	b := response.New(c)

	q, err := listQuery(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	rows, total, err := h.svc.ListEmployees(c.Request().Context(), q)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) createEmployee(c echo.Context) error {
	b := response.New(c)

	var payload dto.EmployeeRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	e, err := h.svc.CreateEmployee(c.Request().Context(), httpserver.ProviderID(c), payload.ToInput())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(e).Build()
}

func (h *Handler) getEmployee(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	e, err := h.svc.GetEmployee(c.Request().Context(), httpserver.ProviderID(c), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(e).Build()
}

func (h *Handler) updateEmployee(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.EmployeeRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	e, err := h.svc.UpdateEmployee(c.Request().Context(), httpserver.ProviderID(c), id, payload.ToInput())
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(e).Build()
}

func (h *Handler) deleteEmployee(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	if err := h.svc.DeleteEmployee(c.Request().Context(), httpserver.ProviderID(c), id); err != nil {
		return b.WithError(err).Build()
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) listCases(c echo.Context) error {
	b := response.New(c)

	q, err := listQuery(c)
	if err != nil {
		return b.WithError(err).Build()
	}
	rows, total, err := h.svc.ListCases(c.Request().Context(), q)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.Page(rows, total)
}

func (h *Handler) createCase(c echo.Context) error {
	b := response.New(c)

	var payload dto.CaseRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	in, err := payload.ToInput()
	if err != nil {
		return b.WithError(err).Build()
	}
	fc, err := h.svc.CreateCase(c.Request().Context(), httpserver.ProviderID(c), in)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithStatus(http.StatusCreated).WithData(fc).Build()
}

func (h *Handler) getCase(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	fc, err := h.svc.GetCase(c.Request().Context(), httpserver.ProviderID(c), id)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(fc).Build()
}

func (h *Handler) updateCase(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	var payload dto.CaseRequest
	if err := request.Bind(c, &payload); err != nil {
		return b.WithError(err).Build()
	}
	in, err := payload.ToInput()
	if err != nil {
		return b.WithError(err).Build()
	}
	fc, err := h.svc.UpdateCase(c.Request().Context(), httpserver.ProviderID(c), id, in)
	if err != nil {
		return b.WithError(err).Build()
	}
	return b.WithData(fc).Build()
}

func (h *Handler) deleteCase(c echo.Context) error {
	b := response.New(c)

	id, err := request.ParamID(c, "id")
	if err != nil {
		return b.WithError(err).Build()
	}
	if err := h.svc.DeleteCase(c.Request().Context(), httpserver.ProviderID(c), id); err != nil {
		return b.WithError(err).Build()
	}
	return c.NoContent(http.StatusNoContent)
}
