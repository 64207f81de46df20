// Package crm manages the staff, leads and funeral cases of a provider.
package crm

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/cache"
	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/entity"
	repo "github.com/Additional-Code/funerarias/internal/repository/crm"
	providerrepo "github.com/Additional-Code/funerarias/internal/repository/provider"
	"github.com/Additional-Code/funerarias/internal/service/dashboard"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
	"github.com/Additional-Code/funerarias/pkg/rut"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/funerarias/service/crm")

// ProviderReader checks that a lead targets an existing provider.
type ProviderReader interface {
	GetByID(ctx context.Context, id int64) (*entity.Provider, error)
}

// LeadInput is a contact request from the public site.
type LeadInput struct {
	ProviderID int64
	Name       string
	Email      string
	Phone      string
	RUT        string
	Commune    string
	Message    string
	Source     string
}

// EmployeeInput carries the editable fields of an employee.
type EmployeeInput struct {
	Name   string
	RUT    string
	Email  string
	Phone  string
	Role   string
	Active bool
}

// CaseInput carries the editable fields of a case.
type CaseInput struct {
	DeceasedName string
	DeceasedRUT  string
	Client       entity.Client
	Status       entity.CaseStatus
	ServiceDate  time.Time
	QuoteID      int64
	OrderID      int64
	AssigneeID   int64
	Notes        string
}

// Service implements CRM use cases.
type Service struct {
	repo      *repo.Repository
	providers ProviderReader
	cache     cache.Store
	logger    *zap.Logger
	business  config.Business
	now       func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Providers  *providerrepo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		providers: p.Providers,
		cache:     p.Cache,
		logger:    p.Logger,
		business:  p.Config.Business,
		now:       time.Now,
	}
}

// CreateLead stores a contact request addressed to a provider.
func (s *Service) CreateLead(ctx context.Context, in LeadInput) (*entity.Lead, error) {
	ctx, span := serviceTracer.Start(ctx, "CRMService.CreateLead", trace.WithAttributes(attribute.Int64("provider.id", in.ProviderID)))
	defer span.End()

	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, errorbank.BadRequest("name is required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	phone := strings.TrimSpace(in.Phone)
	if email == "" && phone == "" {
		return nil, errorbank.BadRequest("an email or a phone number is required")
	}
	clientRUT, err := optionalRUT(in.RUT)
	if err != nil {
		return nil, err
	}
	if in.ProviderID <= 0 {
		return nil, errorbank.BadRequest("provider is required")
	}
	if _, err := s.providers.GetByID(ctx, in.ProviderID); err != nil {
		if errors.Is(err, providerrepo.ErrNotFound) {
			return nil, errorbank.NotFound("provider not found")
		}
		return nil, errorbank.Internal("failed to load provider", errorbank.WithCause(err))
	}

	source := strings.TrimSpace(in.Source)
	if source == "" {
		source = "web"
	}
	now := s.now().UTC()
	lead := &entity.Lead{
		ProviderID: in.ProviderID,
		Name:       name,
		Email:      email,
		Phone:      phone,
		RUT:        clientRUT,
		Commune:    strings.TrimSpace(in.Commune),
		Message:    strings.TrimSpace(in.Message),
		Source:     source,
		Status:     entity.LeadNew,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateLead(ctx, lead); err != nil {
		span.RecordError(err)
		return nil, errorbank.Internal("failed to save lead", errorbank.WithCause(err))
	}
	dashboard.Invalidate(ctx, s.cache, s.logger, lead.ProviderID)
	s.logger.Info("lead received", zap.Int64("id", lead.ID), zap.Int64("provider_id", lead.ProviderID))
	return lead, nil
}

// ListLeads returns the leads of a provider.
func (s *Service) ListLeads(ctx context.Context, q repo.ListQuery) ([]entity.Lead, int, error) {
	if q.Status != "" && !entity.LeadStatus(q.Status).Valid() {
		return nil, 0, errorbank.BadRequest("unknown lead status", errorbank.WithDetail("status", q.Status))
	}
	q.Limit, q.Offset = s.business.Page(q.Limit, q.Offset)
	rows, total, err := s.repo.ListLeads(ctx, q)
	if err != nil {
		return nil, 0, errorbank.Internal("failed to list leads", errorbank.WithCause(err))
	}
	return rows, total, nil
}

// GetLead fetches one lead of a provider.
func (s *Service) GetLead(ctx context.Context, providerID, id int64) (*entity.Lead, error) {
	lead, err := s.repo.GetLead(ctx, providerID, id)
	if err != nil {
		return nil, translate(err, "lead")
	}
	return lead, nil
}

// SetLeadStatus records the follow-up state of a lead.
func (s *Service) SetLeadStatus(ctx context.Context, providerID, id int64, status entity.LeadStatus) (*entity.Lead, error) {
	if !status.Valid() {
		return nil, errorbank.BadRequest("unknown lead status", errorbank.WithDetail("status", status))
	}
	lead, err := s.GetLead(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	lead.Status = status
	lead.UpdatedAt = s.now().UTC()
	if err := s.repo.SaveLead(ctx, lead); err != nil {
		return nil, translate(err, "lead")
	}
	dashboard.Invalidate(ctx, s.cache, s.logger, providerID)
	return lead, nil
}

// CreateEmployee adds a staff member.
func (s *Service) CreateEmployee(ctx context.Context, providerID int64, in EmployeeInput) (*entity.Employee, error) {
	e := &entity.Employee{ProviderID: providerID, CreatedAt: s.now().UTC()}
	if err := applyEmployee(e, in); err != nil {
		return nil, err
	}
	e.UpdatedAt = e.CreatedAt
	if err := s.repo.CreateEmployee(ctx, e); err != nil {
		return nil, errorbank.Internal("failed to save employee", errorbank.WithCause(err))
	}
	return e, nil
}

// UpdateEmployee overwrites a staff member.
func (s *Service) UpdateEmployee(ctx context.Context, providerID, id int64, in EmployeeInput) (*entity.Employee, error) {
	e, err := s.GetEmployee(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	if err := applyEmployee(e, in); err != nil {
		return nil, err
	}
	e.UpdatedAt = s.now().UTC()
	if err := s.repo.SaveEmployee(ctx, e); err != nil {
		return nil, translate(err, "employee")
	}
	return e, nil
}

// GetEmployee fetches one staff member.
func (s *Service) GetEmployee(ctx context.Context, providerID, id int64) (*entity.Employee, error) {
	e, err := s.repo.GetEmployee(ctx, providerID, id)
	if err != nil {
		return nil, translate(err, "employee")
	}
	return e, nil
}

// ListEmployees returns the staff of a provider.
func (s *Service) ListEmployees(ctx context.Context, q repo.ListQuery) ([]entity.Employee, int, error) {
	q.Limit, q.Offset = s.business.Page(q.Limit, q.Offset)
	rows, total, err := s.repo.ListEmployees(ctx, q)
	if err != nil {
		return nil, 0, errorbank.Internal("failed to list employees", errorbank.WithCause(err))
	}
	return rows, total, nil
}

// DeleteEmployee removes a staff member.
func (s *Service) DeleteEmployee(ctx context.Context, providerID, id int64) error {
	if err := s.repo.DeleteEmployee(ctx, providerID, id); err != nil {
		return translate(err, "employee")
	}
	return nil
}

// CreateCase opens a funeral case.
func (s *Service) CreateCase(ctx context.Context, providerID int64, in CaseInput) (*entity.Case, error) {
	if in.Status == "" {
		in.Status = entity.CaseOpen
	}
	c := &entity.Case{ProviderID: providerID, CreatedAt: s.now().UTC()}
	if err := s.applyCase(ctx, c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = c.CreatedAt
	if err := s.repo.CreateCase(ctx, c); err != nil {
		return nil, errorbank.Internal("failed to save case", errorbank.WithCause(err))
	}
	dashboard.Invalidate(ctx, s.cache, s.logger, providerID)
	return c, nil
}

// UpdateCase overwrites a case.
func (s *Service) UpdateCase(ctx context.Context, providerID, id int64, in CaseInput) (*entity.Case, error) {
	c, err := s.GetCase(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	if in.Status == "" {
		in.Status = c.Status
	}
	if err := s.applyCase(ctx, c, in); err != nil {
		return nil, err
	}
	c.UpdatedAt = s.now().UTC()
	if err := s.repo.SaveCase(ctx, c); err != nil {
		return nil, translate(err, "case")
	}
	dashboard.Invalidate(ctx, s.cache, s.logger, providerID)
	return c, nil
}

// GetCase fetches one case.
func (s *Service) GetCase(ctx context.Context, providerID, id int64) (*entity.Case, error) {
	c, err := s.repo.GetCase(ctx, providerID, id)
	if err != nil {
		return nil, translate(err, "case")
	}
	return c, nil
}

// ListCases returns the cases of a provider.
func (s *Service) ListCases(ctx context.Context, q repo.ListQuery) ([]entity.Case, int, error) {
	if q.Status != "" && !entity.CaseStatus(q.Status).Valid() {
		return nil, 0, errorbank.BadRequest("unknown case status", errorbank.WithDetail("status", q.Status))
	}
	q.Limit, q.Offset = s.business.Page(q.Limit, q.Offset)
	rows, total, err := s.repo.ListCases(ctx, q)
	if err != nil {
		return nil, 0, errorbank.Internal("failed to list cases", errorbank.WithCause(err))
	}
	return rows, total, nil
}

// DeleteCase removes a case.
func (s *Service) DeleteCase(ctx context.Context, providerID, id int64) error {
	if err := s.repo.DeleteCase(ctx, providerID, id); err != nil {
		return translate(err, "case")
	}
	dashboard.Invalidate(ctx, s.cache, s.logger, providerID)
	return nil
}

func (s *Service) applyCase(ctx context.Context, c *entity.Case, in CaseInput) error {
	name := strings.TrimSpace(in.DeceasedName)
	if name == "" {
		return errorbank.BadRequest("deceased name is required")
	}
	if !in.Status.Valid() {
		return errorbank.BadRequest("unknown case status", errorbank.WithDetail("status", in.Status))
	}
	deceasedRUT, err := optionalRUT(in.DeceasedRUT)
	if err != nil {
		return err
	}
	client, err := normalizeClient(in.Client)
	if err != nil {
		return err
	}
	if in.AssigneeID != 0 {
		if _, err := s.repo.GetEmployee(ctx, c.ProviderID, in.AssigneeID); err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return errorbank.BadRequest("assignee is not an employee of this provider")
			}
			return errorbank.Internal("failed to load assignee", errorbank.WithCause(err))
		}
	}
	c.DeceasedName = name
	c.DeceasedRUT = deceasedRUT
	c.Client = client
	c.Status = in.Status
	c.ServiceDate = in.ServiceDate
	c.QuoteID = in.QuoteID
	c.OrderID = in.OrderID
	c.AssigneeID = in.AssigneeID
	c.Notes = strings.TrimSpace(in.Notes)
	return nil
}

func applyEmployee(e *entity.Employee, in EmployeeInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return errorbank.BadRequest("employee name is required")
	}
	email, err := normalizeEmail(in.Email)
	if err != nil {
		return err
	}
	employeeRUT, err := optionalRUT(in.RUT)
	if err != nil {
		return err
	}
	e.Name = name
	e.RUT = employeeRUT
	e.Email = email
	e.Phone = strings.TrimSpace(in.Phone)
	e.Role = strings.TrimSpace(in.Role)
	e.Active = in.Active
	return nil
}

func normalizeClient(c entity.Client) (entity.Client, error) {
	email, err := normalizeEmail(c.Email)
	if err != nil {
		return c, err
	}
	clientRUT, err := optionalRUT(c.RUT)
	if err != nil {
		return c, err
	}
	return entity.Client{
		Name:  strings.TrimSpace(c.Name),
		Email: email,
		Phone: strings.TrimSpace(c.Phone),
		RUT:   clientRUT,
	}, nil
}

func normalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if email == "" {
		return "", nil
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return "", errorbank.BadRequest("email is not valid", errorbank.WithDetail("email", raw))
	}
	return email, nil
}

func optionalRUT(raw string) (string, error) {
	if strings.TrimSpace(raw) == "" {
		return "", nil
	}
	formatted, err := rut.Format(raw)
	if err != nil {
		return "", errorbank.BadRequest("RUT is not valid", errorbank.WithDetail("rut", raw))
	}
	return formatted, nil
}

func translate(err error, what string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound(what + " not found")
	}
	return errorbank.Internal("failed to access "+what, errorbank.WithCause(err))
}
