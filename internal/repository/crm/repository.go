package crm

import (
	"context"
	"errors"

	"github.com/Additional-Code/funerarias/internal/database"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/repository/crud"
)

// ErrNotFound is returned when an employee, lead or case is missing.
var ErrNotFound = errors.New("crm record not found")

// ListQuery narrows CRM listings on a provider dashboard.
type ListQuery struct {
	ProviderID int64
	Status     string
	Text       string
	Limit      int
	Offset     int
}

func (q ListQuery) page() crud.Page { return crud.Page{Limit: q.Limit, Offset: q.Offset} }

// Repository groups the employees, leads and cases tables.
type Repository struct {
	employees *crud.Table[entity.Employee]
	leads     *crud.Table[entity.Lead]
	cases     *crud.Table[entity.Case]
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		employees: crud.New[entity.Employee](conns),
		leads:     crud.New[entity.Lead](conns),
		cases:     crud.New[entity.Case](conns),
	}
}

// CreateEmployee inserts a staff member.
func (r *Repository) CreateEmployee(ctx context.Context, e *entity.Employee) error {
	return r.employees.Create(ctx, e)
}

// SaveEmployee overwrites a staff member.
func (r *Repository) SaveEmployee(ctx context.Context, e *entity.Employee) error {
	return translate(r.employees.Update(ctx, e))
}

// GetEmployee fetches a staff member of providerID.
func (r *Repository) GetEmployee(ctx context.Context, providerID, id int64) (*entity.Employee, error) {
	e, err := r.employees.Owned(ctx, providerID, id)
	return e, translate(err)
}

// ListEmployees returns the staff of a provider sorted by name.
func (r *Repository) ListEmployees(ctx context.Context, q ListQuery) ([]entity.Employee, int, error) {
	return r.employees.List(ctx, q.page(),
		crud.Eq("provider_id", q.ProviderID),
		crud.Search(q.Text, "name", "email", "role"),
		crud.OrderBy("name ASC"),
	)
}

// DeleteEmployee removes a staff member of providerID.
func (r *Repository) DeleteEmployee(ctx context.Context, providerID, id int64) error {
	return translate(r.employees.DeleteOwned(ctx, providerID, id))
}

// CreateLead inserts a contact request.
func (r *Repository) CreateLead(ctx context.Context, l *entity.Lead) error {
	return r.leads.Create(ctx, l)
}

// GetLead fetches a lead addressed to providerID.
func (r *Repository) GetLead(ctx context.Context, providerID, id int64) (*entity.Lead, error) {
	l, err := r.leads.Owned(ctx, providerID, id)
	return l, translate(err)
}

// SaveLead overwrites a lead.
func (r *Repository) SaveLead(ctx context.Context, l *entity.Lead) error {
	return translate(r.leads.Update(ctx, l))
}

// ListLeads returns leads of a provider, newest first.
func (r *Repository) ListLeads(ctx context.Context, q ListQuery) ([]entity.Lead, int, error) {
	return r.leads.List(ctx, q.page(),
		crud.Eq("provider_id", q.ProviderID),
		crud.EqIf("status", q.Status),
		crud.Search(q.Text, "name", "email", "commune"),
		crud.OrderBy("created_at DESC"),
		crud.OrderBy("id DESC"),
	)
}

// CreateCase inserts a funeral case.
func (r *Repository) CreateCase(ctx context.Context, c *entity.Case) error {
	return r.cases.Create(ctx, c)
}

// GetCase fetches a case of providerID.
func (r *Repository) GetCase(ctx context.Context, providerID, id int64) (*entity.Case, error) {
	c, err := r.cases.Owned(ctx, providerID, id)
	return c, translate(err)
}

// SaveCase overwrites a case.
func (r *Repository) SaveCase(ctx context.Context, c *entity.Case) error {
	return translate(r.cases.Update(ctx, c))
}

// ListCases returns cases of a provider, newest first.
func (r *Repository) ListCases(ctx context.Context, q ListQuery) ([]entity.Case, int, error) {
	return r.cases.List(ctx, q.page(),
		crud.Eq("provider_id", q.ProviderID),
		crud.EqIf("status", q.Status),
		crud.Search(q.Text, "deceased_name", "client_name"),
		crud.OrderBy("created_at DESC"),
		crud.OrderBy("id DESC"),
	)
}

// DeleteCase removes a case of providerID.
func (r *Repository) DeleteCase(ctx context.Context, providerID, id int64) error {
	return translate(r.cases.DeleteOwned(ctx, providerID, id))
}

func translate(err error) error {
	if errors.Is(err, crud.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
