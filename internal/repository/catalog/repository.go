package catalog

import (
	"context"
	"errors"

	"github.com/Additional-Code/funerarias/internal/database"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/repository/crud"
)

// ErrNotFound is returned when a product or service is missing.
var ErrNotFound = errors.New("catalog item not found")

// ListQuery narrows catalog listings.
type ListQuery struct {
	ProviderID int64
	Category   entity.Category
	Text       string
	ActiveOnly bool
	Limit      int
	Offset     int
}

func (q ListQuery) filters() []crud.Filter {
	filters := []crud.Filter{
		crud.Eq("provider_id", q.ProviderID),
		crud.EqIf("category", string(q.Category)),
		crud.Search(q.Text, "name", "description"),
	}
	if q.ActiveOnly {
		filters = append(filters, crud.Eq("active", true))
	}
	return append(filters, crud.OrderBy("category ASC"), crud.OrderBy("name ASC"))
}

// Repository groups the products and services tables.
type Repository struct {
	products *crud.Table[entity.Product]
	services *crud.Table[entity.Service]
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		products: crud.New[entity.Product](conns),
		services: crud.New[entity.Service](conns),
	}
}

// CreateProduct inserts a product.
func (r *Repository) CreateProduct(ctx context.Context, p *entity.Product) error {
	return r.products.Create(ctx, p)
}

// SaveProduct overwrites a product.
func (r *Repository) SaveProduct(ctx context.Context, p *entity.Product) error {
	return translate(r.products.Update(ctx, p))
}

// GetProduct fetches a product of providerID.
func (r *Repository) GetProduct(ctx context.Context, providerID, id int64) (*entity.Product, error) {
	p, err := r.products.Owned(ctx, providerID, id)
	return p, translate(err)
}

// ListProducts lists products of a provider.
func (r *Repository) ListProducts(ctx context.Context, q ListQuery) ([]entity.Product, int, error) {
	return r.products.List(ctx, crud.Page{Limit: q.Limit, Offset: q.Offset}, q.filters()...)
}

// DeleteProduct removes a product of providerID.
func (r *Repository) DeleteProduct(ctx context.Context, providerID, id int64) error {
	return translate(r.products.DeleteOwned(ctx, providerID, id))
}

// CreateService inserts a service.
func (r *Repository) CreateService(ctx context.Context, s *entity.Service) error {
	return r.services.Create(ctx, s)
}

// SaveService overwrites a service.
func (r *Repository) SaveService(ctx context.Context, s *entity.Service) error {
	return translate(r.services.Update(ctx, s))
}

// GetService fetches a service of providerID.
func (r *Repository) GetService(ctx context.Context, providerID, id int64) (*entity.Service, error) {
	s, err := r.services.Owned(ctx, providerID, id)
	return s, translate(err)
}

// ListServices lists services of a provider.
func (r *Repository) ListServices(ctx context.Context, q ListQuery) ([]entity.Service, int, error) {
	return r.services.List(ctx, crud.Page{Limit: q.Limit, Offset: q.Offset}, q.filters()...)
}

// DeleteService removes a service of providerID.
func (r *Repository) DeleteService(ctx context.Context, providerID, id int64) error {
	return translate(r.services.DeleteOwned(ctx, providerID, id))
}

func translate(err error) error {
	if errors.Is(err, crud.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
