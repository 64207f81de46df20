package quote

import (
	"context"
	"errors"

	"github.com/Additional-Code/funerarias/internal/database"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/repository/crud"
)

// ErrNotFound is returned when a quote is missing.
var ErrNotFound = errors.New("quote not found")

// ListQuery narrows the quotes listed on a provider dashboard.
type ListQuery struct {
	ProviderID int64
	Status     entity.QuoteStatus
	Text       string
	Limit      int
	Offset     int
}

// Repository encapsulates read/write access for quotes.
type Repository struct {
	table *crud.Table[entity.Quote]
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{table: crud.New[entity.Quote](conns)}
}

// Create persists a new quote.
func (r *Repository) Create(ctx context.Context, q *entity.Quote) error {
	return r.table.Create(ctx, q)
}

// Save overwrites the whole quote record.
func (r *Repository) Save(ctx context.Context, q *entity.Quote) error {
	return translate(r.table.Update(ctx, q))
}

// Get fetches a quote owned by providerID.
func (r *Repository) Get(ctx context.Context, providerID, id int64) (*entity.Quote, error) {
	q, err := r.table.First(ctx, crud.Eq("id", id), crud.Eq("provider_id", providerID))
	return q, translate(err)
}

// List returns quotes of a provider, newest first.
func (r *Repository) List(ctx context.Context, lq ListQuery) ([]entity.Quote, int, error) {
	return r.table.List(ctx, crud.Page{Limit: lq.Limit, Offset: lq.Offset},
		crud.Eq("provider_id", lq.ProviderID),
		crud.EqIf("status", string(lq.Status)),
		crud.Search(lq.Text, "number", "client_name"),
		crud.OrderBy("created_at DESC"),
		crud.OrderBy("id DESC"),
	)
}

// Delete removes a quote owned by providerID.
func (r *Repository) Delete(ctx context.Context, providerID, id int64) error {
	if _, err := r.Get(ctx, providerID, id); err != nil {
		return err
	}
	return translate(r.table.Delete(ctx, id))
}

func translate(err error) error {
	if errors.Is(err, crud.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
