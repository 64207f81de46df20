package invoice

import (
	"context"
	"errors"

	"github.com/uptrace/bun"

	"github.com/Additional-Code/funerarias/internal/database"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/repository/crud"
)

// ErrNotFound is returned when an invoice is missing.
var ErrNotFound = errors.New("invoice not found")

// Repository encapsulates read/write access for invoices.
type Repository struct {
	table *crud.Table[entity.Invoice]
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{table: crud.New[entity.Invoice](conns)}
}

// CreateWithFolio assigns the next folio of the provider and inserts the invoice atomically.
func (r *Repository) CreateWithFolio(ctx context.Context, inv *entity.Invoice) error {
	return r.table.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		var last int64
		err := tx.NewSelect().
			Model((*entity.Invoice)(nil)).
			ColumnExpr("COALESCE(MAX(folio), 0)").
			Where("provider_id = ?", inv.ProviderID).
			Scan(ctx, &last)
		if err != nil {
			return err
		}
		inv.Folio = last + 1
		return r.table.CreateTx(ctx, tx, inv)
	})
}

// ByOrder returns the invoice issued for an order, if any.
func (r *Repository) ByOrder(ctx context.Context, orderID int64) (*entity.Invoice, error) {
	inv, err := r.table.First(ctx, crud.Eq("order_id", orderID))
	return inv, translate(err)
}

// Get fetches an invoice owned by providerID.
func (r *Repository) Get(ctx context.Context, providerID, id int64) (*entity.Invoice, error) {
	inv, err := r.table.First(ctx, crud.Eq("id", id), crud.Eq("provider_id", providerID))
	return inv, translate(err)
}

// List returns invoices of a provider, latest folio first.
func (r *Repository) List(ctx context.Context, providerID int64, status entity.InvoiceStatus, page crud.Page) ([]entity.Invoice, int, error) {
	return r.table.List(ctx, page,
		crud.Eq("provider_id", providerID),
		crud.EqIf("status", string(status)),
		crud.OrderBy("folio DESC"),
	)
}

// UpdateStatus writes only the status column.
func (r *Repository) UpdateStatus(ctx context.Context, inv *entity.Invoice) error {
	return translate(r.table.UpdateColumns(ctx, inv, "status", "updated_at"))
}

func translate(err error) error {
	if errors.Is(err, crud.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
