package order

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/funerarias/internal/database"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/repository/crud"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/funerarias/repository/order")

// ErrNotFound is returned when an order is missing.
var ErrNotFound = errors.New("order not found")

// ListQuery narrows the orders listed on a provider dashboard.
type ListQuery struct {
	ProviderID int64
	Status     entity.OrderStatus
	Text       string
	Limit      int
	Offset     int
}

// Repository encapsulates read/write access for orders.
type Repository struct {
	table *crud.Table[entity.Order]
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{table: crud.New[entity.Order](conns)}
}

// Create persists a new order using the write connection.
func (r *Repository) Create(ctx context.Context, order *entity.Order) error {
	if order == nil {
		return errors.New("nil order")
	}
	ctx, span := repoTracer.Start(ctx, "OrderRepository.Create", trace.WithAttributes(attribute.String("order.number", order.Number)))
	defer span.End()

	if err := r.table.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "insert failed")
		return err
	}
	return nil
}

// Save overwrites the whole order record.
func (r *Repository) Save(ctx context.Context, order *entity.Order) error {
	return translate(r.table.Update(ctx, order))
}

// GetByID fetches an order by primary key using the read replica when available.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Order, error) {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.GetByID", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := r.table.Get(ctx, id)
	if err != nil {
		return nil, translate(err)
	}
	return order, nil
}

// List returns orders of a provider, newest first.
func (r *Repository) List(ctx context.Context, lq ListQuery) ([]entity.Order, int, error) {
	return r.table.List(ctx, crud.Page{Limit: lq.Limit, Offset: lq.Offset},
		crud.Eq("provider_id", lq.ProviderID),
		crud.EqIf("status", string(lq.Status)),
		crud.Search(lq.Text, "number", "client_name"),
		crud.OrderBy("created_at DESC"),
		crud.OrderBy("id DESC"),
	)
}

// UpdateStatus writes only the status column.
func (r *Repository) UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error {
	ctx, span := repoTracer.Start(ctx, "OrderRepository.UpdateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", string(status)),
	))
	defer span.End()

	o := &entity.Order{ID: id, Status: status, UpdatedAt: time.Now().UTC()}
	return translate(r.table.UpdateColumns(ctx, o, "status", "updated_at"))
}

// Delete removes an order.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	return translate(r.table.Delete(ctx, id))
}

func translate(err error) error {
	if errors.Is(err, crud.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
