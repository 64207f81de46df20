package dashboard

import (
	"context"
	"database/sql"
	"errors"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/funerarias/internal/database"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/repository/crud"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/funerarias/repository/dashboard")

// Repository computes aggregate statistics for dashboards.
type Repository struct {
	db *bun.DB
}

// NewRepository wires a repository on the read connection.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{db: conns.Reader}
}

// ProviderStats aggregates counters for one provider. Postgres reads the
// provider_dashboard_stats view; other dialects count table by table.
func (r *Repository) ProviderStats(ctx context.Context, providerID int64) (*entity.DashboardStats, error) {
	ctx, span := repoTracer.Start(ctx, "DashboardRepository.ProviderStats", trace.WithAttributes(attribute.Int64("provider.id", providerID)))
	defer span.End()

	stats := &entity.DashboardStats{ProviderID: providerID}
	var err error
	if crud.IsPostgres(r.db) {
		err = r.db.NewSelect().TableExpr("provider_dashboard_stats").Where("provider_id = ?", providerID).Scan(ctx, stats)
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
		}
	} else {
		err = r.countAll(ctx, providerID, stats)
	}
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	stats.OrdersByStatus, err = r.ordersByStatus(ctx, providerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	return stats, nil
}

// PlatformStats aggregates marketplace-wide counters.
func (r *Repository) PlatformStats(ctx context.Context) (*entity.PlatformStats, error) {
	ctx, span := repoTracer.Start(ctx, "DashboardRepository.PlatformStats")
	defer span.End()

	stats := &entity.PlatformStats{}
	counts := []struct {
		dst   *int
		model any
		where string
		args  []any
	}{
		{&stats.Providers, (*entity.Provider)(nil), "active = ?", []any{true}},
		{&stats.VerifiedProviders, (*entity.Provider)(nil), "active = ? AND verified = ?", []any{true, true}},
		{&stats.Leads, (*entity.Lead)(nil), "", nil},
		{&stats.Quotes, (*entity.Quote)(nil), "", nil},
		{&stats.Orders, (*entity.Order)(nil), "", nil},
		{&stats.PublishedPosts, (*entity.BlogPost)(nil), "published = ?", []any{true}},
	}
	for _, c := range counts {
		q := r.db.NewSelect().Model(c.model)
		if c.where != "" {
			q = q.Where(c.where, c.args...)
		}
		n, err := q.Count(ctx)
		if err != nil {
			span.RecordError(err)
			return nil, err
		}
		*c.dst = n
	}

	revenue, err := r.revenue(ctx, 0)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	stats.Revenue = revenue
	return stats, nil
}

func (r *Repository) countAll(ctx context.Context, providerID int64, stats *entity.DashboardStats) error {
	counts := []struct {
		dst   *int
		model any
		where string
		args  []any
	}{
		{&stats.Leads, (*entity.Lead)(nil), "provider_id = ?", []any{providerID}},
		{&stats.NewLeads, (*entity.Lead)(nil), "provider_id = ? AND status = ?", []any{providerID, entity.LeadNew}},
		{&stats.OpenQuotes, (*entity.Quote)(nil), "provider_id = ? AND status IN (?)", []any{providerID, bun.In([]entity.QuoteStatus{entity.QuoteDraft, entity.QuoteSent})}},
		{&stats.OpenCases, (*entity.Case)(nil), "provider_id = ? AND status <> ?", []any{providerID, entity.CaseClosed}},
		{&stats.Orders, (*entity.Order)(nil), "provider_id = ?", []any{providerID}},
		{&stats.Products, (*entity.Product)(nil), "provider_id = ? AND active = ?", []any{providerID, true}},
		{&stats.Services, (*entity.Service)(nil), "provider_id = ? AND active = ?", []any{providerID, true}},
		{&stats.PublishedObits, (*entity.Obituary)(nil), "provider_id = ? AND published = ?", []any{providerID, true}},
	}
	for _, c := range counts {
		n, err := r.db.NewSelect().Model(c.model).Where(c.where, c.args...).Count(ctx)
		if err != nil {
			return err
		}
		*c.dst = n
	}

	revenue, err := r.revenue(ctx, providerID)
	if err != nil {
		return err
	}
	stats.Revenue = revenue
	return nil
}

func (r *Repository) revenue(ctx context.Context, providerID int64) (float64, error) {
	var total float64
	q := r.db.NewSelect().
		Model((*entity.Order)(nil)).
		ColumnExpr("COALESCE(SUM(total), 0.0)").
		Where("status = ?", entity.OrderCompleted)
	if providerID > 0 {
		q = q.Where("provider_id = ?", providerID)
	}
	err := q.Scan(ctx, &total)
	return total, err
}

func (r *Repository) ordersByStatus(ctx context.Context, providerID int64) (map[entity.OrderStatus]int, error) {
	var rows []struct {
		Status entity.OrderStatus `bun:"status"`
		Count  int                `bun:"n"`
	}
	err := r.db.NewSelect().
		Model((*entity.Order)(nil)).
		Column("status").
		ColumnExpr("COUNT(*) AS n").
		Where("provider_id = ?", providerID).
		Group("status").
		Scan(ctx, &rows)
	if err != nil {
		return nil, err
	}
	out := make(map[entity.OrderStatus]int, len(entity.OrderStatuses()))
	for _, s := range entity.OrderStatuses() {
		out[s] = 0
	}
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}
