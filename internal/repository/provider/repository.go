package provider

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/funerarias/internal/database"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/repository/crud"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/funerarias/repository/provider")

// ErrNotFound is returned when a provider is missing.
var ErrNotFound = errors.New("provider not found")

// DirectoryQuery narrows the public directory listing.
type DirectoryQuery struct {
	Text         string
	Region       string
	Commune      string
	Category     string
	VerifiedOnly bool
	Sort         string
	Limit        int
	Offset       int
}

// Repository encapsulates read/write access for providers and their coverage.
type Repository struct {
	*crud.Table[entity.Provider]
	communes *crud.Table[entity.ProviderCommune]
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		Table:    crud.New[entity.Provider](conns),
		communes: crud.New[entity.ProviderCommune](conns),
	}
}

// GetByID fetches a provider by primary key.
func (r *Repository) GetByID(ctx context.Context, id int64) (*entity.Provider, error) {
	p, err := r.Table.Get(ctx, id)
	if errors.Is(err, crud.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

// GetBySlug fetches an active provider by its public slug.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (*entity.Provider, error) {
	p, err := r.First(ctx, crud.Eq("slug", slug), crud.Eq("active", true))
	if errors.Is(err, crud.ErrNotFound) {
		return nil, ErrNotFound
	}
	return p, err
}

// ExistsRUT reports whether a provider already uses the given RUT.
func (r *Repository) ExistsRUT(ctx context.Context, rut string) (bool, error) {
	n, err := r.Count(ctx, crud.Eq("rut", rut))
	return n > 0, err
}

// ExistsSlug reports whether a slug is taken.
func (r *Repository) ExistsSlug(ctx context.Context, slug string) (bool, error) {
	n, err := r.Count(ctx, crud.Eq("slug", slug))
	return n > 0, err
}

// ByIDs returns active providers preserving the order of ids.
func (r *Repository) ByIDs(ctx context.Context, ids []int64) ([]entity.Provider, error) {
	if len(ids) == 0 {
		return []entity.Provider{}, nil
	}
	rows, _, err := r.List(ctx, crud.Page{}, crud.In("id", ids), crud.Eq("active", true))
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]entity.Provider, len(rows))
	for _, p := range rows {
		byID[p.ID] = p
	}
	out := make([]entity.Provider, 0, len(rows))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Directory lists active providers matching the query plus the total count.
func (r *Repository) Directory(ctx context.Context, q DirectoryQuery) ([]entity.Provider, int, error) {
	ctx, span := repoTracer.Start(ctx, "ProviderRepository.Directory", trace.WithAttributes(
		attribute.String("directory.region", q.Region),
		attribute.String("directory.commune", q.Commune),
	))
	defer span.End()

	filters := []crud.Filter{
		crud.Eq("active", true),
		crud.Search(q.Text, "name", "description", "commune"),
		crud.EqIf("region", q.Region),
	}
	if q.VerifiedOnly {
		filters = append(filters, crud.Eq("verified", true))
	}
	if q.Commune != "" {
		filters = append(filters, r.servesCommune(q.Commune))
	}
	if q.Category != "" {
		filters = append(filters, r.offersCategory(q.Category))
	}
	filters = append(filters, crud.OrderBy(sortExpr(q.Sort)), crud.OrderBy("id ASC"))

	rows, total, err := r.List(ctx, crud.Page{Limit: q.Limit, Offset: q.Offset}, filters...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "directory failed")
		return nil, 0, err
	}
	return rows, total, nil
}

// Coverage returns the communes served by a provider.
func (r *Repository) Coverage(ctx context.Context, providerID int64) ([]entity.ProviderCommune, error) {
	rows, _, err := r.communes.List(ctx, crud.Page{}, crud.Eq("provider_id", providerID), crud.OrderBy("commune ASC"))
	return rows, err
}

// ReplaceCoverage overwrites the communes served by a provider in one transaction.
func (r *Repository) ReplaceCoverage(ctx context.Context, providerID int64, communes []entity.ProviderCommune) error {
	ctx, span := repoTracer.Start(ctx, "ProviderRepository.ReplaceCoverage", trace.WithAttributes(
		attribute.Int64("provider.id", providerID),
		attribute.Int("communes", len(communes)),
	))
	defer span.End()

	return r.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*entity.ProviderCommune)(nil)).Where("provider_id = ?", providerID).Exec(ctx); err != nil {
			return err
		}
		if len(communes) == 0 {
			return nil
		}
		for i := range communes {
			communes[i].ProviderID = providerID
		}
		_, err := tx.NewInsert().Model(&communes).Exec(ctx)
		return err
	})
}

func (r *Repository) servesCommune(commune string) crud.Filter {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		sub := r.Reader().NewSelect().
			Model((*entity.ProviderCommune)(nil)).
			Column("provider_id").
			Where("LOWER(commune) = ?", strings.ToLower(commune))
		return q.WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("LOWER(commune) = ?", strings.ToLower(commune)).
				WhereOr("id IN (?)", sub)
		})
	}
}

func (r *Repository) offersCategory(category string) crud.Filter {
	if crud.IsPostgres(r.Reader()) {
		return func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("categories @> to_jsonb(?::text)", category)
		}
	}
	pattern := `%"` + strings.ReplaceAll(category, `"`, "") + `"%`
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("categories LIKE ?", pattern)
	}
}

func sortExpr(sort string) string {
	switch sort {
	case "price":
		return "price_from ASC"
	case "name":
		return "name ASC"
	case "recent":
		return "created_at DESC"
	default:
		return "verified DESC, rating DESC"
	}
}
