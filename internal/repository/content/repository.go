package content

import (
	"context"
	"errors"
	"strings"

	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/Additional-Code/funerarias/internal/database"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/repository/crud"
)

var repoTracer = otel.Tracer("github.com/Additional-Code/funerarias/repository/content")

// ErrNotFound is returned when an obituary, post, plan or subscription is missing.
var ErrNotFound = errors.New("content not found")

// ObituaryQuery narrows obituary listings. ProviderID zero lists across providers.
type ObituaryQuery struct {
	ProviderID    int64
	Text          string
	Commune       string
	PublishedOnly bool
	Limit         int
	Offset        int
}

// PostQuery narrows blog listings.
type PostQuery struct {
	Text          string
	Tag           string
	PublishedOnly bool
	Limit         int
	Offset        int
}

// Repository groups obituaries, blog posts, plans and subscriptions.
type Repository struct {
	obituaries    *crud.Table[entity.Obituary]
	posts         *crud.Table[entity.BlogPost]
	plans         *crud.Table[entity.Plan]
	subscriptions *crud.Table[entity.ProviderSubscription]
}

// NewRepository wires a repository backed by configured database connections.
func NewRepository(conns *database.Connections) *Repository {
	return &Repository{
		obituaries:    crud.New[entity.Obituary](conns),
		posts:         crud.New[entity.BlogPost](conns),
		plans:         crud.New[entity.Plan](conns),
		subscriptions: crud.New[entity.ProviderSubscription](conns),
	}
}

// CreateObituary inserts an obituary.
func (r *Repository) CreateObituary(ctx context.Context, o *entity.Obituary) error {
	return r.obituaries.Create(ctx, o)
}

// SaveObituary overwrites an obituary.
func (r *Repository) SaveObituary(ctx context.Context, o *entity.Obituary) error {
	return translate(r.obituaries.Update(ctx, o))
}

// GetObituary fetches an obituary by id.
func (r *Repository) GetObituary(ctx context.Context, id int64) (*entity.Obituary, error) {
	o, err := r.obituaries.Get(ctx, id)
	return o, translate(err)
}

// ListObituaries lists obituaries, most recent death first.
func (r *Repository) ListObituaries(ctx context.Context, q ObituaryQuery) ([]entity.Obituary, int, error) {
	filters := []crud.Filter{
		crud.EqIf("provider_id", q.ProviderID),
		crud.EqIf("commune", q.Commune),
		crud.Search(q.Text, "full_name", "ceremony_place"),
	}
	if q.PublishedOnly {
		filters = append(filters, crud.Eq("published", true))
	}
	filters = append(filters, crud.OrderBy("death_date DESC"), crud.OrderBy("id DESC"))
	return r.obituaries.List(ctx, crud.Page{Limit: q.Limit, Offset: q.Offset}, filters...)
}

// DeleteObituary removes an obituary of providerID.
func (r *Repository) DeleteObituary(ctx context.Context, providerID, id int64) error {
	return translate(r.obituaries.DeleteOwned(ctx, providerID, id))
}

// CreatePost inserts a blog post.
func (r *Repository) CreatePost(ctx context.Context, p *entity.BlogPost) error {
	return r.posts.Create(ctx, p)
}

// SavePost overwrites a blog post.
func (r *Repository) SavePost(ctx context.Context, p *entity.BlogPost) error {
	return translate(r.posts.Update(ctx, p))
}

// GetPost fetches a blog post by id.
func (r *Repository) GetPost(ctx context.Context, id int64) (*entity.BlogPost, error) {
	p, err := r.posts.Get(ctx, id)
	return p, translate(err)
}

// GetPostBySlug fetches a blog post by slug.
func (r *Repository) GetPostBySlug(ctx context.Context, slug string, publishedOnly bool) (*entity.BlogPost, error) {
	filters := []crud.Filter{crud.Eq("slug", slug)}
	if publishedOnly {
		filters = append(filters, crud.Eq("published", true))
	}
	p, err := r.posts.First(ctx, filters...)
	return p, translate(err)
}

// ExistsPostSlug reports whether slug is used by a post other than exceptID.
func (r *Repository) ExistsPostSlug(ctx context.Context, slug string, exceptID int64) (bool, error) {
	n, err := r.posts.Count(ctx, crud.Eq("slug", slug), func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id <> ?", exceptID)
	})
	return n > 0, err
}

// ListPosts lists blog posts, most recently published first.
func (r *Repository) ListPosts(ctx context.Context, q PostQuery) ([]entity.BlogPost, int, error) {
	filters := []crud.Filter{crud.Search(q.Text, "title", "excerpt")}
	if q.Tag != "" {
		filters = append(filters, r.tagged(q.Tag))
	}
	if q.PublishedOnly {
		filters = append(filters, crud.Eq("published", true))
	}
	filters = append(filters, crud.OrderBy("published_at DESC"), crud.OrderBy("id DESC"))
	return r.posts.List(ctx, crud.Page{Limit: q.Limit, Offset: q.Offset}, filters...)
}

// DeletePost removes a blog post.
func (r *Repository) DeletePost(ctx context.Context, id int64) error {
	return translate(r.posts.Delete(ctx, id))
}

// CreatePlan inserts a plan.
func (r *Repository) CreatePlan(ctx context.Context, p *entity.Plan) error {
	return r.plans.Create(ctx, p)
}

// SavePlan overwrites a plan.
func (r *Repository) SavePlan(ctx context.Context, p *entity.Plan) error {
	return translate(r.plans.Update(ctx, p))
}

// GetPlan fetches a plan by id.
func (r *Repository) GetPlan(ctx context.Context, id int64) (*entity.Plan, error) {
	p, err := r.plans.Get(ctx, id)
	return p, translate(err)
}

// ExistsPlanCode reports whether code is used by a plan other than exceptID.
func (r *Repository) ExistsPlanCode(ctx context.Context, code string, exceptID int64) (bool, error) {
	n, err := r.plans.Count(ctx, crud.Eq("code", code), func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("id <> ?", exceptID)
	})
	return n > 0, err
}

// ListPlans lists plans by price.
func (r *Repository) ListPlans(ctx context.Context, activeOnly bool) ([]entity.Plan, error) {
	filters := []crud.Filter{crud.OrderBy("price_monthly ASC"), crud.OrderBy("id ASC")}
	if activeOnly {
		filters = append(filters, crud.Eq("active", true))
	}
	rows, _, err := r.plans.List(ctx, crud.Page{}, filters...)
	return rows, err
}

// DeletePlan removes a plan.
func (r *Repository) DeletePlan(ctx context.Context, id int64) error {
	return translate(r.plans.Delete(ctx, id))
}

// PlanInUse reports whether any subscription references the plan.
func (r *Repository) PlanInUse(ctx context.Context, planID int64) (bool, error) {
	n, err := r.subscriptions.Count(ctx, crud.Eq("plan_id", planID))
	return n > 0, err
}

// Subscription fetches the current subscription of a provider.
func (r *Repository) Subscription(ctx context.Context, providerID int64) (*entity.ProviderSubscription, error) {
	s, err := r.subscriptions.First(ctx, crud.Eq("provider_id", providerID))
	return s, translate(err)
}

// Subscribe replaces the subscription of a provider in one transaction.
func (r *Repository) Subscribe(ctx context.Context, sub *entity.ProviderSubscription) error {
	ctx, span := repoTracer.Start(ctx, "ContentRepository.Subscribe", trace.WithAttributes(
		attribute.Int64("provider.id", sub.ProviderID),
		attribute.Int64("plan.id", sub.PlanID),
	))
	defer span.End()

	return r.subscriptions.RunInTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*entity.ProviderSubscription)(nil)).
			Where("provider_id = ?", sub.ProviderID).Exec(ctx); err != nil {
			return err
		}
		return r.subscriptions.CreateTx(ctx, tx, sub)
	})
}

func (r *Repository) tagged(tag string) crud.Filter {
	if crud.IsPostgres(r.posts.Reader()) {
		return func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("tags @> to_jsonb(?::text)", tag)
		}
	}
	pattern := `%"` + strings.ReplaceAll(tag, `"`, "") + `"%`
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("tags LIKE ?", pattern)
	}
}

func translate(err error) error {
	if errors.Is(err, crud.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
