// Package content serves obituaries, the grief-support blog and the plans
// providers subscribe to.
package content

import (
	"context"
	"errors"
	"strconv"
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
	repo "github.com/Additional-Code/funerarias/internal/repository/content"
	"github.com/Additional-Code/funerarias/internal/service/dashboard"
	"github.com/Additional-Code/funerarias/internal/storage"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
	"github.com/Additional-Code/funerarias/pkg/slug"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/funerarias/service/content")

// ObituaryInput carries the editable fields of an obituary.
type ObituaryInput struct {
	FullName      string
	BirthDate     time.Time
	DeathDate     time.Time
	Biography     string
	CeremonyPlace string
	CeremonyAt    time.Time
	Commune       string
	Published     bool
	Photo         *storage.Upload
}

// PostInput carries the editable fields of a blog post. An empty Slug is
// derived from the title.
type PostInput struct {
	Slug      string
	Title     string
	Excerpt   string
	Body      string
	Author    string
	Tags      []string
	Published bool
	Image     *storage.Upload
}

// PlanInput carries the editable fields of a plan.
type PlanInput struct {
	Code         string
	Name         string
	PriceMonthly float64
	Features     []string
	MaxProducts  int
	Highlighted  bool
	Active       bool
}

// Service implements obituaries, blog, plans and subscriptions.
type Service struct {
	repo      *repo.Repository
	store     storage.Store
	cache     cache.Store
	logger    *zap.Logger
	buckets   config.Buckets
	maxUpload int64
	business  config.Business
	now       func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Storage    storage.Store
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		store:     p.Storage,
		cache:     p.Cache,
		logger:    p.Logger,
		buckets:   p.Config.Storage.Buckets,
		maxUpload: p.Config.Storage.MaxUploadSize,
		business:  p.Config.Business,
		now:       time.Now,
	}
}

// CreateObituary publishes a death notice for providerID, uploading its photo
// first. The photo is removed again when the row cannot be inserted.
func (s *Service) CreateObituary(ctx context.Context, providerID int64, in ObituaryInput) (*entity.Obituary, error) {
	ctx, span := serviceTracer.Start(ctx, "ContentService.CreateObituary", trace.WithAttributes(attribute.Int64("provider.id", providerID)))
	defer span.End()

	if err := validateObituary(in); err != nil {
		return nil, err
	}
	if err := s.checkImage(in.Photo); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	o := &entity.Obituary{ProviderID: providerID, CreatedAt: now}
	applyObituary(o, in, now)

	if in.Photo != nil {
		obj, err := storage.Put(ctx, s.store, s.buckets.Obituaries, "obituaries/"+strconv.FormatInt(providerID, 10), in.Photo)
		if err != nil {
			span.RecordError(err)
			return nil, errorbank.Internal("photo upload failed", errorbank.WithCause(err))
		}
		o.PhotoURL, o.PhotoPath = obj.URL, obj.Key
	}
	if err := s.repo.CreateObituary(ctx, o); err != nil {
		span.RecordError(err)
		s.discard(ctx, s.buckets.Obituaries, o.PhotoPath)
		return nil, errorbank.Internal("failed to save obituary", errorbank.WithCause(err))
	}
	dashboard.Invalidate(ctx, s.cache, s.logger, providerID)
	return o, nil
}

// UpdateObituary overwrites an obituary of providerID, replacing its photo
// when a new one is sent.
func (s *Service) UpdateObituary(ctx context.Context, providerID, id int64, in ObituaryInput) (*entity.Obituary, error) {
	if err := validateObituary(in); err != nil {
		return nil, err
	}
	if err := s.checkImage(in.Photo); err != nil {
		return nil, err
	}
	o, err := s.ownedObituary(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	applyObituary(o, in, s.now().UTC())

	stale := ""
	if in.Photo != nil {
		obj, err := storage.Put(ctx, s.store, s.buckets.Obituaries, "obituaries/"+strconv.FormatInt(providerID, 10), in.Photo)
		if err != nil {
			return nil, errorbank.Internal("photo upload failed", errorbank.WithCause(err))
		}
		stale = o.PhotoPath
		o.PhotoURL, o.PhotoPath = obj.URL, obj.Key
		if err := s.repo.SaveObituary(ctx, o); err != nil {
			s.discard(ctx, s.buckets.Obituaries, obj.Key)
			return nil, translate(err, "obituary")
		}
	} else if err := s.repo.SaveObituary(ctx, o); err != nil {
		return nil, translate(err, "obituary")
	}
	s.discard(ctx, s.buckets.Obituaries, stale)
	dashboard.Invalidate(ctx, s.cache, s.logger, providerID)
	return o, nil
}

// GetObituary returns a published obituary to the public.
func (s *Service) GetObituary(ctx context.Context, id int64) (*entity.Obituary, error) {
	o, err := s.repo.GetObituary(ctx, id)
	if err != nil {
		return nil, translate(err, "obituary")
	}
	if !o.Published {
		return nil, errorbank.NotFound("obituary not found")
	}
	return o, nil
}

// ListObituaries searches obituaries. Public callers pass PublishedOnly.
func (s *Service) ListObituaries(ctx context.Context, q repo.ObituaryQuery) ([]entity.Obituary, int, error) {
	q.Limit, q.Offset = s.business.Page(q.Limit, q.Offset)
	rows, total, err := s.repo.ListObituaries(ctx, q)
	if err != nil {
		return nil, 0, errorbank.Internal("failed to list obituaries", errorbank.WithCause(err))
	}
	return rows, total, nil
}

// DeleteObituary removes an obituary of providerID and its photo.
func (s *Service) DeleteObituary(ctx context.Context, providerID, id int64) error {
	o, err := s.ownedObituary(ctx, providerID, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteObituary(ctx, providerID, id); err != nil {
		return translate(err, "obituary")
	}
	s.discard(ctx, s.buckets.Obituaries, o.PhotoPath)
	dashboard.Invalidate(ctx, s.cache, s.logger, providerID)
	return nil
}

// CreatePost adds a blog post with an optional cover image.
func (s *Service) CreatePost(ctx context.Context, in PostInput) (*entity.BlogPost, error) {
	ctx, span := serviceTracer.Start(ctx, "ContentService.CreatePost")
	defer span.End()

	in, err := s.preparePost(ctx, in, 0)
	if err != nil {
		return nil, err
	}
	if err := s.checkImage(in.Image); err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p := &entity.BlogPost{CreatedAt: now}
	applyPost(p, in, now)

	if in.Image != nil {
		obj, err := storage.Put(ctx, s.store, s.buckets.Blog, "posts/"+p.Slug, in.Image)
		if err != nil {
			return nil, errorbank.Internal("image upload failed", errorbank.WithCause(err))
		}
		p.ImageURL, p.ImagePath = obj.URL, obj.Key
	}
	if err := s.repo.CreatePost(ctx, p); err != nil {
		span.RecordError(err)
		s.discard(ctx, s.buckets.Blog, p.ImagePath)
		return nil, errorbank.Internal("failed to save post", errorbank.WithCause(err))
	}
	s.logger.Info("blog post created", zap.Int64("id", p.ID), zap.String("slug", p.Slug), zap.Bool("published", p.Published))
	return p, nil
}

// UpdatePost overwrites a blog post. Publishing stamps PublishedAt once.
func (s *Service) UpdatePost(ctx context.Context, id int64, in PostInput) (*entity.BlogPost, error) {
	p, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return nil, translate(err, "post")
	}
	if in.Slug == "" {
		in.Slug = p.Slug
	}
	in, err = s.preparePost(ctx, in, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkImage(in.Image); err != nil {
		return nil, err
	}
	applyPost(p, in, s.now().UTC())

	stale := ""
	if in.Image != nil {
		obj, err := storage.Put(ctx, s.store, s.buckets.Blog, "posts/"+p.Slug, in.Image)
		if err != nil {
			return nil, errorbank.Internal("image upload failed", errorbank.WithCause(err))
		}
		stale = p.ImagePath
		p.ImageURL, p.ImagePath = obj.URL, obj.Key
		if err := s.repo.SavePost(ctx, p); err != nil {
			s.discard(ctx, s.buckets.Blog, obj.Key)
			return nil, translate(err, "post")
		}
	} else if err := s.repo.SavePost(ctx, p); err != nil {
		return nil, translate(err, "post")
	}
	s.discard(ctx, s.buckets.Blog, stale)
	return p, nil
}

// GetPost returns a post by slug. Drafts are only visible when includeDrafts is set.
func (s *Service) GetPost(ctx context.Context, postSlug string, includeDrafts bool) (*entity.BlogPost, error) {
	p, err := s.repo.GetPostBySlug(ctx, postSlug, !includeDrafts)
	if err != nil {
		return nil, translate(err, "post")
	}
	return p, nil
}

// ListPosts lists blog posts.
func (s *Service) ListPosts(ctx context.Context, q repo.PostQuery) ([]entity.BlogPost, int, error) {
	q.Limit, q.Offset = s.business.Page(q.Limit, q.Offset)
	q.Tag = strings.ToLower(strings.TrimSpace(q.Tag))
	rows, total, err := s.repo.ListPosts(ctx, q)
	if err != nil {
		return nil, 0, errorbank.Internal("failed to list posts", errorbank.WithCause(err))
	}
	return rows, total, nil
}

// DeletePost removes a post and its image.
func (s *Service) DeletePost(ctx context.Context, id int64) error {
	p, err := s.repo.GetPost(ctx, id)
	if err != nil {
		return translate(err, "post")
	}
	if err := s.repo.DeletePost(ctx, id); err != nil {
		return translate(err, "post")
	}
	s.discard(ctx, s.buckets.Blog, p.ImagePath)
	return nil
}

// CreatePlan adds a subscription plan.
func (s *Service) CreatePlan(ctx context.Context, in PlanInput) (*entity.Plan, error) {
	in, err := s.preparePlan(ctx, in, 0)
	if err != nil {
		return nil, err
	}
	now := s.now().UTC()
	p := &entity.Plan{CreatedAt: now}
	applyPlan(p, in, now)
	if err := s.repo.CreatePlan(ctx, p); err != nil {
		return nil, errorbank.Internal("failed to save plan", errorbank.WithCause(err))
	}
	return p, nil
}

// UpdatePlan overwrites a plan.
func (s *Service) UpdatePlan(ctx context.Context, id int64, in PlanInput) (*entity.Plan, error) {
	p, err := s.repo.GetPlan(ctx, id)
	if err != nil {
		return nil, translate(err, "plan")
	}
	in, err = s.preparePlan(ctx, in, id)
	if err != nil {
		return nil, err
	}
	applyPlan(p, in, s.now().UTC())
	if err := s.repo.SavePlan(ctx, p); err != nil {
		return nil, translate(err, "plan")
	}
	return p, nil
}

// ListPlans lists plans; the public only sees active ones.
func (s *Service) ListPlans(ctx context.Context, activeOnly bool) ([]entity.Plan, error) {
	rows, err := s.repo.ListPlans(ctx, activeOnly)
	if err != nil {
		return nil, errorbank.Internal("failed to list plans", errorbank.WithCause(err))
	}
	return rows, nil
}

// DeletePlan removes a plan nobody subscribes to.
func (s *Service) DeletePlan(ctx context.Context, id int64) error {
	inUse, err := s.repo.PlanInUse(ctx, id)
	if err != nil {
		return errorbank.Internal("failed to check plan usage", errorbank.WithCause(err))
	}
	if inUse {
		return errorbank.Conflict("plan has active subscriptions")
	}
	if err := s.repo.DeletePlan(ctx, id); err != nil {
		return translate(err, "plan")
	}
	return nil
}

// Subscribe moves providerID to an active plan.
func (s *Service) Subscribe(ctx context.Context, providerID, planID int64) (*entity.ProviderSubscription, error) {
	plan, err := s.repo.GetPlan(ctx, planID)
	if err != nil {
		return nil, translate(err, "plan")
	}
	if !plan.Active {
		return nil, errorbank.Unprocessable("plan is not available")
	}
	now := s.now().UTC()
	sub := &entity.ProviderSubscription{
		ProviderID: providerID,
		PlanID:     planID,
		Status:     "active",
		StartedAt:  now,
		EndsAt:     now.AddDate(0, 1, 0),
	}
	if err := s.repo.Subscribe(ctx, sub); err != nil {
		return nil, errorbank.Internal("failed to save subscription", errorbank.WithCause(err))
	}
	s.logger.Info("provider subscribed", zap.Int64("provider_id", providerID), zap.String("plan", plan.Code))
	return sub, nil
}

// Subscription returns the current subscription of providerID.
func (s *Service) Subscription(ctx context.Context, providerID int64) (*entity.ProviderSubscription, error) {
	sub, err := s.repo.Subscription(ctx, providerID)
	if err != nil {
		return nil, translate(err, "subscription")
	}
	return sub, nil
}

// OwnedObituary returns an obituary of providerID, drafts included.
func (s *Service) OwnedObituary(ctx context.Context, providerID, id int64) (*entity.Obituary, error) {
	return s.ownedObituary(ctx, providerID, id)
}

func (s *Service) ownedObituary(ctx context.Context, providerID, id int64) (*entity.Obituary, error) {
	o, err := s.repo.GetObituary(ctx, id)
	if err != nil {
		return nil, translate(err, "obituary")
	}
	if o.ProviderID != providerID {
		return nil, errorbank.NotFound("obituary not found")
	}
	return o, nil
}

func (s *Service) preparePost(ctx context.Context, in PostInput, id int64) (PostInput, error) {
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		return in, errorbank.BadRequest("title is required")
	}
	in.Slug = slug.Make(in.Slug)
	if in.Slug == "" {
		in.Slug = slug.Make(in.Title)
	}
	if in.Slug == "" {
		return in, errorbank.BadRequest("title must contain letters or digits")
	}
	taken, err := s.repo.ExistsPostSlug(ctx, in.Slug, id)
	if err != nil {
		return in, errorbank.Internal("failed to check slug", errorbank.WithCause(err))
	}
	if taken {
		return in, errorbank.Conflict("another post already uses this slug", errorbank.WithDetail("slug", in.Slug))
	}
	tags := make([]string, 0, len(in.Tags))
	seen := map[string]bool{}
	for _, t := range in.Tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" && !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	in.Tags = tags
	return in, nil
}

func (s *Service) preparePlan(ctx context.Context, in PlanInput, id int64) (PlanInput, error) {
	in.Code = slug.Make(in.Code)
	in.Name = strings.TrimSpace(in.Name)
	switch {
	case in.Code == "":
		return in, errorbank.BadRequest("plan code is required")
	case in.Name == "":
		return in, errorbank.BadRequest("plan name is required")
	case in.PriceMonthly < 0:
		return in, errorbank.BadRequest("price must not be negative")
	case in.MaxProducts < 0:
		return in, errorbank.BadRequest("product limit must not be negative")
	}
	taken, err := s.repo.ExistsPlanCode(ctx, in.Code, id)
	if err != nil {
		return in, errorbank.Internal("failed to check plan code", errorbank.WithCause(err))
	}
	if taken {
		return in, errorbank.Conflict("another plan already uses this code", errorbank.WithDetail("code", in.Code))
	}
	return in, nil
}

func (s *Service) checkImage(up *storage.Upload) error {
	if up == nil {
		return nil
	}
	if err := up.CheckImage(s.maxUpload); err != nil {
		return errorbank.BadRequest("images must be JPEG, PNG, WebP or GIF within the size limit", errorbank.WithCause(err))
	}
	return nil
}

// discard deletes an object that is no longer referenced. Failures are logged.
func (s *Service) discard(ctx context.Context, bucket, key string) {
	if key == "" {
		return
	}
	if err := s.store.Delete(context.WithoutCancel(ctx), bucket, key); err != nil {
		s.logger.Warn("object not deleted", zap.String("bucket", bucket), zap.String("key", key), zap.Error(err))
	}
}

func validateObituary(in ObituaryInput) error {
	if strings.TrimSpace(in.FullName) == "" {
		return errorbank.BadRequest("full name is required")
	}
	if !in.BirthDate.IsZero() && !in.DeathDate.IsZero() && in.DeathDate.Before(in.BirthDate) {
		return errorbank.BadRequest("death date must not precede birth date")
	}
	return nil
}

func applyObituary(o *entity.Obituary, in ObituaryInput, now time.Time) {
	o.FullName = strings.TrimSpace(in.FullName)
	o.BirthDate = in.BirthDate
	o.DeathDate = in.DeathDate
	o.Biography = strings.TrimSpace(in.Biography)
	o.CeremonyPlace = strings.TrimSpace(in.CeremonyPlace)
	o.CeremonyAt = in.CeremonyAt
	o.Commune = strings.TrimSpace(in.Commune)
	o.Published = in.Published
	o.UpdatedAt = now
}

func applyPost(p *entity.BlogPost, in PostInput, now time.Time) {
	p.Slug = in.Slug
	p.Title = in.Title
	p.Excerpt = strings.TrimSpace(in.Excerpt)
	p.Body = in.Body
	p.Author = strings.TrimSpace(in.Author)
	p.Tags = in.Tags
	if in.Published && !p.Published && p.PublishedAt.IsZero() {
		p.PublishedAt = now
	}
	p.Published = in.Published
	p.UpdatedAt = now
}

func applyPlan(p *entity.Plan, in PlanInput, now time.Time) {
	p.Code = in.Code
	p.Name = in.Name
	p.PriceMonthly = in.PriceMonthly
	p.Features = in.Features
	p.MaxProducts = in.MaxProducts
	p.Highlighted = in.Highlighted
	p.Active = in.Active
	p.UpdatedAt = now
}

func translate(err error, what string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound(what + " not found")
	}
	return errorbank.Internal("failed to access "+what, errorbank.WithCause(err))
}
