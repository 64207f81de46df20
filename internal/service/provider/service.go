package provider

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/cache"
	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/messaging"
	"github.com/Additional-Code/funerarias/internal/observability"
	"github.com/Additional-Code/funerarias/internal/repository/crud"
	repo "github.com/Additional-Code/funerarias/internal/repository/provider"
	"github.com/Additional-Code/funerarias/internal/storage"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
	"github.com/Additional-Code/funerarias/pkg/rut"
	"github.com/Additional-Code/funerarias/pkg/slug"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/funerarias/service/provider")

// Repository is the persistence the service needs.
type Repository interface {
	Create(ctx context.Context, p *entity.Provider) error
	Update(ctx context.Context, p *entity.Provider) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*entity.Provider, error)
	GetBySlug(ctx context.Context, slug string) (*entity.Provider, error)
	ExistsRUT(ctx context.Context, rut string) (bool, error)
	ExistsSlug(ctx context.Context, slug string) (bool, error)
	ByIDs(ctx context.Context, ids []int64) ([]entity.Provider, error)
	Directory(ctx context.Context, q repo.DirectoryQuery) ([]entity.Provider, int, error)
	Coverage(ctx context.Context, providerID int64) ([]entity.ProviderCommune, error)
	ReplaceCoverage(ctx context.Context, providerID int64, communes []entity.ProviderCommune) error
}

// Details holds the editable profile fields of a provider.
type Details struct {
	Name        string
	LegalName   string
	RUT         string
	Email       string
	Phone       string
	Website     string
	Address     string
	Region      string
	Commune     string
	Description string
	Categories  []string
	PriceFrom   float64
}

// RegisterInput is a provider self-registration.
type RegisterInput struct {
	Details
	Coverage []entity.ProviderCommune
	Logo     *storage.Upload
	Hero     *storage.Upload
}

// Profile is the public view of a provider with its coverage.
type Profile struct {
	entity.Provider
	Coverage []entity.ProviderCommune `json:"coverage"`
}

// DirectoryPage is one page of directory results.
type DirectoryPage struct {
	Providers []entity.Provider `json:"providers"`
	Total     int               `json:"total"`
	Limit     int               `json:"limit"`
	Offset    int               `json:"offset"`
}

// Service implements registration, directory browsing and comparison.
type Service struct {
	repo      Repository
	store     storage.Store
	cache     cache.Store
	publisher messaging.Client
	metrics   *observability.Metrics
	logger    *zap.Logger
	buckets   config.Buckets
	maxUpload int64
	business  config.Business
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Storage    storage.Store
	Cache      cache.Store
	Publisher  messaging.Client
	Metrics    *observability.Metrics `optional:"true"`
	Logger     *zap.Logger
	Config     config.Config
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		store:     p.Storage,
		cache:     p.Cache,
		publisher: p.Publisher,
		metrics:   p.Metrics,
		logger:    p.Logger,
		buckets:   p.Config.Storage.Buckets,
		maxUpload: p.Config.Storage.MaxUploadSize,
		business:  p.Config.Business,
	}
}

// Register validates the input, uploads logo and hero images and inserts the
// provider with its coverage. Any failure after the first upload undoes the
// completed steps: uploaded objects and the inserted row are deleted.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*entity.Provider, error) {
	ctx, span := serviceTracer.Start(ctx, "ProviderService.Register", trace.WithAttributes(attribute.String("provider.name", in.Name)))
	defer span.End()

	details, err := s.validateDetails(in.Details)
	if err != nil {
		s.metrics.ProviderRegistered(ctx, "invalid")
		return nil, err
	}
	for _, up := range []*storage.Upload{in.Logo, in.Hero} {
		if err := s.validateUpload(up); err != nil {
			s.metrics.ProviderRegistered(ctx, "invalid")
			return nil, err
		}
	}
	coverage, err := normalizeCoverage(in.Coverage)
	if err != nil {
		s.metrics.ProviderRegistered(ctx, "invalid")
		return nil, err
	}

	taken, err := s.repo.ExistsRUT(ctx, details.RUT)
	if err != nil {
		return nil, errorbank.Internal("failed to check RUT", errorbank.WithCause(err))
	}
	if taken {
		s.metrics.ProviderRegistered(ctx, "duplicate")
		return nil, errorbank.Conflict("a provider with this RUT is already registered")
	}
	providerSlug, err := s.uniqueSlug(ctx, details.Name)
	if err != nil {
		return nil, err
	}

	sg := newSaga("provider.register", s.logger)
	fail := func(step string, err error) (*entity.Provider, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, step)
		compensationFailures := sg.compensate(ctx)
		s.metrics.ProviderRegistered(ctx, "failed")
		s.logger.Warn("provider registration rolled back",
			zap.String("step", step),
			zap.Int("compensation_failures", compensationFailures),
			zap.Error(err),
		)
		return nil, errorbank.Internal("provider registration failed at "+step, errorbank.WithCause(err))
	}

	p := &entity.Provider{Slug: providerSlug, Active: true}
	applyDetails(p, details)

	if in.Logo != nil {
		obj, err := s.upload(ctx, s.buckets.Logos, "providers/"+providerSlug, in.Logo)
		if err != nil {
			return fail("logo upload", err)
		}
		sg.done("logo upload", s.deleteObject(obj.Bucket, obj.Key))
		p.LogoURL, p.LogoPath = obj.URL, obj.Key
	}
	if in.Hero != nil {
		obj, err := s.upload(ctx, s.buckets.Heroes, "providers/"+providerSlug, in.Hero)
		if err != nil {
			return fail("hero upload", err)
		}
		sg.done("hero upload", s.deleteObject(obj.Bucket, obj.Key))
		p.HeroURL, p.HeroPath = obj.URL, obj.Key
	}

	now := time.Now().UTC()
	p.CreatedAt, p.UpdatedAt = now, now
	if err := s.repo.Create(ctx, p); err != nil {
		return fail("insert", err)
	}
	sg.done("insert", func(ctx context.Context) error { return s.repo.Delete(ctx, p.ID) })

	if len(coverage) > 0 {
		if err := s.repo.ReplaceCoverage(ctx, p.ID, coverage); err != nil {
			return fail("coverage", err)
		}
	}

	s.metrics.ProviderRegistered(ctx, "ok")
	s.invalidate(ctx, "")
	s.publish(ctx, p)
	s.logger.Info("provider registered", zap.Int64("id", p.ID), zap.String("slug", p.Slug))
	return p, nil
}

// Get fetches a provider by id for its own dashboard.
func (s *Service) Get(ctx context.Context, id int64) (*entity.Provider, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, translate(err, "failed to load provider")
	}
	return p, nil
}

// GetBySlug returns the public profile of an active provider.
func (s *Service) GetBySlug(ctx context.Context, providerSlug string) (*Profile, error) {
	ctx, span := serviceTracer.Start(ctx, "ProviderService.GetBySlug", trace.WithAttributes(attribute.String("provider.slug", providerSlug)))
	defer span.End()

	key := cache.Key("providers", "slug", providerSlug)
	var profile Profile
	if hit, err := cache.GetJSON(ctx, s.cache, key, &profile); err != nil {
		s.logger.Warn("provider cache read failed", zap.String("slug", providerSlug), zap.Error(err))
	} else if hit {
		return &profile, nil
	}

	p, err := s.repo.GetBySlug(ctx, providerSlug)
	if err != nil {
		return nil, translate(err, "failed to load provider")
	}
	coverage, err := s.repo.Coverage(ctx, p.ID)
	if err != nil {
		return nil, errorbank.Internal("failed to load coverage", errorbank.WithCause(err))
	}
	profile = Profile{Provider: *p, Coverage: coverage}
	if err := cache.SetJSON(ctx, s.cache, key, profile, s.business.DirectoryTTL); err != nil {
		s.logger.Warn("provider cache write failed", zap.String("slug", providerSlug), zap.Error(err))
	}
	return &profile, nil
}

// Directory lists active providers matching q, cached for a short time.
func (s *Service) Directory(ctx context.Context, q repo.DirectoryQuery) (*DirectoryPage, error) {
	ctx, span := serviceTracer.Start(ctx, "ProviderService.Directory")
	defer span.End()

	if q.Category != "" && !entity.Category(q.Category).Valid() {
		return nil, errorbank.BadRequest("unknown service category", errorbank.WithDetail("category", q.Category))
	}
	q.Text = strings.TrimSpace(q.Text)
	q.Limit, q.Offset = s.business.Page(q.Limit, q.Offset)

	key := directoryKey(q)
	var page DirectoryPage
	if hit, err := cache.GetJSON(ctx, s.cache, key, &page); err != nil {
		s.logger.Warn("directory cache read failed", zap.Error(err))
	} else if hit {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &page, nil
	}

	rows, total, err := s.repo.Directory(ctx, q)
	if err != nil {
		span.RecordError(err)
		return nil, errorbank.Internal("failed to search providers", errorbank.WithCause(err))
	}
	page = DirectoryPage{Providers: rows, Total: total, Limit: q.Limit, Offset: q.Offset}
	if err := cache.SetJSON(ctx, s.cache, key, page, s.business.DirectoryTTL); err != nil {
		s.logger.Warn("directory cache write failed", zap.Error(err))
	}
	return &page, nil
}

// Compare returns between two and the configured maximum of active providers
// in the requested order.
func (s *Service) Compare(ctx context.Context, ids []int64) ([]entity.Provider, error) {
	ctx, span := serviceTracer.Start(ctx, "ProviderService.Compare", trace.WithAttributes(attribute.Int("providers", len(ids))))
	defer span.End()

	unique := make([]int64, 0, len(ids))
	seen := make(map[int64]bool, len(ids))
	for _, id := range ids {
		if id > 0 && !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) < 2 || len(unique) > s.business.MaxCompare {
		return nil, errorbank.BadRequest(fmt.Sprintf("select between 2 and %d providers to compare", s.business.MaxCompare))
	}

	rows, err := s.repo.ByIDs(ctx, unique)
	if err != nil {
		return nil, errorbank.Internal("failed to load providers", errorbank.WithCause(err))
	}
	if len(rows) != len(unique) {
		found := make(map[int64]bool, len(rows))
		for _, p := range rows {
			found[p.ID] = true
		}
		var missing []int64
		for _, id := range unique {
			if !found[id] {
				missing = append(missing, id)
			}
		}
		return nil, errorbank.NotFound("some providers are not available", errorbank.WithDetail("missing", missing))
	}
	return rows, nil
}

// Update overwrites the profile fields and optionally replaces images. New
// images are removed again when the row cannot be saved; replaced images are
// deleted after a successful save.
func (s *Service) Update(ctx context.Context, id int64, d Details, logo, hero *storage.Upload) (*entity.Provider, error) {
	ctx, span := serviceTracer.Start(ctx, "ProviderService.Update", trace.WithAttributes(attribute.Int64("provider.id", id)))
	defer span.End()

	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	details, err := s.validateDetails(d)
	if err != nil {
		return nil, err
	}
	if details.RUT != p.RUT {
		taken, err := s.repo.ExistsRUT(ctx, details.RUT)
		if err != nil {
			return nil, errorbank.Internal("failed to check RUT", errorbank.WithCause(err))
		}
		if taken {
			return nil, errorbank.Conflict("a provider with this RUT is already registered")
		}
	}
	for _, up := range []*storage.Upload{logo, hero} {
		if err := s.validateUpload(up); err != nil {
			return nil, err
		}
	}

	sg := newSaga("provider.update", s.logger)
	var stale []storage.Object
	applyDetails(p, details)

	if logo != nil {
		obj, err := s.upload(ctx, s.buckets.Logos, "providers/"+p.Slug, logo)
		if err != nil {
			return nil, errorbank.Internal("logo upload failed", errorbank.WithCause(err))
		}
		sg.done("logo upload", s.deleteObject(obj.Bucket, obj.Key))
		if p.LogoPath != "" {
			stale = append(stale, storage.Object{Bucket: s.buckets.Logos, Key: p.LogoPath})
		}
		p.LogoURL, p.LogoPath = obj.URL, obj.Key
	}
	if hero != nil {
		obj, err := s.upload(ctx, s.buckets.Heroes, "providers/"+p.Slug, hero)
		if err != nil {
			sg.compensate(ctx)
			return nil, errorbank.Internal("hero upload failed", errorbank.WithCause(err))
		}
		sg.done("hero upload", s.deleteObject(obj.Bucket, obj.Key))
		if p.HeroPath != "" {
			stale = append(stale, storage.Object{Bucket: s.buckets.Heroes, Key: p.HeroPath})
		}
		p.HeroURL, p.HeroPath = obj.URL, obj.Key
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		span.RecordError(err)
		sg.compensate(ctx)
		return nil, translate(err, "failed to update provider")
	}
	for _, obj := range stale {
		if err := s.store.Delete(ctx, obj.Bucket, obj.Key); err != nil {
			s.logger.Warn("stale image not deleted", zap.String("bucket", obj.Bucket), zap.String("key", obj.Key), zap.Error(err))
		}
	}
	s.invalidate(ctx, p.Slug)
	return p, nil
}

// SetCoverage replaces the communes a provider serves.
func (s *Service) SetCoverage(ctx context.Context, id int64, communes []entity.ProviderCommune) ([]entity.ProviderCommune, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	coverage, err := normalizeCoverage(communes)
	if err != nil {
		return nil, err
	}
	if err := s.repo.ReplaceCoverage(ctx, id, coverage); err != nil {
		return nil, errorbank.Internal("failed to save coverage", errorbank.WithCause(err))
	}
	s.invalidate(ctx, p.Slug)
	return coverage, nil
}

// Coverage lists the communes a provider serves.
func (s *Service) Coverage(ctx context.Context, id int64) ([]entity.ProviderCommune, error) {
	rows, err := s.repo.Coverage(ctx, id)
	if err != nil {
		return nil, errorbank.Internal("failed to load coverage", errorbank.WithCause(err))
	}
	return rows, nil
}

// Verify sets the verified badge of a provider.
func (s *Service) Verify(ctx context.Context, id int64, verified bool) (*entity.Provider, error) {
	p, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Verified = verified
	p.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, translate(err, "failed to update provider")
	}
	s.invalidate(ctx, p.Slug)
	s.logger.Info("provider verification changed", zap.Int64("id", id), zap.Bool("verified", verified))
	return p, nil
}

// Delete removes a provider and then its images.
func (s *Service) Delete(ctx context.Context, id int64) error {
	p, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return translate(err, "failed to delete provider")
	}
	for _, obj := range []storage.Object{
		{Bucket: s.buckets.Logos, Key: p.LogoPath},
		{Bucket: s.buckets.Heroes, Key: p.HeroPath},
	} {
		if obj.Key == "" {
			continue
		}
		if err := s.store.Delete(ctx, obj.Bucket, obj.Key); err != nil {
			s.logger.Warn("provider image not deleted", zap.String("key", obj.Key), zap.Error(err))
		}
	}
	s.invalidate(ctx, p.Slug)
	return nil
}

func (s *Service) validateDetails(d Details) (Details, error) {
	d.Name = strings.TrimSpace(d.Name)
	if d.Name == "" {
		return d, errorbank.BadRequest("provider name is required")
	}
	formatted, err := rut.Format(d.RUT)
	if err != nil {
		return d, errorbank.BadRequest("RUT is not valid", errorbank.WithDetail("rut", d.RUT))
	}
	d.RUT = formatted
	d.Email = strings.ToLower(strings.TrimSpace(d.Email))
	if d.Email != "" {
		if _, err := mail.ParseAddress(d.Email); err != nil {
			return d, errorbank.BadRequest("email is not valid", errorbank.WithDetail("email", d.Email))
		}
	}
	if d.PriceFrom < 0 {
		return d, errorbank.BadRequest("price must not be negative")
	}
	categories := make([]string, 0, len(d.Categories))
	seen := map[string]bool{}
	for _, c := range d.Categories {
		c = strings.ToLower(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		if !entity.Category(c).Valid() {
			return d, errorbank.BadRequest("unknown service category", errorbank.WithDetail("category", c))
		}
		seen[c] = true
		categories = append(categories, c)
	}
	sort.Strings(categories)
	d.Categories = categories
	return d, nil
}

func (s *Service) validateUpload(up *storage.Upload) error {
	if up == nil {
		return nil
	}
	if err := up.CheckImage(s.maxUpload); err != nil {
		return errorbank.BadRequest("images must be JPEG, PNG, WebP or GIF within the size limit",
			errorbank.WithCause(err),
			errorbank.WithDetail("content_type", up.ContentType),
			errorbank.WithDetail("max_bytes", s.maxUpload),
		)
	}
	return nil
}

func (s *Service) upload(ctx context.Context, bucket, prefix string, up *storage.Upload) (storage.Object, error) {
	return storage.Put(ctx, s.store, bucket, prefix, up)
}

func (s *Service) deleteObject(bucket, key string) func(context.Context) error {
	return func(ctx context.Context) error { return s.store.Delete(ctx, bucket, key) }
}

func (s *Service) uniqueSlug(ctx context.Context, name string) (string, error) {
	base := slug.Make(name)
	if base == "" {
		base = "funeraria"
	}
	candidate := base
	for i := 2; i < 100; i++ {
		taken, err := s.repo.ExistsSlug(ctx, candidate)
		if err != nil {
			return "", errorbank.Internal("failed to check slug", errorbank.WithCause(err))
		}
		if !taken {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return "", errorbank.Conflict("could not derive a unique slug for this name")
}

// invalidate drops the cached profile of providerSlug, when given, and every
// cached directory page.
func (s *Service) invalidate(ctx context.Context, providerSlug string) {
	if providerSlug != "" {
		if err := s.cache.Delete(ctx, cache.Key("providers", "slug", providerSlug)); err != nil {
			s.logger.Warn("provider cache delete failed", zap.String("slug", providerSlug), zap.Error(err))
		}
	}
	if err := s.cache.DeletePrefix(ctx, cache.Prefix("directory")); err != nil {
		s.logger.Warn("directory cache delete failed", zap.Error(err))
	}
}

func (s *Service) publish(ctx context.Context, p *entity.Provider) {
	if s.publisher == nil || !s.publisher.Enabled() {
		return
	}
	payload := map[string]any{"id": p.ID, "slug": p.Slug, "name": p.Name, "region": p.Region}
	if err := messaging.PublishJSON(ctx, s.publisher, messaging.EventProviderRegistered, p.Slug, p.ID, payload); err != nil {
		s.logger.Error("publish provider registered", zap.Error(err))
	}
}

func applyDetails(p *entity.Provider, d Details) {
	p.Name = d.Name
	p.LegalName = strings.TrimSpace(d.LegalName)
	p.RUT = d.RUT
	p.Email = d.Email
	p.Phone = strings.TrimSpace(d.Phone)
	p.Website = strings.TrimSpace(d.Website)
	p.Address = strings.TrimSpace(d.Address)
	p.Region = strings.TrimSpace(d.Region)
	p.Commune = strings.TrimSpace(d.Commune)
	p.Description = strings.TrimSpace(d.Description)
	p.Categories = d.Categories
	p.PriceFrom = d.PriceFrom
}

func normalizeCoverage(in []entity.ProviderCommune) ([]entity.ProviderCommune, error) {
	out := make([]entity.ProviderCommune, 0, len(in))
	seen := map[string]bool{}
	for _, c := range in {
		name := strings.TrimSpace(c.Commune)
		if name == "" {
			return nil, errorbank.BadRequest("commune name is required")
		}
		key := strings.ToLower(name)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, entity.ProviderCommune{Commune: name, Region: strings.TrimSpace(c.Region)})
	}
	return out, nil
}

func directoryKey(q repo.DirectoryQuery) string {
	return cache.Key("directory", strings.ToLower(q.Text), strings.ToLower(q.Region), strings.ToLower(q.Commune),
		q.Category, strconv.FormatBool(q.VerifiedOnly), q.Sort, strconv.Itoa(q.Limit), strconv.Itoa(q.Offset))
}

func translate(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) || errors.Is(err, crud.ErrNotFound) {
		return errorbank.NotFound("provider not found")
	}
	return errorbank.Internal(msg, errorbank.WithCause(err))
}
