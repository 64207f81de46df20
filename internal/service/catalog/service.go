// Package catalog manages the products and services a provider sells.
package catalog

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/cache"
	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/entity"
	repo "github.com/Additional-Code/funerarias/internal/repository/catalog"
	"github.com/Additional-Code/funerarias/internal/service/dashboard"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

// Input carries the editable fields shared by products and services.
type Input struct {
	Name        string
	Description string
	Category    entity.Category
	Price       float64
	Stock       int
	DurationMin int
	ImageURL    string
	Active      bool
}

func (in Input) validate() (Input, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = entity.Category(strings.ToLower(strings.TrimSpace(string(in.Category))))
	switch {
	case in.Name == "":
		return in, errorbank.BadRequest("name is required")
	case !in.Category.Valid():
		return in, errorbank.BadRequest("unknown category", errorbank.WithDetail("category", in.Category), errorbank.WithDetail("allowed", entity.Categories()))
	case in.Price < 0:
		return in, errorbank.BadRequest("price must not be negative")
	case in.Stock < 0:
		return in, errorbank.BadRequest("stock must not be negative")
	case in.DurationMin < 0:
		return in, errorbank.BadRequest("duration must not be negative")
	}
	return in, nil
}

// Service implements catalog management.
type Service struct {
	repo     *repo.Repository
	cache    cache.Store
	logger   *zap.Logger
	business config.Business
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{repo: p.Repository, cache: p.Cache, logger: p.Logger, business: p.Config.Business}
}

// CreateProduct adds a product to the catalog of providerID.
func (s *Service) CreateProduct(ctx context.Context, providerID int64, in Input) (*entity.Product, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	p := &entity.Product{ProviderID: providerID, CreatedAt: now}
	applyProduct(p, in, now)
	if err := s.repo.CreateProduct(ctx, p); err != nil {
		return nil, errorbank.Internal("failed to save product", errorbank.WithCause(err))
	}
	s.touched(ctx, providerID)
	return p, nil
}

// UpdateProduct overwrites a product.
func (s *Service) UpdateProduct(ctx context.Context, providerID, id int64, in Input) (*entity.Product, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	p, err := s.GetProduct(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	applyProduct(p, in, time.Now().UTC())
	if err := s.repo.SaveProduct(ctx, p); err != nil {
		return nil, translate(err, "product")
	}
	return p, nil
}

// GetProduct fetches a product.
func (s *Service) GetProduct(ctx context.Context, providerID, id int64) (*entity.Product, error) {
	p, err := s.repo.GetProduct(ctx, providerID, id)
	if err != nil {
		return nil, translate(err, "product")
	}
	return p, nil
}

// ListProducts lists the products of a provider.
func (s *Service) ListProducts(ctx context.Context, q repo.ListQuery) ([]entity.Product, int, error) {
	q, err := s.query(q)
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.repo.ListProducts(ctx, q)
	if err != nil {
		return nil, 0, errorbank.Internal("failed to list products", errorbank.WithCause(err))
	}
	return rows, total, nil
}

// DeleteProduct removes a product.
func (s *Service) DeleteProduct(ctx context.Context, providerID, id int64) error {
	if err := s.repo.DeleteProduct(ctx, providerID, id); err != nil {
		return translate(err, "product")
	}
	s.touched(ctx, providerID)
	return nil
}

// CreateService adds a service to the catalog of providerID.
func (s *Service) CreateService(ctx context.Context, providerID int64, in Input) (*entity.Service, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	svc := &entity.Service{ProviderID: providerID, CreatedAt: now}
	applyService(svc, in, now)
	if err := s.repo.CreateService(ctx, svc); err != nil {
		return nil, errorbank.Internal("failed to save service", errorbank.WithCause(err))
	}
	s.touched(ctx, providerID)
	return svc, nil
}

// UpdateService overwrites a service.
func (s *Service) UpdateService(ctx context.Context, providerID, id int64, in Input) (*entity.Service, error) {
	in, err := in.validate()
	if err != nil {
		return nil, err
	}
	svc, err := s.GetService(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	applyService(svc, in, time.Now().UTC())
	if err := s.repo.SaveService(ctx, svc); err != nil {
		return nil, translate(err, "service")
	}
	return svc, nil
}

// GetService fetches a service.
func (s *Service) GetService(ctx context.Context, providerID, id int64) (*entity.Service, error) {
	svc, err := s.repo.GetService(ctx, providerID, id)
	if err != nil {
		return nil, translate(err, "service")
	}
	return svc, nil
}

// ListServices lists the services of a provider.
func (s *Service) ListServices(ctx context.Context, q repo.ListQuery) ([]entity.Service, int, error) {
	q, err := s.query(q)
	if err != nil {
		return nil, 0, err
	}
	rows, total, err := s.repo.ListServices(ctx, q)
	if err != nil {
		return nil, 0, errorbank.Internal("failed to list services", errorbank.WithCause(err))
	}
	return rows, total, nil
}

// DeleteService removes a service.
func (s *Service) DeleteService(ctx context.Context, providerID, id int64) error {
	if err := s.repo.DeleteService(ctx, providerID, id); err != nil {
		return translate(err, "service")
	}
	s.touched(ctx, providerID)
	return nil
}

func (s *Service) query(q repo.ListQuery) (repo.ListQuery, error) {
	if q.Category != "" && !q.Category.Valid() {
		return q, errorbank.BadRequest("unknown category", errorbank.WithDetail("category", q.Category))
	}
	q.Limit, q.Offset = s.business.Page(q.Limit, q.Offset)
	return q, nil
}

// touched drops cached dashboard counters after the catalog size changed.
func (s *Service) touched(ctx context.Context, providerID int64) {
	dashboard.Invalidate(ctx, s.cache, s.logger, providerID)
}

func applyProduct(p *entity.Product, in Input, now time.Time) {
	p.Name = in.Name
	p.Description = in.Description
	p.Category = in.Category
	p.Price = in.Price
	p.Stock = in.Stock
	p.ImageURL = strings.TrimSpace(in.ImageURL)
	p.Active = in.Active
	p.UpdatedAt = now
}

func applyService(svc *entity.Service, in Input, now time.Time) {
	svc.Name = in.Name
	svc.Description = in.Description
	svc.Category = in.Category
	svc.Price = in.Price
	svc.DurationMin = in.DurationMin
	svc.Active = in.Active
	svc.UpdatedAt = now
}

func translate(err error, what string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound(what + " not found")
	}
	return errorbank.Internal("failed to access "+what, errorbank.WithCause(err))
}
