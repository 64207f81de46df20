package dashboard

import (
	"context"
	"strconv"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/cache"
	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/entity"
	repo "github.com/Additional-Code/funerarias/internal/repository/dashboard"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/funerarias/service/dashboard")

// Repository computes aggregate statistics.
type Repository interface {
	ProviderStats(ctx context.Context, providerID int64) (*entity.DashboardStats, error)
	PlatformStats(ctx context.Context) (*entity.PlatformStats, error)
}

// StatsKey is the cache key of a provider's dashboard statistics.
func StatsKey(providerID int64) string {
	return cache.Key("dashboard", "stats", strconv.FormatInt(providerID, 10))
}

// Invalidate drops the cached statistics of a provider. Failures are logged.
func Invalidate(ctx context.Context, store cache.Store, logger *zap.Logger, providerID int64) {
	if providerID == 0 {
		return
	}
	if err := store.Delete(ctx, StatsKey(providerID)); err != nil {
		logger.Warn("dashboard stats cache delete failed", zap.Int64("provider_id", providerID), zap.Error(err))
	}
}

// Service serves provider and platform statistics.
type Service struct {
	repo   Repository
	cache  cache.Store
	ttl    time.Duration
	logger *zap.Logger
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
	return &Service{
		repo:   p.Repository,
		cache:  p.Cache,
		ttl:    p.Config.Business.StatsTTL,
		logger: p.Logger,
	}
}

// ProviderStats returns the dashboard counters of a provider, cached for a short time.
func (s *Service) ProviderStats(ctx context.Context, providerID int64) (*entity.DashboardStats, error) {
	ctx, span := serviceTracer.Start(ctx, "DashboardService.ProviderStats", trace.WithAttributes(attribute.Int64("provider.id", providerID)))
	defer span.End()

	key := StatsKey(providerID)
	var stats entity.DashboardStats
	if hit, err := cache.GetJSON(ctx, s.cache, key, &stats); err != nil {
		s.logger.Warn("dashboard stats cache read failed", zap.Int64("provider_id", providerID), zap.Error(err))
	} else if hit {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &stats, nil
	}

	loaded, err := s.repo.ProviderStats(ctx, providerID)
	if err != nil {
		span.RecordError(err)
		return nil, errorbank.Internal("failed to compute dashboard stats", errorbank.WithCause(err))
	}
	if err := cache.SetJSON(ctx, s.cache, key, loaded, s.ttl); err != nil {
		s.logger.Warn("dashboard stats cache write failed", zap.Int64("provider_id", providerID), zap.Error(err))
	}
	return loaded, nil
}

// PlatformStats returns marketplace-wide counters for the superadmin console.
func (s *Service) PlatformStats(ctx context.Context) (*entity.PlatformStats, error) {
	ctx, span := serviceTracer.Start(ctx, "DashboardService.PlatformStats")
	defer span.End()

	stats, err := s.repo.PlatformStats(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, errorbank.Internal("failed to compute platform stats", errorbank.WithCause(err))
	}
	return stats, nil
}

// Invalidate drops the cached statistics of a provider.
func (s *Service) Invalidate(ctx context.Context, providerID int64) {
	Invalidate(ctx, s.cache, s.logger, providerID)
}
