package dashboard

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/cache"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

type countingRepo struct {
	calls int
	leads int
	err   error
}

func (r *countingRepo) ProviderStats(_ context.Context, providerID int64) (*entity.DashboardStats, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &entity.DashboardStats{ProviderID: providerID, Leads: r.leads}, nil
}

func (r *countingRepo) PlatformStats(context.Context) (*entity.PlatformStats, error) {
	r.calls++
	if r.err != nil {
		return nil, r.err
	}
	return &entity.PlatformStats{Providers: 3}, nil
}

func TestProviderStatsCacheAside(t *testing.T) {
	repo := &countingRepo{leads: 2}
	svc := &Service{repo: repo, cache: cache.NewMemory(time.Minute), ttl: time.Minute, logger: zap.NewNop()}
	ctx := context.Background()

	stats, err := svc.ProviderStats(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Leads)

	repo.leads = 5
	stats, err = svc.ProviderStats(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Leads, "served from cache")
	assert.Equal(t, 1, repo.calls)

	svc.Invalidate(ctx, 9)
	stats, err = svc.ProviderStats(ctx, 9)
	require.NoError(t, err)
	assert.Equal(t, 5, stats.Leads)
	assert.Equal(t, 2, repo.calls)
}

func TestStatsErrors(t *testing.T) {
	svc := &Service{repo: &countingRepo{err: errors.New("db down")}, cache: cache.NewMemory(time.Minute), logger: zap.NewNop()}

	_, err := svc.ProviderStats(context.Background(), 1)
	assert.True(t, errorbank.IsKind(err, errorbank.KindInternal))
	_, err = svc.PlatformStats(context.Background())
	assert.True(t, errorbank.IsKind(err, errorbank.KindInternal))
}

func TestStatsKey(t *testing.T) {
	assert.Equal(t, "funerarias:dashboard:stats:42", StatsKey(42))
}
