package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/cache"
	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/entity"
	repo "github.com/Additional-Code/funerarias/internal/repository/catalog"
	"github.com/Additional-Code/funerarias/internal/testutil"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

func newTestService(t *testing.T) *Service {
	return &Service{
		repo:     repo.NewRepository(testutil.SQLite(t)),
		cache:    cache.NewMemory(time.Minute),
		logger:   zap.NewNop(),
		business: config.Business{DefaultPageSize: 20, MaxPageSize: 100},
	}
}

func TestProducts(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	coffin, err := svc.CreateProduct(ctx, 1, Input{Name: " Ataúd roble ", Category: "ATAUD", Price: 890000, Stock: 3, Active: true})
	require.NoError(t, err)
	assert.Equal(t, "Ataúd roble", coffin.Name)
	assert.Equal(t, entity.CategoryCoffin, coffin.Category)

	_, err = svc.CreateProduct(ctx, 1, Input{Name: "Urna", Category: "urna", Price: 150000, Active: false})
	require.NoError(t, err)

	for name, in := range map[string]Input{
		"no name":        {Category: "urna"},
		"bad category":   {Name: "Fuegos", Category: "pirotecnia"},
		"negative price": {Name: "Urna", Category: "urna", Price: -1},
		"negative stock": {Name: "Urna", Category: "urna", Stock: -1},
	} {
		_, err := svc.CreateProduct(ctx, 1, in)
		assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest), name)
	}

	rows, total, err := svc.ListProducts(ctx, repo.ListQuery{ProviderID: 1, ActiveOnly: true})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, coffin.ID, rows[0].ID)

	_, _, err = svc.ListProducts(ctx, repo.ListQuery{ProviderID: 1, Category: "pirotecnia"})
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest))

	updated, err := svc.UpdateProduct(ctx, 1, coffin.ID, Input{Name: "Ataúd roble", Category: "ataud", Price: 950000, Active: true})
	require.NoError(t, err)
	assert.Equal(t, 950000.0, updated.Price)

	_, err = svc.UpdateProduct(ctx, 2, coffin.ID, Input{Name: "x", Category: "ataud"})
	assert.True(t, errorbank.IsKind(err, errorbank.KindNotFound))

	require.NoError(t, svc.DeleteProduct(ctx, 1, coffin.ID))
	_, err = svc.GetProduct(ctx, 1, coffin.ID)
	assert.True(t, errorbank.IsKind(err, errorbank.KindNotFound))
}

func TestServices(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	wake, err := svc.CreateService(ctx, 1, Input{Name: "Velatorio 24h", Category: "velatorio", Price: 300000, DurationMin: 1440, Active: true})
	require.NoError(t, err)
	_, err = svc.CreateService(ctx, 1, Input{Name: "Traslado", Category: "traslado", Price: 80000, Active: true})
	require.NoError(t, err)

	rows, total, err := svc.ListServices(ctx, repo.ListQuery{ProviderID: 1, Category: entity.CategoryWake})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, wake.ID, rows[0].ID)

	_, err = svc.CreateService(ctx, 1, Input{Name: "Misa", Category: "otro", DurationMin: -5})
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest))

	got, err := svc.UpdateService(ctx, 1, wake.ID, Input{Name: "Velatorio 48h", Category: "velatorio", Price: 500000, DurationMin: 2880, Active: true})
	require.NoError(t, err)
	assert.Equal(t, 2880, got.DurationMin)

	require.NoError(t, svc.DeleteService(ctx, 1, wake.ID))
	assert.True(t, errorbank.IsKind(svc.DeleteService(ctx, 1, wake.ID), errorbank.KindNotFound))
}
