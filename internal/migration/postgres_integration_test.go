//go:build integration

package migration_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/database"
	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/migration"
	dashboardrepo "github.com/Additional-Code/funerarias/internal/repository/dashboard"
	providerrepo "github.com/Additional-Code/funerarias/internal/repository/provider"
)

func TestPostgresMigrations(t *testing.T) {
	ctx := context.Background()
	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("funerarias"),
		postgres.WithUsername("funerarias"),
		postgres.WithPassword("funerarias"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").WithOccurrence(2).WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = testcontainers.TerminateContainer(container) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	db, err := database.OpenPostgres(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	m, err := migration.NewWithDB(db, "postgres", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up(ctx))

	conns := database.Single(db)
	provider := &entity.Provider{Slug: "paz", Name: "Funeraria Paz", RUT: "76.086.428-5", Region: "Metropolitana",
		Commune: "Providencia", Categories: []string{"cremacion", "traslado"}, Active: true, Verified: true}
	_, err = db.NewInsert().Model(provider).Exec(ctx)
	require.NoError(t, err)
	order := &entity.Order{ProviderID: provider.ID, Number: "ORD-1", Status: entity.OrderCompleted,
		Items: []lineitem.Item{{Name: "Cremación", Quantity: 1, UnitPrice: 500000, Subtotal: 500000}}, TaxRate: 19,
		Subtotal: 500000, Tax: 95000, Total: 595000}
	_, err = db.NewInsert().Model(order).Exec(ctx)
	require.NoError(t, err)

	found, total, err := providerrepo.NewRepository(conns).Directory(ctx, providerrepo.DirectoryQuery{Category: "cremacion", Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, "paz", found[0].Slug)

	stats, err := dashboardrepo.NewRepository(conns).ProviderStats(ctx, provider.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Orders)
	assert.InDelta(t, 595000, stats.Revenue, 1e-9)

	require.NoError(t, m.Down(ctx, 0, true))
}
