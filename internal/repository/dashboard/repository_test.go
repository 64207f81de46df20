package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/repository/dashboard"
	"github.com/Additional-Code/funerarias/internal/testutil"
)

func TestProviderStats(t *testing.T) {
	conns := testutil.SQLite(t)
	now := time.Now().UTC()
	testutil.Insert(t, conns.Writer,
		&entity.Provider{Slug: "a", Name: "A", RUT: "12.345.678-5", Active: true, Verified: true, CreatedAt: now},
		&entity.Lead{ProviderID: 1, Name: "Ana", Status: entity.LeadNew, CreatedAt: now},
		&entity.Lead{ProviderID: 1, Name: "Luis", Status: entity.LeadWon, CreatedAt: now},
		&entity.Lead{ProviderID: 2, Name: "Otro", Status: entity.LeadNew, CreatedAt: now},
		&entity.Quote{ProviderID: 1, Number: "COT-1", Status: entity.QuoteDraft, CreatedAt: now},
		&entity.Quote{ProviderID: 1, Number: "COT-2", Status: entity.QuoteConverted, CreatedAt: now},
		&entity.Order{ProviderID: 1, Number: "ORD-1", Status: entity.OrderCompleted, Total: 29155, CreatedAt: now},
		&entity.Order{ProviderID: 1, Number: "ORD-2", Status: entity.OrderCompleted, Total: 845, CreatedAt: now},
		&entity.Order{ProviderID: 1, Number: "ORD-3", Status: entity.OrderConfirmed, Total: 5000, CreatedAt: now},
		&entity.Case{ProviderID: 1, DeceasedName: "Juan", Status: entity.CaseOpen, CreatedAt: now},
		&entity.Product{ProviderID: 1, Name: "Urna", Category: entity.CategoryUrn, Active: true, CreatedAt: now},
	)

	repo := dashboard.NewRepository(conns)
	stats, err := repo.ProviderStats(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Leads)
	assert.Equal(t, 1, stats.NewLeads)
	assert.Equal(t, 1, stats.OpenQuotes)
	assert.Equal(t, 1, stats.OpenCases)
	assert.Equal(t, 3, stats.Orders)
	assert.Equal(t, 1, stats.Products)
	assert.InDelta(t, 30000, stats.Revenue, 1e-9)
	assert.Equal(t, 2, stats.OrdersByStatus[entity.OrderCompleted])
	assert.Equal(t, 1, stats.OrdersByStatus[entity.OrderConfirmed])
	assert.Equal(t, 0, stats.OrdersByStatus[entity.OrderCancelled])

	platform, err := repo.PlatformStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, platform.Providers)
	assert.Equal(t, 1, platform.VerifiedProviders)
	assert.Equal(t, 3, platform.Leads)
	assert.InDelta(t, 30000, platform.Revenue, 1e-9)
}
