package invoice_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/repository/crud"
	"github.com/Additional-Code/funerarias/internal/repository/invoice"
	"github.com/Additional-Code/funerarias/internal/testutil"
)

func TestFolioSequencePerProvider(t *testing.T) {
	ctx := context.Background()
	repo := invoice.NewRepository(testutil.SQLite(t))
	now := time.Now().UTC()

	issue := func(providerID, orderID int64) *entity.Invoice {
		inv := &entity.Invoice{ProviderID: providerID, OrderID: orderID, Status: entity.InvoiceIssued, IssuedAt: now}
		require.NoError(t, repo.CreateWithFolio(ctx, inv))
		return inv
	}

	assert.Equal(t, int64(1), issue(1, 10).Folio)
	assert.Equal(t, int64(2), issue(1, 11).Folio)
	assert.Equal(t, int64(1), issue(2, 12).Folio)

	rows, total, err := repo.List(ctx, 1, "", crud.Page{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, int64(2), rows[0].Folio)

	inv, err := repo.ByOrder(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, int64(2), inv.ProviderID)

	_, err = repo.Get(ctx, 2, rows[0].ID)
	assert.ErrorIs(t, err, invoice.ErrNotFound)
}
