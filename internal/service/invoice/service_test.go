package invoice

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/domain/quote/pdf/gofpdf"
	"github.com/Additional-Code/funerarias/internal/entity"
	repo "github.com/Additional-Code/funerarias/internal/repository/invoice"
	"github.com/Additional-Code/funerarias/internal/testutil"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

type fakeOrders map[int64]entity.Order

func (f fakeOrders) Get(_ context.Context, providerID, id int64) (*entity.Order, error) {
	o, ok := f[id]
	if !ok || o.ProviderID != providerID {
		return nil, errorbank.NotFound("order not found")
	}
	return &o, nil
}

func newTestService(t *testing.T, orders fakeOrders) *Service {
	conns := testutil.SQLite(t)
	return &Service{
		repo:      repo.NewRepository(conns),
		orders:    orders,
		providers: testutil.NewProviders(entity.Provider{ID: 1, Name: "Paz"}),
		pdf:       gofpdf.New(),
		logger:    zap.NewNop(),
		business:  config.Business{DefaultPageSize: 20, MaxPageSize: 100},
	}
}

func TestIssueFromOrder(t *testing.T) {
	orders := fakeOrders{
		1: {ID: 1, ProviderID: 1, Status: entity.OrderCompleted, Client: entity.Client{Name: "Ana"}, TaxRate: 19, Subtotal: 24500, Tax: 4655, Total: 29155},
		2: {ID: 2, ProviderID: 1, Status: entity.OrderConfirmed, Subtotal: 100, Total: 119},
		3: {ID: 3, ProviderID: 1, Status: entity.OrderDraft},
	}
	svc := newTestService(t, orders)
	ctx := context.Background()

	first, err := svc.IssueFromOrder(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.Folio)
	assert.Equal(t, 29155.0, first.Total)
	assert.Equal(t, "Ana", first.Client.Name)

	second, err := svc.IssueFromOrder(ctx, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.Folio)

	_, err = svc.IssueFromOrder(ctx, 1, 1)
	assert.True(t, errorbank.IsKind(err, errorbank.KindConflict))

	_, err = svc.IssueFromOrder(ctx, 1, 3)
	assert.True(t, errorbank.IsKind(err, errorbank.KindConflict))

	_, err = svc.IssueFromOrder(ctx, 2, 1)
	assert.True(t, errorbank.IsKind(err, errorbank.KindNotFound))

	rows, total, err := svc.List(ctx, 1, "", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, int64(2), rows[0].Folio)
}

func TestSetStatusAndRender(t *testing.T) {
	svc := newTestService(t, fakeOrders{1: {ID: 1, ProviderID: 1, Status: entity.OrderConfirmed, Total: 10}})
	ctx := context.Background()
	inv, err := svc.IssueFromOrder(ctx, 1, 1)
	require.NoError(t, err)

	_, err = svc.SetStatus(ctx, 1, inv.ID, entity.InvoiceIssued)
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest))

	paid, err := svc.SetStatus(ctx, 1, inv.ID, entity.InvoicePaid)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoicePaid, paid.Status)

	_, err = svc.SetStatus(ctx, 1, inv.ID, entity.InvoiceVoid)
	assert.True(t, errorbank.IsKind(err, errorbank.KindConflict))

	out, name, err := svc.RenderPDF(ctx, 1, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
	assert.Equal(t, "factura-000001.pdf", name)
}
