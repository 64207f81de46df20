package quote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	"github.com/Additional-Code/funerarias/internal/domain/quote/pdf/gofpdf"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/messaging"
	repo "github.com/Additional-Code/funerarias/internal/repository/quote"
	ordersvc "github.com/Additional-Code/funerarias/internal/service/order"
	"github.com/Additional-Code/funerarias/internal/testutil"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

type fakeRepo struct {
	nextID  int64
	rows    map[int64]entity.Quote
	calls   int
	saveErr error
}

func newFakeRepo() *fakeRepo { return &fakeRepo{rows: map[int64]entity.Quote{}} }

func (f *fakeRepo) Create(_ context.Context, q *entity.Quote) error {
	f.calls++
	f.nextID++
	q.ID = f.nextID
	f.rows[q.ID] = *q
	return nil
}

func (f *fakeRepo) Save(_ context.Context, q *entity.Quote) error {
	f.calls++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.rows[q.ID] = *q
	return nil
}

func (f *fakeRepo) Get(_ context.Context, providerID, id int64) (*entity.Quote, error) {
	q, ok := f.rows[id]
	if !ok || q.ProviderID != providerID {
		return nil, repo.ErrNotFound
	}
	q.Items = append([]lineitem.Item(nil), q.Items...)
	return &q, nil
}

func (f *fakeRepo) List(_ context.Context, lq repo.ListQuery) ([]entity.Quote, int, error) {
	var out []entity.Quote
	for _, q := range f.rows {
		if q.ProviderID == lq.ProviderID {
			out = append(out, q)
		}
	}
	return out, len(out), nil
}

func (f *fakeRepo) Delete(_ context.Context, providerID, id int64) error {
	if _, err := f.Get(context.Background(), providerID, id); err != nil {
		return err
	}
	delete(f.rows, id)
	return nil
}

type fakeOrders struct {
	created   []ordersvc.Input
	discarded []int64
}

func (f *fakeOrders) Create(_ context.Context, providerID int64, in ordersvc.Input) (*entity.Order, error) {
	f.created = append(f.created, in)
	return &entity.Order{ID: int64(100 + len(f.created)), ProviderID: providerID, Status: in.Status}, nil
}

func (f *fakeOrders) Discard(_ context.Context, id int64) error {
	f.discarded = append(f.discarded, id)
	return nil
}

func newTestService(r *fakeRepo, orders *fakeOrders, bus messaging.Client) *Service {
	return &Service{
		repo:      r,
		providers: testutil.NewProviders(entity.Provider{ID: 1, Name: "Funeraria Paz"}),
		orders:    orders,
		publisher: bus,
		pdf:       gofpdf.New(),
		logger:    zap.NewNop(),
		business:  config.Business{DefaultTaxRate: 19, DefaultPageSize: 20, MaxPageSize: 100},
		now:       func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) },
	}
}

func sampleInput() Input {
	return Input{
		Client: entity.Client{Name: "Juan Soto", Email: "juan@correo.cl"},
		Items: []lineitem.Item{
			{Type: lineitem.TypeProduct, SourceItemID: "p-1", Name: "Ataúd roble", Quantity: 2, UnitPrice: 10000},
			{Type: lineitem.TypeService, SourceItemID: "s-1", Name: "Traslado", Quantity: 1, UnitPrice: 5000, DiscountPercent: 10},
		},
	}
}

func TestCreateComputesTotalsServerSide(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeOrders{}, messaging.NewRecorder("events"))

	in := sampleInput()
	in.Items[0].Subtotal = 999999
	q, err := svc.Create(context.Background(), 1, in)
	require.NoError(t, err)

	assert.Equal(t, entity.QuoteDraft, q.Status)
	assert.InDelta(t, 20000, q.Items[0].Subtotal, 1e-9)
	assert.InDelta(t, 24500, q.Subtotal, 1e-9)
	assert.InDelta(t, 4655, q.Tax, 1e-9)
	assert.InDelta(t, 29155, q.Total, 1e-9)
	assert.Equal(t, time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC), q.ValidUntil)
	for _, it := range q.Items {
		assert.NotEmpty(t, it.ID)
	}
}

func TestCreateRejectsEmptyItemsWithoutBackendCall(t *testing.T) {
	r := newFakeRepo()
	svc := newTestService(r, &fakeOrders{}, messaging.NewRecorder("events"))

	in := sampleInput()
	in.Items = []lineitem.Item{}
	_, err := svc.Create(context.Background(), 1, in)

	assert.True(t, errorbank.IsKind(err, errorbank.KindUnprocessableEntity))
	assert.Zero(t, r.calls)
}

func TestCreateRejectsInvalidClientRUT(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeOrders{}, messaging.NewRecorder("events"))
	in := sampleInput()
	in.Client.RUT = "12.345.678-K"

	_, err := svc.Create(context.Background(), 1, in)
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest))
}

func TestCreateRejectsUnknownItemType(t *testing.T) {
	r := newFakeRepo()
	svc := newTestService(r, &fakeOrders{}, messaging.NewRecorder("events"))
	in := sampleInput()
	in.Items[1].Type = "servicio"

	_, err := svc.Create(context.Background(), 1, in)
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest))
	assert.ErrorIs(t, err, lineitem.ErrUnknownType)
	assert.Zero(t, r.calls)
}

func TestUpdateOverwritesWholeRecord(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeOrders{}, messaging.NewRecorder("events"))
	ctx := context.Background()
	q, err := svc.Create(ctx, 1, sampleInput())
	require.NoError(t, err)

	zero := 0.0
	updated, err := svc.Update(ctx, 1, q.ID, Input{
		Client:  entity.Client{Name: "Juan Soto"},
		Items:   []lineitem.Item{{Name: "Urna", Quantity: 1, UnitPrice: 50000}},
		TaxRate: &zero,
	})
	require.NoError(t, err)
	assert.Len(t, updated.Items, 1)
	assert.Equal(t, 50000.0, updated.Total)
	assert.Equal(t, q.Number, updated.Number)
}

func TestReorderKeepsTotals(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeOrders{}, messaging.NewRecorder("events"))
	ctx := context.Background()
	q, err := svc.Create(ctx, 1, sampleInput())
	require.NoError(t, err)

	moved, err := svc.Reorder(ctx, 1, q.ID, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, "Traslado", moved.Items[0].Name)
	assert.Equal(t, "Ataúd roble", moved.Items[1].Name)
	assert.InDelta(t, q.Total, moved.Total, 1e-9)

	_, err = svc.Reorder(ctx, 1, q.ID, 0, 5)
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest))
}

func TestSendPublishesAndLifecycle(t *testing.T) {
	bus := messaging.NewRecorder("events")
	orders := &fakeOrders{}
	svc := newTestService(newFakeRepo(), orders, bus)
	ctx := context.Background()
	q, err := svc.Create(ctx, 1, sampleInput())
	require.NoError(t, err)

	_, err = svc.ConvertToOrder(ctx, 1, q.ID)
	assert.True(t, errorbank.IsKind(err, errorbank.KindConflict))

	_, err = svc.Send(ctx, 1, q.ID)
	require.NoError(t, err)
	_, err = svc.Accept(ctx, 1, q.ID)
	require.NoError(t, err)

	order, err := svc.ConvertToOrder(ctx, 1, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderConfirmed, order.Status)
	require.Len(t, orders.created, 1)
	assert.Equal(t, q.ID, orders.created[0].QuoteID)
	assert.Equal(t, 19.0, *orders.created[0].TaxRate)

	converted, err := svc.Get(ctx, 1, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteConverted, converted.Status)
	assert.Equal(t, order.ID, converted.OrderID)

	_, err = svc.Update(ctx, 1, q.ID, sampleInput())
	assert.True(t, errorbank.IsKind(err, errorbank.KindConflict))
	assert.True(t, errorbank.IsKind(svc.Delete(ctx, 1, q.ID), errorbank.KindConflict))

	assert.Equal(t, []string{messaging.EventQuoteSent, messaging.EventQuoteConverted}, bus.Events())
}

func TestConvertDiscardsOrderWhenQuoteSaveFails(t *testing.T) {
	r := newFakeRepo()
	orders := &fakeOrders{}
	svc := newTestService(r, orders, messaging.NewRecorder("events"))
	ctx := context.Background()
	q, err := svc.Create(ctx, 1, sampleInput())
	require.NoError(t, err)
	_, err = svc.Accept(ctx, 1, q.ID)
	require.NoError(t, err)

	r.saveErr = errors.New("timeout")
	_, err = svc.ConvertToOrder(ctx, 1, q.ID)
	assert.True(t, errorbank.IsKind(err, errorbank.KindInternal))
	assert.Equal(t, []int64{101}, orders.discarded)
}

func TestRejectAndNotFound(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeOrders{}, messaging.NewRecorder("events"))
	ctx := context.Background()
	q, err := svc.Create(ctx, 1, sampleInput())
	require.NoError(t, err)

	rejected, err := svc.Reject(ctx, 1, q.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.QuoteRejected, rejected.Status)

	_, err = svc.Get(ctx, 2, q.ID)
	assert.True(t, errorbank.IsKind(err, errorbank.KindNotFound))
}

func TestTotalsPreview(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeOrders{}, messaging.NewRecorder("events"))

	items, totals, rate, err := svc.Totals(sampleInput().Items, nil)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 19.0, rate)
	assert.InDelta(t, 29155, totals.Total, 1e-9)

	_, totals, _, err = svc.Totals(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, lineitem.Totals{}, totals)

	bad := -1.0
	_, _, _, err = svc.Totals(nil, &bad)
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest))

	unknown := sampleInput().Items
	unknown[0].Type = "producto"
	_, _, _, err = svc.Totals(unknown, nil)
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest))
}

func TestRenderPDF(t *testing.T) {
	svc := newTestService(newFakeRepo(), &fakeOrders{}, messaging.NewRecorder("events"))
	q, err := svc.Create(context.Background(), 1, sampleInput())
	require.NoError(t, err)

	out, name, err := svc.RenderPDF(context.Background(), 1, q.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(out[:4]))
	assert.Equal(t, "cotizacion-"+q.Number+".pdf", name)
}
