package invoice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	"github.com/Additional-Code/funerarias/internal/domain/quote"
	"github.com/Additional-Code/funerarias/internal/domain/quote/pdf"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/repository/crud"
	repo "github.com/Additional-Code/funerarias/internal/repository/invoice"
	providerrepo "github.com/Additional-Code/funerarias/internal/repository/provider"
	ordersvc "github.com/Additional-Code/funerarias/internal/service/order"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/funerarias/service/invoice")

// Repository is the persistence the service needs.
type Repository interface {
	CreateWithFolio(ctx context.Context, inv *entity.Invoice) error
	ByOrder(ctx context.Context, orderID int64) (*entity.Invoice, error)
	Get(ctx context.Context, providerID, id int64) (*entity.Invoice, error)
	List(ctx context.Context, providerID int64, status entity.InvoiceStatus, page crud.Page) ([]entity.Invoice, int, error)
	UpdateStatus(ctx context.Context, inv *entity.Invoice) error
}

// Orders loads the order an invoice is issued from.
type Orders interface {
	Get(ctx context.Context, providerID, id int64) (*entity.Order, error)
}

// ProviderReader loads the issuing provider.
type ProviderReader interface {
	GetByID(ctx context.Context, id int64) (*entity.Provider, error)
}

// Service issues and tracks invoices.
type Service struct {
	repo      Repository
	orders    Orders
	providers ProviderReader
	pdf       pdf.Generator
	logger    *zap.Logger
	business  config.Business
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Orders     *ordersvc.Service
	Providers  *providerrepo.Repository
	PDF        pdf.Generator
	Logger     *zap.Logger
	Config     config.Config
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		orders:    p.Orders,
		providers: p.Providers,
		pdf:       p.PDF,
		logger:    p.Logger,
		business:  p.Config.Business,
	}
}

// IssueFromOrder copies the items and amounts of a confirmed order into a
// new invoice with the provider's next folio. An order is invoiced once.
func (s *Service) IssueFromOrder(ctx context.Context, providerID, orderID int64) (*entity.Invoice, error) {
	ctx, span := serviceTracer.Start(ctx, "InvoiceService.IssueFromOrder", trace.WithAttributes(
		attribute.Int64("provider.id", providerID),
		attribute.Int64("order.id", orderID),
	))
	defer span.End()

	order, err := s.orders.Get(ctx, providerID, orderID)
	if err != nil {
		return nil, err
	}
	switch order.Status {
	case entity.OrderConfirmed, entity.OrderInProgress, entity.OrderCompleted:
	default:
		return nil, errorbank.Conflict(fmt.Sprintf("orders in status %s cannot be invoiced", order.Status))
	}

	existing, err := s.repo.ByOrder(ctx, orderID)
	switch {
	case err == nil:
		return nil, errorbank.Conflict("order already invoiced", errorbank.WithDetail("folio", existing.Folio))
	case !errors.Is(err, repo.ErrNotFound):
		return nil, errorbank.Internal("failed to check invoice", errorbank.WithCause(err))
	}

	now := time.Now().UTC()
	inv := &entity.Invoice{
		ProviderID: providerID,
		OrderID:    orderID,
		Status:     entity.InvoiceIssued,
		Client:     order.Client,
		Items:      order.Items,
		TaxRate:    order.TaxRate,
		Subtotal:   order.Subtotal,
		Tax:        order.Tax,
		Total:      order.Total,
		IssuedAt:   now,
		UpdatedAt:  now,
	}
	if err := s.repo.CreateWithFolio(ctx, inv); err != nil {
		span.RecordError(err)
		return nil, errorbank.Internal("failed to issue invoice", errorbank.WithCause(err))
	}
	s.logger.Info("invoice issued",
		zap.Int64("provider_id", providerID),
		zap.Int64("folio", inv.Folio),
		zap.String("total", lineitem.FormatCLP(inv.Total)),
	)
	return inv, nil
}

// Get fetches an invoice of providerID.
func (s *Service) Get(ctx context.Context, providerID, id int64) (*entity.Invoice, error) {
	inv, err := s.repo.Get(ctx, providerID, id)
	if err != nil {
		return nil, translate(err, "failed to load invoice")
	}
	return inv, nil
}

// List returns invoices of a provider.
func (s *Service) List(ctx context.Context, providerID int64, status entity.InvoiceStatus, limit, offset int) ([]entity.Invoice, int, error) {
	if status != "" && !status.Valid() {
		return nil, 0, errorbank.BadRequest("unknown invoice status", errorbank.WithDetail("status", status))
	}
	limit, offset = s.business.Page(limit, offset)
	rows, total, err := s.repo.List(ctx, providerID, status, crud.Page{Limit: limit, Offset: offset})
	if err != nil {
		return nil, 0, errorbank.Internal("failed to list invoices", errorbank.WithCause(err))
	}
	return rows, total, nil
}

// SetStatus marks an issued invoice as paid or void.
func (s *Service) SetStatus(ctx context.Context, providerID, id int64, status entity.InvoiceStatus) (*entity.Invoice, error) {
	if status != entity.InvoicePaid && status != entity.InvoiceVoid {
		return nil, errorbank.BadRequest("invoices can only be marked paid or void")
	}
	inv, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	if inv.Status != entity.InvoiceIssued {
		return nil, errorbank.Conflict(fmt.Sprintf("invoice is already %s", inv.Status))
	}
	inv.Status = status
	inv.UpdatedAt = time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, inv); err != nil {
		return nil, translate(err, "failed to update invoice")
	}
	return inv, nil
}

// RenderPDF prints the invoice document.
func (s *Service) RenderPDF(ctx context.Context, providerID, id int64) ([]byte, string, error) {
	inv, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, "", err
	}
	provider, err := s.providers.GetByID(ctx, providerID)
	if err != nil {
		if errors.Is(err, providerrepo.ErrNotFound) {
			return nil, "", errorbank.NotFound("provider not found")
		}
		return nil, "", errorbank.Internal("failed to load provider", errorbank.WithCause(err))
	}
	doc := quote.FromInvoice(*inv, *provider)
	out, err := s.pdf.Generate(doc)
	if err != nil {
		return nil, "", errorbank.Internal("failed to render invoice", errorbank.WithCause(err))
	}
	return out, doc.Filename(), nil
}

func translate(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("invoice not found")
	}
	return errorbank.Internal(msg, errorbank.WithCause(err))
}
