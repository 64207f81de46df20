package quote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	"github.com/Additional-Code/funerarias/internal/domain/quote"
	"github.com/Additional-Code/funerarias/internal/domain/quote/pdf"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/messaging"
	"github.com/Additional-Code/funerarias/internal/observability"
	providerrepo "github.com/Additional-Code/funerarias/internal/repository/provider"
	repo "github.com/Additional-Code/funerarias/internal/repository/quote"
	ordersvc "github.com/Additional-Code/funerarias/internal/service/order"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/funerarias/service/quote")

const defaultValidity = 30 * 24 * time.Hour

// Repository is the persistence the service needs.
type Repository interface {
	Create(ctx context.Context, q *entity.Quote) error
	Save(ctx context.Context, q *entity.Quote) error
	Get(ctx context.Context, providerID, id int64) (*entity.Quote, error)
	List(ctx context.Context, lq repo.ListQuery) ([]entity.Quote, int, error)
	Delete(ctx context.Context, providerID, id int64) error
}

// ProviderReader loads the issuing provider of a quote.
type ProviderReader interface {
	GetByID(ctx context.Context, id int64) (*entity.Provider, error)
}

// Orders creates the order a quote converts into.
type Orders interface {
	Create(ctx context.Context, providerID int64, in ordersvc.Input) (*entity.Order, error)
	Discard(ctx context.Context, id int64) error
}

// Input carries the editable fields of a quote. Items replace the stored
// list as a whole.
type Input struct {
	Client     entity.Client
	Items      []lineitem.Item
	TaxRate    *float64
	Notes      string
	ValidUntil time.Time
	CaseID     int64
}

// Service implements quote editing, status changes and conversion.
type Service struct {
	repo      Repository
	providers ProviderReader
	orders    Orders
	publisher messaging.Client
	pdf       pdf.Generator
	metrics   *observability.Metrics
	logger    *zap.Logger
	business  config.Business
	now       func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Providers  *providerrepo.Repository
	Orders     *ordersvc.Service
	Publisher  messaging.Client
	PDF        pdf.Generator
	Metrics    *observability.Metrics `optional:"true"`
	Logger     *zap.Logger
	Config     config.Config
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		providers: p.Providers,
		orders:    p.Orders,
		publisher: p.Publisher,
		pdf:       p.PDF,
		metrics:   p.Metrics,
		logger:    p.Logger,
		business:  p.Config.Business,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Totals previews the amounts of items without persisting anything.
func (s *Service) Totals(items []lineitem.Item, taxRate *float64) ([]lineitem.Item, lineitem.Totals, float64, error) {
	rate := s.business.DefaultTaxRate
	if taxRate != nil {
		rate = *taxRate
	}
	if rate < 0 || rate > 100 {
		return nil, lineitem.Totals{}, 0, errorbank.BadRequest(quote.ErrTaxRate.Error())
	}
	for _, it := range items {
		if it.Type != "" && !it.Type.Valid() {
			return nil, lineitem.Totals{}, 0, validationError(lineitem.ErrUnknownType)
		}
	}
	normalized := lineitem.Normalize(items)
	return normalized, lineitem.Compute(normalized, rate), rate, nil
}

// Create validates and persists a new draft quote.
func (s *Service) Create(ctx context.Context, providerID int64, in Input) (*entity.Quote, error) {
	ctx, span := serviceTracer.Start(ctx, "QuoteService.Create", trace.WithAttributes(
		attribute.Int64("provider.id", providerID),
		attribute.Int("quote.items", len(in.Items)),
	))
	defer span.End()

	q := &entity.Quote{
		ProviderID: providerID,
		Number:     quote.NewNumber("COT"),
		Status:     entity.QuoteDraft,
		CaseID:     in.CaseID,
	}
	if err := s.apply(q, in); err != nil {
		return nil, err
	}
	now := s.now()
	q.CreatedAt, q.UpdatedAt = now, now
	if q.ValidUntil.IsZero() {
		q.ValidUntil = now.Add(defaultValidity)
	}

	if err := s.repo.Create(ctx, q); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to save quote", errorbank.WithCause(err))
	}
	s.metrics.QuoteSaved(ctx, "create")
	s.logger.Info("quote created",
		zap.Int64("id", q.ID),
		zap.String("number", q.Number),
		zap.Float64("total", q.Total),
	)
	return q, nil
}

// Update overwrites the whole quote with in.
func (s *Service) Update(ctx context.Context, providerID, id int64, in Input) (*entity.Quote, error) {
	ctx, span := serviceTracer.Start(ctx, "QuoteService.Update", trace.WithAttributes(attribute.Int64("quote.id", id)))
	defer span.End()

	q, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	if !q.Status.Editable() {
		return nil, errorbank.Conflict(fmt.Sprintf("quote in status %s can no longer be edited", q.Status))
	}
	if err := s.apply(q, in); err != nil {
		return nil, err
	}
	if in.CaseID != 0 {
		q.CaseID = in.CaseID
	}
	return q, s.save(ctx, q, "update")
}

// Get fetches a quote of providerID.
func (s *Service) Get(ctx context.Context, providerID, id int64) (*entity.Quote, error) {
	q, err := s.repo.Get(ctx, providerID, id)
	if err != nil {
		return nil, translate(err, "failed to load quote")
	}
	return q, nil
}

// List returns the quotes of a provider.
func (s *Service) List(ctx context.Context, lq repo.ListQuery) ([]entity.Quote, int, error) {
	ctx, span := serviceTracer.Start(ctx, "QuoteService.List", trace.WithAttributes(attribute.Int64("provider.id", lq.ProviderID)))
	defer span.End()

	if lq.Status != "" && !lq.Status.Valid() {
		return nil, 0, errorbank.BadRequest("unknown quote status", errorbank.WithDetail("status", lq.Status))
	}
	lq.Limit, lq.Offset = s.business.Page(lq.Limit, lq.Offset)
	rows, total, err := s.repo.List(ctx, lq)
	if err != nil {
		span.RecordError(err)
		return nil, 0, errorbank.Internal("failed to list quotes", errorbank.WithCause(err))
	}
	return rows, total, nil
}

// Delete removes a quote that has not been converted.
func (s *Service) Delete(ctx context.Context, providerID, id int64) error {
	q, err := s.Get(ctx, providerID, id)
	if err != nil {
		return err
	}
	if q.Status == entity.QuoteConverted {
		return errorbank.Conflict("converted quotes cannot be deleted")
	}
	if err := s.repo.Delete(ctx, providerID, id); err != nil {
		return translate(err, "failed to delete quote")
	}
	return nil
}

// Reorder moves the item at from to index to. Totals do not depend on order
// and are recomputed unchanged.
func (s *Service) Reorder(ctx context.Context, providerID, id int64, from, to int) (*entity.Quote, error) {
	ctx, span := serviceTracer.Start(ctx, "QuoteService.Reorder", trace.WithAttributes(
		attribute.Int64("quote.id", id),
		attribute.Int("from", from),
		attribute.Int("to", to),
	))
	defer span.End()

	q, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	if !q.Status.Editable() {
		return nil, errorbank.Conflict(fmt.Sprintf("quote in status %s can no longer be edited", q.Status))
	}
	moved, err := lineitem.Move(q.Items, from, to)
	if err != nil {
		return nil, errorbank.BadRequest(err.Error(), errorbank.WithDetail("from", from), errorbank.WithDetail("to", to))
	}
	q.Items = moved
	q.ApplyTotals(lineitem.Compute(q.Items, q.TaxRate))
	return q, s.save(ctx, q, "reorder")
}

// RenderPDF prints the quote document.
func (s *Service) RenderPDF(ctx context.Context, providerID, id int64) ([]byte, string, error) {
	ctx, span := serviceTracer.Start(ctx, "QuoteService.RenderPDF", trace.WithAttributes(attribute.Int64("quote.id", id)))
	defer span.End()

	q, err := s.Get(ctx, providerID, id)
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
	doc := quote.FromQuote(*q, *provider)
	out, err := s.pdf.Generate(doc)
	if err != nil {
		span.RecordError(err)
		return nil, "", errorbank.Internal("failed to render quote", errorbank.WithCause(err))
	}
	return out, doc.Filename(), nil
}

// Send marks the quote as sent to the client and publishes quote.sent.
func (s *Service) Send(ctx context.Context, providerID, id int64) (*entity.Quote, error) {
	q, err := s.transition(ctx, providerID, id, entity.QuoteSent)
	if err != nil {
		return nil, err
	}
	s.publish(ctx, messaging.EventQuoteSent, q)
	return q, nil
}

// Accept records the client's acceptance.
func (s *Service) Accept(ctx context.Context, providerID, id int64) (*entity.Quote, error) {
	return s.transition(ctx, providerID, id, entity.QuoteAccepted)
}

// Reject records the client's rejection.
func (s *Service) Reject(ctx context.Context, providerID, id int64) (*entity.Quote, error) {
	return s.transition(ctx, providerID, id, entity.QuoteRejected)
}

// ConvertToOrder creates an order from an accepted quote and links both.
// When the quote cannot be marked as converted the new order is discarded.
func (s *Service) ConvertToOrder(ctx context.Context, providerID, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "QuoteService.ConvertToOrder", trace.WithAttributes(attribute.Int64("quote.id", id)))
	defer span.End()

	q, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	if !q.Status.CanTransition(entity.QuoteConverted) {
		return nil, errorbank.Conflict(fmt.Sprintf("quote in status %s cannot be converted", q.Status))
	}

	rate := q.TaxRate
	order, err := s.orders.Create(ctx, providerID, ordersvc.Input{
		Client:  q.Client,
		Items:   q.Items,
		TaxRate: &rate,
		Notes:   q.Notes,
		QuoteID: q.ID,
		Status:  entity.OrderConfirmed,
	})
	if err != nil {
		return nil, err
	}

	q.Status = entity.QuoteConverted
	q.OrderID = order.ID
	if err := s.save(ctx, q, "convert"); err != nil {
		span.RecordError(err)
		if derr := s.orders.Discard(ctx, order.ID); derr != nil {
			s.logger.Error("discard order after failed conversion",
				zap.Int64("order_id", order.ID),
				zap.Int64("quote_id", q.ID),
				zap.Error(derr),
			)
		}
		return nil, err
	}
	s.publish(ctx, messaging.EventQuoteConverted, q)
	return order, nil
}

func (s *Service) transition(ctx context.Context, providerID, id int64, next entity.QuoteStatus) (*entity.Quote, error) {
	ctx, span := serviceTracer.Start(ctx, "QuoteService.Transition", trace.WithAttributes(
		attribute.Int64("quote.id", id),
		attribute.String("quote.status", string(next)),
	))
	defer span.End()

	q, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	if !q.Status.CanTransition(next) {
		return nil, errorbank.Conflict(fmt.Sprintf("quote cannot move from %s to %s", q.Status, next),
			errorbank.WithDetail("from", q.Status), errorbank.WithDetail("to", next))
	}
	q.Status = next
	if err := s.save(ctx, q, "status"); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *Service) apply(q *entity.Quote, in Input) error {
	rate := s.business.DefaultTaxRate
	if in.TaxRate != nil {
		rate = *in.TaxRate
	} else if q.ID != 0 {
		rate = q.TaxRate
	}
	client := quote.NormalizeClient(in.Client)
	if err := quote.Validate(client, in.Items, rate); err != nil {
		return validationError(err)
	}
	q.Client = client
	q.Items = lineitem.Normalize(in.Items)
	q.TaxRate = rate
	q.Notes = in.Notes
	if !in.ValidUntil.IsZero() {
		q.ValidUntil = in.ValidUntil
	}
	q.ApplyTotals(lineitem.Compute(q.Items, rate))
	return nil
}

func (s *Service) save(ctx context.Context, q *entity.Quote, op string) error {
	q.UpdatedAt = s.now()
	if err := s.repo.Save(ctx, q); err != nil {
		return translate(err, "failed to save quote")
	}
	s.metrics.QuoteSaved(ctx, op)
	return nil
}

func (s *Service) publish(ctx context.Context, event string, q *entity.Quote) {
	if s.publisher == nil || !s.publisher.Enabled() {
		return
	}
	payload := Event{
		ID:         q.ID,
		ProviderID: q.ProviderID,
		Number:     q.Number,
		Status:     q.Status,
		Total:      q.Total,
		OrderID:    q.OrderID,
	}
	if err := messaging.PublishJSON(ctx, s.publisher, event, fmt.Sprintf("quote-%d", q.ID), q.ProviderID, payload); err != nil {
		s.logger.Error("publish quote event", zap.String("event", event), zap.Error(err))
	}
}

// Event is the payload of quote events.
type Event struct {
	ID         int64              `json:"id"`
	ProviderID int64              `json:"provider_id"`
	Number     string             `json:"number"`
	Status     entity.QuoteStatus `json:"status"`
	Total      float64            `json:"total"`
	OrderID    int64              `json:"order_id,omitempty"`
}

func translate(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("quote not found")
	}
	return errorbank.Internal(msg, errorbank.WithCause(err))
}

func validationError(err error) error {
	if errors.Is(err, lineitem.ErrEmpty) {
		return errorbank.Unprocessable("at least one line item is required", errorbank.WithCause(err))
	}
	return errorbank.BadRequest(err.Error(), errorbank.WithCause(err))
}
