package order

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

	"github.com/Additional-Code/funerarias/internal/cache"
	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	"github.com/Additional-Code/funerarias/internal/domain/quote"
	"github.com/Additional-Code/funerarias/internal/domain/quote/pdf"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/messaging"
	"github.com/Additional-Code/funerarias/internal/observability"
	providerrepo "github.com/Additional-Code/funerarias/internal/repository/provider"
	repo "github.com/Additional-Code/funerarias/internal/repository/order"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/funerarias/service/order")

// Repository is the persistence the service needs.
type Repository interface {
	Create(ctx context.Context, order *entity.Order) error
	Save(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id int64) (*entity.Order, error)
	List(ctx context.Context, lq repo.ListQuery) ([]entity.Order, int, error)
	UpdateStatus(ctx context.Context, id int64, status entity.OrderStatus) error
	Delete(ctx context.Context, id int64) error
}

// ProviderReader loads the issuing provider of a document.
type ProviderReader interface {
	GetByID(ctx context.Context, id int64) (*entity.Provider, error)
}

// Input carries the editable fields of an order.
type Input struct {
	Client  entity.Client
	Items   []lineitem.Item
	TaxRate *float64
	Notes   string
	QuoteID int64
	Status  entity.OrderStatus
}

// Service encapsulates business logic around orders.
type Service struct {
	repo      Repository
	providers ProviderReader
	cache     cache.Store
	cacheTTL  time.Duration
	logger    *zap.Logger
	publisher messaging.Client
	pdf       pdf.Generator
	metrics   *observability.Metrics
	business  config.Business
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Repository *repo.Repository
	Providers  *providerrepo.Repository
	Cache      cache.Store
	Config     config.Config
	Logger     *zap.Logger
	Publisher  messaging.Client
	PDF        pdf.Generator
	Metrics    *observability.Metrics `optional:"true"`
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		repo:      p.Repository,
		providers: p.Providers,
		cache:     p.Cache,
		cacheTTL:  p.Config.Cache.DefaultTTL,
		logger:    p.Logger,
		publisher: p.Publisher,
		pdf:       p.PDF,
		metrics:   p.Metrics,
		business:  p.Config.Business,
	}
}

// Get retrieves an order of providerID, consulting cache when available.
func (s *Service) Get(ctx context.Context, providerID, id int64) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Get", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	var order entity.Order
	hit, err := cache.GetJSON(ctx, s.cache, s.cacheKey(id), &order)
	if err != nil {
		s.logger.Warn("orders cache read failed", zap.Int64("id", id), zap.Error(err))
	}
	if !hit {
		loaded, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repo.ErrNotFound) {
				return nil, errorbank.NotFound("order not found")
			}
			span.RecordError(err)
			span.SetStatus(codes.Error, "repository error")
			return nil, errorbank.Internal("failed to load order", errorbank.WithCause(err))
		}
		order = *loaded
		s.storeInCache(ctx, &order)
	}

	if order.ProviderID != providerID {
		return nil, errorbank.NotFound("order not found")
	}
	return &order, nil
}

// List returns the orders of a provider.
func (s *Service) List(ctx context.Context, lq repo.ListQuery) ([]entity.Order, int, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.List", trace.WithAttributes(attribute.Int64("provider.id", lq.ProviderID)))
	defer span.End()

	if lq.Status != "" && !lq.Status.Valid() {
		return nil, 0, errorbank.BadRequest("unknown order status", errorbank.WithDetail("status", lq.Status))
	}
	lq.Limit, lq.Offset = s.business.Page(lq.Limit, lq.Offset)
	rows, total, err := s.repo.List(ctx, lq)
	if err != nil {
		span.RecordError(err)
		return nil, 0, errorbank.Internal("failed to list orders", errorbank.WithCause(err))
	}
	return rows, total, nil
}

// Create validates and persists a new order, then publishes order.created.
func (s *Service) Create(ctx context.Context, providerID int64, in Input) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Create", trace.WithAttributes(attribute.Int64("provider.id", providerID)))
	defer span.End()

	status := in.Status
	if status == "" {
		status = entity.OrderDraft
	}
	if status != entity.OrderDraft && status != entity.OrderConfirmed {
		return nil, errorbank.BadRequest("new orders start as draft or confirmed")
	}

	order := &entity.Order{
		ProviderID: providerID,
		Number:     quote.NewNumber("ORD"),
		Status:     status,
		QuoteID:    in.QuoteID,
	}
	if err := s.apply(order, in); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now

	if err := s.repo.Create(ctx, order); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "repository error")
		return nil, errorbank.Internal("failed to create order", errorbank.WithCause(err))
	}
	s.metrics.OrderSaved(ctx, "create")
	s.storeInCache(ctx, order)
	s.publish(ctx, messaging.EventOrderCreated, order)
	s.logger.Info("order created",
		zap.Int64("id", order.ID),
		zap.String("number", order.Number),
		zap.Int("items", len(order.Items)),
		zap.Float64("total", order.Total),
	)
	return order, nil
}

// Update overwrites items, client, tax rate and notes of an editable order.
func (s *Service) Update(ctx context.Context, providerID, id int64, in Input) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Update", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.Editable() {
		return nil, errorbank.Conflict(fmt.Sprintf("order in status %s can no longer be edited", order.Status))
	}
	if err := s.apply(order, in); err != nil {
		return nil, err
	}
	order.UpdatedAt = time.Now().UTC()

	if err := s.repo.Save(ctx, order); err != nil {
		span.RecordError(err)
		return nil, s.translate(err, "failed to save order")
	}
	s.metrics.OrderSaved(ctx, "update")
	s.invalidate(ctx, id)
	return order, nil
}

// UpdateStatus moves an order along its lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, providerID, id int64, next entity.OrderStatus) (*entity.Order, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.UpdateStatus", trace.WithAttributes(
		attribute.Int64("order.id", id),
		attribute.String("order.status", string(next)),
	))
	defer span.End()

	if !next.Valid() {
		return nil, errorbank.BadRequest("unknown order status", errorbank.WithDetail("status", next))
	}
	order, err := s.Get(ctx, providerID, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransition(next) {
		return nil, errorbank.Conflict(fmt.Sprintf("order cannot move from %s to %s", order.Status, next),
			errorbank.WithDetail("from", order.Status), errorbank.WithDetail("to", next))
	}
	if err := s.repo.UpdateStatus(ctx, id, next); err != nil {
		span.RecordError(err)
		return nil, s.translate(err, "failed to update order status")
	}
	previous := order.Status
	order.Status = next
	order.UpdatedAt = time.Now().UTC()
	s.invalidate(ctx, id)
	s.publish(ctx, messaging.EventOrderStatusChanged, order)
	s.logger.Info("order status changed",
		zap.Int64("id", id),
		zap.String("from", string(previous)),
		zap.String("to", string(next)),
	)
	return order, nil
}

// Delete removes a draft or cancelled order.
func (s *Service) Delete(ctx context.Context, providerID, id int64) error {
	ctx, span := serviceTracer.Start(ctx, "OrderService.Delete", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.Get(ctx, providerID, id)
	if err != nil {
		return err
	}
	if order.Status != entity.OrderDraft && order.Status != entity.OrderCancelled {
		return errorbank.Conflict("only draft or cancelled orders can be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		span.RecordError(err)
		return s.translate(err, "failed to delete order")
	}
	s.invalidate(ctx, id)
	return nil
}

// Discard removes an order regardless of status. It undoes a conversion
// whose follow-up write failed.
func (s *Service) Discard(ctx context.Context, id int64) error {
	s.invalidate(ctx, id)
	return s.repo.Delete(ctx, id)
}

// RenderPDF prints the order document.
func (s *Service) RenderPDF(ctx context.Context, providerID, id int64) ([]byte, string, error) {
	ctx, span := serviceTracer.Start(ctx, "OrderService.RenderPDF", trace.WithAttributes(attribute.Int64("order.id", id)))
	defer span.End()

	order, err := s.Get(ctx, providerID, id)
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
	doc := quote.FromOrder(*order, *provider)
	out, err := s.pdf.Generate(doc)
	if err != nil {
		span.RecordError(err)
		return nil, "", errorbank.Internal("failed to render order", errorbank.WithCause(err))
	}
	return out, doc.Filename(), nil
}

func (s *Service) apply(order *entity.Order, in Input) error {
	taxRate := s.business.DefaultTaxRate
	if in.TaxRate != nil {
		taxRate = *in.TaxRate
	} else if order.ID != 0 {
		taxRate = order.TaxRate
	}
	client := quote.NormalizeClient(in.Client)
	if err := quote.Validate(client, in.Items, taxRate); err != nil {
		return validationError(err)
	}
	order.Client = client
	order.Items = lineitem.Normalize(in.Items)
	order.TaxRate = taxRate
	order.Notes = in.Notes
	order.ApplyTotals(lineitem.Compute(order.Items, taxRate))
	return nil
}

func (s *Service) translate(err error, msg string) error {
	if errors.Is(err, repo.ErrNotFound) {
		return errorbank.NotFound("order not found")
	}
	return errorbank.Internal(msg, errorbank.WithCause(err))
}

func (s *Service) publish(ctx context.Context, event string, order *entity.Order) {
	if s.publisher == nil || !s.publisher.Enabled() {
		return
	}
	payload := Event{
		ID:         order.ID,
		ProviderID: order.ProviderID,
		Number:     order.Number,
		Status:     order.Status,
		Total:      order.Total,
		CreatedAt:  order.CreatedAt,
	}
	if err := messaging.PublishJSON(ctx, s.publisher, event, fmt.Sprintf("order-%d", order.ID), order.ProviderID, payload); err != nil {
		s.logger.Error("publish order event", zap.String("event", event), zap.Error(err))
	}
}

func (s *Service) cacheKey(id int64) string {
	return cache.Key("orders", fmt.Sprint(id))
}

func (s *Service) storeInCache(ctx context.Context, order *entity.Order) {
	if err := cache.SetJSON(ctx, s.cache, s.cacheKey(order.ID), order, s.cacheTTL); err != nil {
		s.logger.Warn("orders cache write failed", zap.Int64("id", order.ID), zap.Error(err))
	}
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	if err := s.cache.Delete(ctx, s.cacheKey(id)); err != nil {
		s.logger.Warn("orders cache delete failed", zap.Int64("id", id), zap.Error(err))
	}
}

// Event is the payload of order.created and order.status_changed.
type Event struct {
	ID         int64              `json:"id"`
	ProviderID int64              `json:"provider_id"`
	Number     string             `json:"number"`
	Status     entity.OrderStatus `json:"status"`
	Total      float64            `json:"total"`
	CreatedAt  time.Time          `json:"created_at"`
}

func validationError(err error) error {
	if errors.Is(err, lineitem.ErrEmpty) {
		return errorbank.Unprocessable("at least one line item is required", errorbank.WithCause(err))
	}
	return errorbank.BadRequest(err.Error(), errorbank.WithCause(err))
}
