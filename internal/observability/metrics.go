package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const meterName = "github.com/Additional-Code/funerarias"

// Metrics holds the domain counters. A nil *Metrics records nothing.
type Metrics struct {
	quotesSaved         metric.Int64Counter
	ordersSaved         metric.Int64Counter
	providersRegistered metric.Int64Counter
	campaignsDispatched metric.Int64Counter
}

// NewMetrics registers the domain counters on the global meter provider.
// Instruments created before the provider is installed are forwarded once it is.
func NewMetrics() (*Metrics, error) {
	meter := otel.Meter(meterName)
	var (
		m   Metrics
		err error
	)
	if m.quotesSaved, err = meter.Int64Counter("funerarias.quotes.saved",
		metric.WithDescription("Quotes created or overwritten")); err != nil {
		return nil, err
	}
	if m.ordersSaved, err = meter.Int64Counter("funerarias.orders.saved",
		metric.WithDescription("Orders created or overwritten")); err != nil {
		return nil, err
	}
	if m.providersRegistered, err = meter.Int64Counter("funerarias.providers.registered",
		metric.WithDescription("Provider registrations by outcome")); err != nil {
		return nil, err
	}
	if m.campaignsDispatched, err = meter.Int64Counter("funerarias.campaigns.dispatched",
		metric.WithDescription("Marketing campaigns handed to the email function")); err != nil {
		return nil, err
	}
	return &m, nil
}

// QuoteSaved counts a quote write.
func (m *Metrics) QuoteSaved(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.quotesSaved.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// OrderSaved counts an order write.
func (m *Metrics) OrderSaved(ctx context.Context, op string) {
	if m == nil {
		return
	}
	m.ordersSaved.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
}

// ProviderRegistered counts a registration attempt by outcome.
func (m *Metrics) ProviderRegistered(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	m.providersRegistered.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome)))
}

// CampaignDispatched counts a campaign sent to n recipients.
func (m *Metrics) CampaignDispatched(ctx context.Context, recipients int) {
	if m == nil {
		return
	}
	m.campaignsDispatched.Add(ctx, 1, metric.WithAttributes(attribute.Int("recipients", recipients)))
}
