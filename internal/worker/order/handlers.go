// Package order registers worker handlers for quote and order activity.
package order

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/cache"
	"github.com/Additional-Code/funerarias/internal/messaging"
	"github.com/Additional-Code/funerarias/internal/service/dashboard"
	"github.com/Additional-Code/funerarias/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/funerarias/worker/order")

// Module registers order and quote handlers.
var Module = fx.Module("worker_order",
	fx.Provide(
		fx.Annotate(NewOrderCreatedHandler, fx.ResultTags(`group:"worker.handlers"`)),
		fx.Annotate(NewOrderStatusHandler, fx.ResultTags(`group:"worker.handlers"`)),
		fx.Annotate(NewQuoteSentHandler, fx.ResultTags(`group:"worker.handlers"`)),
		fx.Annotate(NewQuoteConvertedHandler, fx.ResultTags(`group:"worker.handlers"`)),
	),
)

// activity is the subset of order and quote events the handlers log.
type activity struct {
	ID      int64   `json:"id"`
	Number  string  `json:"number"`
	Status  string  `json:"status"`
	Total   float64 `json:"total"`
	OrderID int64   `json:"order_id,omitempty"`
}

// NewOrderCreatedHandler logs new orders and refreshes the provider's dashboard counters.
func NewOrderCreatedHandler(logger *zap.Logger, store cache.Store) worker.HandlerRegistration {
	return activityHandler(messaging.EventOrderCreated, "order created", logger, store)
}

// NewOrderStatusHandler logs order status changes and refreshes dashboard counters.
func NewOrderStatusHandler(logger *zap.Logger, store cache.Store) worker.HandlerRegistration {
	return activityHandler(messaging.EventOrderStatusChanged, "order status changed", logger, store)
}

// NewQuoteSentHandler logs quotes sent to clients and refreshes dashboard counters.
func NewQuoteSentHandler(logger *zap.Logger, store cache.Store) worker.HandlerRegistration {
	return activityHandler(messaging.EventQuoteSent, "quote sent", logger, store)
}

// NewQuoteConvertedHandler logs quote conversions and refreshes dashboard counters.
func NewQuoteConvertedHandler(logger *zap.Logger, store cache.Store) worker.HandlerRegistration {
	return activityHandler(messaging.EventQuoteConverted, "quote converted", logger, store)
}

// activityHandler drops undecodable messages after logging them so a bad
// payload never blocks the partition.
func activityHandler(event, what string, logger *zap.Logger, store cache.Store) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker."+event, trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
			attribute.String("messaging.event", event),
		))
		defer span.End()

		var data activity
		env, err := messaging.Decode(msg, &data)
		if err != nil {
			logger.Error("undecodable event dropped", zap.String("event", event), zap.Error(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return nil
		}

		dashboard.Invalidate(ctx, store, logger, env.ProviderID)
		logger.Info(what,
			zap.Int64("provider_id", env.ProviderID),
			zap.Int64("id", data.ID),
			zap.String("number", data.Number),
			zap.String("status", data.Status),
			zap.Float64("total", data.Total),
			zap.Time("occurred_at", env.OccurredAt),
		)
		return nil
	}

	return worker.HandlerRegistration{Event: event, Handler: handler}
}
