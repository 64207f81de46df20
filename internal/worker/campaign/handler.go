// Package campaign sends queued marketing campaigns through the email function.
package campaign

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/messaging"
	"github.com/Additional-Code/funerarias/internal/service/marketing"
	"github.com/Additional-Code/funerarias/internal/worker"
)

var workerTracer = otel.Tracer("github.com/Additional-Code/funerarias/worker/campaign")

// Dispatcher sends one campaign.
type Dispatcher interface {
	Dispatch(ctx context.Context, c marketing.Campaign) error
}

// Module registers the campaign handler.
var Module = fx.Module("worker_campaign",
	fx.Provide(
		fx.Annotate(
			NewHandler,
			fx.ResultTags(`group:"worker.handlers"`),
		),
	),
)

// NewHandler registers the campaign.requested handler. Failed deliveries are
// logged and acknowledged; campaigns are never resent automatically.
func NewHandler(logger *zap.Logger, svc *marketing.Service) worker.HandlerRegistration {
	return newRegistration(logger, svc)
}

func newRegistration(logger *zap.Logger, dispatcher Dispatcher) worker.HandlerRegistration {
	handler := func(ctx context.Context, msg messaging.Message) error {
		ctx, span := workerTracer.Start(ctx, "worker.campaign.dispatch", trace.WithAttributes(
			attribute.String("messaging.topic", msg.Topic),
		))
		defer span.End()

		var c marketing.Campaign
		if _, err := messaging.Decode(msg, &c); err != nil {
			logger.Error("undecodable campaign dropped", zap.Error(err))
			span.RecordError(err)
			span.SetStatus(codes.Error, "decode error")
			return nil
		}
		span.SetAttributes(attribute.String("campaign.id", c.ID), attribute.Int("campaign.recipients", len(c.Recipients)))

		if err := dispatcher.Dispatch(ctx, c); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "dispatch failed")
			logger.Error("campaign not delivered", zap.String("campaign_id", c.ID), zap.Error(err))
		}
		return nil
	}

	return worker.HandlerRegistration{Event: messaging.EventCampaignRequested, Handler: handler}
}
