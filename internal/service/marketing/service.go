// Package marketing validates superadmin email campaigns and hands them to
// the marketing email function.
package marketing

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/functions"
	"github.com/Additional-Code/funerarias/internal/messaging"
	"github.com/Additional-Code/funerarias/internal/observability"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

var serviceTracer = otel.Tracer("github.com/Additional-Code/funerarias/service/marketing")

// Invoker calls a named serverless function.
type Invoker interface {
	Invoke(ctx context.Context, name string, payload, out any) error
}

// Campaign is a validated outbound email.
type Campaign struct {
	ID          string    `json:"id"`
	Recipients  []string  `json:"to"`
	Subject     string    `json:"subject"`
	HTML        string    `json:"html"`
	RequestedAt time.Time `json:"requested_at"`
}

// Result reports how a campaign was handed off.
type Result struct {
	Campaign   Campaign `json:"campaign"`
	Recipients int      `json:"recipients"`
	Queued     bool     `json:"queued"`
}

// Service implements campaign dispatch.
type Service struct {
	functions   Invoker
	publisher   messaging.Client
	metrics     *observability.Metrics
	logger      *zap.Logger
	function    string
	maxAudience int
	now         func() time.Time
}

// Params defines dependencies for constructing Service.
type Params struct {
	fx.In

	Functions *functions.Client
	Publisher messaging.Client
	Metrics   *observability.Metrics `optional:"true"`
	Config    config.Config
	Logger    *zap.Logger
}

// NewService wires a new Service instance.
func NewService(p Params) *Service {
	return &Service{
		functions:   p.Functions,
		publisher:   p.Publisher,
		metrics:     p.Metrics,
		logger:      p.Logger,
		function:    p.Config.Functions.MarketingEmailName,
		maxAudience: p.Config.Functions.MaxCampaignAudience,
		now:         time.Now,
	}
}

// Request validates a campaign and queues it on the event bus. When messaging
// is disabled the email function is called directly.
func (s *Service) Request(ctx context.Context, recipients []string, subject, html string) (*Result, error) {
	ctx, span := serviceTracer.Start(ctx, "MarketingService.Request")
	defer span.End()

	c, err := s.validate(recipients, subject, html)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.String("campaign.id", c.ID), attribute.Int("campaign.recipients", len(c.Recipients)))

	if s.publisher != nil && s.publisher.Enabled() {
		if err := messaging.PublishJSON(ctx, s.publisher, messaging.EventCampaignRequested, c.ID, 0, c); err != nil {
			span.RecordError(err)
			return nil, errorbank.Internal("failed to queue campaign", errorbank.WithCause(err))
		}
		s.logger.Info("campaign queued", zap.String("campaign_id", c.ID), zap.Int("recipients", len(c.Recipients)))
		return &Result{Campaign: c, Recipients: len(c.Recipients), Queued: true}, nil
	}

	if err := s.Dispatch(ctx, c); err != nil {
		span.RecordError(err)
		return nil, err
	}
	return &Result{Campaign: c, Recipients: len(c.Recipients)}, nil
}

// Dispatch calls the marketing email function once. It does not retry.
func (s *Service) Dispatch(ctx context.Context, c Campaign) error {
	ctx, span := serviceTracer.Start(ctx, "MarketingService.Dispatch", trace.WithAttributes(attribute.String("campaign.id", c.ID)))
	defer span.End()

	payload := map[string]any{"to": c.Recipients, "subject": c.Subject, "html": c.HTML}
	if err := s.functions.Invoke(ctx, s.function, payload, nil); err != nil {
		span.RecordError(err)
		s.logger.Error("campaign dispatch failed", zap.String("campaign_id", c.ID), zap.Error(err))
		if errors.Is(err, functions.ErrNotConfigured) {
			return errorbank.Internal("email function is not configured", errorbank.WithCause(err))
		}
		return errorbank.Internal("email function call failed", errorbank.WithCause(err))
	}
	s.metrics.CampaignDispatched(ctx, len(c.Recipients))
	s.logger.Info("campaign dispatched", zap.String("campaign_id", c.ID), zap.Int("recipients", len(c.Recipients)))
	return nil
}

func (s *Service) validate(recipients []string, subject, html string) (Campaign, error) {
	subject = strings.TrimSpace(subject)
	if subject == "" {
		return Campaign{}, errorbank.BadRequest("subject is required")
	}
	if strings.TrimSpace(html) == "" {
		return Campaign{}, errorbank.BadRequest("email body is required")
	}

	clean := make([]string, 0, len(recipients))
	seen := make(map[string]bool, len(recipients))
	var invalid []string
	for _, r := range recipients {
		addr := strings.ToLower(strings.TrimSpace(r))
		if addr == "" || seen[addr] {
			continue
		}
		parsed, err := mail.ParseAddress(addr)
		if err != nil || parsed.Address != addr {
			invalid = append(invalid, r)
			continue
		}
		seen[addr] = true
		clean = append(clean, addr)
	}
	if len(invalid) > 0 {
		return Campaign{}, errorbank.BadRequest("some recipients are not valid email addresses", errorbank.WithDetail("invalid", invalid))
	}
	if len(clean) == 0 {
		return Campaign{}, errorbank.BadRequest("at least one recipient is required")
	}
	if s.maxAudience > 0 && len(clean) > s.maxAudience {
		return Campaign{}, errorbank.BadRequest("too many recipients", errorbank.WithDetail("max", s.maxAudience))
	}
	return Campaign{
		ID:          uuid.NewString(),
		Recipients:  clean,
		Subject:     subject,
		HTML:        html,
		RequestedAt: s.now().UTC(),
	}, nil
}
