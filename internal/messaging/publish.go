package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Event types published on the events topic.
const (
	EventOrderCreated       = "order.created"
	EventOrderStatusChanged = "order.status_changed"
	EventQuoteSent          = "quote.sent"
	EventQuoteConverted     = "quote.converted"
	EventProviderRegistered = "provider.registered"
	EventCampaignRequested  = "campaign.requested"
)

// Envelope is the JSON body shared by all domain events.
type Envelope struct {
	Event      string          `json:"event"`
	ProviderID int64           `json:"provider_id,omitempty"`
	OccurredAt time.Time       `json:"occurred_at"`
	Data       json.RawMessage `json:"data"`
}

// PublishJSON wraps data in an Envelope and publishes it keyed by key.
func PublishJSON(ctx context.Context, client Client, event, key string, providerID int64, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("encode %s: %w", event, err)
	}
	body, err := json.Marshal(Envelope{
		Event:      event,
		ProviderID: providerID,
		OccurredAt: time.Now().UTC(),
		Data:       raw,
	})
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return client.Publish(ctx, event, []byte(key), body)
}

// Decode unmarshals the envelope of msg and its data into out.
func Decode(msg Message, out any) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(msg.Value, &env); err != nil {
		return Envelope{}, fmt.Errorf("decode envelope: %w", err)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return env, fmt.Errorf("decode %s: %w", env.Event, err)
		}
	}
	return env, nil
}
