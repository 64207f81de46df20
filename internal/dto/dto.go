// Package dto holds the request payloads of the HTTP API and their
// conversion into service inputs.
package dto

import (
	"strings"
	"time"

	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

// dateLayouts are accepted for every date field, most specific first.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

// ParseDate reads an optional date. An empty value yields the zero time.
func ParseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, errorbank.BadRequest("invalid date", errorbank.WithDetail("field", field))
}

// Client is the customer block shared by quotes, orders and cases.
type Client struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	RUT   string `json:"rut"`
}

// ToEntity converts the payload.
func (c Client) ToEntity() entity.Client {
	return entity.Client{Name: c.Name, Email: c.Email, Phone: c.Phone, RUT: c.RUT}
}

// StatusRequest changes the status of a lead, order or invoice.
type StatusRequest struct {
	Status string `json:"status"`
}
