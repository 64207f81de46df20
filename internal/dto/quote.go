package dto

import (
	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	ordersvc "github.com/Additional-Code/funerarias/internal/service/order"
	quotesvc "github.com/Additional-Code/funerarias/internal/service/quote"
)

// QuoteRequest creates or replaces a quote.
type QuoteRequest struct {
	Client     Client          `json:"client"`
	Items      []lineitem.Item `json:"items"`
	TaxRate    *float64        `json:"tax_rate"`
	Notes      string          `json:"notes"`
	ValidUntil string          `json:"valid_until"`
	CaseID     int64           `json:"case_id"`
}

// ToInput converts the payload.
func (r QuoteRequest) ToInput() (quotesvc.Input, error) {
	validUntil, err := ParseDate("valid_until", r.ValidUntil)
	if err != nil {
		return quotesvc.Input{}, err
	}
	return quotesvc.Input{
		Client:     r.Client.ToEntity(),
		Items:      r.Items,
		TaxRate:    r.TaxRate,
		Notes:      r.Notes,
		ValidUntil: validUntil,
		CaseID:     r.CaseID,
	}, nil
}

// OrderRequest creates or replaces an order.
type OrderRequest struct {
	Client  Client          `json:"client"`
	Items   []lineitem.Item `json:"items"`
	TaxRate *float64        `json:"tax_rate"`
	Notes   string          `json:"notes"`
}

// ToInput converts the payload.
func (r OrderRequest) ToInput() ordersvc.Input {
	return ordersvc.Input{
		Client:  r.Client.ToEntity(),
		Items:   r.Items,
		TaxRate: r.TaxRate,
		Notes:   r.Notes,
	}
}

// ReorderRequest moves one line item.
type ReorderRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// PreviewRequest asks for totals without saving anything.
type PreviewRequest struct {
	Items   []lineitem.Item `json:"items"`
	TaxRate *float64        `json:"tax_rate"`
}

// Preview is the computed breakdown of a PreviewRequest.
type Preview struct {
	Items     []lineitem.Item `json:"items"`
	TaxRate   float64         `json:"tax_rate"`
	Totals    lineitem.Totals `json:"totals"`
	Formatted Formatted       `json:"formatted"`
}

// Formatted carries display strings in CLP.
type Formatted struct {
	Subtotal string `json:"subtotal"`
	Tax      string `json:"tax"`
	Total    string `json:"total"`
	TaxRate  string `json:"tax_rate"`
}

// NewPreview assembles the preview response.
func NewPreview(items []lineitem.Item, totals lineitem.Totals, rate float64) Preview {
	if items == nil {
		items = []lineitem.Item{}
	}
	return Preview{
		Items:   items,
		TaxRate: rate,
		Totals:  totals,
		Formatted: Formatted{
			Subtotal: lineitem.FormatCLP(totals.Subtotal),
			Tax:      lineitem.FormatCLP(totals.Tax),
			Total:    lineitem.FormatCLP(totals.Total),
			TaxRate:  lineitem.FormatPercent(rate),
		},
	}
}
