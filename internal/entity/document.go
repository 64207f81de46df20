package entity

import (
	"time"

	"github.com/uptrace/bun"

	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
)

// Quote is a priced proposal sent to a client. Items are stored as one JSON
// document next to the redundant subtotal, tax and total columns.
type Quote struct {
	bun.BaseModel `bun:"table:quotes"`

	ID         int64           `bun:",pk,autoincrement" json:"id"`
	ProviderID int64           `bun:"provider_id,notnull" json:"provider_id"`
	Number     string          `bun:"number,notnull" json:"number"`
	Status     QuoteStatus     `bun:"status,notnull" json:"status"`
	Client     Client          `bun:"embed:client_" json:"client"`
	Items      []lineitem.Item `bun:"items,type:json" json:"items"`
	TaxRate    float64         `bun:"tax_rate,notnull" json:"tax_rate"`
	Subtotal   float64         `bun:"subtotal,notnull" json:"subtotal"`
	Tax        float64         `bun:"tax,notnull" json:"tax"`
	Total      float64         `bun:"total,notnull" json:"total"`
	Notes      string          `bun:"notes" json:"notes"`
	ValidUntil time.Time       `bun:"valid_until,nullzero" json:"valid_until,omitempty"`
	CaseID     int64           `bun:"case_id,nullzero" json:"case_id,omitempty"`
	OrderID    int64           `bun:"order_id,nullzero" json:"order_id,omitempty"`
	CreatedAt  time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time       `bun:"updated_at,nullzero" json:"updated_at"`
}

// ApplyTotals writes computed totals onto the quote.
func (q *Quote) ApplyTotals(t lineitem.Totals) {
	q.Subtotal, q.Tax, q.Total = t.Subtotal, t.Tax, t.Total
}

// Order is a confirmed purchase of products and services.
type Order struct {
	bun.BaseModel `bun:"table:orders"`

	ID         int64           `bun:",pk,autoincrement" json:"id"`
	ProviderID int64           `bun:"provider_id,notnull" json:"provider_id"`
	Number     string          `bun:"number,notnull" json:"number"`
	Status     OrderStatus     `bun:"status,notnull" json:"status"`
	Client     Client          `bun:"embed:client_" json:"client"`
	Items      []lineitem.Item `bun:"items,type:json" json:"items"`
	TaxRate    float64         `bun:"tax_rate,notnull" json:"tax_rate"`
	Subtotal   float64         `bun:"subtotal,notnull" json:"subtotal"`
	Tax        float64         `bun:"tax,notnull" json:"tax"`
	Total      float64         `bun:"total,notnull" json:"total"`
	Notes      string          `bun:"notes" json:"notes"`
	QuoteID    int64           `bun:"quote_id,nullzero" json:"quote_id,omitempty"`
	CreatedAt  time.Time       `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time       `bun:"updated_at,nullzero" json:"updated_at"`
}

// ApplyTotals writes computed totals onto the order.
func (o *Order) ApplyTotals(t lineitem.Totals) {
	o.Subtotal, o.Tax, o.Total = t.Subtotal, t.Tax, t.Total
}

// Invoice is issued from a confirmed order and copies its amounts.
type Invoice struct {
	bun.BaseModel `bun:"table:invoices"`

	ID         int64           `bun:",pk,autoincrement" json:"id"`
	ProviderID int64           `bun:"provider_id,notnull" json:"provider_id"`
	OrderID    int64           `bun:"order_id,notnull" json:"order_id"`
	Folio      int64           `bun:"folio,notnull" json:"folio"`
	Status     InvoiceStatus   `bun:"status,notnull" json:"status"`
	Client     Client          `bun:"embed:client_" json:"client"`
	Items      []lineitem.Item `bun:"items,type:json" json:"items"`
	TaxRate    float64         `bun:"tax_rate,notnull" json:"tax_rate"`
	Subtotal   float64         `bun:"subtotal,notnull" json:"subtotal"`
	Tax        float64         `bun:"tax,notnull" json:"tax"`
	Total      float64         `bun:"total,notnull" json:"total"`
	IssuedAt   time.Time       `bun:"issued_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"issued_at"`
	UpdatedAt  time.Time       `bun:"updated_at,nullzero" json:"updated_at"`
}
