package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Employee is a staff member of a provider.
type Employee struct {
	bun.BaseModel `bun:"table:employees"`

	ID         int64     `bun:",pk,autoincrement" json:"id"`
	ProviderID int64     `bun:"provider_id,notnull" json:"provider_id"`
	Name       string    `bun:"name,notnull" json:"name"`
	RUT        string    `bun:"rut" json:"rut"`
	Email      string    `bun:"email" json:"email"`
	Phone      string    `bun:"phone" json:"phone"`
	Role       string    `bun:"role" json:"role"`
	Active     bool      `bun:"active,notnull" json:"active"`
	CreatedAt  time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

// Lead is a contact request sent by a client from the public site.
type Lead struct {
	bun.BaseModel `bun:"table:leads"`

	ID         int64      `bun:",pk,autoincrement" json:"id"`
	ProviderID int64      `bun:"provider_id,nullzero" json:"provider_id,omitempty"`
	Name       string     `bun:"name,notnull" json:"name"`
	Email      string     `bun:"email" json:"email"`
	Phone      string     `bun:"phone" json:"phone"`
	RUT        string     `bun:"rut" json:"rut,omitempty"`
	Commune    string     `bun:"commune" json:"commune"`
	Message    string     `bun:"message" json:"message"`
	Source     string     `bun:"source" json:"source"`
	Status     LeadStatus `bun:"status,notnull" json:"status"`
	CreatedAt  time.Time  `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time  `bun:"updated_at,nullzero" json:"updated_at"`
}

// Case tracks a funeral service being handled by a provider.
type Case struct {
	bun.BaseModel `bun:"table:cases"`

	ID           int64      `bun:",pk,autoincrement" json:"id"`
	ProviderID   int64      `bun:"provider_id,notnull" json:"provider_id"`
	DeceasedName string     `bun:"deceased_name,notnull" json:"deceased_name"`
	DeceasedRUT  string     `bun:"deceased_rut" json:"deceased_rut"`
	Client       Client     `bun:"embed:client_" json:"client"`
	Status       CaseStatus `bun:"status,notnull" json:"status"`
	ServiceDate  time.Time  `bun:"service_date,nullzero" json:"service_date,omitempty"`
	QuoteID      int64      `bun:"quote_id,nullzero" json:"quote_id,omitempty"`
	OrderID      int64      `bun:"order_id,nullzero" json:"order_id,omitempty"`
	AssigneeID   int64      `bun:"assignee_id,nullzero" json:"assignee_id,omitempty"`
	Notes        string     `bun:"notes" json:"notes"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero" json:"updated_at"`
}

// Client identifies the person a quote, order or case is prepared for.
type Client struct {
	Name  string `bun:"name" json:"name"`
	Email string `bun:"email" json:"email"`
	Phone string `bun:"phone" json:"phone"`
	RUT   string `bun:"rut" json:"rut"`
}
