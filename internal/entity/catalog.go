package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Product is a physical catalog item (coffin, urn, flowers).
type Product struct {
	bun.BaseModel `bun:"table:products"`

	ID          int64     `bun:",pk,autoincrement" json:"id"`
	ProviderID  int64     `bun:"provider_id,notnull" json:"provider_id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description"`
	Category    Category  `bun:"category,notnull" json:"category"`
	Price       float64   `bun:"price,notnull" json:"price"`
	Stock       int       `bun:"stock" json:"stock"`
	ImageURL    string    `bun:"image_url" json:"image_url"`
	Active      bool      `bun:"active,notnull" json:"active"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

// Service is a non-physical offering (transfer, wake, cremation).
type Service struct {
	bun.BaseModel `bun:"table:services"`

	ID          int64     `bun:",pk,autoincrement" json:"id"`
	ProviderID  int64     `bun:"provider_id,notnull" json:"provider_id"`
	Name        string    `bun:"name,notnull" json:"name"`
	Description string    `bun:"description" json:"description"`
	Category    Category  `bun:"category,notnull" json:"category"`
	Price       float64   `bun:"price,notnull" json:"price"`
	DurationMin int       `bun:"duration_min" json:"duration_min"`
	Active      bool      `bun:"active,notnull" json:"active"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}
