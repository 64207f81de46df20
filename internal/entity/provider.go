package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Provider is a funeral-service business listed in the directory.
type Provider struct {
	bun.BaseModel `bun:"table:providers"`

	ID          int64     `bun:",pk,autoincrement" json:"id"`
	Slug        string    `bun:"slug,notnull,unique" json:"slug"`
	Name        string    `bun:"name,notnull" json:"name"`
	LegalName   string    `bun:"legal_name" json:"legal_name"`
	RUT         string    `bun:"rut,notnull,unique" json:"rut"`
	Email       string    `bun:"email" json:"email"`
	Phone       string    `bun:"phone" json:"phone"`
	Website     string    `bun:"website" json:"website"`
	Address     string    `bun:"address" json:"address"`
	Region      string    `bun:"region" json:"region"`
	Commune     string    `bun:"commune" json:"commune"`
	Description string    `bun:"description" json:"description"`
	LogoURL     string    `bun:"logo_url" json:"logo_url"`
	LogoPath    string    `bun:"logo_path" json:"-"`
	HeroURL     string    `bun:"hero_url" json:"hero_url"`
	HeroPath    string    `bun:"hero_path" json:"-"`
	Categories  []string  `bun:"categories,type:json" json:"categories"`
	PriceFrom   float64   `bun:"price_from" json:"price_from"`
	Rating      float64   `bun:"rating" json:"rating"`
	Verified    bool      `bun:"verified,notnull" json:"verified"`
	Active      bool      `bun:"active,notnull" json:"active"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

// ProviderCommune records a commune a provider serves.
type ProviderCommune struct {
	bun.BaseModel `bun:"table:provider_communes"`

	ProviderID int64  `bun:"provider_id,pk" json:"provider_id"`
	Commune    string `bun:"commune,pk" json:"commune"`
	Region     string `bun:"region" json:"region"`
}

// ProviderSubscription links a provider to its current plan.
type ProviderSubscription struct {
	bun.BaseModel `bun:"table:provider_subscriptions"`

	ProviderID int64     `bun:"provider_id,pk" json:"provider_id"`
	PlanID     int64     `bun:"plan_id,notnull" json:"plan_id"`
	Status     string    `bun:"status,notnull" json:"status"`
	StartedAt  time.Time `bun:"started_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"started_at"`
	EndsAt     time.Time `bun:"ends_at,nullzero" json:"ends_at,omitempty"`
}
