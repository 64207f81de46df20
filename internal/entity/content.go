package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// Obituary is a public death notice, optionally linked to a provider.
type Obituary struct {
	bun.BaseModel `bun:"table:obituaries"`

	ID            int64     `bun:",pk,autoincrement" json:"id"`
	ProviderID    int64     `bun:"provider_id,nullzero" json:"provider_id,omitempty"`
	FullName      string    `bun:"full_name,notnull" json:"full_name"`
	BirthDate     time.Time `bun:"birth_date,nullzero" json:"birth_date,omitempty"`
	DeathDate     time.Time `bun:"death_date,nullzero" json:"death_date,omitempty"`
	Biography     string    `bun:"biography" json:"biography"`
	CeremonyPlace string    `bun:"ceremony_place" json:"ceremony_place"`
	CeremonyAt    time.Time `bun:"ceremony_at,nullzero" json:"ceremony_at,omitempty"`
	Commune       string    `bun:"commune" json:"commune"`
	PhotoURL      string    `bun:"photo_url" json:"photo_url"`
	PhotoPath     string    `bun:"photo_path" json:"-"`
	Published     bool      `bun:"published,notnull" json:"published"`
	CreatedAt     time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt     time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

// BlogPost is grief-support or marketing content.
type BlogPost struct {
	bun.BaseModel `bun:"table:blog_posts"`

	ID          int64     `bun:",pk,autoincrement" json:"id"`
	Slug        string    `bun:"slug,notnull,unique" json:"slug"`
	Title       string    `bun:"title,notnull" json:"title"`
	Excerpt     string    `bun:"excerpt" json:"excerpt"`
	Body        string    `bun:"body" json:"body"`
	Author      string    `bun:"author" json:"author"`
	Tags        []string  `bun:"tags,type:json" json:"tags"`
	ImageURL    string    `bun:"image_url" json:"image_url"`
	ImagePath   string    `bun:"image_path" json:"-"`
	Published   bool      `bun:"published,notnull" json:"published"`
	PublishedAt time.Time `bun:"published_at,nullzero" json:"published_at,omitempty"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt   time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}

// Plan is a subscription tier offered to providers.
type Plan struct {
	bun.BaseModel `bun:"table:plans"`

	ID           int64     `bun:",pk,autoincrement" json:"id"`
	Code         string    `bun:"code,notnull,unique" json:"code"`
	Name         string    `bun:"name,notnull" json:"name"`
	PriceMonthly float64   `bun:"price_monthly,notnull" json:"price_monthly"`
	Features     []string  `bun:"features,type:json" json:"features"`
	MaxProducts  int       `bun:"max_products" json:"max_products"`
	Highlighted  bool      `bun:"highlighted,notnull" json:"highlighted"`
	Active       bool      `bun:"active,notnull" json:"active"`
	CreatedAt    time.Time `bun:"created_at,nullzero,notnull,default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time `bun:"updated_at,nullzero" json:"updated_at"`
}
