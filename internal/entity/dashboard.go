package entity

// DashboardStats mirrors the provider_dashboard_stats view.
type DashboardStats struct {
	ProviderID     int64               `bun:"provider_id" json:"provider_id"`
	Leads          int                 `bun:"leads" json:"leads"`
	NewLeads       int                 `bun:"new_leads" json:"new_leads"`
	OpenQuotes     int                 `bun:"open_quotes" json:"open_quotes"`
	OpenCases      int                 `bun:"open_cases" json:"open_cases"`
	Orders         int                 `bun:"orders" json:"orders"`
	Revenue        float64             `bun:"revenue" json:"revenue"`
	OrdersByStatus map[OrderStatus]int `bun:"-" json:"orders_by_status"`
	Products       int                 `bun:"products" json:"products"`
	Services       int                 `bun:"services" json:"services"`
	PublishedObits int                 `bun:"published_obituaries" json:"published_obituaries"`
}

// PlatformStats summarises the marketplace for the superadmin console.
type PlatformStats struct {
	Providers         int     `json:"providers"`
	VerifiedProviders int     `json:"verified_providers"`
	Leads             int     `json:"leads"`
	Quotes            int     `json:"quotes"`
	Orders            int     `json:"orders"`
	Revenue           float64 `json:"revenue"`
	PublishedPosts    int     `json:"published_posts"`
}
