package dto

import (
	"github.com/Additional-Code/funerarias/internal/entity"
	catalogsvc "github.com/Additional-Code/funerarias/internal/service/catalog"
)

// CatalogRequest creates or replaces a product or service.
type CatalogRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	DurationMin int     `json:"duration_min"`
	ImageURL    string  `json:"image_url"`
	Active      *bool   `json:"active"`
}

// ToInput converts the payload. Items are active unless stated.
func (r CatalogRequest) ToInput() catalogsvc.Input {
	active := true
	if r.Active != nil {
		active = *r.Active
	}
	return catalogsvc.Input{
		Name:        r.Name,
		Description: r.Description,
		Category:    entity.Category(r.Category),
		Price:       r.Price,
		Stock:       r.Stock,
		DurationMin: r.DurationMin,
		ImageURL:    r.ImageURL,
		Active:      active,
	}
}
