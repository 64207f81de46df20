// Package lineitem holds the quote/order line-item model and the totals calculator.
//
// Amounts keep native float precision; rounding happens only when a value is
// formatted for display.
package lineitem

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Type distinguishes catalog products from services.
type Type string

const (
	TypeProduct Type = "product"
	TypeService Type = "service"
)

// Valid reports whether t is a known line-item type.
func (t Type) Valid() bool {
	return t == TypeProduct || t == TypeService
}

var (
	// ErrEmpty is returned when a document is saved without line items.
	ErrEmpty = errors.New("at least one line item is required")
	// ErrUnknownType is returned for a line item that is neither a product nor a service.
	ErrUnknownType = errors.New("line item type must be product or service")
	// ErrIndexOutOfRange is returned by reordering and mutation helpers.
	ErrIndexOutOfRange = errors.New("line item index out of range")
)

// Item is a single product or service entry within a quote or order.
type Item struct {
	ID              string  `json:"id"`
	Type            Type    `json:"type"`
	SourceItemID    string  `json:"source_item_id"`
	Name            string  `json:"name"`
	Description     string  `json:"description,omitempty"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	DiscountPercent float64 `json:"discount_percent"`
	Subtotal        float64 `json:"subtotal"`
}

// Totals are the aggregate amounts of a document.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// New builds a clamped item with a fresh identifier and a computed subtotal.
func New(t Type, sourceItemID, name string, quantity int, unitPrice, discountPercent float64) Item {
	it := Item{
		ID:              uuid.NewString(),
		Type:            t,
		SourceItemID:    sourceItemID,
		Name:            name,
		Quantity:        quantity,
		UnitPrice:       unitPrice,
		DiscountPercent: discountPercent,
	}
	it.Recalculate()
	return it
}

// Clamp forces quantity, price and discount into their allowed ranges.
func (it *Item) Clamp() {
	if it.Quantity < 1 {
		it.Quantity = 1
	}
	if it.UnitPrice < 0 {
		it.UnitPrice = 0
	}
	if it.DiscountPercent < 0 {
		it.DiscountPercent = 0
	}
	if it.DiscountPercent > 100 {
		it.DiscountPercent = 100
	}
}

// Recalculate clamps the item and refreshes its subtotal.
func (it *Item) Recalculate() {
	it.Clamp()
	it.Subtotal = float64(it.Quantity) * it.UnitPrice * (1 - it.DiscountPercent/100)
}

// Normalize clamps every item, recomputes subtotals and assigns missing
// identifiers. An item without a type becomes a product; unknown types are
// left for ValidateForSave to reject. The input slice is not modified.
func Normalize(items []Item) []Item {
	out := make([]Item, len(items))
	for i, it := range items {
		if it.ID == "" {
			it.ID = uuid.NewString()
		}
		if it.Type == "" {
			it.Type = TypeProduct
		}
		it.Recalculate()
		out[i] = it
	}
	return out
}

// Compute aggregates item subtotals and applies the tax rate (percent).
func Compute(items []Item, taxRate float64) Totals {
	if taxRate < 0 {
		taxRate = 0
	}
	var subtotal float64
	for _, it := range items {
		subtotal += it.Subtotal
	}
	tax := subtotal * taxRate / 100
	return Totals{Subtotal: subtotal, Tax: tax, Total: subtotal + tax}
}

// ValidateForSave enforces the business rules checked before a document is persisted.
func ValidateForSave(items []Item) error {
	if len(items) == 0 {
		return ErrEmpty
	}
	for i, it := range items {
		if it.Name == "" {
			return fmt.Errorf("line item %d: name is required", i+1)
		}
		if it.Type != "" && !it.Type.Valid() {
			return fmt.Errorf("line item %d: %w", i+1, ErrUnknownType)
		}
	}
	return nil
}

// Move returns a copy of items with the element at from relocated to to.
func Move(items []Item, from, to int) ([]Item, error) {
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return nil, ErrIndexOutOfRange
	}
	out := make([]Item, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	moved := items[from]
	out = append(out, Item{})
	copy(out[to+1:], out[to:])
	out[to] = moved
	return out, nil
}
