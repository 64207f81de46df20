package lineitem

// Sheet is an editable, ordered list of line items with a tax rate.
// Every mutation recomputes only the touched item.
type Sheet struct {
	items   []Item
	taxRate float64
}

// NewSheet wraps a normalized copy of items.
func NewSheet(items []Item, taxRate float64) *Sheet {
	return &Sheet{items: Normalize(items), taxRate: taxRate}
}

// Items returns a copy of the current items.
func (s *Sheet) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of items.
func (s *Sheet) Len() int { return len(s.items) }

// TaxRate returns the tax percentage applied to the sheet.
func (s *Sheet) TaxRate() float64 { return s.taxRate }

// SetTaxRate changes the tax percentage.
func (s *Sheet) SetTaxRate(rate float64) {
	if rate < 0 {
		rate = 0
	}
	s.taxRate = rate
}

// Add appends an item and returns its index.
func (s *Sheet) Add(it Item) int {
	s.items = append(s.items, Normalize([]Item{it})[0])
	return len(s.items) - 1
}

// Remove deletes the item at index i.
func (s *Sheet) Remove(i int) error {
	if i < 0 || i >= len(s.items) {
		return ErrIndexOutOfRange
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

// SetQuantity updates the quantity of item i.
func (s *Sheet) SetQuantity(i, quantity int) error {
	return s.update(i, func(it *Item) { it.Quantity = quantity })
}

// SetUnitPrice updates the unit price of item i.
func (s *Sheet) SetUnitPrice(i int, price float64) error {
	return s.update(i, func(it *Item) { it.UnitPrice = price })
}

// SetDiscount updates the discount percentage of item i.
func (s *Sheet) SetDiscount(i int, percent float64) error {
	return s.update(i, func(it *Item) { it.DiscountPercent = percent })
}

// Move relocates item from to index to.
func (s *Sheet) Move(from, to int) error {
	moved, err := Move(s.items, from, to)
	if err != nil {
		return err
	}
	s.items = moved
	return nil
}

// Totals computes the aggregate amounts for the current items.
func (s *Sheet) Totals() Totals {
	return Compute(s.items, s.taxRate)
}

func (s *Sheet) update(i int, fn func(*Item)) error {
	if i < 0 || i >= len(s.items) {
		return ErrIndexOutOfRange
	}
	it := s.items[i]
	fn(&it)
	it.Recalculate()
	s.items[i] = it
	return nil
}
