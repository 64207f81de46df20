package entity

// OrderStatus enumerates the lifecycle of an order.
type OrderStatus string

const (
	OrderDraft      OrderStatus = "draft"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderInProgress OrderStatus = "in_progress"
	OrderCompleted  OrderStatus = "completed"
	OrderCancelled  OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderDraft:      {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderInProgress, OrderCompleted, OrderCancelled},
	OrderInProgress: {OrderCompleted, OrderCancelled},
}

// OrderStatuses lists every order status in lifecycle order.
func OrderStatuses() []OrderStatus {
	return []OrderStatus{OrderDraft, OrderConfirmed, OrderInProgress, OrderCompleted, OrderCancelled}
}

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses() {
		if v == s {
			return true
		}
	}
	return false
}

// CanTransition reports whether an order may move from s to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, v := range orderTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// Editable reports whether line items may still change.
func (s OrderStatus) Editable() bool {
	return s == OrderDraft || s == OrderConfirmed
}

// QuoteStatus enumerates the lifecycle of a quote.
type QuoteStatus string

const (
	QuoteDraft     QuoteStatus = "draft"
	QuoteSent      QuoteStatus = "sent"
	QuoteAccepted  QuoteStatus = "accepted"
	QuoteRejected  QuoteStatus = "rejected"
	QuoteConverted QuoteStatus = "converted"
)

var quoteTransitions = map[QuoteStatus][]QuoteStatus{
	QuoteDraft:    {QuoteSent, QuoteAccepted, QuoteRejected},
	QuoteSent:     {QuoteAccepted, QuoteRejected, QuoteDraft},
	QuoteAccepted: {QuoteConverted},
	QuoteRejected: {QuoteDraft},
}

// Valid reports whether s is a known quote status.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteDraft, QuoteSent, QuoteAccepted, QuoteRejected, QuoteConverted:
		return true
	}
	return false
}

// CanTransition reports whether a quote may move from s to next.
func (s QuoteStatus) CanTransition(next QuoteStatus) bool {
	for _, v := range quoteTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// Editable reports whether a quote may still be overwritten.
func (s QuoteStatus) Editable() bool {
	return s == QuoteDraft || s == QuoteSent || s == QuoteRejected
}

// Category classifies catalog products and services.
type Category string

const (
	CategoryCoffin    Category = "ataud"
	CategoryUrn       Category = "urna"
	CategoryTransfer  Category = "traslado"
	CategoryWake      Category = "velatorio"
	CategoryCremation Category = "cremacion"
	CategoryBurial    Category = "sepultura"
	CategoryFloral    Category = "floral"
	CategoryPaperwork Category = "tramites"
	CategoryOther     Category = "otro"
)

// Categories lists every catalog category.
func Categories() []Category {
	return []Category{
		CategoryCoffin, CategoryUrn, CategoryTransfer, CategoryWake, CategoryCremation,
		CategoryBurial, CategoryFloral, CategoryPaperwork, CategoryOther,
	}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	for _, v := range Categories() {
		if v == c {
			return true
		}
	}
	return false
}

// LeadStatus tracks follow-up of a lead.
type LeadStatus string

const (
	LeadNew       LeadStatus = "new"
	LeadContacted LeadStatus = "contacted"
	LeadWon       LeadStatus = "won"
	LeadLost      LeadStatus = "lost"
)

// Valid reports whether s is a known lead status.
func (s LeadStatus) Valid() bool {
	switch s {
	case LeadNew, LeadContacted, LeadWon, LeadLost:
		return true
	}
	return false
}

// CaseStatus tracks a funeral case.
type CaseStatus string

const (
	CaseOpen       CaseStatus = "open"
	CaseInProgress CaseStatus = "in_progress"
	CaseClosed     CaseStatus = "closed"
)

// Valid reports whether s is a known case status.
func (s CaseStatus) Valid() bool {
	switch s {
	case CaseOpen, CaseInProgress, CaseClosed:
		return true
	}
	return false
}

// InvoiceStatus tracks payment of an invoice.
type InvoiceStatus string

const (
	InvoiceIssued InvoiceStatus = "issued"
	InvoicePaid   InvoiceStatus = "paid"
	InvoiceVoid   InvoiceStatus = "void"
)

// Valid reports whether s is a known invoice status.
func (s InvoiceStatus) Valid() bool {
	switch s {
	case InvoiceIssued, InvoicePaid, InvoiceVoid:
		return true
	}
	return false
}
