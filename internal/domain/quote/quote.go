// Package quote holds the printable view of quotes, orders and invoices.
package quote

import (
	"fmt"
	"time"

	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	"github.com/Additional-Code/funerarias/internal/entity"
)

// Kind names the document type printed in the header.
type Kind string

const (
	KindQuote   Kind = "Cotización"
	KindOrder   Kind = "Orden de servicio"
	KindInvoice Kind = "Factura"
)

// Issuer is the provider printing the document.
type Issuer struct {
	Name    string
	RUT     string
	Email   string
	Phone   string
	Address string
}

// Document is everything a generator needs to render one page set.
type Document struct {
	Kind       Kind
	Number     string
	Date       time.Time
	ValidUntil time.Time
	Issuer     Issuer
	Client     entity.Client
	Items      []lineitem.Item
	TaxRate    float64
	Totals     lineitem.Totals
	Notes      string
}

// IssuerFrom maps a provider to the document issuer block.
func IssuerFrom(p entity.Provider) Issuer {
	name := p.LegalName
	if name == "" {
		name = p.Name
	}
	return Issuer{Name: name, RUT: p.RUT, Email: p.Email, Phone: p.Phone, Address: p.Address}
}

// FromQuote builds the document of a quote. Totals are recomputed from the items.
func FromQuote(q entity.Quote, p entity.Provider) Document {
	return Document{
		Kind:       KindQuote,
		Number:     q.Number,
		Date:       q.CreatedAt,
		ValidUntil: q.ValidUntil,
		Issuer:     IssuerFrom(p),
		Client:     q.Client,
		Items:      q.Items,
		TaxRate:    q.TaxRate,
		Totals:     lineitem.Compute(q.Items, q.TaxRate),
		Notes:      q.Notes,
	}
}

// FromOrder builds the document of an order.
func FromOrder(o entity.Order, p entity.Provider) Document {
	return Document{
		Kind:    KindOrder,
		Number:  o.Number,
		Date:    o.CreatedAt,
		Issuer:  IssuerFrom(p),
		Client:  o.Client,
		Items:   o.Items,
		TaxRate: o.TaxRate,
		Totals:  lineitem.Compute(o.Items, o.TaxRate),
		Notes:   o.Notes,
	}
}

// FromInvoice builds the document of an invoice using its stored amounts.
func FromInvoice(inv entity.Invoice, p entity.Provider) Document {
	return Document{
		Kind:    KindInvoice,
		Number:  fmt.Sprintf("%06d", inv.Folio),
		Date:    inv.IssuedAt,
		Issuer:  IssuerFrom(p),
		Client:  inv.Client,
		Items:   inv.Items,
		TaxRate: inv.TaxRate,
		Totals:  lineitem.Totals{Subtotal: inv.Subtotal, Tax: inv.Tax, Total: inv.Total},
	}
}

// Filename returns the download name of the document.
func (d Document) Filename() string {
	prefix := map[Kind]string{KindQuote: "cotizacion", KindOrder: "orden", KindInvoice: "factura"}[d.Kind]
	if prefix == "" {
		prefix = "documento"
	}
	return fmt.Sprintf("%s-%s.pdf", prefix, d.Number)
}
