package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	"github.com/Additional-Code/funerarias/internal/entity"
)

func TestFromQuoteRecomputesTotals(t *testing.T) {
	items := []lineitem.Item{{Name: "Urna", Quantity: 2, UnitPrice: 1000, Subtotal: 1}}
	items = lineitem.Normalize(items)
	doc := FromQuote(entity.Quote{Number: "COT-1", Items: items, TaxRate: 19, Total: 1}, entity.Provider{Name: "Paz", LegalName: "Paz SpA"})

	assert.Equal(t, KindQuote, doc.Kind)
	assert.Equal(t, 2000.0, doc.Totals.Subtotal)
	assert.Equal(t, 2380.0, doc.Totals.Total)
	assert.Equal(t, "Paz SpA", doc.Issuer.Name)
	assert.Equal(t, "cotizacion-COT-1.pdf", doc.Filename())
}

func TestFromInvoiceKeepsStoredAmounts(t *testing.T) {
	doc := FromInvoice(entity.Invoice{Folio: 42, Subtotal: 100, Tax: 19, Total: 119}, entity.Provider{Name: "Paz"})
	assert.Equal(t, "000042", doc.Number)
	assert.Equal(t, 119.0, doc.Totals.Total)
	assert.Equal(t, "factura-000042.pdf", doc.Filename())
}

func TestValidate(t *testing.T) {
	items := lineitem.Normalize([]lineitem.Item{{Name: "Urna", Quantity: 1, UnitPrice: 10}})
	client := entity.Client{Name: "Ana", RUT: "12.345.678-5"}

	assert.NoError(t, Validate(client, items, 19))
	assert.ErrorIs(t, Validate(client, nil, 19), lineitem.ErrEmpty)
	assert.ErrorIs(t, Validate(entity.Client{Name: " "}, items, 19), ErrClientName)
	assert.ErrorIs(t, Validate(entity.Client{Name: "Ana", RUT: "12345678-K"}, items, 19), ErrClientRUT)
	assert.ErrorIs(t, Validate(client, items, 101), ErrTaxRate)
}

func TestNormalizeClientAndNumber(t *testing.T) {
	c := NormalizeClient(entity.Client{Name: " Ana ", Email: " ANA@MAIL.CL ", RUT: "123456785"})
	assert.Equal(t, "Ana", c.Name)
	assert.Equal(t, "ana@mail.cl", c.Email)
	assert.Equal(t, "12.345.678-5", c.RUT)

	n := NewNumber("COT")
	assert.Regexp(t, `^COT-[0-9A-F]{8}$`, n)
}
