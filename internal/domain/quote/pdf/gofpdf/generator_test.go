package gofpdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	"github.com/Additional-Code/funerarias/internal/domain/quote"
	"github.com/Additional-Code/funerarias/internal/entity"
)

func TestGenerateProducesPDF(t *testing.T) {
	items := lineitem.Normalize([]lineitem.Item{
		{Type: lineitem.TypeProduct, Name: "Ataúd de roble", Quantity: 1, UnitPrice: 20000},
		{Type: lineitem.TypeService, Name: "Traslado", Description: "Dentro de la región", Quantity: 1, UnitPrice: 5000, DiscountPercent: 10},
	})
	doc := quote.FromQuote(entity.Quote{
		Number:     "COT-000001",
		CreatedAt:  time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
		ValidUntil: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC),
		Client:     entity.Client{Name: "María Pérez", RUT: "12.345.678-5"},
		Items:      items,
		TaxRate:    19,
		Notes:      "Incluye tramitación de documentos.",
	}, entity.Provider{Name: "Funeraria Paz Eterna", RUT: "76.543.210-3"})

	out, err := New().Generate(doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.InDelta(t, 29155.0, doc.Totals.Total, 1e-6)
}

func TestGenerateEmptyDocument(t *testing.T) {
	out, err := New().Generate(quote.Document{Kind: quote.KindInvoice, Number: "000001"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestTrim(t *testing.T) {
	assert.Equal(t, "abc", trim("abc", 5))
	assert.Equal(t, "ab…", trim("abcdef", 3))
}
