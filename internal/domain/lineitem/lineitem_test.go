package lineitem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []Item {
	return []Item{
		New(TypeProduct, "p-1", "Ataúd roble", 2, 10000, 0),
		New(TypeService, "s-1", "Traslado", 1, 5000, 10),
	}
}

func TestComputeScenario(t *testing.T) {
	totals := Compute(sampleItems(), 19)

	assert.InDelta(t, 24500, totals.Subtotal, 1e-9)
	assert.InDelta(t, 4655, totals.Tax, 1e-9)
	assert.InDelta(t, 29155, totals.Total, 1e-9)
}

func TestComputeEmpty(t *testing.T) {
	totals := Compute(nil, 19)
	assert.Equal(t, Totals{}, totals)
	assert.ErrorIs(t, ValidateForSave(nil), ErrEmpty)
}

func TestComputeMatchesPerItemSum(t *testing.T) {
	items := Normalize([]Item{
		{Name: "a", Quantity: 3, UnitPrice: 1250.5, DiscountPercent: 12.5},
		{Name: "b", Quantity: 1, UnitPrice: 99990, DiscountPercent: 100},
		{Name: "c", Quantity: 7, UnitPrice: 0.3, DiscountPercent: 0},
	})

	var want float64
	for _, it := range items {
		want += float64(it.Quantity) * it.UnitPrice * (1 - it.DiscountPercent/100)
	}
	totals := Compute(items, 19)
	assert.InDelta(t, want, totals.Subtotal, 1e-9)
	assert.InDelta(t, want*(1+19.0/100), totals.Total, 1e-6)
}

func TestClamp(t *testing.T) {
	it := Item{Name: "x", Quantity: 0, UnitPrice: -5, DiscountPercent: 150}
	it.Recalculate()

	assert.Equal(t, 1, it.Quantity)
	assert.Equal(t, 0.0, it.UnitPrice)
	assert.Equal(t, 100.0, it.DiscountPercent)
	assert.Equal(t, 0.0, it.Subtotal)

	it = Item{Name: "y", Quantity: -3, UnitPrice: 100, DiscountPercent: -20}
	it.Recalculate()
	assert.Equal(t, 1, it.Quantity)
	assert.Equal(t, 0.0, it.DiscountPercent)
	assert.Equal(t, 100.0, it.Subtotal)
}

func TestNegativeTaxRateClamped(t *testing.T) {
	totals := Compute(sampleItems(), -5)
	assert.Equal(t, totals.Subtotal, totals.Total)
	assert.Zero(t, totals.Tax)
}

func TestNormalizeAssignsIDsAndType(t *testing.T) {
	in := []Item{{Name: "x", Quantity: 2, UnitPrice: 10}}
	out := Normalize(in)

	require.Len(t, out, 1)
	assert.NotEmpty(t, out[0].ID)
	assert.Equal(t, TypeProduct, out[0].Type)
	assert.Equal(t, 20.0, out[0].Subtotal)
	assert.Empty(t, in[0].ID, "input must not be mutated")
}

func TestMove(t *testing.T) {
	items := []Item{{Name: "a"}, {Name: "b"}, {Name: "c"}, {Name: "d"}}

	cases := []struct {
		from, to int
		want     []string
	}{
		{0, 2, []string{"b", "c", "a", "d"}},
		{3, 0, []string{"d", "a", "b", "c"}},
		{1, 1, []string{"a", "b", "c", "d"}},
		{2, 3, []string{"a", "b", "d", "c"}},
	}
	for _, tc := range cases {
		out, err := Move(items, tc.from, tc.to)
		require.NoError(t, err)
		got := make([]string, len(out))
		for i, it := range out {
			got[i] = it.Name
		}
		assert.Equal(t, tc.want, got)
	}

	assert.Equal(t, "a", items[0].Name, "input must not be mutated")

	_, err := Move(items, -1, 0)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
	_, err = Move(items, 0, 4)
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestMoveKeepsTotals(t *testing.T) {
	items := append(sampleItems(), New(TypeProduct, "p-2", "Urna", 1, 120000, 5))
	before := Compute(items, 19)

	moved, err := Move(items, 2, 0)
	require.NoError(t, err)
	after := Compute(moved, 19)

	assert.InDelta(t, before.Subtotal, after.Subtotal, 1e-9)
	assert.InDelta(t, before.Tax, after.Tax, 1e-9)
	assert.InDelta(t, before.Total, after.Total, 1e-9)
}

func TestValidateForSave(t *testing.T) {
	assert.NoError(t, ValidateForSave(sampleItems()))
	assert.Error(t, ValidateForSave([]Item{{Quantity: 1}}))
	assert.NoError(t, ValidateForSave([]Item{{Name: "Urna", Quantity: 1}}))

	err := ValidateForSave([]Item{{Type: "servicio", Name: "Traslado", Quantity: 1}})
	assert.ErrorIs(t, err, ErrUnknownType)
}

func TestNormalizeTypes(t *testing.T) {
	out := Normalize([]Item{{Name: "Urna"}, {Type: TypeService, Name: "Velatorio"}, {Type: "servicio", Name: "Traslado"}})
	assert.Equal(t, TypeProduct, out[0].Type)
	assert.Equal(t, TypeService, out[1].Type)
	assert.Equal(t, Type("servicio"), out[2].Type)
}

func TestFormatCLP(t *testing.T) {
	assert.Equal(t, "$29.155", FormatCLP(29155))
	assert.Equal(t, "$1.234.568", FormatCLP(1234567.6))
	assert.Equal(t, "$0", FormatCLP(0))
	assert.Equal(t, "19%", FormatPercent(19))
}
