package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(args ...string) (string, error) {
	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRUTValidate(t *testing.T) {
	out, err := run("rut", "validate", "123456785")
	require.NoError(t, err)
	assert.Contains(t, out, "valid (12.345.678-5)")

	out, err = run("rut", "validate", "12345678-K")
	assert.ErrorIs(t, err, errInvalidRUT)
	assert.Contains(t, out, "invalid")
}

func TestQuoteTotals(t *testing.T) {
	out, err := run("quote", "totals", "--item", "Ataúd:1:450000", "--item", "Traslado:2:80000:10")
	require.NoError(t, err)
	assert.Contains(t, out, "Subtotal: $594.000")
	assert.Contains(t, out, "IVA (19%): $112.860")
	assert.Contains(t, out, "Total: $706.860")

	out, err = run("quote", "totals", "--tax", "0", "--item", "Urna:0:-5")
	require.NoError(t, err)
	assert.Contains(t, out, "Total: $0")
}

func TestQuoteTotalsRejectsBadInput(t *testing.T) {
	_, err := run("quote", "totals")
	assert.Error(t, err, "an empty item list cannot be saved")

	_, err = run("quote", "totals", "--item", "Urna:uno:1000")
	assert.Error(t, err)

	_, err = run("quote", "totals", "--item", "Urna")
	assert.Error(t, err)
}

func TestParseItemClamps(t *testing.T) {
	it, err := parseItem("Velatorio:0:-100:150")
	require.NoError(t, err)
	assert.Equal(t, 1, it.Quantity)
	assert.Zero(t, it.UnitPrice)
	assert.Equal(t, 100.0, it.DiscountPercent)
	assert.NotEmpty(t, it.ID)
}
