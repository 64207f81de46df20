package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/funerarias/internal/domain/lineitem"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

func TestParseDate(t *testing.T) {
	d, err := ParseDate("x", "2026-03-01")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("x", "2026-03-01T10:30")
	require.NoError(t, err)
	assert.Equal(t, 10, d.Hour())

	d, err = ParseDate("x", "")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = ParseDate("valid_until", "01/03/2026")
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest))
}

func TestProviderFormCoverage(t *testing.T) {
	f := ProviderForm{
		Categories: []string{"ataud, velatorio", "urna"},
		Coverage:   `[{"commune":"Providencia","region":"RM"},{"commune":"Ñuñoa","region":"RM"}]`,
	}
	assert.Equal(t, []string{"ataud", "velatorio", "urna"}, f.Details().Categories)

	cov, err := f.CoverageEntries()
	require.NoError(t, err)
	assert.Equal(t, []entity.ProviderCommune{
		{Commune: "Providencia", Region: "RM"},
		{Commune: "Ñuñoa", Region: "RM"},
	}, cov)

	f.Coverage = "{"
	_, err = f.CoverageEntries()
	assert.Error(t, err)
}

func TestDefaultsActive(t *testing.T) {
	assert.True(t, CatalogRequest{}.ToInput().Active)
	assert.True(t, EmployeeRequest{}.ToInput().Active)
	off := false
	assert.False(t, PlanRequest{Active: &off}.ToInput().Active)
}

func TestNewPreview(t *testing.T) {
	p := NewPreview(nil, lineitem.Totals{Subtotal: 1000, Tax: 190, Total: 1190}, 19)
	assert.NotNil(t, p.Items)
	assert.Equal(t, lineitem.FormatCLP(1190), p.Formatted.Total)
	assert.Equal(t, lineitem.FormatPercent(19), p.Formatted.TaxRate)
}

func TestCaseRequestDate(t *testing.T) {
	in, err := CaseRequest{DeceasedName: "Juan", Status: "open", ServiceDate: "2026-05-02"}.ToInput()
	require.NoError(t, err)
	assert.Equal(t, entity.CaseOpen, in.Status)
	assert.Equal(t, 2, in.ServiceDate.Day())

	_, err = CaseRequest{ServiceDate: "mañana"}.ToInput()
	assert.Error(t, err)
}
