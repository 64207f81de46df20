package crud_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/repository/crud"
	"github.com/Additional-Code/funerarias/internal/testutil"
)

func newPlan(code string, price float64) *entity.Plan {
	now := time.Now().UTC()
	return &entity.Plan{
		Code:         code,
		Name:         "Plan " + code,
		PriceMonthly: price,
		Features:     []string{"directorio", "cotizador"},
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestTableLifecycle(t *testing.T) {
	ctx := context.Background()
	table := crud.New[entity.Plan](testutil.SQLite(t))
	assert.Equal(t, "plans", table.Name())

	plan := newPlan("basic", 19990)
	require.NoError(t, table.Create(ctx, plan))
	require.NotZero(t, plan.ID)

	got, err := table.Get(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, "basic", got.Code)
	assert.Equal(t, []string{"directorio", "cotizador"}, got.Features)

	got.PriceMonthly = 24990
	require.NoError(t, table.Update(ctx, got))

	got, err = table.Get(ctx, plan.ID)
	require.NoError(t, err)
	assert.Equal(t, 24990.0, got.PriceMonthly)

	require.NoError(t, table.Delete(ctx, plan.ID))
	_, err = table.Get(ctx, plan.ID)
	assert.ErrorIs(t, err, crud.ErrNotFound)
	assert.ErrorIs(t, table.Delete(ctx, plan.ID), crud.ErrNotFound)
}

func TestTableListAndFilters(t *testing.T) {
	ctx := context.Background()
	table := crud.New[entity.Plan](testutil.SQLite(t))

	for i, code := range []string{"basic", "pro", "premium"} {
		require.NoError(t, table.Create(ctx, newPlan(code, float64(10000*(i+1)))))
	}

	rows, total, err := table.List(ctx, crud.Page{Limit: 2}, crud.OrderBy("price_monthly DESC"))
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	require.Len(t, rows, 2)
	assert.Equal(t, "premium", rows[0].Code)

	rows, total, err = table.List(ctx, crud.Page{}, crud.Search("PR", "code"))
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, rows, 2)

	first, err := table.First(ctx, crud.Eq("code", "pro"))
	require.NoError(t, err)
	assert.Equal(t, 20000.0, first.PriceMonthly)

	n, err := table.Count(ctx, crud.EqIf("code", ""))
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = table.First(ctx, crud.Eq("code", "enterprise"))
	assert.ErrorIs(t, err, crud.ErrNotFound)
}

func TestTableOwnership(t *testing.T) {
	ctx := context.Background()
	table := crud.New[entity.Employee](testutil.SQLite(t))

	emp := &entity.Employee{ProviderID: 1, Name: "Rosa", Active: true}
	require.NoError(t, table.Create(ctx, emp))

	got, err := table.Owned(ctx, 1, emp.ID)
	require.NoError(t, err)
	assert.Equal(t, "Rosa", got.Name)

	_, err = table.Owned(ctx, 2, emp.ID)
	assert.ErrorIs(t, err, crud.ErrNotFound)
	assert.ErrorIs(t, table.DeleteOwned(ctx, 2, emp.ID), crud.ErrNotFound)
	require.NoError(t, table.DeleteOwned(ctx, 1, emp.ID))
}
