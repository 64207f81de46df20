package migration

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"github.com/Additional-Code/funerarias/internal/entity"
)

// Models lists every table model in creation order.
func Models() []any {
	return []any{
		(*entity.Provider)(nil),
		(*entity.ProviderCommune)(nil),
		(*entity.Plan)(nil),
		(*entity.ProviderSubscription)(nil),
		(*entity.Employee)(nil),
		(*entity.Lead)(nil),
		(*entity.Case)(nil),
		(*entity.Product)(nil),
		(*entity.Service)(nil),
		(*entity.Quote)(nil),
		(*entity.Order)(nil),
		(*entity.Invoice)(nil),
		(*entity.Obituary)(nil),
		(*entity.BlogPost)(nil),
	}
}

// CreateSchema creates any missing table from the models.
func CreateSchema(ctx context.Context, db bun.IDB) error {
	for _, m := range Models() {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table for %T: %w", m, err)
		}
	}
	return nil
}

// DropSchema drops every model table in reverse creation order.
func DropSchema(ctx context.Context, db bun.IDB) error {
	models := Models()
	for i := len(models) - 1; i >= 0; i-- {
		if _, err := db.NewDropTable().Model(models[i]).IfExists().Exec(ctx); err != nil {
			return fmt.Errorf("drop table for %T: %w", models[i], err)
		}
	}
	return nil
}
