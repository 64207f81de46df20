package seeder

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/database"
	"github.com/Additional-Code/funerarias/internal/entity"
)

// Module provides the seeder to Fx.
var Module = fx.Provide(New)

// Seeder performs database seeding for local/dev setups.
type Seeder struct {
	db     *bun.DB
	logger *zap.Logger
}

// New constructs a Seeder backed by the primary database connection.
func New(conns *database.Connections, logger *zap.Logger) *Seeder {
	return &Seeder{db: conns.Writer, logger: logger}
}

// All runs every seeder in dependency order.
func (s *Seeder) All(ctx context.Context) error {
	for _, step := range []func(context.Context) error{s.Plans, s.Providers, s.Posts} {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Plans seeds the subscription plans if they are missing.
func (s *Seeder) Plans(ctx context.Context) error {
	now := time.Now().UTC()
	samples := []entity.Plan{
		{Code: "basico", Name: "Básico", PriceMonthly: 0, MaxProducts: 10,
			Features: []string{"Perfil en el directorio", "Cotizaciones en línea"}},
		{Code: "profesional", Name: "Profesional", PriceMonthly: 29990, MaxProducts: 100, Highlighted: true,
			Features: []string{"Perfil destacado", "CRM de casos", "Facturación"}},
		{Code: "premium", Name: "Premium", PriceMonthly: 59990,
			Features: []string{"Productos ilimitados", "Campañas de email", "Soporte prioritario"}},
	}

	for _, sample := range samples {
		plan := sample
		plan.Active = true
		plan.CreatedAt, plan.UpdatedAt = now, now
		if _, err := s.db.NewInsert().Model(&plan).Ignore().Exec(ctx); err != nil {
			return err
		}
	}

	s.logger.Info("seeded plans", zap.Int("count", len(samples)))
	return nil
}

// Providers seeds a demo funeral home with coverage and a small catalog.
// An existing provider with the same slug is left untouched.
func (s *Seeder) Providers(ctx context.Context) error {
	const slug = "funeraria-demo"

	exists, err := s.db.NewSelect().Model((*entity.Provider)(nil)).Where("slug = ?", slug).Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Info("demo provider already present", zap.String("slug", slug))
		return nil
	}

	now := time.Now().UTC()
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		provider := &entity.Provider{
			Slug:        slug,
			Name:        "Funeraria Demo",
			LegalName:   "Servicios Funerarios Demo SpA",
			RUT:         "76.086.428-5",
			Email:       "contacto@funeraria-demo.cl",
			Phone:       "+56 2 2345 6789",
			Region:      "Metropolitana",
			Commune:     "Providencia",
			Description: "Atención 24 horas, traslados y cremación.",
			Categories:  []string{string(entity.CategoryCoffin), string(entity.CategoryTransfer), string(entity.CategoryCremation)},
			PriceFrom:   390000,
			Verified:    true,
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if _, err := tx.NewInsert().Model(provider).Exec(ctx); err != nil {
			return err
		}

		coverage := []entity.ProviderCommune{
			{ProviderID: provider.ID, Commune: "Providencia", Region: "Metropolitana"},
			{ProviderID: provider.ID, Commune: "Ñuñoa", Region: "Metropolitana"},
			{ProviderID: provider.ID, Commune: "Las Condes", Region: "Metropolitana"},
		}
		if _, err := tx.NewInsert().Model(&coverage).Exec(ctx); err != nil {
			return err
		}

		products := []entity.Product{
			{ProviderID: provider.ID, Name: "Ataúd de roble", Category: entity.CategoryCoffin, Price: 450000, Stock: 4, Active: true, CreatedAt: now, UpdatedAt: now},
			{ProviderID: provider.ID, Name: "Urna de madera", Category: entity.CategoryUrn, Price: 90000, Stock: 10, Active: true, CreatedAt: now, UpdatedAt: now},
		}
		if _, err := tx.NewInsert().Model(&products).Exec(ctx); err != nil {
			return err
		}

		services := []entity.Service{
			{ProviderID: provider.ID, Name: "Traslado urbano", Category: entity.CategoryTransfer, Price: 80000, DurationMin: 90, Active: true, CreatedAt: now, UpdatedAt: now},
			{ProviderID: provider.ID, Name: "Cremación", Category: entity.CategoryCremation, Price: 390000, DurationMin: 240, Active: true, CreatedAt: now, UpdatedAt: now},
		}
		if _, err := tx.NewInsert().Model(&services).Exec(ctx); err != nil {
			return err
		}

		s.logger.Info("seeded demo provider", zap.Int64("provider_id", provider.ID), zap.String("slug", slug))
		return nil
	})
}

// Posts seeds one published grief-support article.
func (s *Seeder) Posts(ctx context.Context) error {
	now := time.Now().UTC()
	post := &entity.BlogPost{
		Slug:        "como-acompanar-el-duelo",
		Title:       "Cómo acompañar el duelo",
		Excerpt:     "Ideas sencillas para estar presente en los primeros días.",
		Body:        "Escuchar sin apurar, ofrecer ayuda concreta y respetar los tiempos de cada familia.",
		Author:      "Equipo Funerarias",
		Tags:        []string{"duelo", "familia"},
		Published:   true,
		PublishedAt: now,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	res, err := s.db.NewInsert().Model(post).Ignore().Exec(ctx)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		s.logger.Info("blog post already present", zap.String("slug", post.Slug))
		return nil
	}
	s.logger.Info("seeded blog post", zap.String("slug", post.Slug))
	return nil
}

// ErrNotSeeded reports that a lookup found no seeded row.
var ErrNotSeeded = errors.New("seed data missing")

// DemoProviderID returns the id of the seeded demo provider.
func (s *Seeder) DemoProviderID(ctx context.Context) (int64, error) {
	var id int64
	err := s.db.NewSelect().Model((*entity.Provider)(nil)).Column("id").Where("slug = ?", "funeraria-demo").Scan(ctx, &id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotSeeded
	}
	return id, err
}
