package crm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/cache"
	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/entity"
	repo "github.com/Additional-Code/funerarias/internal/repository/crm"
	"github.com/Additional-Code/funerarias/internal/service/dashboard"
	"github.com/Additional-Code/funerarias/internal/testutil"
	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

func newTestService(t *testing.T) (*Service, cache.Store) {
	t.Helper()
	store := cache.NewMemory(time.Minute)
	return &Service{
		repo:      repo.NewRepository(testutil.SQLite(t)),
		providers: testutil.NewProviders(entity.Provider{ID: 1, Name: "Paz"}),
		cache:     store,
		logger:    zap.NewNop(),
		business:  config.Business{DefaultPageSize: 20, MaxPageSize: 100},
		now:       func() time.Time { return time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC) },
	}, store
}

func TestCreateLead(t *testing.T) {
	svc, store := newTestService(t)
	ctx := context.Background()
	require.NoError(t, cache.SetJSON(ctx, store, dashboard.StatsKey(1), entity.DashboardStats{Leads: 0}, time.Minute))

	lead, err := svc.CreateLead(ctx, LeadInput{ProviderID: 1, Name: " Ana Pérez ", Email: "ANA@mail.cl", RUT: "123456785"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Pérez", lead.Name)
	assert.Equal(t, "ana@mail.cl", lead.Email)
	assert.Equal(t, "12.345.678-5", lead.RUT)
	assert.Equal(t, entity.LeadNew, lead.Status)
	assert.Equal(t, "web", lead.Source)

	var stats entity.DashboardStats
	hit, err := cache.GetJSON(ctx, store, dashboard.StatsKey(1), &stats)
	require.NoError(t, err)
	assert.False(t, hit, "new lead invalidates dashboard stats")

	cases := map[string]LeadInput{
		"no name":     {ProviderID: 1, Email: "a@b.cl"},
		"no contact":  {ProviderID: 1, Name: "Ana"},
		"bad email":   {ProviderID: 1, Name: "Ana", Email: "nope"},
		"bad rut":     {ProviderID: 1, Name: "Ana", Phone: "+56 9 1234 5678", RUT: "12345678-K"},
		"no provider": {Name: "Ana", Phone: "+56 9 1234 5678"},
	}
	for name, in := range cases {
		_, err := svc.CreateLead(ctx, in)
		assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest), name)
	}

	_, err = svc.CreateLead(ctx, LeadInput{ProviderID: 99, Name: "Ana", Phone: "123"})
	assert.True(t, errorbank.IsKind(err, errorbank.KindNotFound))
}

func TestLeadStatus(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()
	lead, err := svc.CreateLead(ctx, LeadInput{ProviderID: 1, Name: "Ana", Phone: "123"})
	require.NoError(t, err)

	updated, err := svc.SetLeadStatus(ctx, 1, lead.ID, entity.LeadContacted)
	require.NoError(t, err)
	assert.Equal(t, entity.LeadContacted, updated.Status)

	_, err = svc.SetLeadStatus(ctx, 1, lead.ID, "archived")
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest))
	_, err = svc.SetLeadStatus(ctx, 2, lead.ID, entity.LeadWon)
	assert.True(t, errorbank.IsKind(err, errorbank.KindNotFound))

	rows, total, err := svc.ListLeads(ctx, repo.ListQuery{ProviderID: 1, Status: "contacted"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, lead.ID, rows[0].ID)
	_, _, err = svc.ListLeads(ctx, repo.ListQuery{ProviderID: 1, Status: "bogus"})
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest))
}

func TestEmployeesAndCases(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	emp, err := svc.CreateEmployee(ctx, 1, EmployeeInput{Name: "Rosa", Role: "coordinadora", RUT: "11.111.111-1", Active: true})
	require.NoError(t, err)
	_, err = svc.CreateEmployee(ctx, 1, EmployeeInput{Name: ""})
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest))

	c, err := svc.CreateCase(ctx, 1, CaseInput{DeceasedName: "Luis Soto", AssigneeID: emp.ID, Client: entity.Client{Name: "Marta", Email: "MARTA@mail.cl"}})
	require.NoError(t, err)
	assert.Equal(t, entity.CaseOpen, c.Status)
	assert.Equal(t, "marta@mail.cl", c.Client.Email)

	_, err = svc.CreateCase(ctx, 2, CaseInput{DeceasedName: "Otro", AssigneeID: emp.ID})
	assert.True(t, errorbank.IsKind(err, errorbank.KindBadRequest), "assignee belongs to another provider")

	c, err = svc.UpdateCase(ctx, 1, c.ID, CaseInput{DeceasedName: "Luis Soto", Status: entity.CaseClosed})
	require.NoError(t, err)
	assert.Equal(t, entity.CaseClosed, c.Status)
	assert.Zero(t, c.AssigneeID)

	rows, total, err := svc.ListCases(ctx, repo.ListQuery{ProviderID: 1, Text: "soto"})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, rows, 1)

	require.NoError(t, svc.DeleteCase(ctx, 1, c.ID))
	assert.True(t, errorbank.IsKind(svc.DeleteCase(ctx, 1, c.ID), errorbank.KindNotFound))
	require.NoError(t, svc.DeleteEmployee(ctx, 1, emp.ID))
}
