package crm

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	echo "github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/cache"
	"github.com/Additional-Code/funerarias/internal/config"
	"github.com/Additional-Code/funerarias/internal/entity"
	repo "github.com/Additional-Code/funerarias/internal/repository/crm"
	providerrepo "github.com/Additional-Code/funerarias/internal/repository/provider"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	service "github.com/Additional-Code/funerarias/internal/service/crm"
	"github.com/Additional-Code/funerarias/internal/testutil"
)

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Kind string `json:"kind"`
	} `json:"error"`
}

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	conns := testutil.SQLite(t)
	testutil.Insert(t, conns.Writer,
		&entity.Provider{ID: 1, Slug: "paz", Name: "Funeraria Paz", RUT: "76.086.428-5", Active: true},
		&entity.Provider{ID: 2, Slug: "sur", Name: "Funeraria Sur", RUT: "11.111.111-1", Active: true},
	)
	var cfg config.Config
	cfg.Business = config.Business{DefaultPageSize: 20, MaxPageSize: 100}
	svc := service.NewService(service.Params{
		Repository: repo.NewRepository(conns),
		Providers:  providerrepo.NewRepository(conns),
		Cache:      cache.NewMemory(time.Minute),
		Config:     cfg,
		Logger:     zap.NewNop(),
	})
	e := echo.New()
	Register(httpserver.NewRoutes(e, cfg), NewHandler(svc))
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	}
	return rec.Code, env
}

func TestPublicLead(t *testing.T) {
	e := newServer(t)

	code, env := do(t, e, http.MethodPost, "/leads", `{"provider_id":1,"name":"Ana Soto","email":"ANA@mail.cl","message":"Necesito cotizar"}`)
	require.Equal(t, http.StatusCreated, code)
	var lead entity.Lead
	require.NoError(t, json.Unmarshal(env.Data, &lead))
	assert.Equal(t, "ana@mail.cl", lead.Email)
	assert.Equal(t, entity.LeadNew, lead.Status)
	assert.Equal(t, "web", lead.Source)

	code, _ = do(t, e, http.MethodPost, "/leads", `{"provider_id":1,"name":"Ana"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	code, env = do(t, e, http.MethodPost, "/leads", `{"provider_id":99,"name":"Ana","phone":"+56911111111"}`)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "not_found", env.Error.Kind)

	code, env = do(t, e, http.MethodGet, "/dashboard/1/leads", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, env.Meta["total"])

	path := "/dashboard/1/leads/" + strconv.FormatInt(lead.ID, 10)
	code, env = do(t, e, http.MethodPatch, path+"/status", `{"status":"contacted"}`)
	require.Equal(t, http.StatusOK, code)
	require.NoError(t, json.Unmarshal(env.Data, &lead))
	assert.Equal(t, entity.LeadContacted, lead.Status)

	code, _ = do(t, e, http.MethodPatch, path+"/status", `{"status":"archived"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, e, http.MethodGet, "/dashboard/2/leads/"+strconv.FormatInt(lead.ID, 10), "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestEmployeesAndCases(t *testing.T) {
	e := newServer(t)

	code, env := do(t, e, http.MethodPost, "/dashboard/1/employees", `{"name":"Pedro Rojas","rut":"123456785","role":"agente"}`)
	require.Equal(t, http.StatusCreated, code)
	var emp entity.Employee
	require.NoError(t, json.Unmarshal(env.Data, &emp))
	assert.True(t, emp.Active)
	assert.Equal(t, "12.345.678-5", emp.RUT)

	code, env = do(t, e, http.MethodPost, "/dashboard/2/employees", `{"name":"Otra Persona"}`)
	require.Equal(t, http.StatusCreated, code)
	var foreign entity.Employee
	require.NoError(t, json.Unmarshal(env.Data, &foreign))

	body := `{"deceased_name":"Juan Pérez","client":{"name":"María Pérez"},"service_date":"2026-05-02","assignee_id":` + strconv.FormatInt(emp.ID, 10) + `}`
	code, env = do(t, e, http.MethodPost, "/dashboard/1/cases", body)
	require.Equal(t, http.StatusCreated, code, string(env.Data))
	var fc entity.Case
	require.NoError(t, json.Unmarshal(env.Data, &fc))
	assert.Equal(t, entity.CaseOpen, fc.Status)
	assert.Equal(t, emp.ID, fc.AssigneeID)

	body = `{"deceased_name":"Juan Pérez","client":{"name":"María"},"assignee_id":` + strconv.FormatInt(foreign.ID, 10) + `}`
	code, _ = do(t, e, http.MethodPost, "/dashboard/1/cases", body)
	assert.Equal(t, http.StatusBadRequest, code)

	code, env = do(t, e, http.MethodGet, "/dashboard/1/cases?q=juan", "")
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 1, env.Meta["total"])

	code, _ = do(t, e, http.MethodDelete, "/dashboard/1/employees/"+strconv.FormatInt(foreign.ID, 10), "")
	assert.Equal(t, http.StatusNotFound, code)
	code, _ = do(t, e, http.MethodDelete, "/dashboard/1/cases/"+strconv.FormatInt(fc.ID, 10), "")
	assert.Equal(t, http.StatusNoContent, code)
}
