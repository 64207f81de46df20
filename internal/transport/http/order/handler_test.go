package order

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
	"github.com/Additional-Code/funerarias/internal/domain/quote/pdf/gofpdf"
	"github.com/Additional-Code/funerarias/internal/entity"
	"github.com/Additional-Code/funerarias/internal/messaging"
	repo "github.com/Additional-Code/funerarias/internal/repository/order"
	providerrepo "github.com/Additional-Code/funerarias/internal/repository/provider"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	service "github.com/Additional-Code/funerarias/internal/service/order"
	"github.com/Additional-Code/funerarias/internal/testutil"
)

const orderBody = `{"client":{"name":"María Pérez"},"items":[{"name":"Urna","quantity":1,"unit_price":100000}],"tax_rate":19}`

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Meta  map[string]any  `json:"meta"`
	Error struct {
		Kind string `json:"kind"`
	} `json:"error"`
}

func newServer(t *testing.T) (*echo.Echo, *messaging.Recorder) {
	t.Helper()
	conns := testutil.SQLite(t)
	testutil.Insert(t, conns.Writer, &entity.Provider{ID: 1, Slug: "paz", Name: "Funeraria Paz", RUT: "76.086.428-5", Active: true})

	var cfg config.Config
	cfg.Business = config.Business{DefaultTaxRate: 19, DefaultPageSize: 20, MaxPageSize: 100}
	bus := messaging.NewRecorder("events")
	svc := service.NewService(service.Params{
		Repository: repo.NewRepository(conns),
		Providers:  providerrepo.NewRepository(conns),
		Cache:      cache.NewMemory(time.Minute),
		Config:     cfg,
		Logger:     zap.NewNop(),
		Publisher:  bus,
		PDF:        gofpdf.New(),
	})
	e := echo.New()
	Register(httpserver.NewRoutes(e, cfg), NewHandler(svc))
	return e, bus
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	if rec.Body.Len() > 0 && strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestOrderLifecycle(t *testing.T) {
	e, bus := newServer(t)

	rec, env := do(t, e, http.MethodPost, "/dashboard/1/orders", orderBody)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var order entity.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, entity.OrderDraft, order.Status)
	assert.Equal(t, 119000.0, order.Total)
	assert.Equal(t, []string{messaging.EventOrderCreated}, bus.Events())

	path := "/dashboard/1/orders/" + strconv.FormatInt(order.ID, 10)

	rec, _ = do(t, e, http.MethodPatch, path+"/status", `{"status":"completed"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	for _, status := range []string{"confirmed", "in_progress"} {
		rec, env = do(t, e, http.MethodPatch, path+"/status", `{"status":"`+status+`"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
	require.NoError(t, json.Unmarshal(env.Data, &order))
	assert.Equal(t, entity.OrderInProgress, order.Status)

	rec, _ = do(t, e, http.MethodPut, path, orderBody)
	assert.Equal(t, http.StatusConflict, rec.Code, "in-progress orders are locked")

	rec, _ = do(t, e, http.MethodGet, path+"/pdf", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))

	rec, env = do(t, e, http.MethodGet, "/dashboard/1/orders?status=in_progress", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, env.Meta["total"])

	rec, _ = do(t, e, http.MethodGet, "/dashboard/1/orders?status=shipped", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderScoping(t *testing.T) {
	e, _ := newServer(t)

	rec, env := do(t, e, http.MethodPost, "/dashboard/1/orders", orderBody)
	require.Equal(t, http.StatusCreated, rec.Code)
	var order entity.Order
	require.NoError(t, json.Unmarshal(env.Data, &order))
	id := strconv.FormatInt(order.ID, 10)

	rec, env = do(t, e, http.MethodGet, "/dashboard/2/orders/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", env.Error.Kind)

	rec, _ = do(t, e, http.MethodDelete, "/dashboard/2/orders/"+id, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, e, http.MethodDelete, "/dashboard/1/orders/"+id, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}
