package catalog

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
	repo "github.com/Additional-Code/funerarias/internal/repository/catalog"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
	service "github.com/Additional-Code/funerarias/internal/service/catalog"
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

	var cfg config.Config
	cfg.Business = config.Business{DefaultPageSize: 20, MaxPageSize: 100}
	svc := service.NewService(service.Params{
		Repository: repo.NewRepository(conns),
		Cache:      cache.NewMemory(time.Minute),
		Config:     cfg,
		Logger:     zap.NewNop(),
	})
	e := echo.New()
	Register(httpserver.NewRoutes(e, cfg), NewHandler(svc))
	return e
}

func do(t *testing.T, e *echo.Echo, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	var env envelope
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

func TestProducts(t *testing.T) {
	e := newServer(t)

	rec, env := do(t, e, http.MethodPost, "/dashboard/1/products", `{"name":"Ataúd roble","category":"ATAUD","price":450000,"stock":3}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var coffin entity.Product
	require.NoError(t, json.Unmarshal(env.Data, &coffin))
	assert.Equal(t, entity.CategoryCoffin, coffin.Category)
	assert.True(t, coffin.Active)

	rec, _ = do(t, e, http.MethodPost, "/dashboard/1/products", `{"name":"Urna","category":"urna","price":90000,"active":false}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec, env = do(t, e, http.MethodPost, "/dashboard/1/products", `{"name":"Lápida","category":"piedra"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", env.Error.Kind)

	rec, _ = do(t, e, http.MethodPost, "/dashboard/1/products", `{"name":"Urna","category":"urna","price":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, e, http.MethodGet, "/dashboard/1/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 2, env.Meta["total"])

	rec, env = do(t, e, http.MethodGet, "/providers/1/products", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, env.Meta["total"], "inactive products stay off the public catalog")

	rec, env = do(t, e, http.MethodGet, "/dashboard/1/products?category=urna", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, env.Meta["total"])

	rec, _ = do(t, e, http.MethodGet, "/dashboard/1/products?category=piedra", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	path := "/dashboard/1/products/" + strconv.FormatInt(coffin.ID, 10)
	rec, env = do(t, e, http.MethodPut, path, `{"name":"Ataúd roble","category":"ataud","price":420000}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(env.Data, &coffin))
	assert.Equal(t, 420000.0, coffin.Price)

	rec, _ = do(t, e, http.MethodGet, "/dashboard/2/products/"+strconv.FormatInt(coffin.ID, 10), "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = do(t, e, http.MethodDelete, path, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = do(t, e, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServices(t *testing.T) {
	e := newServer(t)

	rec, env := do(t, e, http.MethodPost, "/dashboard/1/services", `{"name":"Traslado regional","category":"traslado","price":120000,"duration_min":180}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var svc entity.Service
	require.NoError(t, json.Unmarshal(env.Data, &svc))
	assert.Equal(t, 180, svc.DurationMin)

	rec, _ = do(t, e, http.MethodPost, "/dashboard/1/services", `{"name":"Velatorio","category":"velatorio","duration_min":-5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, env = do(t, e, http.MethodGet, "/providers/1/services?q=traslado", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, env.Meta["total"])

	rec, _ = do(t, e, http.MethodGet, "/providers/abc/services", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
