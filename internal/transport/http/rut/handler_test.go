package rut

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	echo "github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/funerarias/internal/config"
	httpserver "github.com/Additional-Code/funerarias/internal/server/http"
)

func TestCheck(t *testing.T) {
	got := Check("123456785")
	assert.True(t, got.Valid)
	assert.Equal(t, "12.345.678-5", got.Formatted)
	assert.Equal(t, "5", got.CheckDigit)

	got = Check("12.345.678-K")
	assert.False(t, got.Valid)
	assert.Empty(t, got.Formatted)
	assert.Equal(t, "5", got.CheckDigit)

	assert.False(t, Check("x").Valid)
}

func TestValidateRoute(t *testing.T) {
	e := echo.New()
	Register(httpserver.NewRoutes(e, config.Config{}))

	post := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/rut/validate", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	rec := post(`{"rut":"76086428-5"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"formatted":"76.086.428-5"`)
	assert.Contains(t, rec.Body.String(), `"valid":true`)

	rec = post(`{"rut":"76086428-1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":false`)

	assert.Equal(t, http.StatusBadRequest, post(`{}`).Code)
	assert.Equal(t, http.StatusBadRequest, post(`{`).Code)
}
