package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Additional-Code/funerarias/pkg/errorbank"
)

func newContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	c.Response().Header().Set(echo.HeaderXRequestID, "req-1")
	return c, rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPageKeepsEmptyList(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, New(c).Page([]string{}, 0))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, []any{}, body["data"])
	assert.Equal(t, map[string]any{"total": 0.0, "request_id": "req-1"}, body["meta"])
	assert.NotContains(t, body, "error")
}

func TestErrorUsesKindStatus(t *testing.T) {
	c, rec := newContext()
	err := errorbank.Conflict("order already invoiced", errorbank.WithDetail("folio", 7))
	require.NoError(t, New(c).WithStatus(http.StatusCreated).WithData("ignored").WithError(err).Build())

	assert.Equal(t, http.StatusConflict, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Nil(t, body["data"])
	assert.Equal(t, map[string]any{
		"kind":    "conflict",
		"message": "order already invoiced",
		"details": map[string]any{"folio": 7.0},
	}, body["error"])
}

func TestUnknownErrorsHideCause(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, New(c).WithError(errors.New("pq: connection refused")).Build())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "connection refused")
}

func TestPDF(t *testing.T) {
	c, rec := newContext()
	require.NoError(t, PDF(c, "COT-1.pdf", []byte("%PDF-1.3")))

	assert.Equal(t, "application/pdf", rec.Header().Get(echo.HeaderContentType))
	assert.Equal(t, `attachment; filename="COT-1.pdf"`, rec.Header().Get(echo.HeaderContentDisposition))
}
