package functions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/config"
)

func newTestClient(baseURL string) *Client {
	var cfg config.Config
	cfg.Functions.BaseURL = baseURL
	cfg.Functions.ServiceKey = "service-key"
	cfg.Functions.Timeout = time.Second
	return NewClient(cfg, zap.NewNop())
}

func TestInvokeSendsHeadersAndDecodes(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/functions/v1/send-marketing-email", r.URL.Path)
		assert.Equal(t, "service-key", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service-key", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "Hola", body["subject"])

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"sent":3}`))
	}))
	defer srv.Close()

	var out struct {
		Sent int `json:"sent"`
	}
	err := newTestClient(srv.URL+"/").Invoke(context.Background(), "send-marketing-email", map[string]string{"subject": "Hola"}, &out)
	require.NoError(t, err)
	assert.Equal(t, 3, out.Sent)
	assert.Equal(t, 1, calls)
}

func TestInvokeDoesNotRetryOnFailure(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := newTestClient(srv.URL).Invoke(context.Background(), "fn", nil, nil)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Status)
	assert.Equal(t, "boom", statusErr.Body)
	assert.Equal(t, 1, calls)
}

func TestInvokeNotConfigured(t *testing.T) {
	err := newTestClient("").Invoke(context.Background(), "fn", nil, nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}
