package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"

	"github.com/Additional-Code/funerarias/internal/config"
)

func TestPrometheusHandlerUsesPrivateRegistry(t *testing.T) {
	var cfg config.Config
	cfg.Observability = config.Observability{
		ServiceName:     "funerarias",
		EnableMetrics:   true,
		MetricsExporter: "prometheus",
		PrometheusPath:  "/metrics",
	}
	lc := fxtest.NewLifecycle(t)
	mgr, err := NewManager(lc, cfg, zap.NewNop())
	require.NoError(t, err)
	require.True(t, mgr.MetricsEnabled())
	assert.False(t, mgr.TracingEnabled())
	lc.RequireStart()
	defer lc.RequireStop()

	counter, err := mgr.MeterProvider().Meter("test").Int64Counter("quotes.previewed")
	require.NoError(t, err)
	counter.Add(context.Background(), 3)

	rec := httptest.NewRecorder()
	mgr.MetricsHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, "quotes_previewed_total")
}

func TestMetricsDisabled(t *testing.T) {
	var cfg config.Config
	cfg.Observability.ServiceName = "funerarias"
	mgr, err := NewManager(fxtest.NewLifecycle(t), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, mgr.MetricsEnabled())
	assert.Nil(t, mgr.MetricsHandler())
	assert.Nil(t, mgr.MeterProvider())
}

func TestSampler(t *testing.T) {
	assert.Contains(t, sampler(1).Description(), "AlwaysOnSampler")
	assert.Contains(t, sampler(0).Description(), "AlwaysOffSampler")
	assert.Contains(t, sampler(0.25).Description(), "TraceIDRatioBased{0.25}")
	var _ trace.Sampler = sampler(0.5)
}
