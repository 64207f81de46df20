package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaults(t *testing.T) {
	t.Setenv("MESSAGING_ENABLED", "false")
	t.Setenv("CACHE_ENABLED", "false")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, "noop", cfg.Cache.Driver)
	assert.Equal(t, "noop", cfg.Messaging.Driver)
	assert.Equal(t, cfg.Database.WriterDSN, cfg.Database.ReaderDSN)
	assert.Equal(t, 19.0, cfg.Business.DefaultTaxRate)
	assert.Equal(t, "CLP", cfg.Business.Currency)
	assert.Equal(t, "send-marketing-email", cfg.Functions.MarketingEmailName)
	assert.Equal(t, "funeraria-logos", cfg.Storage.Buckets.Logos)
	assert.Equal(t, int64(5<<20), cfg.Storage.MaxUploadSize)
}

func TestNewOverrides(t *testing.T) {
	t.Setenv("MESSAGING_ENABLED", "false")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("BUSINESS_DEFAULT_TAX_RATE", "10.5")
	t.Setenv("BUSINESS_DIRECTORY_TTL", "2m")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("STORAGE_PUBLIC_BASE_URL", "https://cdn.example.cl/")
	t.Setenv("FUNCTIONS_BASE_URL", "https://project.functions.example/")
	t.Setenv("OBS_PROMETHEUS_PATH", "metrics")
	t.Setenv("BUSINESS_MAX_COMPARE", "1")

	cfg, err := New()
	require.NoError(t, err)

	assert.Equal(t, 10.5, cfg.Business.DefaultTaxRate)
	assert.Equal(t, 2*time.Minute, cfg.Business.DirectoryTTL)
	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "https://cdn.example.cl", cfg.Storage.PublicBaseURL)
	assert.Equal(t, "https://project.functions.example", cfg.Functions.BaseURL)
	assert.Equal(t, "/metrics", cfg.Observability.PrometheusPath)
	assert.Equal(t, 2, cfg.Business.MaxCompare)
}

func TestNewRejectsInvalidValues(t *testing.T) {
	t.Setenv("MESSAGING_ENABLED", "false")
	t.Setenv("CACHE_ENABLED", "false")

	t.Run("tax rate", func(t *testing.T) {
		t.Setenv("BUSINESS_DEFAULT_TAX_RATE", "120")
		_, err := New()
		assert.Error(t, err)
	})
	t.Run("storage driver", func(t *testing.T) {
		t.Setenv("STORAGE_DRIVER", "ftp")
		_, err := New()
		assert.Error(t, err)
	})
	t.Run("database driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "oracle")
		_, err := New()
		assert.Error(t, err)
	})
	t.Run("http port", func(t *testing.T) {
		t.Setenv("HTTP_PORT", "0")
		_, err := New()
		assert.Error(t, err)
	})
}

func TestBusinessPage(t *testing.T) {
	b := Business{DefaultPageSize: 20, MaxPageSize: 100}

	limit, offset := b.Page(0, -3)
	assert.Equal(t, 20, limit)
	assert.Equal(t, 0, offset)

	limit, offset = b.Page(500, 40)
	assert.Equal(t, 100, limit)
	assert.Equal(t, 40, offset)
}
