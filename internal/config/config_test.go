package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "3000", cfg.App.Port)
	assert.Equal(t, 10*time.Second, cfg.Sale.Timeout)
	assert.False(t, cfg.Sale.TrustClientPrice)
	assert.Equal(t, 20, cfg.Reports.LowStockThreshold)
	assert.Equal(t, 5, cfg.HTTP.LoginRateLimit)
	assert.Equal(t, 15*time.Minute, cfg.HTTP.LoginRateWindow)
	assert.Equal(t, 100, cfg.HTTP.APIRateLimit)
	assert.Equal(t, time.Minute, cfg.HTTP.APIRateWindow)
	assert.Len(t, cfg.HTTP.AllowedOrigins, 4)
	assert.Contains(t, cfg.DB.DSN(), "host=localhost")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/pos")
	t.Setenv("SALE_TIMEOUT", "3s")
	t.Setenv("SALE_TRUST_CLIENT_PRICE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example,https://b.example")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "postgres://u:p@db:5432/pos", cfg.DB.DSN())
	assert.Equal(t, 3*time.Second, cfg.Sale.Timeout)
	assert.True(t, cfg.Sale.TrustClientPrice)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(path, []byte("LOW_STOCK_THRESHOLD=7\n"), 0o600))
	t.Setenv("LOW_STOCK_THRESHOLD", "")
	os.Unsetenv("LOW_STOCK_THRESHOLD")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 7, cfg.Reports.LowStockThreshold)
}

func TestLoadMissingEnvFileIsFine(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	assert.NoError(t, err)
}

func TestLoadRejectsInvalidTimeout(t *testing.T) {
	t.Setenv("SALE_TIMEOUT", "0s")
	_, err := Load("")
	assert.Error(t, err)
}
