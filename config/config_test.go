package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "stockledger.yml")
	content := `
system:
  workdir: ` + dir + `
  location: UTC
web:
  port: 2020
database:
  type: postgres
  name: shop
store:
  catalog: rest
  ledger: database
  timeout_seconds: 3
  rest:
    base_url: http://localhost:3000
sale:
  card_surcharge_rate: "0.025"
reconcile:
  journal: bolt
  max_retry: 5
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o644))

	cfg, err := LoadConfig(cfile)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.System.Workdir)
	assert.Equal(t, "UTC", cfg.System.Location)
	assert.Equal(t, 2020, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "rest", cfg.Store.Catalog)
	assert.Equal(t, "http://localhost:3000", cfg.Store.Rest.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout())
	assert.Equal(t, "0.025", cfg.Sale.CardSurchargeRate)
	assert.Equal(t, "bolt", cfg.Reconcile.Journal)
	assert.Equal(t, 5, cfg.Reconcile.MaxRetry)

	// untouched sections keep defaults
	assert.Equal(t, "LKR", cfg.System.Currency)
	assert.Equal(t, 30*time.Minute, cfg.DraftTTL())
	assert.Equal(t, time.Minute, cfg.ReconcileInterval())

	assert.DirExists(t, cfg.GetLogDir())
	assert.DirExists(t, cfg.GetDataDir())
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("STOCKLEDGER_SYSTEM_WORKER_DIR", dir)
	t.Setenv("STOCKLEDGER_WEB_PORT", "9090")
	t.Setenv("STOCKLEDGER_DB_DEBUG", "true")
	t.Setenv("STOCKLEDGER_STORE_TIMEOUT", "not-a-number")
	t.Setenv("STOCKLEDGER_CARD_SURCHARGE_RATE", "0.05")

	cfg, err := LoadConfig(filepath.Join(dir, "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.System.Workdir)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.True(t, cfg.Database.Debug)
	assert.Equal(t, 10, cfg.Store.TimeoutSeconds)
	assert.Equal(t, "0.05", cfg.Sale.CardSurchargeRate)
}

func TestDurationsFallBackWhenUnset(t *testing.T) {
	cfg := &AppConfig{}
	assert.Equal(t, 10*time.Second, cfg.StoreTimeout())
	assert.Equal(t, 30*time.Minute, cfg.DraftTTL())
	assert.Equal(t, time.Minute, cfg.ReconcileInterval())
	assert.Equal(t, 2*time.Minute, cfg.ReconcileGrace())
}

func TestNotifyEnabled(t *testing.T) {
	assert.False(t, NotifyConfig{}.Enabled())
	assert.False(t, NotifyConfig{SmtpHost: "smtp.local"}.Enabled())
	assert.True(t, NotifyConfig{SmtpHost: "smtp.local", To: "ops@example.com"}.Enabled())
}
