package config_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/bodega/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, filepath.Join("data", "productos.json"), cfg.Storage.CatalogPath)
	assert.Equal(t, "logs", cfg.Storage.AuditDir)
	assert.Equal(t, config.PolicyFallback, cfg.Storage.CorruptionPolicy)
	assert.Equal(t, 30, cfg.Inventory.ExpiryWindowDays)
	assert.Equal(t, 5, cfg.Inventory.AuditRecentDays)
}

func TestLoad_VariablesDeEntorno(t *testing.T) {
	t.Setenv("DATA_DIR", "/srv/bodega")
	t.Setenv("CORRUPTION_POLICY", "FAIL")
	t.Setenv("EXPIRY_WINDOW_DAYS", "45")
	t.Setenv("VOUCHER_DIR", "/srv/bodega/comprobantes")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, filepath.Join("/srv/bodega", "productos.json"), cfg.Storage.CatalogPath)
	assert.Equal(t, config.PolicyFail, cfg.Storage.CorruptionPolicy)
	assert.Equal(t, 45, cfg.Inventory.ExpiryWindowDays)
	assert.Equal(t, "/srv/bodega/comprobantes", cfg.Storage.VoucherDir)
}

func TestLoad_PoliticaInvalida(t *testing.T) {
	t.Setenv("CORRUPTION_POLICY", "ignorar")
	_, err := config.Load()
	assert.Error(t, err)
}

func TestLoad_VentanaDeVencimientoInvalida(t *testing.T) {
	for _, v := range []string{"0", "-3"} {
		t.Run(v, func(t *testing.T) {
			t.Setenv("EXPIRY_WINDOW_DAYS", v)
			_, err := config.Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "EXPIRY_WINDOW_DAYS")
		})
	}
}
