package config

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Políticas ante un catálogo o log ilegible.
const (
	PolicyFallback = "fallback" // se trata como colección vacía (comportamiento histórico)
	PolicyFail     = "fail"     // se informa el error al llamador
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App       AppConfig
	Storage   StorageConfig
	Inventory InventoryConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env      string // development, staging, production
	Name     string
	LogLevel string
}

// StorageConfig rutas de persistencia. Todas son relativas a DataDir salvo que se den absolutas.
type StorageConfig struct {
	DataDir          string
	CatalogPath      string // JSON con el arreglo de lotes
	AuditDir         string // un archivo auditoria_YYYY-MM-DD.log por día
	VoucherDir       string // vacío = no se generan comprobantes PDF
	CorruptionPolicy string // fallback | fail
}

// InventoryConfig parámetros de alertas y visualización.
type InventoryConfig struct {
	ExpiryWindowDays int // días hacia adelante para "por vencer"
	AuditRecentDays  int // días de log a listar
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, DATA_DIR, CATALOG_PATH, etc.
func Load() (*Config, error) {
	v := viper.New()

	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	dataDir := getString(v, "DATA_DIR", "data")
	cfg := &Config{
		App: AppConfig{
			Env:      getString(v, "APP_ENV", "development"),
			Name:     getString(v, "APP_NAME", "bodega"),
			LogLevel: getString(v, "LOG_LEVEL", "info"),
		},
		Storage: StorageConfig{
			DataDir:          dataDir,
			CatalogPath:      underDir(dataDir, getString(v, "CATALOG_PATH", "productos.json")),
			AuditDir:         getString(v, "AUDIT_DIR", "logs"),
			VoucherDir:       getString(v, "VOUCHER_DIR", ""),
			CorruptionPolicy: strings.ToLower(getString(v, "CORRUPTION_POLICY", PolicyFallback)),
		},
		Inventory: InventoryConfig{
			ExpiryWindowDays: getInt(v, "EXPIRY_WINDOW_DAYS", 30),
			AuditRecentDays:  getInt(v, "AUDIT_RECENT_DAYS", 5),
		},
	}

	switch cfg.Storage.CorruptionPolicy {
	case PolicyFallback, PolicyFail:
	default:
		return nil, fmt.Errorf("config: CORRUPTION_POLICY inválida %q (fallback|fail)", cfg.Storage.CorruptionPolicy)
	}
	if cfg.Inventory.ExpiryWindowDays < 1 {
		return nil, fmt.Errorf("config: EXPIRY_WINDOW_DAYS debe ser al menos 1, se recibió %d", cfg.Inventory.ExpiryWindowDays)
	}
	if cfg.Inventory.AuditRecentDays <= 0 {
		cfg.Inventory.AuditRecentDays = 5
	}
	return cfg, nil
}

// underDir resuelve p dentro de dir cuando p es relativo y no incluye directorio propio.
func underDir(dir, p string) string {
	if filepath.IsAbs(p) || filepath.Dir(p) != "." {
		return p
	}
	return filepath.Join(dir, p)
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(strings.TrimSpace(v.GetString(key)))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
