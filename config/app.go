package config

import (
	"sync"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// AppConfig holds global application configuration
var AppConfig *Config
var once sync.Once

type Config struct {
	App        AppSettings
	Warehouse  WarehouseSettings
	Storefront StorefrontSettings
	Sync       SyncSettings
}

// AppSettings holds application-level settings.
type AppSettings struct {
	Name     string `envconfig:"APP_NAME" default:"stocksync"`
	Port     string `envconfig:"PORT" default:"8080"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// WarehouseSettings holds the Warehouse Inventory API connection settings.
type WarehouseSettings struct {
	BaseURL     string        `envconfig:"WAREHOUSE_API_URL" default:"https://wms.example.com"`
	Token       string        `envconfig:"WAREHOUSE_API_TOKEN" default:""`
	Timeout     time.Duration `envconfig:"WAREHOUSE_API_TIMEOUT" default:"10s"`
	MaxAttempts int           `envconfig:"WAREHOUSE_MAX_ATTEMPTS" default:"3"`
}

// StorefrontSettings holds the Storefront Inventory API connection settings.
type StorefrontSettings struct {
	Shop       string        `envconfig:"STOREFRONT_SHOP" default:""`
	Token      string        `envconfig:"STOREFRONT_ACCESS_TOKEN" default:""`
	APIVersion string        `envconfig:"STOREFRONT_API_VERSION" default:"2024-07"`
	Timeout    time.Duration `envconfig:"STOREFRONT_API_TIMEOUT" default:"10s"`
}

// SyncSettings holds pull-sync engine settings.
type SyncSettings struct {
	JobName     string        `envconfig:"SYNC_JOB_NAME" default:"warehouse-sync"`
	MappingFile string        `envconfig:"SKU_MAPPING_FILE" default:"mapping.yaml"`
	Lookback    time.Duration `envconfig:"SYNC_DEFAULT_LOOKBACK" default:"15m"`
	Schedule    string        `envconfig:"SYNC_CRON_SCHEDULE" default:"@every 5m"`
	ESIndex     string        `envconfig:"SYNC_AUDIT_ES_INDEX" default:""`
}

// LoadAppConfig initializes the global AppConfig variable
func LoadAppConfig() {
	once.Do(func() {
		var cfg Config
		if err := envconfig.Process("", &cfg); err != nil {
			panic("config: " + err.Error())
		}
		AppConfig = &cfg
	})
}

// IsProduction returns true if running in production mode.
func (a *AppSettings) IsProduction() bool {
	return a.Env == "production"
}
