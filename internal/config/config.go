package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Service holds the HTTP front-end settings.
type Service struct {
	Environment string `envconfig:"SERVICE_ENVIRONMENT" default:"development"`
	APIPort     string `envconfig:"SERVICE_API_PORT" default:"8080"`
	Host        string `envconfig:"SERVICE_HOST" default:"localhost:8080"`
}

// Vendor holds the measurement API settings.
type Vendor struct {
	AuthURL    string `envconfig:"S360_AUTH_URL" default:"https://auth.substation360ig.co.uk/api/token"`
	BaseURL    string `envconfig:"S360_BASE_URL" default:"https://integration.substation360ig.co.uk/api"`
	Username   string `envconfig:"S360_USERNAME" required:"true"`
	Password   string `envconfig:"S360_PASSWORD" required:"true"`
	VerifySSL  bool   `envconfig:"S360_VERIFY_SSL" default:"true"`
	CACertPath string `envconfig:"S360_CA_CERT_PATH"`
}

// Postgres holds the primary store settings.
type Postgres struct {
	URL string `envconfig:"DATABASE_URL" required:"true"`
}

// Cloud holds the optional secondary (replication target) settings.
type Cloud struct {
	Enabled         bool   `envconfig:"ENABLE_CLOUD_SINK" default:"false"`
	URL             string `envconfig:"CLOUD_DB_URL"`
	SyncTables      string `envconfig:"CLOUD_SYNC_TABLES" default:"instrument,voltage_mean_30m,current_mean_30m"`
	SyncSinceHours  int    `envconfig:"CLOUD_SYNC_SINCE_HOURS" default:"24"`
	SyncIntervalMin int    `envconfig:"CLOUD_SYNC_INTERVAL_MIN" default:"60"`
	SyncHealthPort  string `envconfig:"CLOUD_SYNC_HEALTH_PORT" default:"8081"`
}

// Config is the full service configuration, loaded from the environment.
type Config struct {
	Service  Service
	Vendor   Vendor
	Postgres Postgres
	Cloud    Cloud
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	return &cfg, nil
}
