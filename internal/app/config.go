package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`

	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// RedisAddr empty runs an in-process Redis.
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	SessionSecret string        `envconfig:"SESSION_SECRET"`
	SessionTTL    time.Duration `envconfig:"SESSION_TTL" default:"720h"`

	CSRFSecret string `envconfig:"CSRF_SECRET"`

	GotenbergURL string `envconfig:"GOTENBERG_URL"`

	LoadingDelay    time.Duration `envconfig:"DASHBOARD_LOADING_DELAY" default:"1200ms"`
	ViewIdleTTL     time.Duration `envconfig:"DASHBOARD_VIEW_IDLE_TTL" default:"30m"`
	ViewSweepPeriod time.Duration `envconfig:"DASHBOARD_VIEW_SWEEP_INTERVAL" default:"1m"`
	ExportCacheTTL  time.Duration `envconfig:"EXPORT_CACHE_TTL" default:"10m"`
	EmbedHosts      []string      `envconfig:"EMBED_HOSTS" default:"https://app.powerbi.com"`
}

const (
	devSessionSecret = "energydash-dev-session"
	devCSRFSecret    = "energydash-dev-csrf"
)

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.applySecrets(); err != nil {
		return nil, err
	}
	if cfg.LoadingDelay < 0 {
		return nil, errors.New("dashboard loading delay must not be negative")
	}
	return &cfg, nil
}

func (c *Config) applySecrets() error {
	if c.SessionSecret == "" {
		if c.IsProduction() {
			return errors.New("session secret must be provided")
		}
		c.SessionSecret = devSessionSecret
	}
	if c.CSRFSecret == "" {
		if c.IsProduction() {
			return errors.New("csrf secret must be provided")
		}
		c.CSRFSecret = devCSRFSecret
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
