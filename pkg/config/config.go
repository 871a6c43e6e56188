package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	App      AppConfig
	DB       DBConfig
	KV       KVConfig
	Redis    RedisConfig
	Checkout CheckoutConfig
	Catalog  CatalogConfig
	Tracking TrackingConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.KV.validate(); err != nil {
		return nil, err
	}
	if err := cfg.DB.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env             string `envconfig:"LUNCHWISE_APP_ENV" default:"development"`
	Port            string `envconfig:"LUNCHWISE_APP_PORT" default:"8080"`
	LogLevel        string `envconfig:"LUNCHWISE_LOG_LEVEL" default:"info"`
	LogWarnStack    bool   `envconfig:"LUNCHWISE_LOG_WARN_STACK" default:"false"`
	DefaultLanguage string `envconfig:"LUNCHWISE_DEFAULT_LANGUAGE" default:"en"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	Driver string `envconfig:"LUNCHWISE_DB_DRIVER" default:"sqlite"`
	DSN    string `envconfig:"LUNCHWISE_DB_DSN" default:"file:lunchwise.db?cache=shared"`

	MaxOpenConns    int           `envconfig:"LUNCHWISE_DB_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `envconfig:"LUNCHWISE_DB_MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetime time.Duration `envconfig:"LUNCHWISE_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"LUNCHWISE_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

func (db DBConfig) validate() error {
	switch db.Driver {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported db driver %q", db.Driver)
	}
	if db.DSN == "" {
		return fmt.Errorf("%s is required", EnvDBDSN)
	}
	return nil
}

// KVConfig selects the key-value backend used for session snapshots.
type KVConfig struct {
	Backend    string        `envconfig:"LUNCHWISE_KV_BACKEND" default:"memory"`
	SessionTTL time.Duration `envconfig:"LUNCHWISE_KV_SESSION_TTL" default:"24h"`
}

func (kv KVConfig) validate() error {
	switch kv.Backend {
	case "memory", "redis":
		return nil
	}
	return fmt.Errorf("unsupported kv backend %q", kv.Backend)
}

type RedisConfig struct {
	URL          string        `envconfig:"LUNCHWISE_REDIS_URL"`
	Address      string        `envconfig:"LUNCHWISE_REDIS_ADDR"`
	Password     string        `envconfig:"LUNCHWISE_REDIS_PASSWORD"`
	DB           int           `envconfig:"LUNCHWISE_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"LUNCHWISE_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"LUNCHWISE_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"LUNCHWISE_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"LUNCHWISE_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"LUNCHWISE_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CheckoutConfig carries the simulated-gateway policy and timer durations.
type CheckoutConfig struct {
	AuthWindow      time.Duration `envconfig:"LUNCHWISE_CHECKOUT_AUTH_WINDOW" default:"5m"`
	RevealDelay     time.Duration `envconfig:"LUNCHWISE_CHECKOUT_REVEAL_DELAY" default:"2s"`
	ProcessingDelay time.Duration `envconfig:"LUNCHWISE_CHECKOUT_PROCESSING_DELAY" default:"3s"`
	RedirectDelay   time.Duration `envconfig:"LUNCHWISE_CHECKOUT_REDIRECT_DELAY" default:"2s"`

	ApprovedCard     string `envconfig:"LUNCHWISE_CHECKOUT_APPROVED_CARD" default:"4242424242424242"`
	ApprovedPassword string `envconfig:"LUNCHWISE_CHECKOUT_APPROVED_PASSWORD" default:"123456"`

	// SandboxCards pass the Luhn check unconditionally when the bypass is
	// enabled. Keep the bypass off in production.
	SandboxBypass bool     `envconfig:"LUNCHWISE_CHECKOUT_SANDBOX_BYPASS" default:"true"`
	SandboxCards  []string `envconfig:"LUNCHWISE_CHECKOUT_SANDBOX_CARDS" default:"4242424242424242"`
}

type CatalogConfig struct {
	BaseURL string        `envconfig:"LUNCHWISE_CATALOG_BASE_URL"`
	Timeout time.Duration `envconfig:"LUNCHWISE_CATALOG_TIMEOUT" default:"5s"`
}

type TrackingConfig struct {
	Sinks []string `envconfig:"LUNCHWISE_TRACKING_SINKS" default:"log"`
}
