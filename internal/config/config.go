package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const (
	EnvPrefix = "STOREFRONT"

	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
	DriverSQLite   = "sqlite"
)

type Config struct {
	App      AppConfig
	Storage  StorageConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	SQLite   SQLiteConfig
	Shop     ShopConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"STOREFRONT_APP_ENV" default:"dev"`
	Port         string `envconfig:"STOREFRONT_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"STOREFRONT_LOG_LEVEL" default:"info"`
	LogFormat    string `envconfig:"STOREFRONT_LOG_FORMAT" default:"json"`
	LogWarnStack bool   `envconfig:"STOREFRONT_LOG_WARN_STACK" default:"false"`
}

type StorageConfig struct {
	Driver string `envconfig:"STOREFRONT_STORAGE_DRIVER" default:"memory"`
	// Slot is the base slot name, the web server appends the session id.
	Slot string `envconfig:"STOREFRONT_STORAGE_SLOT" default:"cart"`
}

type PostgresConfig struct {
	DSN         string `envconfig:"STOREFRONT_POSTGRES_DSN"`
	AutoMigrate bool   `envconfig:"STOREFRONT_POSTGRES_AUTO_MIGRATE" default:"true"`
}

type RedisConfig struct {
	URL          string        `envconfig:"STOREFRONT_REDIS_URL"`
	Address      string        `envconfig:"STOREFRONT_REDIS_ADDR"`
	Password     string        `envconfig:"STOREFRONT_REDIS_PASSWORD"`
	DB           int           `envconfig:"STOREFRONT_REDIS_DB" default:"0"`
	Namespace    string        `envconfig:"STOREFRONT_REDIS_NAMESPACE" default:"storefront"`
	PoolSize     int           `envconfig:"STOREFRONT_REDIS_POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"STOREFRONT_REDIS_READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"STOREFRONT_REDIS_WRITE_TIMEOUT" default:"3s"`
}

type SQLiteConfig struct {
	Path string `envconfig:"STOREFRONT_SQLITE_PATH" default:"storefront.db"`
}

type ShopConfig struct {
	Currency              string          `envconfig:"STOREFRONT_SHOP_CURRENCY" default:"USD"`
	FreeShippingThreshold decimal.Decimal `envconfig:"STOREFRONT_SHOP_FREE_SHIPPING_THRESHOLD" default:"50.00"`
	FlatShippingFee       decimal.Decimal `envconfig:"STOREFRONT_SHOP_FLAT_SHIPPING_FEE" default:"5.99"`
}

// CurrencyUnit parses Currency, call Validate first.
func (s ShopConfig) CurrencyUnit() currency.Unit {
	unit, err := currency.ParseISO(strings.TrimSpace(s.Currency))
	if err != nil {
		return currency.USD
	}
	return unit
}

func (c *Config) Validate() error {
	c.Storage.Driver = strings.ToLower(strings.TrimSpace(c.Storage.Driver))

	switch c.Storage.Driver {
	case DriverMemory:
	case DriverPostgres:
		if c.Postgres.DSN == "" {
			return fmt.Errorf("%s_POSTGRES_DSN is required for the postgres driver", EnvPrefix)
		}
	case DriverRedis:
		if c.Redis.URL == "" && c.Redis.Address == "" {
			return fmt.Errorf("either %s_REDIS_URL or %s_REDIS_ADDR is required for the redis driver", EnvPrefix, EnvPrefix)
		}
	case DriverSQLite:
		if strings.TrimSpace(c.SQLite.Path) == "" {
			return fmt.Errorf("%s_SQLITE_PATH is required for the sqlite driver", EnvPrefix)
		}
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}

	if strings.TrimSpace(c.Storage.Slot) == "" {
		return fmt.Errorf("%s_STORAGE_SLOT is empty", EnvPrefix)
	}

	if _, err := currency.ParseISO(strings.TrimSpace(c.Shop.Currency)); err != nil {
		return fmt.Errorf("currency[%s] is not valid: %w", c.Shop.Currency, err)
	}
	if c.Shop.FreeShippingThreshold.IsNegative() || c.Shop.FlatShippingFee.IsNegative() {
		return fmt.Errorf("shipping amounts must not be negative")
	}

	return nil
}
