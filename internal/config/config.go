package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Storage drivers accepted by STORAGE_DRIVER.
const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
	DriverMongo  = "mongo"
)

var ErrInvalidConfig = errors.New("invalid config")

var configFiles = []string{".env", "config.env", filepath.Join("config", "config.env")}

// Config is read from env vars, optionally backed by a .env or config.env file.
type Config struct {
	App           AppConfig
	Catalog       CatalogConfig
	Storage       StorageConfig
	CatalogServer CatalogServerConfig
}

type AppConfig struct {
	Env      string // development, production
	LogLevel string
}

// CatalogConfig points the cart at the storefront's REST catalog.
type CatalogConfig struct {
	BaseURL string
	Timeout time.Duration
}

type StorageConfig struct {
	Driver string
	Key    string // namespace the cart is stored under
	Redis  RedisConfig
	Mongo  MongoConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type MongoConfig struct {
	URI    string
	DBName string
}

// CatalogServerConfig configures the bundled sqlite-backed catalog.
type CatalogServerConfig struct {
	Port           int
	DBPath         string
	MigrationsPath string
}

func (c CatalogServerConfig) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load reads the configuration. Env vars win over file values.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("env")

	// later files override earlier ones, all of them are optional
	for _, path := range configFiles {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		v.SetConfigFile(path)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("%w: read %s: %v", ErrInvalidConfig, path, err)
		}
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	cfg := &Config{
		App: AppConfig{
			Env:      v.GetString("APP_ENV"),
			LogLevel: v.GetString("LOG_LEVEL"),
		},
		Catalog: CatalogConfig{
			BaseURL: strings.TrimRight(v.GetString("CATALOG_BASE_URL"), "/"),
			Timeout: v.GetDuration("CATALOG_TIMEOUT"),
		},
		Storage: StorageConfig{
			Driver: strings.ToLower(v.GetString("STORAGE_DRIVER")),
			Key:    v.GetString("STORAGE_KEY"),
			Redis: RedisConfig{
				Addr:     v.GetString("REDIS_ADDR"),
				Password: v.GetString("REDIS_PASSWORD"),
				DB:       v.GetInt("REDIS_DB"),
			},
			Mongo: MongoConfig{
				URI:    v.GetString("MONGO_URI"),
				DBName: v.GetString("MONGO_DB_NAME"),
			},
		},
		CatalogServer: CatalogServerConfig{
			Port:           v.GetInt("CATALOG_SERVER_PORT"),
			DBPath:         v.GetString("CATALOG_DB_PATH"),
			MigrationsPath: v.GetString("CATALOG_MIGRATIONS_PATH"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("CATALOG_BASE_URL", "http://localhost:3333")
	v.SetDefault("CATALOG_TIMEOUT", 5*time.Second)
	v.SetDefault("STORAGE_DRIVER", DriverRedis)
	v.SetDefault("STORAGE_KEY", "@RocketShoes:cart")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB_NAME", "cart_store")
	v.SetDefault("CATALOG_SERVER_PORT", 3333)
	v.SetDefault("CATALOG_DB_PATH", "./catalog.db")
	v.SetDefault("CATALOG_MIGRATIONS_PATH", "./internal/catalog/repository/migrations")
}

func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverRedis, DriverMongo:
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Storage.Key == "" {
		return fmt.Errorf("%w: storage key is empty", ErrInvalidConfig)
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("%w: catalog base url is empty", ErrInvalidConfig)
	}
	if c.Catalog.Timeout <= 0 {
		return fmt.Errorf("%w: catalog timeout must be positive", ErrInvalidConfig)
	}
	return nil
}
