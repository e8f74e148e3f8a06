package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Store drivers accepted in STORE_DRIVER.
const (
	StoreSQLite = "sqlite"
	StoreRedis  = "redis"
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port      string `env:"PORT,      default=8787"`
	Host      string `env:"HOST,      default=127.0.0.1"`
	Env       string `env:"ENV,       default=development"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`
	LogPretty bool   `env:"LOG_PRETTY, default=false"`

	Gateway GatewayConfig
	Store   StoreConfig
	Search  SearchConfig
	Mongo   MongoConfig
	Redis   RedisConfig
}

type GatewayConfig struct {
	BaseURL string        `env:"MARKET_API_URL,     default=https://future-makers-market-backend.onrender.com/api/v1"`
	Timeout time.Duration `env:"MARKET_API_TIMEOUT, default=15s"`
}

type StoreConfig struct {
	Driver     string `env:"STORE_DRIVER, default=sqlite"`
	SQLitePath string `env:"SQLITE_PATH,  default=market-client.db"`
}

type SearchConfig struct {
	CacheSize int           `env:"SEARCH_CACHE_SIZE, default=64"`
	CacheTTL  time.Duration `env:"SEARCH_CACHE_TTL,  default=5m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=market_client"`
}

type RedisConfig struct {
	Addr   string `env:"REDIS_ADDR,   default=localhost:6379"`
	DB     int    `env:"REDIS_DB,     default=0"`
	Prefix string `env:"REDIS_PREFIX, default=market"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Store.Driver {
	case StoreSQLite, StoreRedis, StoreMongo, StoreMemory:
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.Gateway.BaseURL == "" {
		return fmt.Errorf("MARKET_API_URL must not be empty")
	}
	return nil
}

// Addr is the listen address of the view-boundary API.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}
