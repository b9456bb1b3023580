package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Session backends selectable through SESSION_BACKEND.
const (
	SessionBackendMemory = "memory"
	SessionBackendRedis  = "redis"
	SessionBackendMongo  = "mongo"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET, required"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Session     SessionConfig
	CRM         CRMConfig
	Aggregation AggregationConfig
	Mongo       MongoConfig
	Redis       RedisConfig
}

type SessionConfig struct {
	TTL     time.Duration `env:"SESSION_TTL,     default=24h"`
	Backend string        `env:"SESSION_BACKEND, default=redis"`
}

type CRMConfig struct {
	BaseURL  string        `env:"CRM_API_BASE_URL,   default=http://localhost:8081"`
	Timeout  time.Duration `env:"CRM_API_TIMEOUT,    default=10s"`
	PageSize int           `env:"CUSTOMER_PAGE_SIZE, default=10"`
}

type AggregationConfig struct {
	// Concurrency bounds the per-customer interaction fetches of one pass.
	Concurrency int `env:"AGGREGATION_CONCURRENCY, default=8"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=crm_console"`
}

type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR,     default=localhost:6379"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB,       default=0"`
}

// IsProduction reports whether the service runs with ENV=production.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// Validate rejects settings that would only fail later at runtime.
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case SessionBackendMemory, SessionBackendRedis, SessionBackendMongo:
	default:
		return fmt.Errorf("config: unknown SESSION_BACKEND %q", c.Session.Backend)
	}
	if c.CRM.PageSize <= 0 {
		return fmt.Errorf("config: CUSTOMER_PAGE_SIZE must be positive, got %d", c.CRM.PageSize)
	}
	if c.Aggregation.Concurrency <= 0 {
		return fmt.Errorf("config: AGGREGATION_CONCURRENCY must be positive, got %d", c.Aggregation.Concurrency)
	}
	return nil
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	cfg, err := LoadFrom(context.Background(), envconfig.OsLookuper())
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

// LoadFrom reads configuration through lookuper and validates it.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
