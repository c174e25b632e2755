package config

import (
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/hexsocial/internal/client/api"
	"github.com/go-playground/validator/v10"
)

// Durable backends.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config holds runtime settings for the HexSocial CLI.
//
// Units: all durations are time.Duration values.
type Config struct {
	APIBaseURL     string        `env:"API_URL" validate:"required,url"`
	DataDir        string        `env:"DATA_DIR"`
	DurableBackend string        `env:"DURABLE_BACKEND" validate:"oneof=sqlite redis"`
	RedisAddr      string        `env:"REDIS_ADDR" validate:"required_if=DurableBackend redis"`
	RedisPassword  string        `env:"REDIS_PASSWORD"`
	RedisDB        int           `env:"REDIS_DB" validate:"gte=0"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT" validate:"gt=0"`
	CacheTTL       time.Duration `env:"CACHE_TTL" validate:"gte=0"`
	WatchInterval  time.Duration `env:"WATCH_INTERVAL" validate:"gt=0"`
	LogLevel       string        `env:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`

	// MetricsAddr, when set, serves Prometheus metrics on host:port/metrics.
	MetricsAddr string `env:"METRICS_ADDR" validate:"omitempty,hostname_port"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = api.DefaultBaseURL
	c.DataDir = ""
	c.DurableBackend = BackendSQLite
	c.RedisAddr = "localhost:6379"
	c.RedisPassword = ""
	c.RedisDB = 0
	c.RequestTimeout = 15 * time.Second
	c.CacheTTL = 30 * time.Second
	c.WatchInterval = time.Second
	c.LogLevel = "warn"
	c.MetricsAddr = ""
}

// Validate reports the first set of invalid fields.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present), the environment and command-line flags. Later sources
// take precedence over earlier ones.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:], ".env")
}

func load(args []string, dotenv string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseJSON(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg, dotenv); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
