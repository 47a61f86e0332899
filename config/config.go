package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string `env:"APP_ENV" envDefault:"production"`
	Port   string `env:"PORT" envDefault:"8080"`

	// MYSQL_URL wins over DATABASE_URL; both win over the DB_* parts.
	MySQLURL         string        `env:"MYSQL_URL"`
	DatabaseURL      string        `env:"DATABASE_URL"`
	DBUser           string        `env:"DB_USER" envDefault:"root"`
	DBPass           string        `env:"DB_PASS"`
	DBHost           string        `env:"DB_HOST" envDefault:"127.0.0.1"`
	DBPort           string        `env:"DB_PORT" envDefault:"3306"`
	DBName           string        `env:"DB_NAME" envDefault:"hotel_db"`
	DBConnectTimeout time.Duration `env:"DB_CONNECT_TIMEOUT" envDefault:"2m"`
	DBSeed           bool          `env:"DB_SEED" envDefault:"true"`

	CORSOrigins string `env:"CORS_ORIGINS"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`

	FXBaseURL     string        `env:"FX_BASE_URL" envDefault:"https://open.er-api.com"`
	FXCacheTTL    time.Duration `env:"FX_CACHE_TTL" envDefault:"1h"`
	FXStaleWindow time.Duration `env:"FX_STALE_WINDOW" envDefault:"24h"`
	FXTimeout     time.Duration `env:"FX_TIMEOUT" envDefault:"10s"`

	VATFallbackPercentage float64 `env:"VAT_FALLBACK_PERCENTAGE" envDefault:"7"`
}

// Load reads .env when present and parses the environment into Config.
// The returned bool reports whether a .env file was loaded.
func Load() (*Config, bool, error) {
	loaded := godotenv.Load() == nil

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, loaded, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, loaded, err
	}
	return &cfg, loaded, nil
}

func (c *Config) validate() error {
	if c.VATFallbackPercentage < 0 || c.VATFallbackPercentage > 100 {
		return fmt.Errorf("VAT_FALLBACK_PERCENTAGE must be within 0-100, got %v", c.VATFallbackPercentage)
	}
	if c.FXCacheTTL <= 0 {
		return fmt.Errorf("FX_CACHE_TTL must be positive")
	}
	if c.FXStaleWindow < c.FXCacheTTL {
		c.FXStaleWindow = c.FXCacheTTL
	}
	c.FXBaseURL = strings.TrimRight(strings.TrimSpace(c.FXBaseURL), "/")
	if c.FXBaseURL == "" {
		return fmt.Errorf("FX_BASE_URL must not be empty")
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	switch strings.ToLower(c.AppEnv) {
	case "development", "dev":
		return true
	}
	return false
}
