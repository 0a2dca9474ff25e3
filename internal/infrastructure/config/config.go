// Package config loads process configuration from the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Database DatabaseConfig
	JWT      JWTConfig
	Redis    RedisConfig
	Rehash   RehashConfig
}

type DatabaseConfig struct {
	URL         string `env:"DATABASE_URL, required"`
	MaxConns    int32  `env:"DATABASE_MAX_CONNS,    default=10"`
	AutoMigrate bool   `env:"DATABASE_AUTO_MIGRATE, default=true"`
}

type JWTConfig struct {
	SecretKey         string `env:"JWT_SECRET_KEY, required"`
	Algorithm         string `env:"JWT_ALGORITHM,          default=HS256"`
	ExpirationMinutes int    `env:"JWT_EXPIRATION_MINUTES, default=30"`
}

// TokenTTL is the lifetime of issued access tokens.
func (c JWTConfig) TokenTTL() time.Duration {
	return time.Duration(c.ExpirationMinutes) * time.Minute
}

// RedisConfig is optional. An empty Addr disables the login rate limiter.
type RedisConfig struct {
	Addr            string        `env:"REDIS_ADDR"`
	Password        string        `env:"REDIS_PASSWORD"`
	DB              int           `env:"REDIS_DB,          default=0"`
	LoginRateLimit  int           `env:"LOGIN_RATE_LIMIT,  default=10"`
	LoginRateWindow time.Duration `env:"LOGIN_RATE_WINDOW, default=1m"`
}

func (c RedisConfig) Enabled() bool {
	return c.Addr != ""
}

type RehashConfig struct {
	Workers int `env:"REHASH_WORKERS, default=4"`
}

// IsDevelopment reports whether human-friendly logging should be used.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Load reads configuration through lookuper, or from the process
// environment when lookuper is nil, and validates it.
func Load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	if lookuper == nil {
		lookuper = envconfig.OsLookuper()
	}

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
	var errs []error

	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT must be a TCP port, got %q", c.Port))
	}
	if c.Database.MaxConns <= 0 {
		errs = append(errs, errors.New("DATABASE_MAX_CONNS must be positive"))
	}
	switch c.JWT.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		errs = append(errs, fmt.Errorf("JWT_ALGORITHM %q is not supported", c.JWT.Algorithm))
	}
	if c.JWT.ExpirationMinutes <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_MINUTES must be positive"))
	}
	if c.Redis.Enabled() {
		if c.Redis.LoginRateLimit <= 0 {
			errs = append(errs, errors.New("LOGIN_RATE_LIMIT must be positive"))
		}
		if c.Redis.LoginRateWindow <= 0 {
			errs = append(errs, errors.New("LOGIN_RATE_WINDOW must be positive"))
		}
	}
	if c.Rehash.Workers < 0 {
		errs = append(errs, errors.New("REHASH_WORKERS must not be negative"))
	}

	return errors.Join(errs...)
}
