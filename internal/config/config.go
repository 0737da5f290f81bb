// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :8080).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN; required by cmd/server, cmd/migrate, and cmd/seed.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// AuthSecret is the process-wide signing secret for access tokens. Absence is a
	// configuration error surfaced on first token issue/verify, not probed at startup.
	AuthSecret string `mapstructure:"AUTH_SECRET"`
	// AccessTokenTTL is the access token lifetime (e.g. "15m").
	AccessTokenTTL string `mapstructure:"ACCESS_TOKEN_TTL"`
	// RefreshTokenTTL is the refresh secret lifetime (e.g. "720h" = 30d), sliding on rotation.
	RefreshTokenTTL string `mapstructure:"REFRESH_TOKEN_TTL"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12. Used for passwords and refresh secrets.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// RedisAddr enables Redis-backed login/refresh throttling when set (e.g. localhost:6379).
	RedisAddr string `mapstructure:"REDIS_ADDR"`
	// MaxLoginAttempts is the per-email and per-IP failed-login budget within the cooldown window.
	MaxLoginAttempts int `mapstructure:"MAX_LOGIN_ATTEMPTS"`
	// LoginCooldown is the fixed window for the failed-login counters (e.g. "15m").
	LoginCooldown string `mapstructure:"LOGIN_COOLDOWN"`
	// MaxRefreshAttempts is the per-session refresh budget within the cooldown window.
	MaxRefreshAttempts int `mapstructure:"MAX_REFRESH_ATTEMPTS"`
	// RefreshCooldown is the fixed window for the refresh counters (e.g. "1m").
	RefreshCooldown string `mapstructure:"REFRESH_COOLDOWN"`
	// OTLPEndpoint is the OTLP gRPC collector endpoint (e.g. http://localhost:4317); empty disables telemetry export.
	OTLPEndpoint string `mapstructure:"OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext OTLP export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTLP_INSECURE"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("AUTH_SECRET", "")
	v.SetDefault("ACCESS_TOKEN_TTL", "15m")
	v.SetDefault("REFRESH_TOKEN_TTL", "720h") // 30d
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("MAX_LOGIN_ATTEMPTS", 10)
	v.SetDefault("LOGIN_COOLDOWN", "15m")
	v.SetDefault("MAX_REFRESH_ATTEMPTS", 30)
	v.SetDefault("REFRESH_COOLDOWN", "1m")
	v.SetDefault("OTLP_ENDPOINT", "")
	v.SetDefault("OTLP_INSECURE", false)
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}

	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// AccessTTL parses AccessTokenTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.AccessTokenTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// RefreshTTL parses RefreshTokenTTL as a time.Duration. Returns 720h if unset or invalid.
func (c *Config) RefreshTTL() time.Duration {
	d, err := time.ParseDuration(c.RefreshTokenTTL)
	if err != nil || d <= 0 {
		return 720 * time.Hour
	}
	return d
}

// LoginCooldownDuration parses LoginCooldown. Returns 15m if unset or invalid.
func (c *Config) LoginCooldownDuration() time.Duration {
	d, err := time.ParseDuration(c.LoginCooldown)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// RefreshCooldownDuration parses RefreshCooldown. Returns 1m if unset or invalid.
func (c *Config) RefreshCooldownDuration() time.Duration {
	d, err := time.ParseDuration(c.RefreshCooldown)
	if err != nil || d <= 0 {
		return time.Minute
	}
	return d
}
