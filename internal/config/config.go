// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Encoding is the binary-to-text encoding used for session tokens and DH key
// material exposed over text interfaces.
type Encoding string

const (
	EncodingBase64 Encoding = "base64"
	EncodingHex    Encoding = "hex"
)

// Config holds application configuration loaded from the environment.
// It is built once at startup and passed by reference; fields are never
// mutated after Load returns.
type Config struct {
	// HTTPAddr is the address the HTTP server listens on (e.g. :3000).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// SessionLength is the standard session lifetime in seconds (default 3600).
	SessionLength int64 `mapstructure:"SESSION_LENGTH"`
	// ExtendedSessionLength is the extended ("remember me") session lifetime in seconds (default 30 days).
	ExtendedSessionLength int64 `mapstructure:"EXTENDED_SESSION_LENGTH"`
	// DHPrimeBits is the bit length of the shared Diffie-Hellman prime (default 2048).
	DHPrimeBits int `mapstructure:"DH_PRIME_BITS"`
	// TokenEncoding selects base64 or hex for tokens and keys on text interfaces (default base64).
	TokenEncoding string `mapstructure:"ENCODING"`
	// BcryptCost is the bcrypt cost factor (4–31); default 12.
	BcryptCost int `mapstructure:"BCRYPT_COST"`
	// OTLPEndpoint is the OTLP trace collector endpoint; tracing is disabled when empty.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
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

	v.SetDefault("HTTP_ADDR", ":3000")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("SESSION_LENGTH", 3600)
	v.SetDefault("EXTENDED_SESSION_LENGTH", 3600*24*30)
	v.SetDefault("DH_PRIME_BITS", 2048)
	v.SetDefault("ENCODING", string(EncodingBase64))
	v.SetDefault("BCRYPT_COST", 12)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.HTTPAddr == "" {
		return nil, errors.New("config: HTTP_ADDR must be set")
	}
	if cfg.SessionLength <= 0 {
		return nil, errors.New("config: SESSION_LENGTH must be positive")
	}
	if cfg.ExtendedSessionLength < cfg.SessionLength {
		return nil, errors.New("config: EXTENDED_SESSION_LENGTH must not be shorter than SESSION_LENGTH")
	}
	if cfg.DHPrimeBits < 512 {
		return nil, errors.New("config: DH_PRIME_BITS must be at least 512")
	}
	switch Encoding(cfg.TokenEncoding) {
	case EncodingBase64, EncodingHex:
	default:
		return nil, fmt.Errorf("config: ENCODING must be base64 or hex, got %q", cfg.TokenEncoding)
	}
	if cfg.BcryptCost == 0 {
		cfg.BcryptCost = 12
	}
	if cfg.BcryptCost < 4 || cfg.BcryptCost > 31 {
		return nil, errors.New("config: BCRYPT_COST must be between 4 and 31")
	}

	return &cfg, nil
}

// SessionTTL returns the standard session lifetime as a duration.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionLength) * time.Second
}

// ExtendedSessionTTL returns the extended session lifetime as a duration.
func (c *Config) ExtendedSessionTTL() time.Duration {
	return time.Duration(c.ExtendedSessionLength) * time.Second
}

// Encoding returns the configured binary-to-text encoding.
func (c *Config) Encoding() Encoding {
	return Encoding(c.TokenEncoding)
}
