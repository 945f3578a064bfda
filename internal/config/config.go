// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Convert  ConvertConfig
	Results  ResultsConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 127.0.0.1)
	Host string `env:"SERVER_HOST" default:"127.0.0.1"`

	// Port is the port to listen on; PORT is read when unset (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 60s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"60s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`
}

// ConvertConfig holds conversion pipeline settings.
type ConvertConfig struct {
	// MaxInputSize is the maximum accepted input in bytes (default: 10MB)
	MaxInputSize int64 `env:"CONVERT_MAX_INPUT_SIZE" default:"10485760"`

	// MaxConcurrent is the maximum number of parallel conversions (default: 8)
	MaxConcurrent int `env:"CONVERT_MAX_CONCURRENT" default:"8"`

	// MaxWaitTime is how long to wait for a conversion slot (default: 10s)
	MaxWaitTime time.Duration `env:"CONVERT_MAX_WAIT_TIME" default:"10s"`

	// PadColumn is the header whose values are zero-padded (default: Wafer)
	PadColumn string `env:"CONVERT_PAD_COLUMN" default:"Wafer"`

	// PadFallbackIndex is the column padded when PadColumn is absent (default: 1)
	PadFallbackIndex int `env:"CONVERT_PAD_FALLBACK_INDEX" default:"1"`

	// PadName is the header of the appended padded column (default: Wafer_Padded)
	PadName string `env:"CONVERT_PAD_NAME" default:"Wafer_Padded"`

	// PadWidth is the minimum digit width of padded values (default: 2)
	PadWidth int `env:"CONVERT_PAD_WIDTH" default:"2"`
}

// ResultsConfig holds settings for the in-memory conversion result store.
type ResultsConfig struct {
	// TTL is how long a result stays downloadable (default: 30m)
	TTL time.Duration `env:"RESULT_TTL" default:"30m"`

	// MaxEntries caps the number of stored results (default: 256)
	MaxEntries int `env:"RESULT_MAX_ENTRIES" default:"256"`

	// SweepInterval is how often expired results are removed (default: 1m)
	SweepInterval time.Duration `env:"RESULT_SWEEP_INTERVAL" default:"1m"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the rate limit per IP (default: 120)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"120"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of trusted proxy CIDRs
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey protects /api routes with the X-API-Key header (default: false)
	RequireAPIKey bool `env:"REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted API keys
	APIKeys []string `env:"API_KEYS"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}
