// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"net"
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Fetch    FetchConfig
	Store    StoreConfig
	Audit    AuditConfig
	Table    TableConfig
	Rate     RateLimitConfig
	Security SecurityConfig
	Logging  LoggingConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" default:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envAlt:"PORT" default:"8080"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" default:"15s"`

	// WriteTimeout is the maximum duration for writing response (default: 30s)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" default:"30s"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" default:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`

	// RequestTimeout is the middleware timeout for requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" default:"60s"`

	// MaxBodyBytes caps JSON and text request bodies (default: 10MB)
	MaxBodyBytes int64 `env:"SERVER_MAX_BODY_BYTES" default:"10485760"`
}

// FetchConfig holds settings for building tables from remote URLs.
type FetchConfig struct {
	// Timeout bounds a single fetch, including reading the body (default: 30s)
	Timeout time.Duration `env:"FETCH_TIMEOUT" default:"30s"`

	// MaxBodyBytes is the largest response accepted (default: 50MB)
	MaxBodyBytes int64 `env:"FETCH_MAX_BODY_BYTES" default:"52428800"`

	// MaxConcurrent is the maximum number of parallel fetches (default: 4)
	MaxConcurrent int `env:"FETCH_MAX_CONCURRENT" default:"4"`

	// MaxWaitTime is how long to wait for a fetch slot (default: 15s)
	MaxWaitTime time.Duration `env:"FETCH_MAX_WAIT_TIME" default:"15s"`

	// UserAgent is sent with every fetch request
	UserAgent string `env:"FETCH_USER_AGENT" default:"tabular/1.0"`

	// DenyPrivate refuses fetches from loopback and private addresses (default: true)
	DenyPrivate bool `env:"FETCH_DENY_PRIVATE" default:"true"`

	// DeniedNetworks is a comma-separated list of further CIDRs or
	// addresses the server must not fetch from
	DeniedNetworks []string `env:"FETCH_DENIED_NETWORKS"`
}

// StoreConfig holds settings for the in-memory table store.
type StoreConfig struct {
	// MaxTables is the maximum number of tables held at once; 0 means unlimited (default: 1000)
	MaxTables int `env:"STORE_MAX_TABLES" default:"1000"`
}

// AuditConfig holds settings for the table history log.
type AuditConfig struct {
	// MaxEntries caps the entries kept in memory; the oldest go first (default: 10000)
	MaxEntries int `env:"AUDIT_MAX_ENTRIES" default:"10000"`

	// Retention is how long entries are kept; 0 keeps them until evicted (default: 24h)
	Retention time.Duration `env:"AUDIT_RETENTION" default:"24h"`

	// PruneInterval is how often expired entries are removed (default: 10m)
	PruneInterval time.Duration `env:"AUDIT_PRUNE_INTERVAL" default:"10m"`
}

// TableConfig holds per-table defaults and size caps.
type TableConfig struct {
	// DefaultFormat is the delimited-text format: auto, csv or tsv (default: auto)
	DefaultFormat string `env:"TABLE_DEFAULT_FORMAT" default:"auto"`

	// RollingNeighbors is the default rolling-mean half window (default: 1)
	RollingNeighbors int `env:"TABLE_ROLLING_NEIGHBORS" default:"1"`

	// MaxRows caps the rows of a stored table; 0 means unlimited (default: 1000000)
	MaxRows int `env:"TABLE_MAX_ROWS" default:"1000000"`

	// MaxColumns caps the columns of a stored table; 0 means unlimited (default: 10000)
	MaxColumns int `env:"TABLE_MAX_COLUMNS" default:"10000"`
}

// RateLimitConfig holds rate limiting settings per time window.
type RateLimitConfig struct {
	// Enabled controls whether rate limiting is active (default: true)
	Enabled bool `env:"RATE_LIMIT_ENABLED" default:"true"`

	// RequestsPerMinute is the default rate limit per IP (default: 100)
	RequestsPerMinute int `env:"RATE_LIMIT_REQUESTS_PER_MINUTE" default:"100"`

	// FetchLimit is requests per minute for the fetch endpoint (default: 10)
	FetchLimit int `env:"RATE_LIMIT_FETCH" default:"10"`
}

// SecurityConfig holds security-related settings.
type SecurityConfig struct {
	// TrustedProxies is a comma-separated list of proxy CIDRs whose
	// forwarding headers are believed
	TrustedProxies []string `env:"TRUSTED_PROXIES"`

	// EnableCSP enables Content-Security-Policy headers (default: true)
	EnableCSP bool `env:"SECURITY_ENABLE_CSP" default:"true"`

	// RequireAPIKey guards table-changing API routes with X-API-Key (default: false)
	RequireAPIKey bool `env:"SECURITY_REQUIRE_API_KEY" default:"false"`

	// APIKeys is a comma-separated list of accepted keys
	APIKeys []string `env:"SECURITY_API_KEYS"`
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
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}
