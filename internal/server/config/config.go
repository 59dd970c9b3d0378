// Package config handles configuration for the promptkeeper server,
// including defaults, JSON overlay, environment variables and command-line flags.
package config

import (
	"errors"
	"os"
	"time"
)

// MemoryDSN selects the in-process user store instead of PostgreSQL.
const MemoryDSN = "memory://"

// Config holds runtime settings for the server. It is built once at startup
// and treated as read-only afterwards.
//
// Fields:
//   - EndpointAddrHTTP: bind address for the HTTP API.
//   - DatabaseDSN: PostgreSQL DSN (pgx), or MemoryDSN.
//   - SecretKey: HMAC secret for signing session tokens (HS256).
//   - TokenValidityDuration: session token lifetime.
//   - LogLevel: debug, info, warn or error.
//   - ShutdownTimeout: grace period for in-flight requests on shutdown.
type Config struct {
	EndpointAddrHTTP      string
	DatabaseDSN           string
	SecretKey             string
	TokenValidityDuration time.Duration
	LogLevel              string
	ShutdownTimeout       time.Duration
}

// LoadDefaults populates Config with development defaults. The signing secret
// and DSN are left empty on purpose: they must be supplied explicitly.
func (c *Config) LoadDefaults() {
	c.EndpointAddrHTTP = ":4000"
	c.TokenValidityDuration = 24 * time.Hour
	c.LogLevel = "info"
	c.ShutdownTimeout = 10 * time.Second
}

// Validate reports configuration that makes it impossible to serve.
func (c *Config) Validate() error {
	var errs []error
	if c.SecretKey == "" {
		errs = append(errs, errors.New("signing secret is not set (JWT_SECRET or -s)"))
	}
	if c.DatabaseDSN == "" {
		errs = append(errs, errors.New("database DSN is not set (DATABASE_URL or -d)"))
	}
	if c.TokenValidityDuration <= 0 {
		errs = append(errs, errors.New("token validity must be positive"))
	}
	return errors.Join(errs...)
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, the environment and finally command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}

// cmdArgs returns the process arguments without the program name.
func cmdArgs() []string {
	if len(os.Args) < 2 {
		return nil
	}
	return os.Args[1:]
}
