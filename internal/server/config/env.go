package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

// EnvConfig lists the environment variables the server understands.
// MONGODB_URL is accepted as a legacy alias of DATABASE_URL; PORT is a
// shorthand for ADDRESS=":<port>".
type EnvConfig struct {
	Address     string        `env:"ADDRESS"`
	Port        string        `env:"PORT"`
	DatabaseURL string        `env:"DATABASE_URL"`
	MongoDBURL  string        `env:"MONGODB_URL"`
	SecretKey   string        `env:"JWT_SECRET"`
	TokenTTL    time.Duration `env:"TOKEN_TTL"`
	LogLevel    string        `env:"LOG_LEVEL"`
}

// parseEnv overlays values present in the environment.
func parseEnv(config *Config) {
	var e EnvConfig
	if err := env.Parse(&e); err != nil {
		panic(err)
	}

	if e.Port != "" {
		config.EndpointAddrHTTP = ":" + e.Port
	}
	setString(&config.EndpointAddrHTTP, e.Address)
	setString(&config.DatabaseDSN, e.MongoDBURL)
	setString(&config.DatabaseDSN, e.DatabaseURL)
	setString(&config.SecretKey, e.SecretKey)
	setString(&config.LogLevel, e.LogLevel)
	if e.TokenTTL > 0 {
		config.TokenValidityDuration = e.TokenTTL
	}
}
