package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envKeys = []string{"ADDRESS", "PORT", "DATABASE_URL", "MONGODB_URL", "JWT_SECRET", "TOKEN_TTL", "LOG_LEVEL", "CONFIG"}

// unsetEnv removes keys for the duration of the test.
func unsetEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		if v, ok := os.LookupEnv(k); ok {
			require.NoError(t, os.Unsetenv(k))
			t.Cleanup(func() { _ = os.Setenv(k, v) })
		}
	}
}

func withArgs(t *testing.T, args ...string) {
	t.Helper()
	orig := os.Args
	t.Cleanup(func() { os.Args = orig })
	os.Args = append([]string{"testbin"}, args...)
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":4000", c.EndpointAddrHTTP)
	assert.Empty(t, c.DatabaseDSN)
	assert.Empty(t, c.SecretKey)
	assert.Equal(t, 24*time.Hour, c.TokenValidityDuration)
	assert.Equal(t, "info", c.LogLevel)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	unsetEnv(t, envKeys...)
	withArgs(t)

	c := LoadConfig()
	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":4000", c.EndpointAddrHTTP)
	assert.Equal(t, 24*time.Hour, c.TokenValidityDuration)
	assert.Error(t, c.Validate(), "defaults alone must not be servable")
}

func TestLoadConfig_Precedence(t *testing.T) {
	unsetEnv(t, envKeys...)
	path := writeTempJSON(t, t.TempDir(), "cfg.json", map[string]any{
		"endpoint_addr_http": ":7000",
		"database_dsn":       "postgres://file",
		"secret_key":         "from-file",
	})
	t.Setenv("JWT_SECRET", "from-env")
	withArgs(t, "-c", path, "-a", ":9000")

	c := LoadConfig()

	assert.Equal(t, ":9000", c.EndpointAddrHTTP, "flag beats file")
	assert.Equal(t, "from-env", c.SecretKey, "env beats file")
	assert.Equal(t, "postgres://file", c.DatabaseDSN)
	assert.NoError(t, c.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{name: "ok", cfg: Config{SecretKey: "s", DatabaseDSN: MemoryDSN, TokenValidityDuration: time.Hour}},
		{name: "no secret", cfg: Config{DatabaseDSN: MemoryDSN, TokenValidityDuration: time.Hour}, wantErr: true},
		{name: "no dsn", cfg: Config{SecretKey: "s", TokenValidityDuration: time.Hour}, wantErr: true},
		{name: "zero ttl", cfg: Config{SecretKey: "s", DatabaseDSN: MemoryDSN}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
