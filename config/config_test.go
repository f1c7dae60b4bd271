package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:              "5000",
		Env:               EnvDevelopment,
		LogLevel:          "info",
		ShutdownTimeout:   15 * time.Second,
		DBDriver:          DriverSQLite,
		DatabaseURL:       ":memory:",
		DBMaxOpenConns:    10,
		DBMaxIdleConns:    5,
		DBConnMaxLifetime: time.Minute,
		DBQueryTimeout:    5 * time.Second,
		JWTSecret:         "test-secret",
		AuthRateLimit:     20,
	}
}

func TestFromEnvDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("DB_QUERY_TIMEOUT", "")
	t.Setenv("JWT_SECRET", "abc")

	cfg := FromEnv()
	assert.Equal(t, "5000", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 10, cfg.DBMaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.DBQueryTimeout)
	assert.Equal(t, "abc", cfg.JWTSecret)
	assert.True(t, cfg.IsDevelopment())
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("APP_ENV", EnvProduction)
	t.Setenv("DB_DRIVER", DriverSQLite)
	t.Setenv("DB_MAX_OPEN_CONNS", "3")
	t.Setenv("DB_QUERY_TIMEOUT", "250ms")
	t.Setenv("AUTH_RATE_LIMIT", "not-a-number")

	cfg := FromEnv()
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 3, cfg.DBMaxOpenConns)
	assert.Equal(t, 250*time.Millisecond, cfg.DBQueryTimeout)
	assert.Equal(t, 20, cfg.AuthRateLimit, "unparsable values fall back to the default")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "bad port", mutate: func(c *Config) { c.Port = "http" }, wantErr: "invalid port 'http'"},
		{name: "port out of range", mutate: func(c *Config) { c.Port = "70000" }, wantErr: "must be between 1 and 65535"},
		{name: "bad env", mutate: func(c *Config) { c.Env = "staging" }, wantErr: "invalid APP_ENV"},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "invalid LOG_LEVEL"},
		{name: "bad driver", mutate: func(c *Config) { c.DBDriver = "mysql" }, wantErr: "invalid DB_DRIVER"},
		{name: "missing dsn", mutate: func(c *Config) { c.DatabaseURL = "" }, wantErr: "DATABASE_URL cannot be empty"},
		{name: "empty pool", mutate: func(c *Config) { c.DBMaxOpenConns = 0 }, wantErr: "DB_MAX_OPEN_CONNS"},
		{name: "idle above open", mutate: func(c *Config) { c.DBMaxIdleConns = 20 }, wantErr: "DB_MAX_IDLE_CONNS"},
		{name: "no query timeout", mutate: func(c *Config) { c.DBQueryTimeout = 0 }, wantErr: "DB_QUERY_TIMEOUT"},
		{name: "missing secret", mutate: func(c *Config) { c.JWTSecret = "" }, wantErr: "JWT_SECRET is required"},
		{name: "short secret in production", mutate: func(c *Config) {
			c.Env = EnvProduction
			c.JWTSecret = "short"
		}, wantErr: "at least 16 bytes"},
		{name: "rate limit", mutate: func(c *Config) { c.AuthRateLimit = 0 }, wantErr: "AUTH_RATE_LIMIT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateReportsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.Port = "abc"
	cfg.JWTSecret = ""
	cfg.DBDriver = "oracle"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port")
	assert.Contains(t, err.Error(), "JWT_SECRET is required")
	assert.Contains(t, err.Error(), "invalid DB_DRIVER")
}
