package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func setSecrets(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_SECRET", "test-access")
	t.Setenv("REFRESH_TOKEN_SECRET", "test-refresh")
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	setSecrets(t)

	cfg, err := Load("test-version")
	require.NoError(t, err)

	assert.Equal(t, "4000", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, "http://localhost:4000", cfg.BaseURL)
	assert.Equal(t, 15*time.Minute, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 168*time.Hour, cfg.Auth.RefreshTokenTTL())
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, time.Hour, cfg.Database.ConnMaxLifetime())
	assert.Equal(t, 30*time.Minute, cfg.Database.ConnMaxIdleTime())
}

func TestLoad_MissingSecrets(t *testing.T) {
	chdirTemp(t)
	t.Setenv("ACCESS_TOKEN_SECRET", "")
	t.Setenv("REFRESH_TOKEN_SECRET", "")

	_, err := Load("test-version")
	assert.Error(t, err)
}

func TestLoad_YAMLWithEnvOverride(t *testing.T) {
	chdirTemp(t)
	setSecrets(t)

	raw, err := yaml.Marshal(map[string]any{
		"port": "9000",
		"env":  "staging",
		"auth": map[string]any{"access_token_ttl_minutes": 5},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile("config.yaml", raw, 0o600))

	t.Setenv("PORT", "9100")

	cfg, err := Load("test-version")
	require.NoError(t, err)

	// Environment wins over YAML for the same field.
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "staging", cfg.Env)
	assert.Equal(t, 5*time.Minute, cfg.Auth.AccessTokenTTL())
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "taskhive",
		Password: "pw",
		Database: "taskhive",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=taskhive password=pw dbname=taskhive sslmode=require",
		cfg.ConnectionString())
}
