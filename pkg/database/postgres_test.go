package database

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPoolConfig_Defaults(t *testing.T) {
	cfg, err := newPoolConfig(&Config{URL: "postgres://taskhive:pw@localhost:5432/taskhive"})
	require.NoError(t, err)

	assert.Equal(t, int32(25), cfg.MaxConns)
	assert.Equal(t, time.Hour, cfg.MaxConnLifetime)
	assert.Equal(t, 30*time.Minute, cfg.MaxConnIdleTime)
}

func TestNewPoolConfig_Overrides(t *testing.T) {
	cfg, err := newPoolConfig(&Config{
		URL:             "postgres://taskhive:pw@localhost:5432/taskhive",
		MaxConnections:  5,
		MaxConnLifetime: 10 * time.Minute,
		MaxConnIdleTime: time.Minute,
	})
	require.NoError(t, err)

	assert.Equal(t, int32(5), cfg.MaxConns)
	assert.Equal(t, 10*time.Minute, cfg.MaxConnLifetime)
	assert.Equal(t, time.Minute, cfg.MaxConnIdleTime)
}

func TestNewPoolConfig_BadURL(t *testing.T) {
	_, err := newPoolConfig(&Config{URL: "://not-a-url"})
	assert.Error(t, err)
}
