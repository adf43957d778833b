package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/oceansim.db", cfg.DBPath)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, int64(0), cfg.Seed)
	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, 10*time.Second, cfg.StepEvery)
	assert.Equal(t, 6, cfg.ZoneCount)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("OCEANSIM_DB_PATH", "/tmp/ocean.db")
	t.Setenv("OCEANSIM_HTTP_ADDR", ":9090")
	t.Setenv("OCEANSIM_SEED", "424242")
	t.Setenv("OCEANSIM_POLL_INTERVAL", "250ms")
	t.Setenv("OCEANSIM_STEP_EVERY", "1m")
	t.Setenv("OCEANSIM_ZONES", "12")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("OCEANSIM_SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/ocean.db", cfg.DBPath)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, int64(424242), cfg.Seed)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.Equal(t, time.Minute, cfg.StepEvery)
	assert.Equal(t, 12, cfg.ZoneCount)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_InvalidPollInterval(t *testing.T) {
	t.Setenv("OCEANSIM_POLL_INTERVAL", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCEANSIM_POLL_INTERVAL")
}

func TestLoad_NegativePollInterval(t *testing.T) {
	t.Setenv("OCEANSIM_POLL_INTERVAL", "-5s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCEANSIM_POLL_INTERVAL")
}

func TestLoad_InvalidSeed(t *testing.T) {
	t.Setenv("OCEANSIM_SEED", "abc")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCEANSIM_SEED")
}

func TestLoad_NegativeZones(t *testing.T) {
	t.Setenv("OCEANSIM_ZONES", "-1")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OCEANSIM_ZONES")
}
