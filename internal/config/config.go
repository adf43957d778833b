// Package config loads service settings from environment variables.
package config

import (
	"errors"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DBPath   string
	HTTPAddr string

	// Seed drives zone planning and every buoy's noise source. Zero means
	// pick a random seed on first boot; the chosen value is persisted so
	// restarts replay the same sensor streams.
	Seed int64

	// PollInterval is how often the runner collects a reading from every
	// active buoy. StepEvery is how often running simulations advance one
	// week.
	PollInterval time.Duration
	StepEvery    time.Duration

	// ZoneCount is the number of monitoring zones to plan on an empty
	// database. Zero disables auto-planning.
	ZoneCount int

	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	pollInterval, err := envDuration("OCEANSIM_POLL_INTERVAL", 5*time.Second)
	if err != nil {
		return nil, err
	}

	stepEvery, err := envDuration("OCEANSIM_STEP_EVERY", 10*time.Second)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := envDuration("OCEANSIM_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	seed, err := envInt64("OCEANSIM_SEED", 0)
	if err != nil {
		return nil, err
	}

	zones, err := envInt("OCEANSIM_ZONES", 6)
	if err != nil {
		return nil, err
	}
	if zones < 0 {
		return nil, errors.New("invalid OCEANSIM_ZONES")
	}

	cfg := &Config{
		DBPath:          envOrDefault("OCEANSIM_DB_PATH", "data/oceansim.db"),
		HTTPAddr:        envOrDefault("OCEANSIM_HTTP_ADDR", ":8080"),
		Seed:            seed,
		PollInterval:    pollInterval,
		StepEvery:       stepEvery,
		ZoneCount:       zones,
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.DBPath == "" {
		return nil, errors.New("OCEANSIM_DB_PATH is required")
	}
	if cfg.HTTPAddr == "" {
		return nil, errors.New("OCEANSIM_HTTP_ADDR is required")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid " + key)
	}
	return d, nil
}

func envInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}

func envInt64(key string, def int64) (int64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.New("invalid " + key)
	}
	return n, nil
}
