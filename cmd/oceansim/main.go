// Command oceansim runs the ocean ecosystem simulation service: a REST API
// over persisted simulations plus a background loop that steps running
// simulations and collects synthetic buoy readings.
package main

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/tidewatch/oceansim/internal/api"
	"github.com/tidewatch/oceansim/internal/config"
	"github.com/tidewatch/oceansim/internal/observability"
	"github.com/tidewatch/oceansim/internal/persistence"
	"github.com/tidewatch/oceansim/internal/runner"
	"github.com/tidewatch/oceansim/internal/sensor"
	"github.com/tidewatch/oceansim/internal/zones"
)

const seedMetaKey = "network_seed"

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			logger.Error("failed to create data directory", "dir", dir, "error", err)
			os.Exit(1)
		}
	}
	db, err := persistence.Open(cfg.DBPath)
	if err != nil {
		logger.Error("failed to open database", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer db.Close()
	logger.Info("database opened", "path", cfg.DBPath)

	// The network seed is sticky: once chosen it is persisted so restarts
	// replay the same sensor streams. An explicit OCEANSIM_SEED overrides.
	seed := cfg.Seed
	if seed == 0 {
		if v, err := db.GetMeta(seedMetaKey); err == nil {
			seed, _ = strconv.ParseInt(v, 10, 64)
		}
	}
	if seed == 0 {
		seed = rand.Int63()
	}
	if err := db.SaveMeta(seedMetaKey, strconv.FormatInt(seed, 10)); err != nil {
		logger.Error("failed to persist network seed", "error", err)
		os.Exit(1)
	}

	network := sensor.NewNetwork(seed, clock)
	defer network.StopAll()

	stored, err := db.ListZones()
	if err != nil {
		logger.Error("failed to list zones", "error", err)
		os.Exit(1)
	}
	if len(stored) == 0 && cfg.ZoneCount > 0 {
		plan := zones.DefaultGenConfig()
		plan.Count = cfg.ZoneCount
		plan.Seed = seed

		sites := zones.Plan(plan)
		for _, site := range sites {
			z, err := db.CreateZone(site.Name, site.Latitude, site.Longitude, site.Depth)
			if err != nil {
				logger.Error("failed to store planned zone", "name", site.Name, "error", err)
				os.Exit(1)
			}
			stored = append(stored, *z)
		}
		logger.Info("monitoring zones planned", "requested", cfg.ZoneCount, "planned", len(sites))
	}
	for _, z := range stored {
		network.Add(z.ID, z.Name, z.Latitude, z.Longitude, z.Depth)
	}
	logger.Info("buoy network deployed", "zones", network.Len(), "seed", seed)

	mgr, err := runner.NewManager(db, logger, metrics)
	if err != nil {
		logger.Error("failed to restore simulations", "error", err)
		os.Exit(1)
	}

	run := runner.New(mgr, network, db, cfg.PollInterval, cfg.StepEvery, logger, metrics, clock)
	srv := api.NewServer(cfg.HTTPAddr, mgr, network, db, run, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	go run.Run(ctx)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	network.StopAll()

	logger.Info("shutdown complete")
}
