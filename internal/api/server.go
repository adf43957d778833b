// Package api provides the HTTP API over simulations, monitoring zones, and
// stored sensor readings.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tidewatch/oceansim/internal/observability"
	"github.com/tidewatch/oceansim/internal/persistence"
	"github.com/tidewatch/oceansim/internal/runner"
	"github.com/tidewatch/oceansim/internal/sensor"
)

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the REST API plus health, readiness, and metrics routes.
type Server struct {
	httpServer *http.Server
	mgr        *runner.Manager
	network    *sensor.Network
	db         *persistence.DB
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer wires all routes. Event injection is rate limited per client
// because every call writes a stored reading.
func NewServer(addr string, mgr *runner.Manager, network *sensor.Network, db *persistence.DB, ready ReadinessChecker, logger *slog.Logger, metrics *observability.Metrics) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      corsMiddleware(mux),
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		mgr:     mgr,
		network: network,
		db:      db,
		logger:  logger,
		metrics: metrics,
	}

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/v1/simulations", s.handleCreateSimulation)
	mux.HandleFunc("GET /api/v1/simulations", s.handleListSimulations)
	mux.HandleFunc("GET /api/v1/simulations/{id}", s.handleGetSimulation)
	mux.HandleFunc("DELETE /api/v1/simulations/{id}", s.handleDeleteSimulation)
	mux.HandleFunc("POST /api/v1/simulations/{id}/step", s.handleStep)
	mux.HandleFunc("GET /api/v1/simulations/{id}/predict", s.handlePredict)
	mux.HandleFunc("GET /api/v1/simulations/{id}/recommendations", s.handleRecommendations)
	mux.HandleFunc("PATCH /api/v1/simulations/{id}/environment", s.handleUpdateEnvironment)
	mux.HandleFunc("POST /api/v1/simulations/{id}/reset", s.handleReset)
	mux.HandleFunc("POST /api/v1/simulations/{id}/start", s.handleStart)
	mux.HandleFunc("POST /api/v1/simulations/{id}/stop", s.handleStop)
	mux.HandleFunc("GET /api/v1/simulations/{id}/history", s.handleHistory)

	eventLimiter := newRateLimiter(60, time.Hour)
	mux.HandleFunc("POST /api/v1/zones", s.handleCreateZone)
	mux.HandleFunc("GET /api/v1/zones", s.handleListZones)
	mux.HandleFunc("GET /api/v1/zones/{id}", s.handleGetZone)
	mux.HandleFunc("DELETE /api/v1/zones/{id}", s.handleDeleteZone)
	mux.HandleFunc("GET /api/v1/zones/{id}/reading", s.handleCurrentReading)
	mux.HandleFunc("POST /api/v1/zones/{id}/event", rateLimited(eventLimiter, s.handleSimulateEvent))
	mux.HandleFunc("GET /api/v1/zones/{id}/readings", s.handleZoneReadings)
	mux.HandleFunc("GET /api/v1/readings/latest", s.handleLatestReadings)
	mux.HandleFunc("GET /api/v1/snapshot", s.handleSnapshot)
	mux.HandleFunc("GET /api/v1/events", s.handleEventTypes)
	mux.HandleFunc("GET /api/v1/dashboard", s.handleDashboard)

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

// corsMiddleware adds CORS headers for browser dashboards. Localhost dev
// servers are always allowed; set CORS_ORIGINS to a comma-separated list for
// anything else.
func corsMiddleware(next http.Handler) http.Handler {
	allowed := map[string]bool{
		"http://localhost:5173": true,
		"http://localhost:3000": true,
	}
	if env := os.Getenv("CORS_ORIGINS"); env != "" {
		for _, origin := range strings.Split(env, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				allowed[origin] = true
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := r.Header.Get("Origin"); allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		}
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// fail maps domain errors onto HTTP statuses.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, persistence.ErrNotFound), errors.Is(err, sensor.ErrBuoyNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, sensor.ErrUnknownEvent):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// queryInt reads an integer query parameter, falling back to def when absent
// or malformed.
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
