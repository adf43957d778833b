package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/tidewatch/oceansim/internal/persistence"
	"github.com/tidewatch/oceansim/internal/sensor"
)

type createZoneRequest struct {
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Depth     float64 `json:"depth"`
}

type zoneDetail struct {
	persistence.Zone
	BuoyActive    bool  `json:"buoy_active"`
	ReadingsCount int64 `json:"readings_count"`
}

func (s *Server) zoneDetail(z persistence.Zone) zoneDetail {
	d := zoneDetail{Zone: z}
	if b, err := s.network.Get(z.ID); err == nil {
		d.BuoyActive = b.Active()
		d.ReadingsCount = b.ReadingsCount()
	}
	return d
}

func (s *Server) handleCreateZone(w http.ResponseWriter, r *http.Request) {
	var req createZoneRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	switch {
	case req.Name == "":
		writeError(w, http.StatusBadRequest, "name is required")
		return
	case req.Latitude < -90 || req.Latitude > 90:
		writeError(w, http.StatusBadRequest, "latitude must be within [-90, 90]")
		return
	case req.Longitude < -180 || req.Longitude > 180:
		writeError(w, http.StatusBadRequest, "longitude must be within [-180, 180]")
		return
	case req.Depth < 0:
		writeError(w, http.StatusBadRequest, "depth must not be negative")
		return
	}

	z, err := s.db.CreateZone(req.Name, req.Latitude, req.Longitude, req.Depth)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.network.Add(z.ID, z.Name, z.Latitude, z.Longitude, z.Depth)

	s.logger.Info("zone deployed", "id", z.ID, "name", z.Name, "lat", z.Latitude, "lon", z.Longitude)
	writeJSON(w, http.StatusCreated, s.zoneDetail(*z))
}

func (s *Server) handleListZones(w http.ResponseWriter, _ *http.Request) {
	zones, err := s.db.ListZones()
	if err != nil {
		s.fail(w, err)
		return
	}

	details := make([]zoneDetail, 0, len(zones))
	for _, z := range zones {
		details = append(details, s.zoneDetail(z))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"zones": details,
		"count": len(details),
	})
}

func (s *Server) handleGetZone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid zone id")
		return
	}

	z, err := s.db.GetZone(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.zoneDetail(*z))
}

func (s *Server) handleDeleteZone(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid zone id")
		return
	}

	// Stop the buoy before dropping rows so the poller cannot write a
	// reading for a zone that no longer exists.
	if err := s.network.Remove(id); err != nil && !errors.Is(err, sensor.ErrBuoyNotFound) {
		s.fail(w, err)
		return
	}
	if err := s.db.RemoveZone(id); err != nil {
		s.fail(w, err)
		return
	}

	s.logger.Info("zone removed", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// handleCurrentReading samples the zone's buoy once. The reading is returned
// without being stored; persisted history comes from the background poller.
func (s *Server) handleCurrentReading(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid zone id")
		return
	}

	b, err := s.network.Get(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, b.CurrentReading())
}

// handleSimulateEvent injects an oceanographic event into the zone's stream.
// The perturbed reading is stored so dashboards retain a trace of it.
func (s *Server) handleSimulateEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid zone id")
		return
	}

	var req struct {
		Event string `json:"event"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	ev, err := sensor.ParseEvent(req.Event)
	if err != nil {
		s.fail(w, err)
		return
	}

	b, err := s.network.Get(id)
	if err != nil {
		s.fail(w, err)
		return
	}

	reading := b.SimulateEvent(ev)
	if err := s.db.InsertReading(reading); err != nil {
		s.fail(w, err)
		return
	}
	s.metrics.EventsSimulated.WithLabelValues(string(ev)).Inc()

	s.logger.Info("event simulated", "zone", id, "event", ev)
	writeJSON(w, http.StatusOK, reading)
}

func (s *Server) handleZoneReadings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid zone id")
		return
	}
	limit := queryInt(r, "limit", 24)
	if limit < 1 {
		writeError(w, http.StatusBadRequest, "limit must be at least 1")
		return
	}

	if _, err := s.db.GetZone(id); err != nil {
		s.fail(w, err)
		return
	}
	readings, err := s.db.RecentReadings(id, limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"zone_id":  id,
		"readings": readings,
		"count":    len(readings),
	})
}

func (s *Server) handleLatestReadings(w http.ResponseWriter, _ *http.Request) {
	readings, err := s.db.LatestReadings()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"readings": readings,
		"count":    len(readings),
	})
}

// handleSnapshot samples every active buoy once, without storing.
func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	readings := s.network.SnapshotAll()
	writeJSON(w, http.StatusOK, map[string]any{
		"readings": readings,
		"count":    len(readings),
	})
}

func (s *Server) handleEventTypes(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"events": sensor.Events})
}

func (s *Server) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	stats, err := s.db.Dashboard()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
