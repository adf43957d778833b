package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/tidewatch/oceansim/internal/ecosystem"
	"github.com/tidewatch/oceansim/internal/persistence"
)

type createSimulationRequest struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Scenario    string            `json:"scenario"`
	Parameters  *ecosystem.Params `json:"parameters"`
}

type simulationDetail struct {
	ID          int64              `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description,omitempty"`
	Scenario    string             `json:"scenario,omitempty"`
	Running     bool               `json:"running"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	State       ecosystem.Snapshot `json:"state"`
}

func (s *Server) detail(row *persistence.Simulation) (simulationDetail, error) {
	snap, err := s.mgr.Snapshot(row.ID)
	if err != nil {
		return simulationDetail{}, err
	}
	return simulationDetail{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		Scenario:    row.Scenario,
		Running:     row.Running,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
		State:       snap,
	}, nil
}

func (s *Server) handleCreateSimulation(w http.ResponseWriter, r *http.Request) {
	var req createSimulationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	params := ecosystem.DefaultParams()
	if req.Parameters != nil {
		params = *req.Parameters
	}
	if err := params.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	row, err := s.mgr.Create(req.Name, req.Description, req.Scenario, params)
	if err != nil {
		s.fail(w, err)
		return
	}

	d, err := s.detail(row)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleListSimulations(w http.ResponseWriter, _ *http.Request) {
	rows, err := s.mgr.List()
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"simulations": rows,
		"count":       len(rows),
	})
}

func (s *Server) handleGetSimulation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid simulation id")
		return
	}

	row, err := s.mgr.Row(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	d, err := s.detail(row)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteSimulation(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid simulation id")
		return
	}
	if err := s.mgr.Delete(id); err != nil {
		s.fail(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid simulation id")
		return
	}

	req := struct {
		Weeks int `json:"weeks"`
	}{Weeks: 1}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Weeks < 1 {
		writeError(w, http.StatusBadRequest, "weeks must be at least 1")
		return
	}

	snap, err := s.mgr.Step(id, req.Weeks)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid simulation id")
		return
	}

	weeks := queryInt(r, "weeks", 10)
	if err := ecosystem.ValidateForecastWeeks(weeks); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	proj, err := s.mgr.Predict(id, weeks)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"simulation_id": id,
		"weeks_ahead":   weeks,
		"projections":   proj,
	})
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid simulation id")
		return
	}

	recs, err := s.mgr.Recommendations(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"simulation_id":   id,
		"recommendations": recs,
	})
}

func (s *Server) handleUpdateEnvironment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid simulation id")
		return
	}

	var update ecosystem.EnvUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := ecosystem.ValidateUpdate(update); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	snap, err := s.mgr.UpdateEnvironment(id, update)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid simulation id")
		return
	}

	snap, err := s.mgr.Reset(id)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleStart(w http.ResponseWriter, r *http.Request) {
	s.setRunning(w, r, true)
}

func (s *Server) handleStop(w http.ResponseWriter, r *http.Request) {
	s.setRunning(w, r, false)
}

func (s *Server) setRunning(w http.ResponseWriter, r *http.Request, running bool) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid simulation id")
		return
	}
	if err := s.mgr.SetRunning(id, running); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"id":      id,
		"running": running,
	})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid simulation id")
		return
	}

	limit := queryInt(r, "limit", 0)
	if limit < 0 {
		writeError(w, http.StatusBadRequest, "limit must not be negative")
		return
	}

	records, err := s.mgr.History(id, limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"simulation_id": id,
		"records":       records,
		"count":         len(records),
	})
}
