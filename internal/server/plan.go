package server

import (
	"encoding/json"
	"net/http"

	"github.com/cadence-sh/cadence/internal/planner"
)

// handleGeneratePlan generates (or regenerates) the plan for a date. The
// date query parameter defaults to today; an existing plan for the date is
// replaced.
func (s *Server) handleGeneratePlan(w http.ResponseWriter, r *http.Request) {
	now, err := planDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}

	if s.planner == nil {
		writeError(w, http.StatusServiceUnavailable, "planner not configured")
		return
	}

	plan, err := s.planner.Generate(r.Context(), now)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, plan)
}

// handleGetPlan returns the stored plan for a date, if one was generated.
func (s *Server) handleGetPlan(w http.ResponseWriter, r *http.Request) {
	now, err := planDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
		return
	}
	date := now.UTC().Format("2006-01-02")

	stored, err := s.db.GetPlan(date)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if stored == nil {
		writeError(w, http.StatusNotFound, "no plan for "+date)
		return
	}

	var tasks []planner.Task
	if err := json.Unmarshal([]byte(stored.Tasks), &tasks); err != nil {
		writeError(w, http.StatusInternalServerError, "stored plan is corrupt: "+err.Error())
		return
	}

	writeJSON(w, http.StatusOK, planner.Plan{
		Date:   stored.PlanDate,
		Source: stored.Source,
		Tasks:  tasks,
	})
}
