package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/cadence-sh/cadence/internal/schedule"
	"github.com/cadence-sh/cadence/internal/store"
	"github.com/go-chi/chi/v5"
)

// goalJSON is the API shape of a goal, annotated with its urgency score.
type goalJSON struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Deadline    string `json:"deadline"`
	Priority    int    `json:"priority"`
	Status      string `json:"status"`
	Urgency     int    `json:"urgency"`
}

func goalToJSON(g store.Goal, now time.Time) goalJSON {
	return goalJSON{
		ID:          g.PublicID,
		Title:       g.Title,
		Description: g.Description,
		Deadline:    g.DeadlineTime().Format("2006-01-02"),
		Priority:    g.Priority,
		Status:      g.Status,
		Urgency:     schedule.GoalUrgency(g.DeadlineTime(), g.Priority, now),
	}
}

// topicJSON is the API shape of a topic, annotated with its review state.
type topicJSON struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	LastReviewed *string `json:"last_reviewed"`
	ReviewCount  int     `json:"review_count"`
	Decay        string  `json:"decay"`
	NextReview   *string `json:"next_review"`
	Due          bool    `json:"due"`
	Urgency      int     `json:"urgency"`
}

func topicToJSON(t store.Topic, now time.Time) topicJSON {
	last := t.LastReviewedTime()

	out := topicJSON{
		ID:          t.PublicID,
		Name:        t.Name,
		ReviewCount: t.ReviewCount,
		Decay:       schedule.Decay(last, t.ReviewCount, now).String(),
		Due:         schedule.IsDue(last, t.ReviewCount, now),
		Urgency: schedule.TopicUrgency(schedule.Topic{
			ID:           t.PublicID,
			LastReviewed: last,
			ReviewCount:  t.ReviewCount,
		}, now),
	}
	if last != nil {
		s := last.Format(time.RFC3339)
		out.LastReviewed = &s
	}
	if next := schedule.NextReview(last, t.ReviewCount); next != nil {
		s := next.Format(time.RFC3339)
		out.NextReview = &s
	}
	return out
}

func (s *Server) handleCreateGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Deadline    string `json:"deadline"`
		Priority    int    `json:"priority"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if req.Title == "" {
		writeError(w, http.StatusBadRequest, "title required")
		return
	}
	if req.Priority < 1 || req.Priority > 5 {
		writeError(w, http.StatusBadRequest, "priority must be in [1,5]")
		return
	}
	deadline, err := time.Parse("2006-01-02", req.Deadline)
	if err != nil {
		writeError(w, http.StatusBadRequest, "deadline must be YYYY-MM-DD")
		return
	}

	g, err := s.db.CreateGoal(req.Title, req.Description, deadline, req.Priority)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, goalToJSON(*g, time.Now().UTC()))
}

func (s *Server) handleListGoals(w http.ResponseWriter, r *http.Request) {
	now, err := refClock(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
		return
	}

	status := r.URL.Query().Get("status")
	if status == "" {
		status = "active"
	}
	if status == "all" {
		status = ""
	}

	goals, err := s.db.ListGoals(status)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Rank by urgency; ties keep creation order from the store.
	views := make([]schedule.Goal, len(goals))
	byID := make(map[string]store.Goal, len(goals))
	for i, g := range goals {
		views[i] = schedule.Goal{ID: g.PublicID, Deadline: g.DeadlineTime(), Priority: g.Priority}
		byID[g.PublicID] = g
	}

	out := make([]goalJSON, 0, len(goals))
	for _, v := range schedule.RankGoals(views, now) {
		out = append(out, goalToJSON(byID[v.ID], now))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count": len(out),
		"goals": out,
	})
}

func (s *Server) handleGetGoal(w http.ResponseWriter, r *http.Request) {
	g, err := s.db.GetGoal(chi.URLParam(r, "goalID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if g == nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	now := time.Now().UTC()
	topics, err := s.db.ListTopicsByGoal(g.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	topicsOut := make([]topicJSON, 0, len(topics))
	for _, t := range topics {
		topicsOut = append(topicsOut, topicToJSON(t, now))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"goal":   goalToJSON(*g, now),
		"topics": topicsOut,
	})
}

func (s *Server) handleUpdateGoal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Deadline    *string `json:"deadline"`
		Priority    *int    `json:"priority"`
		Status      *string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}

	patch := store.GoalPatch{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		Status:      req.Status,
	}
	if req.Priority != nil && (*req.Priority < 1 || *req.Priority > 5) {
		writeError(w, http.StatusBadRequest, "priority must be in [1,5]")
		return
	}
	if req.Status != nil {
		switch *req.Status {
		case "active", "completed", "archived":
		default:
			writeError(w, http.StatusBadRequest, "status must be active, completed, or archived")
			return
		}
	}
	if req.Deadline != nil {
		deadline, err := time.Parse("2006-01-02", *req.Deadline)
		if err != nil {
			writeError(w, http.StatusBadRequest, "deadline must be YYYY-MM-DD")
			return
		}
		patch.Deadline = &deadline
	}

	g, err := s.db.UpdateGoal(chi.URLParam(r, "goalID"), patch)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if g == nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	writeJSON(w, http.StatusOK, goalToJSON(*g, time.Now().UTC()))
}

func (s *Server) handleDeleteGoal(w http.ResponseWriter, r *http.Request) {
	ok, err := s.db.DeleteGoal(chi.URLParam(r, "goalID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleCreateTopic(w http.ResponseWriter, r *http.Request) {
	g, err := s.db.GetGoal(chi.URLParam(r, "goalID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if g == nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	topic, err := s.db.CreateTopic(g.ID, req.Name)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, topicToJSON(*topic, time.Now().UTC()))
}

func (s *Server) handleListTopics(w http.ResponseWriter, r *http.Request) {
	now, err := refClock(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
		return
	}

	g, err := s.db.GetGoal(chi.URLParam(r, "goalID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if g == nil {
		writeError(w, http.StatusNotFound, "goal not found")
		return
	}

	topics, err := s.db.ListTopicsByGoal(g.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	out := make([]topicJSON, 0, len(topics))
	for _, t := range topics {
		out = append(out, topicToJSON(t, now))
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":  len(out),
		"topics": out,
	})
}

func (s *Server) handleDeleteTopic(w http.ResponseWriter, r *http.Request) {
	ok, err := s.db.DeleteTopic(chi.URLParam(r, "topicID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if !ok {
		writeError(w, http.StatusNotFound, "topic not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleLogSession(w http.ResponseWriter, r *http.Request) {
	topic, err := s.db.GetTopic(chi.URLParam(r, "topicID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if topic == nil {
		writeError(w, http.StatusNotFound, "topic not found")
		return
	}

	var req struct {
		StartedAt       string `json:"started_at"` // RFC3339, optional
		DurationMinutes int    `json:"duration_minutes"`
		Notes           string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json")
		return
	}
	if req.DurationMinutes < 0 {
		writeError(w, http.StatusBadRequest, "duration_minutes must be non-negative")
		return
	}

	startedAt := time.Now().UTC()
	if req.StartedAt != "" {
		startedAt, err = time.Parse(time.RFC3339, req.StartedAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "started_at must be RFC3339")
			return
		}
	}

	sess, err := s.db.LogSession(topic.ID, startedAt, req.DurationMinutes, req.Notes)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	updated, err := s.db.GetTopic(topic.PublicID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": sess.PublicID,
		"topic":      topicToJSON(*updated, time.Now().UTC()),
	})
}

func (s *Server) handleListSessions(w http.ResponseWriter, r *http.Request) {
	topic, err := s.db.GetTopic(chi.URLParam(r, "topicID"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if topic == nil {
		writeError(w, http.StatusNotFound, "topic not found")
		return
	}

	sessions, err := s.db.ListSessionsByTopic(topic.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	type sessionJSON struct {
		ID              string `json:"id"`
		StartedAt       string `json:"started_at"`
		DurationMinutes int    `json:"duration_minutes"`
		Notes           string `json:"notes,omitempty"`
	}

	out := make([]sessionJSON, 0, len(sessions))
	for _, sess := range sessions {
		out = append(out, sessionJSON{
			ID:              sess.PublicID,
			StartedAt:       time.UnixMilli(sess.StartedAt).UTC().Format(time.RFC3339),
			DurationMinutes: sess.DurationMin,
			Notes:           sess.Notes,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":    len(out),
		"sessions": out,
	})
}
