package server

import (
	"net/http"
	"time"

	"github.com/cadence-sh/cadence/internal/schedule"
	"github.com/cadence-sh/cadence/internal/store"
)

// handleDueForReview lists every active-goal topic that is due at the
// reference instant, most urgent first. The as_of query parameter swaps in
// an alternate reference date for previewing future (or past) due lists.
func (s *Server) handleDueForReview(w http.ResponseWriter, r *http.Request) {
	now, err := refClock(r, "as_of")
	if err != nil {
		writeError(w, http.StatusBadRequest, "as_of must be YYYY-MM-DD")
		return
	}

	topics, err := s.db.ListActiveTopics()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	goals, err := s.db.ListGoals("active")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	goalByID := make(map[int64]store.Goal, len(goals))
	for _, g := range goals {
		goalByID[g.ID] = g
	}

	views := make([]schedule.Topic, len(topics))
	topicByID := make(map[string]store.Topic, len(topics))
	for i, t := range topics {
		views[i] = schedule.Topic{ID: t.PublicID, LastReviewed: t.LastReviewedTime(), ReviewCount: t.ReviewCount}
		topicByID[t.PublicID] = t
	}

	due := schedule.RankTopics(schedule.DueTopics(views, now), now)

	type dueJSON struct {
		topicJSON
		Goal      string `json:"goal"`
		GoalTitle string `json:"goal_title"`
	}

	out := make([]dueJSON, 0, len(due))
	for _, v := range due {
		t := topicByID[v.ID]
		goal := goalByID[t.GoalID]
		out = append(out, dueJSON{
			topicJSON: topicToJSON(t, now),
			Goal:      goal.PublicID,
			GoalTitle: goal.Title,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"as_of":  now.Format("2006-01-02"),
		"count":  len(out),
		"topics": out,
	})
}

// planDate resolves the date parameter for the plan endpoints, defaulting
// to today.
func planDate(r *http.Request) (time.Time, error) {
	return refClock(r, "date")
}
