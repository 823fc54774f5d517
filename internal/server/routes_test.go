package server

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/cadence-sh/cadence/internal/llm"
)

// createGoal posts a goal and returns its public ID.
func createGoal(t *testing.T, srv *Server, title, deadline string, priority int) string {
	t.Helper()
	code, body := do(t, srv, "POST", "/api/goals",
		fmt.Sprintf(`{"title":%q,"deadline":%q,"priority":%d}`, title, deadline, priority))
	if code != http.StatusCreated {
		t.Fatalf("create goal: status = %d, body = %v", code, body)
	}
	return body["id"].(string)
}

// createTopic posts a topic under a goal and returns its public ID.
func createTopic(t *testing.T, srv *Server, goalID, name string) string {
	t.Helper()
	code, body := do(t, srv, "POST", "/api/goals/"+goalID+"/topics",
		fmt.Sprintf(`{"name":%q}`, name))
	if code != http.StatusCreated {
		t.Fatalf("create topic: status = %d, body = %v", code, body)
	}
	return body["id"].(string)
}

func TestCreateGoalValidation(t *testing.T) {
	srv := testServer(t, nil)

	tests := []struct {
		name string
		body string
	}{
		{"missing title", `{"deadline":"2024-03-01","priority":3}`},
		{"bad priority", `{"title":"x","deadline":"2024-03-01","priority":9}`},
		{"bad deadline", `{"title":"x","deadline":"soon","priority":3}`},
		{"not json", `{{{`},
	}

	for _, tt := range tests {
		code, _ := do(t, srv, "POST", "/api/goals", tt.body)
		if code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", tt.name, code)
		}
	}
}

func TestGoalLifecycle(t *testing.T) {
	srv := testServer(t, nil)

	id := createGoal(t, srv, "Learn Go", "2030-06-01", 3)

	code, body := do(t, srv, "GET", "/api/goals/"+id, "")
	if code != http.StatusOK {
		t.Fatalf("get goal: status = %d", code)
	}
	goal := body["goal"].(map[string]any)
	if goal["title"] != "Learn Go" {
		t.Errorf("title = %v", goal["title"])
	}
	if goal["urgency"] == nil {
		t.Error("goal response missing urgency annotation")
	}

	code, body = do(t, srv, "PATCH", "/api/goals/"+id, `{"priority":5,"status":"completed"}`)
	if code != http.StatusOK {
		t.Fatalf("patch goal: status = %d, body = %v", code, body)
	}
	if body["priority"].(float64) != 5 || body["status"] != "completed" {
		t.Errorf("patched goal = %v", body)
	}

	code, _ = do(t, srv, "PATCH", "/api/goals/"+id, `{"status":"paused"}`)
	if code != http.StatusBadRequest {
		t.Errorf("invalid status: status = %d, want 400", code)
	}

	code, _ = do(t, srv, "DELETE", "/api/goals/"+id, "")
	if code != http.StatusOK {
		t.Fatalf("delete goal: status = %d", code)
	}
	code, _ = do(t, srv, "GET", "/api/goals/"+id, "")
	if code != http.StatusNotFound {
		t.Errorf("get deleted goal: status = %d, want 404", code)
	}
}

func TestListGoalsRankedByUrgency(t *testing.T) {
	srv := testServer(t, nil)

	createGoal(t, srv, "Someday", "2030-06-01", 1)
	createGoal(t, srv, "Exam prep", "2024-01-18", 5)

	code, body := do(t, srv, "GET", "/api/goals?as_of=2024-01-15", "")
	if code != http.StatusOK {
		t.Fatalf("list goals: status = %d", code)
	}

	goals := body["goals"].([]any)
	if len(goals) != 2 {
		t.Fatalf("len(goals) = %d, want 2", len(goals))
	}
	first := goals[0].(map[string]any)
	if first["title"] != "Exam prep" {
		t.Errorf("goals[0] = %v, want Exam prep first", first["title"])
	}
	if first["urgency"].(float64) != 100 {
		t.Errorf("urgency = %v, want 100", first["urgency"])
	}
}

func TestTopicAnnotations(t *testing.T) {
	srv := testServer(t, nil)

	goalID := createGoal(t, srv, "Learn Go", "2030-06-01", 3)
	topicID := createTopic(t, srv, goalID, "goroutines")

	code, body := do(t, srv, "GET", "/api/goals/"+goalID+"/topics", "")
	if code != http.StatusOK {
		t.Fatalf("list topics: status = %d", code)
	}

	topics := body["topics"].([]any)
	if len(topics) != 1 {
		t.Fatalf("len(topics) = %d, want 1", len(topics))
	}
	topic := topics[0].(map[string]any)
	if topic["id"] != topicID {
		t.Errorf("id = %v, want %s", topic["id"], topicID)
	}
	// Never reviewed: red, due, no next review.
	if topic["decay"] != "red" {
		t.Errorf("decay = %v, want red", topic["decay"])
	}
	if topic["due"] != true {
		t.Errorf("due = %v, want true", topic["due"])
	}
	if topic["next_review"] != nil {
		t.Errorf("next_review = %v, want null", topic["next_review"])
	}
	if topic["last_reviewed"] != nil {
		t.Errorf("last_reviewed = %v, want null", topic["last_reviewed"])
	}
}

func TestLogSessionUpdatesReviewState(t *testing.T) {
	srv := testServer(t, nil)

	goalID := createGoal(t, srv, "Learn Go", "2030-06-01", 3)
	topicID := createTopic(t, srv, goalID, "goroutines")

	code, body := do(t, srv, "POST", "/api/topics/"+topicID+"/sessions",
		`{"started_at":"2024-01-14T09:00:00Z","duration_minutes":25,"notes":"select statements"}`)
	if code != http.StatusCreated {
		t.Fatalf("log session: status = %d, body = %v", code, body)
	}

	topic := body["topic"].(map[string]any)
	if topic["review_count"].(float64) != 1 {
		t.Errorf("review_count = %v, want 1", topic["review_count"])
	}
	if topic["last_reviewed"] == nil || topic["next_review"] == nil {
		t.Error("review state not annotated after session")
	}

	code, body = do(t, srv, "GET", "/api/topics/"+topicID+"/sessions", "")
	if code != http.StatusOK {
		t.Fatalf("list sessions: status = %d", code)
	}
	if body["count"].(float64) != 1 {
		t.Errorf("count = %v, want 1", body["count"])
	}
}

func TestLogSessionUnknownTopic(t *testing.T) {
	srv := testServer(t, nil)

	code, _ := do(t, srv, "POST", "/api/topics/nope/sessions", `{"duration_minutes":25}`)
	if code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", code)
	}
}

func TestDueForReviewWithAsOf(t *testing.T) {
	srv := testServer(t, nil)

	goalID := createGoal(t, srv, "Learn Go", "2030-06-01", 3)
	topicID := createTopic(t, srv, goalID, "goroutines")

	// One review on 2024-01-10 puts the topic on a 3-day interval.
	code, _ := do(t, srv, "POST", "/api/topics/"+topicID+"/sessions",
		`{"started_at":"2024-01-10T00:00:00Z","duration_minutes":20}`)
	if code != http.StatusCreated {
		t.Fatalf("log session: status = %d", code)
	}

	// Day 2 of 3: not due yet.
	code, body := do(t, srv, "GET", "/api/review/due?as_of=2024-01-12", "")
	if code != http.StatusOK {
		t.Fatalf("due list: status = %d", code)
	}
	if body["count"].(float64) != 0 {
		t.Errorf("count at day 2 = %v, want 0", body["count"])
	}

	// Day 3: due.
	_, body = do(t, srv, "GET", "/api/review/due?as_of=2024-01-13", "")
	if body["count"].(float64) != 1 {
		t.Fatalf("count at day 3 = %v, want 1", body["count"])
	}
	entry := body["topics"].([]any)[0].(map[string]any)
	if entry["goal_title"] != "Learn Go" {
		t.Errorf("goal_title = %v", entry["goal_title"])
	}
}

func TestDueForReviewRankedByUrgency(t *testing.T) {
	srv := testServer(t, nil)

	goalID := createGoal(t, srv, "Learn Go", "2030-06-01", 3)
	practicedID := createTopic(t, srv, goalID, "practiced")
	createTopic(t, srv, goalID, "untouched")

	// The practiced topic was reviewed long ago: due, but its review count
	// lowers its urgency below the never-reviewed one.
	code, _ := do(t, srv, "POST", "/api/topics/"+practicedID+"/sessions",
		`{"started_at":"2023-11-01T00:00:00Z","duration_minutes":20}`)
	if code != http.StatusCreated {
		t.Fatalf("log session: status = %d", code)
	}

	_, body := do(t, srv, "GET", "/api/review/due?as_of=2024-01-15", "")
	topics := body["topics"].([]any)
	if len(topics) != 2 {
		t.Fatalf("len(topics) = %d, want 2", len(topics))
	}
	if topics[0].(map[string]any)["name"] != "untouched" {
		t.Errorf("topics[0] = %v, want untouched first", topics[0].(map[string]any)["name"])
	}
}

func TestGeneratePlanEndpoint(t *testing.T) {
	mock := &llm.MockClient{Err: fmt.Errorf("offline")}
	srv := testServer(t, mock)

	goalID := createGoal(t, srv, "Learn Go", "2030-06-01", 3)
	createTopic(t, srv, goalID, "goroutines")

	code, body := do(t, srv, "POST", "/api/plan?date=2024-01-15", "")
	if code != http.StatusCreated {
		t.Fatalf("generate plan: status = %d, body = %v", code, body)
	}
	if body["source"] != "fallback" {
		t.Errorf("source = %v, want fallback when the LLM errors", body["source"])
	}
	tasks := body["tasks"].([]any)
	if len(tasks) != 1 {
		t.Fatalf("len(tasks) = %d, want 1", len(tasks))
	}

	// The stored plan is retrievable.
	code, body = do(t, srv, "GET", "/api/plan?date=2024-01-15", "")
	if code != http.StatusOK {
		t.Fatalf("get plan: status = %d", code)
	}
	if body["date"] != "2024-01-15" {
		t.Errorf("date = %v", body["date"])
	}

	code, _ = do(t, srv, "GET", "/api/plan?date=2024-01-16", "")
	if code != http.StatusNotFound {
		t.Errorf("missing plan: status = %d, want 404", code)
	}
}
