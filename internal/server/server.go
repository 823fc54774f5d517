package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/cadence-sh/cadence/internal/planner"
	"github.com/cadence-sh/cadence/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the cadence HTTP API server.
type Server struct {
	db      *store.DB
	planner *planner.Planner
	router  chi.Router
	version string
	started time.Time
}

// New creates a new Server. The planner may run without an LLM client; it
// then always produces fallback plans.
func New(db *store.DB, pl *planner.Planner, version string) *Server {
	s := &Server{
		db:      db,
		planner: pl,
		version: version,
		started: time.Now(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/goals", func(r chi.Router) {
			r.Post("/", s.handleCreateGoal)
			r.Get("/", s.handleListGoals)
			r.Get("/{goalID}", s.handleGetGoal)
			r.Patch("/{goalID}", s.handleUpdateGoal)
			r.Delete("/{goalID}", s.handleDeleteGoal)
			r.Post("/{goalID}/topics", s.handleCreateTopic)
			r.Get("/{goalID}/topics", s.handleListTopics)
		})

		r.Route("/topics/{topicID}", func(r chi.Router) {
			r.Delete("/", s.handleDeleteTopic)
			r.Post("/sessions", s.handleLogSession)
			r.Get("/sessions", s.handleListSessions)
		})

		r.Get("/review/due", s.handleDueForReview)

		r.Post("/plan", s.handleGeneratePlan)
		r.Get("/plan", s.handleGetPlan)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	dbOK := true
	if err := s.db.Ping(); err != nil {
		dbOK = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.version,
		"uptime":  time.Since(s.started).Seconds(),
		"db":      dbOK,
		"db_path": s.db.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// refClock resolves the reference instant for a request: the named query
// parameter as a YYYY-MM-DD date when present, otherwise the current time.
// Each handler resolves the clock once so a whole response is evaluated at
// a single instant.
func refClock(r *http.Request, param string) (time.Time, error) {
	raw := r.URL.Query().Get(param)
	if raw == "" {
		return time.Now().UTC(), nil
	}
	return time.Parse("2006-01-02", raw)
}
