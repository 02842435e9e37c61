// Package api provides the HTTP server for the Ascend progression engine.
// It is a thin JSON layer over the progression services — all rules live
// in internal/app/progression.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ascendrpg/ascend/internal/app/progression"
	"github.com/ascendrpg/ascend/internal/domain"
	"github.com/ascendrpg/ascend/internal/health"
	"github.com/ascendrpg/ascend/internal/infra/sqlite"
)

// Server is the Ascend HTTP API server.
type Server struct {
	db             *sqlite.DB
	curve          *progression.Curve
	debuff         *progression.DebuffPolicy
	lifecycle      *progression.Lifecycle
	streak         *progression.StreakService
	sweeper        *progression.Sweeper
	checker        *health.Checker
	metricsEnabled bool
}

// NewServer creates a new API server over the progression services.
func NewServer(db *sqlite.DB, curve *progression.Curve, debuff *progression.DebuffPolicy,
	lc *progression.Lifecycle, st *progression.StreakService, sw *progression.Sweeper) *Server {
	return &Server{db: db, curve: curve, debuff: debuff, lifecycle: lc, streak: st, sweeper: sw}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetHealthChecker wires the daemon's periodic self-checks into /health.
func (s *Server) SetHealthChecker(c *health.Checker) { s.checker = c }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/levels", s.handleLevelTable)

		r.Route("/players", func(r chi.Router) {
			r.Post("/", s.handleCreatePlayer)
			r.Get("/{id}", s.handleGetPlayer)
			r.Get("/{id}/level", s.handleLevel)
			r.Get("/{id}/debuff", s.handleDebuff)
			r.Get("/{id}/streak", s.handleStreak)
			r.Get("/{id}/titles", s.handleTitles)
			r.Get("/{id}/quests", s.handleListQuests)
			r.Post("/{id}/quests/assign", s.handleAssign)
		})

		r.Route("/quests/{id}", func(r chi.Router) {
			r.Post("/progress", s.handleProgress)
			r.Post("/complete", s.handleComplete)
			r.Post("/reset", s.handleReset)
			r.Delete("/", s.handleRemove)
		})

		r.Post("/sweep", s.handleSweep)
	})

	// Prometheus metrics endpoint
	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// handleHealth reports the daemon's self-check results. Without a wired
// checker it degrades to a plain liveness probe. Any failing check turns
// the response into 503 so load balancers stop routing here.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.checker == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	}

	status := "ok"
	code := http.StatusOK
	if !s.checker.IsHealthy() {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]interface{}{
		"status": status,
		"checks": s.checker.Statuses(),
	})
}

// ─── Response helpers ───────────────────────────────────────────────────────

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response with a machine-readable kind.
func writeError(w http.ResponseWriter, status int, kind, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"kind":    kind,
			"message": msg,
		},
	})
}

// writeDomainError maps engine errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrPlayerNotFound),
		errors.Is(err, domain.ErrQuestNotFound),
		errors.Is(err, domain.ErrTemplateNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrInvalidState):
		writeError(w, http.StatusConflict, "invalid_state", err.Error())
	case errors.Is(err, domain.ErrQuestNotEligible):
		writeError(w, http.StatusUnprocessableEntity, "quest_not_eligible", err.Error())
	case errors.Is(err, domain.ErrCannotRemoveCoreQuest):
		writeError(w, http.StatusUnprocessableEntity, "cannot_remove_core_quest", err.Error())
	case errors.Is(err, domain.ErrPlayerExists):
		writeError(w, http.StatusConflict, "player_exists", err.Error())
	case errors.Is(err, domain.ErrDatabaseUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal", err.Error())
	}
}

// corsMiddleware adds CORS headers for local development.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
