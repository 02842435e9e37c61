package api

import (
	"encoding/json"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ascendrpg/ascend/internal/app/progression"
	"github.com/ascendrpg/ascend/internal/domain"
)

// ─── Players ────────────────────────────────────────────────────────────────

type createPlayerRequest struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
}

func (s *Server) handleCreatePlayer(w http.ResponseWriter, r *http.Request) {
	var req createPlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	p := domain.Player{
		ID:        req.ID,
		Name:      req.Name,
		TotalXP:   new(big.Int),
		Level:     1,
		CreatedAt: time.Now().UTC(),
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	} else if _, err := s.db.GetPlayer(p.ID); err == nil {
		writeDomainError(w, domain.ErrPlayerExists)
		return
	}

	if err := s.db.InsertPlayer(p); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	p, err := s.db.GetPlayer(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// ─── Progression reads ──────────────────────────────────────────────────────

func (s *Server) handleLevel(w http.ResponseWriter, r *http.Request) {
	p, err := s.db.GetPlayer(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s.curve.Progress(p.XP()))
}

func (s *Server) handleLevelTable(w http.ResponseWriter, r *http.Request) {
	max := 20
	if v := r.URL.Query().Get("max"); v != "" {
		if n, err := parsePositiveInt(v); err == nil {
			max = n
		}
	}
	if max > progression.DefaultMaxMemoLevel {
		max = progression.DefaultMaxMemoLevel
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"thresholds": s.curve.Thresholds(max),
	})
}

func (s *Server) handleDebuff(w http.ResponseWriter, r *http.Request) {
	status, err := s.debuff.Status(chi.URLParam(r, "id"), time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleStreak(w http.ResponseWriter, r *http.Request) {
	streak, err := s.streak.Current(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, streak)
}

func (s *Server) handleTitles(w http.ResponseWriter, r *http.Request) {
	p, err := s.db.GetPlayer(chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"current": progression.TitleForLevel(p.Level),
		"earned":  progression.TitlesEarned(p.Level),
	})
}

// ─── Quest operations ───────────────────────────────────────────────────────

func (s *Server) handleListQuests(w http.ResponseWriter, r *http.Request) {
	day, ok := dayParam(w, r.URL.Query().Get("date"))
	if !ok {
		return
	}
	quests, err := s.lifecycle.QuestsForDay(chi.URLParam(r, "id"), day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quests": quests,
	})
}

type assignRequest struct {
	Date string `json:"date,omitempty"` // "2006-01-02", defaults to today
}

func (s *Server) handleAssign(w http.ResponseWriter, r *http.Request) {
	var req assignRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
	}
	day, ok := dayParam(w, req.Date)
	if !ok {
		return
	}

	quests, err := s.lifecycle.AssignDay(chi.URLParam(r, "id"), day)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quests": quests,
	})
}

type progressRequest struct {
	Value    int64 `json:"value"`
	Absolute bool  `json:"absolute,omitempty"` // false: Value is a delta
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err.Error())
		return
	}

	q, err := s.lifecycle.ReportProgress(chi.URLParam(r, "id"), req.Value, req.Absolute)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"quest":              q,
		"completion_percent": q.CompletionPercent(),
	})
}

func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request) {
	result, err := s.lifecycle.Complete(chi.URLParam(r, "id"), time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	result, err := s.lifecycle.Reset(chi.URLParam(r, "id"), time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleRemove(w http.ResponseWriter, r *http.Request) {
	if err := s.lifecycle.Remove(chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

// ─── Sweep ──────────────────────────────────────────────────────────────────

type sweepRequest struct {
	Date string `json:"date,omitempty"` // boundary day, defaults to today
}

func (s *Server) handleSweep(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", err.Error())
			return
		}
	}
	day, ok := dayParam(w, req.Date)
	if !ok {
		return
	}

	results, cleared, err := s.sweeper.SweepAll(day, time.Now().UTC())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"results":         results,
		"debuffs_cleared": cleared,
	})
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// dayParam parses an optional "2006-01-02" date, defaulting to today.
// On a malformed date it writes a 400 and returns ok=false.
func dayParam(w http.ResponseWriter, date string) (time.Time, bool) {
	if date == "" {
		return time.Now().UTC(), true
	}
	day, err := time.Parse(progression.DateLayout, date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", "date must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}

func parsePositiveInt(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
