package progression

import (
	"fmt"
	"log"
	"time"

	"github.com/ascendrpg/ascend/internal/domain"
	"github.com/ascendrpg/ascend/internal/infra/metrics"
	"github.com/ascendrpg/ascend/internal/infra/sqlite"
)

// Sweeper runs the day-rollover pass: expire stale quests, decide
// debuffs from the closed day's compliance, record streaks, and clear
// expired debuff state.
type Sweeper struct {
	db        *sqlite.DB
	lifecycle *Lifecycle
	debuff    *DebuffPolicy
	streak    *StreakService
}

// NewSweeper creates a sweeper over the given services.
func NewSweeper(db *sqlite.DB, lc *Lifecycle, dp *DebuffPolicy, st *StreakService) *Sweeper {
	return &Sweeper{db: db, lifecycle: lc, debuff: dp, streak: st}
}

// SweepPlayer closes out one day for one player. boundary is the first
// day that stays open (normally today); the day before it is the one
// being judged for compliance.
func (s *Sweeper) SweepPlayer(playerID string, boundary, now time.Time) (domain.SweepResult, error) {
	closed := boundary.UTC().AddDate(0, 0, -1).Format(DateLayout)

	failed, expired, err := s.lifecycle.ExpireDay(playerID, boundary)
	if err != nil {
		return domain.SweepResult{}, err
	}

	decision, err := s.debuff.CheckAndApply(playerID, closed, now)
	if err != nil {
		return domain.SweepResult{}, fmt.Errorf("debuff check: %w", err)
	}

	rec, err := s.db.GetCompliance(playerID, closed)
	if err != nil {
		return domain.SweepResult{}, fmt.Errorf("load compliance: %w", err)
	}
	if rec != nil && rec.CoreTotal > 0 {
		allDone := rec.CoreCompleted >= rec.CoreTotal
		if _, err := s.streak.RecordDay(playerID, closed, allDone); err != nil {
			return domain.SweepResult{}, fmt.Errorf("record streak: %w", err)
		}
	}

	return domain.SweepResult{
		PlayerID:      playerID,
		Date:          closed,
		Failed:        int(failed),
		Expired:       int(expired),
		DebuffApplied: decision.Applied,
		DebuffReason:  decision.Reason,
	}, nil
}

// SweepAll runs SweepPlayer for every player, then bulk-clears expired
// debuffs. Per-player failures are logged and skipped so one bad row
// cannot stall the rollover.
func (s *Sweeper) SweepAll(boundary, now time.Time) ([]domain.SweepResult, int64, error) {
	players, err := s.db.ListPlayers()
	if err != nil {
		return nil, 0, fmt.Errorf("list players: %w", err)
	}

	var results []domain.SweepResult
	for _, p := range players {
		res, err := s.SweepPlayer(p.ID, boundary, now)
		if err != nil {
			log.Printf("[sweep] player %s: %v", p.ID, err)
			continue
		}
		results = append(results, res)
	}

	cleared, err := s.debuff.ClearExpired(now)
	if err != nil {
		return results, 0, fmt.Errorf("clear debuffs: %w", err)
	}

	metrics.SweepsRun.Inc()
	return results, cleared, nil
}
