package progression

import (
	"fmt"
	"time"

	"github.com/ascendrpg/ascend/internal/domain"
	"github.com/ascendrpg/ascend/internal/infra/sqlite"
)

// StreakService tracks consecutive days on which a player completed every
// assigned core quest. Streaks break on any non-compliant or skipped day;
// the longest run is retained.
type StreakService struct {
	db *sqlite.DB
}

// NewStreakService creates a streak service.
func NewStreakService(db *sqlite.DB) *StreakService {
	return &StreakService{db: db}
}

// Current loads the player's streak state.
func (s *StreakService) Current(playerID string) (domain.Streak, error) {
	return s.db.GetStreak(playerID)
}

// RecordDay closes out one day for the streak. Same-day repeats are a
// no-op. A fully compliant day either extends the run (when it directly
// follows the last recorded day) or starts a new one; a non-compliant day
// resets the run to zero.
func (s *StreakService) RecordDay(playerID, date string, allCoreDone bool) (domain.Streak, error) {
	streak, err := s.db.GetStreak(playerID)
	if err != nil {
		return domain.Streak{}, fmt.Errorf("load streak: %w", err)
	}

	if streak.LastDate == date {
		return streak, nil // Already recorded
	}

	if !allCoreDone {
		streak.CurrentDays = 0
	} else if streak.LastDate == previousDay(date) && streak.CurrentDays > 0 {
		streak.CurrentDays++
	} else {
		streak.CurrentDays = 1
	}

	streak.LastDate = date
	if streak.CurrentDays > streak.LongestDays {
		streak.LongestDays = streak.CurrentDays
	}

	if err := s.db.SaveStreak(playerID, streak); err != nil {
		return domain.Streak{}, fmt.Errorf("save streak: %w", err)
	}
	return streak, nil
}

// previousDay returns the calendar day before a "2006-01-02" date.
// Malformed dates yield an empty string, which simply never matches.
func previousDay(date string) string {
	t, err := time.Parse(DateLayout, date)
	if err != nil {
		return ""
	}
	return t.AddDate(0, 0, -1).Format(DateLayout)
}
