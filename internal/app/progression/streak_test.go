package progression_test

import (
	"testing"

	"github.com/ascendrpg/ascend/internal/app/progression"
)

func TestStreak_ExtendAndBreak(t *testing.T) {
	db := testDB(t)
	testPlayer(t, db, "p1", 0, 0)
	st := progression.NewStreakService(db)

	s, err := st.RecordDay("p1", "2026-08-01", true)
	if err != nil {
		t.Fatalf("RecordDay: %v", err)
	}
	if s.CurrentDays != 1 || s.LongestDays != 1 {
		t.Errorf("day 1: %+v", s)
	}

	s, _ = st.RecordDay("p1", "2026-08-02", true)
	s, _ = st.RecordDay("p1", "2026-08-03", true)
	if s.CurrentDays != 3 || s.LongestDays != 3 {
		t.Errorf("day 3: %+v", s)
	}

	// A missed day zeroes the run but keeps the record.
	s, err = st.RecordDay("p1", "2026-08-04", false)
	if err != nil {
		t.Fatalf("RecordDay: %v", err)
	}
	if s.CurrentDays != 0 || s.LongestDays != 3 {
		t.Errorf("after break: %+v", s)
	}

	// Starting again counts from 1; the longest run stands.
	s, _ = st.RecordDay("p1", "2026-08-05", true)
	if s.CurrentDays != 1 || s.LongestDays != 3 {
		t.Errorf("restart: %+v", s)
	}
}

func TestStreak_GapResets(t *testing.T) {
	db := testDB(t)
	testPlayer(t, db, "p1", 0, 0)
	st := progression.NewStreakService(db)

	st.RecordDay("p1", "2026-08-01", true)
	st.RecordDay("p1", "2026-08-02", true)

	// Skipping Aug 3 entirely: Aug 4 is a fresh run even though compliant.
	s, err := st.RecordDay("p1", "2026-08-04", true)
	if err != nil {
		t.Fatalf("RecordDay: %v", err)
	}
	if s.CurrentDays != 1 {
		t.Errorf("after gap: %+v", s)
	}
	if s.LongestDays != 2 {
		t.Errorf("longest = %d, want 2", s.LongestDays)
	}
}

func TestStreak_SameDayRepeat(t *testing.T) {
	db := testDB(t)
	testPlayer(t, db, "p1", 0, 0)
	st := progression.NewStreakService(db)

	st.RecordDay("p1", "2026-08-01", true)
	st.RecordDay("p1", "2026-08-02", true)

	// Recording the same day twice never double-counts, even with a
	// contradictory flag.
	s, err := st.RecordDay("p1", "2026-08-02", false)
	if err != nil {
		t.Fatalf("RecordDay: %v", err)
	}
	if s.CurrentDays != 2 {
		t.Errorf("same-day repeat: %+v", s)
	}
}

func TestStreak_UnknownPlayerStartsAtZero(t *testing.T) {
	db := testDB(t)
	testPlayer(t, db, "p1", 0, 0)
	st := progression.NewStreakService(db)

	s, err := st.Current("p1")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if s.CurrentDays != 0 || s.LongestDays != 0 || s.LastDate != "" {
		t.Errorf("fresh streak = %+v", s)
	}
}
