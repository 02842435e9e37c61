package progression_test

import (
	"testing"
	"time"

	"github.com/ascendrpg/ascend/internal/app/progression"
	"github.com/ascendrpg/ascend/internal/infra/sqlite"
)

func sweepFixture(t *testing.T) (*sqlite.DB, *progression.Lifecycle, *progression.Sweeper) {
	t.Helper()
	db, _, debuff, lc := testServices(t)
	st := progression.NewStreakService(db)
	return db, lc, progression.NewSweeper(db, lc, debuff, st)
}

func TestSweeper_MissedDayAppliesDebuff(t *testing.T) {
	db, lc, sw := sweepFixture(t)
	testPlayer(t, db, "p1", 0, 1)

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)

	quests, err := lc.AssignDay("p1", yesterday)
	if err != nil {
		t.Fatalf("AssignDay: %v", err)
	}
	// Complete two of the four cores; the other two lapse.
	for _, id := range []string{"core-pushups", "core-situps"} {
		q := questByTemplate(t, quests, id)
		if _, err := lc.ReportProgress(q.ID, q.TargetValue, true); err != nil {
			t.Fatal(err)
		}
		if _, err := lc.Complete(q.ID, yesterday); err != nil {
			t.Fatal(err)
		}
	}

	res, err := sw.SweepPlayer("p1", now, now)
	if err != nil {
		t.Fatalf("SweepPlayer: %v", err)
	}
	if res.Failed != 2 {
		t.Errorf("Failed = %d, want 2", res.Failed)
	}
	if !res.DebuffApplied {
		t.Errorf("two missed cores did not trigger a debuff: %+v", res)
	}

	p, err := db.GetPlayer("p1")
	if err != nil {
		t.Fatal(err)
	}
	if !progression.DebuffActive(p.DebuffExpiresAt, now) {
		t.Error("debuff not stamped on player")
	}

	// The non-compliant day zeroed the streak.
	s, err := db.GetStreak("p1")
	if err != nil {
		t.Fatal(err)
	}
	if s.CurrentDays != 0 {
		t.Errorf("streak = %+v, want 0 current days", s)
	}
}

func TestSweeper_CompliantDayExtendsStreak(t *testing.T) {
	db, lc, sw := sweepFixture(t)
	testPlayer(t, db, "p1", 0, 1)

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)

	quests, err := lc.AssignDay("p1", yesterday)
	if err != nil {
		t.Fatalf("AssignDay: %v", err)
	}
	for _, q := range quests {
		if _, err := lc.ReportProgress(q.ID, q.TargetValue, true); err != nil {
			t.Fatal(err)
		}
		if _, err := lc.Complete(q.ID, yesterday); err != nil {
			t.Fatal(err)
		}
	}

	res, err := sw.SweepPlayer("p1", now, now)
	if err != nil {
		t.Fatalf("SweepPlayer: %v", err)
	}
	if res.Failed != 0 || res.DebuffApplied {
		t.Errorf("clean day swept as %+v", res)
	}

	s, err := db.GetStreak("p1")
	if err != nil {
		t.Fatal(err)
	}
	if s.CurrentDays != 1 || s.LastDate != res.Date {
		t.Errorf("streak = %+v", s)
	}
}

func TestSweeper_SweepAll(t *testing.T) {
	db, lc, sw := sweepFixture(t)
	testPlayer(t, db, "p1", 0, 1)
	testPlayer(t, db, "p2", 0, 1)

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	if _, err := lc.AssignDay("p1", yesterday); err != nil {
		t.Fatal(err)
	}
	if _, err := lc.AssignDay("p2", yesterday); err != nil {
		t.Fatal(err)
	}
	// p2 carries a long-expired debuff stamp for the bulk clear.
	if err := db.SetDebuff("p2", now.Add(-48*time.Hour)); err != nil {
		t.Fatal(err)
	}

	results, cleared, err := sw.SweepAll(now, now)
	if err != nil {
		t.Fatalf("SweepAll: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("swept %d players, want 2", len(results))
	}
	for _, r := range results {
		if r.Failed != 4 {
			t.Errorf("player %s Failed = %d, want 4", r.PlayerID, r.Failed)
		}
		if !r.DebuffApplied {
			t.Errorf("player %s: fully missed day without debuff", r.PlayerID)
		}
	}
	if cleared != 0 {
		// p2's stale stamp was replaced by a fresh debuff during the sweep,
		// so nothing is left to clear.
		t.Errorf("cleared = %d, want 0", cleared)
	}
}

func TestSweeper_IdempotentAcrossRuns(t *testing.T) {
	db, lc, sw := sweepFixture(t)
	testPlayer(t, db, "p1", 0, 1)

	now := time.Now().UTC()
	yesterday := now.AddDate(0, 0, -1)
	if _, err := lc.AssignDay("p1", yesterday); err != nil {
		t.Fatal(err)
	}

	first, err := sw.SweepPlayer("p1", now, now)
	if err != nil {
		t.Fatalf("SweepPlayer: %v", err)
	}
	if !first.DebuffApplied {
		t.Fatalf("first sweep: %+v", first)
	}
	expiry, _ := db.GetPlayer("p1")

	second, err := sw.SweepPlayer("p1", now.Add(time.Hour), now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second SweepPlayer: %v", err)
	}
	if second.Failed != 0 || second.DebuffApplied {
		t.Errorf("second sweep re-applied: %+v", second)
	}

	after, _ := db.GetPlayer("p1")
	if !after.DebuffExpiresAt.Equal(expiry.DebuffExpiresAt) {
		t.Errorf("re-sweep moved debuff expiry from %v to %v",
			expiry.DebuffExpiresAt, after.DebuffExpiresAt)
	}

	s, _ := db.GetStreak("p1")
	if s.CurrentDays != 0 {
		t.Errorf("streak = %+v", s)
	}
}
