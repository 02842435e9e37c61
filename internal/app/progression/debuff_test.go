package progression_test

import (
	"testing"
	"time"

	"github.com/ascendrpg/ascend/internal/app/progression"
)

func TestDebuffModifierAt(t *testing.T) {
	now := time.Now().UTC()

	mod := progression.DebuffModifierAt(now.Add(time.Hour), now)
	if !mod.HasDebuff || mod.Multiplier != progression.DebuffMultiplier {
		t.Errorf("active debuff: got %+v", mod)
	}

	mod = progression.DebuffModifierAt(now.Add(-time.Hour), now)
	if mod.HasDebuff || mod.Multiplier != 1.0 {
		t.Errorf("expired debuff: got %+v", mod)
	}

	mod = progression.DebuffModifierAt(time.Time{}, now)
	if mod.HasDebuff || mod.Multiplier != 1.0 {
		t.Errorf("never-debuffed: got %+v", mod)
	}
}

func TestDebuffPolicy_CheckAndApply(t *testing.T) {
	db, _, debuff, lc := testServices(t)
	testPlayer(t, db, "p1", 0, 0)

	now := time.Now().UTC()
	date := now.Format(progression.DateLayout)

	// No compliance record at all: nothing assigned, no penalty.
	dec, err := debuff.CheckAndApply("p1", date, now)
	if err != nil {
		t.Fatalf("CheckAndApply: %v", err)
	}
	if dec.Applied || dec.Reason != "No compliance record" {
		t.Errorf("decision = %+v", dec)
	}

	// 4 core assigned, 3 completed: one miss, under the threshold.
	quests, err := lc.AssignDay("p1", now)
	if err != nil {
		t.Fatalf("AssignDay: %v", err)
	}
	if len(quests) != 4 {
		t.Fatalf("assigned %d quests, want 4 core", len(quests))
	}
	for _, q := range quests[:3] {
		if _, err := lc.ReportProgress(q.ID, q.TargetValue, true); err != nil {
			t.Fatalf("ReportProgress: %v", err)
		}
		if _, err := lc.Complete(q.ID, now); err != nil {
			t.Fatalf("Complete: %v", err)
		}
	}
	dec, err = debuff.CheckAndApply("p1", date, now)
	if err != nil {
		t.Fatalf("CheckAndApply: %v", err)
	}
	if dec.Applied {
		t.Errorf("debuff applied for a single miss: %+v", dec)
	}
	if dec.Reason != "Missed only 1 core quests" {
		t.Errorf("reason = %q", dec.Reason)
	}

	// Undo one completion: two misses trips the debuff.
	if _, err := lc.Reset(quests[2].ID, now); err != nil {
		t.Fatalf("Reset: %v", err)
	}
	dec, err = debuff.CheckAndApply("p1", date, now)
	if err != nil {
		t.Fatalf("CheckAndApply: %v", err)
	}
	if !dec.Applied || dec.Reason != "Missed 2 core quests" {
		t.Errorf("decision = %+v", dec)
	}
	wantExpiry := now.Add(progression.DebuffDuration)
	if dec.ExpiresAt.Sub(wantExpiry).Abs() > time.Second {
		t.Errorf("expiry = %v, want about %v", dec.ExpiresAt, wantExpiry)
	}

	// The day's record is flagged.
	rec, err := db.GetCompliance("p1", date)
	if err != nil || rec == nil {
		t.Fatalf("GetCompliance: rec=%v err=%v", rec, err)
	}
	if !rec.HadDebuff {
		t.Error("compliance record not flagged")
	}

	// Re-checking while active never extends the window.
	later := now.Add(2 * time.Hour)
	dec2, err := debuff.CheckAndApply("p1", date, later)
	if err != nil {
		t.Fatalf("CheckAndApply: %v", err)
	}
	if dec2.Applied || dec2.Reason != "Debuff already active" {
		t.Errorf("re-check decision = %+v", dec2)
	}
	if !dec2.ExpiresAt.Equal(dec.ExpiresAt) {
		t.Errorf("expiry moved from %v to %v", dec.ExpiresAt, dec2.ExpiresAt)
	}
}

func TestDebuffPolicy_ApplyIdempotent(t *testing.T) {
	db := testDB(t)
	debuff := progression.NewDebuffPolicy(db)
	testPlayer(t, db, "p1", 0, 0)

	now := time.Now().UTC()
	date := now.Format(progression.DateLayout)

	first, err := debuff.Apply("p1", date, now)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}

	// The returned expiry must match the stored one exactly: storage holds
	// whole seconds, so Apply may not hand back finer precision.
	p, err := db.GetPlayer("p1")
	if err != nil {
		t.Fatal(err)
	}
	if !p.DebuffExpiresAt.Equal(first) {
		t.Errorf("stored expiry %v != returned %v", p.DebuffExpiresAt, first)
	}

	second, err := debuff.Apply("p1", date, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("Apply again: %v", err)
	}
	if !second.Equal(first) {
		t.Errorf("second Apply moved expiry from %v to %v", first, second)
	}
}

func TestDebuffPolicy_Status(t *testing.T) {
	db := testDB(t)
	debuff := progression.NewDebuffPolicy(db)
	testPlayer(t, db, "p1", 0, 0)

	now := time.Now().UTC()

	st, err := debuff.Status("p1", now)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.IsActive {
		t.Errorf("fresh player has active debuff: %+v", st)
	}

	date := now.Format(progression.DateLayout)
	if _, err := debuff.Apply("p1", date, now); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	st, err = debuff.Status("p1", now)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !st.IsActive || st.PenaltyPercent != 10 {
		t.Errorf("status = %+v", st)
	}
	if st.HoursRemaining < 23.9 || st.HoursRemaining > 24.1 {
		t.Errorf("HoursRemaining = %v, want about 24", st.HoursRemaining)
	}

	// Past expiry the stored stamp no longer counts.
	st, err = debuff.Status("p1", now.Add(25*time.Hour))
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if st.IsActive {
		t.Errorf("expired debuff still active: %+v", st)
	}
}

func TestDebuffPolicy_ClearExpired(t *testing.T) {
	db := testDB(t)
	debuff := progression.NewDebuffPolicy(db)
	testPlayer(t, db, "p1", 0, 0)
	testPlayer(t, db, "p2", 0, 0)

	now := time.Now().UTC()
	if err := db.SetDebuff("p1", now.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}
	if err := db.SetDebuff("p2", now.Add(time.Hour)); err != nil {
		t.Fatal(err)
	}

	cleared, err := debuff.ClearExpired(now)
	if err != nil {
		t.Fatalf("ClearExpired: %v", err)
	}
	if cleared != 1 {
		t.Errorf("cleared = %d, want 1", cleared)
	}

	p1, err := db.GetPlayer("p1")
	if err != nil {
		t.Fatal(err)
	}
	if !p1.DebuffExpiresAt.IsZero() {
		t.Errorf("p1 expiry not cleared: %v", p1.DebuffExpiresAt)
	}
	p2, err := db.GetPlayer("p2")
	if err != nil {
		t.Fatal(err)
	}
	if p2.DebuffExpiresAt.IsZero() {
		t.Error("p2 expiry was cleared while still active")
	}
}
