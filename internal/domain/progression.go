package domain

import (
	"math/big"
	"time"
)

// ─── Level / XP Types ───────────────────────────────────────────────────────

// LevelProgress describes where a player sits on the XP curve.
// All XP fields are cumulative-scale big integers.
type LevelProgress struct {
	CurrentLevel      int      `json:"current_level"`
	XPForCurrentLevel *big.Int `json:"xp_for_current_level"`
	XPForNextLevel    *big.Int `json:"xp_for_next_level"`
	XPProgress        *big.Int `json:"xp_progress"`
	XPNeeded          *big.Int `json:"xp_needed"`
	ProgressPercent   int      `json:"progress_percent"` // floored, clamped to [0,100]
}

// LevelThreshold is one row of the level table.
type LevelThreshold struct {
	Level    int      `json:"level"`
	TotalXP  *big.Int `json:"total_xp"`
	XPToNext *big.Int `json:"xp_to_next"`
}

// ─── Debuff Types ───────────────────────────────────────────────────────────

// DebuffModifier is the multiplier applied to XP awards.
type DebuffModifier struct {
	HasDebuff   bool    `json:"has_debuff"`
	Multiplier  float64 `json:"multiplier"` // 0.90 while active, else 1.0
	Description string  `json:"description,omitempty"`
}

// DebuffStatus is the API-facing view of a player's debuff.
type DebuffStatus struct {
	IsActive       bool       `json:"is_active"`
	ExpiresAt      *time.Time `json:"expires_at,omitempty"`
	HoursRemaining float64    `json:"hours_remaining"`
	PenaltyPercent int        `json:"penalty_percent"`
}

// DebuffDecision is the outcome of a compliance check.
type DebuffDecision struct {
	Applied   bool      `json:"applied"`
	Reason    string    `json:"reason"`
	ExpiresAt time.Time `json:"expires_at,omitzero"`
}

// ─── Operation Results ──────────────────────────────────────────────────────

// CompleteResult is returned by a successful quest completion.
type CompleteResult struct {
	Quest     QuestInstance `json:"quest"`
	XPAwarded int64         `json:"xp_awarded"`
	LeveledUp bool          `json:"leveled_up"`
	NewLevel  int           `json:"new_level"`
}

// ResetResult is returned by a successful completion undo.
type ResetResult struct {
	Quest      QuestInstance `json:"quest"`
	XPReverted int64         `json:"xp_reverted"`
	NewLevel   int           `json:"new_level"`
}

// SweepResult summarizes one day-rollover pass for one player.
type SweepResult struct {
	PlayerID      string `json:"player_id"`
	Date          string `json:"date"`
	Failed        int    `json:"failed"`  // core quests FAILED
	Expired       int    `json:"expired"` // non-core quests EXPIRED
	DebuffApplied bool   `json:"debuff_applied"`
	DebuffReason  string `json:"debuff_reason,omitempty"`
}
