package progression

import (
	"fmt"
	"time"

	"github.com/ascendrpg/ascend/internal/domain"
	"github.com/ascendrpg/ascend/internal/infra/metrics"
	"github.com/ascendrpg/ascend/internal/infra/sqlite"
)

// Debuff tuning. A debuff is a 24-hour 10% XP penalty applied after a day
// with two or more missed core quests.
const (
	DebuffDuration      = 24 * time.Hour
	DebuffMultiplier    = 0.90
	MissedCoreThreshold = 2
)

// DebuffActive reports whether a debuff expiry is still in the future.
// The zero time means no debuff was ever applied.
func DebuffActive(expiresAt, now time.Time) bool {
	return !expiresAt.IsZero() && now.Before(expiresAt)
}

// DebuffModifierAt returns the XP multiplier for the given expiry.
func DebuffModifierAt(expiresAt, now time.Time) domain.DebuffModifier {
	if DebuffActive(expiresAt, now) {
		return domain.DebuffModifier{
			HasDebuff:   true,
			Multiplier:  DebuffMultiplier,
			Description: "XP reduced by 10% for missed core quests",
		}
	}
	return domain.DebuffModifier{HasDebuff: false, Multiplier: 1.0}
}

// DebuffPolicy decides when to penalize a player and applies the penalty.
type DebuffPolicy struct {
	db *sqlite.DB
}

// NewDebuffPolicy creates a debuff policy backed by the given store.
func NewDebuffPolicy(db *sqlite.DB) *DebuffPolicy {
	return &DebuffPolicy{db: db}
}

// Status returns the API-facing debuff view for a player.
func (p *DebuffPolicy) Status(playerID string, now time.Time) (domain.DebuffStatus, error) {
	player, err := p.db.GetPlayer(playerID)
	if err != nil {
		return domain.DebuffStatus{}, err
	}
	if !DebuffActive(player.DebuffExpiresAt, now) {
		return domain.DebuffStatus{IsActive: false}, nil
	}
	exp := player.DebuffExpiresAt
	return domain.DebuffStatus{
		IsActive:       true,
		ExpiresAt:      &exp,
		HoursRemaining: exp.Sub(now).Hours(),
		PenaltyPercent: 10,
	}, nil
}

// Apply stamps a 24-hour debuff on the player and flags the day's
// compliance record. Idempotent: if a debuff is already active the
// existing expiry is returned unchanged, so repeated compliance checks
// can never extend the penalty window.
func (p *DebuffPolicy) Apply(playerID, date string, now time.Time) (time.Time, error) {
	player, err := p.db.GetPlayer(playerID)
	if err != nil {
		return time.Time{}, err
	}
	if DebuffActive(player.DebuffExpiresAt, now) {
		return player.DebuffExpiresAt, nil
	}

	// Storage keeps Unix seconds, so truncate before persisting: the
	// returned expiry and a later re-read must compare equal.
	expiresAt := now.Add(DebuffDuration).Truncate(time.Second)
	if err := p.db.SetDebuff(playerID, expiresAt); err != nil {
		return time.Time{}, fmt.Errorf("set debuff: %w", err)
	}
	if err := p.db.MarkComplianceDebuff(playerID, date); err != nil {
		return time.Time{}, fmt.Errorf("mark compliance: %w", err)
	}

	metrics.DebuffsApplied.Inc()
	return expiresAt, nil
}

// CheckAndApply is the sole automated entry point deciding whether to
// penalize. It reads the day's compliance record and applies a debuff
// when the player missed MissedCoreThreshold or more core quests and no
// debuff is currently active.
func (p *DebuffPolicy) CheckAndApply(playerID, date string, now time.Time) (domain.DebuffDecision, error) {
	player, err := p.db.GetPlayer(playerID)
	if err != nil {
		return domain.DebuffDecision{}, err
	}
	if DebuffActive(player.DebuffExpiresAt, now) {
		return domain.DebuffDecision{
			Applied:   false,
			Reason:    "Debuff already active",
			ExpiresAt: player.DebuffExpiresAt,
		}, nil
	}

	rec, err := p.db.GetCompliance(playerID, date)
	if err != nil {
		return domain.DebuffDecision{}, fmt.Errorf("load compliance: %w", err)
	}
	if rec == nil {
		// No record means nothing was assigned — no penalty, not an error.
		return domain.DebuffDecision{Applied: false, Reason: "No compliance record"}, nil
	}

	missed := rec.Missed()
	if missed < MissedCoreThreshold {
		return domain.DebuffDecision{
			Applied: false,
			Reason:  fmt.Sprintf("Missed only %d core quests", missed),
		}, nil
	}

	expiresAt, err := p.Apply(playerID, date, now)
	if err != nil {
		return domain.DebuffDecision{}, err
	}
	return domain.DebuffDecision{
		Applied:   true,
		Reason:    fmt.Sprintf("Missed %d core quests", missed),
		ExpiresAt: expiresAt,
	}, nil
}

// ClearExpired bulk-clears stored expiries that have passed. The modifier
// functions already self-check expiry; this keeps stored state tidy.
func (p *DebuffPolicy) ClearExpired(now time.Time) (int64, error) {
	return p.db.ClearExpiredDebuffs(now)
}
