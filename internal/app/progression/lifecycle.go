package progression

import (
	"fmt"
	"math"
	"math/big"
	"time"

	"github.com/google/uuid"

	"github.com/ascendrpg/ascend/internal/domain"
	"github.com/ascendrpg/ascend/internal/infra/metrics"
	"github.com/ascendrpg/ascend/internal/infra/sqlite"
)

// DateLayout is the canonical quest-date format.
const DateLayout = "2006-01-02"

// Lifecycle owns the quest state machine: assignment, progress reports,
// completion with XP award, reset, removal, and day expiry.
type Lifecycle struct {
	db     *sqlite.DB
	curve  *Curve
	debuff *DebuffPolicy
}

// NewLifecycle creates a lifecycle service.
func NewLifecycle(db *sqlite.DB, curve *Curve, debuff *DebuffPolicy) *Lifecycle {
	return &Lifecycle{db: db, curve: curve, debuff: debuff}
}

// ─── Assignment ─────────────────────────────────────────────────────────────

// AssignDay instantiates the player's quests for one day: every core
// template plus, once the account is old enough, the deterministically
// selected rotating bonus quest. Idempotent: if instances already exist
// for the date they are returned unchanged. The instance rows and the
// day's compliance record commit in one transaction, so a concurrent or
// interrupted assignment can never leave a partial day behind.
func (l *Lifecycle) AssignDay(playerID string, day time.Time) ([]domain.QuestInstance, error) {
	date := day.UTC().Format(DateLayout)

	player, err := l.db.GetPlayer(playerID)
	if err != nil {
		return nil, err
	}

	core, err := l.db.ListTemplatesByCategory(domain.CategoryCore)
	if err != nil {
		return nil, fmt.Errorf("load core templates: %w", err)
	}

	templates := core
	if RotatingUnlocked(*player, day) {
		if tmpl, err := l.pickRotating(*player, date); err != nil {
			return nil, err
		} else if tmpl != nil {
			templates = append(templates, *tmpl)
		}
	}

	quests := make([]domain.QuestInstance, 0, len(templates))
	for _, tmpl := range templates {
		quests = append(quests, instantiate(tmpl, playerID, date))
	}

	assigned, created, err := l.db.ApplyDayAssignment(playerID, date, quests, len(core))
	if err != nil {
		return nil, fmt.Errorf("assign day: %w", err)
	}
	if created {
		metrics.QuestsAssigned.Add(float64(len(assigned)))
	}
	return assigned, nil
}

// pickRotating filters the rotating pool by level eligibility and selects
// one template. Returns nil when the pool is empty.
func (l *Lifecycle) pickRotating(p domain.Player, date string) (*domain.QuestTemplate, error) {
	pool, err := l.db.ListTemplatesByCategory(domain.CategoryRotating)
	if err != nil {
		return nil, fmt.Errorf("load rotating templates: %w", err)
	}

	byID := make(map[string]domain.QuestTemplate, len(pool))
	ids := make([]string, 0, len(pool))
	for _, t := range pool {
		if t.MinLevel > p.Level {
			continue
		}
		byID[t.ID] = t
		ids = append(ids, t.ID)
	}

	id, ok := SelectRotating(date, p.ID, ids)
	if !ok {
		return nil, nil
	}
	tmpl := byID[id]
	return &tmpl, nil
}

// instantiate creates an ACTIVE instance from a template for a date.
func instantiate(tmpl domain.QuestTemplate, playerID, date string) domain.QuestInstance {
	return domain.QuestInstance{
		ID:                uuid.NewString(),
		PlayerID:          playerID,
		TemplateID:        tmpl.ID,
		QuestDate:         date,
		IsCore:            tmpl.IsCore(),
		Description:       tmpl.Description,
		BaseXP:            tmpl.BaseXP,
		Requirement:       tmpl.Requirement,
		TargetValue:       tmpl.Requirement.Target(),
		CurrentValue:      0,
		AllowPartial:      tmpl.AllowPartial,
		MinPartialPercent: tmpl.MinPartialPercent,
		StatType:          tmpl.StatType,
		StatBonus:         tmpl.StatBonus,
		Status:            domain.QuestActive,
	}
}

// ─── Progress ───────────────────────────────────────────────────────────────

// ReportProgress updates a quest's current value. With absolute=false the
// value is a delta. Progress never transitions status — Complete does.
// Values clamp to zero below and, for reach-target quests, to the target
// above. Stay-under quests keep the overshoot on record so completion can
// reject it.
func (l *Lifecycle) ReportProgress(questID string, value int64, absolute bool) (domain.QuestInstance, error) {
	var updated domain.QuestInstance
	err := l.db.MutateQuest(questID, func(q domain.QuestInstance, p domain.Player) (sqlite.QuestPlayerUpdate, error) {
		if q.Status != domain.QuestActive {
			return sqlite.QuestPlayerUpdate{}, fmt.Errorf("report progress on %s quest: %w", q.Status, domain.ErrInvalidState)
		}

		next := value
		if !absolute {
			next = q.CurrentValue + value
		}
		if next < 0 {
			next = 0
		}
		if next > q.TargetValue && q.Requirement.Operator != domain.OpLTE {
			next = q.TargetValue
		}

		q.CurrentValue = next
		updated = q
		return sqlite.QuestPlayerUpdate{
			Quest:      q,
			NewTotalXP: p.XP().String(),
			NewLevel:   p.Level,
			Stats:      p.Stats,
		}, nil
	})
	if err != nil {
		return domain.QuestInstance{}, err
	}
	return updated, nil
}

// ─── Completion ─────────────────────────────────────────────────────────────

// Complete transitions an ACTIVE quest to COMPLETED, awards XP scaled by
// the active debuff modifier, applies the template's stat bonus, and
// detects a level-up. Below-target completion requires the template to
// allow partials and the progress to meet the minimum percent.
// The quest row, player aggregate, and compliance counter commit in one
// transaction, and the player's XP is re-read inside it, so two
// concurrent completions for the same player both land.
func (l *Lifecycle) Complete(questID string, now time.Time) (domain.CompleteResult, error) {
	var res domain.CompleteResult
	err := l.db.MutateQuest(questID, func(q domain.QuestInstance, p domain.Player) (sqlite.QuestPlayerUpdate, error) {
		if q.Status != domain.QuestActive {
			return sqlite.QuestPlayerUpdate{}, fmt.Errorf("complete %s quest: %w", q.Status, domain.ErrInvalidState)
		}

		if !q.Requirement.Satisfied(q.CurrentValue) {
			if !q.AllowPartial {
				return sqlite.QuestPlayerUpdate{}, fmt.Errorf("quest at %d%%: %w", q.CompletionPercent(), domain.ErrQuestNotEligible)
			}
			if q.CompletionPercent() < q.MinPartialPercent {
				return sqlite.QuestPlayerUpdate{}, fmt.Errorf("quest at %d%% below %d%% minimum: %w",
					q.CompletionPercent(), q.MinPartialPercent, domain.ErrQuestNotEligible)
			}
		}

		mod := DebuffModifierAt(p.DebuffExpiresAt, now)
		awarded := int64(math.Round(float64(q.BaseXP) * mod.Multiplier))

		oldLevel := l.curve.LevelForXP(p.XP())
		newTotal := new(big.Int).Add(p.XP(), big.NewInt(awarded))
		newLevel := l.curve.LevelForXP(newTotal)

		q.Status = domain.QuestCompleted
		q.XPAwarded = awarded
		q.CompletedAt = now

		res = domain.CompleteResult{
			Quest:     q,
			XPAwarded: awarded,
			LeveledUp: newLevel > oldLevel,
			NewLevel:  newLevel,
		}

		delta := 0
		if q.IsCore {
			delta = 1
		}
		return sqlite.QuestPlayerUpdate{
			Quest:           q,
			NewTotalXP:      newTotal.String(),
			NewLevel:        newLevel,
			Stats:           p.Stats.Add(q.StatType, q.StatBonus),
			ComplianceDelta: delta,
		}, nil
	})
	if err != nil {
		return domain.CompleteResult{}, err
	}

	metrics.QuestsCompleted.WithLabelValues(coreLabel(res.Quest.IsCore)).Inc()
	metrics.XPAwarded.Add(float64(res.XPAwarded))
	if res.LeveledUp {
		metrics.LevelUps.Inc()
	}
	return res, nil
}

// ─── Reset ──────────────────────────────────────────────────────────────────

// Reset undoes a completion: the awarded XP and stat bonus are reverted
// exactly and the quest returns to ACTIVE. Valid only from COMPLETED and
// only while the quest's day is still current — a second reset fails with
// ErrInvalidState so callers can detect double submission.
func (l *Lifecycle) Reset(questID string, now time.Time) (domain.ResetResult, error) {
	var res domain.ResetResult
	err := l.db.MutateQuest(questID, func(q domain.QuestInstance, p domain.Player) (sqlite.QuestPlayerUpdate, error) {
		if q.Status != domain.QuestCompleted {
			return sqlite.QuestPlayerUpdate{}, fmt.Errorf("reset %s quest: %w", q.Status, domain.ErrInvalidState)
		}
		if q.QuestDate != now.UTC().Format(DateLayout) {
			return sqlite.QuestPlayerUpdate{}, fmt.Errorf("reset past-day quest: %w", domain.ErrInvalidState)
		}

		reverted := q.XPAwarded
		newTotal := new(big.Int).Sub(p.XP(), big.NewInt(reverted))
		if newTotal.Sign() < 0 {
			newTotal.SetInt64(0) // stale data clamps, never goes negative
		}
		newLevel := l.curve.LevelForXP(newTotal)

		q.Status = domain.QuestActive
		q.XPAwarded = 0
		q.CompletedAt = time.Time{}

		res = domain.ResetResult{
			Quest:      q,
			XPReverted: reverted,
			NewLevel:   newLevel,
		}

		delta := 0
		if q.IsCore {
			delta = -1
		}
		return sqlite.QuestPlayerUpdate{
			Quest:           q,
			NewTotalXP:      newTotal.String(),
			NewLevel:        newLevel,
			Stats:           p.Stats.Add(q.StatType, -q.StatBonus),
			ComplianceDelta: delta,
		}, nil
	})
	if err != nil {
		return domain.ResetResult{}, err
	}

	metrics.QuestsReset.Inc()
	return res, nil
}

// ─── Removal ────────────────────────────────────────────────────────────────

// Remove permanently deletes a non-core ACTIVE quest with no XP effect.
func (l *Lifecycle) Remove(questID string) error {
	q, err := l.db.GetQuest(questID)
	if err != nil {
		return err
	}
	if q.IsCore {
		return domain.ErrCannotRemoveCoreQuest
	}
	if q.Status != domain.QuestActive {
		return fmt.Errorf("remove %s quest: %w", q.Status, domain.ErrInvalidState)
	}
	return l.db.DeleteQuest(q.ID)
}

// ─── Day Expiry ─────────────────────────────────────────────────────────────

// ExpireDay fails every still-ACTIVE core quest dated before boundary and
// expires leftover non-core quests. Returns the counts; the missed core
// count feeds the debuff compliance check.
func (l *Lifecycle) ExpireDay(playerID string, boundary time.Time) (failed, expired int64, err error) {
	date := boundary.UTC().Format(DateLayout)
	failed, expired, err = l.db.ExpireQuestsBefore(playerID, date)
	if err != nil {
		return 0, 0, fmt.Errorf("expire quests: %w", err)
	}
	if failed > 0 {
		metrics.QuestsFailed.Add(float64(failed))
	}
	return failed, expired, nil
}

// QuestsForDay returns the player's quest instances for a date.
func (l *Lifecycle) QuestsForDay(playerID string, day time.Time) ([]domain.QuestInstance, error) {
	return l.db.ListQuestsForDay(playerID, day.UTC().Format(DateLayout))
}

func coreLabel(core bool) string {
	if core {
		return "core"
	}
	return "bonus"
}
