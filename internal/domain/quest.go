package domain

import "time"

// ─── Quest Status ───────────────────────────────────────────────────────────

// QuestStatus is the lifecycle state of a quest instance.
type QuestStatus string

const (
	QuestActive    QuestStatus = "ACTIVE"
	QuestCompleted QuestStatus = "COMPLETED"
	QuestFailed    QuestStatus = "FAILED"  // core quest left incomplete at day rollover
	QuestExpired   QuestStatus = "EXPIRED" // non-core quest left over from a past day
)

// ─── Requirement ────────────────────────────────────────────────────────────

// RequirementKind discriminates the requirement variants.
type RequirementKind string

const (
	RequirementNumeric RequirementKind = "numeric"
	RequirementBoolean RequirementKind = "boolean"
)

// CompareOp is the comparison used by numeric requirements.
type CompareOp string

const (
	OpGTE CompareOp = "gte"
	OpLTE CompareOp = "lte"
)

// Requirement is the tagged union describing what a quest demands.
// Numeric: reach (or stay under) Value units of Metric.
// Boolean: report Metric as done; Target is 1.
type Requirement struct {
	Kind     RequirementKind `json:"kind"`
	Metric   string          `json:"metric"`
	Operator CompareOp       `json:"operator,omitempty"` // numeric only
	Value    int64           `json:"value,omitempty"`    // numeric only
}

// Target returns the instance target value implied by the requirement.
func (r Requirement) Target() int64 {
	if r.Kind == RequirementBoolean {
		return 1
	}
	if r.Value < 1 {
		return 1
	}
	return r.Value
}

// Satisfied reports whether the given progress meets the requirement.
func (r Requirement) Satisfied(current int64) bool {
	switch r.Kind {
	case RequirementBoolean:
		return current >= 1
	case RequirementNumeric:
		if r.Operator == OpLTE {
			return current <= r.Value
		}
		return current >= r.Value
	}
	return false
}

// ─── Quest Template ─────────────────────────────────────────────────────────

// QuestCategory groups templates for assignment.
type QuestCategory string

const (
	CategoryCore     QuestCategory = "core"     // mandatory daily quests
	CategoryRotating QuestCategory = "rotating" // daily bonus pool
)

// QuestTemplate is an immutable catalog entry. Read-only to the engine.
type QuestTemplate struct {
	ID                string        `json:"id"`
	Category          QuestCategory `json:"category"`
	Description       string        `json:"description"`
	BaseXP            int64         `json:"base_xp"`
	StatType          StatType      `json:"stat_type"`
	StatBonus         int           `json:"stat_bonus"`
	Requirement       Requirement   `json:"requirement"`
	AllowPartial      bool          `json:"allow_partial"`
	MinPartialPercent int           `json:"min_partial_percent"` // meaningful only with AllowPartial
	MinLevel          int           `json:"min_level"`           // rotating eligibility gate
}

// IsCore reports whether instances of this template count toward debuffs.
func (t QuestTemplate) IsCore() bool {
	return t.Category == CategoryCore
}

// ─── Quest Instance ─────────────────────────────────────────────────────────

// QuestInstance is one player's quest for one day.
// XPAwarded is non-zero if and only if Status is COMPLETED.
type QuestInstance struct {
	ID                string      `json:"id"`
	PlayerID          string      `json:"player_id"`
	TemplateID        string      `json:"template_id"`
	QuestDate         string      `json:"quest_date"` // "2006-01-02"
	IsCore            bool        `json:"is_core"`
	Description       string      `json:"description"`
	BaseXP            int64       `json:"base_xp"`
	Requirement       Requirement `json:"requirement"`
	TargetValue       int64       `json:"target_value"`
	CurrentValue      int64       `json:"current_value"`
	AllowPartial      bool        `json:"allow_partial"`
	MinPartialPercent int         `json:"min_partial_percent"`
	StatType          StatType    `json:"stat_type,omitempty"`
	StatBonus         int         `json:"stat_bonus,omitempty"`
	Status            QuestStatus `json:"status"`
	XPAwarded         int64       `json:"xp_awarded,omitempty"`
	CompletedAt       time.Time   `json:"completed_at,omitzero"`
}

// CompletionPercent returns rounded progress in [0,100].
// Progress past the target does not count past 100.
func (q QuestInstance) CompletionPercent() int {
	if q.TargetValue <= 0 {
		return 100
	}
	cur := q.CurrentValue
	if cur > q.TargetValue {
		cur = q.TargetValue
	}
	if cur < 0 {
		cur = 0
	}
	return int((cur*100 + q.TargetValue/2) / q.TargetValue)
}

// ─── Compliance ─────────────────────────────────────────────────────────────

// DailyComplianceRecord counts core quests assigned vs completed for one
// (player, date). Mutated only by the quest completion/expiry path.
type DailyComplianceRecord struct {
	PlayerID      string `json:"player_id"`
	Date          string `json:"date"`
	CoreTotal     int    `json:"core_total"`
	CoreCompleted int    `json:"core_completed"`
	HadDebuff     bool   `json:"had_debuff"`
}

// Missed returns the number of core quests not completed.
func (r DailyComplianceRecord) Missed() int {
	m := r.CoreTotal - r.CoreCompleted
	if m < 0 {
		return 0
	}
	return m
}
