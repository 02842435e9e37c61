// Package domain holds the pure types of the Ascend progression engine.
// No infrastructure imports — services and storage depend on this package,
// never the other way around.
package domain

import (
	"math/big"
	"time"
)

// StatType identifies which character stat a quest trains.
type StatType string

const (
	StatStrength     StatType = "strength"
	StatAgility      StatType = "agility"
	StatVitality     StatType = "vitality"
	StatIntelligence StatType = "intelligence"
	StatSense        StatType = "sense"
)

// StatBlock is the player's trainable attribute set.
type StatBlock struct {
	Strength     int `json:"strength"`
	Agility      int `json:"agility"`
	Vitality     int `json:"vitality"`
	Intelligence int `json:"intelligence"`
	Sense        int `json:"sense"`
}

// Add returns a copy with n points added to the given stat.
// Unknown stat types are ignored rather than rejected — stale template
// data must never crash a completion.
func (s StatBlock) Add(t StatType, n int) StatBlock {
	switch t {
	case StatStrength:
		s.Strength += n
	case StatAgility:
		s.Agility += n
	case StatVitality:
		s.Vitality += n
	case StatIntelligence:
		s.Intelligence += n
	case StatSense:
		s.Sense += n
	}
	return s
}

// Player is the progression aggregate. TotalXP is arbitrary-precision:
// lifetime totals overflow float64 long before they overflow a big.Int.
type Player struct {
	ID      string    `json:"id"`
	Name    string    `json:"name"`
	TotalXP *big.Int  `json:"total_xp"`
	Level   int       `json:"level"`
	Stats   StatBlock `json:"stats"`

	// DebuffExpiresAt is the zero time when no debuff has ever applied.
	DebuffExpiresAt time.Time `json:"debuff_expires_at"`

	CreatedAt time.Time `json:"created_at"`
}

// XP returns the player's total XP, treating nil as zero.
func (p Player) XP() *big.Int {
	if p.TotalXP == nil {
		return new(big.Int)
	}
	return p.TotalXP
}

// AccountAgeDays returns the 1-based account age on the given day.
// The creation day itself counts as day 1.
func (p Player) AccountAgeDays(day time.Time) int {
	created := p.CreatedAt.UTC().Truncate(24 * time.Hour)
	d := day.UTC().Truncate(24 * time.Hour)
	if d.Before(created) {
		return 0
	}
	return int(d.Sub(created).Hours()/24) + 1
}

// Streak tracks consecutive days on which the player completed every
// assigned core quest.
type Streak struct {
	CurrentDays int    `json:"current_days"`
	LongestDays int    `json:"longest_days"`
	LastDate    string `json:"last_date"` // "2006-01-02", empty if never
}

// Title is a level-gated honorific.
type Title struct {
	Level int    `json:"level"`
	Name  string `json:"name"`
}
