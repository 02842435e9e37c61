// Package progression implements the Ascend progression engine: the XP
// level curve, the compliance debuff policy, the quest lifecycle state
// machine, and deterministic rotating-quest selection.
package progression

import (
	"math/big"
	"sort"

	"github.com/ascendrpg/ascend/internal/domain"
)

// BaseXP is the curve coefficient. Advancing from level k to k+1 costs
// floor(BaseXP * k^1.5) XP on top of the prior threshold.
const BaseXP = 100

// DefaultMaxMemoLevel is the size of the precomputed threshold table.
// Levels beyond it are computed on demand.
const DefaultMaxMemoLevel = 200

// Curve computes level thresholds on arbitrary-precision XP totals.
// The memo table is built once at construction and never mutated, so a
// single Curve is safe for concurrent use and parallel tests.
type Curve struct {
	// thresholds[i] is the cumulative XP required to reach level i+1.
	// thresholds[0] = 0: level 1 is free.
	thresholds []*big.Int
}

// NewCurve builds a curve with thresholds memoized up to maxLevel.
func NewCurve(maxLevel int) *Curve {
	if maxLevel < 1 {
		maxLevel = 1
	}
	t := make([]*big.Int, maxLevel)
	t[0] = new(big.Int)
	for l := 2; l <= maxLevel; l++ {
		t[l-1] = new(big.Int).Add(t[l-2], stepXP(int64(l-1)))
	}
	return &Curve{thresholds: t}
}

// stepXP returns floor(BaseXP * k^1.5) exactly.
// BaseXP·k^1.5 = sqrt(BaseXP² · k³), and big.Int.Sqrt floors, so the
// result is exact at any level — no float drift.
func stepXP(k int64) *big.Int {
	n := big.NewInt(k)
	n.Mul(n, n)
	n.Mul(n, big.NewInt(k))
	n.Mul(n, big.NewInt(BaseXP*BaseXP))
	return n.Sqrt(n)
}

// Threshold returns the cumulative XP required to reach level.
// Levels at or below 1 require nothing.
func (c *Curve) Threshold(level int) *big.Int {
	if level <= 1 {
		return new(big.Int)
	}
	if level <= len(c.thresholds) {
		return new(big.Int).Set(c.thresholds[level-1])
	}
	// Past the memo: extend from the table's top without mutating it.
	total := new(big.Int).Set(c.thresholds[len(c.thresholds)-1])
	for k := len(c.thresholds); k < level; k++ {
		total.Add(total, stepXP(int64(k)))
	}
	return total
}

// LevelForXP returns the largest level whose threshold is at or below xp.
// Nil or negative XP clamps to level 1 — stale data must not crash callers.
func (c *Curve) LevelForXP(xp *big.Int) int {
	if xp == nil || xp.Sign() < 0 {
		return 1
	}
	// Binary search the memo for the first threshold strictly above xp.
	n := sort.Search(len(c.thresholds), func(i int) bool {
		return c.thresholds[i].Cmp(xp) > 0
	})
	if n < len(c.thresholds) {
		return n // thresholds[n-1] <= xp < thresholds[n]
	}
	// XP beyond the memoized range: keep stepping.
	level := len(c.thresholds)
	total := new(big.Int).Set(c.thresholds[level-1])
	for {
		total.Add(total, stepXP(int64(level)))
		if total.Cmp(xp) > 0 {
			return level
		}
		level++
	}
}

// Progress returns the player's position on the curve.
// ProgressPercent is floored and clamped to [0,100].
func (c *Curve) Progress(xp *big.Int) domain.LevelProgress {
	if xp == nil || xp.Sign() < 0 {
		xp = new(big.Int)
	}
	level := c.LevelForXP(xp)
	current := c.Threshold(level)
	next := c.Threshold(level + 1)

	progress := new(big.Int).Sub(xp, current)
	needed := new(big.Int).Sub(next, current)

	pct := 0
	if needed.Sign() > 0 {
		p := new(big.Int).Mul(progress, big.NewInt(100))
		p.Quo(p, needed)
		pct = int(p.Int64())
	}
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}

	return domain.LevelProgress{
		CurrentLevel:      level,
		XPForCurrentLevel: current,
		XPForNextLevel:    next,
		XPProgress:        progress,
		XPNeeded:          needed,
		ProgressPercent:   pct,
	}
}

// Thresholds returns the level table up to maxLevel, strictly increasing
// in both level and total XP.
func (c *Curve) Thresholds(maxLevel int) []domain.LevelThreshold {
	if maxLevel < 1 {
		maxLevel = 1
	}
	out := make([]domain.LevelThreshold, 0, maxLevel)
	for l := 1; l <= maxLevel; l++ {
		total := c.Threshold(l)
		out = append(out, domain.LevelThreshold{
			Level:    l,
			TotalXP:  total,
			XPToNext: new(big.Int).Sub(c.Threshold(l+1), total),
		})
	}
	return out
}
