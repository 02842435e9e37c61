package progression

import (
	"sort"
	"time"

	"github.com/cespare/xxhash/v2"

	"github.com/ascendrpg/ascend/internal/domain"
)

// RotatingUnlockDay is the 1-based account age from which the daily
// rotating bonus quest is offered.
const RotatingUnlockDay = 8

// SelectRotating deterministically picks one template id for (date, userID)
// from the eligible pool. The same inputs always yield the same pick; the
// pool is sorted before indexing so caller ordering cannot change the
// result. An empty pool yields no selection, never an error.
//
// The hash is xxhash64 over "{date}-{userID}": stable across processes and
// well distributed across dates and users. Cryptographic strength is not
// needed here, only determinism and spread.
func SelectRotating(date, userID string, pool []string) (string, bool) {
	if len(pool) == 0 {
		return "", false
	}
	sorted := make([]string, len(pool))
	copy(sorted, pool)
	sort.Strings(sorted)

	h := xxhash.Sum64String(date + "-" + userID)
	return sorted[h%uint64(len(sorted))], true
}

// RotatingUnlocked reports whether the player's account is old enough on
// the given day to receive a rotating quest.
func RotatingUnlocked(p domain.Player, day time.Time) bool {
	return p.AccountAgeDays(day) >= RotatingUnlockDay
}
