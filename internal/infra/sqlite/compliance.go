package sqlite

import (
	"database/sql"

	"github.com/ascendrpg/ascend/internal/domain"
)

// ─── Daily Compliance Repository ────────────────────────────────────────────

// GetCompliance loads the (player, date) compliance record.
// Returns nil with no error if absent — absence means "no penalty".
func (d *DB) GetCompliance(playerID, date string) (*domain.DailyComplianceRecord, error) {
	var r domain.DailyComplianceRecord
	err := d.db.QueryRow(
		`SELECT player_id, date, core_total, core_completed, had_debuff
		 FROM daily_compliance WHERE player_id = ? AND date = ?`,
		playerID, date,
	).Scan(&r.PlayerID, &r.Date, &r.CoreTotal, &r.CoreCompleted, &r.HadDebuff)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// InitCompliance records how many core quests were assigned for the day.
// Re-assignment keeps the completed counter intact.
func (d *DB) InitCompliance(playerID, date string, coreTotal int) error {
	return initCompliance(d.db, playerID, date, coreTotal)
}

func initCompliance(x dbtx, playerID, date string, coreTotal int) error {
	_, err := x.Exec(
		`INSERT INTO daily_compliance (player_id, date, core_total, core_completed)
		 VALUES (?, ?, ?, 0)
		 ON CONFLICT(player_id, date) DO UPDATE SET core_total=excluded.core_total`,
		playerID, date, coreTotal,
	)
	return err
}

// MarkComplianceDebuff flags the record as having triggered a debuff.
func (d *DB) MarkComplianceDebuff(playerID, date string) error {
	_, err := d.db.Exec(
		`INSERT INTO daily_compliance (player_id, date, had_debuff)
		 VALUES (?, ?, 1)
		 ON CONFLICT(player_id, date) DO UPDATE SET had_debuff=1`,
		playerID, date,
	)
	return err
}
