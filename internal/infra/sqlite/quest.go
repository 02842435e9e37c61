package sqlite

import (
	"database/sql"
	"fmt"

	"github.com/ascendrpg/ascend/internal/domain"
)

// ─── Quest Instance Repository ──────────────────────────────────────────────

const questColumns = `id, player_id, template_id, quest_date, is_core, description,
	base_xp, req_kind, req_metric, req_operator, req_value, target_value, current_value,
	allow_partial, min_partial_percent, stat_type, stat_bonus, status, xp_awarded, completed_at`

// InsertQuest creates a quest instance row.
func (d *DB) InsertQuest(q domain.QuestInstance) error {
	return insertQuest(d.db, q)
}

func insertQuest(x dbtx, q domain.QuestInstance) error {
	_, err := x.Exec(
		`INSERT INTO quest_instances (`+questColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		q.ID, q.PlayerID, q.TemplateID, q.QuestDate, q.IsCore, q.Description,
		q.BaseXP,
		string(q.Requirement.Kind), q.Requirement.Metric, string(q.Requirement.Operator), q.Requirement.Value,
		q.TargetValue, q.CurrentValue, q.AllowPartial, q.MinPartialPercent,
		string(q.StatType), q.StatBonus, string(q.Status),
		nullableXP(q.XPAwarded, q.Status), nullableUnix(q.CompletedAt),
	)
	return err
}

// GetQuest retrieves one quest instance. Returns ErrQuestNotFound if missing.
func (d *DB) GetQuest(id string) (*domain.QuestInstance, error) {
	return getQuest(d.db, id)
}

func getQuest(x dbtx, id string) (*domain.QuestInstance, error) {
	row := x.QueryRow(
		`SELECT `+questColumns+` FROM quest_instances WHERE id = ?`, id,
	)
	q, err := scanQuest(row)
	if err != nil {
		return nil, err
	}
	if q == nil {
		return nil, domain.ErrQuestNotFound
	}
	return q, nil
}

// ListQuestsForDay returns a player's quests for one date, core first.
func (d *DB) ListQuestsForDay(playerID, date string) ([]domain.QuestInstance, error) {
	return listQuestsForDay(d.db, playerID, date)
}

func listQuestsForDay(x dbtx, playerID, date string) ([]domain.QuestInstance, error) {
	rows, err := x.Query(
		`SELECT `+questColumns+` FROM quest_instances
		 WHERE player_id = ? AND quest_date = ?
		 ORDER BY is_core DESC, template_id`,
		playerID, date,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var quests []domain.QuestInstance
	for rows.Next() {
		q, err := scanQuest(rows)
		if err != nil {
			return nil, err
		}
		quests = append(quests, *q)
	}
	return quests, rows.Err()
}

// DeleteQuest permanently removes a quest instance.
func (d *DB) DeleteQuest(id string) error {
	res, err := d.db.Exec(`DELETE FROM quest_instances WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrQuestNotFound
	}
	return nil
}

// ExpireQuestsBefore transitions leftover ACTIVE quests from past days.
// Core quests become FAILED, non-core become EXPIRED. Returns the counts.
func (d *DB) ExpireQuestsBefore(playerID, date string) (failed, expired int64, err error) {
	res, err := d.db.Exec(
		`UPDATE quest_instances SET status = ?
		 WHERE player_id = ? AND quest_date < ? AND status = ? AND is_core = 1`,
		string(domain.QuestFailed), playerID, date, string(domain.QuestActive),
	)
	if err != nil {
		return 0, 0, err
	}
	failed, _ = res.RowsAffected()

	res, err = d.db.Exec(
		`UPDATE quest_instances SET status = ?
		 WHERE player_id = ? AND quest_date < ? AND status = ? AND is_core = 0`,
		string(domain.QuestExpired), playerID, date, string(domain.QuestActive),
	)
	if err != nil {
		return failed, 0, err
	}
	expired, _ = res.RowsAffected()
	return failed, expired, nil
}

// ─── Atomic Read-Modify-Write ───────────────────────────────────────────────
// Every quest mutation that touches the player aggregate runs its reads and
// writes inside one transaction. The single-connection pool makes the
// transaction the per-player mutual-exclusion boundary: concurrent
// completions serialize on it instead of overwriting each other's totals.

// QuestPlayerUpdate carries the outcome a MutateQuest callback computed
// from the in-transaction snapshot.
type QuestPlayerUpdate struct {
	Quest           domain.QuestInstance
	NewTotalXP      string // decimal string
	NewLevel        int
	Stats           domain.StatBlock
	ComplianceDelta int // +1 core completion, -1 core reset, 0 otherwise
}

// MutateQuest loads the quest and its player inside a transaction, lets
// decide compute the state to commit, and writes the quest row, player
// aggregate, and compliance counter together. An error from decide rolls
// everything back with no partial state.
func (d *DB) MutateQuest(questID string, decide func(q domain.QuestInstance, p domain.Player) (QuestPlayerUpdate, error)) error {
	return d.inTx(func(tx *sql.Tx) error {
		q, err := getQuest(tx, questID)
		if err != nil {
			return err
		}
		p, err := getPlayer(tx, q.PlayerID)
		if err != nil {
			return err
		}

		u, err := decide(*q, *p)
		if err != nil {
			return err
		}

		nq := u.Quest
		_, err = tx.Exec(
			`UPDATE quest_instances
			 SET status = ?, current_value = ?, xp_awarded = ?, completed_at = ?
			 WHERE id = ?`,
			string(nq.Status), nq.CurrentValue,
			nullableXP(nq.XPAwarded, nq.Status), nullableUnix(nq.CompletedAt), nq.ID,
		)
		if err != nil {
			return fmt.Errorf("update quest: %w", err)
		}

		if err := updatePlayerProgress(tx, nq.PlayerID, u.NewTotalXP, u.NewLevel, u.Stats); err != nil {
			return err
		}

		if u.ComplianceDelta != 0 {
			if err := bumpComplianceCompleted(tx, nq.PlayerID, nq.QuestDate, u.ComplianceDelta); err != nil {
				return err
			}
		}
		return nil
	})
}

// ApplyDayAssignment inserts a day's quest instances and its compliance
// row in one transaction. If instances already exist for the (player,
// date) they are returned with created=false and nothing is written, so
// concurrent assignment can neither double-insert nor leave a partial day.
func (d *DB) ApplyDayAssignment(playerID, date string, quests []domain.QuestInstance, coreTotal int) (assigned []domain.QuestInstance, created bool, err error) {
	err = d.inTx(func(tx *sql.Tx) error {
		existing, err := listQuestsForDay(tx, playerID, date)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			assigned = existing
			return nil
		}

		for _, q := range quests {
			if err := insertQuest(tx, q); err != nil {
				return fmt.Errorf("insert quest: %w", err)
			}
		}
		if err := initCompliance(tx, playerID, date, coreTotal); err != nil {
			return fmt.Errorf("init compliance: %w", err)
		}
		assigned = quests
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return assigned, created, nil
}

// inTx runs fn inside a transaction.
func (d *DB) inTx(fn func(tx *sql.Tx) error) error {
	tx, err := d.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func updatePlayerProgress(tx *sql.Tx, playerID, totalXP string, level int, st domain.StatBlock) error {
	res, err := tx.Exec(
		`UPDATE players
		 SET total_xp = ?, level = ?, strength = ?, agility = ?, vitality = ?, intelligence = ?, sense = ?
		 WHERE id = ?`,
		totalXP, level, st.Strength, st.Agility, st.Vitality, st.Intelligence, st.Sense,
		playerID,
	)
	if err != nil {
		return fmt.Errorf("update player: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

func bumpComplianceCompleted(tx *sql.Tx, playerID, date string, delta int) error {
	_, err := tx.Exec(
		`INSERT INTO daily_compliance (player_id, date, core_total, core_completed)
		 VALUES (?, ?, 0, MAX(0, ?))
		 ON CONFLICT(player_id, date) DO UPDATE SET
			core_completed = MAX(0, core_completed + ?)`,
		playerID, date, delta, delta,
	)
	if err != nil {
		return fmt.Errorf("bump compliance: %w", err)
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func scanQuest(s scanner) (*domain.QuestInstance, error) {
	var q domain.QuestInstance
	var reqKind, reqOp, statType, status string
	var xpAwarded, completedAt sql.NullInt64

	err := s.Scan(&q.ID, &q.PlayerID, &q.TemplateID, &q.QuestDate, &q.IsCore, &q.Description,
		&q.BaseXP, &reqKind, &q.Requirement.Metric, &reqOp, &q.Requirement.Value,
		&q.TargetValue, &q.CurrentValue, &q.AllowPartial, &q.MinPartialPercent,
		&statType, &q.StatBonus, &status, &xpAwarded, &completedAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}

	q.Requirement.Kind = domain.RequirementKind(reqKind)
	q.Requirement.Operator = domain.CompareOp(reqOp)
	q.StatType = domain.StatType(statType)
	q.Status = domain.QuestStatus(status)
	if xpAwarded.Valid {
		q.XPAwarded = xpAwarded.Int64
	}
	q.CompletedAt = timeFromNullable(completedAt)
	return &q, nil
}

func nullableXP(xp int64, status domain.QuestStatus) sql.NullInt64 {
	if status != domain.QuestCompleted {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: xp, Valid: true}
}
