package sqlite

import (
	"database/sql"
	"math/big"
	"time"

	"github.com/ascendrpg/ascend/internal/domain"
)

// ─── Player Repository ──────────────────────────────────────────────────────

// InsertPlayer creates a new player row. Fails if the id is taken.
func (d *DB) InsertPlayer(p domain.Player) error {
	_, err := d.db.Exec(
		`INSERT INTO players (id, name, total_xp, level, strength, agility, vitality, intelligence, sense, debuff_expires_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.XP().String(), p.Level,
		p.Stats.Strength, p.Stats.Agility, p.Stats.Vitality, p.Stats.Intelligence, p.Stats.Sense,
		nullableUnix(p.DebuffExpiresAt), p.CreatedAt.Unix(),
	)
	return err
}

// GetPlayer retrieves a player by id. Returns ErrPlayerNotFound if missing.
func (d *DB) GetPlayer(id string) (*domain.Player, error) {
	return getPlayer(d.db, id)
}

func getPlayer(x dbtx, id string) (*domain.Player, error) {
	row := x.QueryRow(
		`SELECT id, name, total_xp, level, strength, agility, vitality, intelligence, sense, debuff_expires_at, created_at
		 FROM players WHERE id = ?`, id,
	)
	p, err := scanPlayer(row)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrPlayerNotFound
	}
	return p, nil
}

// ListPlayers returns all players ordered by creation time.
func (d *DB) ListPlayers() ([]domain.Player, error) {
	rows, err := d.db.Query(
		`SELECT id, name, total_xp, level, strength, agility, vitality, intelligence, sense, debuff_expires_at, created_at
		 FROM players ORDER BY created_at`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		p, err := scanPlayer(rows)
		if err != nil {
			return nil, err
		}
		players = append(players, *p)
	}
	return players, rows.Err()
}

// SetDebuff stamps the player's debuff expiry.
func (d *DB) SetDebuff(playerID string, expiresAt time.Time) error {
	res, err := d.db.Exec(
		`UPDATE players SET debuff_expires_at = ? WHERE id = ?`,
		expiresAt.Unix(), playerID,
	)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrPlayerNotFound
	}
	return nil
}

// ClearExpiredDebuffs nulls out every debuff that expired before now.
// Returns the number of players cleared.
func (d *DB) ClearExpiredDebuffs(now time.Time) (int64, error) {
	res, err := d.db.Exec(
		`UPDATE players SET debuff_expires_at = NULL
		 WHERE debuff_expires_at IS NOT NULL AND debuff_expires_at < ?`,
		now.Unix(),
	)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// ─── Streak Repository ──────────────────────────────────────────────────────

// GetStreak loads a player's streak. A missing row is a zero streak.
func (d *DB) GetStreak(playerID string) (domain.Streak, error) {
	var s domain.Streak
	err := d.db.QueryRow(
		`SELECT current_days, longest_days, last_date FROM streaks WHERE player_id = ?`,
		playerID,
	).Scan(&s.CurrentDays, &s.LongestDays, &s.LastDate)
	if err == sql.ErrNoRows {
		return domain.Streak{}, nil
	}
	return s, err
}

// SaveStreak upserts a player's streak state.
func (d *DB) SaveStreak(playerID string, s domain.Streak) error {
	_, err := d.db.Exec(
		`INSERT INTO streaks (player_id, current_days, longest_days, last_date)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(player_id) DO UPDATE SET
			current_days=excluded.current_days,
			longest_days=excluded.longest_days,
			last_date=excluded.last_date`,
		playerID, s.CurrentDays, s.LongestDays, s.LastDate,
	)
	return err
}

// ─── Helpers ────────────────────────────────────────────────────────────────

func scanPlayer(s scanner) (*domain.Player, error) {
	var p domain.Player
	var xp string
	var debuff sql.NullInt64
	var createdAt int64

	err := s.Scan(&p.ID, &p.Name, &xp, &p.Level,
		&p.Stats.Strength, &p.Stats.Agility, &p.Stats.Vitality,
		&p.Stats.Intelligence, &p.Stats.Sense,
		&debuff, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}

	total, ok := new(big.Int).SetString(xp, 10)
	if !ok {
		total = new(big.Int) // corrupt XP resolves to zero, not a crash
	}
	p.TotalXP = total
	p.DebuffExpiresAt = timeFromNullable(debuff)
	p.CreatedAt = time.Unix(createdAt, 0).UTC()
	return &p, nil
}
