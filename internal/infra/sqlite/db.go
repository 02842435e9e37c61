// Package sqlite provides SQLite-based persistent storage for Ascend.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// Player aggregate. total_xp is a decimal string — XP totals are
		// arbitrary-precision and must survive values past 2^53.
		`CREATE TABLE IF NOT EXISTS players (
			id                TEXT PRIMARY KEY,
			name              TEXT NOT NULL DEFAULT '',
			total_xp          TEXT NOT NULL DEFAULT '0',
			level             INTEGER NOT NULL DEFAULT 1,
			strength          INTEGER NOT NULL DEFAULT 0,
			agility           INTEGER NOT NULL DEFAULT 0,
			vitality          INTEGER NOT NULL DEFAULT 0,
			intelligence      INTEGER NOT NULL DEFAULT 0,
			sense             INTEGER NOT NULL DEFAULT 0,
			debuff_expires_at INTEGER,
			created_at        INTEGER NOT NULL
		)`,

		// Immutable quest catalog (requirement stored as tagged columns)
		`CREATE TABLE IF NOT EXISTS quest_templates (
			id                  TEXT PRIMARY KEY,
			category            TEXT NOT NULL,
			description         TEXT NOT NULL,
			base_xp             INTEGER NOT NULL,
			stat_type           TEXT NOT NULL DEFAULT '',
			stat_bonus          INTEGER NOT NULL DEFAULT 0,
			req_kind            TEXT NOT NULL,
			req_metric          TEXT NOT NULL,
			req_operator        TEXT NOT NULL DEFAULT '',
			req_value           INTEGER NOT NULL DEFAULT 0,
			allow_partial       BOOLEAN NOT NULL DEFAULT 0,
			min_partial_percent INTEGER NOT NULL DEFAULT 0,
			min_level           INTEGER NOT NULL DEFAULT 1
		)`,

		// Per-day quest instances
		`CREATE TABLE IF NOT EXISTS quest_instances (
			id                  TEXT PRIMARY KEY,
			player_id           TEXT NOT NULL,
			template_id         TEXT NOT NULL,
			quest_date          TEXT NOT NULL,
			is_core             BOOLEAN NOT NULL DEFAULT 0,
			description         TEXT NOT NULL DEFAULT '',
			base_xp             INTEGER NOT NULL,
			req_kind            TEXT NOT NULL DEFAULT 'numeric',
			req_metric          TEXT NOT NULL DEFAULT '',
			req_operator        TEXT NOT NULL DEFAULT '',
			req_value           INTEGER NOT NULL DEFAULT 0,
			target_value        INTEGER NOT NULL,
			current_value       INTEGER NOT NULL DEFAULT 0,
			allow_partial       BOOLEAN NOT NULL DEFAULT 0,
			min_partial_percent INTEGER NOT NULL DEFAULT 0,
			stat_type           TEXT NOT NULL DEFAULT '',
			stat_bonus          INTEGER NOT NULL DEFAULT 0,
			status              TEXT NOT NULL DEFAULT 'ACTIVE',
			xp_awarded          INTEGER,
			completed_at        INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_quests_player_date ON quest_instances(player_id, quest_date)`,
		`CREATE INDEX IF NOT EXISTS idx_quests_status ON quest_instances(status)`,

		// Core-quest compliance counters, one row per (player, date)
		`CREATE TABLE IF NOT EXISTS daily_compliance (
			player_id      TEXT NOT NULL,
			date           TEXT NOT NULL,
			core_total     INTEGER NOT NULL DEFAULT 0,
			core_completed INTEGER NOT NULL DEFAULT 0,
			had_debuff     BOOLEAN NOT NULL DEFAULT 0,
			PRIMARY KEY (player_id, date)
		)`,

		// Consecutive full-compliance day streaks
		`CREATE TABLE IF NOT EXISTS streaks (
			player_id    TEXT PRIMARY KEY,
			current_days INTEGER NOT NULL DEFAULT 0,
			longest_days INTEGER NOT NULL DEFAULT 0,
			last_date    TEXT NOT NULL DEFAULT ''
		)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// dbtx is satisfied by both *sql.DB and *sql.Tx, so query helpers can run
// standalone or inside a transaction.
type dbtx interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

func nullableUnix(t time.Time) sql.NullInt64 {
	if t.IsZero() {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: t.Unix(), Valid: true}
}

func timeFromNullable(n sql.NullInt64) time.Time {
	if !n.Valid {
		return time.Time{}
	}
	return time.Unix(n.Int64, 0).UTC()
}
