package sqlite

import (
	"database/sql"

	"github.com/ascendrpg/ascend/internal/domain"
)

// ─── Quest Template Catalog ─────────────────────────────────────────────────
// Templates are catalog data: seeded once, read-only to the engine.

const templateColumns = `id, category, description, base_xp, stat_type, stat_bonus,
	req_kind, req_metric, req_operator, req_value, allow_partial, min_partial_percent, min_level`

// UpsertTemplate inserts or replaces a catalog entry.
func (d *DB) UpsertTemplate(t domain.QuestTemplate) error {
	_, err := d.db.Exec(
		`INSERT INTO quest_templates (`+templateColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			category=excluded.category,
			description=excluded.description,
			base_xp=excluded.base_xp,
			stat_type=excluded.stat_type,
			stat_bonus=excluded.stat_bonus,
			req_kind=excluded.req_kind,
			req_metric=excluded.req_metric,
			req_operator=excluded.req_operator,
			req_value=excluded.req_value,
			allow_partial=excluded.allow_partial,
			min_partial_percent=excluded.min_partial_percent,
			min_level=excluded.min_level`,
		t.ID, string(t.Category), t.Description, t.BaseXP, string(t.StatType), t.StatBonus,
		string(t.Requirement.Kind), t.Requirement.Metric, string(t.Requirement.Operator), t.Requirement.Value,
		t.AllowPartial, t.MinPartialPercent, t.MinLevel,
	)
	return err
}

// GetTemplate retrieves one catalog entry. Returns ErrTemplateNotFound if missing.
func (d *DB) GetTemplate(id string) (*domain.QuestTemplate, error) {
	row := d.db.QueryRow(
		`SELECT `+templateColumns+` FROM quest_templates WHERE id = ?`, id,
	)
	t, err := scanTemplate(row)
	if err != nil {
		return nil, err
	}
	if t == nil {
		return nil, domain.ErrTemplateNotFound
	}
	return t, nil
}

// ListTemplatesByCategory returns catalog entries for a category, ordered
// by id. The stable ordering matters: rotating selection indexes into it.
func (d *DB) ListTemplatesByCategory(cat domain.QuestCategory) ([]domain.QuestTemplate, error) {
	rows, err := d.db.Query(
		`SELECT `+templateColumns+` FROM quest_templates WHERE category = ? ORDER BY id`,
		string(cat),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var templates []domain.QuestTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// CountTemplates returns the catalog size (used to decide seeding).
func (d *DB) CountTemplates() (int, error) {
	var n int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM quest_templates`).Scan(&n)
	return n, err
}

func scanTemplate(s scanner) (*domain.QuestTemplate, error) {
	var t domain.QuestTemplate
	var cat, statType, reqKind, reqOp string

	err := s.Scan(&t.ID, &cat, &t.Description, &t.BaseXP, &statType, &t.StatBonus,
		&reqKind, &t.Requirement.Metric, &reqOp, &t.Requirement.Value,
		&t.AllowPartial, &t.MinPartialPercent, &t.MinLevel)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	t.Category = domain.QuestCategory(cat)
	t.StatType = domain.StatType(statType)
	t.Requirement.Kind = domain.RequirementKind(reqKind)
	t.Requirement.Operator = domain.CompareOp(reqOp)
	return &t, nil
}
