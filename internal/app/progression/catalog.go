package progression

import (
	"fmt"

	"github.com/ascendrpg/ascend/internal/domain"
	"github.com/ascendrpg/ascend/internal/infra/sqlite"
)

// DefaultTemplates is the built-in quest catalog: four mandatory daily
// core quests plus the rotating bonus pool. Deployments replace or extend
// it through the quest_templates table.
func DefaultTemplates() []domain.QuestTemplate {
	numeric := func(metric string, value int64) domain.Requirement {
		return domain.Requirement{Kind: domain.RequirementNumeric, Metric: metric, Operator: domain.OpGTE, Value: value}
	}
	boolean := func(metric string) domain.Requirement {
		return domain.Requirement{Kind: domain.RequirementBoolean, Metric: metric}
	}

	return []domain.QuestTemplate{
		// ─── Core: the daily training regimen ──────────────────────────
		{
			ID: "core-pushups", Category: domain.CategoryCore,
			Description: "100 push-ups", BaseXP: 50,
			StatType: domain.StatStrength, StatBonus: 1,
			Requirement:  numeric("pushups", 100),
			AllowPartial: true, MinPartialPercent: 50,
		},
		{
			ID: "core-situps", Category: domain.CategoryCore,
			Description: "100 sit-ups", BaseXP: 50,
			StatType: domain.StatVitality, StatBonus: 1,
			Requirement:  numeric("situps", 100),
			AllowPartial: true, MinPartialPercent: 50,
		},
		{
			ID: "core-squats", Category: domain.CategoryCore,
			Description: "100 squats", BaseXP: 50,
			StatType: domain.StatStrength, StatBonus: 1,
			Requirement:  numeric("squats", 100),
			AllowPartial: true, MinPartialPercent: 50,
		},
		{
			ID: "core-run", Category: domain.CategoryCore,
			Description: "Run 5 km", BaseXP: 75,
			StatType: domain.StatAgility, StatBonus: 1,
			Requirement:  numeric("run_km", 5),
			AllowPartial: true, MinPartialPercent: 60,
		},

		// ─── Rotating: the daily bonus pool ────────────────────────────
		{
			ID: "rot-plank", Category: domain.CategoryRotating,
			Description: "Hold a 5-minute plank", BaseXP: 40,
			StatType: domain.StatVitality, StatBonus: 1,
			Requirement: numeric("plank_min", 5),
		},
		{
			ID: "rot-steps", Category: domain.CategoryRotating,
			Description: "Walk 10,000 steps", BaseXP: 45,
			StatType: domain.StatAgility, StatBonus: 1,
			Requirement:  numeric("steps", 10000),
			AllowPartial: true, MinPartialPercent: 70,
		},
		{
			ID: "rot-water", Category: domain.CategoryRotating,
			Description: "Drink 2 liters of water", BaseXP: 30,
			StatType: domain.StatVitality, StatBonus: 1,
			Requirement: numeric("water_ml", 2000),
		},
		{
			ID: "rot-sleep", Category: domain.CategoryRotating,
			Description: "Sleep 8 hours", BaseXP: 35,
			StatType: domain.StatSense, StatBonus: 1,
			Requirement: boolean("slept_8h"),
		},
		{
			ID: "rot-meditate", Category: domain.CategoryRotating,
			Description: "Meditate for 10 minutes", BaseXP: 30,
			StatType: domain.StatSense, StatBonus: 1,
			Requirement: numeric("meditate_min", 10),
		},
		{
			ID: "rot-stretch", Category: domain.CategoryRotating,
			Description: "15 minutes of stretching", BaseXP: 30,
			StatType: domain.StatAgility, StatBonus: 1,
			Requirement: numeric("stretch_min", 15),
		},
		{
			ID: "rot-burpees", Category: domain.CategoryRotating,
			Description: "50 burpees", BaseXP: 55,
			StatType: domain.StatStrength, StatBonus: 1,
			Requirement:  numeric("burpees", 50),
			AllowPartial: true, MinPartialPercent: 60,
			MinLevel:     5,
		},
		{
			ID: "rot-stairs", Category: domain.CategoryRotating,
			Description: "Climb 30 flights of stairs", BaseXP: 50,
			StatType: domain.StatVitality, StatBonus: 1,
			Requirement: numeric("stair_flights", 30),
			MinLevel:    5,
		},
		{
			ID: "rot-cycle", Category: domain.CategoryRotating,
			Description: "Cycle 15 km", BaseXP: 60,
			StatType: domain.StatAgility, StatBonus: 1,
			Requirement:  numeric("cycle_km", 15),
			AllowPartial: true, MinPartialPercent: 60,
			MinLevel:     10,
		},
		{
			ID: "rot-read", Category: domain.CategoryRotating,
			Description: "Read for 30 minutes", BaseXP: 30,
			StatType: domain.StatIntelligence, StatBonus: 1,
			Requirement: numeric("read_min", 30),
		},
		{
			ID: "rot-journal", Category: domain.CategoryRotating,
			Description: "Write a training journal entry", BaseXP: 25,
			StatType: domain.StatIntelligence, StatBonus: 1,
			Requirement: boolean("journaled"),
		},
		{
			ID: "rot-screen", Category: domain.CategoryRotating,
			Description: "Keep screen time under 2 hours", BaseXP: 35,
			StatType: domain.StatSense, StatBonus: 1,
			Requirement: domain.Requirement{
				Kind: domain.RequirementNumeric, Metric: "screen_min",
				Operator: domain.OpLTE, Value: 120,
			},
		},
		{
			ID: "rot-swim", Category: domain.CategoryRotating,
			Description: "Swim 1 km", BaseXP: 65,
			StatType: domain.StatStrength, StatBonus: 1,
			Requirement: numeric("swim_km", 1),
			MinLevel:    10,
		},
	}
}

// SeedTemplates installs the default catalog when the table is empty.
func SeedTemplates(db *sqlite.DB) error {
	n, err := db.CountTemplates()
	if err != nil {
		return fmt.Errorf("count templates: %w", err)
	}
	if n > 0 {
		return nil
	}
	for _, t := range DefaultTemplates() {
		if err := db.UpsertTemplate(t); err != nil {
			return fmt.Errorf("seed template %s: %w", t.ID, err)
		}
	}
	return nil
}
