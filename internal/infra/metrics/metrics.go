// Package metrics provides Prometheus metrics for the Ascend engine —
// counters and gauges for quests, XP, debuffs, and rollover sweeps.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Quests ─────────────────────────────────────────────────────────────────

// QuestsAssigned tracks quest instances created by daily assignment.
var QuestsAssigned = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "quests_assigned_total",
	Help:      "Total quest instances assigned.",
})

// QuestsCompleted tracks completed quests by kind (core or bonus).
var QuestsCompleted = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "quests_completed_total",
	Help:      "Total completed quests.",
}, []string{"kind"})

// QuestsFailed tracks core quests failed at day rollover.
var QuestsFailed = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "quests_failed_total",
	Help:      "Total core quests failed at day rollover.",
})

// QuestsReset tracks completion undos.
var QuestsReset = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "quests_reset_total",
	Help:      "Total quest completions undone.",
})

// ─── Progression ────────────────────────────────────────────────────────────

// XPAwarded tracks total XP granted through completions.
var XPAwarded = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "xp_awarded_total",
	Help:      "Total XP awarded.",
})

// LevelUps tracks level-up events.
var LevelUps = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "level_ups_total",
	Help:      "Total level-up events.",
})

// ─── Debuffs ────────────────────────────────────────────────────────────────

// DebuffsApplied tracks compliance debuffs applied.
var DebuffsApplied = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "debuffs_applied_total",
	Help:      "Total compliance debuffs applied.",
})

// ─── Sweeps ─────────────────────────────────────────────────────────────────

// SweepsRun tracks day-rollover sweep executions.
var SweepsRun = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "ascend",
	Name:      "sweeps_run_total",
	Help:      "Total day-rollover sweeps executed.",
})
