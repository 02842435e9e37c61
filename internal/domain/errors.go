package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Player errors
	ErrPlayerNotFound = errors.New("player not found")
	ErrPlayerExists   = errors.New("player already exists")

	// Quest lifecycle errors
	ErrQuestNotFound         = errors.New("quest not found")
	ErrInvalidState          = errors.New("operation not valid for current quest status")
	ErrQuestNotEligible      = errors.New("partial-completion threshold not met")
	ErrCannotRemoveCoreQuest = errors.New("core quests cannot be removed")

	// Template errors
	ErrTemplateNotFound = errors.New("quest template not found")

	// Storage errors — propagated from the persistence layer, never retried here
	ErrDatabaseUnavailable = errors.New("database unavailable")
)
