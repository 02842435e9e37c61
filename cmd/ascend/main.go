// Package main is the single-binary entrypoint for Ascend, the gamified
// training tracker: daily quests, XP, levels, and compliance debuffs.
package main

import "github.com/ascendrpg/ascend/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
