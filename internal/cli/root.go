// Package cli implements the Ascend command-line interface using Cobra.
// Each subcommand maps to an engine capability (serve, assign, sweep, etc.).
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "ascend",
	Short: "Ascend — level up your real-life training",
	Long: `Ascend turns daily training into an RPG: core quests every day,
a rotating bonus quest, XP, levels, stats, and a compliance debuff for
skipped days. Run the API server with 'ascend serve'.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. Called from main.go.
func Execute(version string) {
	rootCmd.Version = version

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
