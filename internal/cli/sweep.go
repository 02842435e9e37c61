package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ascendrpg/ascend/internal/daemon"
)

func init() {
	sweepCmd.Flags().StringVar(&sweepDate, "date", "", "Boundary day as YYYY-MM-DD (default today)")
	rootCmd.AddCommand(sweepCmd)
}

var sweepDate string

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Run the day-rollover sweep for all players",
	Long: `Fail leftover core quests from past days, apply compliance debuffs,
record streaks, and clear expired debuff state.`,
	RunE: runSweep,
}

func runSweep(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	day, err := parseDayFlag(sweepDate)
	if err != nil {
		return err
	}

	results, cleared, err := d.Sweeper.SweepAll(day, time.Now().UTC())
	if err != nil {
		return err
	}

	for _, r := range results {
		fmt.Printf("%s: %d failed, %d expired", r.PlayerID, r.Failed, r.Expired)
		if r.DebuffApplied {
			fmt.Printf(", debuff applied (%s)", r.DebuffReason)
		}
		fmt.Println()
	}
	fmt.Printf("Cleared %d expired debuffs\n", cleared)
	return nil
}
