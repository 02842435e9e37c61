package cli

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ascendrpg/ascend/internal/app/progression"
	"github.com/ascendrpg/ascend/internal/daemon"
)

func init() {
	assignCmd.Flags().StringVar(&assignDate, "date", "", "Quest date as YYYY-MM-DD (default today)")
	rootCmd.AddCommand(assignCmd)
}

var assignDate string

var assignCmd = &cobra.Command{
	Use:   "assign <player-id>",
	Short: "Assign today's quests to a player",
	Args:  cobra.ExactArgs(1),
	RunE:  runAssign,
}

func runAssign(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	day, err := parseDayFlag(assignDate)
	if err != nil {
		return err
	}

	quests, err := d.Lifecycle.AssignDay(args[0], day)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tQUEST\tKIND\tTARGET\tXP")
	for _, q := range quests {
		kind := "bonus"
		if q.IsCore {
			kind = "core"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n", q.ID, q.Description, kind, q.TargetValue, q.BaseXP)
	}
	return w.Flush()
}

// parseDayFlag parses an optional YYYY-MM-DD flag, defaulting to today.
func parseDayFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Now().UTC(), nil
	}
	day, err := time.Parse(progression.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date must be YYYY-MM-DD: %w", err)
	}
	return day, nil
}
