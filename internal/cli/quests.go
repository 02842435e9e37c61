package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ascendrpg/ascend/internal/daemon"
)

func init() {
	questsCmd.Flags().StringVar(&questsDate, "date", "", "Quest date as YYYY-MM-DD (default today)")
	rootCmd.AddCommand(questsCmd)
}

var questsDate string

var questsCmd = &cobra.Command{
	Use:   "quests <player-id>",
	Short: "List a player's quests for a day",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuests,
}

func runQuests(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	day, err := parseDayFlag(questsDate)
	if err != nil {
		return err
	}

	quests, err := d.Lifecycle.QuestsForDay(args[0], day)
	if err != nil {
		return err
	}
	if len(quests) == 0 {
		fmt.Println("No quests for this day. Run 'ascend assign' first.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "QUEST\tSTATUS\tPROGRESS\tXP")
	for _, q := range quests {
		xp := fmt.Sprintf("%d", q.BaseXP)
		if q.XPAwarded > 0 {
			xp = fmt.Sprintf("%d awarded", q.XPAwarded)
		}
		fmt.Fprintf(w, "%s\t%s\t%d/%d (%d%%)\t%s\n",
			q.Description, q.Status, q.CurrentValue, q.TargetValue, q.CompletionPercent(), xp)
	}
	return w.Flush()
}
