package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ascendrpg/ascend/internal/app/progression"
	"github.com/ascendrpg/ascend/internal/daemon"
)

func init() {
	rootCmd.AddCommand(levelCmd)
}

var levelCmd = &cobra.Command{
	Use:   "level <player-id>",
	Short: "Show a player's level and XP progress",
	Args:  cobra.ExactArgs(1),
	RunE:  runLevel,
}

func runLevel(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	player, err := d.DB.GetPlayer(args[0])
	if err != nil {
		return err
	}

	prog := d.Curve.Progress(player.XP())
	fmt.Printf("%s — level %d (%s)\n", player.Name, prog.CurrentLevel, progression.TitleForLevel(prog.CurrentLevel))
	fmt.Printf("  XP: %s total, %s / %s to next level (%d%%)\n",
		player.XP(), prog.XPProgress, prog.XPNeeded, prog.ProgressPercent)
	fmt.Printf("  Stats: STR %d  AGI %d  VIT %d  INT %d  SEN %d\n",
		player.Stats.Strength, player.Stats.Agility, player.Stats.Vitality,
		player.Stats.Intelligence, player.Stats.Sense)

	streak, err := d.Streak.Current(player.ID)
	if err != nil {
		return err
	}
	fmt.Printf("  Streak: %d days (longest %d)\n", streak.CurrentDays, streak.LongestDays)
	return nil
}
