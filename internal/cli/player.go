package cli

import (
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ascendrpg/ascend/internal/daemon"
	"github.com/ascendrpg/ascend/internal/domain"
)

func init() {
	playerCreateCmd.Flags().StringVar(&playerID, "id", "", "Player id (default random)")
	playerCmd.AddCommand(playerCreateCmd)
	rootCmd.AddCommand(playerCmd)
}

var playerID string

var playerCmd = &cobra.Command{
	Use:   "player",
	Short: "Manage players",
}

var playerCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new player",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlayerCreate,
}

func runPlayerCreate(cmd *cobra.Command, args []string) error {
	d, err := daemon.New()
	if err != nil {
		return err
	}
	defer d.Close()

	p := domain.Player{
		ID:        playerID,
		Name:      args[0],
		TotalXP:   new(big.Int),
		Level:     1,
		CreatedAt: time.Now().UTC(),
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	if err := d.DB.InsertPlayer(p); err != nil {
		return err
	}
	fmt.Printf("Created player %s (%s)\n", p.Name, p.ID)
	return nil
}
