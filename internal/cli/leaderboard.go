package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the all-time best scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result LeaderboardResult

			if err := client.Get(fmt.Sprintf("/api/v1/leaderboard?limit=%d", limit), &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of entries to show")

	return cmd
}
