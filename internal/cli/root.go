package cli

import (
	"github.com/spf13/cobra"
)

var (
	cfg    *Config
	client *Client
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "pondctl",
		Short: "CLI tool for the pondwars game server",
		Long: `pondctl is a CLI tool for the pondwars game server's read API.

It queries the all-time leaderboard and the server's health endpoint.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client = NewClient(cfg.ServerURL)
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: PONDWARS_SERVER)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")

	// Add subcommands
	rootCmd.AddCommand(newLeaderboardCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}
