package main

import (
	"os"

	"github.com/spf13/cobra"

	"quotaguard/internal/interfaces/cli/migrate"
	"quotaguard/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "quotaguard",
		Short: "Quotaguard - subscription-aware request quota service",
		Long:  `Quotaguard resolves per-user request quotas from subscription entitlements and enforces hourly, daily and monthly limits.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
