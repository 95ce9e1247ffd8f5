package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"facility_reports/internal/cli"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "facilityctl",
		Short: "Report and resolve campus facility issues",
		Long: `facilityctl talks to the facility reporting backend configured by API_BASE_URL.

Reporters submit issues and confirm resolution notices; admins list live issues,
resolve them and watch the dashboard counters. Set API_TOKEN to act as a signed-in user.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cli.SubmitCmd())
	rootCmd.AddCommand(cli.ReportsCmd())
	rootCmd.AddCommand(cli.ResolveCmd())
	rootCmd.AddCommand(cli.UpdatesCmd())
	rootCmd.AddCommand(cli.ConfirmCmd())
	rootCmd.AddCommand(cli.StatsCmd())
	rootCmd.AddCommand(cli.PendingCmd())
	rootCmd.AddCommand(cli.CatalogCmd())
	rootCmd.AddCommand(cli.AuditCmd())
	rootCmd.AddCommand(cli.MaintenanceCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.ExitCode(err))
	}
}
