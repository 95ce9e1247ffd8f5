package cli

import (
	"context"
	"fmt"

	"facility_reports/internal/app"
	"facility_reports/internal/wire"

	"github.com/spf13/cobra"
)

// ReportsCmd returns the command that lists reports.
func ReportsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reports",
		Short: "List reports",
		Long: `List reports known to the backend.

By default only pending reports are shown, the admin "live issues" view.
--all includes resolved reports and --mine lists the reports filed with the current
API_TOKEN.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			all, _ := cmd.Flags().GetBool("all")
			mine, _ := cmd.Flags().GetBool("mine")
			return withRuntime(cmd, func(ctx context.Context, rt *wire.Runtime) error {
				switch {
				case mine:
					if !rt.Session.Authenticated() {
						return fmt.Errorf("--mine requires a valid API_TOKEN")
					}
					writeReports(cmd.OutOrStdout(), rt.Controller.Reports(app.ScopeMine))
				case all:
					writeReports(cmd.OutOrStdout(), rt.Controller.Reports(app.ScopeAll))
				default:
					active := rt.Controller.ActiveReports()
					if len(active) == 0 {
						success(cmd, "No open issues")
						return nil
					}
					writeReports(cmd.OutOrStdout(), active)
				}
				return nil
			})
		},
	}

	cmd.Flags().Bool("all", false, "Include resolved reports")
	cmd.Flags().Bool("mine", false, "Only reports filed by the current session")
	cmd.MarkFlagsMutuallyExclusive("all", "mine")
	return cmd
}
