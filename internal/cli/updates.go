package cli

import (
	"context"
	"fmt"

	"facility_reports/internal/domain/report"
	"facility_reports/internal/wire"

	"github.com/spf13/cobra"
)

// UpdatesCmd returns the command that lists admin updates waiting for confirmation.
func UpdatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "updates",
		Short: "List resolution notices waiting for confirmation",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *wire.Runtime) error {
				updates := rt.Controller.Updates()
				if len(updates) == 0 {
					success(cmd, "No resolution notices")
					return nil
				}
				writeUpdates(cmd.OutOrStdout(), updates)
				return nil
			})
		},
	}
}

// ConfirmCmd returns the command a reporter uses to acknowledge a resolution notice.
func ConfirmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "confirm [report-id]",
		Short: "Confirm a resolution notice",
		Long: `Confirm that an issue was fixed. The notice disappears immediately; if the
backend cannot be reached the acknowledgement is queued and retried later.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportID := args[0]
			return withRuntime(cmd, func(ctx context.Context, rt *wire.Runtime) error {
				if !rt.Reconciler.Has(reportID) {
					warn(cmd, "No resolution notice for report %s", reportID)
					return nil
				}
				if err := rt.Controller.Confirm(ctx, reportID); err != nil {
					return fmt.Errorf("%s", report.UserMessage(err))
				}
				success(cmd, "Confirmed report %s", reportID)
				return nil
			})
		},
	}
}
