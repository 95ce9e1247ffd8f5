package cli

import (
	"context"
	"fmt"
	"time"

	"facility_reports/internal/wire"

	"github.com/spf13/cobra"
)

// StatsCmd returns the command that prints the admin dashboard counters.
func StatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *wire.Runtime) error {
				fmt.Fprintln(cmd.OutOrStdout(), formatStats(rt.Controller.Stats()))
				return nil
			})
		},
	}
}

// PendingCmd returns the command that inspects and drains the reconciliation queue.
func PendingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pending",
		Short: "Inspect backend calls waiting for reconciliation",
		Long: `List the backend calls that failed and were queued for reconciliation.

Only useful with a persistent PENDING_STORE (postgres or redis); the in-memory
store starts empty for every command.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *wire.Runtime) error {
				ops, err := rt.Controller.PendingOperations(ctx)
				if err != nil {
					return fmt.Errorf("failed to list pending operations: %w", err)
				}
				if len(ops) == 0 {
					success(cmd, "Nothing is waiting for reconciliation")
					return nil
				}
				writeOperations(cmd.OutOrStdout(), ops, time.Now())
				return nil
			})
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "reconcile",
		Short: "Replay every queued call once",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *wire.Runtime) error {
				result, err := rt.Controller.ReconcileOnce(ctx)
				if err != nil {
					return err
				}
				success(cmd, "Reconciled %d, still failing %d, abandoned %d, remaining %d",
					result.Succeeded, result.Failed, result.Abandoned, result.Remaining)
				return nil
			})
		},
	})
	return cmd
}
