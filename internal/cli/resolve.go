package cli

import (
	"context"
	"errors"
	"fmt"

	"facility_reports/internal/domain/report"
	"facility_reports/internal/domain/update"
	"facility_reports/internal/wire"

	"github.com/spf13/cobra"
)

// ResolveCmd returns the admin command that resolves a report and notifies its reporter.
func ResolveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "resolve [report-id]",
		Short: "Resolve a report and notify the reporter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportID := args[0]
			return withRuntime(cmd, func(ctx context.Context, rt *wire.Runtime) error {
				u, err := rt.Controller.Resolve(ctx, reportID)
				return resolveOutcome(cmd, u, err)
			})
		},
	}
}

// resolveOutcome prints the result of a resolve. A partial resolution is reported with
// ExitPartial so scripts can tell that the reporter has not been notified.
func resolveOutcome(cmd *cobra.Command, u update.AdminUpdate, err error) error {
	var partial *report.PartialResolutionError
	switch {
	case errors.As(err, &partial):
		warn(cmd, "%s", report.UserMessage(err))
		return &ExitError{Code: ExitPartial, Err: fmt.Errorf("reporter of %s not notified: %w", partial.ReportID, partial.Err)}
	case err != nil:
		return fmt.Errorf("%s", report.UserMessage(err))
	}
	success(cmd, "Resolved %s (%s, %s)", u.ReportID, u.IssueType, u.Location)
	return nil
}
