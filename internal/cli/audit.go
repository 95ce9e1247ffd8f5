package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"facility_reports/internal/domain/facility"
	"facility_reports/internal/domain/report"
	"facility_reports/internal/wire"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// AuditCmd returns the command group for facility audits. Without a subcommand it
// prints the audit overview.
func AuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Show facility audit scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *wire.Runtime) error {
				o, err := rt.Facilities.Overview(ctx)
				if err != nil {
					return err
				}
				writeOverview(cmd.OutOrStdout(), o)
				return nil
			})
		},
	}
	cmd.AddCommand(auditStartCmd(), auditScheduleCmd())
	return cmd
}

func auditStartCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "Start an audit now",
		Long: `Start an audit of one facility, or of all of them when --facility is omitted.

Usage:
  facilityctl audit start --auditor "Kim Lee" --type quick --facility f1`,
		RunE: func(cmd *cobra.Command, args []string) error {
			facilityID, _ := cmd.Flags().GetString("facility")
			auditor, _ := cmd.Flags().GetString("auditor")
			auditType, _ := cmd.Flags().GetString("type")
			notes, _ := cmd.Flags().GetString("notes")

			req := facility.NewAuditRequest(facilityID, auditor, auditType, notes)
			if err := req.Validate(); err != nil {
				return fmt.Errorf("%s", report.UserMessage(err))
			}
			return withRuntime(cmd, func(ctx context.Context, rt *wire.Runtime) error {
				audit, err := rt.Facilities.StartAudit(ctx, req)
				if err != nil {
					return fmt.Errorf("%s", report.UserMessage(err))
				}
				success(cmd, "Audit %s started (%s)", audit.ID, req.Type)
				return nil
			})
		},
	}
	cmd.Flags().String("facility", "", "Facility id (default: all facilities)")
	cmd.Flags().String("auditor", "", "Auditor name")
	cmd.Flags().String("type", facility.AuditFull, "Audit type: full, quick or follow-up")
	cmd.Flags().String("notes", "", "Notes for the auditor")
	return cmd
}

func auditScheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Schedule an audit",
		Long: `Book an audit for a later date.

Usage:
  facilityctl audit schedule --date 2024-03-04 --time 14:30 --auditor "Kim Lee" --type comprehensive`,
		RunE: func(cmd *cobra.Command, args []string) error {
			facilityID, _ := cmd.Flags().GetString("facility")
			date, _ := cmd.Flags().GetString("date")
			clock, _ := cmd.Flags().GetString("time")
			auditor, _ := cmd.Flags().GetString("auditor")
			scheduleType, _ := cmd.Flags().GetString("type")

			req := facility.NewScheduleRequest(facilityID, date, clock, auditor, scheduleType)
			if err := req.Validate(); err != nil {
				return fmt.Errorf("%s", report.UserMessage(err))
			}
			return withRuntime(cmd, func(ctx context.Context, rt *wire.Runtime) error {
				audit, err := rt.Facilities.ScheduleAudit(ctx, req)
				if err != nil {
					return fmt.Errorf("%s", report.UserMessage(err))
				}
				success(cmd, "Audit %s scheduled for %s %s", audit.ID, req.Date, req.Time)
				return nil
			})
		},
	}
	cmd.Flags().String("facility", "", "Facility id (default: all facilities)")
	cmd.Flags().String("date", "", "Date, YYYY-MM-DD")
	cmd.Flags().String("time", "", "Time, HH:MM")
	cmd.Flags().String("auditor", "", "Auditor name")
	cmd.Flags().String("type", facility.ScheduleRegular, "Schedule type: regular or comprehensive")
	return cmd
}

// MaintenanceCmd returns the command group for maintenance tasks.
func MaintenanceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maintenance",
		Short: "Manage maintenance tasks",
	}
	add := &cobra.Command{
		Use:   "add",
		Short: "Schedule a maintenance task",
		Long: `Create a maintenance task. New tasks start pending with medium priority.

Usage:
  facilityctl maintenance add --task "Refill soap" --location "Restroom - Ground Floor(010)" --date 2024-03-04`,
		RunE: func(cmd *cobra.Command, args []string) error {
			task := taskFromFlags(cmd)
			if err := task.Validate(); err != nil {
				return fmt.Errorf("%s", report.UserMessage(err))
			}
			return withRuntime(cmd, func(ctx context.Context, rt *wire.Runtime) error {
				created, err := rt.Facilities.AddMaintenanceTask(ctx, task)
				if err != nil {
					return fmt.Errorf("%s", report.UserMessage(err))
				}
				success(cmd, "Task %s scheduled: %s at %s on %s", created.ID, created.Task, created.Location, created.Date)
				return nil
			})
		},
	}
	add.Flags().String("task", "", "What needs to be done")
	add.Flags().String("location", "", "Location (see 'facilityctl catalog')")
	add.Flags().String("date", "", "Date, YYYY-MM-DD")
	add.Flags().String("time", "", "Time, HH:MM")
	add.Flags().String("assign", "", "Who does it")
	add.Flags().String("priority", facility.TaskPriorityMedium, "low, medium or high")
	cmd.AddCommand(add)
	return cmd
}

func taskFromFlags(cmd *cobra.Command) facility.Task {
	task, _ := cmd.Flags().GetString("task")
	location, _ := cmd.Flags().GetString("location")
	date, _ := cmd.Flags().GetString("date")
	clock, _ := cmd.Flags().GetString("time")
	assignee, _ := cmd.Flags().GetString("assign")
	priority, _ := cmd.Flags().GetString("priority")
	return facility.NewTask(task, location, date, clock, assignee, priority)
}

func scoreLabel(score float64) string {
	s := fmt.Sprintf("%.0f%%", score)
	switch {
	case score >= 90:
		return color.New(color.FgGreen).Sprint(s)
	case score >= 70:
		return color.New(color.FgYellow).Sprint(s)
	default:
		return color.New(color.FgRed).Sprint(s)
	}
}

func writeOverview(out io.Writer, o facility.Overview) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFACILITY\tSTATUS\tSCORE\tHYGIENE\tSUPPLIES\tPRIVACY\tACCESSIBILITY\tLAST AUDIT")
	for _, f := range o.Facilities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.0f\t%.0f\t%.0f\t%.0f\t%s\n",
			f.ID, f.Name, f.Status, scoreLabel(f.OverallScore),
			f.Scores.Hygiene, f.Scores.Supplies, f.Scores.Privacy, f.Scores.Accessibility, f.LastAudit)
	}
	w.Flush()

	if len(o.Criteria) > 0 {
		fmt.Fprintln(out, "\nCriteria:")
		for _, c := range o.Criteria {
			fmt.Fprintf(out, "  %-24s %5.1f%%  weight %.2f\n", c.Name, c.Percentage, c.Weight)
		}
	}
	if len(o.ComplianceItems) > 0 {
		fmt.Fprintln(out, "\nCompliance:")
		for _, item := range o.ComplianceItems {
			fmt.Fprintf(out, "  %-24s %s\n", item.Name, item.Status)
		}
	}
}
