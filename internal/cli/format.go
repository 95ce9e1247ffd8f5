package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"facility_reports/internal/app"
	"facility_reports/internal/domain/pending"
	"facility_reports/internal/domain/report"
	"facility_reports/internal/domain/update"

	"github.com/fatih/color"
)

const timeLayout = "2006-01-02 15:04"

func priorityLabel(p report.Priority) string {
	switch p {
	case report.PriorityHigh:
		return color.New(color.FgRed).Sprint(p)
	case report.PriorityMedium:
		return color.New(color.FgYellow).Sprint(p)
	default:
		return color.New(color.FgHiBlack).Sprint(p)
	}
}

func statusLabel(s report.Status) string {
	if s == report.StatusResolved {
		return color.New(color.FgHiGreen).Sprint("[resolved]")
	}
	return color.New(color.FgHiCyan).Sprint("[pending]")
}

func writeReports(out io.Writer, reports []report.Report) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSTATUS\tPRIORITY\tISSUE\tLOCATION\tREPORTED BY\tCREATED")
	for _, r := range reports {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, statusLabel(r.Status), priorityLabel(r.Priority), r.IssueType, r.Location,
			r.ReportedBy, r.CreatedAt.Local().Format(timeLayout))
	}
	w.Flush()
}

func writeUpdates(out io.Writer, updates []update.AdminUpdate) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "REPORT\tISSUE\tLOCATION\tRESOLVED")
	for _, u := range updates {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ReportID, u.IssueType, u.Location, u.CreatedAt.Local().Format(timeLayout))
	}
	w.Flush()
}

func writeOperations(out io.Writer, ops []*pending.Operation, now time.Time) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "KIND\tREPORT\tATTEMPTS\tAGE\tLAST ERROR")
	for _, op := range ops {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\t%s\n",
			op.Kind, op.ReportID, op.Attempts, now.Sub(op.CreatedAt).Round(time.Second), op.LastError)
	}
	w.Flush()
}

func formatStats(stats app.DashboardStats) string {
	arrow := color.New(color.FgHiBlack).Sprint("→")
	switch {
	case stats.TrendPercentage > 0:
		arrow = color.New(color.FgGreen).Sprint("↑")
	case stats.TrendPercentage < 0:
		arrow = color.New(color.FgRed).Sprint("↓")
	}
	return fmt.Sprintf("Active issues:   %d\nResolved today:  %d\nYesterday:       %d\nTrend:           %s %.1f%%",
		stats.ActiveIssues, stats.ResolvedToday, stats.ResolvedYesterday, arrow, stats.TrendPercentage)
}
