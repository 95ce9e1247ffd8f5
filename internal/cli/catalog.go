package cli

import (
	"fmt"
	"text/tabwriter"

	"facility_reports/internal/domain/report"

	"github.com/spf13/cobra"
)

// CatalogCmd returns the command that prints the accepted issue types and locations.
func CatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List issue types and locations",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ISSUE TYPE\tPRIORITY")
			for _, t := range report.IssueTypes {
				fmt.Fprintf(w, "%s\t%s\n", t, priorityLabel(report.PriorityFor(t)))
			}
			w.Flush()

			fmt.Fprintln(cmd.OutOrStdout(), "\nLOCATIONS")
			for _, l := range report.Locations {
				fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", l)
			}
			return nil
		},
	}
}
