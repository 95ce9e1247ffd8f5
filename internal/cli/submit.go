package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"facility_reports/internal/domain/report"
	"facility_reports/internal/wire"

	"github.com/spf13/cobra"
)

// SubmitCmd returns the command that files a new report.
func SubmitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Report a facility issue",
		Long: `Submit a new facility issue report.

The priority is derived from the issue type. Use --type Other together with
--custom to describe an issue outside the list shown by 'facilityctl catalog'.

Usage:
  facilityctl submit --type "Empty Dispenser" --location "Restroom - First Floor(110)"
  facilityctl submit --type Other --custom "Broken mirror" --location "Restroom - Third Floor(310)" --image mirror.jpg`,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft, err := draftFromFlags(cmd)
			if err != nil {
				return err
			}
			// Nothing reaches the network for an invalid draft.
			if err := draft.Validate(); err != nil {
				return fmt.Errorf("%s", report.UserMessage(err))
			}
			return withRuntime(cmd, func(ctx context.Context, rt *wire.Runtime) error {
				created, err := rt.Controller.Submit(ctx, draft)
				if err != nil {
					return fmt.Errorf("%s", report.UserMessage(err))
				}
				success(cmd, "Report %s submitted", created.ID)
				fmt.Fprintf(cmd.OutOrStdout(), "  Issue:    %s\n  Location: %s\n  Priority: %s\n",
					created.IssueType, created.Location, priorityLabel(created.Priority))
				return nil
			})
		},
	}

	cmd.Flags().String("type", "", "Issue type (see 'facilityctl catalog')")
	cmd.Flags().String("custom", "", "Custom issue label, required with --type Other")
	cmd.Flags().String("location", "", "Location of the issue")
	cmd.Flags().String("details", "", "Additional details")
	cmd.Flags().String("image", "", "Path to an image to attach (max 5MB)")
	return cmd
}

func draftFromFlags(cmd *cobra.Command) (report.Draft, error) {
	issueType, _ := cmd.Flags().GetString("type")
	custom, _ := cmd.Flags().GetString("custom")
	location, _ := cmd.Flags().GetString("location")
	details, _ := cmd.Flags().GetString("details")
	imagePath, _ := cmd.Flags().GetString("image")

	draft := report.Draft{
		IssueType:       issueType,
		CustomIssueType: custom,
		Location:        location,
		Details:         details,
	}
	if imagePath != "" {
		content, err := os.ReadFile(imagePath)
		if err != nil {
			return report.Draft{}, fmt.Errorf("failed to read image: %w", err)
		}
		draft.Attachment = &report.Attachment{Content: content, Filename: filepath.Base(imagePath)}
	}
	return draft, nil
}
