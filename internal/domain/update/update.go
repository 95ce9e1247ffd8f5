// internal/domain/update/update.go
package update

import (
	"time"

	"facility_reports/internal/domain/report"

	"github.com/google/uuid"
)

// AdminUpdate tells a reporter that their report was resolved. It stays in the
// feed until the reporter confirms it.
type AdminUpdate struct {
	ReportID  string    `json:"reportId"`  // weak reference to the report
	IssueType string    `json:"issueType"` // snapshot at resolution time
	Location  string    `json:"location"`  // snapshot at resolution time
	CreatedAt time.Time `json:"createdAt"`

	// Key is sent as the idempotency key when the update is recorded, so
	// retries of the same recording are recognisable by the backend.
	Key string `json:"-"`
}

// FromReport snapshots the fields of r that the notification needs.
func FromReport(r report.Report, at time.Time) AdminUpdate {
	return AdminUpdate{
		ReportID:  r.ID,
		IssueType: r.IssueType,
		Location:  r.Location,
		CreatedAt: at,
		Key:       uuid.NewString(),
	}
}
