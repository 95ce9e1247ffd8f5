package report

// Priority is derived from the issue type at submission time and never edited afterwards.
type Priority string

const (
	PriorityHigh   Priority = "High Priority"
	PriorityMedium Priority = "Medium Priority"
	PriorityLow    Priority = "Low Priority"
)

// IssueTypeOther requires a custom label on the draft.
const IssueTypeOther = "Other"

// IssueTypes is the fixed vocabulary in display order.
var IssueTypes = []string{
	"Empty Dispenser",
	"Poor Cleanliness",
	"Full Disposal Bin",
	"Privacy Issues",
	"Missing Supplies",
	"Maintenance Required",
	IssueTypeOther,
}

// Locations are the facility locations reports can be filed against.
var Locations = []string{
	"Restroom - Ground Floor(010)",
	"Restroom - First Floor(110)",
	"Restroom - Second Floor(210)",
	"Restroom - Third Floor(310)",
	"Restroom - Fourth Floor(410)",
	"Restroom - Fifth Floor(510)",
	"Restroom - Sixth Floor(610)",
}

var priorityByIssueType = map[string]Priority{
	"Empty Dispenser":      PriorityHigh,
	"Poor Cleanliness":     PriorityMedium,
	"Full Disposal Bin":    PriorityMedium,
	"Privacy Issues":       PriorityHigh,
	"Missing Supplies":     PriorityHigh,
	"Maintenance Required": PriorityMedium,
	IssueTypeOther:         PriorityLow,
}

// PriorityFor maps a selected issue type to its priority. Anything outside the
// vocabulary is treated like "Other".
func PriorityFor(issueType string) Priority {
	if p, ok := priorityByIssueType[issueType]; ok {
		return p
	}
	return PriorityLow
}
