// internal/domain/report/report.go
package report

import (
	"time"
)

// Status is the lifecycle state of a report. It only ever moves pending -> resolved.
type Status string

const (
	StatusPending  Status = "pending"
	StatusResolved Status = "resolved"
)

// AnonymousReporter is shown when a report was submitted without a session.
const AnonymousReporter = "Anonymous"

// Report is a single facility issue as returned by the backend.
type Report struct {
	ID         string     `json:"_id"`
	IssueType  string     `json:"issueType"`
	Priority   Priority   `json:"priority"`
	Location   string     `json:"location"`
	Details    string     `json:"details,omitempty"`
	Status     Status     `json:"status"`
	ReportedBy string     `json:"reportedBy"`
	CreatedAt  time.Time  `json:"timestamp"`
	ResolvedAt *time.Time `json:"resolvedAt,omitempty"`
	ImageName  string     `json:"imageName,omitempty"`
	ImageType  string     `json:"imageType,omitempty"`
}

// FillFrom completes a created report from the submission for fields the backend did
// not echo back.
func (r *Report) FillFrom(sub Submission) {
	if r.IssueType == "" {
		r.IssueType = sub.IssueType
	}
	if r.Location == "" {
		r.Location = sub.Location
	}
	if r.Priority == "" {
		r.Priority = sub.Priority
	}
	if r.Details == "" {
		r.Details = sub.Details
	}
	if r.CreatedAt.IsZero() {
		r.CreatedAt = sub.Timestamp
	}
	if r.ImageName == "" && sub.ImageName != nil {
		r.ImageName = *sub.ImageName
	}
	if r.ImageType == "" && sub.ImageType != nil {
		r.ImageType = *sub.ImageType
	}
}

// Normalize fills the defaults the admin dashboard assumes for fields the backend may omit.
func (r *Report) Normalize() {
	if r.Status == "" {
		r.Status = StatusPending
	}
	if r.ReportedBy == "" {
		r.ReportedBy = AnonymousReporter
	}
	if r.Priority == "" {
		r.Priority = PriorityMedium
	}
}

func (r Report) IsPending() bool {
	return r.Status == StatusPending
}

// MarkResolved performs the single pending -> resolved transition.
func (r *Report) MarkResolved(at time.Time) error {
	if r.Status != StatusPending {
		return ErrAlreadyResolved
	}
	r.Status = StatusResolved
	r.ResolvedAt = &at
	return nil
}

// ResolutionTime is when the report was resolved. Older backends do not send
// resolvedAt, in which case the submission timestamp is the best available value.
func (r Report) ResolutionTime() time.Time {
	if r.ResolvedAt != nil {
		return *r.ResolvedAt
	}
	return r.CreatedAt
}
