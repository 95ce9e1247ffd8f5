// internal/domain/pending/operation.go
package pending

import (
	"errors"
	"time"

	"facility_reports/internal/domain/update"

	"github.com/google/uuid"
)

var ErrOperationNotFound = errors.New("pending operation not found")

// Kind identifies which backend call an operation retries.
type Kind string

const (
	KindRecordUpdate Kind = "record_update" // POST /api/admin/resolve
	KindConfirmAck   Kind = "confirm_ack"   // POST /api/admin/resolve-confirm
)

// Operation is a backend call that failed and is waiting for the reconciliation pass.
// There is at most one operation per (Kind, ReportID).
type Operation struct {
	ID             string
	Kind           Kind
	ReportID       string
	IssueType      string
	Location       string
	IdempotencyKey string
	Attempts       int
	LastError      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewOperation builds an operation carrying everything needed to replay the call for u.
func NewOperation(kind Kind, u update.AdminUpdate, attempts int, lastErr error, now time.Time) *Operation {
	op := &Operation{
		ID:             uuid.NewString(),
		Kind:           kind,
		ReportID:       u.ReportID,
		IssueType:      u.IssueType,
		Location:       u.Location,
		IdempotencyKey: u.Key,
		Attempts:       attempts,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if lastErr != nil {
		op.LastError = lastErr.Error()
	}
	return op
}

// Update rebuilds the admin update the operation was created from.
func (o *Operation) Update() update.AdminUpdate {
	return update.AdminUpdate{
		ReportID:  o.ReportID,
		IssueType: o.IssueType,
		Location:  o.Location,
		CreatedAt: o.CreatedAt,
		Key:       o.IdempotencyKey,
	}
}
