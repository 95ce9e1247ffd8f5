package facility

import (
	"context"
	"errors"
)

// ErrTaskNotCreated means the backend accepted a task without echoing its id.
var ErrTaskNotCreated = errors.New("backend did not return the created task")

// Gateway is the audit and maintenance part of the backend REST contract.
type Gateway interface {
	ListFacilities(ctx context.Context) ([]Facility, error)
	ListAuditCriteria(ctx context.Context) ([]Criterion, error)
	ListComplianceItems(ctx context.Context) ([]ComplianceItem, error)
	StartAudit(ctx context.Context, req AuditRequest) (*Audit, error)
	ScheduleAudit(ctx context.Context, req ScheduleRequest) (*Audit, error)
	CreateMaintenanceTask(ctx context.Context, task Task) (*Task, error)
}
