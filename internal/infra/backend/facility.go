package backend

import (
	"context"
	"net/http"

	"facility_reports/internal/domain/facility"
)

// The audit and maintenance endpoints. Client implements facility.Gateway.

func (c *Client) ListFacilities(ctx context.Context) ([]facility.Facility, error) {
	var out []facility.Facility
	if err := c.do(ctx, "list facilities", http.MethodGet, "/api/facilities", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListAuditCriteria(ctx context.Context) ([]facility.Criterion, error) {
	var out []facility.Criterion
	if err := c.do(ctx, "list audit criteria", http.MethodGet, "/api/audit-criteria", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) ListComplianceItems(ctx context.Context) ([]facility.ComplianceItem, error) {
	var out []facility.ComplianceItem
	if err := c.do(ctx, "list compliance items", http.MethodGet, "/api/compliance-items", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) StartAudit(ctx context.Context, req facility.AuditRequest) (*facility.Audit, error) {
	var out facility.Audit
	if err := c.do(ctx, "start audit", http.MethodPost, "/api/audits/new", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ScheduleAudit(ctx context.Context, req facility.ScheduleRequest) (*facility.Audit, error) {
	var out facility.Audit
	if err := c.do(ctx, "schedule audit", http.MethodPost, "/api/audits/schedule", req, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateMaintenanceTask(ctx context.Context, task facility.Task) (*facility.Task, error) {
	var out facility.Task
	if err := c.do(ctx, "create maintenance task", http.MethodPost, "/api/maintenance/tasks", task, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
