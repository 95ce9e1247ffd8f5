package app

import (
	"context"
	"errors"
	"fmt"

	"facility_reports/internal/domain/pending"
	"facility_reports/internal/domain/report"
	"facility_reports/internal/domain/update"
)

// ErrAdminNotAuthorized is returned when a chat command comes from someone other than
// the configured admin.
var ErrAdminNotAuthorized = errors.New("performing user is not authorized as an admin")

// AdminService exposes the admin side of the lifecycle to chat commands.
type AdminService struct {
	controller      *LifecycleController
	adminTelegramID int64
}

func NewAdminService(controller *LifecycleController, adminID int64) *AdminService {
	return &AdminService{
		controller:      controller,
		adminTelegramID: adminID,
	}
}

func (s *AdminService) authorize(performingAdminID int64) error {
	if s.adminTelegramID == 0 || performingAdminID != s.adminTelegramID {
		return ErrAdminNotAuthorized
	}
	return nil
}

// LiveIssues refreshes from the backend and returns the pending reports.
func (s *AdminService) LiveIssues(ctx context.Context, performingAdminID int64) ([]report.Report, error) {
	if err := s.authorize(performingAdminID); err != nil {
		return nil, err
	}
	if err := s.controller.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to refresh reports: %w", err)
	}
	return s.controller.ActiveReports(), nil
}

// Resolve runs the resolve sequence on behalf of the admin.
func (s *AdminService) Resolve(ctx context.Context, performingAdminID int64, reportID string) (update.AdminUpdate, error) {
	if err := s.authorize(performingAdminID); err != nil {
		return update.AdminUpdate{}, err
	}
	if _, known := s.controller.store.Get(reportID); !known {
		if err := s.controller.Refresh(ctx); err != nil {
			return update.AdminUpdate{}, fmt.Errorf("failed to refresh reports: %w", err)
		}
	}
	return s.controller.Resolve(ctx, reportID)
}

func (s *AdminService) Stats(ctx context.Context, performingAdminID int64) (DashboardStats, error) {
	if err := s.authorize(performingAdminID); err != nil {
		return DashboardStats{}, err
	}
	if err := s.controller.Refresh(ctx); err != nil {
		return DashboardStats{}, fmt.Errorf("failed to refresh reports: %w", err)
	}
	return s.controller.Stats(), nil
}

func (s *AdminService) PendingOperations(ctx context.Context, performingAdminID int64) ([]*pending.Operation, error) {
	if err := s.authorize(performingAdminID); err != nil {
		return nil, err
	}
	return s.controller.PendingOperations(ctx)
}

// ReconcileNow runs a reconciliation pass immediately instead of waiting for the schedule.
func (s *AdminService) ReconcileNow(ctx context.Context, performingAdminID int64) (ReconcileResult, error) {
	if err := s.authorize(performingAdminID); err != nil {
		return ReconcileResult{}, err
	}
	return s.controller.ReconcileOnce(ctx)
}
