package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"facility_reports/internal/domain/facility"

	"github.com/sirupsen/logrus"
)

// FacilityService runs the audit and maintenance calls. It keeps no state of its own.
type FacilityService struct {
	gateway facility.Gateway
	logger  *logrus.Entry
}

func NewFacilityService(gateway facility.Gateway, logger *logrus.Entry) *FacilityService {
	return &FacilityService{
		gateway: gateway,
		logger:  logger.WithField("component", "facility_service"),
	}
}

// Overview loads facilities, audit criteria and compliance items concurrently.
// Any failure fails the whole overview.
func (s *FacilityService) Overview(ctx context.Context) (facility.Overview, error) {
	var (
		wg                                   sync.WaitGroup
		out                                  facility.Overview
		facilitiesErr, criteriaErr, itemsErr error
	)
	wg.Add(3)
	go func() {
		defer wg.Done()
		out.Facilities, facilitiesErr = s.gateway.ListFacilities(ctx)
	}()
	go func() {
		defer wg.Done()
		out.Criteria, criteriaErr = s.gateway.ListAuditCriteria(ctx)
	}()
	go func() {
		defer wg.Done()
		out.ComplianceItems, itemsErr = s.gateway.ListComplianceItems(ctx)
	}()
	wg.Wait()

	if err := errors.Join(facilitiesErr, criteriaErr, itemsErr); err != nil {
		s.logger.WithError(err).Error("Failed to load audit overview")
		return facility.Overview{}, fmt.Errorf("failed to load audit overview: %w", err)
	}
	return out, nil
}

func (s *FacilityService) StartAudit(ctx context.Context, req facility.AuditRequest) (*facility.Audit, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	audit, err := s.gateway.StartAudit(ctx, req)
	if err != nil {
		s.logger.WithError(err).Error("Failed to start audit")
		return nil, fmt.Errorf("failed to start audit: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"audit_id": audit.ID, "type": req.Type}).Info("Audit started")
	return audit, nil
}

func (s *FacilityService) ScheduleAudit(ctx context.Context, req facility.ScheduleRequest) (*facility.Audit, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	audit, err := s.gateway.ScheduleAudit(ctx, req)
	if err != nil {
		s.logger.WithError(err).Error("Failed to schedule audit")
		return nil, fmt.Errorf("failed to schedule audit: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"audit_id": audit.ID, "date": req.Date, "time": req.Time}).Info("Audit scheduled")
	return audit, nil
}

// AddMaintenanceTask validates and creates a task. The echoed task is completed with
// the fields that were sent; an echo without an id is an error.
func (s *FacilityService) AddMaintenanceTask(ctx context.Context, task facility.Task) (facility.Task, error) {
	if err := task.Validate(); err != nil {
		return facility.Task{}, err
	}
	created, err := s.gateway.CreateMaintenanceTask(ctx, task)
	if err == nil && (created == nil || created.ID == "") {
		err = facility.ErrTaskNotCreated
	}
	if err != nil {
		s.logger.WithError(err).WithField("location", task.Location).Error("Failed to create maintenance task")
		return facility.Task{}, fmt.Errorf("failed to create maintenance task: %w", err)
	}
	out := *created
	out.FillFrom(task)
	s.logger.WithFields(logrus.Fields{"task_id": out.ID, "location": out.Location}).Info("Maintenance task created")
	return out, nil
}
