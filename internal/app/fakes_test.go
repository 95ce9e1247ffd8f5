package app

import (
	"context"
	"errors"
	"io"
	"slices"
	"strconv"
	"sync"
	"time"

	"facility_reports/internal/domain/report"
	"facility_reports/internal/domain/update"
	"facility_reports/internal/infra/memstore"

	"github.com/sirupsen/logrus"
)

func testLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

var errNetworkDown = &report.NetworkError{Op: "test", Err: errors.New("connection refused")}

// mockReportGateway serves a fixed backend view and scripts failures.
type mockReportGateway struct {
	mu            sync.Mutex
	reports       []report.Report
	mine          []report.Report
	authenticated bool

	listErr   error
	createErr error
	// echo, when set, replaces the created report the backend answers with.
	echo     func(sub report.Submission) *report.Report
	markErrs []error // consumed one per MarkResolved call

	// listStarted is closed and listGate awaited by the next ListReports call only.
	listStarted chan struct{}
	listGate    chan struct{}

	listCalls   int
	createCalls int
	markCalls   int
	nextID      int
}

func (m *mockReportGateway) ListReports(ctx context.Context) ([]report.Report, error) {
	m.mu.Lock()
	m.listCalls++
	started, gate := m.listStarted, m.listGate
	m.listStarted, m.listGate = nil, nil
	reports, err := slices.Clone(m.reports), m.listErr
	m.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return reports, err
}

func (m *mockReportGateway) ListMyReports(_ context.Context) ([]report.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.mine), nil
}

func (m *mockReportGateway) CreateReport(_ context.Context, sub report.Submission) (*report.Report, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.createCalls++
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.echo != nil {
		return m.echo(sub), nil
	}
	m.nextID++
	return &report.Report{
		ID:        "new-" + strconv.Itoa(m.nextID),
		IssueType: sub.IssueType,
		Priority:  sub.Priority,
		Location:  sub.Location,
		Details:   sub.Details,
		CreatedAt: sub.Timestamp,
	}, nil
}

func (m *mockReportGateway) MarkResolved(_ context.Context, reportID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.markCalls++
	if len(m.markErrs) > 0 {
		err := m.markErrs[0]
		m.markErrs = m.markErrs[1:]
		if err != nil {
			return err
		}
	}
	for i := range m.reports {
		if m.reports[i].ID == reportID {
			_ = m.reports[i].MarkResolved(time.Now())
		}
	}
	return nil
}

func (m *mockReportGateway) Authenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticated
}

func (m *mockReportGateway) counts() (list, create, mark int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls, m.createCalls, m.markCalls
}

// mockUpdateGateway records step (b) calls and confirmations.
type mockUpdateGateway struct {
	mu         sync.Mutex
	updates    []update.AdminUpdate
	recordErrs []error // consumed one per RecordAdminUpdate call
	listErr    error
	confirmErr error

	listStarted chan struct{}
	listGate    chan struct{}

	recorded     []update.AdminUpdate
	recordCalls  int
	confirmCalls int
}

func (m *mockUpdateGateway) RecordAdminUpdate(_ context.Context, u update.AdminUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.recordCalls++
	if len(m.recordErrs) > 0 {
		err := m.recordErrs[0]
		m.recordErrs = m.recordErrs[1:]
		if err != nil {
			return err
		}
	}
	m.recorded = append(m.recorded, u)
	return nil
}

func (m *mockUpdateGateway) ListAdminUpdates(ctx context.Context) ([]update.AdminUpdate, error) {
	m.mu.Lock()
	started, gate := m.listStarted, m.listGate
	m.listStarted, m.listGate = nil, nil
	updates, err := slices.Clone(m.updates), m.listErr
	m.mu.Unlock()

	if started != nil {
		close(started)
	}
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return updates, err
}

func (m *mockUpdateGateway) ConfirmAdminUpdate(_ context.Context, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.confirmCalls++
	return m.confirmErr
}

func (m *mockUpdateGateway) counts() (record, confirm int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.recordCalls, m.confirmCalls
}

type mockAlerter struct {
	mu       sync.Mutex
	messages []string
}

func (m *mockAlerter) Alert(_ context.Context, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, message)
	return nil
}

func (m *mockAlerter) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.messages)
}

type testHarness struct {
	reports    *mockReportGateway
	updates    *mockUpdateGateway
	alerter    *mockAlerter
	pendingOps *memstore.PendingRepository
	controller *LifecycleController
	sleeps     []time.Duration
}

func newTestHarness(policy RetryPolicy, reports ...report.Report) *testHarness {
	h := &testHarness{
		reports:    &mockReportGateway{reports: reports},
		updates:    &mockUpdateGateway{},
		alerter:    &mockAlerter{},
		pendingOps: memstore.NewPendingRepository(),
	}
	log := testLogger()
	store := NewReportStore(h.reports, log)
	reconciler := NewNotificationReconciler(h.updates, log)
	h.controller = NewLifecycleController(store, reconciler, h.updates, h.pendingOps, h.alerter, policy, log)
	h.controller.sleep = func(_ context.Context, d time.Duration) error {
		h.sleeps = append(h.sleeps, d)
		return nil
	}
	return h
}

func pendingReport(id string) report.Report {
	return report.Report{
		ID:         id,
		IssueType:  "Empty Dispenser",
		Priority:   report.PriorityHigh,
		Location:   report.Locations[0],
		Status:     report.StatusPending,
		ReportedBy: report.AnonymousReporter,
		CreatedAt:  time.Now().Add(-time.Hour),
	}
}
