package app

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"slices"
	"sync"
	"time"

	"facility_reports/internal/domain/report"
	"facility_reports/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// Scope selects which reports List returns.
type Scope string

const (
	ScopeAll  Scope = "all"
	ScopeMine Scope = "mine" // reports filed by the current session
)

// ReportStore is the only owner of the client-side report collection.
// Every mutation recomputes the dashboard stats before the lock is released.
type ReportStore struct {
	gateway report.Gateway
	logger  *logrus.Entry
	now     func() time.Time

	mu         sync.Mutex
	reports    []report.Report
	mine       []report.Report
	inFlight   map[string]struct{}
	generation uint64
	closed     bool
	stats      DashboardStats
	listeners  []func(DashboardStats)
}

func NewReportStore(gateway report.Gateway, logger *logrus.Entry) *ReportStore {
	return &ReportStore{
		gateway:  gateway,
		logger:   logger.WithField("component", "report_store"),
		now:      time.Now,
		inFlight: make(map[string]struct{}),
	}
}

// OnChange registers fn to receive fresh stats after every collection change.
// fn runs with the store locked and must not call back into the store.
func (s *ReportStore) OnChange(fn func(DashboardStats)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// Refresh replaces the collection with the backend's view. A result that arrives after
// Close, or after a newer refresh or local mutation, is discarded.
func (s *ReportStore) Refresh(ctx context.Context) error {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	s.mu.Unlock()

	all, err := s.gateway.ListReports(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to fetch reports")
		return fmt.Errorf("failed to fetch reports: %w", err)
	}
	var mine []report.Report
	if s.gateway.Authenticated() {
		mine, err = s.gateway.ListMyReports(ctx)
		if err != nil {
			s.logger.WithError(err).Error("Failed to fetch reports of current user")
			return fmt.Errorf("failed to fetch my reports: %w", err)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.generation {
		s.logger.WithField("generation", gen).Debug("Discarding stale report refresh")
		return nil
	}
	s.reports = s.merge(all)
	s.mine = s.merge(mine)
	s.changedLocked()
	s.logger.WithFields(logrus.Fields{"reports": len(s.reports), "mine": len(s.mine)}).Debug("Reports refreshed")
	return nil
}

// merge normalises fetched reports and keeps statuses monotonic: a report already
// resolved locally never goes back to pending because of a lagging response.
func (s *ReportStore) merge(fetched []report.Report) []report.Report {
	out := make([]report.Report, 0, len(fetched))
	for _, r := range fetched {
		r.Normalize()
		if r.IsPending() {
			if local, ok := s.findLocked(r.ID); ok && !local.IsPending() {
				r.Status = local.Status
				r.ResolvedAt = local.ResolvedAt
			}
		}
		out = append(out, r)
	}
	return out
}

func (s *ReportStore) findLocked(id string) (report.Report, bool) {
	if i := slices.IndexFunc(s.reports, func(r report.Report) bool { return r.ID == id }); i >= 0 {
		return s.reports[i], true
	}
	return report.Report{}, false
}

// Submit validates the draft, sends it and appends the created report.
// On any failure the collection is left untouched.
func (s *ReportStore) Submit(ctx context.Context, draft report.Draft) (report.Report, error) {
	if err := draft.Validate(); err != nil {
		return report.Report{}, err
	}

	sub := draft.Submission(s.now())
	created, err := s.gateway.CreateReport(ctx, sub)
	if err == nil && (created == nil || created.ID == "") {
		err = report.ErrMissingReportID
	}
	if err != nil {
		metrics.RecordSubmission(false)
		s.logger.WithError(err).WithField("issue_type", draft.EffectiveIssueType()).Error("Report submission failed")
		return report.Report{}, report.NewSubmissionFailed(err)
	}
	metrics.RecordSubmission(true)

	r := *created
	r.FillFrom(sub)
	r.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return r, nil
	}
	s.reports = append(s.reports, r)
	if s.gateway.Authenticated() {
		s.mine = append(s.mine, r)
	}
	s.changedLocked()
	s.logger.WithFields(logrus.Fields{"report_id": r.ID, "priority": r.Priority}).Info("Report submitted")
	return r, nil
}

// Resolve performs step (a) of the resolve sequence. The report must be pending here and
// not already being resolved by this store. A 409 from the backend refreshes the
// collection before the ConflictError is returned.
func (s *ReportStore) Resolve(ctx context.Context, reportID string) (report.Report, error) {
	s.mu.Lock()
	before, ok := s.findLocked(reportID)
	switch {
	case !ok:
		s.mu.Unlock()
		return report.Report{}, fmt.Errorf("resolve %s: %w", reportID, report.ErrReportNotFound)
	case !before.IsPending():
		s.mu.Unlock()
		return report.Report{}, fmt.Errorf("resolve %s: %w", reportID, report.ErrAlreadyResolved)
	}
	if _, busy := s.inFlight[reportID]; busy {
		s.mu.Unlock()
		return report.Report{}, fmt.Errorf("resolve %s: %w", reportID, report.ErrResolveInFlight)
	}
	s.inFlight[reportID] = struct{}{}
	s.mu.Unlock()

	err := s.gateway.MarkResolved(ctx, reportID)
	metrics.RecordResolveStep("mark_resolved", err == nil)

	s.mu.Lock()
	delete(s.inFlight, reportID)
	if err != nil {
		s.mu.Unlock()
		logEntry := s.logger.WithError(err).WithField("report_id", reportID)
		var conflict *report.ConflictError
		if errors.As(err, &conflict) {
			logEntry.Warn("Backend rejected resolve, refreshing from backend")
			if refreshErr := s.Refresh(ctx); refreshErr != nil {
				logEntry.WithError(refreshErr).Error("Refresh after conflict failed")
			}
		} else {
			logEntry.Error("Failed to mark report resolved")
		}
		return report.Report{}, fmt.Errorf("resolve %s: %w", reportID, err)
	}
	defer s.mu.Unlock()

	resolvedAt := s.now()
	resolved := before
	_ = resolved.MarkResolved(resolvedAt)
	s.applyResolvedLocked(reportID, resolvedAt)
	s.changedLocked()
	s.logger.WithField("report_id", reportID).Info("Report marked resolved")
	return resolved, nil
}

func (s *ReportStore) applyResolvedLocked(reportID string, at time.Time) {
	for _, list := range [][]report.Report{s.reports, s.mine} {
		for i := range list {
			if list[i].ID == reportID && list[i].IsPending() {
				_ = list[i].MarkResolved(at)
			}
		}
	}
}

// changedLocked invalidates in-flight refreshes and republishes stats.
func (s *ReportStore) changedLocked() {
	s.generation++
	s.stats = ComputeStats(s.reports, s.now())
	metrics.SetDashboard(s.stats.ActiveIssues, s.stats.ResolvedToday)
	for _, fn := range s.listeners {
		fn(s.stats)
	}
}

// List yields a snapshot of the reports in scope. Each range over the returned
// sequence takes a fresh snapshot, so it can be iterated again.
func (s *ReportStore) List(scope Scope) iter.Seq[report.Report] {
	return func(yield func(report.Report) bool) {
		for _, r := range s.Snapshot(scope) {
			if !yield(r) {
				return
			}
		}
	}
}

// Snapshot returns a copy of the reports in scope.
func (s *ReportStore) Snapshot(scope Scope) []report.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	if scope == ScopeMine {
		return slices.Clone(s.mine)
	}
	return slices.Clone(s.reports)
}

// Active returns the pending reports, i.e. the admin "live issues" list.
func (s *ReportStore) Active() []report.Report {
	var active []report.Report
	for r := range s.List(ScopeAll) {
		if r.IsPending() {
			active = append(active, r)
		}
	}
	return active
}

func (s *ReportStore) Get(reportID string) (report.Report, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.findLocked(reportID)
}

// Stats returns the counters computed at the last collection change.
func (s *ReportStore) Stats() DashboardStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// Close stops the store from applying any result that is still in flight.
func (s *ReportStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}
