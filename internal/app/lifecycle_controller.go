// internal/app/lifecycle_controller.go
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"facility_reports/internal/domain/pending"
	"facility_reports/internal/domain/report"
	"facility_reports/internal/domain/update"
	"facility_reports/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// Alerter surfaces warnings that must not get lost in the logs, e.g. a resolved
// report whose reporter was never notified.
type Alerter interface {
	Alert(ctx context.Context, message string) error
}

// RetryPolicy controls retries of step (b) of the resolve sequence and of the
// background reconciliation pass.
type RetryPolicy struct {
	ResolveAttempts   int           // attempts of step (b) inside one Resolve call
	ResolveBackoff    time.Duration // multiplied by the attempt number
	ReconcileAttempts int           // total attempts before a queued operation is abandoned
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		ResolveAttempts:   3,
		ResolveBackoff:    500 * time.Millisecond,
		ReconcileAttempts: 20,
	}
}

// LifecycleController runs the cross-actor sequences: submit, resolve and confirm.
type LifecycleController struct {
	store      *ReportStore
	reconciler *NotificationReconciler
	updates    update.Gateway
	pendingOps pending.Repository
	alerter    Alerter // optional
	policy     RetryPolicy
	logger     *logrus.Entry

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error

	reconcileMu sync.Mutex
}

func NewLifecycleController(
	store *ReportStore,
	reconciler *NotificationReconciler,
	updates update.Gateway,
	pendingOps pending.Repository,
	alerter Alerter,
	policy RetryPolicy,
	logger *logrus.Entry,
) *LifecycleController {
	if policy.ResolveAttempts < 1 {
		policy.ResolveAttempts = 1
	}
	if policy.ReconcileAttempts < 1 {
		policy.ReconcileAttempts = 1
	}
	return &LifecycleController{
		store:      store,
		reconciler: reconciler,
		updates:    updates,
		pendingOps: pendingOps,
		alerter:    alerter,
		policy:     policy,
		logger:     logger.WithField("component", "lifecycle_controller"),
		now:        time.Now,
		sleep:      sleepContext,
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Submit files a new report. Nothing else happens until an admin resolves it.
func (c *LifecycleController) Submit(ctx context.Context, draft report.Draft) (report.Report, error) {
	return c.store.Submit(ctx, draft)
}

// Resolve runs the two-step resolve sequence for reportID.
//
// Step (a) marks the report resolved and is never re-issued once it succeeded.
// Step (b) records the admin update and is retried; when retries run out the update is
// queued for reconciliation, an alert is raised and *report.PartialResolutionError is
// returned together with the locally materialized update.
func (c *LifecycleController) Resolve(ctx context.Context, reportID string) (update.AdminUpdate, error) {
	logEntry := c.logger.WithField("report_id", reportID)

	resolved, err := c.store.Resolve(ctx, reportID)
	if err != nil {
		return update.AdminUpdate{}, err
	}

	u, _ := c.reconciler.Materialize(resolved)

	attempts, err := c.recordUpdate(ctx, u)
	if err == nil {
		c.reconciler.MarkRecorded(reportID)
		logEntry.WithField("attempts", attempts).Info("Report resolved and admin update recorded")
		return u, nil
	}

	logEntry.WithError(err).WithField("attempts", attempts).Error("Admin update not recorded, queuing for reconciliation")
	if qErr := c.queue(context.WithoutCancel(ctx), pending.KindRecordUpdate, u, attempts, err); qErr != nil {
		logEntry.WithError(qErr).Error("Failed to queue admin update for reconciliation")
	}
	c.alert(context.WithoutCancel(ctx), fmt.Sprintf(
		"Report %s (%s, %s) is resolved but the reporter was not notified: %v",
		reportID, u.IssueType, u.Location, err))

	return u, &report.PartialResolutionError{ReportID: reportID, Attempts: attempts, Err: err}
}

// recordUpdate performs step (b) with retries. A conflict means the backend already
// holds the update, which counts as success.
func (c *LifecycleController) recordUpdate(ctx context.Context, u update.AdminUpdate) (int, error) {
	var lastErr error
	for attempt := 1; attempt <= c.policy.ResolveAttempts; attempt++ {
		lastErr = c.updates.RecordAdminUpdate(ctx, u)
		metrics.RecordResolveStep("record_update", lastErr == nil)
		if lastErr == nil || isConflict(lastErr) {
			return attempt, nil
		}
		if !report.IsRetryable(lastErr) || attempt == c.policy.ResolveAttempts {
			return attempt, lastErr
		}

		c.logger.WithError(lastErr).WithFields(logrus.Fields{
			"report_id": u.ReportID,
			"attempt":   attempt,
		}).Warn("Recording admin update failed, retrying")
		if err := c.sleep(ctx, c.policy.ResolveBackoff*time.Duration(attempt)); err != nil {
			return attempt, errors.Join(lastErr, err)
		}
	}
	return c.policy.ResolveAttempts, lastErr
}

// Confirm retires the admin update for reportID. The update disappears locally even if
// the backend acknowledgement fails; the acknowledgement is then queued for the
// reconciliation pass and only an expired session is reported back to the caller.
func (c *LifecycleController) Confirm(ctx context.Context, reportID string) error {
	removed, err := c.reconciler.Confirm(ctx, reportID)
	if !removed {
		metrics.RecordConfirmation("noop")
		return nil
	}
	if err == nil {
		metrics.RecordConfirmation("removed")
		return nil
	}

	metrics.RecordConfirmation("ack_failed")
	c.logger.WithError(err).WithField("report_id", reportID).Warn("Confirmation acknowledgement failed, queuing for reconciliation")
	u := update.AdminUpdate{ReportID: reportID, CreatedAt: c.now()}
	if qErr := c.queue(context.WithoutCancel(ctx), pending.KindConfirmAck, u, 1, err); qErr != nil {
		return fmt.Errorf("queue confirmation of %s: %w", reportID, qErr)
	}
	if errors.Is(err, report.ErrUnauthorized) {
		return err
	}
	return nil
}

// Refresh reloads reports and the admin update feed. The two fetches run concurrently
// and each one only touches the collection of its owner.
func (c *LifecycleController) Refresh(ctx context.Context) error {
	var wg sync.WaitGroup
	var reportsErr, updatesErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		reportsErr = c.store.Refresh(ctx)
	}()
	go func() {
		defer wg.Done()
		updatesErr = c.reconciler.Refresh(ctx)
	}()
	wg.Wait()
	if updatesErr == nil {
		c.pruneRetired(ctx)
	}
	return errors.Join(reportsErr, updatesErr)
}

func (c *LifecycleController) pruneRetired(ctx context.Context) {
	ops, err := c.pendingOps.List(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Could not list pending operations, keeping confirmed ids")
		return
	}
	queued := make(map[string]struct{}, len(ops))
	for _, op := range ops {
		queued[op.ReportID] = struct{}{}
	}
	if pruned := c.reconciler.PruneRetired(queued); pruned > 0 {
		c.logger.WithField("pruned", pruned).Debug("Forgot confirmed updates gone from the backend")
	}
}

func (c *LifecycleController) Stats() DashboardStats {
	return c.store.Stats()
}

func (c *LifecycleController) Reports(scope Scope) []report.Report {
	return c.store.Snapshot(scope)
}

func (c *LifecycleController) ActiveReports() []report.Report {
	return c.store.Active()
}

func (c *LifecycleController) Updates() []update.AdminUpdate {
	return c.reconciler.List()
}

// PendingOperations lists the backend calls still waiting for reconciliation.
func (c *LifecycleController) PendingOperations(ctx context.Context) ([]*pending.Operation, error) {
	return c.pendingOps.List(ctx)
}

func (c *LifecycleController) queue(ctx context.Context, kind pending.Kind, u update.AdminUpdate, attempts int, cause error) error {
	op := pending.NewOperation(kind, u, attempts, cause, c.now())
	stored, err := c.pendingOps.Enqueue(ctx, op)
	if err != nil {
		return err
	}
	if !stored {
		c.logger.WithFields(logrus.Fields{"report_id": u.ReportID, "kind": kind}).Debug("Operation already queued")
	}
	c.refreshPendingGauge(ctx)
	return nil
}

func (c *LifecycleController) refreshPendingGauge(ctx context.Context) {
	ops, err := c.pendingOps.List(ctx)
	if err != nil {
		c.logger.WithError(err).Warn("Could not count pending operations")
		return
	}
	metrics.SetPendingOperations(len(ops))
}

func (c *LifecycleController) alert(ctx context.Context, message string) {
	if c.alerter == nil {
		return
	}
	if err := c.alerter.Alert(ctx, message); err != nil {
		c.logger.WithError(err).Error("Failed to deliver alert")
	}
}

func isConflict(err error) bool {
	var conflict *report.ConflictError
	return errors.As(err, &conflict)
}
