package app

import (
	"context"
	"fmt"

	"facility_reports/internal/domain/pending"
	"facility_reports/internal/infra/metrics"

	"github.com/sirupsen/logrus"
)

// ReconcileResult summarises one reconciliation pass.
type ReconcileResult struct {
	Succeeded int
	Failed    int
	Abandoned int
	Remaining int
}

// ReconcileOnce replays every queued backend call once. Successful operations are
// removed; failed ones keep their place with an incremented attempt counter until
// RetryPolicy.ReconcileAttempts is reached, after which they are dropped with an alert.
// Concurrent calls are serialised.
func (c *LifecycleController) ReconcileOnce(ctx context.Context) (ReconcileResult, error) {
	c.reconcileMu.Lock()
	defer c.reconcileMu.Unlock()

	var result ReconcileResult
	ops, err := c.pendingOps.List(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list pending operations: %w", err)
	}
	if len(ops) == 0 {
		metrics.SetPendingOperations(0)
		return result, nil
	}
	c.logger.WithField("operations", len(ops)).Info("Starting reconciliation pass")

	for _, op := range ops {
		if ctx.Err() != nil {
			break
		}
		logEntry := c.logger.WithFields(logrus.Fields{
			"report_id": op.ReportID,
			"kind":      op.Kind,
			"attempts":  op.Attempts,
		})

		callErr := c.replay(ctx, op)
		if callErr == nil || isConflict(callErr) {
			if err := c.pendingOps.Delete(ctx, op); err != nil {
				logEntry.WithError(err).Error("Operation replayed but could not be removed from the queue")
			}
			if op.Kind == pending.KindRecordUpdate {
				c.reconciler.MarkRecorded(op.ReportID)
			}
			metrics.RecordReconcile(string(op.Kind), "success")
			logEntry.Info("Pending operation reconciled")
			result.Succeeded++
			continue
		}

		if op.Attempts+1 >= c.policy.ReconcileAttempts {
			if err := c.pendingOps.Delete(ctx, op); err != nil {
				logEntry.WithError(err).Error("Failed to drop exhausted operation")
			}
			if op.Kind == pending.KindRecordUpdate {
				c.reconciler.ForgetUnrecorded(op.ReportID)
			}
			metrics.RecordReconcile(string(op.Kind), "abandoned")
			logEntry.WithError(callErr).Error("Giving up on pending operation")
			c.alert(ctx, fmt.Sprintf("Giving up on %s for report %s after %d attempts: %v",
				op.Kind, op.ReportID, op.Attempts+1, callErr))
			result.Abandoned++
			continue
		}

		if err := c.pendingOps.MarkAttempt(ctx, op, callErr.Error()); err != nil {
			logEntry.WithError(err).Error("Failed to record reconciliation attempt")
		}
		metrics.RecordReconcile(string(op.Kind), "error")
		logEntry.WithError(callErr).Warn("Pending operation still failing")
		result.Failed++
	}

	remaining, err := c.pendingOps.List(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list pending operations: %w", err)
	}
	result.Remaining = len(remaining)
	metrics.SetPendingOperations(result.Remaining)
	return result, nil
}

func (c *LifecycleController) replay(ctx context.Context, op *pending.Operation) error {
	switch op.Kind {
	case pending.KindRecordUpdate:
		return c.updates.RecordAdminUpdate(ctx, op.Update())
	case pending.KindConfirmAck:
		return c.updates.ConfirmAdminUpdate(ctx, op.ReportID)
	default:
		return fmt.Errorf("unknown pending operation kind %q", op.Kind)
	}
}
