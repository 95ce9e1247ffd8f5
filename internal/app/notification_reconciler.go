package app

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"facility_reports/internal/domain/report"
	"facility_reports/internal/domain/update"

	"github.com/sirupsen/logrus"
)

// NotificationReconciler is the only owner of the admin update feed.
//
// An update is shown from the moment it is materialized until the reporter confirms
// it. Confirmed report ids are remembered as retired, so a later refresh cannot bring
// an update back even when the backend never received the acknowledgement. They are
// forgotten again by PruneRetired once the backend feed and the queue no longer mention them.
type NotificationReconciler struct {
	gateway update.Gateway
	logger  *logrus.Entry
	now     func() time.Time

	mu         sync.Mutex
	updates    map[string]update.AdminUpdate
	unrecorded map[string]struct{} // materialized locally, not yet accepted by the backend
	retired    map[string]uint64   // report id -> generation at confirmation
	generation uint64
	closed     bool

	// ids seen by the latest applied refresh and the generation its fetch started at
	feed    map[string]struct{}
	feedGen uint64
}

func NewNotificationReconciler(gateway update.Gateway, logger *logrus.Entry) *NotificationReconciler {
	return &NotificationReconciler{
		gateway:    gateway,
		logger:     logger.WithField("component", "notification_reconciler"),
		now:        time.Now,
		updates:    make(map[string]update.AdminUpdate),
		unrecorded: make(map[string]struct{}),
		retired:    make(map[string]uint64),
	}
}

// Materialize creates the update for a freshly resolved report. Calling it again for the
// same report returns the existing update and false.
func (n *NotificationReconciler) Materialize(r report.Report) (update.AdminUpdate, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if existing, ok := n.updates[r.ID]; ok {
		return existing, false
	}
	u := update.FromReport(r, n.now())
	if _, done := n.retired[r.ID]; done {
		return u, false
	}
	n.updates[r.ID] = u
	n.unrecorded[r.ID] = struct{}{}
	n.generation++
	n.logger.WithField("report_id", r.ID).Info("Admin update materialized")
	return u, true
}

// MarkRecorded notes that the backend has accepted the update for reportID.
func (n *NotificationReconciler) MarkRecorded(reportID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.unrecorded, reportID)
}

// Confirm retires the update for reportID and acknowledges it to the backend.
// It reports whether this call removed the update; a missing update is a no-op.
// A failed acknowledgement does not restore the update.
func (n *NotificationReconciler) Confirm(ctx context.Context, reportID string) (bool, error) {
	n.mu.Lock()
	if _, ok := n.updates[reportID]; !ok {
		n.mu.Unlock()
		n.logger.WithField("report_id", reportID).Debug("No admin update to confirm")
		return false, nil
	}
	delete(n.updates, reportID)
	n.generation++
	n.retired[reportID] = n.generation
	n.mu.Unlock()

	if err := n.gateway.ConfirmAdminUpdate(ctx, reportID); err != nil {
		return true, fmt.Errorf("acknowledge confirmation of %s: %w", reportID, err)
	}
	n.logger.WithField("report_id", reportID).Info("Admin update confirmed")
	return true, nil
}

// Refresh replaces the feed with the backend's, keeping retired ids out and
// locally materialized but unrecorded updates in.
func (n *NotificationReconciler) Refresh(ctx context.Context) error {
	n.mu.Lock()
	n.generation++
	gen := n.generation
	n.mu.Unlock()

	fetched, err := n.gateway.ListAdminUpdates(ctx)
	if err != nil {
		n.logger.WithError(err).Error("Failed to fetch admin updates")
		return fmt.Errorf("failed to fetch admin updates: %w", err)
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed || gen != n.generation {
		n.logger.WithField("generation", gen).Debug("Discarding stale admin update refresh")
		return nil
	}

	next := make(map[string]update.AdminUpdate, len(fetched))
	seen := make(map[string]struct{}, len(fetched))
	for _, u := range fetched {
		seen[u.ReportID] = struct{}{}
		delete(n.unrecorded, u.ReportID)
		if _, done := n.retired[u.ReportID]; done {
			continue
		}
		if local, ok := n.updates[u.ReportID]; ok {
			u.Key = local.Key
			if u.CreatedAt.IsZero() {
				u.CreatedAt = local.CreatedAt
			}
		}
		next[u.ReportID] = u
	}
	for id := range n.unrecorded {
		if local, ok := n.updates[id]; ok {
			next[id] = local
		}
	}
	n.updates = next
	n.feed, n.feedGen = seen, gen
	n.generation++
	return nil
}

// ForgetUnrecorded drops a confirmed update whose recording was abandoned, so its
// retired id can eventually be pruned.
func (n *NotificationReconciler) ForgetUnrecorded(reportID string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if _, done := n.retired[reportID]; done {
		delete(n.unrecorded, reportID)
	}
}

// PruneRetired forgets retired ids that can no longer come back: confirmed before the
// latest refresh started, absent from its feed, not awaiting recording and not in queued.
// It returns the number of ids forgotten.
func (n *NotificationReconciler) PruneRetired(queued map[string]struct{}) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.feed == nil {
		return 0
	}
	pruned := 0
	for id, gen := range n.retired {
		if gen >= n.feedGen {
			continue
		}
		if _, ok := n.feed[id]; ok {
			continue
		}
		if _, ok := n.unrecorded[id]; ok {
			continue
		}
		if _, ok := queued[id]; ok {
			continue
		}
		delete(n.retired, id)
		pruned++
	}
	return pruned
}

// RetiredCount is the number of confirmed ids still remembered.
func (n *NotificationReconciler) RetiredCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.retired)
}

// List returns the feed most recent first.
func (n *NotificationReconciler) List() []update.AdminUpdate {
	n.mu.Lock()
	out := make([]update.AdminUpdate, 0, len(n.updates))
	for _, u := range n.updates {
		out = append(out, u)
	}
	n.mu.Unlock()

	slices.SortFunc(out, func(a, b update.AdminUpdate) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ReportID, b.ReportID)
	})
	return out
}

func (n *NotificationReconciler) Has(reportID string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, ok := n.updates[reportID]
	return ok
}

func (n *NotificationReconciler) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
}
