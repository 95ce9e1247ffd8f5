package app

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"facility_reports/internal/domain/report"
	"facility_reports/internal/domain/update"
)

func newTestReconciler() (*NotificationReconciler, *mockUpdateGateway) {
	gw := &mockUpdateGateway{}
	return NewNotificationReconciler(gw, testLogger()), gw
}

func TestMaterializeIsIdempotent(t *testing.T) {
	n, _ := newTestReconciler()
	r := pendingReport("r1")

	first, created := n.Materialize(r)
	if !created {
		t.Fatal("first Materialize() should create the update")
	}
	second, created := n.Materialize(r)
	if created {
		t.Error("second Materialize() should not create another update")
	}
	if first.Key != second.Key || first.Key == "" {
		t.Errorf("keys differ: %q vs %q", first.Key, second.Key)
	}
	if got := len(n.List()); got != 1 {
		t.Errorf("feed has %d updates, want 1", got)
	}
	if first.IssueType != r.IssueType || first.Location != r.Location {
		t.Errorf("update does not snapshot the report: %+v", first)
	}
}

func TestConfirmMissingIsNoop(t *testing.T) {
	n, gw := newTestReconciler()

	removed, err := n.Confirm(context.Background(), "unknown")
	if removed || err != nil {
		t.Errorf("Confirm() = %v, %v; want false, nil", removed, err)
	}
	if _, confirm := gw.counts(); confirm != 0 {
		t.Errorf("ConfirmAdminUpdate called %d times, want 0", confirm)
	}
}

func TestConcurrentConfirmRemovesOnce(t *testing.T) {
	n, gw := newTestReconciler()
	n.Materialize(pendingReport("r1"))

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	removedCount := 0
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			removed, err := n.Confirm(context.Background(), "r1")
			if err != nil {
				t.Errorf("Confirm() = %v", err)
			}
			if removed {
				mu.Lock()
				removedCount++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	if removedCount != 1 {
		t.Errorf("%d confirmations removed the update, want 1", removedCount)
	}
	if _, confirm := gw.counts(); confirm != 1 {
		t.Errorf("ConfirmAdminUpdate called %d times, want 1", confirm)
	}
	if n.Has("r1") {
		t.Error("update still present after confirm")
	}
}

func TestConfirmedUpdateStaysGoneAfterRefresh(t *testing.T) {
	n, gw := newTestReconciler()
	n.Materialize(pendingReport("r1"))
	gw.confirmErr = errNetworkDown

	removed, err := n.Confirm(context.Background(), "r1")
	if !removed {
		t.Fatal("Confirm() should remove the update even when the acknowledgement fails")
	}
	if !errors.Is(err, errNetworkDown) {
		t.Errorf("Confirm() error = %v, want wrapped network error", err)
	}

	// The backend never got the acknowledgement and still lists the update.
	gw.updates = []update.AdminUpdate{{ReportID: "r1", IssueType: "Empty Dispenser", CreatedAt: time.Now()}}
	if err := n.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}
	if n.Has("r1") {
		t.Error("refresh brought back a confirmed update")
	}

	// Materializing again after confirmation does not resurrect it either.
	if _, created := n.Materialize(pendingReport("r1")); created || n.Has("r1") {
		t.Error("Materialize() resurrected a confirmed update")
	}
}

func TestRefreshKeepsUnrecordedUpdates(t *testing.T) {
	n, gw := newTestReconciler()
	local, _ := n.Materialize(pendingReport("r1"))
	gw.updates = []update.AdminUpdate{{ReportID: "r2", IssueType: "Privacy Issues", CreatedAt: time.Now()}}

	if err := n.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}
	if !n.Has("r1") || !n.Has("r2") {
		t.Fatalf("feed = %+v, want r1 and r2", n.List())
	}

	// Once the backend holds the update, the backend's feed is authoritative.
	n.MarkRecorded("r1")
	gw.updates = []update.AdminUpdate{{ReportID: "r1", IssueType: local.IssueType}}
	if err := n.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}
	if n.Has("r2") {
		t.Error("r2 should be gone after the backend dropped it")
	}
	got := n.List()
	if len(got) != 1 || got[0].Key != local.Key || !got[0].CreatedAt.Equal(local.CreatedAt) {
		t.Errorf("feed = %+v, want local key and timestamp kept for r1", got)
	}
}

func TestReconcilerRefreshDiscardsStaleResult(t *testing.T) {
	n, gw := newTestReconciler()
	gw.updates = []update.AdminUpdate{{ReportID: "old", CreatedAt: time.Now()}}
	gw.listStarted = make(chan struct{})
	gw.listGate = make(chan struct{})
	started, gate := gw.listStarted, gw.listGate

	done := make(chan error, 1)
	go func() { done <- n.Refresh(context.Background()) }()
	<-started
	n.Materialize(pendingReport("fresh"))
	close(gate)
	if err := <-done; err != nil {
		t.Fatalf("Refresh() = %v", err)
	}

	if n.Has("old") || !n.Has("fresh") {
		t.Errorf("feed = %+v, want only the fresh update", n.List())
	}
}

func TestListMostRecentFirst(t *testing.T) {
	n, _ := newTestReconciler()
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		n.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		n.Materialize(report.Report{ID: id})
	}

	got := n.List()
	if len(got) != 3 || got[0].ReportID != "c" || got[2].ReportID != "a" {
		t.Errorf("List() order = %v, %v, %v", got[0].ReportID, got[1].ReportID, got[2].ReportID)
	}
}

func TestPruneRetiredForgetsIdsGoneFromFeed(t *testing.T) {
	n, gw := newTestReconciler()
	for _, id := range []string{"r1", "r2", "r3"} {
		n.Materialize(pendingReport(id))
		n.MarkRecorded(id)
		if _, err := n.Confirm(context.Background(), id); err != nil {
			t.Fatalf("Confirm(%s) = %v", id, err)
		}
	}
	if got := n.PruneRetired(nil); got != 0 {
		t.Fatalf("PruneRetired() before any refresh = %d, want 0", got)
	}

	// r2 is still unacknowledged on the backend and r3 has a queued acknowledgement.
	gw.updates = []update.AdminUpdate{{ReportID: "r2", CreatedAt: time.Now()}}
	if err := n.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}
	if got := n.PruneRetired(map[string]struct{}{"r3": {}}); got != 1 {
		t.Errorf("PruneRetired() = %d, want 1", got)
	}
	if got := n.RetiredCount(); got != 2 {
		t.Errorf("RetiredCount() = %d, want 2", got)
	}
	if n.Has("r2") {
		t.Error("r2 came back while still retired")
	}
}

func TestPruneRetiredKeepsIdsConfirmedAfterFetch(t *testing.T) {
	n, _ := newTestReconciler()
	if err := n.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}
	n.Materialize(pendingReport("r1"))
	n.MarkRecorded("r1")
	if _, err := n.Confirm(context.Background(), "r1"); err != nil {
		t.Fatalf("Confirm() = %v", err)
	}

	if got := n.PruneRetired(nil); got != 0 {
		t.Errorf("PruneRetired() = %d, want 0 for an id confirmed after the last fetch", got)
	}
}

func TestPruneRetiredKeepsUpdatesAwaitingRecording(t *testing.T) {
	n, _ := newTestReconciler()
	n.Materialize(pendingReport("r1"))
	if _, err := n.Confirm(context.Background(), "r1"); err != nil {
		t.Fatalf("Confirm() = %v", err)
	}
	if err := n.Refresh(context.Background()); err != nil {
		t.Fatalf("Refresh() = %v", err)
	}
	if got := n.PruneRetired(nil); got != 0 {
		t.Fatalf("PruneRetired() = %d, want 0 while the update may still be recorded", got)
	}

	n.ForgetUnrecorded("r1")
	if got := n.PruneRetired(nil); got != 1 {
		t.Errorf("PruneRetired() after abandoning the record = %d, want 1", got)
	}
}
