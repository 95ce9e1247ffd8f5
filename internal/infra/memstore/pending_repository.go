package memstore

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"facility_reports/internal/domain/pending"
)

// PendingRepository is a process-local reconciliation queue. Queued calls are lost on
// restart; use the Postgres or Redis repository when that matters.
type PendingRepository struct {
	mu  sync.Mutex
	ops map[string]*pending.Operation // by ID
	now func() time.Time
}

func NewPendingRepository() *PendingRepository {
	return &PendingRepository{
		ops: make(map[string]*pending.Operation),
		now: time.Now,
	}
}

func (r *PendingRepository) Enqueue(_ context.Context, op *pending.Operation) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.ops {
		if existing.Kind == op.Kind && existing.ReportID == op.ReportID {
			return false, nil
		}
	}
	stored := *op
	r.ops[op.ID] = &stored
	return true, nil
}

// List returns copies ordered by creation time.
func (r *PendingRepository) List(_ context.Context) ([]*pending.Operation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*pending.Operation, 0, len(r.ops))
	for _, op := range r.ops {
		c := *op
		out = append(out, &c)
	}
	slices.SortFunc(out, func(a, b *pending.Operation) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *PendingRepository) MarkAttempt(_ context.Context, op *pending.Operation, lastErr string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.ops[op.ID]
	if !ok {
		return pending.ErrOperationNotFound
	}
	stored.Attempts++
	stored.LastError = lastErr
	stored.UpdatedAt = r.now()
	op.Attempts, op.LastError, op.UpdatedAt = stored.Attempts, stored.LastError, stored.UpdatedAt
	return nil
}

func (r *PendingRepository) Delete(_ context.Context, op *pending.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.ops[op.ID]; !ok {
		return pending.ErrOperationNotFound
	}
	delete(r.ops, op.ID)
	return nil
}
