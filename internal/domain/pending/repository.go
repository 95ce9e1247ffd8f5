package pending

import "context"

// Repository stores operations awaiting reconciliation.
type Repository interface {
	// Enqueue stores op unless an operation with the same kind and report already exists.
	// It reports whether op was stored.
	Enqueue(ctx context.Context, op *Operation) (bool, error)
	List(ctx context.Context) ([]*Operation, error)
	// MarkAttempt increments Attempts and records the latest failure.
	MarkAttempt(ctx context.Context, op *Operation, lastErr string) error
	Delete(ctx context.Context, op *Operation) error
}
