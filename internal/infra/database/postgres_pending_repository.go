// internal/infra/database/postgres_pending_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"facility_reports/internal/domain/pending"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// PostgresPendingRepository keeps the reconciliation queue in PostgreSQL so queued
// calls survive restarts and are shared between facilityctl and the reconciler.
type PostgresPendingRepository struct {
	db *sql.DB
}

func NewPostgresPendingRepository(db *sql.DB) *PostgresPendingRepository {
	return &PostgresPendingRepository{db: db}
}

func (r *PostgresPendingRepository) Enqueue(ctx context.Context, op *pending.Operation) (bool, error) {
	query := `INSERT INTO pending_operations (id, kind, report_id, issue_type, location, idempotency_key, attempts, last_error)
               VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
               ON CONFLICT (kind, report_id) DO NOTHING
               RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query,
		op.ID, op.Kind, op.ReportID, op.IssueType, op.Location, op.IdempotencyKey, op.Attempts, op.LastError,
	).Scan(&op.CreatedAt, &op.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) { // conflict on (kind, report_id): already queued
			return false, nil
		}
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return false, nil
		}
		return false, fmt.Errorf("error enqueuing pending operation: %w", err)
	}
	return true, nil
}

func (r *PostgresPendingRepository) List(ctx context.Context) ([]*pending.Operation, error) {
	query := `SELECT id, kind, report_id, issue_type, location, idempotency_key, attempts, last_error, created_at, updated_at
               FROM pending_operations ORDER BY created_at, id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing pending operations: %w", err)
	}
	defer rows.Close()

	ops := make([]*pending.Operation, 0)
	for rows.Next() {
		op := &pending.Operation{}
		if err := rows.Scan(&op.ID, &op.Kind, &op.ReportID, &op.IssueType, &op.Location, &op.IdempotencyKey,
			&op.Attempts, &op.LastError, &op.CreatedAt, &op.UpdatedAt); err != nil {
			return nil, fmt.Errorf("error scanning pending operation: %w", err)
		}
		ops = append(ops, op)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating pending operations: %w", err)
	}
	return ops, nil
}

func (r *PostgresPendingRepository) MarkAttempt(ctx context.Context, op *pending.Operation, lastErr string) error {
	query := `UPDATE pending_operations
               SET attempts = attempts + 1, last_error = $1, updated_at = NOW()
               WHERE id = $2
               RETURNING attempts, updated_at`
	err := r.db.QueryRowContext(ctx, query, lastErr, op.ID).Scan(&op.Attempts, &op.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pending.ErrOperationNotFound
		}
		return fmt.Errorf("error updating pending operation: %w", err)
	}
	op.LastError = lastErr
	return nil
}

func (r *PostgresPendingRepository) Delete(ctx context.Context, op *pending.Operation) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pending_operations WHERE id = $1`, op.ID)
	if err != nil {
		return fmt.Errorf("error deleting pending operation: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error deleting pending operation: %w", err)
	}
	if n == 0 {
		return pending.ErrOperationNotFound
	}
	return nil
}
