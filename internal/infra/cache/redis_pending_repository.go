package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"facility_reports/internal/domain/pending"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// pendingHashKey holds one field per queued operation, keyed by OperationField.
const pendingHashKey = "facility:pending_operations"

// RedisPendingRepository keeps the reconciliation queue in a single Redis hash.
type RedisPendingRepository struct {
	client *redis.Client
	now    func() time.Time
}

func NewRedisPendingRepository(ctx context.Context, redisURL string, logger *logrus.Entry) (*RedisPendingRepository, error) {
	// Parse redis URL (redis://host:port or redis://host:port/db)
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}

	client := redis.NewClient(opts)

	// Test connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}

	logger.WithField("addr", opts.Addr).Info("Connected to Redis")
	return &RedisPendingRepository{client: client, now: time.Now}, nil
}

// OperationField is the hash field of op; it enforces one operation per kind and report.
func OperationField(kind pending.Kind, reportID string) string {
	return string(kind) + ":" + reportID
}

func (r *RedisPendingRepository) Enqueue(ctx context.Context, op *pending.Operation) (bool, error) {
	payload, err := json.Marshal(op)
	if err != nil {
		return false, fmt.Errorf("error encoding pending operation: %w", err)
	}
	stored, err := r.client.HSetNX(ctx, pendingHashKey, OperationField(op.Kind, op.ReportID), payload).Result()
	if err != nil {
		return false, fmt.Errorf("error enqueuing pending operation: %w", err)
	}
	return stored, nil
}

func (r *RedisPendingRepository) List(ctx context.Context) ([]*pending.Operation, error) {
	fields, err := r.client.HGetAll(ctx, pendingHashKey).Result()
	if err != nil {
		return nil, fmt.Errorf("error listing pending operations: %w", err)
	}
	ops := make([]*pending.Operation, 0, len(fields))
	for field, raw := range fields {
		op := &pending.Operation{}
		if err := json.Unmarshal([]byte(raw), op); err != nil {
			return nil, fmt.Errorf("error decoding pending operation %s: %w", field, err)
		}
		ops = append(ops, op)
	}
	slices.SortFunc(ops, func(a, b *pending.Operation) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return ops, nil
}

func (r *RedisPendingRepository) MarkAttempt(ctx context.Context, op *pending.Operation, lastErr string) error {
	field := OperationField(op.Kind, op.ReportID)
	raw, err := r.client.HGet(ctx, pendingHashKey, field).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return pending.ErrOperationNotFound
		}
		return fmt.Errorf("error loading pending operation: %w", err)
	}
	stored := &pending.Operation{}
	if err := json.Unmarshal([]byte(raw), stored); err != nil {
		return fmt.Errorf("error decoding pending operation %s: %w", field, err)
	}
	stored.Attempts++
	stored.LastError = lastErr
	stored.UpdatedAt = r.now()

	payload, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("error encoding pending operation: %w", err)
	}
	if err := r.client.HSet(ctx, pendingHashKey, field, payload).Err(); err != nil {
		return fmt.Errorf("error updating pending operation: %w", err)
	}
	op.Attempts, op.LastError, op.UpdatedAt = stored.Attempts, stored.LastError, stored.UpdatedAt
	return nil
}

func (r *RedisPendingRepository) Delete(ctx context.Context, op *pending.Operation) error {
	n, err := r.client.HDel(ctx, pendingHashKey, OperationField(op.Kind, op.ReportID)).Result()
	if err != nil {
		return fmt.Errorf("error deleting pending operation: %w", err)
	}
	if n == 0 {
		return pending.ErrOperationNotFound
	}
	return nil
}

func (r *RedisPendingRepository) Close() error {
	return r.client.Close()
}
