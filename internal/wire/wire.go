// Package wire assembles the lifecycle services from configuration.
// Both executables build their object graph through Build so they share one wiring.
package wire

import (
	"context"
	"errors"
	"fmt"

	"facility_reports/internal/app"
	"facility_reports/internal/domain/pending"
	"facility_reports/internal/infra/backend"
	"facility_reports/internal/infra/cache"
	"facility_reports/internal/infra/config"
	idb "facility_reports/internal/infra/database"
	"facility_reports/internal/infra/memstore"

	"github.com/sirupsen/logrus"
)

// Runtime is the assembled object graph. Close releases what Build opened.
type Runtime struct {
	Config     *config.AppConfig
	Session    *backend.Session
	Backend    *backend.Client
	Store      *app.ReportStore
	Reconciler *app.NotificationReconciler
	Controller *app.LifecycleController
	Facilities *app.FacilityService
	Pending    pending.Repository

	closers []func() error
}

// Build wires the backend client, the two owned collections, the pending operation
// store selected by PENDING_STORE and the lifecycle controller. alerter may be nil.
func Build(ctx context.Context, cfg *config.AppConfig, alerter app.Alerter, log *logrus.Entry) (*Runtime, error) {
	rt := &Runtime{Config: cfg}

	pendingRepo, err := rt.openPending(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	rt.Pending = pendingRepo

	rt.Session = backend.NewSession(cfg.APIToken)
	rt.Backend = backend.NewClient(cfg.APIBaseURL, cfg.APITimeout, rt.Session, log)
	rt.Store = app.NewReportStore(rt.Backend, log)
	rt.Reconciler = app.NewNotificationReconciler(rt.Backend, log)
	rt.Facilities = app.NewFacilityService(rt.Backend, log)
	rt.Controller = app.NewLifecycleController(
		rt.Store,
		rt.Reconciler,
		rt.Backend,
		rt.Pending,
		alerter,
		app.RetryPolicy{
			ResolveAttempts:   cfg.ResolveMaxAttempts,
			ResolveBackoff:    cfg.ResolveRetryBackoff,
			ReconcileAttempts: cfg.ReconcileMaxAttempts,
		},
		log,
	)
	rt.closers = append(rt.closers, func() error {
		rt.Store.Close()
		rt.Reconciler.Close()
		return nil
	})
	return rt, nil
}

func (rt *Runtime) openPending(ctx context.Context, cfg *config.AppConfig, log *logrus.Entry) (pending.Repository, error) {
	switch cfg.PendingStore {
	case config.PendingStorePostgres:
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("could not connect to database: %w", err)
		}
		if err := idb.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, db.Close)
		log.Info("Pending operations stored in PostgreSQL")
		return idb.NewPostgresPendingRepository(db), nil
	case config.PendingStoreRedis:
		repo, err := cache.NewRedisPendingRepository(ctx, cfg.RedisURL, log)
		if err != nil {
			return nil, fmt.Errorf("could not connect to redis: %w", err)
		}
		rt.closers = append(rt.closers, repo.Close)
		log.Info("Pending operations stored in Redis")
		return repo, nil
	default:
		log.Warn("Pending operations kept in memory; they are lost when the process exits")
		return memstore.NewPendingRepository(), nil
	}
}

// Close releases connections in reverse order of acquisition.
func (rt *Runtime) Close() error {
	var errs []error
	for i := len(rt.closers) - 1; i >= 0; i-- {
		if err := rt.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
