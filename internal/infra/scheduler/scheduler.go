package scheduler

import (
	"context"
	"time"

	"facility_reports/internal/app" // For ReconcileResult

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Lifecycle is the part of the lifecycle controller the scheduler drives.
type Lifecycle interface {
	Refresh(ctx context.Context) error
	ReconcileOnce(ctx context.Context) (app.ReconcileResult, error)
}

// ReconcileScheduler runs the periodic refresh and the background reconciliation pass.
type ReconcileScheduler struct {
	cronEngine        *cron.Cron
	lifecycle         Lifecycle
	logger            *logrus.Entry
	cronSpecRefresh   string
	cronSpecReconcile string
}

func NewReconcileScheduler(
	lifecycle Lifecycle,
	logger *logrus.Entry,
	cronSpecRefresh string, // e.g., "* * * * *" (every minute)
	cronSpecReconcile string, // e.g., "*/5 * * * *" (every 5 minutes)
) *ReconcileScheduler {
	return &ReconcileScheduler{
		// SkipIfStillRunning keeps a slow pass from overlapping with the next one.
		cronEngine: cron.New(
			cron.WithLocation(time.Local),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		lifecycle:         lifecycle,
		logger:            logger.WithField("component", "scheduler"),
		cronSpecRefresh:   cronSpecRefresh,
		cronSpecReconcile: cronSpecReconcile,
	}
}

// Start registers the jobs and starts the cron engine. It fails on an invalid spec.
func (s *ReconcileScheduler) Start() error {
	s.logger.Info("Starting reconcile scheduler...")

	_, err := s.cronEngine.AddFunc(s.cronSpecRefresh, s.runRefresh)
	if err != nil {
		s.logger.WithError(err).Error("Could not add refresh cron job")
		return err
	}

	_, err = s.cronEngine.AddFunc(s.cronSpecReconcile, s.runReconcile)
	if err != nil {
		s.logger.WithError(err).Error("Could not add reconcile cron job")
		return err
	}

	s.cronEngine.Start()
	s.logger.WithFields(logrus.Fields{
		"refresh":   s.cronSpecRefresh,
		"reconcile": s.cronSpecReconcile,
	}).Info("Reconcile scheduler started with jobs.")
	return nil
}

func (s *ReconcileScheduler) runRefresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.lifecycle.Refresh(ctx); err != nil {
		s.logger.WithError(err).Error("Error during scheduled refresh")
	}
}

func (s *ReconcileScheduler) runReconcile() {
	s.logger.Debug("Cron job triggered for reconciliation.")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute) // Longer timeout for potentially more items
	defer cancel()
	result, err := s.lifecycle.ReconcileOnce(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Error during reconciliation pass")
		return
	}
	if result.Succeeded+result.Failed+result.Abandoned > 0 {
		s.logger.WithFields(logrus.Fields{
			"succeeded": result.Succeeded,
			"failed":    result.Failed,
			"abandoned": result.Abandoned,
			"remaining": result.Remaining,
		}).Info("Reconciliation pass finished")
	}
}

func (s *ReconcileScheduler) Stop() {
	s.logger.Info("Stopping reconcile scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Reconcile scheduler gracefully stopped.")
}
