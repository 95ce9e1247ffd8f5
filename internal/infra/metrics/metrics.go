package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	reportsSubmittedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facility_reports_submitted_total",
			Help: "Total number of report submissions by outcome",
		},
		[]string{"result"},
	)

	resolveStepsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facility_resolve_steps_total",
			Help: "Resolve sequence backend calls by step (mark_resolved, record_update) and outcome",
		},
		[]string{"step", "result"},
	)

	confirmationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facility_confirmations_total",
			Help: "Admin update confirmations by outcome",
		},
		[]string{"result"},
	)

	reconcileRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facility_reconcile_operations_total",
			Help: "Operations processed by the reconciliation pass by outcome",
		},
		[]string{"kind", "result"},
	)

	pendingOperations = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "facility_pending_operations",
			Help: "Backend calls waiting for reconciliation",
		},
	)

	activeIssues = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "facility_active_issues",
			Help: "Reports currently pending",
		},
	)

	resolvedToday = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "facility_resolved_today",
			Help: "Reports resolved since local midnight",
		},
	)
)

func outcome(ok bool) string {
	if ok {
		return "success"
	}
	return "error"
}

func RecordSubmission(ok bool) {
	reportsSubmittedTotal.WithLabelValues(outcome(ok)).Inc()
}

// RecordResolveStep counts one backend call of the resolve sequence.
func RecordResolveStep(step string, ok bool) {
	resolveStepsTotal.WithLabelValues(step, outcome(ok)).Inc()
}

// RecordConfirmation takes "removed", "noop" or "ack_failed".
func RecordConfirmation(result string) {
	confirmationsTotal.WithLabelValues(result).Inc()
}

func RecordReconcile(kind string, result string) {
	reconcileRunsTotal.WithLabelValues(kind, result).Inc()
}

func SetPendingOperations(n int) {
	pendingOperations.Set(float64(n))
}

// SetDashboard mirrors the latest dashboard numbers.
func SetDashboard(active, resolved int) {
	activeIssues.Set(float64(active))
	resolvedToday.Set(float64(resolved))
}
