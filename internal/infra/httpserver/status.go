package httpserver

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"facility_reports/internal/app"
	"facility_reports/internal/domain/pending"
	"facility_reports/internal/domain/report"
	"facility_reports/internal/domain/update"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	statusRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "facility_status_requests_total",
			Help: "Total number of requests to the status server",
		},
		[]string{"method", "endpoint", "status"},
	)

	statusRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "facility_status_request_duration_seconds",
			Help:    "Status server request duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
		[]string{"method", "endpoint"},
	)
)

// Lifecycle is the read side of the lifecycle controller exposed over HTTP.
type Lifecycle interface {
	Stats() app.DashboardStats
	Reports(scope app.Scope) []report.Report
	ActiveReports() []report.Report
	Updates() []update.AdminUpdate
	PendingOperations(ctx context.Context) ([]*pending.Operation, error)
}

// metricsMiddleware collects Prometheus metrics for each request
func metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unknown"
		}

		statusRequestsTotal.WithLabelValues(c.Request.Method, endpoint, status).Inc()
		statusRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(duration)
	}
}

// NewRouter builds the read-only status API of the reconciler daemon.
func NewRouter(lifecycle Lifecycle) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), metricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, lifecycle.Stats())
	})

	r.GET("/reports", func(c *gin.Context) {
		switch c.DefaultQuery("scope", "active") {
		case "active":
			c.JSON(http.StatusOK, nonNil(lifecycle.ActiveReports()))
		case string(app.ScopeAll):
			c.JSON(http.StatusOK, nonNil(lifecycle.Reports(app.ScopeAll)))
		case string(app.ScopeMine):
			c.JSON(http.StatusOK, nonNil(lifecycle.Reports(app.ScopeMine)))
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "scope must be active, all or mine"})
		}
	})

	r.GET("/updates", func(c *gin.Context) {
		c.JSON(http.StatusOK, nonNil(lifecycle.Updates()))
	})

	r.GET("/pending", func(c *gin.Context) {
		ops, err := lifecycle.PendingOperations(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, nonNil(ops))
	})

	return r
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
