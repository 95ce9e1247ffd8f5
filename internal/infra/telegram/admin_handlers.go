package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"facility_reports/internal/app"
	"facility_reports/internal/domain/report"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const unauthorizedReply = "Error: you are not allowed to run this command."

// RegisterAdminHandlers registers handlers for admin commands.
// It requires the bot instance, admin service, and the configured admin Telegram ID.
func RegisterAdminHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, adminTelegramID int64, baseLogger *logrus.Entry) {
	b.Handle("/issues", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/issues",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		issues, err := adminService.LiveIssues(ctx, c.Sender().ID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list live issues")
			return c.Send("Could not load live issues: " + report.UserMessage(err))
		}
		if len(issues) == 0 {
			return c.Send("No open issues.")
		}

		var response strings.Builder
		response.WriteString(fmt.Sprintf("--- Live issues (%d) ---\n", len(issues)))
		for _, r := range issues {
			response.WriteString(fmt.Sprintf("%s | %s | %s | %s | by %s\n",
				r.ID, r.Priority, r.IssueType, r.Location, r.ReportedBy))
		}
		return c.Send(response.String())
	})

	b.Handle("/resolve", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/resolve",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		args := c.Args()
		// Expected format: /resolve <ReportID>
		if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
			return c.Send("Invalid command format. Use: /resolve <ReportID>")
		}
		reportID := strings.TrimSpace(args[0])
		handlerLogger = handlerLogger.WithField("report_id", reportID)

		u, err := adminService.Resolve(ctx, c.Sender().ID, reportID)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			var partial *report.PartialResolutionError
			switch {
			case errors.Is(err, app.ErrAdminNotAuthorized):
				logWithError.Warn("Admin not authorized (service level)")
				return c.Send(unauthorizedReply)
			case errors.As(err, &partial):
				logWithError.Warn("Report resolved without admin update")
			default:
				logWithError.Error("Failed to resolve report")
			}
			return c.Send(report.UserMessage(err))
		}

		handlerLogger.Info("Report resolved via chat command")
		return c.Send(fmt.Sprintf("Report %s (%s, %s) resolved. The reporter has been notified.", u.ReportID, u.IssueType, u.Location))
	})

	b.Handle("/stats", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/stats",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		stats, err := adminService.Stats(ctx, c.Sender().ID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to compute stats")
			return c.Send("Could not load stats: " + report.UserMessage(err))
		}
		return c.Send(fmt.Sprintf("Active issues: %d\nResolved today: %d\nTrend vs yesterday: %+.1f%%",
			stats.ActiveIssues, stats.ResolvedToday, stats.TrendPercentage))
	})

	b.Handle("/pending", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/pending",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		ops, err := adminService.PendingOperations(ctx, c.Sender().ID)
		if err != nil {
			handlerLogger.WithError(err).Error("Failed to list pending operations")
			return c.Send("Could not load the reconciliation queue.")
		}
		if len(ops) == 0 {
			return c.Send("Nothing is waiting for reconciliation.")
		}

		var response strings.Builder
		response.WriteString(fmt.Sprintf("--- Waiting for reconciliation (%d) ---\n", len(ops)))
		for _, op := range ops {
			response.WriteString(fmt.Sprintf("%s | report %s | attempts %d | %s\n",
				op.Kind, op.ReportID, op.Attempts, op.LastError))
		}
		return c.Send(response.String())
	})

	b.Handle("/reconcile", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/reconcile",
			"sender_id": c.Sender().ID,
		})
		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send(unauthorizedReply)
		}

		result, err := adminService.ReconcileNow(ctx, c.Sender().ID)
		if err != nil {
			handlerLogger.WithError(err).Error("Reconciliation pass failed")
			return c.Send("Reconciliation failed: " + err.Error())
		}
		return c.Send(formatReconcileResult(result))
	})
}

func formatReconcileResult(result app.ReconcileResult) string {
	return fmt.Sprintf("Reconciled: %d, still failing: %d, abandoned: %d, remaining: %d",
		result.Succeeded, result.Failed, result.Abandoned, result.Remaining)
}
