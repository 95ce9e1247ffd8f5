// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"strings"

	"facility_reports/internal/infra/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

func RegisterBotCommands(
	b *telebot.Bot,
	cfg *config.AppConfig, // For AdminTelegramID
	baseLogger *logrus.Entry, // For contextual logging
) {
	startHelpLogger := baseLogger.WithField("handler_group", "start_help")

	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		if senderID == cfg.AdminTelegramID {
			logCtx.Info("User identified as Admin")
			return c.Send("Hello, " + c.Sender().FirstName + "! Facility alerts will be delivered here. Use /help for the list of commands.")
		}

		logCtx.Info("User is unknown")
		return c.Send("This bot only serves the facility administrators.")
	})

	b.Handle("/help", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := startHelpLogger.WithField("command", "/help").WithField("sender_id", senderID)
		logCtx.Info("Processing /help command")

		if senderID != cfg.AdminTelegramID {
			logCtx.Info("User is unknown, sending restricted help.")
			return c.Send("No commands are available to you.")
		}

		var helpText strings.Builder
		helpText.WriteString("Admin commands:\n\n")
		helpText.WriteString("`/issues`\n - List open (pending) reports.\n\n")
		helpText.WriteString("`/resolve <ReportID>`\n - Resolve a report and notify its reporter.\n\n")
		helpText.WriteString("`/stats`\n - Active issues, resolved today and the trend.\n\n")
		helpText.WriteString("`/pending`\n - Backend calls waiting for reconciliation.\n\n")
		helpText.WriteString("`/reconcile`\n - Run a reconciliation pass now.\n\n")
		helpText.WriteString("`/help`\n - Show this message.")
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})
}
