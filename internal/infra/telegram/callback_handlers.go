// internal/infra/telegram/callback_handlers.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"facility_reports/internal/app"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterCallbackHandlers handles the "Retry now" button attached to alerts.
func RegisterCallbackHandlers(ctx context.Context, b *telebot.Bot, adminService *app.AdminService, baseLogger *logrus.Entry) {
	b.Handle(telebot.OnCallback, func(c telebot.Context) error {
		data := c.Callback().Data
		logCtx := baseLogger.WithFields(logrus.Fields{"callback": data, "sender_id": c.Sender().ID})

		if callbackAction(data) != reconcileNowData {
			// Fallback for unhandled callbacks by this specific handler.
			c.Bot().OnError(fmt.Errorf("unhandled callback data: %s", data), c)
			return c.Respond(&telebot.CallbackResponse{Text: "Unknown action."})
		}

		result, err := adminService.ReconcileNow(ctx, c.Sender().ID)
		if err != nil {
			logCtx.WithError(err).Warn("Reconcile button failed")
			if errors.Is(err, app.ErrAdminNotAuthorized) {
				return c.Respond(&telebot.CallbackResponse{Text: unauthorizedReply})
			}
			return c.Respond(&telebot.CallbackResponse{Text: "Reconciliation failed."})
		}
		logCtx.Info("Reconciliation triggered from alert")
		return c.Respond(&telebot.CallbackResponse{Text: formatReconcileResult(result)})
	})
}

// callbackAction extracts the button id from raw callback data. Buttons built with
// ReplyMarkup.Data arrive as "\f<unique>|<payload>" when no endpoint handler matched.
func callbackAction(data string) string {
	action, _, _ := strings.Cut(strings.TrimPrefix(data, "\f"), "|")
	return action
}
