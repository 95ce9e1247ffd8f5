package telegram

import (
	"context"

	domainTelegram "facility_reports/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// reconcileNowData is the callback payload of the button attached to every alert.
const reconcileNowData = "reconcile_now"

// Alerter delivers lifecycle warnings to the admin chat.
type Alerter struct {
	client      domainTelegram.Client
	adminChatID int64
	logger      *logrus.Entry
}

func NewAlerter(client domainTelegram.Client, adminChatID int64, logger *logrus.Entry) *Alerter {
	return &Alerter{
		client:      client,
		adminChatID: adminChatID,
		logger:      logger.WithField("component", "telegram_alerter"),
	}
}

// Alert sends message to the admin with a button that triggers a reconciliation pass.
func (a *Alerter) Alert(_ context.Context, message string) error {
	replyMarkup := &telebot.ReplyMarkup{}
	btnRetry := replyMarkup.Data("Retry now", reconcileNowData)
	replyMarkup.Inline(replyMarkup.Row(btnRetry))

	err := a.client.SendMessage(a.adminChatID, "⚠️ "+message, &telebot.SendOptions{ReplyMarkup: replyMarkup})
	if err != nil {
		a.logger.WithError(err).WithField("admin_chat_id", a.adminChatID).Error("Failed to send alert")
		return err
	}
	a.logger.WithField("admin_chat_id", a.adminChatID).Info("Alert sent to admin")
	return nil
}
