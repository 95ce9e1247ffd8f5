package telegram

import "gopkg.in/telebot.v3"

// Client defines an interface for sending messages via a Telegram bot.
// Alerts about unreconciled reports go through it, so the lifecycle code never
// depends on the bot library directly.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
