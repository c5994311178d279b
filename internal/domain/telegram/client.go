package telegram

import "gopkg.in/telebot.v3"

// Client is the outbound side used by scheduled notifications.
// Interactive replies go through telebot.Context instead.
type Client interface {
	SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error
}
