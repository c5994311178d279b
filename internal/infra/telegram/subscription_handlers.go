package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"shift_rotation_bot/internal/app"
	"shift_rotation_bot/internal/domain/shift"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// RegisterSubscriptionHandlers registers /subscribe, /unsubscribe, /reminders and the admin /subscribers command.
func RegisterSubscriptionHandlers(ctx context.Context, b *telebot.Bot, subs *app.SubscriptionService, clock *shift.Clock, adminTelegramID int64, baseLogger *logrus.Entry) {
	b.Handle("/subscribe", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/subscribe",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		args := c.Args()
		// Expected format: /subscribe <team> [watch]
		if len(args) < 1 || len(args) > 2 {
			handlerLogger.WithField("args_count", len(args)).Warn("Invalid command format")
			return c.Send("Usage: /subscribe <team> [watch]\nwatch is a second team whose handovers with yours you want in the evening digest.")
		}

		team, err := parseTeam(args[0], clock)
		if err != nil {
			return c.Send(fmt.Sprintf("Invalid team: %v", err))
		}
		var watch *shift.Team
		if len(args) == 2 {
			w, err := parseTeam(args[1], clock)
			if err != nil {
				return c.Send(fmt.Sprintf("Invalid watched team: %v", err))
			}
			watch = &w
		}

		sub, created, err := subs.Subscribe(ctx, c.Chat().ID, c.Sender().FirstName, team, watch)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch {
			case errors.Is(err, app.ErrWatchSameTeam):
				logWithError.Warn("Watched team equals subscribed team")
				return c.Send("The watched team must be different from your own team.")
			case errors.Is(err, shift.ErrInvalidTeam):
				logWithError.Warn("Invalid team")
				return c.Send(fmt.Sprintf("Invalid team: %v", err))
			default:
				logWithError.Error("Failed to subscribe")
				return c.Send("Something went wrong while saving your subscription. Please try again later.")
			}
		}

		handlerLogger.WithFields(logrus.Fields{
			"subscriber_id": sub.ID,
			"team":          int(sub.Team),
			"created":       created,
		}).Info("Subscription saved")

		var msg strings.Builder
		if created {
			msg.WriteString(fmt.Sprintf("Subscribed to %s.", sub.Team))
		} else {
			msg.WriteString(fmt.Sprintf("Subscription updated: %s.", sub.Team))
		}
		if w, ok := sub.Watched(); ok {
			msg.WriteString(fmt.Sprintf(" Evening digest covers handovers with %s.", w))
		}
		msg.WriteString("\nYou will get the 07:00 shift update and a reminder before each shift (/reminders off to disable).")
		return c.Send(msg.String())
	})

	b.Handle("/unsubscribe", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/unsubscribe",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		sub, err := subs.Unsubscribe(ctx, c.Chat().ID)
		if err != nil {
			logWithError := handlerLogger.WithError(err)
			switch {
			case errors.Is(err, app.ErrNotSubscribed):
				logWithError.Info("Chat was never subscribed")
				return c.Send("This chat is not subscribed.")
			case errors.Is(err, app.ErrAlreadyUnsubscribed):
				logWithError.Info("Chat already unsubscribed")
				return c.Send("This chat is already unsubscribed.")
			default:
				logWithError.Error("Failed to unsubscribe")
				return c.Send("Something went wrong. Please try again later.")
			}
		}

		handlerLogger.WithField("subscriber_id", sub.ID).Info("Subscriber deactivated")
		return c.Send("Unsubscribed. You will no longer receive shift messages.")
	})

	b.Handle("/reminders", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/reminders",
			"sender_id": c.Sender().ID,
			"chat_id":   c.Chat().ID,
		})
		handlerLogger.Info("Command received")

		args := c.Args()
		if len(args) != 1 {
			return c.Send("Usage: /reminders on|off")
		}
		var enabled bool
		switch strings.ToLower(args[0]) {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			return c.Send("Usage: /reminders on|off")
		}

		if _, err := subs.SetReminders(ctx, c.Chat().ID, enabled); err != nil {
			if errors.Is(err, app.ErrNotSubscribed) {
				return c.Send("Subscribe first with /subscribe <team>.")
			}
			handlerLogger.WithError(err).Error("Failed to update reminders")
			return c.Send("Something went wrong. Please try again later.")
		}

		handlerLogger.WithField("reminders_enabled", enabled).Info("Reminders updated")
		if enabled {
			return c.Send("Reminders are on.")
		}
		return c.Send("Reminders are off.")
	})

	b.Handle("/subscribers", func(c telebot.Context) error {
		handlerLogger := baseLogger.WithFields(logrus.Fields{
			"handler":   "/subscribers",
			"sender_id": c.Sender().ID,
		})
		handlerLogger.Info("Command received")

		if c.Sender().ID != adminTelegramID {
			handlerLogger.Warn("Unauthorized access attempt")
			return c.Send("You are not allowed to use this command.")
		}

		args := c.Args()
		listAll := false
		if len(args) > 0 {
			switch strings.ToLower(args[0]) {
			case "all":
				listAll = true
			case "active":
			default:
				return c.Send("Usage: /subscribers [active|all]")
			}
		}

		list, err := subs.ListSubscribers(ctx, c.Sender().ID, listAll)
		if err != nil {
			if errors.Is(err, app.ErrAdminNotAuthorized) {
				handlerLogger.WithError(err).Warn("Admin not authorized (service level)")
				return c.Send("You are not allowed to use this command.")
			}
			handlerLogger.WithError(err).Error("Failed to list subscribers")
			return c.Send("Could not load the subscriber list.")
		}

		if len(list) == 0 {
			if listAll {
				return c.Send("No subscribers yet.")
			}
			return c.Send("No active subscribers.")
		}

		var response strings.Builder
		if listAll {
			response.WriteString("All subscribers:\n")
		} else {
			response.WriteString("Active subscribers:\n")
		}
		for _, s := range list {
			response.WriteString(fmt.Sprintf("- %s (chat %d): %s", s.FirstName, s.ChatID, s.Team))
			if w, ok := s.Watched(); ok {
				response.WriteString(fmt.Sprintf(", watching %s", w))
			}
			if !s.RemindersEnabled {
				response.WriteString(", reminders off")
			}
			if listAll && !s.IsActive {
				response.WriteString(" [inactive]")
			}
			response.WriteString("\n")
		}
		handlerLogger.WithField("count", len(list)).Info("Listed subscribers")
		return c.Send(response.String())
	})
}
