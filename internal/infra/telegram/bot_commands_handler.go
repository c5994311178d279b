// internal/infra/telegram/bot_commands_handler.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"shift_rotation_bot/internal/app"
	"shift_rotation_bot/internal/domain/countdown"
	"shift_rotation_bot/internal/domain/shift"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

const (
	defaultTransferDays = 10
	maxTransferDays     = 90
)

// ShiftHandlers serves the read-only shift commands.
type ShiftHandlers struct {
	shifts *app.ShiftService
	subs   *app.SubscriptionService
	live   *LiveCountdowns
	now    func() time.Time
	logger *logrus.Entry
}

func NewShiftHandlers(shifts *app.ShiftService, subs *app.SubscriptionService, live *LiveCountdowns, baseLogger *logrus.Entry) *ShiftHandlers {
	return &ShiftHandlers{
		shifts: shifts,
		subs:   subs,
		live:   live,
		now:    time.Now,
		logger: baseLogger.WithField("handler_group", "shift"),
	}
}

func RegisterBotCommands(ctx context.Context, b *telebot.Bot, h *ShiftHandlers, adminID int64) {
	b.Handle("/start", func(c telebot.Context) error {
		senderID := c.Sender().ID
		logCtx := h.logger.WithField("command", "/start").WithField("sender_id", senderID)
		logCtx.Info("Processing /start command")

		sub, err := h.subs.Get(ctx, c.Chat().ID)
		switch {
		case err == nil && sub.IsActive:
			logCtx.WithField("subscriber_id", sub.ID).Info("Chat identified as active subscriber")
			return c.Send(fmt.Sprintf("Hello, %s! You follow %s. Use /shift to see where it stands.", c.Sender().FirstName, sub.Team))
		case err != nil && !errors.Is(err, app.ErrNotSubscribed):
			logCtx.WithError(err).Error("Error checking subscription for /start command")
			return c.Send("Something went wrong while checking your subscription. Please try again later.")
		}

		logCtx.Info("Chat is not subscribed")
		return c.Send(fmt.Sprintf(
			"Hello! I track the 24/7 rotation of %d teams.\nPick a team to see its shift, or /subscribe <team> to get daily updates.",
			h.shifts.Clock().TeamCount(),
		), teamPicker(h.shifts.Clock()))
	})

	b.Handle("/help", func(c telebot.Context) error {
		logCtx := h.logger.WithField("command", "/help").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing /help command")

		var helpText strings.Builder
		helpText.WriteString("Available commands:\n\n")
		helpText.WriteString("`/shift [team]` - current shift of a team\n")
		helpText.WriteString("`/teams` - every team on the current shift day\n")
		helpText.WriteString("`/next [team]` - next working shift\n")
		helpText.WriteString("`/code [team]` - shift code for today\n")
		helpText.WriteString("`/countdown [team]` - live countdown to the next shift\n")
		helpText.WriteString("`/transfers <team> <other> [days]` - handovers between two teams\n\n")
		helpText.WriteString("`/subscribe <team> [watch]` - daily updates, reminders and a handover digest\n")
		helpText.WriteString("`/unsubscribe` - stop all messages\n")
		helpText.WriteString("`/reminders on|off` - toggle reminders before a shift\n")
		if c.Sender().ID == adminID {
			helpText.WriteString("\n`/subscribers [active|all]` - list subscribed chats\n")
		}
		helpText.WriteString("\nWithout a team argument your subscribed team is used.\n")
		helpText.WriteString(app.FormatShiftHours())
		return c.Send(helpText.String(), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	})

	b.Handle("/shift", h.withTeam(ctx, "/shift", func(c telebot.Context, team shift.Team, logCtx *logrus.Entry) error {
		return h.sendStatus(c, team, logCtx)
	}))

	b.Handle(&telebot.Btn{Unique: teamButtonUnique}, func(c telebot.Context) error {
		logCtx := h.logger.WithField("callback", teamButtonUnique).WithField("sender_id", c.Sender().ID)
		data := c.Callback().Data
		team, err := parseTeam(data, h.shifts.Clock())
		if err != nil {
			logCtx.WithField("data", data).Warn("Malformed team callback data")
			return c.Respond(&telebot.CallbackResponse{Text: "Unknown team."})
		}
		if err := c.Respond(); err != nil {
			logCtx.WithError(err).Warn("Failed to acknowledge callback")
		}
		return h.sendStatus(c, team, logCtx.WithField("team", int(team)))
	})

	b.Handle("/teams", func(c telebot.Context) error {
		logCtx := h.logger.WithField("command", "/teams").WithField("sender_id", c.Sender().ID)
		logCtx.Info("Processing /teams command")

		day, assignments, err := h.shifts.Snapshot(h.now())
		if err != nil {
			logCtx.WithError(err).Error("Failed to build rotation snapshot")
			return c.Send("Could not compute the rotation right now.")
		}
		return c.Send(app.FormatSnapshot(day, assignments))
	})

	b.Handle("/next", h.withTeam(ctx, "/next", func(c telebot.Context, team shift.Team, logCtx *logrus.Entry) error {
		now := h.now()
		next, start, err := h.shifts.NextStart(team, now)
		if err != nil {
			logCtx.WithError(err).Error("Failed to find next shift")
			return c.Send("Could not find the next shift for this team.")
		}
		return c.Send(fmt.Sprintf("%s next works %s on %s at %s (in %s).",
			team, next.Kind.DisplayName(), next.Day, start.Format("15:04"),
			countdown.Tick(start, now).Formatted))
	}))

	b.Handle("/code", h.withTeam(ctx, "/code", func(c telebot.Context, team shift.Team, logCtx *logrus.Entry) error {
		status, err := h.shifts.Status(team, h.now())
		if err != nil {
			logCtx.WithError(err).Error("Failed to build shift code")
			return c.Send("Could not compute the shift code.")
		}
		return c.Send(fmt.Sprintf("%s: `%s`", team, status.Code), &telebot.SendOptions{ParseMode: telebot.ModeMarkdown})
	}))

	b.Handle("/countdown", h.withTeam(ctx, "/countdown", func(c telebot.Context, team shift.Team, logCtx *logrus.Entry) error {
		next, start, err := h.shifts.NextStart(team, h.now())
		if err != nil {
			logCtx.WithError(err).Error("Failed to find next shift for countdown")
			return c.Send("Could not find the next shift for this team.")
		}
		header := fmt.Sprintf("%s starts %s on %s", team, next.Kind.DisplayName(), next.Day)
		return h.live.Start(ctx, c.Bot(), c.Chat(), header, start, logCtx)
	}))

	b.Handle("/transfers", func(c telebot.Context) error {
		logCtx := h.logger.WithField("command", "/transfers").WithField("sender_id", c.Sender().ID)
		args := c.Args()
		logCtx.WithField("args", args).Info("Processing /transfers command")

		if len(args) < 2 || len(args) > 3 {
			return c.Send("Usage: /transfers <team> <other> [days]")
		}
		clock := h.shifts.Clock()
		subject, err := parseTeam(args[0], clock)
		if err != nil {
			return c.Send(fmt.Sprintf("Invalid team: %v", err))
		}
		other, err := parseTeam(args[1], clock)
		if err != nil {
			return c.Send(fmt.Sprintf("Invalid team: %v", err))
		}
		days := defaultTransferDays
		if len(args) == 3 {
			days, err = strconv.Atoi(args[2])
			if err != nil || days < 1 || days > maxTransferDays {
				return c.Send(fmt.Sprintf("Days must be a number between 1 and %d.", maxTransferDays))
			}
		}

		result, err := h.shifts.Transfers(subject, other, h.shifts.ShiftDay(h.now()), days)
		if err != nil {
			logCtx.WithError(err).Error("Failed to detect transfers")
			return c.Send("Could not compute handovers right now.")
		}
		return c.Send(app.FormatTransfers(subject, other, result, h.shifts.Location()))
	})
}

// withTeam resolves the team from the first argument or the chat's subscription.
// Without either it replies with the team picker.
func (h *ShiftHandlers) withTeam(ctx context.Context, command string, next func(c telebot.Context, team shift.Team, logCtx *logrus.Entry) error) telebot.HandlerFunc {
	return func(c telebot.Context) error {
		logCtx := h.logger.WithField("command", command).WithField("sender_id", c.Sender().ID)
		args := c.Args()
		logCtx.WithField("args", args).Info("Processing command")

		team, ok, err := teamFromArgsOrSubscription(ctx, args, c.Chat().ID, h.shifts.Clock(), h.subs)
		if err != nil {
			if errors.Is(err, errTeamArgument) || errors.Is(err, shift.ErrInvalidTeam) {
				return c.Send(fmt.Sprintf("Invalid team: %v", err))
			}
			logCtx.WithError(err).Error("Failed to resolve team")
			return c.Send("Something went wrong while looking up your subscription.")
		}
		if !ok {
			return c.Send("Which team?", teamPicker(h.shifts.Clock()))
		}
		return next(c, team, logCtx.WithField("team", int(team)))
	}
}

func (h *ShiftHandlers) sendStatus(c telebot.Context, team shift.Team, logCtx *logrus.Entry) error {
	status, err := h.shifts.Status(team, h.now())
	if err != nil {
		logCtx.WithError(err).Error("Failed to build team status")
		return c.Send("Could not compute the shift for this team.")
	}
	return c.Send(app.FormatStatus(team, status))
}
