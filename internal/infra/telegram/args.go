// internal/infra/telegram/args.go
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"shift_rotation_bot/internal/app"
	"shift_rotation_bot/internal/domain/shift"

	"gopkg.in/telebot.v3"
)

const teamButtonUnique = "team"

var errTeamArgument = errors.New("team must be a number")

func parseTeam(arg string, clock *shift.Clock) (shift.Team, error) {
	n, err := strconv.Atoi(strings.TrimSpace(arg))
	if err != nil {
		return 0, errTeamArgument
	}
	team := shift.Team(n)
	if !clock.ValidTeam(team) {
		return 0, fmt.Errorf("%w: teams are 1..%d", shift.ErrInvalidTeam, clock.TeamCount())
	}
	return team, nil
}

// teamFromArgsOrSubscription uses the first argument when present, otherwise the chat's subscribed team.
// ok is false when neither is available.
func teamFromArgsOrSubscription(ctx context.Context, args []string, chatID int64, clock *shift.Clock, subs *app.SubscriptionService) (team shift.Team, ok bool, err error) {
	if len(args) > 0 {
		team, err := parseTeam(args[0], clock)
		if err != nil {
			return 0, false, err
		}
		return team, true, nil
	}
	sub, err := subs.Get(ctx, chatID)
	if err != nil {
		if errors.Is(err, app.ErrNotSubscribed) {
			return 0, false, nil
		}
		return 0, false, err
	}
	if !sub.IsActive {
		return 0, false, nil
	}
	return sub.Team, true, nil
}

// teamPicker is an inline keyboard with one button per team.
func teamPicker(clock *shift.Clock) *telebot.ReplyMarkup {
	markup := &telebot.ReplyMarkup{}
	var row []telebot.Btn
	for _, team := range clock.Anchor().Teams() {
		row = append(row, markup.Data(team.String(), teamButtonUnique, strconv.Itoa(int(team))))
	}
	markup.Inline(markup.Row(row...))
	return markup
}
