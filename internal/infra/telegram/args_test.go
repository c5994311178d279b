package telegram

import (
	"context"
	"testing"

	"shift_rotation_bot/internal/app"
	"shift_rotation_bot/internal/domain/shift"
	"shift_rotation_bot/internal/domain/subscriber"
	idb "shift_rotation_bot/internal/infra/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySubscribers struct {
	byChat map[int64]*subscriber.Subscriber
}

func (m *memorySubscribers) Create(_ context.Context, s *subscriber.Subscriber) error {
	m.byChat[s.ChatID] = s
	return nil
}

func (m *memorySubscribers) GetByChatID(_ context.Context, chatID int64) (*subscriber.Subscriber, error) {
	s, ok := m.byChat[chatID]
	if !ok {
		return nil, idb.ErrSubscriberNotFound
	}
	return s, nil
}

func (m *memorySubscribers) Update(_ context.Context, s *subscriber.Subscriber) error {
	m.byChat[s.ChatID] = s
	return nil
}

func (m *memorySubscribers) ListActive(context.Context) ([]*subscriber.Subscriber, error) {
	return nil, nil
}

func (m *memorySubscribers) ListAll(context.Context) ([]*subscriber.Subscriber, error) {
	return nil, nil
}

func newTestClock(t *testing.T) *shift.Clock {
	t.Helper()
	clock, err := shift.NewClock(shift.DefaultAnchor())
	require.NoError(t, err)
	return clock
}

func TestParseTeam(t *testing.T) {
	clock := newTestClock(t)

	team, err := parseTeam(" 3 ", clock)
	require.NoError(t, err)
	assert.Equal(t, shift.Team(3), team)

	_, err = parseTeam("three", clock)
	require.ErrorIs(t, err, errTeamArgument)

	for _, raw := range []string{"0", "6", "-2"} {
		_, err = parseTeam(raw, clock)
		require.ErrorIs(t, err, shift.ErrInvalidTeam, raw)
	}
}

func TestTeamFromArgsOrSubscription(t *testing.T) {
	clock := newTestClock(t)
	repo := &memorySubscribers{byChat: map[int64]*subscriber.Subscriber{
		100: {ChatID: 100, Team: 4, IsActive: true},
		200: {ChatID: 200, Team: 2, IsActive: false},
	}}
	subs := app.NewSubscriptionService(repo, clock, 1)
	ctx := context.Background()

	team, ok, err := teamFromArgsOrSubscription(ctx, []string{"5"}, 100, clock, subs)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, shift.Team(5), team, "an explicit argument wins over the subscription")

	team, ok, err = teamFromArgsOrSubscription(ctx, nil, 100, clock, subs)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, shift.Team(4), team)

	_, ok, err = teamFromArgsOrSubscription(ctx, nil, 200, clock, subs)
	require.NoError(t, err)
	assert.False(t, ok, "inactive subscriptions are ignored")

	_, ok, err = teamFromArgsOrSubscription(ctx, nil, 300, clock, subs)
	require.NoError(t, err)
	assert.False(t, ok)

	_, _, err = teamFromArgsOrSubscription(ctx, []string{"9"}, 100, clock, subs)
	require.ErrorIs(t, err, shift.ErrInvalidTeam)
}

func TestTeamPicker(t *testing.T) {
	clock := newTestClock(t)
	markup := teamPicker(clock)
	require.Len(t, markup.InlineKeyboard, 1)
	row := markup.InlineKeyboard[0]
	require.Len(t, row, clock.TeamCount())
	assert.Equal(t, "Team 1", row[0].Text)
	assert.Equal(t, teamButtonUnique, row[0].Unique)
	assert.Equal(t, "1", row[0].Data)
}
