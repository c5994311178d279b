package app_test

import (
	"testing"
	"time"

	"shift_rotation_bot/internal/app"
	"shift_rotation_bot/internal/domain/calendar"
	"shift_rotation_bot/internal/domain/shift"
	"shift_rotation_bot/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newShiftService(t *testing.T) *app.ShiftService {
	t.Helper()
	clock, err := shift.NewClock(shift.DefaultAnchor())
	require.NoError(t, err)
	return app.NewShiftService(clock, shift.NewTransferDetector(clock, shift.DefaultMaxTransfers), time.UTC, logger.Discard())
}

func at(day, hour, minute int) time.Time {
	return time.Date(2025, time.July, day, hour, minute, 0, 0, time.UTC)
}

func TestShiftService_Status_OnMorningShift(t *testing.T) {
	svc := newShiftService(t)

	st, err := svc.Status(1, at(16, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, "2025-07-16", st.ShiftDay.String())
	assert.Equal(t, shift.Morning, st.Current.Kind)
	assert.True(t, st.OnShiftNow)
	assert.Equal(t, "2529.3M", st.Code.String())
	assert.Nil(t, st.Off)
	assert.Equal(t, "2025-07-17", st.Next.Day.String())
	assert.Equal(t, at(17, 7, 0), st.NextStart)
	assert.Equal(t, "21h 0m", st.Countdown.Formatted)
}

func TestShiftService_Status_NightAfterMidnight(t *testing.T) {
	svc := newShiftService(t)

	st, err := svc.Status(4, at(17, 2, 0))
	require.NoError(t, err)
	assert.Equal(t, "2025-07-16", st.ShiftDay.String())
	assert.Equal(t, shift.Night, st.Current.Kind)
	assert.True(t, st.OnShiftNow)
	assert.Equal(t, "2529.2N", st.Code.String())
	assert.Equal(t, shift.Night, st.Next.Kind)
	assert.Equal(t, at(17, 23, 0), st.NextStart)
}

func TestShiftService_Status_OffBlock(t *testing.T) {
	svc := newShiftService(t)

	st, err := svc.Status(2, at(16, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, shift.Off, st.Current.Kind)
	assert.False(t, st.OnShiftNow)
	require.NotNil(t, st.Off)
	assert.Equal(t, 3, st.Off.Current)
	assert.Equal(t, 4, st.Off.Total)
	assert.Equal(t, at(18, 7, 0), st.NextStart)
	assert.Equal(t, "1d 21h 0m", st.Countdown.Formatted)

	text := app.FormatStatus(2, st)
	assert.Contains(t, text, "Off day 3 of 4")
	assert.Contains(t, text, "Next: Morning on 2025-07-18 at 07:00")
}

func TestShiftService_NextStart_LaterToday(t *testing.T) {
	svc := newShiftService(t)

	next, start, err := svc.NextStart(5, at(16, 10, 0))
	require.NoError(t, err)
	assert.Equal(t, shift.Evening, next.Kind)
	assert.Equal(t, "2025-07-16", next.Day.String())
	assert.Equal(t, at(16, 15, 0), start)
}

func TestShiftService_InvalidTeam(t *testing.T) {
	svc := newShiftService(t)
	_, err := svc.Status(0, at(16, 10, 0))
	require.ErrorIs(t, err, shift.ErrInvalidTeam)
	_, _, err = svc.NextStart(6, at(16, 10, 0))
	require.ErrorIs(t, err, shift.ErrInvalidTeam)
}

func TestShiftService_Snapshot(t *testing.T) {
	svc := newShiftService(t)

	day, assignments, err := svc.Snapshot(at(17, 3, 0))
	require.NoError(t, err)
	assert.Equal(t, "2025-07-16", day.String())
	require.Len(t, assignments, 5)

	text := app.FormatSnapshot(day, assignments)
	assert.Contains(t, text, "Team 1: Morning 07:00–15:00")
	assert.Contains(t, text, "Team 4: Night 23:00–07:00")
	assert.Contains(t, text, "Team 2: Off")
}

func TestShiftService_Transfers(t *testing.T) {
	svc := newShiftService(t)
	from := calendar.MustDay(2025, time.July, 16)

	result, err := svc.Transfers(1, 2, from, 11)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Total)

	text := app.FormatTransfers(1, 2, result, svc.Location())
	assert.Contains(t, text, "2025-07-18 15:00 takeover: Team 2 (Morning) → Team 1 (Evening)")
	assert.Contains(t, text, "2025-07-20 23:00 takeover: Team 2 (Evening) → Team 1 (Night)")
	assert.NotContains(t, text, "more")

	empty, err := svc.Transfers(1, 2, from, 1)
	require.NoError(t, err)
	assert.Contains(t, app.FormatTransfers(1, 2, empty, time.UTC), "No handovers")
}

func TestFormatTransfers_MoreAvailable(t *testing.T) {
	svc := newShiftService(t)
	result, err := svc.Transfers(1, 2, calendar.MustDay(2025, time.July, 16), 100)
	require.NoError(t, err)
	require.True(t, result.HasMore)
	assert.Contains(t, app.FormatTransfers(1, 2, result, time.UTC), "…and 20 more.")
}

func TestFormatShiftHours(t *testing.T) {
	assert.Equal(t, "Shifts: Morning 07:00–15:00, Evening 15:00–23:00, Night 23:00–07:00", app.FormatShiftHours())
}
