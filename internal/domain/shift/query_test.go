package shift_test

import (
	"regexp"
	"testing"
	"time"

	"shift_rotation_bot/internal/domain/shift"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShiftDayFor_NightAttribution(t *testing.T) {
	loc := time.FixedZone("site", 2*60*60)

	cases := []struct {
		name    string
		instant time.Time
		want    string
	}{
		{"02:00 belongs to the previous day", time.Date(2025, time.July, 17, 2, 0, 0, 0, loc), "2025-07-16"},
		{"06:59 still previous day", time.Date(2025, time.July, 17, 6, 59, 59, 0, loc), "2025-07-16"},
		{"07:00 switches", time.Date(2025, time.July, 17, 7, 0, 0, 0, loc), "2025-07-17"},
		{"08:00 same day", time.Date(2025, time.July, 17, 8, 0, 0, 0, loc), "2025-07-17"},
		{"23:30 same day", time.Date(2025, time.July, 17, 23, 30, 0, 0, loc), "2025-07-17"},
		{"new year rollover", time.Date(2026, time.January, 1, 3, 0, 0, 0, loc), "2025-12-31"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, shift.ShiftDayFor(tc.instant).String())
		})
	}
}

func TestClock_CurrentAt_NightShiftAfterMidnight(t *testing.T) {
	clock := newClock(t)
	a, err := clock.CurrentAt(time.Date(2025, time.July, 17, 2, 0, 0, 0, time.UTC), 4)
	require.NoError(t, err)
	assert.Equal(t, shift.Night, a.Kind)
	assert.Equal(t, "2025-07-16", a.Day.String())
}

func TestClock_Code(t *testing.T) {
	clock := newClock(t)

	code, err := clock.Code(day(t, "2025-07-16"), 1)
	require.NoError(t, err)
	assert.Equal(t, "2529.3M", code.String())
	assert.Regexp(t, regexp.MustCompile(`^\d{4}\.[1-7]M$`), code.String())

	// Team 4 is on Night on the anchor day, so the code carries the previous date.
	code, err = clock.Code(day(t, "2025-07-16"), 4)
	require.NoError(t, err)
	assert.Equal(t, shift.Night, code.Kind)
	assert.Equal(t, "2025-07-15", code.Day.String())
	assert.Equal(t, "2529.2N", code.String())

	code, err = clock.Code(day(t, "2025-07-16"), 2)
	require.NoError(t, err)
	assert.Equal(t, "2529.3O", code.String())
}

func TestClock_Code_NightAlwaysUsesPreviousDay(t *testing.T) {
	clock := newClock(t)
	start := day(t, "2025-06-01")
	for offset := 0; offset < 40; offset++ {
		d := start.AddDays(offset)
		for _, team := range clock.Anchor().Teams() {
			a, err := clock.Assign(d, team)
			require.NoError(t, err)
			if a.Kind != shift.Night {
				continue
			}
			code, err := clock.Code(d, team)
			require.NoError(t, err)
			assert.True(t, code.Day.Equal(d.AddDays(-1)))
		}
	}
}

func TestClock_NextWorking(t *testing.T) {
	clock := newClock(t)

	next, err := clock.NextWorking(day(t, "2025-07-22"), 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-26", next.Day.String())
	assert.Equal(t, shift.Morning, next.Kind)

	next, err = clock.NextWorking(day(t, "2025-07-16"), 1)
	require.NoError(t, err)
	assert.Equal(t, "2025-07-17", next.Day.String())

	_, err = clock.NextWorking(day(t, "2025-07-16"), 9)
	require.ErrorIs(t, err, shift.ErrInvalidTeam)
}

func TestClock_NextWorking_Bounds(t *testing.T) {
	clock := newClock(t)
	start := day(t, "2025-01-01")
	for offset := 0; offset < 30; offset++ {
		from := start.AddDays(offset)
		for _, team := range clock.Anchor().Teams() {
			next, err := clock.NextWorking(from, team)
			require.NoError(t, err)
			assert.True(t, next.Day.After(from))
			assert.LessOrEqual(t, next.Day.DaysSince(from), shift.CycleLength)
			assert.True(t, next.Kind.IsWorking())
		}
	}
}

func TestClock_OffProgress(t *testing.T) {
	clock := newClock(t)

	progress, err := clock.OffProgress(day(t, "2025-07-16"), 1)
	require.NoError(t, err)
	assert.Nil(t, progress)

	cases := map[string]int{
		"2025-07-22": 1,
		"2025-07-23": 2,
		"2025-07-24": 3,
		"2025-07-25": 4,
	}
	for d, want := range cases {
		progress, err := clock.OffProgress(day(t, d), 1)
		require.NoError(t, err)
		require.NotNil(t, progress, d)
		assert.Equal(t, want, progress.Current, d)
		assert.Equal(t, shift.OffBlockLength, progress.Total)
	}

	_, err = clock.OffProgress(day(t, "2025-07-22"), 0)
	require.ErrorIs(t, err, shift.ErrInvalidTeam)
}

func TestClock_OffProgress_Bounds(t *testing.T) {
	clock := newClock(t)
	start := day(t, "2023-03-01")
	for offset := 0; offset < 30; offset++ {
		for _, team := range clock.Anchor().Teams() {
			progress, err := clock.OffProgress(start.AddDays(offset), team)
			require.NoError(t, err)
			if progress == nil {
				continue
			}
			assert.GreaterOrEqual(t, progress.Current, 1)
			assert.LessOrEqual(t, progress.Current, progress.Total)
			assert.Equal(t, 4, progress.Total)
		}
	}
}

func TestClock_Snapshot(t *testing.T) {
	clock := newClock(t)
	snapshot, err := clock.Snapshot(day(t, "2025-07-16"))
	require.NoError(t, err)
	require.Len(t, snapshot, 5)

	want := []shift.Kind{shift.Morning, shift.Off, shift.Off, shift.Night, shift.Evening}
	for i, a := range snapshot {
		assert.Equal(t, shift.Team(i+1), a.Team)
		assert.Equal(t, want[i], a.Kind, "team %d", i+1)
	}
}
