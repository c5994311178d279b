package calendar_test

import (
	"testing"
	"time"

	"shift_rotation_bot/internal/domain/calendar"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDay_RejectsNormalizedDates(t *testing.T) {
	cases := []struct {
		name  string
		year  int
		month time.Month
		day   int
	}{
		{"february 30", 2025, time.February, 30},
		{"month 13", 2025, 13, 1},
		{"day zero", 2025, time.July, 0},
		{"non leap 29 feb", 2025, time.February, 29},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := calendar.NewDay(tc.year, tc.month, tc.day)
			require.ErrorIs(t, err, calendar.ErrInvalidDay)
		})
	}

	d, err := calendar.NewDay(2024, time.February, 29)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())
}

func TestParseDay(t *testing.T) {
	d, err := calendar.ParseDay("2025-07-16")
	require.NoError(t, err)
	assert.Equal(t, calendar.MustDay(2025, time.July, 16), d)

	_, err = calendar.ParseDay("16/07/2025")
	require.ErrorIs(t, err, calendar.ErrInvalidDay)

	_, err = calendar.ParseDay("")
	require.ErrorIs(t, err, calendar.ErrInvalidDay)
}

func TestDay_ZeroValueIsInvalid(t *testing.T) {
	var d calendar.Day
	assert.False(t, d.IsValid())
	assert.False(t, d.AddDays(3).IsValid())
	_, err := d.MarshalText()
	require.ErrorIs(t, err, calendar.ErrInvalidDay)
}

func TestDay_FirstRepresentableDateIsValid(t *testing.T) {
	d, err := calendar.ParseDay("0001-01-01")
	require.NoError(t, err)
	assert.True(t, d.IsValid())
	assert.Equal(t, "0001-01-01", d.String())
	assert.True(t, calendar.MustDay(1, time.January, 1).IsValid())
	assert.Equal(t, "0001-01-02", d.AddDays(1).String())
}

func TestDay_DaysSinceAcrossDST(t *testing.T) {
	ams, err := time.LoadLocation("Europe/Amsterdam")
	if err != nil {
		t.Skip("tzdata not available")
	}
	// The last Sunday of March 2025 is only 23 hours long in Amsterdam.
	before := calendar.DayOf(time.Date(2025, time.March, 29, 12, 0, 0, 0, ams))
	after := calendar.DayOf(time.Date(2025, time.March, 31, 0, 30, 0, 0, ams))
	assert.Equal(t, 2, after.DaysSince(before))
	assert.Equal(t, -2, before.DaysSince(after))
}

func TestDay_AddDaysAndOrdering(t *testing.T) {
	d := calendar.MustDay(2025, time.December, 30)
	next := d.AddDays(3)
	assert.Equal(t, "2026-01-02", next.String())
	assert.True(t, d.Before(next))
	assert.True(t, next.After(d))
	assert.True(t, next.AddDays(-3).Equal(d))
	assert.Equal(t, 3, next.DaysSince(d))
}

func TestDay_ISOCode(t *testing.T) {
	cases := map[string]string{
		"2025-07-16": "2529.3", // Wednesday, ISO week 29
		"2025-07-20": "2529.7", // Sunday closes the week
		"2024-12-30": "2501.1", // belongs to ISO year 2025
		"2027-01-01": "2653.5", // belongs to ISO week 53 of 2026
	}
	for in, want := range cases {
		d, err := calendar.ParseDay(in)
		require.NoError(t, err)
		assert.Equal(t, want, d.ISOCode(), in)
	}
}

func TestDay_At(t *testing.T) {
	d := calendar.MustDay(2025, time.July, 16)
	at := d.At(23, time.UTC)
	assert.Equal(t, time.Date(2025, time.July, 16, 23, 0, 0, 0, time.UTC), at)
	assert.Equal(t, time.Date(2025, time.July, 17, 7, 0, 0, 0, time.UTC), d.At(24+7, time.UTC))
}

func TestDay_TextRoundTrip(t *testing.T) {
	var d calendar.Day
	require.NoError(t, d.UnmarshalText([]byte("2025-07-16")))
	b, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "2025-07-16", string(b))
	require.Error(t, d.UnmarshalText([]byte("nope")))
}
