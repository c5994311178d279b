// internal/domain/calendar/day.go
package calendar

import (
	"errors"
	"fmt"
	"time"
)

const (
	layout        = "2006-01-02"
	secondsPerDay = 24 * 60 * 60
)

// ErrInvalidDay is returned when a date cannot be represented as a calendar day.
var ErrInvalidDay = errors.New("invalid calendar day")

// Day is a calendar day on the host's wall clock. The zero value is not a valid day.
// Internally it is kept at UTC midnight so that day arithmetic never sees DST gaps.
type Day struct {
	t     time.Time
	valid bool
}

// NewDay builds a Day, rejecting triples that time.Date would silently normalize (Feb 30, month 13).
func NewDay(year int, month time.Month, day int) (Day, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return Day{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDay, year, int(month), day)
	}
	return Day{t: t, valid: true}, nil
}

// MustDay is NewDay for constants and tests.
func MustDay(year int, month time.Month, day int) Day {
	d, err := NewDay(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.Parse(layout, s)
	if err != nil {
		return Day{}, fmt.Errorf("%w: %q: %v", ErrInvalidDay, s, err)
	}
	return Day{t: t, valid: true}, nil
}

// DayOf returns the wall-clock calendar day of t in t's own location.
func DayOf(t time.Time) Day {
	y, m, d := t.Date()
	return Day{t: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), valid: true}
}

func (d Day) IsValid() bool { return d.valid }

func (d Day) Year() int { return d.t.Year() }
func (d Day) Month() time.Month { return d.t.Month() }
func (d Day) Day() int { return d.t.Day() }
func (d Day) Weekday() time.Weekday { return d.t.Weekday() }

// AddDays moves the day by n calendar days (n may be negative).
func (d Day) AddDays(n int) Day {
	if !d.IsValid() {
		return d
	}
	return Day{t: d.t.AddDate(0, 0, n), valid: true}
}

// DaysSince is the whole number of days from other to d (negative when d is earlier).
func (d Day) DaysSince(other Day) int {
	return int((d.t.Unix() - other.t.Unix()) / secondsPerDay)
}

func (d Day) Before(other Day) bool { return d.t.Before(other.t) }
func (d Day) After(other Day) bool { return d.t.After(other.t) }
func (d Day) Equal(other Day) bool { return d.t.Equal(other.t) }

// At returns the instant at the given hour of d on the wall clock of loc.
// Hour 24 and above roll into the following days.
func (d Day) At(hour int, loc *time.Location) time.Time {
	if loc == nil {
		loc = time.Local
	}
	return time.Date(d.t.Year(), d.t.Month(), d.t.Day(), hour, 0, 0, 0, loc)
}

// ISOCode formats the day as YYWW.D: two-digit ISO week-year, ISO week, ISO weekday (Monday=1).
func (d Day) ISOCode() string {
	year, week := d.t.ISOWeek()
	weekday := int(d.t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	return fmt.Sprintf("%02d%02d.%d", year%100, week, weekday)
}

func (d Day) String() string {
	if !d.IsValid() {
		return "invalid-day"
	}
	return d.t.Format(layout)
}

// MarshalText and UnmarshalText let Day appear in YAML and JSON as YYYY-MM-DD.
func (d Day) MarshalText() ([]byte, error) {
	if !d.IsValid() {
		return nil, ErrInvalidDay
	}
	return []byte(d.String()), nil
}

func (d *Day) UnmarshalText(b []byte) error {
	parsed, err := ParseDay(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
