// internal/domain/shift/resolver.go
package shift

import (
	"time"

	"shift_rotation_bot/internal/domain/calendar"
)

// ShiftDayFor returns the logical shift day of an instant. Before 07:00 the instant
// still belongs to the previous day, so a Night shift keeps the day it started on.
func ShiftDayFor(t time.Time) calendar.Day {
	day := calendar.DayOf(t)
	if t.Hour() < ChangeHour {
		return day.AddDays(-1)
	}
	return day
}

// ShiftDayFor is the clock-bound form of the package function.
func (c *Clock) ShiftDayFor(t time.Time) calendar.Day {
	return ShiftDayFor(t)
}

// Code is a printable shift code: YYWW.D of the shift's start day followed by the kind code.
type Code struct {
	Day  calendar.Day
	Kind Kind
}

func (c Code) String() string {
	return c.Day.ISOCode() + c.Kind.Code()
}

// Code builds the shift code for team on day. Night codes carry the date of the
// evening the shift began, i.e. day-1.
func (c *Clock) Code(day calendar.Day, team Team) (Code, error) {
	a, err := c.Assign(day, team)
	if err != nil {
		return Code{}, err
	}
	codeDay := day
	if a.Kind == Night {
		codeDay = day.AddDays(-1)
	}
	return Code{Day: codeDay, Kind: a.Kind}, nil
}
