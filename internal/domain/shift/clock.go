// internal/domain/shift/clock.go
package shift

import (
	"time"

	"shift_rotation_bot/internal/domain/calendar"

	"github.com/m-mizutani/goerr/v2"
)

// Assignment is the result of evaluating the rotation for one team on one shift day.
type Assignment struct {
	Kind Kind
	Day  calendar.Day
	Team Team
}

// Start is the instant the shift begins; ok is false for Off days.
func (a Assignment) Start(loc *time.Location) (time.Time, bool) {
	start, _, ok := a.Kind.Hours()
	if !ok {
		return time.Time{}, false
	}
	return a.Day.At(start, loc), true
}

// End is the instant the shift ends. Night shifts end on the following calendar day.
func (a Assignment) End(loc *time.Location) (time.Time, bool) {
	_, end, ok := a.Kind.Hours()
	if !ok {
		return time.Time{}, false
	}
	if a.Kind.CrossesMidnight() {
		return a.Day.AddDays(1).At(end, loc), true
	}
	return a.Day.At(end, loc), true
}

// ActiveAt reports whether the team is on shift at instant t.
func (a Assignment) ActiveAt(t time.Time) bool {
	start, ok := a.Start(t.Location())
	if !ok {
		return false
	}
	end, _ := a.End(t.Location())
	return !t.Before(start) && t.Before(end)
}

// Clock evaluates the rotation. It holds only the immutable anchor and is safe for concurrent use.
type Clock struct {
	anchor Anchor
}

// NewClock validates the anchor and returns a clock bound to it.
func NewClock(anchor Anchor) (*Clock, error) {
	if err := anchor.Validate(); err != nil {
		return nil, err
	}
	return &Clock{anchor: anchor}, nil
}

func (c *Clock) Anchor() Anchor { return c.anchor }

// TeamCount is the number of teams in the rotation.
func (c *Clock) TeamCount() int { return c.anchor.TeamCount }

// ValidTeam reports whether team is within [1, TeamCount].
func (c *Clock) ValidTeam(team Team) bool {
	return team >= 1 && int(team) <= c.anchor.TeamCount
}

func (c *Clock) checkInputs(day calendar.Day, team Team) error {
	if !c.ValidTeam(team) {
		return goerr.Wrap(ErrInvalidTeam, "team out of range",
			goerr.V("team", int(team)),
			goerr.V("team_count", c.anchor.TeamCount))
	}
	if !day.IsValid() {
		return goerr.Wrap(ErrInvalidDay, "day is not a calendar day", goerr.V("team", int(team)))
	}
	return nil
}

// Position returns the team's normalized position in the cycle on day, in [0, CycleLength).
func (c *Clock) Position(day calendar.Day, team Team) (int, error) {
	if err := c.checkInputs(day, team); err != nil {
		return 0, err
	}
	n := c.anchor.CycleLength
	daysSinceAnchor := day.DaysSince(c.anchor.Date)
	teamOffset := (int(team) - int(c.anchor.Team)) * teamPhaseDays
	adjusted := daysSinceAnchor - teamOffset
	return ((adjusted % n) + n) % n, nil
}

// Assign evaluates the rotation for team on day.
func (c *Clock) Assign(day calendar.Day, team Team) (Assignment, error) {
	pos, err := c.Position(day, team)
	if err != nil {
		return Assignment{}, err
	}
	return Assignment{Kind: kindAt(pos), Day: day, Team: team}, nil
}
