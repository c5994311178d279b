// internal/domain/shift/query.go
package shift

import (
	"time"

	"shift_rotation_bot/internal/domain/calendar"

	"github.com/m-mizutani/goerr/v2"
)

// OffProgress is a team's position inside its off block. Current is 1-based.
type OffProgress struct {
	Current int
	Total   int
}

// Current is the assignment of team for the logical shift day.
func (c *Clock) Current(day calendar.Day, team Team) (Assignment, error) {
	return c.Assign(day, team)
}

// CurrentAt resolves the shift day of t first, then assigns.
func (c *Clock) CurrentAt(t time.Time, team Team) (Assignment, error) {
	return c.Assign(ShiftDayFor(t), team)
}

// NextWorking scans from+1 .. from+CycleLength and returns the first working assignment.
// The one-cycle bound holds as long as every team works at least once per cycle.
func (c *Clock) NextWorking(from calendar.Day, team Team) (Assignment, error) {
	if err := c.checkInputs(from, team); err != nil {
		return Assignment{}, err
	}
	for i := 1; i <= c.anchor.CycleLength; i++ {
		a, err := c.Assign(from.AddDays(i), team)
		if err != nil {
			return Assignment{}, err
		}
		if a.Kind.IsWorking() {
			return a, nil
		}
	}
	return Assignment{}, goerr.Wrap(ErrScanExhausted, "no working day within one cycle",
		goerr.V("from", from.String()),
		goerr.V("team", int(team)))
}

// OffProgress reports how far team is into its off block on day. It returns nil
// without error while the team is working.
func (c *Clock) OffProgress(day calendar.Day, team Team) (*OffProgress, error) {
	today, err := c.Assign(day, team)
	if err != nil {
		return nil, err
	}
	if today.Kind.IsWorking() {
		return nil, nil
	}

	count := 0
	for i := 0; i < c.anchor.CycleLength; i++ {
		a, err := c.Assign(day.AddDays(-i), team)
		if err != nil {
			return nil, err
		}
		if a.Kind.IsWorking() {
			return &OffProgress{Current: count, Total: OffBlockLength}, nil
		}
		count++
	}
	return nil, goerr.Wrap(ErrScanExhausted, "no working day found walking back one cycle",
		goerr.V("day", day.String()),
		goerr.V("team", int(team)))
}

// Snapshot evaluates every team on day, ordered by team index.
func (c *Clock) Snapshot(day calendar.Day) ([]Assignment, error) {
	teams := c.anchor.Teams()
	out := make([]Assignment, 0, len(teams))
	for _, team := range teams {
		a, err := c.Assign(day, team)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}
