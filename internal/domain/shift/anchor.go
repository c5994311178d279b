// internal/domain/shift/anchor.go
package shift

import (
	"fmt"
	"time"

	"shift_rotation_bot/internal/domain/calendar"

	"github.com/m-mizutani/goerr/v2"
)

const (
	// CycleLength is the number of days before a team's pattern repeats.
	CycleLength = 10
	// OffBlockLength is the number of consecutive off days closing each cycle.
	OffBlockLength = 4
	// DefaultTeamCount is the team count of the reference deployment.
	DefaultTeamCount = 5
	// teamPhaseDays is how many days each team lags the previous one.
	teamPhaseDays = 2
)

// Team is a 1-based team index.
type Team int

func (t Team) String() string { return fmt.Sprintf("Team %d", int(t)) }

// Anchor pins the rotation to the calendar: on Date, Team starts its first Morning day.
// It is loaded once and never mutated.
type Anchor struct {
	Date        calendar.Day
	Team        Team
	CycleLength int
	TeamCount   int
}

// DefaultAnchor is the reference deployment: team 1 starts Morning on 2025-07-16, five teams, ten-day cycle.
func DefaultAnchor() Anchor {
	return Anchor{
		Date:        calendar.MustDay(2025, time.July, 16),
		Team:        1,
		CycleLength: CycleLength,
		TeamCount:   DefaultTeamCount,
	}
}

// Validate checks the anchor invariants.
func (a Anchor) Validate() error {
	if !a.Date.IsValid() {
		return goerr.Wrap(ErrInvalidAnchor, "anchor date is not set")
	}
	if a.CycleLength != CycleLength {
		return goerr.Wrap(ErrInvalidAnchor, "unsupported cycle length", goerr.V("cycle_length", a.CycleLength))
	}
	if a.TeamCount < 1 {
		return goerr.Wrap(ErrInvalidAnchor, "team count must be positive", goerr.V("team_count", a.TeamCount))
	}
	if a.Team < 1 || int(a.Team) > a.TeamCount {
		return goerr.Wrap(ErrInvalidAnchor, "anchor team out of range",
			goerr.V("anchor_team", int(a.Team)),
			goerr.V("team_count", a.TeamCount))
	}
	return nil
}

// Teams lists every team index in order.
func (a Anchor) Teams() []Team {
	teams := make([]Team, 0, a.TeamCount)
	for i := 1; i <= a.TeamCount; i++ {
		teams = append(teams, Team(i))
	}
	return teams
}
