package subscriber

import (
	"database/sql"
	"time"

	"shift_rotation_bot/internal/domain/shift"
)

// Subscriber is a Telegram chat following one team's rotation.
type Subscriber struct {
	ID               int64
	ChatID           int64
	FirstName        string
	Team             shift.Team
	WatchTeam        sql.NullInt64 // Team whose handovers are reported in the digest
	RemindersEnabled bool
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Watched returns the watched team, if any.
func (s *Subscriber) Watched() (shift.Team, bool) {
	if !s.WatchTeam.Valid {
		return 0, false
	}
	return shift.Team(s.WatchTeam.Int64), true
}
