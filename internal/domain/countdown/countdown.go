// internal/domain/countdown/countdown.go
package countdown

import (
	"fmt"
	"time"
)

const (
	secondsPerMinute = 60
	secondsPerHour   = 60 * secondsPerMinute
	secondsPerDay    = 24 * secondsPerHour
)

// State is one evaluation of a countdown.
type State struct {
	RemainingSeconds int64
	Expired          bool
	Formatted        string
}

// Tick computes the time left until target. A zero target, or one at or before now, is expired.
func Tick(target, now time.Time) State {
	if target.IsZero() || !target.After(now) {
		return State{Expired: true}
	}
	diff := int64(target.Sub(now) / time.Second)
	return State{RemainingSeconds: diff, Formatted: Format(diff)}
}

// Format renders seconds using the two largest units, coarsening as the duration grows:
// "2d 3h 15m", "4h 5m", "12m 30s", "9s".
func Format(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	days := seconds / secondsPerDay
	hours := seconds % secondsPerDay / secondsPerHour
	minutes := seconds % secondsPerHour / secondsPerMinute
	secs := seconds % secondsPerMinute

	switch {
	case days > 0:
		return fmt.Sprintf("%dd %dh %dm", days, hours, minutes)
	case hours > 0:
		return fmt.Sprintf("%dh %dm", hours, minutes)
	case minutes > 0:
		return fmt.Sprintf("%dm %ds", minutes, secs)
	default:
		return fmt.Sprintf("%ds", secs)
	}
}
