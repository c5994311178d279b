// internal/domain/countdown/runner.go
package countdown

import (
	"context"
	"time"
)

// DefaultInterval is the 1 Hz cadence of a live countdown.
const DefaultInterval = time.Second

// Publisher receives each state; returning false stops the run.
type Publisher func(State) bool

// Run re-evaluates Tick every interval and publishes the result until the target
// expires, the publisher declines, or ctx is done. The first state is published immediately.
// now may be nil, in which case time.Now is used.
func Run(ctx context.Context, target time.Time, interval time.Duration, now func() time.Time, publish Publisher) State {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if now == nil {
		now = time.Now
	}

	state := Tick(target, now())
	if !publish(state) || state.Expired {
		return state
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return state
		case <-ticker.C:
			state = Tick(target, now())
			if !publish(state) || state.Expired {
				return state
			}
		}
	}
}
