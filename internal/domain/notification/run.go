// internal/domain/notification/run.go
package notification

import "time"

// Run is a single execution of a scheduled job for one shift day (e.g. shift change 2025-07-16).
// Corresponds to the 'notification_runs' table.
type Run struct {
	ID        int32
	Day       time.Time // Shift day the run covers
	Type      RunType
	CreatedAt time.Time
}

// Delivery records that a subscriber was sent a message for a run.
// Ref distinguishes several messages within one run, e.g. the start instant of a reminded shift.
type Delivery struct {
	ID           int64
	SubscriberID int64
	RunID        int32
	Ref          string
	SentAt       time.Time
}
