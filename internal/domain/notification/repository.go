// internal/domain/notification/repository.go
package notification

import (
	"context"
	"time"
)

// Repository defines operations for notification runs and their deliveries.
type Repository interface {
	CreateRun(ctx context.Context, run *Run) error
	GetRunByDayAndType(ctx context.Context, day time.Time, runType RunType) (*Run, error)

	// RecordDelivery stores a delivery; recording the same (subscriber, run, ref) twice is not an error.
	RecordDelivery(ctx context.Context, d *Delivery) error
	HasDelivery(ctx context.Context, subscriberID int64, runID int32, ref string) (bool, error)
	// ListDeliveredSubscribers returns which of the given subscribers already received (run, ref).
	ListDeliveredSubscribers(ctx context.Context, runID int32, ref string, subscriberIDs []int64) (map[int64]bool, error)
}
