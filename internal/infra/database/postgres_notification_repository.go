// internal/infra/database/postgres_notification_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"shift_rotation_bot/internal/domain/notification"

	"github.com/lib/pq" // For pq.Array and driver registration
)

// Custom errors specific to notification repository
var ErrRunNotFound = errors.New("notification run not found")

type PostgresNotificationRepository struct {
	db *sql.DB
}

func NewPostgresNotificationRepository(db *sql.DB) *PostgresNotificationRepository {
	return &PostgresNotificationRepository{db: db}
}

// --- Run Methods ---

func (r *PostgresNotificationRepository) CreateRun(ctx context.Context, run *notification.Run) error {
	query := `INSERT INTO notification_runs (run_day, run_type)
               VALUES ($1, $2)
               ON CONFLICT (run_day, run_type) DO UPDATE SET run_type = EXCLUDED.run_type
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, dateOnly(run.Day), run.Type).Scan(&run.ID, &run.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification run: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) GetRunByDayAndType(ctx context.Context, day time.Time, runType notification.RunType) (*notification.Run, error) {
	query := `SELECT id, run_day, run_type, created_at FROM notification_runs WHERE run_day = $1 AND run_type = $2`
	run := notification.Run{}
	err := r.db.QueryRowContext(ctx, query, dateOnly(day), runType).Scan(&run.ID, &run.Day, &run.Type, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRunNotFound
		}
		return nil, fmt.Errorf("error getting notification run by day and type: %w", err)
	}
	return &run, nil
}

// --- Delivery Methods ---

func (r *PostgresNotificationRepository) RecordDelivery(ctx context.Context, d *notification.Delivery) error {
	if d.SentAt.IsZero() {
		d.SentAt = time.Now()
	}
	query := `INSERT INTO notification_deliveries (subscriber_id, run_id, ref, sent_at)
               VALUES ($1, $2, $3, $4)
               ON CONFLICT (subscriber_id, run_id, ref) DO NOTHING
               RETURNING id`
	err := r.db.QueryRowContext(ctx, query, d.SubscriberID, d.RunID, d.Ref, d.SentAt).Scan(&d.ID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) { // Already recorded
			return nil
		}
		return fmt.Errorf("error recording delivery: %w", err)
	}
	return nil
}

func (r *PostgresNotificationRepository) HasDelivery(ctx context.Context, subscriberID int64, runID int32, ref string) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM notification_deliveries WHERE subscriber_id = $1 AND run_id = $2 AND ref = $3)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, subscriberID, runID, ref).Scan(&exists); err != nil {
		return false, fmt.Errorf("error checking delivery: %w", err)
	}
	return exists, nil
}

func (r *PostgresNotificationRepository) ListDeliveredSubscribers(ctx context.Context, runID int32, ref string, subscriberIDs []int64) (map[int64]bool, error) {
	delivered := make(map[int64]bool)
	if len(subscriberIDs) == 0 {
		return delivered, nil
	}

	query := `SELECT subscriber_id
               FROM notification_deliveries
               WHERE run_id = $1
                 AND ref = $2
                 AND subscriber_id = ANY($3::bigint[])`
	rows, err := r.db.QueryContext(ctx, query, runID, ref, pq.Array(subscriberIDs))
	if err != nil {
		return nil, fmt.Errorf("error listing delivered subscribers: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("error scanning delivered subscriber: %w", err)
		}
		delivered[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating delivered subscribers: %w", err)
	}
	return delivered, nil
}

// dateOnly strips the clock so DATE columns compare on the calendar day.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
