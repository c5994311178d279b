package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt" // For error wrapping

	"shift_rotation_bot/internal/domain/subscriber"

	"github.com/lib/pq" // PostgreSQL driver and error codes
)

// Custom errors
var ErrSubscriberNotFound = errors.New("subscriber not found")
var ErrDuplicateChatID = errors.New("subscriber with this chat ID already exists")

const uniqueViolation = "23505"

const subscriberColumns = `id, chat_id, first_name, team, watch_team, reminders_enabled, is_active, created_at, updated_at`

type PostgresSubscriberRepository struct {
	db *sql.DB
}

func NewPostgresSubscriberRepository(db *sql.DB) *PostgresSubscriberRepository {
	return &PostgresSubscriberRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubscriber(row rowScanner) (*subscriber.Subscriber, error) {
	s := &subscriber.Subscriber{}
	err := row.Scan(&s.ID, &s.ChatID, &s.FirstName, &s.Team, &s.WatchTeam, &s.RemindersEnabled, &s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *PostgresSubscriberRepository) Create(ctx context.Context, s *subscriber.Subscriber) error {
	query := `INSERT INTO subscribers (chat_id, first_name, team, watch_team, reminders_enabled, is_active)
               VALUES ($1, $2, $3, $4, $5, $6)
               RETURNING id, created_at, updated_at`

	err := r.db.QueryRowContext(ctx, query, s.ChatID, s.FirstName, int(s.Team), s.WatchTeam, s.RemindersEnabled, s.IsActive).Scan(&s.ID, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return ErrDuplicateChatID
		}
		return fmt.Errorf("error creating subscriber: %w", err)
	}
	return nil
}

func (r *PostgresSubscriberRepository) GetByChatID(ctx context.Context, chatID int64) (*subscriber.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE chat_id = $1`
	s, err := scanSubscriber(r.db.QueryRowContext(ctx, query, chatID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSubscriberNotFound
		}
		return nil, fmt.Errorf("error getting subscriber by chat ID: %w", err)
	}
	return s, nil
}

func (r *PostgresSubscriberRepository) Update(ctx context.Context, s *subscriber.Subscriber) error {
	query := `UPDATE subscribers
               SET first_name = $1, team = $2, watch_team = $3, reminders_enabled = $4, is_active = $5, updated_at = NOW()
               WHERE id = $6
               RETURNING updated_at`

	err := r.db.QueryRowContext(ctx, query, s.FirstName, int(s.Team), s.WatchTeam, s.RemindersEnabled, s.IsActive, s.ID).Scan(&s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSubscriberNotFound
		}
		return fmt.Errorf("error updating subscriber: %w", err)
	}
	return nil
}

func (r *PostgresSubscriberRepository) ListActive(ctx context.Context) ([]*subscriber.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers WHERE is_active = TRUE ORDER BY team, id`
	return r.list(ctx, query, "active")
}

func (r *PostgresSubscriberRepository) ListAll(ctx context.Context) ([]*subscriber.Subscriber, error) {
	query := `SELECT ` + subscriberColumns + ` FROM subscribers ORDER BY id`
	return r.list(ctx, query, "all")
}

func (r *PostgresSubscriberRepository) list(ctx context.Context, query, label string) ([]*subscriber.Subscriber, error) {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error listing %s subscribers: %w", label, err)
	}
	defer rows.Close()

	subscribers := make([]*subscriber.Subscriber, 0)
	for rows.Next() {
		s, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning %s subscriber: %w", label, err)
		}
		subscribers = append(subscribers, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s subscribers: %w", label, err)
	}
	return subscribers, nil
}
