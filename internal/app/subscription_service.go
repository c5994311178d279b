package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shift_rotation_bot/internal/domain/shift"
	"shift_rotation_bot/internal/domain/subscriber"
	idb "shift_rotation_bot/internal/infra/database" // Repository errors like ErrSubscriberNotFound
)

// Custom application-level errors for subscription service
var ErrAdminNotAuthorized = errors.New("performing user is not authorized as an admin")
var ErrNotSubscribed = errors.New("chat is not subscribed")
var ErrAlreadyUnsubscribed = errors.New("chat is already unsubscribed")
var ErrWatchSameTeam = errors.New("watched team must differ from the subscribed team")

type SubscriptionService struct {
	subscriberRepo  subscriber.Repository
	clock           *shift.Clock
	adminTelegramID int64
}

func NewSubscriptionService(sr subscriber.Repository, clock *shift.Clock, adminID int64) *SubscriptionService {
	return &SubscriptionService{
		subscriberRepo:  sr,
		clock:           clock,
		adminTelegramID: adminID,
	}
}

func (s *SubscriptionService) validateTeams(team shift.Team, watch *shift.Team) error {
	if !s.clock.ValidTeam(team) {
		return fmt.Errorf("%w: %d (teams are 1..%d)", shift.ErrInvalidTeam, int(team), s.clock.TeamCount())
	}
	if watch == nil {
		return nil
	}
	if !s.clock.ValidTeam(*watch) {
		return fmt.Errorf("%w: %d (teams are 1..%d)", shift.ErrInvalidTeam, int(*watch), s.clock.TeamCount())
	}
	if *watch == team {
		return ErrWatchSameTeam
	}
	return nil
}

// Subscribe creates or re-activates the chat's subscription. created is false when an existing row was updated.
func (s *SubscriptionService) Subscribe(ctx context.Context, chatID int64, firstName string, team shift.Team, watch *shift.Team) (*subscriber.Subscriber, bool, error) {
	if err := s.validateTeams(team, watch); err != nil {
		return nil, false, err
	}

	var watchTeam sql.NullInt64
	if watch != nil {
		watchTeam = sql.NullInt64{Int64: int64(*watch), Valid: true}
	}

	existing, err := s.subscriberRepo.GetByChatID(ctx, chatID)
	if err == nil {
		existing.FirstName = firstName
		existing.Team = team
		existing.WatchTeam = watchTeam
		existing.IsActive = true
		if err := s.subscriberRepo.Update(ctx, existing); err != nil {
			return nil, false, fmt.Errorf("failed to update subscriber: %w", err)
		}
		return existing, false, nil
	}
	if !errors.Is(err, idb.ErrSubscriberNotFound) {
		return nil, false, fmt.Errorf("failed to check existing subscriber: %w", err)
	}

	sub := &subscriber.Subscriber{
		ChatID:           chatID,
		FirstName:        firstName,
		Team:             team,
		WatchTeam:        watchTeam,
		RemindersEnabled: true,
		IsActive:         true,
	}
	if err := s.subscriberRepo.Create(ctx, sub); err != nil {
		return nil, false, fmt.Errorf("failed to create subscriber in repository: %w", err)
	}
	return sub, true, nil
}

// Get returns the chat's subscription.
func (s *SubscriptionService) Get(ctx context.Context, chatID int64) (*subscriber.Subscriber, error) {
	sub, err := s.subscriberRepo.GetByChatID(ctx, chatID)
	if err != nil {
		if errors.Is(err, idb.ErrSubscriberNotFound) {
			return nil, ErrNotSubscribed
		}
		return nil, fmt.Errorf("failed to get subscriber: %w", err)
	}
	return sub, nil
}

// Unsubscribe deactivates the chat's subscription.
func (s *SubscriptionService) Unsubscribe(ctx context.Context, chatID int64) (*subscriber.Subscriber, error) {
	sub, err := s.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !sub.IsActive {
		return sub, ErrAlreadyUnsubscribed
	}
	sub.IsActive = false
	if err := s.subscriberRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to deactivate subscriber: %w", err)
	}
	return sub, nil
}

// SetReminders toggles lead-time reminders for an active subscription.
func (s *SubscriptionService) SetReminders(ctx context.Context, chatID int64, enabled bool) (*subscriber.Subscriber, error) {
	sub, err := s.Get(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if !sub.IsActive {
		return nil, ErrNotSubscribed
	}
	if sub.RemindersEnabled == enabled {
		return sub, nil
	}
	sub.RemindersEnabled = enabled
	if err := s.subscriberRepo.Update(ctx, sub); err != nil {
		return nil, fmt.Errorf("failed to update reminders: %w", err)
	}
	return sub, nil
}

// ListSubscribers is admin-only; all includes deactivated chats.
func (s *SubscriptionService) ListSubscribers(ctx context.Context, performingAdminID int64, all bool) ([]*subscriber.Subscriber, error) {
	if performingAdminID != s.adminTelegramID {
		return nil, ErrAdminNotAuthorized
	}
	var (
		subs []*subscriber.Subscriber
		err  error
	)
	if all {
		subs, err = s.subscriberRepo.ListAll(ctx)
	} else {
		subs, err = s.subscriberRepo.ListActive(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list subscribers: %w", err)
	}
	return subs, nil
}
