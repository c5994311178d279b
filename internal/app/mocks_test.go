package app_test

import (
	"context"
	"time"

	"shift_rotation_bot/internal/domain/notification"
	"shift_rotation_bot/internal/domain/subscriber"

	"github.com/stretchr/testify/mock"
	"gopkg.in/telebot.v3"
)

// SubscriberRepository is a mock for subscriber.Repository.
type SubscriberRepository struct {
	mock.Mock
}

func (m *SubscriberRepository) Create(ctx context.Context, s *subscriber.Subscriber) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SubscriberRepository) GetByChatID(ctx context.Context, chatID int64) (*subscriber.Subscriber, error) {
	args := m.Called(ctx, chatID)
	if sub, ok := args.Get(0).(*subscriber.Subscriber); ok {
		return sub, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubscriberRepository) Update(ctx context.Context, s *subscriber.Subscriber) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *SubscriberRepository) ListActive(ctx context.Context) ([]*subscriber.Subscriber, error) {
	args := m.Called(ctx)
	if subs, ok := args.Get(0).([]*subscriber.Subscriber); ok {
		return subs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SubscriberRepository) ListAll(ctx context.Context) ([]*subscriber.Subscriber, error) {
	args := m.Called(ctx)
	if subs, ok := args.Get(0).([]*subscriber.Subscriber); ok {
		return subs, args.Error(1)
	}
	return nil, args.Error(1)
}

// NotificationRepository is a mock for notification.Repository.
type NotificationRepository struct {
	mock.Mock
}

func (m *NotificationRepository) CreateRun(ctx context.Context, run *notification.Run) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *NotificationRepository) GetRunByDayAndType(ctx context.Context, day time.Time, runType notification.RunType) (*notification.Run, error) {
	args := m.Called(ctx, day, runType)
	if run, ok := args.Get(0).(*notification.Run); ok {
		return run, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *NotificationRepository) RecordDelivery(ctx context.Context, d *notification.Delivery) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *NotificationRepository) HasDelivery(ctx context.Context, subscriberID int64, runID int32, ref string) (bool, error) {
	args := m.Called(ctx, subscriberID, runID, ref)
	return args.Bool(0), args.Error(1)
}

func (m *NotificationRepository) ListDeliveredSubscribers(ctx context.Context, runID int32, ref string, subscriberIDs []int64) (map[int64]bool, error) {
	args := m.Called(ctx, runID, ref, subscriberIDs)
	if delivered, ok := args.Get(0).(map[int64]bool); ok {
		return delivered, args.Error(1)
	}
	return nil, args.Error(1)
}

// TelegramClient is a mock for telegram.Client.
type TelegramClient struct {
	mock.Mock
}

func (m *TelegramClient) SendMessage(recipientChatID int64, text string, options *telebot.SendOptions) error {
	args := m.Called(recipientChatID, text, options)
	return args.Error(0)
}
