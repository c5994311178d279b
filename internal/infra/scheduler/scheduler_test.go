package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"shift_rotation_bot/internal/infra/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type notificationServiceMock struct {
	mock.Mock
}

func (m *notificationServiceMock) AnnounceShiftChange(ctx context.Context, now time.Time) error {
	return m.Called(ctx, now).Error(0)
}

func (m *notificationServiceMock) ProcessUpcomingReminders(ctx context.Context, now time.Time, lead time.Duration) error {
	return m.Called(ctx, now, lead).Error(0)
}

func (m *notificationServiceMock) SendTransferDigest(ctx context.Context, now time.Time, days int) error {
	return m.Called(ctx, now, days).Error(0)
}

var validSpecs = Specs{ShiftChange: "0 7 * * *", ReminderCheck: "*/5 * * * *", TransferDigest: "0 20 * * *"}

func TestShiftScheduler_JobsPassConfiguredArguments(t *testing.T) {
	svc := &notificationServiceMock{}
	s := NewShiftScheduler(svc, logger.Discard(), validSpecs, 45*time.Minute, 3)
	fixed := time.Date(2025, time.July, 16, 7, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	svc.On("AnnounceShiftChange", mock.Anything, fixed).Return(nil)
	svc.On("ProcessUpcomingReminders", mock.Anything, fixed, 45*time.Minute).Return(nil)
	svc.On("SendTransferDigest", mock.Anything, fixed, 3).Return(errors.New("telegram down"))

	s.execute("shift_change", time.Second, s.runShiftChange)
	s.execute("shift_reminder", time.Second, s.runReminders)
	s.execute("transfer_digest", time.Second, s.runTransferDigest)

	svc.AssertExpectations(t)
}

func TestShiftScheduler_ExecuteSetsDeadline(t *testing.T) {
	s := NewShiftScheduler(&notificationServiceMock{}, logger.Discard(), validSpecs, time.Hour, 7)
	var hadDeadline bool
	s.execute("probe", time.Minute, func(ctx context.Context) error {
		_, hadDeadline = ctx.Deadline()
		return nil
	})
	assert.True(t, hadDeadline)
}

func TestShiftScheduler_StartRejectsInvalidSpec(t *testing.T) {
	specs := validSpecs
	specs.ReminderCheck = "every five minutes"
	s := NewShiftScheduler(&notificationServiceMock{}, logger.Discard(), specs, time.Hour, 7)
	require.Error(t, s.Start())
}

func TestShiftScheduler_StartStop(t *testing.T) {
	s := NewShiftScheduler(&notificationServiceMock{}, logger.Discard(), validSpecs, time.Hour, 7)
	require.NoError(t, s.Start())
	assert.Len(t, s.cronEngine.Entries(), 3)
	s.Stop()
}
