// internal/app/notification_service.go
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shift_rotation_bot/internal/domain/calendar"
	"shift_rotation_bot/internal/domain/countdown"
	"shift_rotation_bot/internal/domain/notification"
	"shift_rotation_bot/internal/domain/subscriber"
	domainTelegram "shift_rotation_bot/internal/domain/telegram"
	idb "shift_rotation_bot/internal/infra/database"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// NotificationService pushes shift information to subscribed chats.
type NotificationService interface {
	// AnnounceShiftChange tells every active subscriber what their team works on the new shift day.
	AnnounceShiftChange(ctx context.Context, now time.Time) error
	// ProcessUpcomingReminders warns subscribers whose next shift starts within lead.
	ProcessUpcomingReminders(ctx context.Context, now time.Time, lead time.Duration) error
	// SendTransferDigest lists handovers with each subscriber's watched team over the next days.
	SendTransferDigest(ctx context.Context, now time.Time, days int) error
}

// NotificationServiceImpl implements the NotificationService interface.
type NotificationServiceImpl struct {
	subscriberRepo subscriber.Repository
	notifRepo      notification.Repository
	telegramClient domainTelegram.Client
	shifts         *ShiftService
	logger         *logrus.Entry
}

func NewNotificationServiceImpl(
	sr subscriber.Repository,
	nr notification.Repository,
	tc domainTelegram.Client,
	shifts *ShiftService,
	logger *logrus.Entry,
) *NotificationServiceImpl {
	return &NotificationServiceImpl{
		subscriberRepo: sr,
		notifRepo:      nr,
		telegramClient: tc,
		shifts:         shifts,
		logger:         logger,
	}
}

// ensureRun finds or creates the run for (day, runType) so repeated job firings reuse it.
func (s *NotificationServiceImpl) ensureRun(ctx context.Context, day calendar.Day, runType notification.RunType) (*notification.Run, error) {
	dayTime := day.At(0, time.UTC)
	run, err := s.notifRepo.GetRunByDayAndType(ctx, dayTime, runType)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, idb.ErrRunNotFound) {
		return nil, fmt.Errorf("failed to get notification run: %w", err)
	}

	run = &notification.Run{Day: dayTime, Type: runType}
	if err := s.notifRepo.CreateRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to create notification run: %w", err)
	}
	s.logger.WithFields(logrus.Fields{"run_id": run.ID, "run_type": runType, "day": day.String()}).Info("Notification run created")
	return run, nil
}

func subscriberIDs(subs []*subscriber.Subscriber) []int64 {
	ids := make([]int64, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.ID)
	}
	return ids
}

// send delivers text and records it. Failures are logged per subscriber so one chat cannot stall the batch.
func (s *NotificationServiceImpl) send(ctx context.Context, sub *subscriber.Subscriber, run *notification.Run, ref, text string, log *logrus.Entry) bool {
	if err := s.telegramClient.SendMessage(sub.ChatID, text, &telebot.SendOptions{ParseMode: telebot.ModeDefault}); err != nil {
		log.WithError(err).Error("Failed to send notification")
		return false
	}
	delivery := &notification.Delivery{SubscriberID: sub.ID, RunID: run.ID, Ref: ref, SentAt: time.Now()}
	if err := s.notifRepo.RecordDelivery(ctx, delivery); err != nil {
		log.WithError(err).Error("Notification sent but delivery could not be recorded")
	}
	return true
}

func (s *NotificationServiceImpl) AnnounceShiftChange(ctx context.Context, now time.Time) error {
	day := s.shifts.ShiftDay(now)
	log := s.logger.WithFields(logrus.Fields{"job": "shift_change", "day": day.String()})
	log.Info("Announcing shift change")

	subs, err := s.subscriberRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active subscribers: %w", err)
	}
	if len(subs) == 0 {
		log.Info("No active subscribers; nothing to announce")
		return nil
	}

	run, err := s.ensureRun(ctx, day, notification.RunTypeShiftChange)
	if err != nil {
		return err
	}
	delivered, err := s.notifRepo.ListDeliveredSubscribers(ctx, run.ID, "", subscriberIDs(subs))
	if err != nil {
		return fmt.Errorf("failed to list delivered subscribers: %w", err)
	}

	sent := 0
	for _, sub := range subs {
		subLog := log.WithFields(logrus.Fields{"subscriber_id": sub.ID, "chat_id": sub.ChatID, "team": int(sub.Team)})
		if delivered[sub.ID] {
			subLog.Debug("Shift change already announced")
			continue
		}
		st, err := s.shifts.Status(sub.Team, now)
		if err != nil {
			subLog.WithError(err).Error("Failed to resolve shift status")
			continue
		}
		text := fmt.Sprintf("Good morning, %s!\n%s", sub.FirstName, FormatStatus(sub.Team, st))
		if s.send(ctx, sub, run, "", text, subLog) {
			sent++
		}
	}
	log.WithField("sent", sent).Info("Shift change announcements done")
	return nil
}

func (s *NotificationServiceImpl) ProcessUpcomingReminders(ctx context.Context, now time.Time, lead time.Duration) error {
	log := s.logger.WithFields(logrus.Fields{"job": "shift_reminder", "lead": lead.String()})
	log.Debug("Processing upcoming shift reminders")

	subs, err := s.subscriberRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active subscribers: %w", err)
	}

	for _, sub := range subs {
		if !sub.RemindersEnabled {
			continue
		}
		subLog := log.WithFields(logrus.Fields{"subscriber_id": sub.ID, "chat_id": sub.ChatID, "team": int(sub.Team)})

		next, start, err := s.shifts.NextStart(sub.Team, now)
		if err != nil {
			subLog.WithError(err).Error("Failed to resolve next shift")
			continue
		}
		state := countdown.Tick(start, now)
		if state.Expired || time.Duration(state.RemainingSeconds)*time.Second > lead {
			continue
		}

		run, err := s.ensureRun(ctx, next.Day, notification.RunTypeShiftReminder)
		if err != nil {
			subLog.WithError(err).Error("Failed to prepare reminder run")
			continue
		}
		ref := start.Format(time.RFC3339)
		already, err := s.notifRepo.HasDelivery(ctx, sub.ID, run.ID, ref)
		if err != nil {
			subLog.WithError(err).Error("Failed to check reminder delivery")
			continue
		}
		if already {
			continue
		}

		text := fmt.Sprintf("Reminder: your %s shift starts at %s, in %s.",
			FormatKindHours(next.Kind), start.Format(clockLayout), state.Formatted)
		if s.send(ctx, sub, run, ref, text, subLog) {
			subLog.WithField("shift_start", ref).Info("Shift reminder sent")
		}
	}
	return nil
}

func (s *NotificationServiceImpl) SendTransferDigest(ctx context.Context, now time.Time, days int) error {
	from := s.shifts.ShiftDay(now)
	log := s.logger.WithFields(logrus.Fields{"job": "transfer_digest", "from": from.String(), "days": days})
	log.Info("Sending transfer digest")

	subs, err := s.subscriberRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active subscribers: %w", err)
	}

	var run *notification.Run
	for _, sub := range subs {
		watch, ok := sub.Watched()
		if !ok {
			continue
		}
		subLog := log.WithFields(logrus.Fields{"subscriber_id": sub.ID, "team": int(sub.Team), "watch_team": int(watch)})

		result, err := s.shifts.Transfers(sub.Team, watch, from, days)
		if err != nil {
			subLog.WithError(err).Error("Failed to detect transfers")
			continue
		}
		if len(result.Events) == 0 {
			subLog.Debug("No transfers in digest window")
			continue
		}

		if run == nil {
			if run, err = s.ensureRun(ctx, from, notification.RunTypeTransferDigest); err != nil {
				return err
			}
		}
		already, err := s.notifRepo.HasDelivery(ctx, sub.ID, run.ID, "")
		if err != nil {
			subLog.WithError(err).Error("Failed to check digest delivery")
			continue
		}
		if already {
			continue
		}

		text := FormatTransfers(sub.Team, watch, result, s.shifts.Location())
		s.send(ctx, sub, run, "", text, subLog)
	}
	return nil
}
