package scheduler

import (
	"context"
	"time"

	"shift_rotation_bot/internal/app" // For NotificationService interface

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Specs are the cron expressions of the scheduler's jobs.
type Specs struct {
	ShiftChange    string // e.g. "0 7 * * *" (07:00 daily)
	ReminderCheck  string // e.g. "*/5 * * * *" (every 5 minutes)
	TransferDigest string // e.g. "0 20 * * *" (20:00 daily)
}

type ShiftScheduler struct {
	cronEngine   *cron.Cron
	notifService app.NotificationService // Using the interface
	logger       *logrus.Entry
	specs        Specs
	reminderLead time.Duration
	digestDays   int
	now          func() time.Time
}

func NewShiftScheduler(
	notifService app.NotificationService,
	logger *logrus.Entry,
	specs Specs,
	reminderLead time.Duration,
	digestDays int,
) *ShiftScheduler {
	return &ShiftScheduler{
		cronEngine:   cron.New(cron.WithLocation(time.Local)), // Use server's local time for cron
		notifService: notifService,
		logger:       logger,
		specs:        specs,
		reminderLead: reminderLead,
		digestDays:   digestDays,
		now:          time.Now,
	}
}

// Start registers every job and starts the cron engine. An invalid spec is returned as an error.
func (s *ShiftScheduler) Start() error {
	s.logger.Info("Starting shift scheduler...")

	jobs := []struct {
		name    string
		spec    string
		timeout time.Duration
		run     func(ctx context.Context) error
	}{
		{"shift_change", s.specs.ShiftChange, 5 * time.Minute, s.runShiftChange},
		{"shift_reminder", s.specs.ReminderCheck, 1 * time.Minute, s.runReminders},
		{"transfer_digest", s.specs.TransferDigest, 5 * time.Minute, s.runTransferDigest},
	}

	for _, job := range jobs {
		job := job
		_, err := s.cronEngine.AddFunc(job.spec, func() {
			s.execute(job.name, job.timeout, job.run)
		})
		if err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{"job": job.name, "spec": job.spec}).Error("Could not add cron job")
			return err
		}
		s.logger.WithFields(logrus.Fields{"job": job.name, "spec": job.spec}).Info("Cron job registered")
	}

	s.cronEngine.Start()
	s.logger.Info("Shift scheduler started with jobs.")
	return nil
}

// execute runs a job with its own timeout context, like every cron callback here.
func (s *ShiftScheduler) execute(name string, timeout time.Duration, run func(ctx context.Context) error) {
	log := s.logger.WithField("job", name)
	log.Debug("Cron job triggered")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := run(ctx); err != nil {
		log.WithError(err).Error("Cron job failed")
	}
}

func (s *ShiftScheduler) runShiftChange(ctx context.Context) error {
	return s.notifService.AnnounceShiftChange(ctx, s.now())
}

func (s *ShiftScheduler) runReminders(ctx context.Context) error {
	return s.notifService.ProcessUpcomingReminders(ctx, s.now(), s.reminderLead)
}

func (s *ShiftScheduler) runTransferDigest(ctx context.Context) error {
	return s.notifService.SendTransferDigest(ctx, s.now(), s.digestDays)
}

func (s *ShiftScheduler) Stop() {
	s.logger.Info("Stopping shift scheduler...")
	ctx := s.cronEngine.Stop() // Stops the scheduler from adding new jobs, waits for running jobs.
	<-ctx.Done()               // Wait for graceful shutdown
	s.logger.Info("Shift scheduler gracefully stopped.")
}
