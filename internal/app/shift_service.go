// internal/app/shift_service.go
package app

import (
	"errors"
	"time"

	"shift_rotation_bot/internal/domain/calendar"
	"shift_rotation_bot/internal/domain/countdown"
	"shift_rotation_bot/internal/domain/shift"

	"github.com/sirupsen/logrus"
)

// TeamStatus is everything the bot shows about one team at one instant.
type TeamStatus struct {
	Now        time.Time
	ShiftDay   calendar.Day
	Current    shift.Assignment
	OnShiftNow bool
	Code       shift.Code
	Off        *shift.OffProgress // nil while the team is in a working block
	Next       shift.Assignment   // next shift that has not started yet
	NextStart  time.Time
	Countdown  countdown.State // until NextStart
}

// ShiftService is the read side used by bot commands and notifications.
// It owns no state besides the immutable clock.
type ShiftService struct {
	clock    *shift.Clock
	detector *shift.TransferDetector
	loc      *time.Location
	logger   *logrus.Entry
}

func NewShiftService(clock *shift.Clock, detector *shift.TransferDetector, loc *time.Location, logger *logrus.Entry) *ShiftService {
	if loc == nil {
		loc = time.Local
	}
	return &ShiftService{
		clock:    clock,
		detector: detector,
		loc:      loc,
		logger:   logger,
	}
}

func (s *ShiftService) Clock() *shift.Clock { return s.clock }

// Location is the wall clock every shift hour is interpreted in.
func (s *ShiftService) Location() *time.Location { return s.loc }

// Status resolves the team's shift day at now and everything derived from it.
func (s *ShiftService) Status(team shift.Team, now time.Time) (*TeamStatus, error) {
	now = now.In(s.loc)
	current, err := s.clock.CurrentAt(now, team)
	if err != nil {
		return nil, err
	}
	code, err := s.clock.Code(current.Day, team)
	if err != nil {
		return nil, err
	}
	off, err := s.clock.OffProgress(current.Day, team)
	if err != nil {
		s.logIntegrity(err, team, current.Day)
		return nil, err
	}
	next, nextStart, err := s.NextStart(team, now)
	if err != nil {
		return nil, err
	}

	return &TeamStatus{
		Now:        now,
		ShiftDay:   current.Day,
		Current:    current,
		OnShiftNow: current.ActiveAt(now),
		Code:       code,
		Off:        off,
		Next:       next,
		NextStart:  nextStart,
		Countdown:  countdown.Tick(nextStart, now),
	}, nil
}

// NextStart finds the next working shift of team that starts after now, together with its start instant.
func (s *ShiftService) NextStart(team shift.Team, now time.Time) (shift.Assignment, time.Time, error) {
	now = now.In(s.loc)
	current, err := s.clock.CurrentAt(now, team)
	if err != nil {
		return shift.Assignment{}, time.Time{}, err
	}
	if start, ok := current.Start(s.loc); ok && start.After(now) {
		return current, start, nil
	}

	next, err := s.clock.NextWorking(current.Day, team)
	if err != nil {
		s.logIntegrity(err, team, current.Day)
		return shift.Assignment{}, time.Time{}, err
	}
	start, _ := next.Start(s.loc)
	return next, start, nil
}

// Snapshot returns every team's assignment for the shift day containing now.
func (s *ShiftService) Snapshot(now time.Time) (calendar.Day, []shift.Assignment, error) {
	day := s.clock.ShiftDayFor(now.In(s.loc))
	assignments, err := s.clock.Snapshot(day)
	if err != nil {
		return day, nil, err
	}
	return day, assignments, nil
}

// Transfers lists handovers between subject and other over days shift days starting at from.
func (s *ShiftService) Transfers(subject, other shift.Team, from calendar.Day, days int) (shift.TransferResult, error) {
	if days < 1 {
		days = 1
	}
	end := from.AddDays(days - 1)
	result, err := s.detector.Detect(subject, other, from, end)
	if err != nil {
		return shift.TransferResult{}, err
	}
	s.logger.WithFields(logrus.Fields{
		"subject":  int(subject),
		"other":    int(other),
		"from":     from.String(),
		"to":       end.String(),
		"total":    result.Total,
		"has_more": result.HasMore,
	}).Debug("Transfers detected")
	return result, nil
}

// ShiftDay is the logical shift day of now on the service's wall clock.
func (s *ShiftService) ShiftDay(now time.Time) calendar.Day {
	return s.clock.ShiftDayFor(now.In(s.loc))
}

func (s *ShiftService) logIntegrity(err error, team shift.Team, day calendar.Day) {
	if errors.Is(err, shift.ErrScanExhausted) {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"team": int(team),
			"day":  day.String(),
		}).Error("Rotation scan exhausted its one-cycle bound; check the anchor configuration")
	}
}
