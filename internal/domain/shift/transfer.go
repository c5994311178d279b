// internal/domain/shift/transfer.go
package shift

import (
	"time"

	"shift_rotation_bot/internal/domain/calendar"
)

// DefaultMaxTransfers caps a single detection result.
const DefaultMaxTransfers = 20

// TransferEvent is a handover between two teams: From's shift ends as To's begins.
// IsHandover is true when From is the subject team of the query.
type TransferEvent struct {
	Day        calendar.Day
	From       Team
	To         Team
	FromKind   Kind
	ToKind     Kind
	IsHandover bool
}

// At is the instant the handover takes place.
func (e TransferEvent) At(loc *time.Location) time.Time {
	if e.FromKind == Night {
		return e.Day.AddDays(1).At(ChangeHour, loc)
	}
	start, _, _ := e.ToKind.Hours()
	return e.Day.At(start, loc)
}

// TransferResult holds the capped events and the uncapped total.
type TransferResult struct {
	Events  []TransferEvent
	Total   int
	HasMore bool
}

// TransferDetector finds handovers between pairs of teams.
type TransferDetector struct {
	clock      *Clock
	maxResults int
}

// NewTransferDetector returns a detector capped at maxResults; non-positive values use DefaultMaxTransfers.
func NewTransferDetector(clock *Clock, maxResults int) *TransferDetector {
	if maxResults <= 0 {
		maxResults = DefaultMaxTransfers
	}
	return &TransferDetector{clock: clock, maxResults: maxResults}
}

func (d *TransferDetector) MaxResults() int { return d.maxResults }

type dayKinds struct {
	subject Kind
	other   Kind
}

// Detect scans start..end inclusive and returns the transfers between subject and other
// in day-ascending order. Only M→E, E→N and N→M(next day) boundaries count.
func (d *TransferDetector) Detect(subject, other Team, start, end calendar.Day) (TransferResult, error) {
	if err := d.clock.checkInputs(start, subject); err != nil {
		return TransferResult{}, err
	}
	if err := d.clock.checkInputs(end, other); err != nil {
		return TransferResult{}, err
	}

	if start.After(end) {
		return TransferResult{}, nil
	}

	today, err := d.kindsOn(start, subject, other)
	if err != nil {
		return TransferResult{}, err
	}
	var all []TransferEvent
	for day := start; !day.After(end); day = day.AddDays(1) {
		next := day.AddDays(1)
		tomorrow, err := d.kindsOn(next, subject, other)
		if err != nil {
			return TransferResult{}, err
		}
		hasNext := !next.After(end)

		handover := func(fromKind, toKind Kind) TransferEvent {
			return TransferEvent{Day: day, From: subject, To: other, FromKind: fromKind, ToKind: toKind, IsHandover: true}
		}
		takeover := func(fromKind, toKind Kind) TransferEvent {
			return TransferEvent{Day: day, From: other, To: subject, FromKind: fromKind, ToKind: toKind, IsHandover: false}
		}

		if today.subject == Morning && today.other == Evening {
			all = append(all, handover(Morning, Evening))
		}
		if today.subject == Evening && today.other == Night {
			all = append(all, handover(Evening, Night))
		}
		if hasNext && today.subject == Night && tomorrow.other == Morning {
			all = append(all, handover(Night, Morning))
		}
		if today.other == Morning && today.subject == Evening {
			all = append(all, takeover(Morning, Evening))
		}
		if today.other == Evening && today.subject == Night {
			all = append(all, takeover(Evening, Night))
		}
		if hasNext && today.other == Night && tomorrow.subject == Morning {
			all = append(all, takeover(Night, Morning))
		}

		today = tomorrow
	}

	result := TransferResult{Total: len(all), HasMore: len(all) > d.maxResults}
	if result.HasMore {
		all = all[:d.maxResults]
	}
	result.Events = all
	return result, nil
}

func (d *TransferDetector) kindsOn(day calendar.Day, subject, other Team) (dayKinds, error) {
	s, err := d.clock.Assign(day, subject)
	if err != nil {
		return dayKinds{}, err
	}
	o, err := d.clock.Assign(day, other)
	if err != nil {
		return dayKinds{}, err
	}
	return dayKinds{subject: s.Kind, other: o.Kind}, nil
}
